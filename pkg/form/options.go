package form

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/locale"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Mode selects how controls are presented.
type Mode string

const (
	ModeEdit     Mode = "edit"
	ModeOverride Mode = "override"
)

// Hooks are the callbacks a form fires. Nil hooks are skipped.
type Hooks struct {
	SchemaLoaded     func(title string, doc *schema.Schema)
	RenderComplete   func()
	PopulateComplete func()
	// Create and Update receive the server response and its `next` link.
	// Returning true follows the link.
	Create      func(data map[string]any, next *schema.Link) bool
	Update      func(data map[string]any, next *schema.Link) bool
	Save        func(data map[string]any)
	ButtonClick func(label string)
	// CountryChange fires when a country select changes value.
	CountryChange func(key, value string)
}

type config struct {
	readonly             bool
	columns              int
	placeholderMaxLength int
	disableValidation    bool
	persist              bool
	remoteImageCapture   bool
	mode                 Mode
	buttons              []string
	reset                bool
	title                string
	description          string
	src                  string
	locale               locale.Context
	registry             *widgets.Registry
	client               *hypermedia.Client
	store                SessionStore
	logger               *slog.Logger
	hooks                Hooks
	remoteTimeout        time.Duration
	loader               schema.Loader
}

func defaultConfig() config {
	return config{
		placeholderMaxLength: widgets.DefaultPlaceholderMaxLength,
		mode:                 ModeEdit,
		locale:               locale.Default(),
		logger:               slog.Default(),
	}
}

// Option configures a Form.
type Option func(*config)

// WithReadonly renders every control read-only and disabled.
func WithReadonly(readonly bool) Option {
	return func(c *config) {
		c.readonly = readonly
	}
}

// WithColumns spreads fields across n columns when n > 1.
func WithColumns(n int) Option {
	return func(c *config) {
		c.columns = n
	}
}

// WithPlaceholderMaxLength sets the description length threshold.
func WithPlaceholderMaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.placeholderMaxLength = n
		}
	}
}

// WithDisableValidation makes every validation pass succeed.
func WithDisableValidation(disabled bool) Option {
	return func(c *config) {
		c.disableValidation = disabled
	}
}

// WithPersist keeps raw field values in the session store keyed by source.
func WithPersist(persist bool) Option {
	return func(c *config) {
		c.persist = persist
	}
}

// WithRemoteImageCapture selects the remote camera variant for image fields.
func WithRemoteImageCapture(remote bool) Option {
	return func(c *config) {
		c.remoteImageCapture = remote
	}
}

// WithMode sets the presentation mode.
func WithMode(mode Mode) Option {
	return func(c *config) {
		if mode != "" {
			c.mode = mode
		}
	}
}

// WithButtons adds extra buttons whose clicks reach Hooks.ButtonClick.
func WithButtons(labels ...string) Option {
	return func(c *config) {
		c.buttons = append([]string(nil), labels...)
	}
}

// WithReset adds a reset button next to the submit button.
func WithReset(reset bool) Option {
	return func(c *config) {
		c.reset = reset
	}
}

// WithTitle overrides the schema title.
func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

// WithDescription overrides the schema description.
func WithDescription(description string) Option {
	return func(c *config) {
		c.description = description
	}
}

// WithSource sets the schema location Load fetches.
func WithSource(src string) Option {
	return func(c *config) {
		c.src = src
	}
}

// WithLocale sets the locale tables used for currency and phone widgets.
func WithLocale(ctx locale.Context) Option {
	return func(c *config) {
		c.locale = ctx
	}
}

// WithRegistry replaces the widget registry.
func WithRegistry(reg *widgets.Registry) Option {
	return func(c *config) {
		c.registry = reg
	}
}

// WithClient sets the hypermedia client used for load and save.
func WithClient(client *hypermedia.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithSessionStore replaces the persistence store.
func WithSessionStore(store SessionStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks installs callbacks.
func WithHooks(hooks Hooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithRemoteTimeout caps remote option lookups for selects.
func WithRemoteTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.remoteTimeout = timeout
	}
}

// WithLoader resolves schema sources through loader instead of the
// hypermedia client.
func WithLoader(loader schema.Loader) Option {
	return func(c *config) {
		c.loader = loader
	}
}

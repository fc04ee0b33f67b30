package builder

import (
	"log/slog"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
)

type config struct {
	src        string
	toolboxSrc string
	client     *hypermedia.Client
	loader     schema.Loader
	dialogs    Dialogs
	logger     *slog.Logger
	forms      []form.Option
}

// Option configures a Builder.
type Option func(*config)

// WithSource sets the location of the describing schema. Its properties
// drive the metadata form; its links provide the create, update and
// instances actions.
func WithSource(src string) Option {
	return func(c *config) {
		c.src = src
	}
}

// WithToolboxSource sets the location of the field template array.
func WithToolboxSource(src string) Option {
	return func(c *config) {
		c.toolboxSrc = src
	}
}

// WithClient sets the hypermedia client used for every request.
func WithClient(client *hypermedia.Client) Option {
	return func(c *config) {
		c.client = client
	}
}

// WithLoader resolves the schema and toolbox sources through loader.
func WithLoader(loader schema.Loader) Option {
	return func(c *config) {
		c.loader = loader
	}
}

// WithDialogs sets the dialog implementation.
func WithDialogs(dialogs Dialogs) Option {
	return func(c *config) {
		c.dialogs = dialogs
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

// WithFormOptions are applied to the preview, metadata and property forms.
func WithFormOptions(options ...form.Option) Option {
	return func(c *config) {
		c.forms = append(c.forms, options...)
	}
}

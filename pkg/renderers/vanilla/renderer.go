// Package vanilla renders form views as plain HTML through pongo2 templates.
package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	rendertemplate "github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/render/template/pongo"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
)

// Name is the renderer name used in a render.Registry.
const Name = "vanilla"

const formTemplate = "templates/form.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	classes          map[string]string
	overrides        map[string]string
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithRegistry replaces the component registry.
func WithRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithChromeClasses overrides chrome classes by template key (form, header,
// grid, fieldset, field, actions, errors).
func WithChromeClasses(classes map[string]string) Option {
	return func(cfg *config) {
		if cfg.classes == nil {
			cfg.classes = make(map[string]string, len(classes))
		}
		for key, value := range classes {
			cfg.classes[key] = value
		}
	}
}

// WithComponentOverrides pins form keys to component names.
func WithComponentOverrides(overrides map[string]string) Option {
	return func(cfg *config) {
		if cfg.overrides == nil {
			cfg.overrides = make(map[string]string, len(overrides))
		}
		for key, value := range overrides {
			cfg.overrides[key] = value
		}
	}
}

// WithStylesheets links stylesheets ahead of the form markup.
func WithStylesheets(hrefs ...string) Option {
	return func(cfg *config) {
		cfg.stylesheets = append(cfg.stylesheets, hrefs...)
	}
}

// Renderer is the vanilla HTML renderer. It is safe for concurrent use.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	registry    *components.Registry
	classes     map[string]string
	overrides   map[string]string
	stylesheets []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		registry:    cfg.registry,
		classes:     mergeClasses(cfg.classes),
		overrides:   cfg.overrides,
		stylesheets: cfg.stylesheets,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws view as a <form> element. Error messages in options are
// mapped onto fields; the rest are listed at the top of the form.
func (r *Renderer) Render(ctx context.Context, view *form.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if view == nil {
		return nil, fmt.Errorf("vanilla renderer: view is nil")
	}

	mapping := render.MapErrorPayload(view, options.Errors)
	fields := &fieldRenderer{
		templates: r.templates,
		registry:  r.registry,
		classes:   r.classes,
		overrides: r.overrides,
		errors:    mapping.Fields,
	}

	columns := make([][]string, 0, len(view.Columns))
	for _, column := range view.Columns {
		markup := make([]string, 0, len(column.Controls))
		for _, control := range column.Controls {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			html, err := fields.render(control)
			if err != nil {
				return nil, err
			}
			markup = append(markup, html)
		}
		columns = append(columns, markup)
	}

	method, _ := render.FormMethod(options.Method)
	hidden := make([]map[string]any, 0, len(options.Hidden)+1)
	for _, field := range options.HiddenFields() {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	schemaTypes := make([]map[string]any, 0, len(view.SchemaTypes))
	for idx, title := range view.SchemaTypes {
		schemaTypes = append(schemaTypes, map[string]any{
			"value":    strconv.Itoa(idx),
			"label":    title,
			"selected": idx == view.SchemaIndex,
		})
	}

	buttons := make([]map[string]any, 0, len(view.Buttons))
	for _, button := range view.Buttons {
		buttons = append(buttons, map[string]any{
			"name":  button.Name,
			"type":  button.Type,
			"label": button.Label,
		})
	}

	stylesheets := append([]string(nil), r.stylesheets...)
	stylesheets = append(stylesheets, r.registry.Stylesheets(fields.used)...)

	result, err := r.templates.RenderTemplate(formTemplate, map[string]any{
		"form": map[string]any{
			"action":      options.Action,
			"method":      method,
			"title":       view.Title,
			"description": sanitizeDescription(view.Description),
			"readonly":    view.Readonly,
			"schemaTypes": schemaTypes,
			"hidden":      hidden,
			"errors":      mapping.Form,
			"multiColumn": view.MultiColumn,
			"columnCount": len(view.Columns),
			"columns":     columns,
			"buttons":     buttons,
			"stylesheets": dedupe(stylesheets),
		},
		"classes": r.classes,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup || value == "" {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

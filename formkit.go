// Package formkit renders hypermedia JSON schemas as forms. The root package
// bundles the common path of loading a schema, building a form and rendering
// it; the pkg/ packages expose each stage.
package formkit

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formkit/internal/loader"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// RenderOptions is re-exported for callers that only import the root package.
type RenderOptions = render.RenderOptions

// Option configures GenerateHTML.
type Option func(*generator)

type generator struct {
	loader   schema.Loader
	renderer render.Renderer
	forms    []form.Option
	render   RenderOptions
}

// WithLoader resolves sources through loader instead of a default file and
// fs loader.
func WithLoader(l schema.Loader) Option {
	return func(g *generator) {
		g.loader = l
	}
}

// WithRenderer replaces the vanilla HTML renderer.
func WithRenderer(r render.Renderer) Option {
	return func(g *generator) {
		g.renderer = r
	}
}

// WithFormOptions are applied to the form before it is rendered.
func WithFormOptions(options ...form.Option) Option {
	return func(g *generator) {
		g.forms = append(g.forms, options...)
	}
}

// WithRenderOptions sets action, method, hidden fields and error messages.
func WithRenderOptions(options RenderOptions) Option {
	return func(g *generator) {
		g.render = options
	}
}

// NewLoader constructs the default loader while keeping its concrete type
// hidden.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// GenerateHTML loads src, builds a form from its schemas and renders the
// first one. The form action defaults to the schema's create link.
func GenerateHTML(ctx context.Context, src schema.Source, options ...Option) ([]byte, error) {
	if src == nil {
		return nil, errors.New("formkit: source is required")
	}
	g := newGenerator(options)
	if g.loader == nil {
		g.loader = NewLoader()
	}
	doc, err := g.loader.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("formkit: load %s: %w", src.Location(), err)
	}
	return g.generate(ctx, doc)
}

// GenerateHTMLFromDocument renders a pre-loaded document.
func GenerateHTMLFromDocument(ctx context.Context, doc schema.Document, options ...Option) ([]byte, error) {
	return newGenerator(options).generate(ctx, doc)
}

func newGenerator(options []Option) *generator {
	g := &generator{}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

func (g *generator) generate(ctx context.Context, doc schema.Document) ([]byte, error) {
	docs, err := doc.Schemas()
	if err != nil {
		return nil, fmt.Errorf("formkit: decode: %w", err)
	}
	renderer := g.renderer
	if renderer == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		renderer = html
	}

	f := form.New(g.forms...)
	f.SetSchema(docs...)
	options := g.render
	if options.Action == "" {
		options.Action = f.CreateURL()
	}
	return renderer.Render(ctx, f.View(), options)
}

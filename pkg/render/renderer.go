package render

import (
	"context"

	"github.com/goliatone/go-formkit/pkg/form"
)

// Renderer projects a rendered form view into bytes (HTML, JSON, ...). The
// projection is one way; user input flows back through form.Form methods.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view *form.View, options RenderOptions) ([]byte, error)
}

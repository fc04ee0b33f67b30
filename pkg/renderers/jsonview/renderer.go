// Package jsonview renders form views as JSON for API clients that draw their
// own controls.
package jsonview

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Name is the renderer name used in a render.Registry.
const Name = "json"

// Control is the JSON projection of one form control.
type Control struct {
	Key         string             `json:"key"`
	Label       string             `json:"label"`
	Kind        widgets.Kind       `json:"kind"`
	Value       any                `json:"value"`
	Attributes  widgets.Attributes `json:"attributes,omitempty"`
	Options     []widgets.Option   `json:"options,omitempty"`
	Placeholder string             `json:"placeholder,omitempty"`
	Description string             `json:"description,omitempty"`
	Required    bool               `json:"required,omitempty"`
	Readonly    bool               `json:"readonly,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
}

// Document is the JSON projection of a form view.
type Document struct {
	Title       string               `json:"title,omitempty"`
	Description string               `json:"description,omitempty"`
	SchemaType  string               `json:"schemaType,omitempty"`
	SchemaTypes []string             `json:"schemaTypes,omitempty"`
	Action      string               `json:"action,omitempty"`
	Method      string               `json:"method"`
	Hidden      []render.HiddenField `json:"hidden,omitempty"`
	Readonly    bool                 `json:"readonly,omitempty"`
	Columns     [][]Control          `json:"columns"`
	Buttons     []form.Button        `json:"buttons,omitempty"`
	Errors      []string             `json:"errors,omitempty"`
}

// Renderer implements render.Renderer.
type Renderer struct {
	indent bool
}

var _ render.Renderer = (*Renderer)(nil)

// Option configures a Renderer.
type Option func(*Renderer)

// WithIndent pretty prints the output.
func WithIndent(indent bool) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// New returns a JSON renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Render projects view. Control values are the raw values, so checkboxes are
// booleans and list widgets are arrays.
func (r *Renderer) Render(_ context.Context, view *form.View, options render.RenderOptions) ([]byte, error) {
	if view == nil {
		return nil, errors.New("jsonview: view is nil")
	}
	mapping := render.MapErrorPayload(view, options.Errors)
	method, _ := render.FormMethod(options.Method)

	doc := Document{
		Title:       view.Title,
		Description: view.Description,
		SchemaType:  view.SchemaType,
		SchemaTypes: view.SchemaTypes,
		Action:      options.Action,
		Method:      method,
		Hidden:      options.HiddenFields(),
		Readonly:    view.Readonly,
		Columns:     make([][]Control, 0, len(view.Columns)),
		Buttons:     view.Buttons,
		Errors:      mapping.Form,
	}
	for _, column := range view.Columns {
		controls := make([]Control, 0, len(column.Controls))
		for _, c := range column.Controls {
			var messages []string
			if message := c.Error(); message != "" {
				messages = append(messages, message)
			}
			controls = append(controls, Control{
				Key:         c.Key,
				Label:       c.Label,
				Kind:        c.Kind(),
				Value:       c.Value(),
				Attributes:  c.Attributes(),
				Options:     c.Options(),
				Placeholder: c.Widget.Placeholder,
				Description: c.Widget.Description,
				Required:    c.Schema != nil && c.Schema.Required,
				Readonly:    c.Readonly,
				Errors:      render.MergeFormErrors(messages, mapping.Fields[c.Key]...),
			})
		}
		doc.Columns = append(doc.Columns, controls)
	}

	var (
		out []byte
		err error
	)
	if r.indent {
		out, err = json.MarshalIndent(doc, "", "  ")
	} else {
		out, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonview: encode: %w", err)
	}
	return out, nil
}

// Package form renders schema property maps into ordered, bound controls and
// marshals values between those controls and plain data records.
package form

import (
	"context"
	"math"
	"strings"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Form is a schema-driven form. It is not safe for concurrent use; every
// method re-renders synchronously before returning.
type Form struct {
	cfg       config
	validator *validation.Validator

	schemas []*schema.Schema
	index   int
	data    map[string]any

	view     *View
	controls map[string]*Control

	createURL    string
	createMethod string
	updateURL    string
	issues       validation.Issues
}

// New constructs a form.
func New(options ...Option) *Form {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.registry == nil {
		cfg.registry = widgets.NewRegistry()
	}
	if cfg.store == nil {
		cfg.store = NewMemoryStore()
	}
	if cfg.client == nil {
		cfg.client = hypermedia.NewClient(hypermedia.WithLogger(cfg.logger))
	}
	return &Form{
		cfg:       cfg,
		validator: validation.NewValidator(cfg.locale.Printer()),
		controls:  make(map[string]*Control),
	}
}

// SetSchema replaces the schemas and renders the first one. The form keeps
// the pointers, so callers that mutate a schema must call Render afterwards.
func (f *Form) SetSchema(docs ...*schema.Schema) *View {
	f.schemas = nil
	for _, doc := range docs {
		if doc != nil {
			f.schemas = append(f.schemas, doc)
		}
	}
	f.index = 0
	return f.Render()
}

// Schemas returns every schema the form holds.
func (f *Form) Schemas() []*schema.Schema {
	return append([]*schema.Schema(nil), f.schemas...)
}

// Schema returns the selected schema.
func (f *Form) Schema() *schema.Schema {
	if f.index < 0 || f.index >= len(f.schemas) {
		return nil
	}
	return f.schemas[f.index]
}

// SelectSchema switches to schema i and renders it. Out of range values are
// ignored.
func (f *Form) SelectSchema(i int) *View {
	if i < 0 || i >= len(f.schemas) || i == f.index {
		return f.view
	}
	f.index = i
	return f.Render()
}

// SetColumns changes the column count and renders.
func (f *Form) SetColumns(n int) *View {
	f.cfg.columns = n
	return f.Render()
}

// Columns returns the configured column count.
func (f *Form) Columns() int {
	return f.cfg.columns
}

// SetReadonly toggles read-only rendering.
func (f *Form) SetReadonly(readonly bool) *View {
	f.cfg.readonly = readonly
	return f.Render()
}

// Source is the schema location Load reads.
func (f *Form) Source() string {
	return f.cfg.src
}

// View returns the last rendered view.
func (f *Form) View() *View {
	return f.view
}

// Control returns the control bound to key.
func (f *Form) Control(key string) (*Control, bool) {
	c, ok := f.controls[key]
	return c, ok
}

// CreateURL is the expanded href of the schema's create link.
func (f *Form) CreateURL() string {
	return f.createURL
}

// UpdateURL is the href of the bound data's self link.
func (f *Form) UpdateURL() string {
	return f.updateURL
}

// Render rebuilds the view from the selected schema. Values already entered
// survive for keys that are still present.
func (f *Form) Render() *View {
	doc := f.Schema()
	if doc == nil {
		f.view = nil
		f.controls = make(map[string]*Control)
		return nil
	}

	previous := f.controls
	f.controls = make(map[string]*Control)

	view := &View{
		Title:       firstNonEmpty(f.cfg.title, doc.Title),
		Description: firstNonEmpty(f.cfg.description, doc.Description),
		SchemaType:  doc.Title,
		SchemaIndex: f.index,
		Readonly:    f.cfg.readonly,
		Mode:        f.cfg.mode,
		Columns:     []Column{{}},
	}
	if len(f.schemas) > 1 {
		for _, item := range f.schemas {
			view.SchemaTypes = append(view.SchemaTypes, item.Title)
		}
	}

	keys := schema.FieldKeys(doc.Properties)
	total := len(keys)
	columns := f.cfg.columns
	view.MultiColumn = columns > 1

	var maxPerCol float64
	if view.MultiColumn {
		maxPerCol = float64(total) / float64(columns)
	}
	itemIndex, itemsPerCol, columnCount := 1, 1, 0
	focused := false

	for _, key := range keys {
		prop, _ := doc.Properties.Get(key)
		c := f.buildControl(key, prop)
		if c != nil {
			if old, ok := previous[key]; ok && old.Kind() == c.Kind() {
				carryValue(old, c)
			} else if value, ok := f.data[key]; ok {
				c.SetValue(value)
			}
			if f.cfg.readonly {
				c.Readonly = true
				c.Disabled = true
				c.Widget.Attributes.Set("readonly", "true")
				c.Widget.Attributes.Set("disabled", "true")
			} else if !focused && !prop.ReadOnly {
				c.Autofocus = true
				c.Widget.Attributes.Set("autofocus", "true")
				focused = true
			}
			c.Wrapped = f.cfg.mode == ModeOverride
			c.Column = columnCount
			view.Columns[columnCount].Controls = append(view.Columns[columnCount].Controls, c)
			f.controls[key] = c

			if view.MultiColumn && float64(itemsPerCol) >= maxPerCol && itemIndex < total {
				columnCount++
				view.Columns = append(view.Columns, Column{})
				if remaining := columns - columnCount; remaining > 0 {
					maxPerCol = float64(total-itemIndex) / float64(remaining)
				} else {
					maxPerCol = math.Inf(1)
				}
				itemsPerCol = 0
			}
		} else {
			f.cfg.logger.Debug("form: no widget for property", "key", key)
		}
		itemIndex++
		itemsPerCol++
	}

	view.Buttons = f.buttons(doc)
	f.view = view
	f.startReadiness()
	return view
}

// Rendered blocks until every control reports ready, then fires
// Hooks.RenderComplete.
func (f *Form) Rendered(ctx context.Context) error {
	if err := waitAll(ctx, f.view.Controls()); err != nil {
		return err
	}
	if f.cfg.hooks.RenderComplete != nil {
		f.cfg.hooks.RenderComplete()
	}
	return nil
}

// ClickButton forwards a custom button click.
func (f *Form) ClickButton(label string) {
	if f.cfg.hooks.ButtonClick != nil {
		f.cfg.hooks.ButtonClick(label)
	}
}

func (f *Form) buildControl(key string, prop *schema.Schema) *Control {
	if prop == nil {
		return nil
	}
	candidate := widgets.NewCandidate(key, prop)
	candidate.RemoteImageCapture = f.cfg.remoteImageCapture
	kind, ok := f.cfg.registry.Resolve(candidate)
	if !ok {
		return nil
	}
	w := widgets.Build(kind, candidate, widgets.Settings{
		PlaceholderMaxLength: f.cfg.placeholderMaxLength,
		Locale:               f.cfg.locale,
	})
	c := newControl(key, prop, w)
	if kind == widgets.KindProperty {
		c.value = f.data[key]
	}
	return c
}

func (f *Form) buttons(doc *schema.Schema) []Button {
	var buttons []Button
	f.createURL, f.createMethod = "", ""
	if link, ok := doc.Links.Find(schema.RelCreate); ok {
		f.createURL = hypermedia.ExpandCreateHref(link)
		f.createMethod = link.MethodOr("POST")
		buttons = append(buttons, Button{Type: "submit", Label: firstNonEmpty(link.Title, "Save")})
		if f.cfg.reset {
			buttons = append(buttons, Button{Name: "reset", Type: "button", Label: "Reset"})
		}
	}
	for _, label := range f.cfg.buttons {
		buttons = append(buttons, Button{Type: "button", Label: label})
	}
	return buttons
}

// startReadiness resolves remote select options in the background. Every
// other control is ready as soon as it is rendered.
func (f *Form) startReadiness() {
	for _, c := range f.view.Controls() {
		if c.Kind() != widgets.KindSelect || c.Widget.Source == "" {
			c.markReady()
			continue
		}
		go f.resolveOptions(c)
	}
}

func (f *Form) resolveOptions(c *Control) {
	defer c.markReady()
	ctx := context.Background()
	if f.cfg.remoteTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.remoteTimeout)
		defer cancel()
	}
	raw, err := f.cfg.client.GetRaw(ctx, c.Widget.Source)
	if err != nil {
		f.cfg.logger.Warn("form: remote options failed", "key", c.Key, "src", c.Widget.Source, "error", err)
		return
	}
	doc, err := schema.Decode(raw, schema.EncodingJSON)
	if err != nil {
		f.cfg.logger.Warn("form: remote options invalid", "key", c.Key, "src", c.Widget.Source, "error", err)
		return
	}
	c.setOptions(widgets.EnumOptions(doc))
}

func carryValue(from, to *Control) {
	from.mu.Lock()
	value, checked, data := from.value, from.checked, from.data
	from.mu.Unlock()
	to.mu.Lock()
	to.value, to.checked, to.data = value, checked, data
	to.mu.Unlock()
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

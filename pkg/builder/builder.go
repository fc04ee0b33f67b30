// Package builder composes schema documents from toolbox templates while a
// validation-free preview form mirrors every change.
package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
)

var (
	// ErrActionMissing is returned when the describing schema lacks the link a
	// load or save needs. The failure is alerted and state is left untouched.
	ErrActionMissing = errors.New("builder: hypermedia action missing")
	// ErrUnknownTool is returned for tool ids absent from the toolbox.
	ErrUnknownTool = errors.New("builder: unknown tool")
	// ErrNoSchema is returned before the describing schema is loaded.
	ErrNoSchema = errors.New("builder: schema not loaded")
	// ErrSaveFailed wraps transport errors from a save request.
	ErrSaveFailed = errors.New("builder: save failed")
	// ErrLoadFailed wraps transport and decode errors from a load request.
	ErrLoadFailed = errors.New("builder: load failed")
)

// Builder is the form builder controller. It is not safe for concurrent use.
type Builder struct {
	cfg config

	toolbox      []*schema.Schema
	selectedTool string

	// metaSchema is the describing schema; the preview starts as a copy of it
	// without fields.
	metaSchema    *schema.Schema
	previewSchema *schema.Schema
	links         schema.Links

	preview    *form.Form
	metadata   *form.Form
	properties *form.Form

	selection Selection
	snapshot  Snapshot
	pending   map[Action]bool
}

// New constructs a builder. Nothing is fetched until LoadAll.
func New(options ...Option) *Builder {
	cfg := config{logger: slog.Default()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = hypermedia.NewClient(hypermedia.WithLogger(cfg.logger))
	}
	if cfg.dialogs == nil {
		cfg.dialogs = logDialogs{logger: cfg.logger}
	}
	b := &Builder{
		cfg:     cfg,
		pending: make(map[Action]bool),
	}
	b.preview = b.newForm(form.WithDisableValidation(true))
	b.metadata = b.newForm()
	return b
}

func (b *Builder) newForm(extra ...form.Option) *form.Form {
	options := []form.Option{form.WithLogger(b.cfg.logger), form.WithClient(b.cfg.client)}
	options = append(options, b.cfg.forms...)
	options = append(options, extra...)
	return form.New(options...)
}

// LoadAll fetches the toolbox when configured and then the describing schema.
func (b *Builder) LoadAll(ctx context.Context) error {
	if b.cfg.toolboxSrc != "" {
		templates, err := b.fetch(ctx, b.cfg.toolboxSrc, schema.DecodeToolbox)
		if err != nil {
			b.cfg.logger.Error("builder: toolbox schema not found", "src", b.cfg.toolboxSrc, "error", err)
			return err
		}
		b.SetToolbox(templates...)
	}
	return b.loadSchema(ctx, true)
}

func (b *Builder) loadSchema(ctx context.Context, keepMetadata bool) error {
	docs, err := b.fetch(ctx, b.cfg.src, schema.DecodeAll)
	if err != nil {
		b.cfg.logger.Error("builder: schema not found", "src", b.cfg.src, "error", err)
		return err
	}
	if keepMetadata || b.metaSchema == nil {
		b.SetSchema(docs[0])
		return nil
	}
	b.resetPreview(docs[0])
	return nil
}

// SetToolbox replaces the field templates.
func (b *Builder) SetToolbox(templates ...*schema.Schema) {
	b.toolbox = b.toolbox[:0]
	for _, template := range templates {
		if template != nil {
			b.toolbox = append(b.toolbox, template)
		}
	}
}

// Toolbox returns the field templates.
func (b *Builder) Toolbox() []*schema.Schema {
	return append([]*schema.Schema(nil), b.toolbox...)
}

// SetSchema installs the describing schema: the metadata form renders its
// properties and the preview starts blank. The form is selected.
func (b *Builder) SetSchema(doc *schema.Schema) {
	b.metaSchema = doc
	meta := doc.Clone()
	meta.Links = nil
	b.metadata.SetSchema(meta)
	b.resetPreview(doc)
}

func (b *Builder) resetPreview(doc *schema.Schema) {
	blank := doc.Clone()
	b.links = blank.Links
	blank.Links = nil
	blank.Properties = schema.NewProperties()
	b.previewSchema = blank
	b.preview.SetSchema(blank)
	b.properties = nil
	b.ClickForm()
	b.TakeSnapshot()
}

// Schema is the document under construction.
func (b *Builder) Schema() *schema.Schema {
	return b.previewSchema
}

// Links are the hypermedia actions of the describing schema, updated by
// every successful load and save.
func (b *Builder) Links() schema.Links {
	return b.links.Clone()
}

// Preview is the live preview form.
func (b *Builder) Preview() *form.Form {
	return b.preview
}

// Metadata is the metadata form.
func (b *Builder) Metadata() *form.Form {
	return b.metadata
}

// Properties is the property form of the selected field, nil when none.
func (b *Builder) Properties() *form.Form {
	return b.properties
}

// Selection reports the current selection.
func (b *Builder) Selection() Selection {
	return b.selection
}

// SelectTool marks a toolbox template as the one AddSelectedTool inserts.
func (b *Builder) SelectTool(id string) error {
	if b.template(id) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	b.selectedTool = id
	return nil
}

// SelectedTool returns the selected template id.
func (b *Builder) SelectedTool() string {
	return b.selectedTool
}

// ClickForm selects the form itself so the metadata form is edited.
func (b *Builder) ClickForm() {
	b.selection = Selection{Mode: SelectionForm}
}

// ClickField selects the field stored under dataKey and builds its property
// form from the matching toolbox template. It reports false when no such field
// exists, leaving nothing selected.
func (b *Builder) ClickField(ctx context.Context, dataKey string) bool {
	if b.previewSchema == nil {
		return false
	}
	prop, ok := b.previewSchema.Properties.Get(dataKey)
	if !ok || dataKey == "" {
		b.selection = Selection{Mode: SelectionNone}
		return false
	}
	b.selection = Selection{Mode: SelectionField, DataKey: dataKey}
	template := b.template(schema.ParseURN(prop.ID).SchemaID())
	if template == nil {
		b.cfg.logger.Warn("builder: no toolbox template for field", "key", dataKey, "id", prop.ID)
		b.properties = nil
		return true
	}
	b.properties = b.propertyForm(template)
	b.populateProperties(ctx, prop)
	return true
}

func (b *Builder) clickFirst(ctx context.Context) {
	keys := b.renderedKeys()
	if len(keys) == 0 {
		b.ClickForm()
		return
	}
	b.ClickField(ctx, keys[0])
}

func (b *Builder) propertyForm(template *schema.Schema) *form.Form {
	doc := template.Clone()
	doc.Links = nil
	f := b.newForm()
	f.SetSchema(doc)
	return f
}

func (b *Builder) populateProperties(ctx context.Context, prop *schema.Schema) {
	if b.properties == nil {
		return
	}
	values, err := schema.ToMap(prop)
	if err != nil {
		b.cfg.logger.Warn("builder: property form populate failed", "error", err)
		return
	}
	if err := b.properties.Populate(ctx, values); err != nil {
		b.cfg.logger.Warn("builder: property form populate failed", "error", err)
	}
}

func (b *Builder) template(id string) *schema.Schema {
	for _, template := range b.toolbox {
		if template.ID == id {
			return template
		}
	}
	return nil
}

// renderedKeys lists the preview fields in display order.
func (b *Builder) renderedKeys() []string {
	return b.preview.View().Keys()
}

// adjacent returns the key next to dataKey in display order, or "" at the
// boundaries.
func (b *Builder) adjacent(dataKey string, offset int) string {
	keys := b.renderedKeys()
	for idx, key := range keys {
		if key != dataKey {
			continue
		}
		if next := idx + offset; next >= 0 && next < len(keys) {
			return keys[next]
		}
		return ""
	}
	return ""
}

func (b *Builder) fetch(ctx context.Context, src string, decode func([]byte, schema.Encoding) ([]*schema.Schema, error)) ([]*schema.Schema, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrNoSchema
	}
	if b.cfg.loader == nil {
		raw, err := b.cfg.client.GetRaw(ctx, src)
		if err != nil {
			return nil, err
		}
		return decode(raw, schema.EncodingJSON)
	}
	source, err := schema.SourceFor(src)
	if err != nil {
		return nil, err
	}
	doc, err := b.cfg.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return decode(doc.Raw(), doc.Encoding())
}

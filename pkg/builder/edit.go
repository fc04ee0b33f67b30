package builder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// AddSelectedTool inserts the selected toolbox template. See AddTool.
func (b *Builder) AddSelectedTool(ctx context.Context) (string, error) {
	if b.selectedTool == "" {
		return "", nil
	}
	return b.AddTool(ctx, b.selectedTool)
}

// AddTool inserts a new field built from the template id and selects it. The
// field takes sequence (count+1)*10, stepped further while that key is taken,
// the template title and description and every default its properties
// declare. It returns the new data key.
func (b *Builder) AddTool(ctx context.Context, id string) (string, error) {
	if b.previewSchema == nil {
		return "", ErrNoSchema
	}
	template := b.template(id)
	if template == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}

	props := b.previewSchema.EnsureProperties()
	sequence := (props.Len() + 1) * schema.SequenceStep

	instance := map[string]any{}
	if template.Title != "" {
		instance["title"] = template.Title
	}
	if template.Description != "" {
		instance["description"] = template.Description
	}
	for _, key := range template.Properties.Keys() {
		prop, _ := template.Properties.Get(key)
		if prop != nil && prop.Default != nil {
			instance[key] = schema.CloneValue(prop.Default)
		}
	}

	fieldName, _ := instance["fieldName"].(string)
	urn := schema.ParseURN(template.ID, schema.WithSequence(sequence), schema.WithFieldName(fieldName))
	for props.Has(urn.DataKey()) {
		sequence += schema.SequenceStep
		urn = schema.ParseURN(template.ID, schema.WithSequence(sequence), schema.WithFieldName(fieldName))
	}
	instance["id"] = urn.ID()
	instance["sequence"] = urn.SequenceNumber()
	if fieldName == "" {
		instance["fieldName"] = urn.FieldName
	}

	field, err := schema.FromValue(instance)
	if err != nil {
		return "", fmt.Errorf("builder: build field from %s: %w", id, err)
	}
	props.Set(urn.DataKey(), field)
	b.preview.Render()
	b.ClickField(ctx, urn.DataKey())
	return urn.DataKey(), nil
}

// MoveUp swaps the selected field with the one rendered before it.
func (b *Builder) MoveUp(ctx context.Context) bool {
	return b.move(ctx, -1)
}

// MoveDown swaps the selected field with the one rendered after it.
func (b *Builder) MoveDown(ctx context.Context) bool {
	return b.move(ctx, 1)
}

func (b *Builder) move(ctx context.Context, offset int) bool {
	if b.selection.Mode != SelectionField {
		return false
	}
	source := b.selection.DataKey
	destination := b.adjacent(source, offset)
	if destination == "" {
		return false
	}
	moved, ok := b.swap(source, destination)
	if !ok {
		return false
	}
	b.ClickField(ctx, moved)
	return true
}

// swap exchanges the sequences of two fields and rekeys both. It returns the
// new key of source.
func (b *Builder) swap(source, destination string) (string, bool) {
	props := b.previewSchema.Properties
	src, okSrc := props.Get(source)
	dst, okDst := props.Get(destination)
	if !okSrc || !okDst {
		return "", false
	}
	srcURN := schema.ParseURN(src.ID)
	dstURN := schema.ParseURN(dst.ID)
	srcNext := schema.ParseURN(src.ID, schema.WithSequenceString(dstURN.Sequence))
	dstNext := schema.ParseURN(dst.ID, schema.WithSequenceString(srcURN.Sequence))

	assign(src, srcNext)
	assign(dst, dstNext)
	props.Delete(source)
	props.Delete(destination)
	props.Set(srcNext.DataKey(), src)
	props.Set(dstNext.DataKey(), dst)
	b.preview.Render()
	return srcNext.DataKey(), true
}

// Clone duplicates the selected field right after itself, renumbers every
// field and selects the copy. The property form is cleared when nothing
// follows the original.
func (b *Builder) Clone(ctx context.Context) bool {
	if b.selection.Mode != SelectionField {
		return false
	}
	original := b.selection.DataKey
	prop, ok := b.previewSchema.Properties.Get(original)
	if !ok {
		return false
	}
	urn := schema.ParseURN(prop.ID, schema.WithSequence(int(prop.Sequence)+1))
	clone := prop.Clone()
	assign(clone, urn)
	b.previewSchema.Properties.Set(urn.DataKey(), clone)

	b.ReIndex(Backward)

	if next := b.adjacent(original, 1); next == "" || !b.ClickField(ctx, next) {
		b.properties = nil
		b.selection = Selection{Mode: SelectionNone}
	}
	return true
}

// Remove asks for confirmation and deletes the selected field. Remaining
// fields are renumbered forward; the field now in the removed slot is
// selected, else the first field, else the form.
func (b *Builder) Remove(ctx context.Context) {
	if b.pending[ActionRemove] {
		return
	}
	b.pending[ActionRemove] = true
	b.cfg.dialogs.Confirm(ctx, Confirmation{Title: "Remove Property", Message: msgRemoveField}, func(answer Answer) {
		b.pending[ActionRemove] = false
		if answer == AnswerYes {
			b.removeSelected(ctx)
		}
	})
}

func (b *Builder) removeSelected(ctx context.Context) {
	if b.selection.Mode != SelectionField {
		return
	}
	key := b.selection.DataKey
	if !b.previewSchema.Properties.Has(key) {
		return
	}
	slot := indexOf(b.renderedKeys(), key)
	b.previewSchema.Properties.Delete(key)
	b.ReIndex(Forward)

	if b.ClickField(ctx, key) {
		return
	}
	if keys := b.renderedKeys(); slot >= 0 && slot < len(keys) {
		b.ClickField(ctx, keys[slot])
		return
	}
	b.clickFirst(ctx)
}

// ReIndex renumbers the rendered fields as consecutive multiples of ten.
// Forward assigns 10, 20, ... from the top; Backward assigns n*10 down from
// the bottom. Fields whose key changes are rekeyed.
func (b *Builder) ReIndex(direction Direction) {
	if b.previewSchema == nil {
		return
	}
	b.preview.Render()
	keys := b.renderedKeys()
	props := b.previewSchema.Properties

	index, start, finish := 0, 0, len(keys)
	if direction == Backward {
		index, start, finish = len(keys)*schema.SequenceStep, len(keys)-1, -1
	}
	for i := start; i != finish; i += int(direction) {
		if direction == Forward {
			index += schema.SequenceStep
		}
		key := keys[i]
		prop, ok := props.Get(key)
		if !ok {
			continue
		}
		urn := schema.ParseURN(prop.ID, schema.WithSequence(index))
		if key != urn.DataKey() {
			assign(prop, urn)
			props.Delete(key)
			props.Set(urn.DataKey(), prop)
		}
		if direction == Backward {
			index -= schema.SequenceStep
		}
	}
	b.preview.Render()
}

// ApplyProperties writes property form values into the selected field. A new
// field name or sequence rekeys the field. values are populated into the
// property form first; nil applies the form as it stands.
func (b *Builder) ApplyProperties(ctx context.Context, values map[string]any) error {
	if b.properties == nil || b.selection.Mode != SelectionField {
		return nil
	}
	if len(values) > 0 {
		if err := b.properties.Populate(ctx, values); err != nil {
			return err
		}
	}
	oldKey := b.selection.DataKey
	current, ok := b.previewSchema.Properties.Get(oldKey)
	if !ok {
		return nil
	}

	merged, err := schema.ToMap(current)
	if err != nil {
		return fmt.Errorf("builder: apply properties: %w", err)
	}
	data := b.properties.GetData()
	for _, key := range b.properties.Schema().Properties.Keys() {
		if _, set := data[key]; !set {
			delete(merged, key)
		}
	}
	for key, value := range data {
		merged[key] = value
	}

	fieldName, _ := data["fieldName"].(string)
	if fieldName == "" {
		fieldName = schema.ParseURN(current.ID).FieldName
	}
	sequence := sequenceText(data["sequence"])
	if sequence == "" {
		sequence = current.Sequence.String()
	}
	urn := schema.ParseURN(b.properties.Schema().ID,
		schema.WithFieldName(fieldName), schema.WithSequenceString(sequence))
	merged["id"] = urn.ID()
	merged["sequence"] = urn.SequenceNumber()
	merged["fieldName"] = urn.FieldName

	updated, err := schema.FromValue(merged)
	if err != nil {
		return fmt.Errorf("builder: apply properties: %w", err)
	}
	newKey := urn.DataKey()
	if newKey != oldKey {
		b.previewSchema.Properties.Delete(oldKey)
		if err := b.properties.Populate(ctx, map[string]any{"id": urn.ID()}); err != nil {
			return err
		}
	}
	b.previewSchema.Properties.Set(newKey, updated)
	b.preview.Render()
	b.selection = Selection{Mode: SelectionField, DataKey: newKey}
	return nil
}

// UpdateMetadata records a metadata form edit. Title and description are
// mirrored onto the preview; columns relayout it.
func (b *Builder) UpdateMetadata(key string, value any) {
	b.metadata.SetValue(key, value)
	if b.previewSchema == nil {
		return
	}
	text := strings.TrimSpace(fmt.Sprint(value))
	switch key {
	case "title":
		b.previewSchema.Title = text
		b.preview.Render()
	case "description":
		b.previewSchema.Description = text
		b.preview.Render()
	case "columns":
		columns, err := strconv.Atoi(text)
		if err != nil || columns == 0 {
			columns = 1
		}
		b.preview.SetColumns(columns)
	}
}

func assign(prop *schema.Schema, urn schema.URN) {
	prop.ID = urn.ID()
	prop.Sequence = schema.Sequence(urn.SequenceNumber())
}

func sequenceText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.Itoa(int(typed))
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

func indexOf(keys []string, key string) int {
	for idx, candidate := range keys {
		if candidate == key {
			return idx
		}
	}
	return -1
}

package builder

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// DefaultFormID is used for instance lookups when the metadata carries none.
const DefaultFormID = "123"

// Clear reloads the describing schema as a blank form. Metadata values are
// kept.
func (b *Builder) Clear(ctx context.Context) error {
	if err := b.loadSchema(ctx, false); err != nil {
		return err
	}
	b.ClickForm()
	return nil
}

// Load fetches the form named by the metadata formId through the instances
// link and replaces the preview and metadata with it.
func (b *Builder) Load(ctx context.Context) error {
	link, ok := b.links.Find(schema.RelInstances)
	if !ok {
		b.cfg.dialogs.Alert(ctx, "Load Form", msgLoadFailed)
		return fmt.Errorf("%w: %s", ErrActionMissing, schema.RelInstances)
	}
	formID := stringOf(b.metadata.GetData()["formId"])
	if formID == "" {
		formID = DefaultFormID
	}
	href := hypermedia.ReplaceLastSegment(link.Href, formID)

	var response map[string]any
	if err := b.cfg.client.Do(ctx, link.MethodOr(http.MethodGet), href, nil, &response); err != nil {
		b.cfg.dialogs.Alert(ctx, "Load Form", msgLoadFailed)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	raw, ok := response["formDefinition"]
	if !ok || raw == nil {
		b.cfg.dialogs.Alert(ctx, "Load Form", msgLoadFailed)
		return fmt.Errorf("%w: response has no formDefinition", ErrLoadFailed)
	}
	definition, err := schema.FromValue(raw)
	if err != nil {
		b.cfg.dialogs.Alert(ctx, "Load Form", msgLoadFailed)
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	definition.Links = nil
	definition.EnsureProperties()

	b.previewSchema = definition
	b.preview.SetColumns(columnsOf(response["columns"]))
	b.preview.SetSchema(definition)
	if links := hypermedia.LinksOf(response); len(links) > 0 {
		b.links = links
	}
	delete(response, "formDefinition")
	if err := b.metadata.Populate(ctx, response); err != nil {
		return err
	}
	b.properties = nil
	b.ClickForm()
	b.TakeSnapshot()
	return nil
}

// Save posts the metadata plus the form definition through the create link,
// or the update link once a formId is known.
func (b *Builder) Save(ctx context.Context) error {
	if b.previewSchema == nil {
		return ErrNoSchema
	}
	payload := b.metadata.GetData()
	rel, method := schema.RelCreate, http.MethodPost
	if stringOf(payload["formId"]) != "" {
		rel, method = schema.RelUpdate, http.MethodPut
	}
	link, ok := b.links.Find(rel)
	if !ok {
		b.cfg.dialogs.Alert(ctx, "Save Form", msgSaveFailed)
		return fmt.Errorf("%w: %s", ErrActionMissing, rel)
	}
	payload["formDefinition"] = b.previewSchema

	var response map[string]any
	if err := b.cfg.client.Do(ctx, link.MethodOr(method), link.Href, payload, &response); err != nil {
		b.cfg.dialogs.Alert(ctx, "Save Form", msgSaveFailed)
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	b.cfg.dialogs.Alert(ctx, "Save Form", msgSaved)

	if links := hypermedia.LinksOf(response); len(links) > 0 {
		b.links = links
	}
	if formID, ok := response["formId"]; ok {
		if err := b.metadata.Populate(ctx, map[string]any{"formId": formID}); err != nil {
			return err
		}
	}
	b.ClickForm()
	b.TakeSnapshot()
	return nil
}

// ClearClick clears the form, offering to save unsaved changes first.
func (b *Builder) ClearClick(ctx context.Context) {
	b.guarded(ctx, ActionClear, "Clear Form", b.Clear)
}

// LoadClick loads a form, offering to save unsaved changes first.
func (b *Builder) LoadClick(ctx context.Context) {
	b.guarded(ctx, ActionLoad, "Load Form", b.Load)
}

// SaveClick saves when there is something to save.
func (b *Builder) SaveClick(ctx context.Context) {
	if !b.Modified() {
		b.cfg.dialogs.Alert(ctx, "Save Form", msgNotModified)
		return
	}
	if err := b.Save(ctx); err != nil {
		b.cfg.logger.Error("builder: save failed", "error", err)
	}
}

// guarded runs proceed directly when nothing changed. Otherwise it asks
// whether to save first; a second request for the same action while the
// question is open is dropped.
func (b *Builder) guarded(ctx context.Context, action Action, title string, proceed func(context.Context) error) {
	run := func() {
		if err := proceed(ctx); err != nil {
			b.cfg.logger.Error("builder: action failed", "action", action, "error", err)
		}
	}
	if !b.Modified() {
		run()
		return
	}
	if b.pending[action] {
		return
	}
	b.pending[action] = true
	b.cfg.dialogs.Confirm(ctx, Confirmation{Title: title, Message: msgSaveModified}, func(answer Answer) {
		b.pending[action] = false
		switch answer {
		case AnswerYes:
			if err := b.Save(ctx); err != nil {
				b.cfg.logger.Error("builder: save before action failed", "action", action, "error", err)
				return
			}
			run()
		case AnswerNo:
			run()
		}
	})
}

// Pending reports whether a confirmation for action is open.
func (b *Builder) Pending(action Action) bool {
	return b.pending[action]
}

func columnsOf(value any) int {
	var columns int
	switch typed := value.(type) {
	case float64:
		columns = int(typed)
	case string:
		columns, _ = strconv.Atoi(typed)
	}
	if columns == 0 {
		return 1
	}
	return columns
}

func stringOf(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return fmt.Sprint(typed)
	}
}

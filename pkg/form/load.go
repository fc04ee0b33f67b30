package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrSaveFailed wraps transport failures while saving.
var ErrSaveFailed = errors.New("form: save failed")

// CurrencyKey holds the currency code in records with a currency field.
const CurrencyKey = "$currency"

// ErrNoSource is returned by Load when no source is configured.
var ErrNoSource = errors.New("form: no schema source")

// SetSource changes the schema location and loads it.
func (f *Form) SetSource(ctx context.Context, src string) error {
	f.cfg.src = src
	return f.Load(ctx)
}

// Load fetches the schema document(s) at the configured source, renders the
// first one and fires Hooks.SchemaLoaded. With persistence enabled a stored
// session entry overrides the bound data. Fetch and decode failures are
// logged and leave the form as it was; only a missing source is an error.
func (f *Form) Load(ctx context.Context) error {
	if strings.TrimSpace(f.cfg.src) == "" {
		return ErrNoSource
	}
	docs, err := f.fetch(ctx, f.cfg.src)
	if err != nil {
		f.cfg.logger.Error("form: load schema failed", "src", f.cfg.src, "error", err)
		return nil
	}
	f.SetSchema(docs...)
	if doc := f.Schema(); doc != nil && f.cfg.hooks.SchemaLoaded != nil {
		f.cfg.hooks.SchemaLoaded(doc.Title, doc)
	}
	if !f.cfg.persist {
		return nil
	}
	raw, ok := f.cfg.store.Get(f.cfg.src)
	if !ok {
		return nil
	}
	var stored map[string]any
	if err := json.Unmarshal(raw, &stored); err != nil {
		f.cfg.logger.Warn("form: discarding persisted data", "src", f.cfg.src, "error", err)
		f.cfg.store.Remove(f.cfg.src)
		return nil
	}
	return f.SetData(ctx, stored)
}

// Reset clears entered values and validation state and forgets any
// persisted session entry.
func (f *Form) Reset() *View {
	f.data = nil
	f.controls = make(map[string]*Control)
	f.issues = nil
	if f.cfg.persist && f.cfg.src != "" {
		f.cfg.store.Remove(f.cfg.src)
	}
	return f.Render()
}

// Save validates and submits the data. Bound records with a self link are
// updated with PUT; otherwise the schema create link is used; otherwise
// Hooks.Save receives the data. It reports false when validation fails.
func (f *Form) Save(ctx context.Context) (bool, error) {
	if !f.IsValid() {
		return false, nil
	}
	data := f.GetData()

	var (
		href   string
		method string
		hook   func(map[string]any, *schema.Link) bool
	)
	switch {
	case f.updateURL != "":
		href, method, hook = f.updateURL, http.MethodPut, f.cfg.hooks.Update
	case f.createURL != "":
		href, method, hook = f.createURL, f.createMethod, f.cfg.hooks.Create
	default:
		if f.cfg.hooks.Save != nil {
			f.cfg.hooks.Save(data)
		}
		return true, nil
	}

	var response map[string]any
	if err := f.cfg.client.Do(ctx, method, href, data, &response); err != nil {
		f.cfg.logger.Error("form: save failed", "method", method, "href", href, "error", err)
		return false, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	next, hasNext := hypermedia.LinksOf(response).Find(schema.RelNext)
	var nextLink *schema.Link
	if hasNext {
		nextLink = &next
	}
	if hook != nil && hook(response, nextLink) && nextLink != nil {
		return true, f.SetSource(ctx, nextLink.Href)
	}
	return true, nil
}

func (f *Form) fetch(ctx context.Context, src string) ([]*schema.Schema, error) {
	if f.cfg.loader == nil {
		raw, err := f.cfg.client.GetRaw(ctx, src)
		if err != nil {
			return nil, err
		}
		return schema.DecodeAll(raw, schema.EncodingJSON)
	}
	source, err := schema.SourceFor(src)
	if err != nil {
		return nil, err
	}
	doc, err := f.cfg.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return doc.Schemas()
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/internal/loader"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/locale"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/jsonview"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla"
	"github.com/goliatone/go-formkit/pkg/schema"
)

func newLoader() *loader.Loader {
	options := schema.NewLoaderOptions(
		schema.WithHTTPFallback(cfg.Client.Timeout),
		schema.WithCacheTTL(cfg.Schemas.CacheTTL),
	)
	if cfg.Schemas.Dir != "" {
		options.FileSystem = os.DirFS(cfg.Schemas.Dir)
	}
	return loader.New(options)
}

// loadDocument reads a schema file path or http(s) URL.
func loadDocument(ctx context.Context, location string) (schema.Document, error) {
	src, err := schema.SourceFor(location)
	if err != nil {
		return schema.Document{}, err
	}
	doc, err := newLoader().Load(ctx, src)
	if err != nil {
		return schema.Document{}, fmt.Errorf("load %s: %w", location, err)
	}
	return doc, nil
}

func loadSchemas(ctx context.Context, location string) ([]*schema.Schema, error) {
	doc, err := loadDocument(ctx, location)
	if err != nil {
		return nil, err
	}
	docs, err := doc.Schemas()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", location, err)
	}
	return docs, nil
}

// readData decodes a JSON record file. An empty path yields nil.
func readData(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}

func localeContext() locale.Context {
	return locale.New(cfg.Render.Language, locale.WithCurrency(cfg.Render.Currency))
}

type formFlags struct {
	columns     int
	readonly    bool
	schemaIndex int
	data        string
}

func (f formFlags) build(ctx context.Context, docs []*schema.Schema, extra ...form.Option) (*form.Form, error) {
	columns := f.columns
	if columns <= 0 {
		columns = cfg.Render.Columns
	}
	options := []form.Option{
		form.WithColumns(columns),
		form.WithReadonly(f.readonly),
		form.WithLocale(localeContext()),
		form.WithLogger(logger),
	}
	target := form.New(append(options, extra...)...)
	target.SetSchema(docs...)
	if f.schemaIndex > 0 && f.schemaIndex < len(docs) {
		target.SelectSchema(f.schemaIndex)
	}
	data, err := readData(f.data)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		if err := target.SetData(ctx, data); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func newRenderers() (*render.Registry, error) {
	html, err := vanilla.New(vanilla.WithStylesheets("/assets/" + vanilla.StylesheetName))
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(html)
	registry.MustRegister(jsonview.New(jsonview.WithIndent(true)))
	if cfg.Render.Renderer != "" {
		if err := registry.SetDefault(cfg.Render.Renderer); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("output written", "path", path)
	return nil
}

package form

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// GetData returns the typed record: numbers parsed, booleans from checkbox
// state, textarea lists split per line and empty optional values dropped.
// Read-only properties report the bound value, falling back to the schema
// default when required.
func (f *Form) GetData() map[string]any {
	return f.collect(true)
}

// GetRawData returns control values without coercion.
func (f *Form) GetRawData() map[string]any {
	return f.collect(false)
}

func (f *Form) collect(coerce bool) map[string]any {
	out := make(map[string]any)
	doc := f.Schema()
	if doc == nil {
		return out
	}
	for _, key := range schema.FieldKeys(doc.Properties) {
		prop, _ := doc.Properties.Get(key)
		c, rendered := f.controls[key]
		if !rendered {
			continue
		}
		if prop.ReadOnly {
			if value, ok := f.data[key]; ok && truthy(value) {
				out[key] = value
			} else if prop.Required && prop.Default != nil {
				out[key] = prop.Default
			}
			continue
		}
		value := c.Value()
		if coerce {
			value = coerceValue(c, prop)
		} else if c.Kind() == widgets.KindCheckbox {
			value = c.Checked()
		}
		if str, ok := value.(string); ok && str == "" && !prop.Required {
			continue
		}
		out[key] = value
		if _, ok := out[CurrencyKey]; !ok && c.Kind() == widgets.KindCurrency {
			out[CurrencyKey] = f.cfg.locale.Currency.Code
		}
	}
	return out
}

func coerceValue(c *Control, prop *schema.Schema) any {
	kind := c.Kind()
	if prop.Type == "array" {
		switch {
		case kind == widgets.KindTextarea:
			text := c.Text()
			if text == "" {
				return ""
			}
			lines := strings.Split(text, "\n")
			out := make([]any, len(lines))
			for idx, line := range lines {
				out[idx] = line
			}
			return out
		case kind == widgets.KindSelect, kind == widgets.KindInputArray:
			return c.Value()
		default:
			return c.Data()
		}
	}
	if kind == widgets.KindObjectList || kind == widgets.KindProperty {
		return c.Data()
	}
	switch prop.Type {
	case "boolean":
		return c.Checked()
	case "integer":
		text := strings.TrimSpace(c.Text())
		if text == "" {
			return ""
		}
		if number, err := strconv.ParseFloat(text, 64); err == nil {
			return int64(number)
		}
		return text
	case "number":
		text := strings.TrimSpace(c.Text())
		if text == "" {
			return ""
		}
		if number, err := strconv.ParseFloat(text, 64); err == nil {
			return number
		}
		return text
	}
	if kind == widgets.KindFile || kind == widgets.KindMultiFile {
		return c.Value()
	}
	return strings.TrimSpace(c.Text())
}

// Populate binds data to the rendered controls and merges it into the bound
// record. Link lists, `$` meta keys and keys without a control are skipped.
// It waits for every control to be ready and then fires
// Hooks.PopulateComplete.
func (f *Form) Populate(ctx context.Context, data map[string]any) error {
	if f.view == nil {
		return nil
	}
	if err := waitAll(ctx, f.view.Controls()); err != nil {
		return err
	}
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if schema.IsReservedKey(key) {
			continue
		}
		c, ok := f.controls[key]
		if !ok {
			continue
		}
		if f.data == nil {
			f.data = make(map[string]any)
		}
		f.data[key] = data[key]
		value := data[key]
		if value == nil {
			value = ""
		}
		c.SetValue(value)
	}
	if f.cfg.hooks.PopulateComplete != nil {
		f.cfg.hooks.PopulateComplete()
	}
	return nil
}

// SetData binds a record. A `self` link in data becomes the update target.
func (f *Form) SetData(ctx context.Context, data map[string]any) error {
	f.data = make(map[string]any, len(data))
	for key, value := range data {
		f.data[key] = value
	}
	f.updateURL = ""
	if link, ok := hypermedia.LinksOf(data).Find(schema.RelSelf); ok {
		f.updateURL = link.Href
	}
	return f.Populate(ctx, data)
}

// Data returns the bound record.
func (f *Form) Data() map[string]any {
	return f.data
}

func truthy(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case float64:
		return typed != 0
	case int:
		return typed != 0
	case int64:
		return typed != 0
	default:
		return true
	}
}

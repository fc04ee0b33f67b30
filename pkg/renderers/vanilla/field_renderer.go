package vanilla

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/locale"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/render/template"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

const (
	chromeTemplate   = "templates/components/chrome/field.tmpl"
	overrideTemplate = "templates/components/chrome/override.tmpl"
)

// standardAttributes are emitted as-is. Everything else a widget carries is
// prefixed with data- so client scripts can pick it up.
var standardAttributes = map[string]struct{}{
	"name": {}, "id": {}, "type": {}, "autocomplete": {}, "readonly": {},
	"required": {}, "pattern": {}, "min": {}, "max": {}, "minlength": {},
	"maxlength": {}, "placeholder": {}, "multiple": {}, "rows": {}, "step": {},
	"autofocus": {}, "disabled": {}, "title": {},
}

var booleanAttributes = map[string]struct{}{
	"readonly": {}, "required": {}, "multiple": {}, "autofocus": {}, "disabled": {},
}

var inputTypes = map[string]string{
	"birth-date": "date",
	"datetime":   "datetime-local",
	"xlsx":       "file",
	"string":     "text",
	"integer":    "number",
}

type fieldRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	classes   map[string]string
	overrides map[string]string
	errors    map[string][]string

	used []string
}

func (r *fieldRenderer) render(c *form.Control) (string, error) {
	name := r.componentFor(c)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("vanilla: component %q not registered for field %q", name, c.Key)
	}

	field := r.buildField(c, name)
	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, components.ComponentData{
		Template: r.templates,
		Classes:  r.classes,
	}); err != nil {
		return "", fmt.Errorf("vanilla: render component %q for field %q: %w", name, c.Key, err)
	}
	if !slices.Contains(r.used, name) {
		r.used = append(r.used, name)
	}

	markup, err := r.templates.RenderTemplate(chromeTemplate, map[string]any{
		"field":     field,
		"control":   strings.TrimSpace(control.String()),
		"ownsLabel": descriptor.OwnsLabel,
		"classes":   r.classes,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla: render chrome for field %q: %w", c.Key, err)
	}
	if c.Wrapped {
		markup, err = r.templates.RenderTemplate(overrideTemplate, map[string]any{
			"key":  c.Key,
			"html": strings.TrimSpace(markup),
		})
		if err != nil {
			return "", fmt.Errorf("vanilla: render override wrapper for field %q: %w", c.Key, err)
		}
	}
	return strings.TrimSpace(markup), nil
}

func (r *fieldRenderer) componentFor(c *form.Control) string {
	if name := strings.TrimSpace(r.overrides[c.Key]); name != "" {
		return name
	}
	return components.NameFor(c.Kind())
}

func (r *fieldRenderer) buildField(c *form.Control, component string) components.Field {
	attrs := c.Attributes()
	field := components.Field{
		Key:         c.Key,
		ID:          controlID(c.Key),
		LabelID:     labelID(c.Key),
		Label:       c.Label,
		Kind:        string(c.Kind()),
		Component:   component,
		Placeholder: c.Widget.Placeholder,
		Description: sanitizeDescription(c.Widget.Description),
		Required:    c.Schema != nil && c.Schema.Required,
		Readonly:    c.Readonly || attrs.Has("readonly"),
		Checked:     c.Checked(),
		Symbol:      attrs["symbol"],
	}

	var messages []string
	if message := c.Error(); message != "" {
		messages = append(messages, message)
	}
	field.Errors = render.MergeFormErrors(messages, r.errors[c.Key]...)

	switch c.Kind() {
	case widgets.KindRating:
		attrs.Set("type", "range")
		if from, ok := attrs["from"]; ok {
			attrs.Set("min", from)
		}
		if to, ok := attrs["to"]; ok {
			attrs.Set("max", to)
		}
		delete(attrs, "from")
		delete(attrs, "to")
	case widgets.KindInputArray, widgets.KindListBuilder:
		delete(attrs, "id")
		field.Values = listValues(c.Value())
	case widgets.KindObjectList:
		field.Headers, field.Rows = objectRows(c)
	case widgets.KindImport:
		field.Headers = slices.Clone(c.Widget.Headers)
	case widgets.KindPhone:
		field.Prefixes = phonePrefixes(c.Widget.TelephoneCodes, attrs["country-code"])
	}
	if kind := c.Kind(); kind != widgets.KindInputArray && kind != widgets.KindListBuilder {
		attrs.Set("id", field.ID)
	}
	if field.Errors != nil {
		attrs.Set("aria-invalid", "true")
	}
	if value, ok := attrs["type"]; ok {
		if mapped, ok := inputTypes[value]; ok {
			attrs.Set("type", mapped)
		}
	} else if component == components.NameInput || component == components.NamePhone || component == components.NameCurrency {
		attrs.Set("type", "text")
	}
	delete(attrs, "symbol")

	field.Options = choiceOptions(c.Options(), c.Value())
	if c.Kind() != widgets.KindCheckbox {
		field.Value = c.Text()
	}
	field.Attributes = htmlAttributes(attrs)
	return field
}

func htmlAttributes(attrs widgets.Attributes) []components.Attribute {
	out := make([]components.Attribute, 0, len(attrs))
	for _, name := range attrs.Names() {
		value := attrs[name]
		rendered := name
		if _, ok := standardAttributes[name]; !ok && name != "aria-invalid" {
			rendered = "data-" + name
		}
		if _, ok := booleanAttributes[name]; ok {
			if value == "false" {
				continue
			}
			value = name
		}
		out = append(out, components.Attribute{Name: rendered, Value: value})
	}
	return out
}

func choiceOptions(options []widgets.Option, value any) []components.Option {
	if len(options) == 0 {
		return nil
	}
	selected := make(map[string]struct{})
	for _, item := range listValues(value) {
		selected[item] = struct{}{}
	}
	out := make([]components.Option, len(options))
	for idx, option := range options {
		label := option.Label
		if label == "" {
			label = option.Value
		}
		_, isSelected := selected[option.Value]
		out[idx] = components.Option{
			Value:    option.Value,
			Label:    label,
			Selected: isSelected && option.Value != "",
		}
	}
	return out
}

func listValues(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case string:
		return []string{typed}
	case []string:
		return slices.Clone(typed)
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				out = append(out, "")
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(typed)}
	}
}

// objectRows projects an object list value into table headers and rows.
// Headers follow the item schema; cells missing from a row render empty.
func objectRows(c *form.Control) ([]string, [][]string) {
	var headers []string
	if bound := c.Widget.Bound; bound != nil && bound.Properties != nil {
		headers = bound.Properties.Keys()
	}
	items, _ := c.Data().([]any)
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if headers == nil {
			for key := range entry {
				headers = append(headers, key)
			}
			slices.Sort(headers)
		}
		row := make([]string, len(headers))
		for idx, header := range headers {
			if value, ok := entry[header]; ok && value != nil {
				row[idx] = fmt.Sprint(value)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func phonePrefixes(codes []locale.TelephoneCode, country string) []components.Option {
	if len(codes) == 0 {
		return nil
	}
	out := make([]components.Option, len(codes))
	for idx, code := range codes {
		out[idx] = components.Option{
			Value:    code.Code,
			Label:    fmt.Sprintf("%s (%s)", code.Name, code.Code),
			Selected: strings.EqualFold(code.Country, country),
		}
	}
	return out
}

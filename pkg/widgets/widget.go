package widgets

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-formkit/pkg/locale"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Option is one entry of a choice widget.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Widget is the resolved, attribute-projected input for one property.
type Widget struct {
	Kind       Kind       `json:"kind"`
	Name       string     `json:"name"`
	Attributes Attributes `json:"attributes"`

	// Placeholder is set when the description fits; otherwise Description holds
	// the full text for rich rendering next to the control.
	Placeholder string `json:"placeholder,omitempty"`
	Description string `json:"description,omitempty"`
	RichText    bool   `json:"richText,omitempty"`

	Options  []Option `json:"options,omitempty"`
	Multiple bool     `json:"multiple,omitempty"`
	// Source is a remote schema reference resolved by the select widget.
	Source string `json:"src,omitempty"`
	// Bound is the sub-schema driving nested or choice widgets.
	Bound *schema.Schema `json:"-"`
	// Country marks selects whose change updates telephone prefixes.
	Country bool `json:"country,omitempty"`

	TelephoneCodes []locale.TelephoneCode `json:"telephoneCodes,omitempty"`
	Headers        []string               `json:"headers,omitempty"`
	FirstRow       []string               `json:"firstRow,omitempty"`
}

// Settings are the form-level knobs that influence widget construction.
type Settings struct {
	PlaceholderMaxLength int
	Locale               locale.Context
}

// Build constructs the widget for kind and applies cross-cutting attributes.
func Build(kind Kind, c Candidate, settings Settings) Widget {
	w := Widget{
		Kind:       kind,
		Name:       c.Key,
		Attributes: Attributes{"name": c.Key, "id": c.Key},
	}
	prop := c.Schema

	switch kind {
	case KindCheckbox:
		w.Attributes.Set("type", "checkbox")
	case KindEmail:
		w.Attributes.Set("type", "email")
	case KindIntSelect:
		w.Options = append(w.Options, Option{})
		for i := int64(*prop.Minimum); i <= int64(*prop.Maximum); i++ {
			value := strconv.FormatInt(i, 10)
			w.Options = append(w.Options, Option{Value: value, Label: value})
		}
	case KindRating:
		if prop.Minimum != nil {
			w.Attributes.Set("from", formatFloat(*prop.Minimum))
		}
		if prop.Maximum != nil {
			w.Attributes.Set("to", formatFloat(*prop.Maximum))
		}
	case KindRadioGroup:
		if len(prop.Extends) > 0 {
			w.Bound = prop.Extends[0]
			w.Options = EnumOptions(w.Bound)
		}
	case KindSelect:
		buildSelect(&w, c)
	case KindListBuilder:
		w.Attributes.Set("layout", "sidebyside")
		w.Bound = prop.Items
	case KindObjectList:
		if prop.Title != "" {
			w.Attributes.Set("title", prop.Title)
		}
		w.Bound = prop.Items
	case KindImageCapture, KindRemoteImageCapture:
		w.Bound = prop.Items
	case KindInputArray:
		buildInputArray(&w, prop.Items)
	case KindNumber:
		w.Attributes.Set("type", "number")
	case KindImport:
		buildImport(&w, prop.Items)
	case KindFile, KindMultiFile:
		w.Attributes.Set("type", "file")
		w.Attributes.Set("mediatype", prop.MediaType)
		if kind == KindMultiFile {
			w.Multiple = true
			w.Attributes.Set("multiple", "true")
		}
	case KindBarcodeScanner:
		if prop.Title != "" {
			w.Attributes.Set("title", prop.Title)
		}
	case KindConfirmEmail:
		w.Attributes.Set("type", "email")
		label := prop.Title
		if label == "" {
			label = c.Key
		}
		w.Attributes.Set("label", label)
	case KindURL:
		w.Attributes.Set("type", "url")
	case KindLocalDateTime:
		w.Attributes.Set("type", "datetime-local")
	case KindBirthDate:
		w.Attributes.Set("type", "birth-date")
	case KindDateTime:
		w.Attributes.Set("type", "datetime")
	case KindDate:
		w.Attributes.Set("type", "date")
	case KindTime:
		w.Attributes.Set("type", "time")
	case KindPhone:
		w.TelephoneCodes = settings.Locale.TelephoneCodes
		if code, ok := settings.Locale.DefaultTelephoneCode(); ok {
			w.Attributes.Set("country-code", code.Country)
		}
	case KindCurrency:
		w.Attributes.Set("symbol", settings.Locale.Currency.Symbol)
	case KindTextarea:
		w.Attributes.Set("rows", "3")
	case KindText:
		w.Attributes.Set("type", "text")
	}

	applyConstraints(w.Attributes, prop)

	maxLength := settings.PlaceholderMaxLength
	if maxLength <= 0 {
		maxLength = DefaultPlaceholderMaxLength
	}
	if placeholder, ok := PlaceholderFor(prop.Description, maxLength); ok {
		w.Placeholder = placeholder
		w.Attributes.Set("placeholder", placeholder)
	} else if prop.Description != "" {
		w.Description = prop.Description
		w.RichText = HasMarkup(prop.Description)
	}

	for name, value := range SubProperties(c.FullFormat) {
		w.Attributes.Set(name, value)
		if name == "multiple" && value != "false" {
			w.Multiple = true
		}
	}
	return w
}

func buildSelect(w *Widget, c Candidate) {
	prop := c.Schema
	w.Multiple = prop.Type == "array" && c.Format == "list"
	if w.Multiple {
		w.Attributes.Set("multiple", "true")
	}
	target := prop
	if prop.Type == "array" && prop.Items != nil {
		target = prop.Items
	}
	switch {
	case len(target.Extends) > 0 && target.Extends[0] != nil && target.Extends[0].Ref != "":
		w.Source = target.Extends[0].Ref
		w.Attributes.Set("src", w.Source)
	case len(target.Extends) > 0 && target.Extends[0] != nil:
		w.Bound = target.Extends[0]
	default:
		w.Bound = target
	}
	if w.Bound != nil {
		w.Options = EnumOptions(w.Bound)
	}
	w.Country = c.Format == "country"
}

func buildInputArray(w *Widget, items *schema.Schema) {
	w.Bound = items
	if items == nil {
		return
	}
	w.Attributes.Set("type", items.Type)
	if items.Pattern != "" {
		w.Attributes.Set("pattern", items.Pattern)
	}
	if items.DivisibleBy != nil && *items.DivisibleBy != 0 {
		w.Attributes.Set("divisible-by", formatFloat(*items.DivisibleBy))
	}
	if items.MultipleOf != nil && *items.MultipleOf != 0 {
		w.Attributes.Set("divisible-by", formatFloat(*items.MultipleOf))
	}
	if items.Min != nil && *items.Min != 0 {
		w.Attributes.Set("item-min", formatFloat(*items.Min))
	}
	if items.Max != nil && *items.Max != 0 {
		w.Attributes.Set("item-max", formatFloat(*items.Max))
	}
}

func buildImport(w *Widget, items *schema.Schema) {
	w.Attributes.Set("type", "xlsx")
	w.Bound = items
	if items == nil || items.Properties == nil {
		return
	}
	for _, key := range items.Properties.Keys() {
		prop, _ := items.Properties.Get(key)
		header := key
		if prop != nil && prop.Required {
			header += "*"
		}
		w.Headers = append(w.Headers, header)
		description := ""
		if prop != nil {
			description = prop.Description
		}
		w.FirstRow = append(w.FirstRow, description)
	}
}

// EnumOptions lists the enum values of bound (or of its items) as choices.
func EnumOptions(bound *schema.Schema) []Option {
	if bound == nil {
		return nil
	}
	source := bound.Enum
	if len(source) == 0 && bound.Items != nil {
		source = bound.Items.Enum
	}
	options := make([]Option, 0, len(source))
	for _, value := range source {
		label := stringify(value)
		options = append(options, Option{Value: label, Label: label})
	}
	return options
}

func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return formatFloat(typed)
	case bool:
		return strconv.FormatBool(typed)
	case int:
		return strconv.Itoa(typed)
	default:
		return fmt.Sprint(typed)
	}
}

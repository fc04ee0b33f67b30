package widgets

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// DefaultPlaceholderMaxLength is the description length from which a
// description is shown as rich text instead of a placeholder.
const DefaultPlaceholderMaxLength = 75

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// Attributes is a widget attribute set rendered in key order.
type Attributes map[string]string

// Set stores value under name.
func (a Attributes) Set(name, value string) {
	a[name] = value
}

// Has reports whether name is present.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Names returns the attribute names sorted.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasMarkup reports descriptions that carry HTML tags.
func HasMarkup(text string) bool {
	return markupPattern.MatchString(text)
}

// PlaceholderFor returns the description when it is usable as a placeholder:
// non-empty, free of markup and shorter than maxLength.
func PlaceholderFor(description string, maxLength int) (string, bool) {
	if description == "" || HasMarkup(description) {
		return "", false
	}
	if utf8.RuneCountInString(description) >= maxLength {
		return "", false
	}
	return description, true
}

// SubProperties parses `base:name=value:flag` into {name: value, flag: ""}.
func SubProperties(format string) map[string]string {
	parts := strings.Split(format, ":")
	if len(parts) < 2 {
		return nil
	}
	out := make(map[string]string, len(parts)-1)
	for _, part := range parts[1:] {
		name, value, _ := strings.Cut(part, "=")
		out[name] = value
	}
	return out
}

// applyConstraints copies schema constraints onto the widget as attributes.
// Only truthy values are projected, so a zero minimum is left off.
func applyConstraints(attrs Attributes, prop *schema.Schema) {
	attrs.Set("autocomplete", "off")
	if prop.ReadOnly {
		attrs.Set("readonly", "readonly")
	}
	if prop.Required {
		attrs.Set("required", "required")
	}
	if prop.Pattern != "" {
		attrs.Set("pattern", prop.Pattern)
	}
	if value := bound(prop.Minimum, prop.Min); value != nil && *value != 0 {
		attrs.Set("min", formatFloat(*value))
	}
	if value := bound(prop.Maximum, prop.Max); value != nil && *value != 0 {
		attrs.Set("max", formatFloat(*value))
	}
	if prop.MinLength != nil && *prop.MinLength != 0 {
		attrs.Set("minlength", strconv.Itoa(*prop.MinLength))
	}
	if prop.MaxLength != nil && *prop.MaxLength != 0 {
		attrs.Set("maxlength", strconv.Itoa(*prop.MaxLength))
	}
	if prop.MinItems != nil && *prop.MinItems != 0 {
		attrs.Set("min-items", strconv.Itoa(*prop.MinItems))
	}
	if prop.MaxItems != nil && *prop.MaxItems != 0 {
		attrs.Set("max-items", strconv.Itoa(*prop.MaxItems))
	}
}

// bound prefers the JSON Schema keyword over its min/max alias, matching
// validation.
func bound(keyword, alias *float64) *float64 {
	if keyword != nil {
		return keyword
	}
	return alias
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

package validation

import (
	"math"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/message"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Validator checks form values against property constraints. Messages are
// produced through the configured printer so catalogs can translate them.
type Validator struct {
	printer *message.Printer

	mu       sync.Mutex
	patterns map[string]*regexp.Regexp
}

// NewValidator constructs a validator. A nil printer uses English messages.
func NewValidator(printer *message.Printer) *Validator {
	if printer == nil {
		printer = message.NewPrinter(message.MatchLanguage("en"))
	}
	return &Validator{printer: printer, patterns: make(map[string]*regexp.Regexp)}
}

// Value validates one datum. value is the raw control value: a string, a
// bool, a number or a list.
func (v *Validator) Value(key string, prop *schema.Schema, value any) Issues {
	if prop == nil {
		return nil
	}
	label := prop.Title
	if label == "" {
		label = key
	}
	issue := func(code, msg string, params map[string]any) Issue {
		return Issue{Field: key, Code: code, Message: msg, Params: params}
	}

	if isEmpty(value) {
		if prop.Required {
			return Issues{issue(CodeRequired, v.printer.Sprintf("%s is required", label), nil)}
		}
		return nil
	}

	if list, ok := value.([]any); ok {
		return v.list(key, label, prop, list)
	}

	var out Issues
	text, isText := value.(string)

	switch prop.Type {
	case "integer", "number":
		number, ok := toNumber(value)
		if !ok || (prop.Type == "integer" && number != math.Trunc(number)) {
			want := "a number"
			if prop.Type == "integer" {
				want = "a whole number"
			}
			return Issues{issue(CodeInvalidType, v.printer.Sprintf("%s must be %s", label, want), nil)}
		}
		out = append(out, v.numeric(key, label, prop, number)...)
	case "boolean":
		if _, ok := value.(bool); !ok && !(isText && (text == "true" || text == "false")) {
			return Issues{issue(CodeInvalidType, v.printer.Sprintf("%s must be true or false", label), nil)}
		}
	}

	if isText {
		if prop.Pattern != "" {
			re, err := v.compile(prop.Pattern)
			if err == nil && !re.MatchString(text) {
				out = append(out, issue(CodePattern, v.printer.Sprintf("%s is not in the expected format", label), map[string]any{"pattern": prop.Pattern}))
			}
		}
		length := utf8.RuneCountInString(text)
		if prop.MinLength != nil && length < *prop.MinLength {
			out = append(out, issue(CodeTooShort, v.printer.Sprintf("%s must be at least %d characters", label, *prop.MinLength), map[string]any{"min": *prop.MinLength, "got": length}))
		}
		if prop.MaxLength != nil && *prop.MaxLength > 0 && length > *prop.MaxLength {
			out = append(out, issue(CodeTooLong, v.printer.Sprintf("%s must be at most %d characters", label, *prop.MaxLength), map[string]any{"max": *prop.MaxLength, "got": length}))
		}
		if msg, ok := v.format(label, prop.BaseFormat(), text); !ok {
			out = append(out, issue(CodeInvalidFormat, msg, map[string]any{"format": prop.BaseFormat()}))
		}
	}

	if len(prop.Enum) > 0 && !inEnum(prop.Enum, value) {
		out = append(out, issue(CodeInvalidEnum, v.printer.Sprintf("%s must be one of the listed values", label), nil))
	}
	return out
}

func (v *Validator) numeric(key, label string, prop *schema.Schema, number float64) Issues {
	var out Issues
	if bound := lower(prop); bound != nil && number < *bound {
		out = append(out, Issue{Field: key, Code: CodeTooSmall, Message: v.printer.Sprintf("%s must be at least %v", label, *bound), Params: map[string]any{"min": *bound, "got": number}})
	}
	if bound := upper(prop); bound != nil && number > *bound {
		out = append(out, Issue{Field: key, Code: CodeTooBig, Message: v.printer.Sprintf("%s must be at most %v", label, *bound), Params: map[string]any{"max": *bound, "got": number}})
	}
	step := prop.MultipleOf
	if step == nil {
		step = prop.DivisibleBy
	}
	if step != nil && *step != 0 {
		quotient := number / *step
		if math.Abs(quotient-math.Round(quotient)) > 1e-9 {
			out = append(out, Issue{Field: key, Code: CodeNotMultiple, Message: v.printer.Sprintf("%s must be a multiple of %v", label, *step), Params: map[string]any{"step": *step}})
		}
	}
	return out
}

func (v *Validator) list(key, label string, prop *schema.Schema, list []any) Issues {
	var out Issues
	if prop.MinItems != nil && len(list) < *prop.MinItems {
		out = append(out, Issue{Field: key, Code: CodeTooFew, Message: v.printer.Sprintf("%s needs at least %d items", label, *prop.MinItems), Params: map[string]any{"min": *prop.MinItems, "got": len(list)}})
	}
	if prop.MaxItems != nil && *prop.MaxItems > 0 && len(list) > *prop.MaxItems {
		out = append(out, Issue{Field: key, Code: CodeTooMany, Message: v.printer.Sprintf("%s allows at most %d items", label, *prop.MaxItems), Params: map[string]any{"max": *prop.MaxItems, "got": len(list)}})
	}
	if prop.Items != nil && prop.Items.Type != "object" {
		item := *prop.Items
		item.Required = false
		item.Title = label
		for _, entry := range list {
			if issues := v.Value(key, &item, entry); len(issues) > 0 {
				out = append(out, issues[0])
				break
			}
		}
	}
	return out
}

func (v *Validator) format(label, format, text string) (string, bool) {
	switch format {
	case "email", "confirm-email":
		if _, err := mail.ParseAddress(text); err != nil || !strings.Contains(text, "@") {
			return v.printer.Sprintf("%s must be a valid email address", label), false
		}
	case "uri":
		parsed, err := url.Parse(text)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return v.printer.Sprintf("%s must be a valid URL", label), false
		}
	}
	return "", true
}

func (v *Validator) compile(pattern string) (*regexp.Regexp, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if re, ok := v.patterns[pattern]; ok {
		return re, nil
	}
	// input patterns must match the whole value
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, err
	}
	v.patterns[pattern] = re
	return re, nil
}

func lower(prop *schema.Schema) *float64 {
	if prop.Minimum != nil {
		return prop.Minimum
	}
	return prop.Min
}

func upper(prop *schema.Schema) *float64 {
	if prop.Maximum != nil {
		return prop.Maximum
	}
	return prop.Max
}

func isEmpty(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case []any:
		return len(typed) == 0
	}
	return false
}

func toNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return parsed, err == nil
	}
	return 0, false
}

func inEnum(enum []any, value any) bool {
	switch value.(type) {
	case string, float64, bool, int, int64:
	default:
		return true
	}
	for _, candidate := range enum {
		if candidate == value {
			return true
		}
		if str, ok := value.(string); ok {
			if number, isNumber := candidate.(float64); isNumber {
				if parsed, err := strconv.ParseFloat(str, 64); err == nil && parsed == number {
					return true
				}
			}
		}
	}
	return false
}

package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// ErrorMapping splits an error payload into field messages keyed by form key
// and form level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors joins message lists, trimming blanks and dropping
// duplicates in first-seen order.
func MergeFormErrors(existing []string, extras ...string) []string {
	return normalizeMessages(append(append([]string(nil), existing...), extras...))
}

// MapErrorPayload resolves server error paths (JSON pointers, dotted or
// bracketed paths, optionally wrapped in body/data segments) against the keys
// of view. Paths that match no field become form level messages.
func MapErrorPayload(view *form.View, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	index := newFieldIndex(view)
	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		key, ok := index.resolve(raw)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = make(map[string][]string)
		}
		mapping.Fields[key] = append(mapping.Fields[key], messages...)
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	var out []string
	seen := make(map[string]bool, len(messages))
	for _, message := range messages {
		message = strings.TrimSpace(message)
		if message == "" || seen[message] {
			continue
		}
		seen[message] = true
		out = append(out, message)
	}
	return out
}

// wrapperSegments are envelope names servers put in front of field paths.
var wrapperSegments = map[string]bool{
	"body":       true,
	"request":    true,
	"payload":    true,
	"data":       true,
	"attributes": true,
}

// fieldIndex holds every rendered key plus `key.sub` for the item properties
// of object lists.
type fieldIndex map[string]bool

func newFieldIndex(view *form.View) fieldIndex {
	index := make(fieldIndex)
	for _, c := range view.Controls() {
		key := strings.TrimSpace(c.Key)
		if key == "" {
			continue
		}
		index[key] = true
		if c.Schema == nil || c.Schema.Items == nil {
			continue
		}
		for _, sub := range c.Schema.Items.Properties.Keys() {
			index[key+"."+sub] = true
		}
	}
	return index
}

// resolve returns the deepest field key matched by a prefix of raw, trying
// raw as given, without wrapper segments and without numeric indices.
func (idx fieldIndex) resolve(raw string) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitErrorPath(raw)
	if len(segments) == 0 {
		return "", false
	}

	unwrapped := segments
	for len(unwrapped) > 0 && wrapperSegments[strings.ToLower(unwrapped[0])] {
		unwrapped = unwrapped[1:]
	}

	best, depth := "", 0
	for _, candidate := range [][]string{segments, unwrapped, withoutIndices(segments), withoutIndices(unwrapped)} {
		for end := len(candidate); end > depth; end-- {
			key := strings.Join(candidate[:end], ".")
			if idx[key] {
				best, depth = key, end
				break
			}
		}
	}
	return best, best != ""
}

var errorPathReplacer = strings.NewReplacer("[", ".", "]", "")

// splitErrorPath turns "#/a/b", "$.a[0].b" and "a.b" forms into segments,
// unescaping JSON pointer tokens.
func splitErrorPath(raw string) []string {
	clean := strings.TrimLeft(strings.TrimSpace(raw), "#$/.")
	clean = errorPathReplacer.Replace(clean)

	var out []string
	for _, part := range strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		out = append(out, strings.ReplaceAll(part, "~0", "~"))
	}
	return out
}

func withoutIndices(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err != nil {
			out = append(out, segment)
		}
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}

// FromIssues groups validation issues into an error payload keyed by field,
// or by document path for issues without one.
func FromIssues(issues validation.Issues) map[string][]string {
	if len(issues) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, issue := range issues {
		key := issue.Field
		if key == "" {
			key = issue.Path
		}
		out[key] = append(out[key], issue.Message)
	}
	return out
}

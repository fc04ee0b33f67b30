package validation

import (
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodePattern       = "pattern"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeTooFew        = "too_few"
	CodeTooMany       = "too_many"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeNotMultiple   = "not_multiple"
	CodeParseError    = "parse_error"
	CodeKeyMismatch   = "key_mismatch"
	CodeInvalidLink   = "invalid_link"
	CodeInvalidBounds = "invalid_bounds"
)

// Issue is one validation failure, attached to a field or a document path.
type Issue struct {
	Path    string         `json:"path,omitempty"`
	Field   string         `json:"field,omitempty"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

// Issues is a list of failures that implements error.
type Issues []Issue

// Error summarises the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	var b strings.Builder
	limit := len(iss)
	if limit > maxShown {
		limit = maxShown
	}
	for idx := 0; idx < limit; idx++ {
		if idx > 0 {
			b.WriteString("; ")
		}
		target := iss[idx].Field
		if target == "" {
			target = iss[idx].Path
		}
		fmt.Fprintf(&b, "%s at %s", iss[idx].Code, target)
	}
	if len(iss) > limit {
		fmt.Fprintf(&b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// ByField groups issues by field, keeping the first message per field.
func (iss Issues) ByField() map[string]string {
	out := make(map[string]string, len(iss))
	for _, issue := range iss {
		if _, exists := out[issue.Field]; exists {
			continue
		}
		out[issue.Field] = issue.Message
	}
	return out
}

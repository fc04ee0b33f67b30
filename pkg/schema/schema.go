package schema

import (
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Media describes binary payload hints attached to a property (for example a
// base64 encoded JPEG captured from a camera).
type Media struct {
	Type           string `json:"type,omitempty"`
	BinaryEncoding string `json:"binaryEncoding,omitempty"`
}

// Schema is the recursive draft-03 style node used for whole documents, field
// fragments and toolbox templates alike. Keys the struct does not model are
// kept in Extra so documents round-trip without loss.
type Schema struct {
	ID          string      `json:"id,omitempty"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Type        string      `json:"type,omitempty"`
	Format      string      `json:"format,omitempty"`
	Required    bool        `json:"required,omitempty"`
	ReadOnly    bool        `json:"readonly,omitempty"`
	Pattern     string      `json:"pattern,omitempty"`
	Minimum     *float64    `json:"minimum,omitempty"`
	Maximum     *float64    `json:"maximum,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
	MinLength   *int        `json:"minLength,omitempty"`
	MaxLength   *int        `json:"maxLength,omitempty"`
	MinItems    *int        `json:"minItems,omitempty"`
	MaxItems    *int        `json:"maxItems,omitempty"`
	MultipleOf  *float64    `json:"multipleOf,omitempty"`
	DivisibleBy *float64    `json:"divisibleBy,omitempty"`
	Enum        []any       `json:"enum,omitempty"`
	Default     any         `json:"default,omitempty"`
	Ref         string      `json:"$ref,omitempty"`
	Items       *Schema     `json:"items,omitempty"`
	Properties  *Properties `json:"properties,omitempty"`
	Extends     []*Schema   `json:"extends,omitempty"`
	Links       Links       `json:"links,omitempty"`
	Media       *Media      `json:"media,omitempty"`
	MediaType   string      `json:"mediaType,omitempty"`
	FieldName   string      `json:"fieldName,omitempty"`
	Sequence    Sequence    `json:"sequence,omitempty"`

	Extra map[string]any `json:"-"`
}

var knownKeys = map[string]struct{}{
	"id": {}, "title": {}, "description": {}, "type": {}, "format": {},
	"required": {}, "readonly": {}, "pattern": {}, "minimum": {}, "maximum": {},
	"min": {}, "max": {}, "minLength": {}, "maxLength": {}, "minItems": {},
	"maxItems": {}, "multipleOf": {}, "divisibleBy": {}, "enum": {},
	"default": {}, "$ref": {}, "items": {}, "properties": {}, "extends": {},
	"links": {}, "media": {}, "mediaType": {}, "fieldName": {}, "sequence": {},
}

// Sequence is the ordering suffix of a builder field. Documents in the wild
// carry it either as a number or as a numeric string.
type Sequence int

// UnmarshalJSON accepts 20, "20" and "" (zero).
func (s *Sequence) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*s = Sequence(int(value))
	return nil
}

// String formats the sequence for identifiers.
func (s Sequence) String() string {
	return strconv.Itoa(int(s))
}

// UnmarshalJSON decodes a schema node, tolerating the loose shapes found in
// older documents: `type` given as a list, `description` given as a list of
// lines and draft-04 `required` arrays (which mark the named properties).
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var requiredNames []string
	if value, ok := raw["required"]; ok && isJSONArray(value) {
		if err := json.Unmarshal(value, &requiredNames); err != nil {
			return err
		}
		delete(raw, "required")
	}
	if value, ok := raw["type"]; ok && isJSONArray(value) {
		raw["type"] = firstStringOf(value)
	}
	if value, ok := raw["description"]; ok && isJSONArray(value) {
		var lines []string
		if err := json.Unmarshal(value, &lines); err == nil {
			encoded, _ := json.Marshal(strings.Join(lines, ""))
			raw["description"] = encoded
		}
	}

	patched, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	type plain Schema
	var out plain
	if err := json.Unmarshal(patched, &out); err != nil {
		return err
	}
	*s = Schema(out)

	for key, value := range raw {
		if _, known := knownKeys[key]; known {
			continue
		}
		var decoded any
		if err := json.Unmarshal(value, &decoded); err != nil {
			return err
		}
		if s.Extra == nil {
			s.Extra = make(map[string]any)
		}
		s.Extra[key] = decoded
	}

	for _, name := range requiredNames {
		if prop, ok := s.Properties.Get(name); ok && prop != nil {
			prop.Required = true
		}
	}
	return nil
}

// MarshalJSON encodes the modelled keys and merges Extra entries that do not
// collide with them.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema
	base, err := json.Marshal(plain(s))
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return base, nil
	}
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for key, value := range s.Extra {
		if _, exists := merged[key]; exists {
			continue
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		merged[key] = encoded
	}
	return json.Marshal(merged)
}

// DataType returns the item type for arrays that declare one, otherwise the
// node's own type.
func (s *Schema) DataType() string {
	if s == nil {
		return ""
	}
	if s.Items != nil && s.Items.Type != "" {
		return s.Items.Type
	}
	return s.Type
}

// FullFormat returns the lowercased format (item format first), including any
// `:name=value` sub-properties.
func (s *Schema) FullFormat() string {
	if s == nil {
		return ""
	}
	if s.Items != nil && s.Items.Format != "" {
		return strings.ToLower(s.Items.Format)
	}
	return strings.ToLower(s.Format)
}

// BaseFormat is FullFormat without sub-properties.
func (s *Schema) BaseFormat() string {
	format := s.FullFormat()
	if idx := strings.IndexByte(format, ':'); idx >= 0 {
		return format[:idx]
	}
	return format
}

// EnsureProperties initialises an empty property map when absent and returns it.
func (s *Schema) EnsureProperties() *Properties {
	if s.Properties == nil {
		s.Properties = NewProperties()
	}
	return s.Properties
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return strings.HasPrefix(trimmed, "[")
}

func firstStringOf(raw json.RawMessage) json.RawMessage {
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return json.RawMessage(`""`)
	}
	for _, item := range items {
		if str, ok := item.(string); ok {
			encoded, _ := json.Marshal(str)
			return encoded
		}
	}
	return json.RawMessage(`""`)
}

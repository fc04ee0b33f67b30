package validation

import (
	"testing"

	"github.com/goliatone/go-formkit/pkg/schema"
)

func codes(issues Issues) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Code)
	}
	return out
}

func TestValue(t *testing.T) {
	v := NewValidator(nil)

	cases := []struct {
		name  string
		prop  *schema.Schema
		value any
		want  string
	}{
		{name: "required empty", prop: &schema.Schema{Type: "string", Required: true}, value: "", want: CodeRequired},
		{name: "optional empty passes", prop: &schema.Schema{Type: "string", MinLength: schema.Int(3)}, value: ""},
		{name: "integer type", prop: &schema.Schema{Type: "integer"}, value: "1.5", want: CodeInvalidType},
		{name: "integer ok", prop: &schema.Schema{Type: "integer"}, value: "12"},
		{name: "minimum", prop: &schema.Schema{Type: "number", Minimum: schema.Float(5)}, value: 4.0, want: CodeTooSmall},
		{name: "maximum", prop: &schema.Schema{Type: "number", Max: schema.Float(5)}, value: "6", want: CodeTooBig},
		{name: "multiple", prop: &schema.Schema{Type: "number", DivisibleBy: schema.Float(5)}, value: "12", want: CodeNotMultiple},
		{name: "pattern anchors", prop: &schema.Schema{Type: "string", Pattern: "[0-9]+"}, value: "12a", want: CodePattern},
		{name: "pattern ok", prop: &schema.Schema{Type: "string", Pattern: "[0-9]+"}, value: "123"},
		{name: "too long", prop: &schema.Schema{Type: "string", MaxLength: schema.Int(2)}, value: "abc", want: CodeTooLong},
		{name: "email", prop: &schema.Schema{Type: "string", Format: "email"}, value: "nope", want: CodeInvalidFormat},
		{name: "uri", prop: &schema.Schema{Type: "string", Format: "uri"}, value: "https://example.com"},
		{name: "enum", prop: &schema.Schema{Type: "string", Enum: []any{"a", "b"}}, value: "c", want: CodeInvalidEnum},
		{name: "numeric enum from text", prop: &schema.Schema{Type: "integer", Enum: []any{1.0, 2.0}}, value: "2"},
		{name: "min items", prop: &schema.Schema{Type: "array", MinItems: schema.Int(2)}, value: []any{"a"}, want: CodeTooFew},
		{name: "item type", prop: &schema.Schema{Type: "array", Items: &schema.Schema{Type: "integer"}}, value: []any{"x"}, want: CodeInvalidType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := v.Value("field", tc.prop, tc.value)
			if tc.want == "" {
				if len(got) != 0 {
					t.Fatalf("expected no issues, got %v", codes(got))
				}
				return
			}
			if len(got) == 0 || got[0].Code != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, codes(got))
			}
			if got[0].Field != "field" || got[0].Message == "" {
				t.Fatalf("expected field and message, got %+v", got[0])
			}
		})
	}
}

func TestValue_MessageUsesTitle(t *testing.T) {
	got := NewValidator(nil).Value("first", &schema.Schema{Title: "First name", Required: true}, nil)
	if len(got) != 1 || got[0].Message != "First name is required" {
		t.Fatalf("unexpected issues %+v", got)
	}
}

func TestValidateDocument(t *testing.T) {
	raw := []byte(`{
		"properties": {
			"name#10": {"id": "urn:form:text:name:10", "type": "string"},
			"age#20": {"id": "urn:form:number:age:30", "type": "integer", "minimum": 5, "maximum": 1},
			"pick": {"type": "string", "format": "radio"}
		},
		"links": [{"rel": "create"}]
	}`)
	result := ValidateDocument(raw, schema.EncodingJSON)
	if result.Valid {
		t.Fatalf("expected invalid document")
	}
	want := map[string]bool{CodeKeyMismatch: false, CodeInvalidBounds: false, CodeInvalidFormat: false, CodeInvalidLink: false}
	for _, issue := range result.Issues {
		want[issue.Code] = true
	}
	for code, seen := range want {
		if !seen {
			t.Fatalf("expected %s issue, got %v", code, codes(result.Issues))
		}
	}
}

func TestValidateDocument_ParseError(t *testing.T) {
	result := ValidateDocument([]byte(`{`), schema.EncodingJSON)
	if result.Valid || len(result.Issues) != 1 || result.Issues[0].Code != CodeParseError {
		t.Fatalf("expected parse error, got %+v", result)
	}
}

package render

import (
	"net/http"
	"sort"
	"strings"
)

// RenderOptions carry per-request data a renderer folds into its output
// without touching the form.
type RenderOptions struct {
	// Action is the submission target. Empty leaves the form without one.
	Action string
	// Method is translated into POST plus a hidden _method field for verbs
	// browsers cannot submit.
	Method string
	// Errors are field messages keyed by form key. Messages under keys that
	// match no field are shown at form level.
	Errors map[string][]string
	// Hidden fields are emitted before the controls.
	Hidden []HiddenField
}

// HiddenField is a hidden input rendered with the form.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CSRFToken returns a hidden field carrying token under name.
func CSRFToken(name, token string) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: token}
}

// MethodOverrideField is the hidden input that carries the real verb.
const MethodOverrideField = "_method"

// FormMethod returns the method attribute for a form element and the override
// verb to carry in a hidden field, if any.
func FormMethod(method string) (string, string) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "", http.MethodPost:
		return http.MethodPost, ""
	case http.MethodGet:
		return http.MethodGet, ""
	default:
		return http.MethodPost, method
	}
}

// HiddenFields merges the option hidden fields with the method override.
// Empty names are dropped, later fields win and the result is sorted by name.
func (o RenderOptions) HiddenFields() []HiddenField {
	values := make(map[string]string, len(o.Hidden)+1)
	for _, field := range o.Hidden {
		if name := strings.TrimSpace(field.Name); name != "" {
			values[name] = field.Value
		}
	}
	if _, override := FormMethod(o.Method); override != "" {
		values[MethodOverrideField] = override
	}
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, len(names))
	for idx, name := range names {
		out[idx] = HiddenField{Name: name, Value: values[name]}
	}
	return out
}

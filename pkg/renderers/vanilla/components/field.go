package components

// Attribute is one rendered HTML attribute.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option is one choice of a select or radio group.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Field is the template payload for one control. Description holds sanitized
// HTML and is rendered unescaped.
type Field struct {
	Key         string      `json:"key"`
	ID          string      `json:"id"`
	LabelID     string      `json:"labelId"`
	Label       string      `json:"label"`
	Kind        string      `json:"kind"`
	Component   string      `json:"component"`
	Attributes  []Attribute `json:"attributes"`
	Value       string      `json:"value"`
	Values      []string    `json:"values,omitempty"`
	Checked     bool        `json:"checked"`
	Options     []Option    `json:"options,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
	Description string      `json:"description,omitempty"`
	Errors      []string    `json:"errors,omitempty"`
	Required    bool        `json:"required"`
	Readonly    bool        `json:"readonly"`
	Headers     []string    `json:"headers,omitempty"`
	Rows        [][]string  `json:"rows,omitempty"`
	Prefixes    []Option    `json:"prefixes,omitempty"`
	Symbol      string      `json:"symbol,omitempty"`
}

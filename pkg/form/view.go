package form

// Button is rendered below the fields.
type Button struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type"`
	Label string `json:"label"`
}

// Column is one fieldset of a multi-column layout.
type Column struct {
	Controls []*Control
}

// View is the rendered widget tree of a form.
type View struct {
	Title       string
	Description string
	// SchemaType is the title of the selected schema.
	SchemaType string
	// SchemaTypes lists every schema title when more than one is available.
	SchemaTypes []string
	SchemaIndex int
	Columns     []Column
	MultiColumn bool
	Buttons     []Button
	Readonly    bool
	Mode        Mode
}

// Controls flattens the columns in display order.
func (v *View) Controls() []*Control {
	if v == nil {
		return nil
	}
	var out []*Control
	for _, column := range v.Columns {
		out = append(out, column.Controls...)
	}
	return out
}

// Keys lists the rendered property keys in display order.
func (v *View) Keys() []string {
	controls := v.Controls()
	keys := make([]string, len(controls))
	for idx, c := range controls {
		keys[idx] = c.Key
	}
	return keys
}

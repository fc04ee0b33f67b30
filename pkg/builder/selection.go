package builder

// Mode is the selection state.
type Mode int

const (
	SelectionNone Mode = iota
	SelectionForm
	SelectionField
)

func (m Mode) String() string {
	switch m {
	case SelectionForm:
		return "form"
	case SelectionField:
		return "field"
	default:
		return "none"
	}
}

// Selection is what the property area currently edits: nothing, the form
// metadata or one field identified by its data key.
type Selection struct {
	Mode    Mode
	DataKey string
}

// Direction of a re-index pass.
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// KeyEvent is a keystroke delivered to a property form control.
type KeyEvent struct {
	// Type is the event name, e.g. "keydown".
	Type string
	// Target is the id of the focused control.
	Target string
	Code   int
	Shift  bool
	Alt    bool
}

// Key codes accepted in the field name box.
const (
	KeyBackspace = 8
	KeyTab       = 9
	KeyEnter     = 13
	KeyEsc       = 27
	KeyPageUp    = 33
	KeyPageDown  = 34
	KeyEnd       = 35
	KeyHome      = 36
	KeyLeft      = 37
	KeyUp        = 38
	KeyRight     = 39
	KeyDown      = 40
	Key0         = 48
	Key9         = 57
	KeyA         = 65
	KeyZ         = 90
)

// FieldNameControl is the property form control holding the field name.
const FieldNameControl = "fieldName"

// AcceptKey reports whether a keystroke may reach the control. Key downs in
// the field name box are limited to letters, digits and navigation keys;
// everything else passes.
func AcceptKey(e KeyEvent) bool {
	if e.Type != "keydown" || e.Target != FieldNameControl {
		return true
	}
	switch e.Code {
	case KeyBackspace, KeyTab, KeyEsc, KeyPageUp, KeyPageDown, KeyHome, KeyEnd,
		KeyLeft, KeyRight, KeyUp, KeyDown:
		return true
	}
	if !e.Alt && e.Code >= KeyA && e.Code <= KeyZ {
		return true
	}
	return !e.Shift && !e.Alt && e.Code >= Key0 && e.Code <= Key9
}

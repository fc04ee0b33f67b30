package components

import "github.com/goliatone/go-formkit/pkg/widgets"

// Component names registered by NewDefaultRegistry.
const (
	NameInput      = "input"
	NameTextarea   = "textarea"
	NameSelect     = "select"
	NameCheckbox   = "checkbox"
	NameRadioGroup = "radio-group"
	NameRating     = "rating"
	NameInputArray = "input-array"
	NameObjectList = "object-list"
	NameFile       = "file"
	NameProperty   = "property"
	NamePhone      = "phone"
	NameCurrency   = "currency"
)

// NameFor maps a widget kind to the component that draws it.
func NameFor(kind widgets.Kind) string {
	switch kind {
	case widgets.KindTextarea:
		return NameTextarea
	case widgets.KindSelect, widgets.KindIntSelect:
		return NameSelect
	case widgets.KindCheckbox:
		return NameCheckbox
	case widgets.KindRadioGroup:
		return NameRadioGroup
	case widgets.KindRating:
		return NameRating
	case widgets.KindInputArray, widgets.KindListBuilder:
		return NameInputArray
	case widgets.KindObjectList:
		return NameObjectList
	case widgets.KindFile, widgets.KindMultiFile, widgets.KindImport,
		widgets.KindImageCapture, widgets.KindRemoteImageCapture:
		return NameFile
	case widgets.KindProperty, widgets.KindViewContext:
		return NameProperty
	case widgets.KindPhone:
		return NamePhone
	case widgets.KindCurrency:
		return NameCurrency
	default:
		return NameInput
	}
}

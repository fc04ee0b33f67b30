package widgets

// Kind tags the concrete input a field resolves to.
type Kind string

const (
	KindNone               Kind = ""
	KindProperty           Kind = "property"
	KindCheckbox           Kind = "checkbox"
	KindEmail              Kind = "email"
	KindIntSelect          Kind = "int-select"
	KindRating             Kind = "rating"
	KindRadioGroup         Kind = "radio-group"
	KindSelect             Kind = "select"
	KindListBuilder        Kind = "list-builder"
	KindObjectList         Kind = "object-list"
	KindImageCapture       Kind = "image-capture"
	KindRemoteImageCapture Kind = "remote-image-capture"
	KindInputArray         Kind = "input-array"
	KindNumber             Kind = "number"
	KindImport             Kind = "import"
	KindFile               Kind = "file"
	KindMultiFile          Kind = "multi-file"
	KindBarcodeScanner     Kind = "barcode-scanner"
	KindConfirmEmail       Kind = "confirm-email"
	KindURL                Kind = "url"
	KindViewContext        Kind = "current-view-context"
	KindLocalDateTime      Kind = "local-date-time"
	KindBirthDate          Kind = "birth-date"
	KindDateTime           Kind = "date-time"
	KindDate               Kind = "date"
	KindTime               Kind = "time"
	KindPhone              Kind = "phone"
	KindCurrency           Kind = "currency"
	KindTextarea           Kind = "textarea"
	KindText               Kind = "text"
)

// IsDateFamily reports kinds backed by the date/time control.
func (k Kind) IsDateFamily() bool {
	switch k {
	case KindLocalDateTime, KindBirthDate, KindDateTime, KindDate, KindTime:
		return true
	}
	return false
}

// IsList reports kinds whose value is a list.
func (k Kind) IsList() bool {
	switch k {
	case KindListBuilder, KindObjectList, KindInputArray, KindImport, KindMultiFile:
		return true
	}
	return false
}

// ObjectListReservedKey is never rendered as an object list.
const ObjectListReservedKey = "list"

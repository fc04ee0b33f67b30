package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm     ChromeClass = "formkit-form"
	ClassHeader   ChromeClass = "formkit-header"
	ClassSection  ChromeClass = "formkit-section"
	ClassFieldset ChromeClass = "formkit-fieldset"
	ClassActions  ChromeClass = "formkit-actions"
	ClassErrors   ChromeClass = "formkit-errors"
	ClassGrid     ChromeClass = "formkit-grid"
	ClassField    ChromeClass = "formkit-field"
)

// defaultClasses maps template keys to chrome classes.
func defaultClasses() map[string]string {
	return map[string]string{
		"form":     string(ClassForm),
		"header":   string(ClassHeader),
		"section":  string(ClassSection),
		"fieldset": string(ClassFieldset),
		"actions":  string(ClassActions),
		"errors":   string(ClassErrors),
		"grid":     string(ClassGrid),
		"field":    string(ClassField),
	}
}

// mergeClasses applies non-empty overrides on top of the defaults. Override
// values are class lists; unknown keys are kept so custom templates can use
// them.
func mergeClasses(overrides map[string]string) map[string]string {
	classes := defaultClasses()
	for key, value := range overrides {
		if value = sanitizeClassList(value); value != "" {
			classes[key] = value
		}
	}
	return classes
}

package form

import (
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// IsValid validates every rendered, writable control and flags the ones that
// fail. With persistence enabled the raw values are written to the session
// store after each pass.
func (f *Form) IsValid() bool {
	if f.cfg.disableValidation {
		return true
	}
	doc := f.Schema()
	if doc == nil {
		return true
	}
	f.issues = nil
	for _, key := range schema.FieldKeys(doc.Properties) {
		c, ok := f.controls[key]
		if !ok || c.Readonly {
			continue
		}
		f.issues = append(f.issues, f.validateControl(c)...)
	}
	f.persistRaw()
	return len(f.issues) == 0
}

// Issues returns the findings of the last IsValid pass.
func (f *Form) Issues() validation.Issues {
	return append(validation.Issues(nil), f.issues...)
}

// ValidateField validates one control and updates its error state.
func (f *Form) ValidateField(key string) validation.Issues {
	c, ok := f.controls[key]
	if !ok || f.cfg.disableValidation {
		return nil
	}
	return f.validateControl(c)
}

// Blur is the focus-out handler. Checkboxes validate on Toggle instead.
func (f *Form) Blur(key string) validation.Issues {
	c, ok := f.controls[key]
	if !ok || c.Kind() == widgets.KindCheckbox {
		return nil
	}
	return f.ValidateField(key)
}

// Toggle flips a checkbox and validates it.
func (f *Form) Toggle(key string) validation.Issues {
	c, ok := f.controls[key]
	if !ok || c.Kind() != widgets.KindCheckbox {
		return nil
	}
	c.SetValue(!c.Checked())
	return f.ValidateField(key)
}

// SetValue writes a control value as user input would. Country selects update
// the prefix of every phone control and fire Hooks.CountryChange.
func (f *Form) SetValue(key string, value any) bool {
	c, ok := f.controls[key]
	if !ok {
		return false
	}
	c.SetValue(value)
	if c.Widget.Country {
		country := c.Text()
		for _, other := range f.view.Controls() {
			if other.Kind() != widgets.KindPhone {
				continue
			}
			other.SetAttribute("country-code", country)
			f.ValidateField(other.Key)
		}
		if f.cfg.hooks.CountryChange != nil {
			f.cfg.hooks.CountryChange(key, country)
		}
	}
	return true
}

// ClearValidationErrors resets the error state of every control.
func (f *Form) ClearValidationErrors() {
	for _, c := range f.controls {
		c.clearError()
	}
	f.issues = nil
}

func (f *Form) validateControl(c *Control) validation.Issues {
	c.clearError()
	var value any
	switch {
	case c.Kind() == widgets.KindCheckbox:
		value = c.Checked()
	case c.Schema.Pattern != "":
		value = c.Text()
	default:
		value = c.Value()
		if text, ok := value.(string); ok {
			value = strings.TrimSpace(text)
		}
	}
	issues := f.validator.Value(c.Key, c.Schema, value)
	if len(issues) > 0 {
		c.setError(issues[0].Message)
	}
	return issues
}

func (f *Form) persistRaw() {
	if !f.cfg.persist || f.cfg.src == "" {
		return
	}
	raw, err := json.Marshal(f.GetRawData())
	if err != nil {
		f.cfg.logger.Warn("form: persist failed", "src", f.cfg.src, "error", err)
		return
	}
	f.cfg.store.Set(f.cfg.src, raw)
}

package components

import (
	"bytes"
	"fmt"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry returns a registry with a template backed component for
// every widget family.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{
		NameInput, NameTextarea, NameSelect, NameRating, NameInputArray,
		NameFile, NameProperty, NamePhone, NameCurrency,
	} {
		registry.MustRegister(name, Descriptor{Renderer: TemplateRenderer(templatePrefix + name + ".tmpl")})
	}
	registry.MustRegister(NameCheckbox, Descriptor{
		Renderer:  TemplateRenderer(templatePrefix + NameCheckbox + ".tmpl"),
		OwnsLabel: true,
	})
	registry.MustRegister(NameRadioGroup, Descriptor{
		Renderer:  TemplateRenderer(templatePrefix + NameRadioGroup + ".tmpl"),
		OwnsLabel: true,
	})
	registry.MustRegister(NameObjectList, Descriptor{
		Renderer:  TemplateRenderer(templatePrefix + NameObjectList + ".tmpl"),
		OwnsLabel: true,
	})
	return registry
}

// TemplateRenderer renders field through the named template with the payload
// {field, classes}.
func TemplateRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}
		rendered, err := data.Template.RenderTemplate(templateName, map[string]any{
			"field":   field,
			"classes": data.Classes,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

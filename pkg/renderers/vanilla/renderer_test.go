package vanilla

import (
	"bytes"
	"strings"
	"testing"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
	"github.com/goliatone/go-formkit/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-formkit/pkg/testsupport"
)

func renderContact(t *testing.T, options render.RenderOptions, formOptions ...form.Option) (string, *form.Form) {
	t.Helper()

	f := form.New(formOptions...)
	f.SetSchema(testsupport.LoadSchema(t, "testdata/contact.json"))
	f.SetValue("color", "green")
	f.SetValue("tags", []any{"a", "b"})

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), f.View(), options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out), f
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q\n%s", fragment, html)
		}
	}
}

func TestRender_FormChrome(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{Action: "/contacts"})

	assertContains(t, html,
		`<form class="formkit-form" action="/contacts" method="POST"`,
		`<h2>Contact</h2>`,
		`Tell us <em>who</em> you are`,
		`<button type="submit">Save</button>`,
	)
}

func TestRender_FieldControls(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{})

	assertContains(t, html,
		`<label id="fk-name-label" for="fk-name">Full name`,
		`required="required"`,
		`minlength="2"`,
		`type="email"`,
		`<label class="formkit-checkbox" id="fk-agree-label">`,
		`type="checkbox"`,
		`<option value="green" selected>green</option>`,
		`<option value="red">red</option>`,
		`<textarea`,
		`value="a"`,
		`value="b"`,
	)
	assertNotContains(t, html, `<label id="fk-agree-label" for="fk-agree">`)
}

func TestRender_FirstControlGetsAutofocus(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{})

	if got := strings.Count(html, `autofocus="autofocus"`); got != 1 {
		t.Fatalf("expected one autofocus attribute, got %d", got)
	}
}

func TestRender_SanitizesDescriptions(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{})

	assertContains(t, html, `<div class="formkit-help"><p>Hello `, `rel="nofollow`)
	assertNotContains(t, html, "<script", "alert(1)")
}

func TestRender_MapsErrors(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{
		Errors: map[string][]string{
			"/name":   {"is too short"},
			"unknown": {"server unavailable"},
		},
	})

	assertContains(t, html,
		`formkit-field formkit-invalid" data-key="name"`,
		`<p class="formkit-error" role="alert">is too short</p>`,
		`<ul class="formkit-errors" role="alert"><li>server unavailable</li></ul>`,
		`aria-invalid="true"`,
	)
}

func TestRender_ControlErrorsFromValidation(t *testing.T) {
	f := form.New()
	f.SetSchema(testsupport.LoadSchema(t, "testdata/contact.json"))
	f.SetValue("name", "A")
	if f.IsValid() {
		t.Fatalf("expected short name to fail validation")
	}

	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), f.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `formkit-field formkit-invalid" data-key="name"`)
}

func TestRender_MethodOverrideAndHiddenFields(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{
		Method: "PUT",
		Hidden: []render.HiddenField{render.CSRFToken("csrf", "tok<en>")},
	})

	assertContains(t, html,
		`method="POST"`,
		`<input type="hidden" name="_method" value="PUT">`,
		`<input type="hidden" name="csrf" value="tok&lt;en&gt;">`,
	)
}

func TestRender_MultiColumnGrid(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{}, form.WithColumns(2))

	assertContains(t, html, `data-columns="2"`)
	if got := strings.Count(html, `<fieldset class="formkit-fieldset">`); got != 2 {
		t.Fatalf("expected 2 fieldsets, got %d", got)
	}
}

func TestRender_OverrideModeWrapsControls(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{}, form.WithMode(form.ModeOverride))

	assertContains(t, html, `<div class="formkit-override" data-key="name">`)
}

func TestRender_ReadonlyForm(t *testing.T) {
	html, _ := renderContact(t, render.RenderOptions{}, form.WithReadonly(true))

	assertContains(t, html, `data-readonly="true"`, `disabled="disabled"`)
	assertNotContains(t, html, `autofocus`)
}

func TestRender_ChromeClassOverrides(t *testing.T) {
	f := form.New()
	f.SetSchema(testsupport.LoadSchema(t, "testdata/contact.json"))

	renderer, err := New(WithChromeClasses(map[string]string{"form": "card fk-internal"}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), f.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `<form class="card"`)
}

func TestRender_ComponentOverride(t *testing.T) {
	f := form.New()
	f.SetSchema(testsupport.LoadSchema(t, "testdata/contact.json"))

	registry := components.NewDefaultRegistry()
	registry.MustRegister("shout", components.Descriptor{
		Renderer: func(buf *bytes.Buffer, field components.Field, _ components.ComponentData) error {
			buf.WriteString("<b>" + strings.ToUpper(field.Key) + "</b>")
			return nil
		},
		Stylesheets: []string{"/assets/shout.css"},
	})
	renderer, err := New(
		WithRegistry(registry),
		WithComponentOverrides(map[string]string{"email": "shout"}),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(testsupport.Context(), f.View(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `<b>EMAIL</b>`, `<link rel="stylesheet" href="/assets/shout.css">`)
}

func TestRender_UnknownComponentFails(t *testing.T) {
	f := form.New()
	f.SetSchema(testsupport.LoadSchema(t, "testdata/contact.json"))

	renderer, err := New(WithComponentOverrides(map[string]string{"email": "missing"}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := renderer.Render(testsupport.Context(), f.View(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for unregistered component")
	}
}

func TestControlID(t *testing.T) {
	cases := map[string]string{
		"name":            "fk-name",
		"ca:form:text#10": "fk-ca-form-text-10",
		"  spaced key  ":  "fk-spaced-key",
		"":                "",
	}
	for input, want := range cases {
		if got := controlID(input); got != want {
			t.Fatalf("controlID(%q) = %q, want %q", input, got, want)
		}
	}
}

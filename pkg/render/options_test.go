package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/render"
)

func TestFormMethod(t *testing.T) {
	cases := map[string][2]string{
		"":       {"POST", ""},
		"post":   {"POST", ""},
		"GET":    {"GET", ""},
		"put":    {"POST", "PUT"},
		"DELETE": {"POST", "DELETE"},
	}
	for in, want := range cases {
		method, override := render.FormMethod(in)
		if method != want[0] || override != want[1] {
			t.Fatalf("FormMethod(%q) = %q, %q; want %q, %q", in, method, override, want[0], want[1])
		}
	}
}

func TestRenderOptions_HiddenFields(t *testing.T) {
	opts := render.RenderOptions{
		Method: "PUT",
		Hidden: []render.HiddenField{
			render.CSRFToken("_csrf", "first"),
			{Name: " ", Value: "dropped"},
			render.CSRFToken("_csrf", "second"),
		},
	}
	want := []render.HiddenField{
		{Name: "_csrf", Value: "second"},
		{Name: "_method", Value: "PUT"},
	}
	if diff := cmp.Diff(want, opts.HiddenFields()); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if got := (render.RenderOptions{}).HiddenFields(); got != nil {
		t.Fatalf("expected no hidden fields, got %v", got)
	}
}

type stubRenderer struct {
	name, contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, *form.View, render.RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	reg := render.NewRegistry()
	reg.MustRegister(stubRenderer{name: "html", contentType: "text/html; charset=utf-8"})
	reg.MustRegister(stubRenderer{name: "json", contentType: "application/json"})

	if err := reg.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"html", "json"}, reg.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	fallback, err := reg.Get("")
	if err != nil || fallback.Name() != "html" {
		t.Fatalf("expected html default, got %v (%v)", fallback, err)
	}
	if _, err := reg.Get("jsx"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	negotiated, err := reg.Negotiate("application/xml, application/json;q=0.9")
	if err != nil || negotiated.Name() != "json" {
		t.Fatalf("expected json renderer, got %v (%v)", negotiated, err)
	}
	negotiated, _ = reg.Negotiate("*/*")
	if negotiated.Name() != "html" {
		t.Fatalf("wildcard should pick the default, got %s", negotiated.Name())
	}

	if err := reg.SetDefault("json"); err != nil {
		t.Fatalf("set default: %v", err)
	}
	if got, _ := reg.Get(""); got.Name() != "json" {
		t.Fatalf("expected json default, got %s", got.Name())
	}
}

package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/widgets"
)

func noopRenderer(*bytes.Buffer, Field, ComponentData) error { return nil }

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	if err := reg.Register("Test", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("test")
	if !ok {
		t.Fatalf("descriptor not found")
	}
	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if diff := cmp.Diff([]string{"/a.css"}, original.Stylesheets); diff != "" {
		t.Fatalf("registry descriptor mutated (-want +got):\n%s", diff)
	}
	if err := reg.Register("broken", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	reg.MustRegister("input", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/shared.css", "/input.css"}})
	reg.MustRegister("select", Descriptor{Renderer: noopRenderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	got := reg.Stylesheets([]string{"input", "select", "missing"})
	if diff := cmp.Diff([]string{"/shared.css", "/input.css", "/select.css"}, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultRegistryCoversEveryKind(t *testing.T) {
	reg := NewDefaultRegistry()
	kinds := []widgets.Kind{
		widgets.KindProperty, widgets.KindCheckbox, widgets.KindEmail, widgets.KindIntSelect,
		widgets.KindRating, widgets.KindRadioGroup, widgets.KindSelect, widgets.KindListBuilder,
		widgets.KindObjectList, widgets.KindImageCapture, widgets.KindRemoteImageCapture,
		widgets.KindInputArray, widgets.KindNumber, widgets.KindImport, widgets.KindFile,
		widgets.KindMultiFile, widgets.KindBarcodeScanner, widgets.KindConfirmEmail, widgets.KindURL,
		widgets.KindViewContext, widgets.KindLocalDateTime, widgets.KindBirthDate, widgets.KindDateTime,
		widgets.KindDate, widgets.KindTime, widgets.KindPhone, widgets.KindCurrency,
		widgets.KindTextarea, widgets.KindText,
	}
	for _, kind := range kinds {
		if _, ok := reg.Descriptor(NameFor(kind)); !ok {
			t.Fatalf("no component registered for kind %q", kind)
		}
	}
	if desc, _ := reg.Descriptor(NameCheckbox); !desc.OwnsLabel {
		t.Fatalf("checkbox should render its own label")
	}
}

package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestRenderCommand_WritesHTML(t *testing.T) {
	out := filepath.Join(t.TempDir(), "contact.html")
	if err := execute(t, "render", "testdata/contact.json", "--output", out, "--renderer", "vanilla"); err != nil {
		t.Fatalf("render: %v", err)
	}
	html, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, fragment := range []string{`action="/contacts"`, `<h2>Contact</h2>`, `name="age"`} {
		if !strings.Contains(string(html), fragment) {
			t.Fatalf("expected %q in\n%s", fragment, html)
		}
	}
}

func TestValidateCommand_RejectsRecord(t *testing.T) {
	err := execute(t, "validate", "testdata/contact.json", "--data", "testdata/record.json")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
}

func TestValidateCommand_RejectsSchema(t *testing.T) {
	err := execute(t, "validate", "testdata/invalid.json", "--data", "")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
}

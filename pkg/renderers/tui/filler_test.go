package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/builder"
	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/schema"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
	selectErr    error
	configs      []InputConfig
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.configs = append(s.configs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.selectErr != nil {
		return -1, s.selectErr
	}
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newForm(t *testing.T, raw string) *form.Form {
	t.Helper()
	doc, err := schema.Decode([]byte(raw), schema.EncodingJSON)
	if err != nil {
		t.Fatalf("decode schema: %v", err)
	}
	f := form.New()
	f.SetSchema(doc)
	return f
}

func TestFill_StringAndEnum(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"hello"},
		selectIdx: []int{1},
	}
	f := newForm(t, `{"properties":{
		"title":{"title":"Title","type":"string"},
		"status":{"title":"Status","type":"string","enum":["draft","published"]}
	}}`)

	out, err := New(WithPromptDriver(driver)).Fill(context.Background(), f)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(`{"status":"published","title":"hello"}`, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if driver.inputPos != 1 || driver.selectPos != 1 {
		t.Fatalf("prompts not consumed as expected")
	}
}

func TestFill_RetriesInvalidInput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"0", "5"}}
	f := newForm(t, `{"properties":{"count":{"title":"Count","type":"integer","minimum":1,"required":true}}}`)

	out, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "})).Fill(context.Background(), f)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if string(out) != `{"count":5}` {
		t.Fatalf("unexpected output %s", out)
	}
	if diff := cmp.Diff([]string{"! Count must be at least 1"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if driver.configs[0].Message != "Count *" {
		t.Fatalf("expected required marker, got %q", driver.configs[0].Message)
	}
}

func TestFill_GivesUpAfterMaxAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"x", "y"}}
	f := newForm(t, `{"properties":{"count":{"type":"integer"}}}`)

	_, err := New(WithPromptDriver(driver), WithMaxAttempts(2)).Fill(context.Background(), f)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestFill_CheckboxListAndDefaults(t *testing.T) {
	driver := &stubDriver{
		confirm:   []bool{true},
		textAreas: []string{"one\n\n two \n"},
		inputs:    []string{"Ada"},
	}
	f := newForm(t, `{"properties":{
		"agree":{"id":"1","type":"boolean"},
		"tags":{"id":"2","type":"array","items":{"type":"string"}},
		"name":{"id":"3","type":"string","description":"<b>Your</b> name"}
	}}`)
	f.SetValue("name", "Grace")

	out, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText)).Fill(context.Background(), f)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := "agree=true\nname=Ada\ntags[0]=one\ntags[1]=two\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if cfg := driver.configs[0]; cfg.Default != "Grace" || cfg.Help != "Your name" {
		t.Fatalf("unexpected prompt config %+v", cfg)
	}
}

func TestFill_ReadonlyControlsAreShown(t *testing.T) {
	driver := &stubDriver{}
	f := newForm(t, `{"title":"Profile","properties":{"id":{"title":"ID","type":"string","readonly":true}}}`)
	if err := f.Populate(context.Background(), map[string]any{"id": "42"}); err != nil {
		t.Fatalf("populate: %v", err)
	}

	if _, err := New(WithPromptDriver(driver)).Fill(context.Background(), f); err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff([]string{"Profile", "ID: 42"}, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFill_FormEncoded(t *testing.T) {
	driver := &stubDriver{multiIdx: [][]int{{0, 2}}}
	f := newForm(t, `{"properties":{"colors":{"type":"array","format":"list","items":{"type":"string","enum":["red","green","blue"]}}}}`)

	filler := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	out, err := filler.Fill(context.Background(), f)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if got := string(out); got != "colors%5B%5D=red&colors%5B%5D=blue" {
		t.Fatalf("unexpected output %q", got)
	}
	if filler.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", filler.ContentType())
	}
}

func TestFill_RequiresRenderedForm(t *testing.T) {
	if _, err := New(WithPromptDriver(&stubDriver{})).Fill(context.Background(), form.New()); !errors.Is(err, ErrNoForm) {
		t.Fatalf("expected ErrNoForm, got %v", err)
	}
}

func TestDialogs_ConfirmMapsSelection(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{1}}
	dialogs := NewDialogs(driver, nil)

	var got builder.Answer
	dialogs.Confirm(context.Background(), builder.Confirmation{Title: "Builder", Message: "Save?"}, func(a builder.Answer) {
		got = a
	})
	if got != builder.AnswerNo {
		t.Fatalf("expected No, got %q", got)
	}
}

func TestDialogs_AbortAnswersCancel(t *testing.T) {
	dialogs := NewDialogs(&stubDriver{selectErr: ErrAborted}, nil)

	var got builder.Answer
	dialogs.Confirm(context.Background(), builder.Confirmation{Message: "Save?"}, func(a builder.Answer) {
		got = a
	})
	if got != builder.AnswerCancel {
		t.Fatalf("expected Cancel, got %q", got)
	}
}

func TestDialogs_AlertPrints(t *testing.T) {
	driver := &stubDriver{}
	NewDialogs(driver, nil).Alert(context.Background(), "Builder", "Saved")
	if !strings.Contains(strings.Join(driver.infoMessages, "\n"), "Builder: Saved") {
		t.Fatalf("expected alert message, got %v", driver.infoMessages)
	}
}

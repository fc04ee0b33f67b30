package builder

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/hypermedia"
	"github.com/goliatone/go-formkit/pkg/schema"
)

type fakeDialogs struct {
	answer   Answer
	hold     bool
	confirms []Confirmation
	alerts   []string
	held     []func(Answer)
}

func (d *fakeDialogs) Confirm(_ context.Context, c Confirmation, answer func(Answer)) {
	d.confirms = append(d.confirms, c)
	if d.hold {
		d.held = append(d.held, answer)
		return
	}
	answer(d.answer)
}

func (d *fakeDialogs) Alert(_ context.Context, _ string, message string) {
	d.alerts = append(d.alerts, message)
}

type formServer struct {
	mu       sync.Mutex
	requests []string
	bodies   []map[string]any
	stored   map[string]any
}

func (s *formServer) record(r *http.Request) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	raw, _ := io.ReadAll(r.Body)
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}
	s.bodies = append(s.bodies, body)
	return body
}

func (s *formServer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(value)
}

func newFormServer(t *testing.T) (*formServer, *httptest.Server) {
	t.Helper()
	state := &formServer{}
	fixture := func(name string) http.HandlerFunc {
		raw, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("read fixture %s: %v", name, err)
		}
		return func(w http.ResponseWriter, r *http.Request) {
			state.record(r)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(raw)
		}
	}
	links := []map[string]any{
		{"rel": "update", "href": "/forms/F-1", "method": "PUT"},
		{"rel": "instances", "href": "/forms/F-1", "method": "GET"},
	}

	r := chi.NewRouter()
	r.Get("/schema", fixture("formbuilder.json"))
	r.Get("/toolbox", fixture("toolbox.json"))
	r.Post("/forms", func(w http.ResponseWriter, r *http.Request) {
		body := state.record(r)
		state.mu.Lock()
		state.stored = body
		state.mu.Unlock()
		writeJSON(w, map[string]any{"formId": "F-1", "links": links})
	})
	r.Put("/forms/{id}", func(w http.ResponseWriter, r *http.Request) {
		state.record(r)
		writeJSON(w, map[string]any{"formId": chi.URLParam(r, "id")})
	})
	r.Get("/forms/{id}", func(w http.ResponseWriter, r *http.Request) {
		state.record(r)
		writeJSON(w, map[string]any{
			"formId":  chi.URLParam(r, "id"),
			"title":   "Loaded",
			"columns": 2,
			"formDefinition": map[string]any{
				"title": "Loaded",
				"properties": map[string]any{
					"x#10": map[string]any{"id": "ca:form:text:x:10", "type": "string", "sequence": 10},
					"y#20": map[string]any{"id": "ca:form:text:y:20", "type": "string", "sequence": 20},
				},
			},
		})
	})
	r.Post("/broken", func(w http.ResponseWriter, r *http.Request) {
		state.record(r)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return state, srv
}

func newRemoteBuilder(t *testing.T, dialogs Dialogs) (*Builder, *formServer) {
	t.Helper()
	state, srv := newFormServer(t)
	b := New(
		WithSource("/schema"),
		WithToolboxSource("/toolbox"),
		WithClient(hypermedia.NewClient(hypermedia.WithBaseURL(srv.URL))),
		WithDialogs(dialogs),
	)
	if err := b.LoadAll(context.Background()); err != nil {
		t.Fatalf("load all: %v", err)
	}
	return b, state
}

// newLocalBuilder installs a describing schema without links and three
// fields a, b and c built from the ns:c:t template.
func newLocalBuilder(t *testing.T, dialogs Dialogs) *Builder {
	t.Helper()
	b := New(WithDialogs(dialogs))
	b.SetToolbox(&schema.Schema{ID: "ns:c:t", Title: "Tool", Properties: schema.NewProperties()})
	b.SetSchema(&schema.Schema{Title: "Describing", Properties: schema.NewProperties()})
	for idx, name := range []string{"a", "b", "c"} {
		sequence := (idx + 1) * schema.SequenceStep
		urn := schema.ParseURN("ns:c:t", schema.WithFieldName(name), schema.WithSequence(sequence))
		b.Schema().Properties.Set(urn.DataKey(), &schema.Schema{
			ID:       urn.ID(),
			Type:     "string",
			Sequence: schema.Sequence(sequence),
		})
	}
	b.Preview().Render()
	b.TakeSnapshot()
	return b
}

func sequences(t *testing.T, b *Builder) map[string]int {
	t.Helper()
	out := map[string]int{}
	for _, key := range b.Schema().Properties.Keys() {
		prop, _ := b.Schema().Properties.Get(key)
		out[key] = int(prop.Sequence)
		if urn := schema.ParseURN(prop.ID); urn.DataKey() != key {
			t.Fatalf("key %q does not match id %q", key, prop.ID)
		}
	}
	return out
}

func TestMoveDown_SwapsSequences(t *testing.T) {
	ctx := context.Background()
	b := newLocalBuilder(t, &fakeDialogs{})
	if !b.ClickField(ctx, "a#10") {
		t.Fatalf("expected a#10 to be selectable")
	}
	if !b.MoveDown(ctx) {
		t.Fatalf("expected move down to succeed")
	}

	if diff := cmp.Diff([]string{"b#10", "a#20", "c#30"}, b.Preview().View().Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]int{"a#20": 20, "b#10": 10, "c#30": 30}, sequences(t, b)); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
	if got := b.Selection(); got != (Selection{Mode: SelectionField, DataKey: "a#20"}) {
		t.Fatalf("unexpected selection %+v", got)
	}
}

func TestMove_BoundariesAreNoOps(t *testing.T) {
	ctx := context.Background()
	b := newLocalBuilder(t, &fakeDialogs{})

	b.ClickField(ctx, "a#10")
	if b.MoveUp(ctx) {
		t.Fatalf("first field must not move up")
	}
	b.ClickField(ctx, "c#30")
	if b.MoveDown(ctx) {
		t.Fatalf("last field must not move down")
	}
	b.ClickForm()
	if b.MoveDown(ctx) {
		t.Fatalf("nothing to move when the form is selected")
	}
	if diff := cmp.Diff([]string{"a#10", "b#20", "c#30"}, b.Preview().View().Keys()); diff != "" {
		t.Fatalf("order changed (-want +got):\n%s", diff)
	}
}

func TestClickField_UnknownKeySelectsNothing(t *testing.T) {
	b := newLocalBuilder(t, &fakeDialogs{})
	if b.ClickField(context.Background(), "missing#10") {
		t.Fatalf("expected unknown key to be rejected")
	}
	if b.Selection().Mode != SelectionNone {
		t.Fatalf("expected no selection, got %v", b.Selection().Mode)
	}
}

func TestAddTool_AppliesTemplate(t *testing.T) {
	ctx := context.Background()
	b, _ := newRemoteBuilder(t, &fakeDialogs{})

	if diff := cmp.Diff([]string{"ca:form:text", "ca:form:number"}, toolIDs(b.Toolbox())); diff != "" {
		t.Fatalf("toolbox mismatch (-want +got):\n%s", diff)
	}

	first, err := b.AddTool(ctx, "ca:form:text")
	if err != nil {
		t.Fatalf("add text: %v", err)
	}
	if err := b.SelectTool("ca:form:number"); err != nil {
		t.Fatalf("select tool: %v", err)
	}
	second, err := b.AddSelectedTool(ctx)
	if err != nil {
		t.Fatalf("add number: %v", err)
	}
	if first != "Untitled#10" || second != "amount#20" {
		t.Fatalf("unexpected keys %q and %q", first, second)
	}

	field, _ := b.Schema().Properties.Get(first)
	if field.ID != "ca:form:text:Untitled:10" || field.Title != "Text" || field.Type != "string" {
		t.Fatalf("unexpected field %+v", field)
	}
	if field.Description != "Single line of text" || field.Required {
		t.Fatalf("template description and defaults not applied: %+v", field)
	}
	number, _ := b.Schema().Properties.Get(second)
	if number.Type != "number" || number.FieldName != "amount" || int(number.Sequence) != 20 {
		t.Fatalf("unexpected number field %+v", number)
	}

	if got := b.Selection(); got != (Selection{Mode: SelectionField, DataKey: second}) {
		t.Fatalf("new field should be selected, got %+v", got)
	}
	if b.Properties() == nil || b.Properties().Schema().ID != "ca:form:number" {
		t.Fatalf("property form should be built from the number template")
	}
	if got := b.Properties().GetData()["fieldName"]; got != "amount" {
		t.Fatalf("property form not populated, fieldName=%v", got)
	}

	if _, err := b.AddTool(ctx, "ca:form:missing"); err == nil {
		t.Fatalf("expected unknown tool error")
	}
}

func TestAddTool_SkipsTakenKeys(t *testing.T) {
	ctx := context.Background()
	b := New(WithDialogs(&fakeDialogs{}))
	b.SetToolbox(&schema.Schema{ID: "ns:c:t", Title: "Tool", Properties: schema.NewProperties()})
	b.SetSchema(&schema.Schema{Title: "Describing", Properties: schema.NewProperties()})
	for _, sequence := range []int{10, 30} {
		urn := schema.ParseURN("ns:c:t", schema.WithSequence(sequence))
		b.Schema().Properties.Set(urn.DataKey(), &schema.Schema{
			ID:       urn.ID(),
			Title:    urn.DataKey(),
			Type:     "string",
			Sequence: schema.Sequence(sequence),
		})
	}
	b.Preview().Render()

	added, err := b.AddTool(ctx, "ns:c:t")
	if err != nil {
		t.Fatalf("add tool: %v", err)
	}
	if added != "Untitled#40" {
		t.Fatalf("added = %q, want Untitled#40", added)
	}
	if n := b.Schema().Properties.Len(); n != 3 {
		t.Fatalf("expected 3 fields, got %d", n)
	}
	if kept, _ := b.Schema().Properties.Get("Untitled#30"); kept == nil || kept.Title != "Untitled#30" {
		t.Fatalf("existing field overwritten: %+v", kept)
	}
}

func toolIDs(templates []*schema.Schema) []string {
	out := make([]string, len(templates))
	for idx, template := range templates {
		out[idx] = template.ID
	}
	return out
}

func TestClone_InsertsCopyAfterOriginal(t *testing.T) {
	ctx := context.Background()
	b := newLocalBuilder(t, &fakeDialogs{})
	original, _ := b.Schema().Properties.Get("b#20")
	original.Title = "Bee"
	b.Preview().Render()

	b.ClickField(ctx, "b#20")
	if !b.Clone(ctx) {
		t.Fatalf("expected clone to succeed")
	}

	keys := b.Preview().View().Keys()
	if diff := cmp.Diff([]string{"a#10", "b#20", "b#30", "c#40"}, keys); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for idx, key := range keys {
		prop, _ := b.Schema().Properties.Get(key)
		if want := (idx + 1) * schema.SequenceStep; int(prop.Sequence) != want {
			t.Fatalf("%s: sequence %d, want %d", key, prop.Sequence, want)
		}
	}
	clone, _ := b.Schema().Properties.Get("b#30")
	if clone.Title != "Bee" || clone.Type != "string" {
		t.Fatalf("clone lost properties: %+v", clone)
	}
	if clone == original {
		t.Fatalf("clone must be a distinct schema")
	}
	if got := b.Selection().DataKey; got != "b#30" {
		t.Fatalf("clone should be selected, got %q", got)
	}
}

func TestRemove_ConfirmsAndReindexes(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{answer: AnswerNo}
	b := newLocalBuilder(t, dialogs)

	b.ClickField(ctx, "b#20")
	b.Remove(ctx)
	if b.Schema().Properties.Len() != 3 {
		t.Fatalf("declined removal must keep the field")
	}
	if diff := cmp.Diff([]Confirmation{{Title: "Remove Property", Message: msgRemoveField}}, dialogs.confirms); diff != "" {
		t.Fatalf("confirmation mismatch (-want +got):\n%s", diff)
	}

	dialogs.answer = AnswerYes
	b.Remove(ctx)
	if diff := cmp.Diff(map[string]int{"a#10": 10, "c#20": 20}, sequences(t, b)); diff != "" {
		t.Fatalf("sequence mismatch (-want +got):\n%s", diff)
	}
	if got := b.Selection().DataKey; got != "c#20" {
		t.Fatalf("field in the removed slot should be selected, got %q", got)
	}

	b.Remove(ctx)
	b.Remove(ctx)
	if b.Schema().Properties.Len() != 0 {
		t.Fatalf("expected every field removed, got %v", b.Schema().Properties.Keys())
	}
	if b.Selection().Mode != SelectionForm {
		t.Fatalf("empty preview should select the form, got %v", b.Selection().Mode)
	}
}

func TestRemove_GuardDropsRepeatedRequests(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{hold: true}
	b := newLocalBuilder(t, dialogs)
	b.ClickField(ctx, "a#10")

	b.Remove(ctx)
	b.Remove(ctx)
	if len(dialogs.confirms) != 1 || !b.Pending(ActionRemove) {
		t.Fatalf("expected a single open confirmation, got %d", len(dialogs.confirms))
	}
	dialogs.held[0](AnswerYes)
	if b.Pending(ActionRemove) {
		t.Fatalf("guard should be released once answered")
	}
	if b.Schema().Properties.Has("a#10") {
		t.Fatalf("expected a#10 removed")
	}
}

func TestReIndex(t *testing.T) {
	b := newLocalBuilder(t, &fakeDialogs{})
	for _, key := range []string{"a#10", "b#20", "c#30"} {
		prop, _ := b.Schema().Properties.Get(key)
		b.Schema().Properties.Delete(key)
		urn := schema.ParseURN(prop.ID, schema.WithSequence(int(prop.Sequence)*3))
		assign(prop, urn)
		b.Schema().Properties.Set(urn.DataKey(), prop)
	}

	b.ReIndex(Forward)
	if diff := cmp.Diff(map[string]int{"a#10": 10, "b#20": 20, "c#30": 30}, sequences(t, b)); diff != "" {
		t.Fatalf("forward mismatch (-want +got):\n%s", diff)
	}
	b.ReIndex(Backward)
	if diff := cmp.Diff([]string{"a#10", "b#20", "c#30"}, b.Preview().View().Keys()); diff != "" {
		t.Fatalf("backward pass changed order (-want +got):\n%s", diff)
	}
}

func TestApplyProperties_RekeysOnRename(t *testing.T) {
	ctx := context.Background()
	b, _ := newRemoteBuilder(t, &fakeDialogs{})
	key, err := b.AddTool(ctx, "ca:form:text")
	if err != nil {
		t.Fatalf("add tool: %v", err)
	}

	if err := b.ApplyProperties(ctx, map[string]any{"fieldName": "email", "title": "Email"}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if b.Schema().Properties.Has(key) {
		t.Fatalf("old key %q should be gone", key)
	}
	field, ok := b.Schema().Properties.Get("email#10")
	if !ok {
		t.Fatalf("expected email#10, got %v", b.Schema().Properties.Keys())
	}
	if field.ID != "ca:form:text:email:10" || field.Title != "Email" || field.Type != "string" {
		t.Fatalf("unexpected field %+v", field)
	}
	if got := b.Selection().DataKey; got != "email#10" {
		t.Fatalf("selection should follow the rename, got %q", got)
	}
}

func TestAcceptKey(t *testing.T) {
	cases := []struct {
		name  string
		event KeyEvent
		want  bool
	}{
		{name: "letter", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: KeyA}, want: true},
		{name: "shifted letter", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: KeyZ, Shift: true}, want: true},
		{name: "digit", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: Key0 + 5}, want: true},
		{name: "shifted digit", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: Key0 + 1, Shift: true}, want: false},
		{name: "alt letter", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: KeyA, Alt: true}, want: false},
		{name: "backspace", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: KeyBackspace}, want: true},
		{name: "space", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: 32}, want: false},
		{name: "enter", event: KeyEvent{Type: "keydown", Target: FieldNameControl, Code: KeyEnter}, want: false},
		{name: "other control", event: KeyEvent{Type: "keydown", Target: "title", Code: 32}, want: true},
		{name: "keyup", event: KeyEvent{Type: "keyup", Target: FieldNameControl, Code: 32}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AcceptKey(tc.event); got != tc.want {
				t.Fatalf("AcceptKey(%+v) = %v, want %v", tc.event, got, tc.want)
			}
		})
	}
}

func TestModified_TracksEdits(t *testing.T) {
	ctx := context.Background()
	b, _ := newRemoteBuilder(t, &fakeDialogs{})
	if b.Modified() {
		t.Fatalf("freshly loaded builder should not be modified")
	}

	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}
	if !b.Modified() {
		t.Fatalf("adding a field should mark the form modified")
	}
	b.TakeSnapshot()

	b.UpdateMetadata("title", "Survey")
	if !b.Modified() {
		t.Fatalf("metadata edit should mark the form modified")
	}
	if b.Schema().Title != "Survey" || b.Preview().View().Title != "Survey" {
		t.Fatalf("title should be mirrored on the preview")
	}

	b.UpdateMetadata("columns", "2")
	if b.Preview().Columns() != 2 {
		t.Fatalf("expected 2 columns, got %d", b.Preview().Columns())
	}
	b.UpdateMetadata("columns", "")
	if b.Preview().Columns() != 1 {
		t.Fatalf("empty columns should fall back to 1, got %d", b.Preview().Columns())
	}
}

func TestSave_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{}
	b, state := newRemoteBuilder(t, dialogs)
	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}
	b.UpdateMetadata("title", "Survey")

	if err := b.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if b.Modified() {
		t.Fatalf("save should take a snapshot")
	}
	if got := b.Metadata().GetData()["formId"]; got != "F-1" {
		t.Fatalf("formId not populated, got %v", got)
	}
	if link, ok := b.Links().Find(schema.RelUpdate); !ok || link.Href != "/forms/F-1" {
		t.Fatalf("links not replaced by the response: %+v", b.Links())
	}
	state.mu.Lock()
	stored := state.stored
	state.mu.Unlock()
	if stored["title"] != "Survey" || stored["formDefinition"] == nil {
		t.Fatalf("unexpected payload %v", stored)
	}

	if err := b.Save(ctx); err != nil {
		t.Fatalf("second save: %v", err)
	}
	want := []string{"GET /toolbox", "GET /schema", "POST /forms", "PUT /forms/F-1"}
	if diff := cmp.Diff(want, state.seen()); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{msgSaved, msgSaved}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_MissingActionAlertsAndLeavesState(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{}
	b := newLocalBuilder(t, dialogs)
	b.ClickField(ctx, "a#10")
	before := b.Schema().Clone()

	err := b.Save(ctx)
	if !errors.Is(err, ErrActionMissing) {
		t.Fatalf("expected ErrActionMissing, got %v", err)
	}
	if diff := cmp.Diff([]string{msgSaveFailed}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	if !cmp.Equal(before, b.Schema()) || b.Selection().DataKey != "a#10" {
		t.Fatalf("state changed after failed save")
	}
	if err := b.Load(ctx); !errors.Is(err, ErrActionMissing) {
		t.Fatalf("expected ErrActionMissing from load, got %v", err)
	}
	if diff := cmp.Diff([]string{msgSaveFailed, msgLoadFailed}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveClick_MissingActionAlerts(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{}
	b := newLocalBuilder(t, dialogs)
	if _, err := b.AddTool(ctx, "ns:c:t"); err != nil {
		t.Fatalf("add tool: %v", err)
	}

	b.SaveClick(ctx)
	if diff := cmp.Diff([]string{msgSaveFailed}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	if !b.Modified() {
		t.Fatalf("failed save must leave the form modified")
	}
}

func TestLoad_ReplacesPreviewAndMetadata(t *testing.T) {
	ctx := context.Background()
	b, state := newRemoteBuilder(t, &fakeDialogs{})
	if err := b.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := b.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"x#10", "y#20"}, b.Preview().View().Keys()); diff != "" {
		t.Fatalf("preview mismatch (-want +got):\n%s", diff)
	}
	if got := b.Metadata().GetData()["title"]; got != "Loaded" {
		t.Fatalf("metadata not populated, title=%v", got)
	}
	if b.Preview().Columns() != 2 {
		t.Fatalf("expected 2 columns, got %d", b.Preview().Columns())
	}
	if b.Modified() {
		t.Fatalf("load should take a snapshot")
	}
	if b.Selection().Mode != SelectionForm || b.Properties() != nil {
		t.Fatalf("load should select the form and clear the property form")
	}
	if _, ok := b.Links().Find(schema.RelInstances); !ok {
		t.Fatalf("links should be kept when the response has none")
	}
	if seen := state.seen(); seen[len(seen)-1] != "GET /forms/F-1" {
		t.Fatalf("unexpected last request %v", seen)
	}
}

func TestClearClick_AsksOnceWhenModified(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{hold: true}
	b, _ := newRemoteBuilder(t, dialogs)
	b.UpdateMetadata("title", "Keep me")
	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}

	b.ClearClick(ctx)
	b.ClearClick(ctx)
	if len(dialogs.confirms) != 1 || !b.Pending(ActionClear) {
		t.Fatalf("expected a single open confirmation, got %d", len(dialogs.confirms))
	}
	if dialogs.confirms[0] != (Confirmation{Title: "Clear Form", Message: msgSaveModified}) {
		t.Fatalf("unexpected confirmation %+v", dialogs.confirms[0])
	}

	dialogs.held[0](AnswerNo)
	if b.Pending(ActionClear) {
		t.Fatalf("guard should be released")
	}
	if n := b.Schema().Properties.Len(); n != 0 {
		t.Fatalf("expected a blank preview, got %d fields", n)
	}
	if got := b.Metadata().GetData()["title"]; got != "Keep me" {
		t.Fatalf("clear should keep metadata values, got %v", got)
	}
}

func TestClearClick_CancelKeepsFields(t *testing.T) {
	ctx := context.Background()
	b, _ := newRemoteBuilder(t, &fakeDialogs{answer: AnswerCancel})
	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}
	b.ClearClick(ctx)
	if b.Schema().Properties.Len() != 1 {
		t.Fatalf("cancel must keep the fields")
	}
}

func TestLoadClick_SaveFailureAbortsLoad(t *testing.T) {
	ctx := context.Background()
	dialogs := &fakeDialogs{answer: AnswerYes}
	b, state := newRemoteBuilder(t, dialogs)
	b.links = schema.Links{
		{Rel: schema.RelCreate, Href: "/broken", Method: http.MethodPost},
		{Rel: schema.RelInstances, Href: "/forms/F-1"},
	}
	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}

	b.LoadClick(ctx)
	if diff := cmp.Diff([]string{msgSaveFailed}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	for _, request := range state.seen() {
		if request == "GET /forms/F-1" {
			t.Fatalf("load must not run after a failed save")
		}
	}
	if !b.Modified() {
		t.Fatalf("failed save must leave the form modified")
	}
}

func TestSaveClick_NotModified(t *testing.T) {
	dialogs := &fakeDialogs{}
	b, state := newRemoteBuilder(t, dialogs)
	b.SaveClick(context.Background())
	if diff := cmp.Diff([]string{msgNotModified}, dialogs.alerts); diff != "" {
		t.Fatalf("alerts mismatch (-want +got):\n%s", diff)
	}
	if n := len(state.seen()); n != 2 {
		t.Fatalf("no save request expected, saw %v", state.seen())
	}
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	b, _ := newRemoteBuilder(t, &fakeDialogs{})
	if _, err := b.AddTool(ctx, "ca:form:text"); err != nil {
		t.Fatalf("add tool: %v", err)
	}
	b.UpdateMetadata("title", "Survey")

	out := b.Export()
	if out.Meta.Data["title"] != "Survey" || out.Meta.Data["formDefinition"] != b.Schema() {
		t.Fatalf("unexpected meta data %v", out.Meta.Data)
	}
	if out.Meta.Schema == nil || out.Meta.Schema.Links != nil {
		t.Fatalf("metadata schema should be rendered without links")
	}
	if _, ok := out.Meta.Links.Find(schema.RelCreate); !ok {
		t.Fatalf("expected create link in export")
	}
	if out.Form.Schema != b.Schema() {
		t.Fatalf("form schema should be the preview schema")
	}
	if _, err := json.Marshal(out); err != nil {
		t.Fatalf("export must encode: %v", err)
	}
}

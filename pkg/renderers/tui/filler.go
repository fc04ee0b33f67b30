// Package tui fills forms and answers builder dialogs from a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formkit/pkg/form"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Filler walks the controls of a rendered form, prompts for each value and
// serializes the collected record.
type Filler struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
	logger            *slog.Logger
}

// New constructs a filler with defaults (survey driver, JSON output).
func New(options ...Option) *Filler {
	f := &Filler{
		outputFormat: OutputFormatJSON,
		maxAttempts:  DefaultMaxAttempts,
		logger:       slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// ContentType reports the serialization format used by Fill.
func (f *Filler) ContentType() string {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Fill prompts for every writable control of target in display order and
// returns the serialized GetData record. Values already present in the form
// are offered as defaults. A field that fails validation is asked again up
// to the configured number of attempts.
func (f *Filler) Fill(ctx context.Context, target *form.Form) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if target == nil || target.View() == nil {
		return nil, ErrNoForm
	}

	view := target.View()
	if view.Title != "" {
		if err := f.info(ctx, view.Title); err != nil {
			return nil, err
		}
	}
	for _, control := range view.Controls() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := f.fillControl(ctx, target, control); err != nil {
			return nil, err
		}
	}

	if !target.IsValid() {
		return nil, fmt.Errorf("tui: form is invalid: %w", target.Issues())
	}
	values := target.GetData()
	if f.submitTransformer != nil {
		var err error
		values, err = f.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return f.serialize(values)
}

func (f *Filler) fillControl(ctx context.Context, target *form.Form, c *form.Control) error {
	if c.Readonly || c.Kind() == widgets.KindProperty {
		if text := c.Text(); text != "" {
			return f.info(ctx, fmt.Sprintf("%s: %s", c.Label, text))
		}
		return nil
	}
	if !promptable(c.Kind()) {
		f.logger.Debug("tui: control skipped", "key", c.Key, "kind", c.Kind())
		return nil
	}

	for attempt := 1; ; attempt++ {
		value, err := f.prompt(ctx, c)
		if err != nil {
			return err
		}
		target.SetValue(c.Key, value)
		issues := target.ValidateField(c.Key)
		if len(issues) == 0 {
			return nil
		}
		if attempt >= f.maxAttempts {
			return fmt.Errorf("%w: %s: %w", ErrTooManyAttempts, c.Key, issues)
		}
		if err := f.info(ctx, f.theme.ErrorPrefix+issues[0].Message); err != nil {
			return err
		}
	}
}

func (f *Filler) prompt(ctx context.Context, c *form.Control) (any, error) {
	message := c.Label
	if c.Schema != nil && c.Schema.Required {
		message += " *"
	}
	help := helpText(c)

	switch c.Kind() {
	case widgets.KindCheckbox:
		return f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: c.Checked(), Help: help})
	case widgets.KindSelect, widgets.KindIntSelect, widgets.KindRadioGroup:
		return f.promptChoice(ctx, c, message, help)
	case widgets.KindTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: c.Text(), Help: help})
	case widgets.KindInputArray:
		text, err := f.driver.TextArea(ctx, TextAreaConfig{
			Message: message + " (one per line)",
			Default: c.Text(),
			Help:    help,
		})
		if err != nil {
			return nil, err
		}
		return splitLines(text), nil
	default:
		return f.driver.Input(ctx, InputConfig{
			Message:  message,
			Default:  c.Text(),
			Help:     help,
			Required: c.Schema != nil && c.Schema.Required,
		})
	}
}

func (f *Filler) promptChoice(ctx context.Context, c *form.Control, message, help string) (any, error) {
	options := c.Options()
	labels := make([]string, len(options))
	for idx, option := range options {
		labels[idx] = option.Label
		if labels[idx] == "" {
			labels[idx] = option.Value
		}
	}
	current := listValues(c.Value())

	if c.Widget.Multiple {
		var defaults []int
		for idx, option := range options {
			if slices.Contains(current, option.Value) {
				defaults = append(defaults, idx)
			}
		}
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{Message: message, Options: labels, Defaults: defaults, Help: help})
		if err != nil {
			return nil, err
		}
		values := make([]any, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(options) {
				values = append(values, options[idx].Value)
			}
		}
		return values, nil
	}

	defaultIndex := -1
	for idx, option := range options {
		if slices.Contains(current, option.Value) {
			defaultIndex = idx
			break
		}
	}
	picked, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: defaultIndex, Help: help})
	if err != nil {
		return nil, err
	}
	if picked < 0 || picked >= len(options) {
		return "", nil
	}
	return options[picked].Value, nil
}

func (f *Filler) info(ctx context.Context, message string) error {
	return f.driver.Info(ctx, f.theme.InfoPrefix+message)
}

func (f *Filler) serialize(values map[string]any) ([]byte, error) {
	switch f.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

// promptable reports kinds a line based terminal can ask for. Uploads, camera
// captures and tables are left to richer front ends.
func promptable(kind widgets.Kind) bool {
	switch kind {
	case widgets.KindObjectList, widgets.KindListBuilder, widgets.KindImport,
		widgets.KindFile, widgets.KindMultiFile, widgets.KindImageCapture,
		widgets.KindRemoteImageCapture, widgets.KindViewContext:
		return false
	}
	return true
}

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// helpText is the widget description or placeholder with markup stripped.
func helpText(c *form.Control) string {
	text := c.Widget.Description
	if text == "" {
		text = c.Widget.Placeholder
	}
	if text == "" {
		return ""
	}
	helpPolicyOnce.Do(func() {
		helpPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(helpPolicy.Sanitize(text))
}

func splitLines(text string) []any {
	var out []any
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if out == nil {
		return []any{}
	}
	return out
}

func listValues(value any) []string {
	switch typed := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(typed)}
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			if nested, ok := val.(map[string]any); ok {
				flatten(prefix+"[]", nested, out)
				continue
			}
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// ErrItemLimit is returned when an input array add or remove would break
// its minItems/maxItems bounds. The control is left unchanged.
var ErrItemLimit = errors.New("form: item limit reached")

// Control is the bound widget for one property. It holds the typed value the
// view projects; it is the single source of truth for what the user entered.
type Control struct {
	Key       string
	Label     string
	Schema    *schema.Schema
	Widget    widgets.Widget
	Column    int
	Autofocus bool
	Readonly  bool
	Disabled  bool
	// Wrapped marks controls rendered inside an override wrapper.
	Wrapped bool

	mu      sync.Mutex
	value   any
	checked bool
	invalid bool
	err     string
	// data holds structured values for list, upload and link widgets.
	data any

	ready     chan struct{}
	readyOnce sync.Once
}

func newControl(key string, prop *schema.Schema, w widgets.Widget) *Control {
	label := prop.Title
	if label == "" {
		label = key
	}
	c := &Control{
		Key:    key,
		Label:  label,
		Schema: prop,
		Widget: w,
		ready:  make(chan struct{}),
	}
	if w.Kind == widgets.KindInputArray {
		items := make([]any, 0)
		for i := 0; i < intOr(prop.MinItems, 0); i++ {
			items = append(items, "")
		}
		c.value = items
	} else if w.Kind != widgets.KindCheckbox {
		c.value = ""
	}
	return c
}

// Kind is the resolved widget kind.
func (c *Control) Kind() widgets.Kind {
	return c.Widget.Kind
}

// Value returns the raw control value.
func (c *Control) Value() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Widget.Kind == widgets.KindCheckbox {
		return c.checked
	}
	return c.value
}

// Text returns the value as a string. Lists are joined with newlines.
func (c *Control) Text() string {
	switch typed := c.Value().(type) {
	case string:
		return typed
	case bool:
		return strconv.FormatBool(typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, "\n")
	case nil:
		return ""
	default:
		return fmt.Sprint(typed)
	}
}

// Checked reports the checkbox state.
func (c *Control) Checked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checked
}

// Data returns the structured value of list, upload and link widgets.
func (c *Control) Data() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data != nil {
		return c.data
	}
	return c.value
}

// SetValue writes value following the widget's binding rules: checkboxes only
// accept booleans, textareas join lists with newlines and list widgets keep
// slices as-is.
func (c *Control) SetValue(value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.Widget.Kind {
	case widgets.KindCheckbox:
		if checked, ok := value.(bool); ok {
			c.checked = checked
		}
		return
	case widgets.KindTextarea:
		if list, ok := value.([]any); ok {
			parts := make([]string, 0, len(list))
			for _, item := range list {
				parts = append(parts, fmt.Sprint(item))
			}
			c.value = strings.Join(parts, "\n")
			return
		}
	case widgets.KindProperty:
		c.value = value
		return
	case widgets.KindObjectList, widgets.KindImport, widgets.KindListBuilder:
		c.data = value
		c.value = value
		return
	}
	c.value = normalizeScalar(value)
}

// AddItem inserts an empty entry into an input array at index (-1 appends).
func (c *Control) AddItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _ := c.value.([]any)
	if limit := intOr(c.Schema.MaxItems, 0); limit > 0 && len(items)+1 > limit {
		return ErrItemLimit
	}
	if index < 0 || index > len(items) {
		index = len(items)
	}
	items = append(items, nil)
	copy(items[index+1:], items[index:])
	items[index] = ""
	c.value = items
	return nil
}

// RemoveItem deletes the entry at index from an input array.
func (c *Control) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, _ := c.value.([]any)
	if len(items)-1 < intOr(c.Schema.MinItems, 0) {
		return ErrItemLimit
	}
	if index < 0 || index >= len(items) {
		return fmt.Errorf("form: item %d out of range", index)
	}
	c.value = append(items[:index:index], items[index+1:]...)
	return nil
}

// Invalid reports whether the last validation failed.
func (c *Control) Invalid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalid
}

// Error returns the last validation message.
func (c *Control) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

func (c *Control) setError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if message == "" {
		return
	}
	c.invalid = true
	c.err = message
}

func (c *Control) clearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalid = false
	c.err = ""
}

// Ready is closed once the control finished rendering. Controls backed by a
// remote schema close it after their options load.
func (c *Control) Ready() <-chan struct{} {
	return c.ready
}

func (c *Control) markReady() {
	c.readyOnce.Do(func() {
		close(c.ready)
	})
}

func (c *Control) setOptions(options []widgets.Option) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Widget.Options = options
}

// Options returns the current choice list.
func (c *Control) Options() []widgets.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]widgets.Option(nil), c.Widget.Options...)
}

// SetAttribute updates a widget attribute.
func (c *Control) SetAttribute(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Widget.Attributes.Set(name, value)
}

// Attribute reads a widget attribute.
func (c *Control) Attribute(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Widget.Attributes[name]
}

// Attributes returns a copy of the widget attributes.
func (c *Control) Attributes() widgets.Attributes {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(widgets.Attributes, len(c.Widget.Attributes))
	for name, value := range c.Widget.Attributes {
		out[name] = value
	}
	return out
}

// waitAll blocks until every control is ready or ctx ends.
func waitAll(ctx context.Context, controls []*Control) error {
	for _, c := range controls {
		select {
		case <-c.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func normalizeScalar(value any) any {
	switch typed := value.(type) {
	case nil:
		return ""
	case string, []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = item
		}
		return out
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return typed
	}
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

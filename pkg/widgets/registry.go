package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Candidate is the resolved view of one property that matchers see.
type Candidate struct {
	Key      string
	Schema   *schema.Schema
	DataType string
	// Format is the lowercased base format (sub-properties removed).
	Format string
	// FullFormat keeps `:name=value` sub-properties.
	FullFormat string
	// RemoteImageCapture selects the remote-stream camera variant.
	RemoteImageCapture bool
}

// NewCandidate derives the data type and formats of prop.
func NewCandidate(key string, prop *schema.Schema) Candidate {
	return Candidate{
		Key:        key,
		Schema:     prop,
		DataType:   prop.DataType(),
		Format:     prop.BaseFormat(),
		FullFormat: prop.FullFormat(),
	}
}

// Matcher decides whether a widget kind should handle the candidate.
type Matcher func(c Candidate) bool

type rule struct {
	kind     Kind
	priority int
	match    Matcher
	order    int
}

// Built-in priorities. Resolution walks rules from the highest priority down,
// so custom matchers can be slotted between any two steps.
const (
	PriorityReadOnly    = 1200
	PriorityCheckbox    = 1100
	PriorityEmail       = 1000
	PriorityIntSelect   = 900
	PriorityRating      = 800
	PriorityRadioGroup  = 700
	PrioritySelect      = 600
	PriorityListBuilder = 500
	PriorityObjectList  = 400
	PriorityImage       = 300
	PriorityInputArray  = 200
	PriorityDefault     = 100
)

// Registry selects widget kinds for properties based on ordered matchers.
// Higher priority wins; ties fall back to registration order.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in chain registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher for kind at the given priority.
func (r *Registry) Register(kind Kind, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := Kind(strings.TrimSpace(string(kind)))
	if trimmed == KindNone {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		kind:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the first matching kind.
func (r *Registry) Resolve(c Candidate) (Kind, bool) {
	if r == nil || c.Schema == nil {
		return KindNone, false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return KindNone, false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(c) {
			if entry.kind == kindFallback {
				kind := fallbackKind(c)
				return kind, kind != KindNone
			}
			if entry.kind == KindImageCapture && c.RemoteImageCapture {
				return KindRemoteImageCapture, true
			}
			return entry.kind, true
		}
	}
	return KindNone, false
}

// kindFallback marks the final rule that switches on type and format.
const kindFallback Kind = "default"

func (r *Registry) registerBuiltins() {
	r.Register(KindProperty, PriorityReadOnly, func(c Candidate) bool {
		return c.Schema.ReadOnly
	})

	r.Register(KindCheckbox, PriorityCheckbox, func(c Candidate) bool {
		return c.DataType == "boolean"
	})

	r.Register(KindEmail, PriorityEmail, func(c Candidate) bool {
		return c.Format == "email"
	})

	r.Register(KindIntSelect, PriorityIntSelect, func(c Candidate) bool {
		if c.Format != "list" || (c.DataType != "number" && c.DataType != "integer") {
			return false
		}
		return isInteger(c.Schema.Minimum) && isInteger(c.Schema.Maximum)
	})

	r.Register(KindRating, PriorityRating, func(c Candidate) bool {
		return c.Format == "rating"
	})

	r.Register(KindRadioGroup, PriorityRadioGroup, func(c Candidate) bool {
		return c.Format == "radio"
	})

	r.Register(KindSelect, PrioritySelect, func(c Candidate) bool {
		return c.Format == "country" || c.Format == "list" || len(c.Schema.Enum) > 0
	})

	r.Register(KindListBuilder, PriorityListBuilder, func(c Candidate) bool {
		items := c.Schema.Items
		return c.Schema.Type == "array" && items != nil && (len(items.Extends) > 0 || len(items.Links) > 0)
	})

	r.Register(KindObjectList, PriorityObjectList, func(c Candidate) bool {
		return c.Schema.Type == "array" && c.DataType == "object" && c.Key != ObjectListReservedKey
	})

	r.Register(KindImageCapture, PriorityImage, func(c Candidate) bool {
		media := c.Schema.Media
		return media != nil && media.Type == "image/jpeg" && media.BinaryEncoding == "base64"
	})

	r.Register(KindInputArray, PriorityInputArray, func(c Candidate) bool {
		items := c.Schema.Items
		if c.Schema.Type != "array" || items == nil || items.Type == "" {
			return false
		}
		switch items.Format {
		case "textarea", "file", "multi-file":
			return false
		}
		return c.DataType != "object"
	})

	r.Register(kindFallback, PriorityDefault, func(Candidate) bool {
		return true
	})
}

func isInteger(value *float64) bool {
	return value != nil && *value == float64(int64(*value))
}

// fallbackKind switches on the data type, then on the format.
func fallbackKind(c Candidate) Kind {
	switch c.DataType {
	case "number", "integer":
		return KindNumber
	case "object":
		if c.Schema.Type == "array" {
			return KindImport
		}
		return KindNone
	}

	switch c.Format {
	case "file":
		return KindFile
	case "multi-file":
		return KindMultiFile
	case "barcode-scanner":
		return KindBarcodeScanner
	case "confirm-email":
		return KindConfirmEmail
	case "uri":
		return KindURL
	case "current-view-context":
		return KindViewContext
	case "local-date-time":
		return KindLocalDateTime
	case "birth-date":
		return KindBirthDate
	case "date-time":
		return KindDateTime
	case "date":
		return KindDate
	case "time":
		return KindTime
	case "phone":
		return KindPhone
	case "currency":
		return KindCurrency
	case "textarea":
		return KindTextarea
	default:
		return KindText
	}
}

package schema

import (
	"strconv"
	"strings"
)

const (
	// DefaultFieldName is used when an identifier carries no field name.
	DefaultFieldName = "Untitled"
	// DefaultSequence is used when an identifier carries no sequence.
	DefaultSequence = "10"
	// SequenceStep separates neighbouring builder fields.
	SequenceStep = 10
)

// URN is the builder field identifier
// `namespace:component:tool:fieldName:sequence`.
type URN struct {
	Namespace string
	Component string
	Tool      string
	FieldName string
	Sequence  string
}

// URNOption overrides a part of a parsed identifier.
type URNOption func(*URN)

// WithFieldName overrides the field name. An empty name falls back to the
// default.
func WithFieldName(name string) URNOption {
	return func(u *URN) {
		u.FieldName = name
	}
}

// WithSequence overrides the sequence.
func WithSequence(sequence int) URNOption {
	return func(u *URN) {
		u.Sequence = strconv.Itoa(sequence)
	}
}

// WithSequenceString overrides the sequence with a raw value. An empty value
// falls back to the default.
func WithSequenceString(sequence string) URNOption {
	return func(u *URN) {
		u.Sequence = sequence
	}
}

// ParseURN splits id on ':' and applies overrides. Field name and sequence are
// only read from five-part identifiers; toolbox template ids carry three.
func ParseURN(id string, options ...URNOption) URN {
	parts := strings.Split(id, ":")
	var urn URN
	if len(parts) > 0 {
		urn.Namespace = parts[0]
	}
	if len(parts) > 1 {
		urn.Component = parts[1]
	}
	if len(parts) > 2 {
		urn.Tool = parts[2]
	}
	if len(parts) == 5 {
		urn.FieldName = parts[3]
		urn.Sequence = parts[4]
	}
	for _, opt := range options {
		if opt != nil {
			opt(&urn)
		}
	}
	if urn.FieldName == "" {
		urn.FieldName = DefaultFieldName
	}
	if urn.Sequence == "" || urn.Sequence == "0" {
		urn.Sequence = DefaultSequence
	}
	return urn
}

// ID renders the full five-part identifier.
func (u URN) ID() string {
	return u.SchemaID() + ":" + u.FieldName + ":" + u.Sequence
}

// SchemaID is the toolbox template identifier `namespace:component:tool`.
func (u URN) SchemaID() string {
	return u.Namespace + ":" + u.Component + ":" + u.Tool
}

// DataKey is the property map key `fieldName#sequence`.
func (u URN) DataKey() string {
	return u.FieldName + "#" + u.Sequence
}

// SequenceNumber returns the sequence as an integer, or zero when it is not
// numeric.
func (u URN) SequenceNumber() int {
	value, err := strconv.Atoi(u.Sequence)
	if err != nil {
		return 0
	}
	return value
}

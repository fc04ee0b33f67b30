package schema

import (
	"bytes"
	"errors"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

// Properties is a property map that remembers insertion order. Display order
// is driven by SortedKeys; insertion order only breaks ties.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties returns an empty property map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Len reports the number of properties.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// Get returns the property stored under key.
func (p *Properties) Get(key string) (*Schema, bool) {
	if p == nil || p.values == nil {
		return nil, false
	}
	value, ok := p.values[key]
	return value, ok
}

// Has reports whether key is present.
func (p *Properties) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Set stores value under key. New keys are appended; existing keys keep their
// position.
func (p *Properties) Set(key string, value *Schema) {
	if p.values == nil {
		p.values = make(map[string]*Schema)
	}
	if _, exists := p.values[key]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Delete removes key. Missing keys are ignored.
func (p *Properties) Delete(key string) {
	if p == nil || p.values == nil {
		return
	}
	if _, exists := p.values[key]; !exists {
		return
	}
	delete(p.values, key)
	for idx, existing := range p.keys {
		if existing == key {
			p.keys = append(p.keys[:idx], p.keys[idx+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Clone deep copies the map and every property.
func (p *Properties) Clone() *Properties {
	if p == nil {
		return nil
	}
	out := NewProperties()
	for _, key := range p.keys {
		out.Set(key, p.values[key].Clone())
	}
	return out
}

// Equal compares two maps by content; insertion order is not significant.
func (p *Properties) Equal(other *Properties) bool {
	if p.Len() != other.Len() {
		return false
	}
	for _, key := range p.Keys() {
		left, _ := p.Get(key)
		right, ok := other.Get(key)
		if !ok {
			return false
		}
		if !cmp.Equal(left, right) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the properties in insertion order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, key := range p.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		value, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping document key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*p = Properties{values: make(map[string]*Schema)}
		return nil
	}
	order, err := objectKeys(data)
	if err != nil {
		return err
	}
	var values map[string]*Schema
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	out := Properties{values: make(map[string]*Schema, len(values))}
	for _, key := range order {
		value, ok := values[key]
		if !ok {
			continue
		}
		if value == nil {
			value = &Schema{}
		}
		out.Set(key, value)
	}
	*p = out
	return nil
}

var errNotObject = errors.New("schema: properties must be an object")

// objectKeys lists the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var (
		keys      []string
		depth     int
		expectKey bool
		seen      = make(map[string]struct{})
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch value := tok.(type) {
		case json.Delim:
			switch value {
			case '{', '[':
				if depth == 0 && value != '{' {
					return nil, errNotObject
				}
				depth++
				if depth == 1 {
					expectKey = true
				}
			case '}', ']':
				depth--
				if depth == 1 {
					expectKey = true
				}
			}
		case string:
			if depth == 1 && expectKey {
				if _, dup := seen[value]; !dup {
					seen[value] = struct{}{}
					keys = append(keys, value)
				}
				expectKey = false
				continue
			}
			if depth == 1 {
				expectKey = true
			}
		default:
			if depth == 0 {
				return nil, errNotObject
			}
			if depth == 1 {
				expectKey = true
			}
		}
	}
	return keys, nil
}

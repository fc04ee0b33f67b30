package schema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument is returned when a payload holds no schema.
var ErrEmptyDocument = errors.New("schema: document holds no schema")

// Decode parses a single schema. Array payloads yield their first element.
func Decode(raw []byte, encoding Encoding) (*Schema, error) {
	all, err := DecodeAll(raw, encoding)
	if err != nil {
		return nil, err
	}
	return all[0], nil
}

// DecodeAll parses a payload holding either one schema object or an array of
// them. YAML payloads are converted to JSON first so both encodings share the
// same tolerant decoder.
func DecodeAll(raw []byte, encoding Encoding) ([]*Schema, error) {
	data := raw
	if encoding == EncodingYAML {
		converted, err := yamlToJSON(raw)
		if err != nil {
			return nil, err
		}
		data = converted
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	if data[0] == '[' {
		var list []*Schema
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("schema: decode list: %w", err)
		}
		out := list[:0]
		for _, item := range list {
			if item != nil {
				out = append(out, item)
			}
		}
		if len(out) == 0 {
			return nil, ErrEmptyDocument
		}
		return out, nil
	}

	var single Schema
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return []*Schema{&single}, nil
}

// Encode serialises a schema as indented JSON.
func Encode(s *Schema) ([]byte, error) {
	if s == nil {
		return nil, ErrEmptyDocument
	}
	return json.MarshalIndent(s, "", "  ")
}

// DecodeToolbox parses a toolbox document: an array of field templates, each
// identified by its three-part schema id. A single object whose properties
// hold the templates is accepted too.
func DecodeToolbox(raw []byte, encoding Encoding) ([]*Schema, error) {
	all, err := DecodeAll(raw, encoding)
	if err != nil {
		return nil, err
	}
	if len(all) > 1 || all[0].ID != "" || all[0].Properties == nil {
		return all, nil
	}
	templates := make([]*Schema, 0, all[0].Properties.Len())
	for _, key := range all[0].Properties.Keys() {
		template, _ := all[0].Properties.Get(key)
		if template.ID == "" {
			template.ID = key
		}
		templates = append(templates, template)
	}
	return templates, nil
}

// ToMap converts a schema to a generic map, the shape templates and payload
// builders consume.
func ToMap(s *Schema) (map[string]any, error) {
	encoded, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FromValue converts an arbitrary decoded value back to a schema.
func FromValue(value any) (*Schema, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out Schema
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return nil, ErrEmptyDocument
	}
	var buf bytes.Buffer
	if err := writeYAMLNode(&buf, &root); err != nil {
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// writeYAMLNode emits node as JSON, keeping mapping key order.
func writeYAMLNode(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeYAMLNode(buf, node.Content[0])
	case yaml.AliasNode:
		return writeYAMLNode(buf, node.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			if idx > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(node.Content[idx].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeYAMLNode(buf, node.Content[idx+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for idx, item := range node.Content {
			if idx > 0 {
				buf.WriteByte(',')
			}
			if err := writeYAMLNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(encoded)
		return nil
	}
}

package schema

// Clone returns a deep copy of the node.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	out.Minimum = cloneFloat(s.Minimum)
	out.Maximum = cloneFloat(s.Maximum)
	out.Min = cloneFloat(s.Min)
	out.Max = cloneFloat(s.Max)
	out.MultipleOf = cloneFloat(s.MultipleOf)
	out.DivisibleBy = cloneFloat(s.DivisibleBy)
	out.MinLength = cloneInt(s.MinLength)
	out.MaxLength = cloneInt(s.MaxLength)
	out.MinItems = cloneInt(s.MinItems)
	out.MaxItems = cloneInt(s.MaxItems)
	if s.Enum != nil {
		out.Enum = make([]any, len(s.Enum))
		for idx, value := range s.Enum {
			out.Enum[idx] = CloneValue(value)
		}
	}
	out.Default = CloneValue(s.Default)
	out.Items = s.Items.Clone()
	out.Properties = s.Properties.Clone()
	if s.Extends != nil {
		out.Extends = make([]*Schema, len(s.Extends))
		for idx, ext := range s.Extends {
			out.Extends[idx] = ext.Clone()
		}
	}
	out.Links = s.Links.Clone()
	if s.Media != nil {
		media := *s.Media
		out.Media = &media
	}
	if s.Extra != nil {
		out.Extra = make(map[string]any, len(s.Extra))
		for key, value := range s.Extra {
			out.Extra[key] = CloneValue(value)
		}
	}
	return &out
}

// CloneValue deep copies decoded JSON values (maps, slices and scalars).
func CloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for idx, item := range v {
			out[idx] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	default:
		return v
	}
}

func cloneFloat(value *float64) *float64 {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

// Float returns a pointer to value. Handy for literals in code and tests.
func Float(value float64) *float64 {
	return &value
}

// Int returns a pointer to value.
func Int(value int) *int {
	return &value
}

package schema

import (
	"sort"
	"strconv"
	"strings"
)

// SortedKeys returns property keys ordered by the numeric portion of each
// property id. Non-digit characters are stripped; a missing id or one without
// digits sorts as zero. Ties keep insertion order.
func SortedKeys(props *Properties) []string {
	keys := props.Keys()
	weights := make(map[string]float64, len(keys))
	for _, key := range keys {
		prop, _ := props.Get(key)
		weights[key] = NumericID(prop)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return weights[keys[i]] < weights[keys[j]]
	})
	return keys
}

// NumericID extracts the digits of a property id as a number.
func NumericID(prop *Schema) float64 {
	if prop == nil || prop.ID == "" {
		return 0
	}
	var digits strings.Builder
	for _, r := range prop.ID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	value, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// IsReservedKey reports keys that never map to form fields: `links` and any
// key containing '$'.
func IsReservedKey(key string) bool {
	return key == "links" || strings.Contains(key, "$")
}

// FieldKeys returns SortedKeys without reserved keys.
func FieldKeys(props *Properties) []string {
	sorted := SortedKeys(props)
	out := sorted[:0]
	for _, key := range sorted {
		if IsReservedKey(key) {
			continue
		}
		out = append(out, key)
	}
	return out
}

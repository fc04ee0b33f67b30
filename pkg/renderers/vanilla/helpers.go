package vanilla

import (
	"regexp"
	"strings"
)

var unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// controlID derives an element id from a form key. Keys carry URN separators
// and sequence markers, neither of which are valid in CSS selectors.
func controlID(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return ""
	}
	return "fk-" + strings.Trim(unsafeIDChars.ReplaceAllString(trimmed, "-"), "-")
}

func labelID(key string) string {
	id := controlID(key)
	if id == "" {
		return ""
	}
	return id + "-label"
}

func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fk-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

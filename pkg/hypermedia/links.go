package hypermedia

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ExpandCreateHref replaces `{key}` placeholders in the link href with a new
// UUID for every link property that is required and has format uuid.
func ExpandCreateHref(link schema.Link) string {
	href := link.Href
	if link.Properties == nil {
		return href
	}
	for _, key := range link.Properties.Keys() {
		prop, _ := link.Properties.Get(key)
		if prop == nil || !prop.Required || !strings.EqualFold(prop.Format, "uuid") {
			continue
		}
		href = strings.ReplaceAll(href, "{"+key+"}", uuid.NewString())
	}
	return href
}

// LinksOf extracts the `links` array of a decoded JSON object.
func LinksOf(data map[string]any) schema.Links {
	raw, ok := data["links"]
	if !ok || raw == nil {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var links schema.Links
	if err := json.Unmarshal(encoded, &links); err != nil {
		return nil
	}
	return links
}

// ReplaceLastSegment swaps the final path segment of href for value, keeping
// any query string.
func ReplaceLastSegment(href, value string) string {
	path, query, hasQuery := strings.Cut(href, "?")
	idx := strings.LastIndex(path, "/")
	path = path[:idx+1] + value
	if hasQuery {
		return path + "?" + query
	}
	return path
}

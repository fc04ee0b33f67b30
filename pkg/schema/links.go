package schema

import "strings"

// Hypermedia relations understood by forms and the builder.
const (
	RelCreate      = "create"
	RelUpdate      = "update"
	RelInstances   = "instances"
	RelDescribedBy = "describedby"
	RelSelf        = "self"
	RelNext        = "next"
	RelPreview     = "preview"
)

// Link is a hypermedia action declared by a schema or returned with data.
type Link struct {
	Rel        string      `json:"rel"`
	Href       string      `json:"href"`
	Method     string      `json:"method,omitempty"`
	Title      string      `json:"title,omitempty"`
	Properties *Properties `json:"properties,omitempty"`
}

// Links is an ordered list of hypermedia actions.
type Links []Link

// Find returns the first link with the given relation.
func (l Links) Find(rel string) (Link, bool) {
	for _, link := range l {
		if strings.EqualFold(link.Rel, rel) {
			return link, true
		}
	}
	return Link{}, false
}

// Clone deep copies the list.
func (l Links) Clone() Links {
	if l == nil {
		return nil
	}
	out := make(Links, len(l))
	for idx, link := range l {
		link.Properties = link.Properties.Clone()
		out[idx] = link
	}
	return out
}

// MethodOr returns the link method upper-cased, or fallback when unset.
func (l Link) MethodOr(fallback string) string {
	if method := strings.TrimSpace(l.Method); method != "" {
		return strings.ToUpper(method)
	}
	return fallback
}

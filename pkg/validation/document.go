package validation

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Result captures document validation outcomes for the CLI and server.
type Result struct {
	Valid  bool   `json:"valid"`
	Issues Issues `json:"issues,omitempty"`
}

// ValidateDocument decodes raw and checks the structural rules forms and the
// builder rely on.
func ValidateDocument(raw []byte, encoding schema.Encoding) Result {
	docs, err := schema.DecodeAll(raw, encoding)
	if err != nil {
		return Result{Issues: Issues{{Path: "/", Code: CodeParseError, Message: strings.TrimSpace(err.Error())}}}
	}
	var issues Issues
	for idx, doc := range docs {
		prefix := ""
		if len(docs) > 1 {
			prefix = "/" + strconv.Itoa(idx)
		}
		issues = append(issues, CheckSchema(prefix, doc)...)
	}
	return Result{Valid: len(issues) == 0, Issues: issues}
}

// CheckSchema walks a decoded schema.
func CheckSchema(path string, doc *schema.Schema) Issues {
	var issues Issues
	issues = append(issues, checkLinks(path+"/links", doc.Links)...)
	if doc.Properties == nil {
		return issues
	}
	for _, key := range doc.Properties.Keys() {
		prop, _ := doc.Properties.Get(key)
		issues = append(issues, checkProperty(path+"/properties/"+key, key, prop)...)
	}
	return issues
}

func checkProperty(path, key string, prop *schema.Schema) Issues {
	if prop == nil {
		return nil
	}
	var issues Issues
	if parts := strings.Split(prop.ID, ":"); len(parts) == 5 && strings.Contains(key, "#") {
		urn := schema.ParseURN(prop.ID)
		if urn.DataKey() != key {
			issues = append(issues, Issue{
				Path:    path,
				Field:   key,
				Code:    CodeKeyMismatch,
				Message: "property key " + key + " does not match id " + prop.ID,
				Params:  map[string]any{"expected": urn.DataKey()},
			})
		}
	}
	if prop.Minimum != nil && prop.Maximum != nil && *prop.Minimum > *prop.Maximum {
		issues = append(issues, Issue{Path: path, Field: key, Code: CodeInvalidBounds, Message: "minimum is greater than maximum"})
	}
	if prop.MinLength != nil && prop.MaxLength != nil && *prop.MaxLength > 0 && *prop.MinLength > *prop.MaxLength {
		issues = append(issues, Issue{Path: path, Field: key, Code: CodeInvalidBounds, Message: "minLength is greater than maxLength"})
	}
	if prop.MinItems != nil && prop.MaxItems != nil && *prop.MaxItems > 0 && *prop.MinItems > *prop.MaxItems {
		issues = append(issues, Issue{Path: path, Field: key, Code: CodeInvalidBounds, Message: "minItems is greater than maxItems"})
	}
	if prop.BaseFormat() == "radio" && len(prop.Extends) == 0 {
		issues = append(issues, Issue{Path: path, Field: key, Code: CodeInvalidFormat, Message: "radio fields need an extends schema with the choices"})
	}
	if prop.Pattern != "" {
		if _, err := NewValidator(nil).compile(prop.Pattern); err != nil {
			issues = append(issues, Issue{Path: path, Field: key, Code: CodePattern, Message: "pattern does not compile: " + err.Error()})
		}
	}
	if prop.Items != nil && prop.Items.Properties != nil {
		issues = append(issues, CheckSchema(path+"/items", prop.Items)...)
	}
	return issues
}

func checkLinks(path string, links schema.Links) Issues {
	var issues Issues
	for idx, link := range links {
		if strings.TrimSpace(link.Rel) == "" || strings.TrimSpace(link.Href) == "" {
			issues = append(issues, Issue{
				Path:    path + "/" + strconv.Itoa(idx),
				Code:    CodeInvalidLink,
				Message: "links need both rel and href",
			})
		}
	}
	return issues
}

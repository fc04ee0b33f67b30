package builder

import (
	"github.com/goliatone/go-formkit/pkg/schema"
)

// Export is a debugging dump of the builder state.
type Export struct {
	Meta ExportMeta `json:"meta"`
	Form ExportForm `json:"form"`
}

// ExportMeta holds the metadata side. Data includes the form definition.
type ExportMeta struct {
	Data   map[string]any `json:"data"`
	Schema *schema.Schema `json:"schema"`
	Links  schema.Links   `json:"links"`
}

// ExportForm holds the preview side.
type ExportForm struct {
	Data   map[string]any `json:"data"`
	Schema *schema.Schema `json:"schema"`
}

// Export captures metadata, links and the preview.
func (b *Builder) Export() Export {
	meta := b.metadata.GetData()
	meta["formDefinition"] = b.previewSchema
	return Export{
		Meta: ExportMeta{
			Data:   meta,
			Schema: b.metadata.Schema(),
			Links:  b.Links(),
		},
		Form: ExportForm{
			Data:   b.preview.GetData(),
			Schema: b.previewSchema,
		},
	}
}

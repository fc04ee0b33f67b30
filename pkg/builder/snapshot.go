package builder

import (
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// Snapshot is the state compared to decide whether the form changed since
// the last load or save.
type Snapshot struct {
	FormID          string
	Title           any
	Description     any
	ApplicationName any
	BusinessStreams []any
	ValidFrom       any
	ValidTo         any
	Columns         any
	FormDefinition  *schema.Schema
}

func (b *Builder) current() Snapshot {
	meta := b.metadata.GetData()
	return Snapshot{
		Title:           meta["title"],
		Description:     meta["description"],
		ApplicationName: meta["applicationName"],
		BusinessStreams: []any{meta["businessStreams"]},
		ValidFrom:       meta["validFrom"],
		ValidTo:         meta["validTo"],
		Columns:         meta["columns"],
		FormDefinition:  b.previewSchema.Clone(),
	}
}

// TakeSnapshot records the current state as unmodified.
func (b *Builder) TakeSnapshot() {
	b.snapshot = b.current()
}

// Modified reports whether the metadata or the fields differ from the last
// snapshot.
func (b *Builder) Modified() bool {
	return !cmp.Equal(b.snapshot, b.current())
}

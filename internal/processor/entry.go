package processor

import (
	"github.com/woozymasta/geoview/internal/config"
	"github.com/woozymasta/geoview/internal/layer"
)

// Entry is one slot of the sequencer accumulator: either a pending descriptor
// or the layer realized from it.
type Entry struct {
	layer      *layer.Layer
	filter     *layer.Filter
	descriptor config.Layer
	realized   bool
}

// Pending returns an entry waiting for its source to be fetched.
func Pending(d config.Layer) Entry {
	return Entry{descriptor: d}
}

// withFilter returns the pending entry with its compiled feature filter.
func (e Entry) withFilter(f *layer.Filter) Entry {
	e.filter = f
	return e
}

// Realized returns an entry holding a parsed layer.
func Realized(name string, l *layer.Layer) Entry {
	return Entry{descriptor: config.Layer{Name: name}, layer: l, realized: true}
}

// Name returns the layer name.
func (e Entry) Name() string { return e.descriptor.Name }

// IsRealized reports whether the source has been fetched and parsed.
func (e Entry) IsRealized() bool { return e.realized }

// Layer returns the realized layer, nil while pending.
func (e Entry) Layer() *layer.Layer { return e.layer }

// Descriptor returns the configuration the entry was created from.
func (e Entry) Descriptor() config.Layer { return e.descriptor }

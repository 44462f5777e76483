package layer

// Named binds a layer to its unique name.
type Named struct {
	Layer *Layer
	Name  string
}

// GroupMapping is an insertion-ordered name to layer mapping with unique keys.
type GroupMapping struct {
	index   map[string]int
	entries []Named
}

// NewGroupMapping returns an empty mapping.
func NewGroupMapping() *GroupMapping {
	return &GroupMapping{index: make(map[string]int)}
}

// Add appends a layer. A name already present is rejected instead of overwritten.
func (g *GroupMapping) Add(name string, l *Layer) error {
	if _, ok := g.index[name]; ok {
		return duplicateName(name)
	}
	g.index[name] = len(g.entries)
	g.entries = append(g.entries, Named{Name: name, Layer: l})
	return nil
}

// Get returns the layer stored under name.
func (g *GroupMapping) Get(name string) (*Layer, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return g.entries[i].Layer, true
}

// Entries returns a copy of the entries in insertion order.
func (g *GroupMapping) Entries() []Named {
	out := make([]Named, len(g.entries))
	copy(out, g.entries)
	return out
}

// Names returns the keys in insertion order.
func (g *GroupMapping) Names() []string {
	out := make([]string, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.Name
	}
	return out
}

// Len returns the number of entries.
func (g *GroupMapping) Len() int {
	return len(g.entries)
}

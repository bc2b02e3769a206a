package scene

// Registry resolves layers in the surface's collection by kind and
// identifier. Resolution is a linear scan over the current layers with no
// side effects; identifiers are expected unique within their kind, and a
// duplicate resolves to the first match in insertion order.
type Registry struct {
	surface MapSurface
}

// NewRegistry creates a registry over the given surface.
func NewRegistry(surface MapSurface) *Registry {
	return &Registry{surface: surface}
}

// Resolve returns the layer with the given kind and identifier. Tile layers
// never participate in vector resolution and vice versa.
func (r *Registry) Resolve(kind Kind, id int64) (*Layer, bool) {
	for _, l := range r.surface.Layers() {
		if l.Kind != kind {
			continue
		}
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

// VectorLayers returns all default and user layers in insertion order.
func (r *Registry) VectorLayers() []*Layer {
	var out []*Layer
	for _, l := range r.surface.Layers() {
		if l.Kind.Vector() {
			out = append(out, l)
		}
	}
	return out
}

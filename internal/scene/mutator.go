package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrLayerNotFound is returned when an operation that cannot degrade to a
// no-op fails to resolve its target layer. Feature insertion is the one
// such case: silently dropping user-authored content is unacceptable.
var ErrLayerNotFound = errors.New("scene: layer not found")

// HighlightRef identifies the single highlighted feature, if any.
type HighlightRef struct {
	LayerID   int64 `json:"layer_id" doc:"Layer holding the highlighted feature"`
	FeatureID int64 `json:"feature_id" doc:"Highlighted feature identifier"`
}

// Mutator applies stateful changes to the scene. Every operation resolves
// its target through the registry, mutates it in place, and leaves the rest
// of the surface untouched. A failed resolve is a no-op, never a partial
// mutation. Operations are serialized; the surface is effectively owned by
// one mutator at a time.
type Mutator struct {
	mu       sync.Mutex
	surface  MapSurface
	registry *Registry
	factory  *Factory
	bus      *Bus
	log      zerolog.Logger

	// highlight is the single-slot global highlight state. Transitions
	// always pass through the empty state: reset everything, then set.
	highlight *HighlightRef
}

// NewMutator creates a mutator over the given surface.
func NewMutator(surface MapSurface, factory *Factory, bus *Bus, log zerolog.Logger) *Mutator {
	return &Mutator{
		surface:  surface,
		registry: NewRegistry(surface),
		factory:  factory,
		bus:      bus,
		log:      log,
	}
}

// Registry returns the mutator's layer registry.
func (m *Mutator) Registry() *Registry {
	return m.registry
}

// Add inserts a freshly built layer into the surface.
func (m *Mutator) Add(l *Layer) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surface.AddLayer(l)
	m.publish("layers", "added", l.ID)
}

// Recolor rebuilds a layer's style and re-inserts it so the next frame
// draws the new colors. Atomic from the caller's perspective; an unknown
// layer is a no-op.
func (m *Mutator) Recolor(kind Kind, layerID int64, fill, stroke string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(kind, layerID)
	if !ok {
		return
	}

	m.surface.RemoveLayer(target)
	target.Style = LayerStyle(fill, stroke, 1)
	m.surface.AddLayer(target)
	m.publish("layers", "recolored", layerID)
}

// Delete removes a layer and all its features from the surface. Unknown
// layers are a silent no-op; the UI deletes speculatively.
func (m *Mutator) Delete(kind Kind, layerID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(kind, layerID)
	if !ok {
		return
	}
	m.surface.RemoveLayer(target)
	m.publish("layers", "deleted", layerID)
}

// Reorder applies draw-order assignments. Each assignment is independent:
// one that fails to resolve does not block the others.
func (m *Mutator) Reorder(assignments []ReorderAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := 0
	for _, a := range assignments {
		kind := KindUserVector
		if a.IsDefault {
			kind = KindDefaultVector
		}
		target, ok := m.registry.Resolve(kind, a.LayerID)
		if !ok {
			m.log.Warn().Str("kind", string(kind)).Int64("layer_id", a.LayerID).Msg("reorder target not found")
			continue
		}
		target.ZIndex = a.ZIndex
		changed++
	}
	if changed > 0 {
		m.publish("layers", "reordered", 0)
	}
}

// InsertUserFeatures decodes records and appends them to a user layer's
// source. Invalid records are dropped with a warning; a missing layer
// aborts the whole call.
func (m *Mutator) InsertUserFeatures(layerID int64, records []UserFeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(KindUserVector, layerID)
	if !ok {
		return fmt.Errorf("inserting into user layer %d: %w", layerID, ErrLayerNotFound)
	}

	target.Features = append(target.Features, m.factory.UserFeatures(records)...)
	m.publish("features", "added", layerID)
	return nil
}

// InsertDefaultFeatures appends administrative boundary records to a
// default layer's source.
func (m *Mutator) InsertDefaultFeatures(layerID int64, records []DefaultFeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(KindDefaultVector, layerID)
	if !ok {
		return fmt.Errorf("inserting into default layer %d: %w", layerID, ErrLayerNotFound)
	}

	target.Features = append(target.Features, m.factory.DefaultFeatures(records)...)
	m.publish("features", "added", layerID)
	return nil
}

// RemoveFeature removes one feature from a user layer's source. Missing
// layer or feature is a silent no-op.
func (m *Mutator) RemoveFeature(layerID, featureID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(KindUserVector, layerID)
	if !ok {
		return
	}
	for i, f := range target.Features {
		if f.ID == featureID {
			target.Features = append(target.Features[:i], target.Features[i+1:]...)
			m.publish("features", "deleted", featureID)
			return
		}
	}
}

// ResetAllStyles clears every feature's style override across every vector
// layer and empties the highlight slot.
func (m *Mutator) ResetAllStyles() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetOverrides()
	m.publish("features", "reset", 0)
}

func (m *Mutator) resetOverrides() {
	for _, l := range m.registry.VectorLayers() {
		for _, f := range l.Features {
			f.Override = nil
		}
	}
	m.highlight = nil
}

// Highlight emphasizes one feature, globally: all overrides are cleared
// first so at most one feature is highlighted at a time. Missing layer or
// feature leaves the scene with no highlight at all.
func (m *Mutator) Highlight(layerID, featureID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetOverrides()

	target, ok := m.registry.Resolve(KindUserVector, layerID)
	if !ok {
		m.log.Warn().Int64("layer_id", layerID).Msg("highlight layer not found")
		return
	}
	feat := target.FindFeature(featureID)
	if feat == nil {
		m.log.Warn().Int64("layer_id", layerID).Int64("feature_id", featureID).Msg("highlight feature not found")
		return
	}

	style := HighlightStyle(feat.GeometryType())
	feat.Override = &style
	m.highlight = &HighlightRef{LayerID: layerID, FeatureID: featureID}
	m.publish("features", "highlighted", featureID)
}

// CurrentHighlight returns the highlighted feature reference, or nil.
func (m *Mutator) CurrentHighlight() *HighlightRef {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.highlight == nil {
		return nil
	}
	ref := *m.highlight
	return &ref
}

// ZoomTo recenters the view on the feature's bounding extent. The zoom
// level does not change.
func (m *Mutator) ZoomTo(f *Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zoomTo(f)
}

func (m *Mutator) zoomTo(f *Feature) {
	if f == nil || f.Geometry == nil {
		return
	}
	m.surface.SetCenter(f.Geometry.Bound().Center())
	m.publish("view", "recentered", f.ID)
}

// ZoomToFeature resolves a user layer feature by identity and recenters on
// it. Returns false when the layer or feature is absent.
func (m *Mutator) ZoomToFeature(layerID, featureID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	target, ok := m.registry.Resolve(KindUserVector, layerID)
	if !ok {
		return false
	}
	feat := target.FindFeature(featureID)
	if feat == nil {
		return false
	}
	m.zoomTo(feat)
	return true
}

func (m *Mutator) publish(resource, action string, id int64) {
	if m.bus == nil {
		return
	}
	m.bus.Publish(Event{Resource: resource, Action: action, ID: id})
}

package scene

import (
	"sync"

	"github.com/paulmach/orb"
)

// MapSurface is the rendering engine boundary: it owns the authoritative
// layer list and reflects every mutation on the next frame. The engine
// itself (tile fetching, drawing) lives outside this module.
type MapSurface interface {
	Layers() []*Layer
	AddLayer(l *Layer)
	RemoveLayer(l *Layer)
	SetCenter(c orb.Point)
}

// Surface is a headless in-memory MapSurface. It preserves insertion order,
// counts render-triggering mutations, and tracks the view center so zoom-to
// behavior is observable without a real engine.
type Surface struct {
	mu      sync.RWMutex
	layers  []*Layer
	center  orb.Point
	zoom    float64
	renders int
	closed  bool
}

// NewSurface creates a surface centered on the given web-mercator point.
func NewSurface(center orb.Point, zoom float64) *Surface {
	return &Surface{center: center, zoom: zoom}
}

// Layers returns a snapshot of the current layer list in insertion order.
func (s *Surface) Layers() []*Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// AddLayer appends a layer and triggers a redraw. Closed surfaces ignore
// the call; a stale async completion must not resurrect a torn-down map.
func (s *Surface) AddLayer(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || l == nil {
		return
	}
	s.layers = append(s.layers, l)
	s.renders++
}

// RemoveLayer removes a layer by identity. Unknown layers are ignored.
func (s *Surface) RemoveLayer(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, have := range s.layers {
		if have == l {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			s.renders++
			return
		}
	}
}

// SetCenter recenters the view without changing the zoom level.
func (s *Surface) SetCenter(c orb.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.center = c
	s.renders++
}

// Center returns the current view center.
func (s *Surface) Center() orb.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.center
}

// Zoom returns the current zoom level.
func (s *Surface) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// Renders returns the number of mutations that triggered a redraw.
func (s *Surface) Renders() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renders
}

// Close tears the surface down. Later mutations become no-ops.
func (s *Surface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.layers = nil
}

// Closed reports whether the surface has been torn down.
func (s *Surface) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

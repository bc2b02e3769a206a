package scene

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestSurfaceInsertionOrder(t *testing.T) {
	s := NewSurface(orb.Point{0, 0}, 2)
	a := &Layer{Kind: KindTile, ID: 1}
	b := &Layer{Kind: KindUserVector, ID: 2}
	s.AddLayer(a)
	s.AddLayer(b)

	layers := s.Layers()
	assert.Equal(t, []*Layer{a, b}, layers)
	assert.Equal(t, 2, s.Renders())
}

func TestSurfaceRemoveByIdentity(t *testing.T) {
	s := NewSurface(orb.Point{0, 0}, 2)
	a := &Layer{Kind: KindUserVector, ID: 1}
	s.AddLayer(a)

	// Removing a layer the surface never held is ignored.
	s.RemoveLayer(&Layer{Kind: KindUserVector, ID: 1})
	assert.Len(t, s.Layers(), 1)

	s.RemoveLayer(a)
	assert.Empty(t, s.Layers())
}

func TestClosedSurfaceIgnoresStaleAdds(t *testing.T) {
	s := NewSurface(orb.Point{0, 0}, 2)
	s.Close()

	// A slow async load finishing after teardown must not mutate the map.
	s.AddLayer(&Layer{Kind: KindDefaultVector, ID: 1})
	assert.True(t, s.Closed())
	assert.Empty(t, s.Layers())
}

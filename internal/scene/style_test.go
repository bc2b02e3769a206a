package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayerStylePreservesAbsentChannels(t *testing.T) {
	// Stroke-only outline layers depend on an absent fill staying absent.
	s := LayerStyle("", "#1F2937", 0)
	assert.Empty(t, s.Fill)
	assert.Equal(t, "#1F2937", s.Stroke)
	assert.Equal(t, 1.0, s.StrokeWidth)

	s = LayerStyle("#3388ff", "", 0)
	assert.Equal(t, "#3388ff", s.Fill)
	assert.Empty(t, s.Stroke)
	assert.Zero(t, s.StrokeWidth)
}

func TestLayerStyleKeepsExplicitWidth(t *testing.T) {
	s := LayerStyle("#fff", "#000", 2.5)
	assert.Equal(t, 2.5, s.StrokeWidth)
}

func TestPointMarkerStyle(t *testing.T) {
	s := PointMarkerStyle()
	assert.Equal(t, 6.0, s.Radius)
	assert.Equal(t, "#FF0000", s.Fill)
	assert.Equal(t, "#1F2937", s.Stroke)
	assert.Equal(t, 1.0, s.StrokeWidth)
}

func TestHighlightStyleByGeometry(t *testing.T) {
	point := HighlightStyle("Point")
	assert.Equal(t, 10.0, point.Radius)
	assert.Equal(t, "yellow", point.Fill)
	assert.Equal(t, "red", point.Stroke)
	assert.Equal(t, 2.0, point.StrokeWidth)

	poly := HighlightStyle("Polygon")
	assert.Equal(t, "rgba(255, 0, 0, 0.3)", poly.Fill)
	assert.Equal(t, "red", poly.Stroke)
	assert.Equal(t, 3.0, poly.StrokeWidth)
	assert.Zero(t, poly.Radius)
}

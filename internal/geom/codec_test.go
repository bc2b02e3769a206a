package geom

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProjectsToWebMercator(t *testing.T) {
	c := NewCodec()

	g, err := c.Decode(RawGeometry{
		Type:        "Point",
		Coordinates: json.RawMessage(`[10, 20]`),
	})
	require.NoError(t, err)

	p, ok := g.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 1113194.9079, p.X(), 0.01)
	assert.InDelta(t, 2273030.9270, p.Y(), 0.01)
}

func TestDecodeOriginIsFixedPoint(t *testing.T) {
	c := NewCodec()

	g, err := c.Decode(RawGeometry{Type: "Point", Coordinates: json.RawMessage(`[0, 0]`)})
	require.NoError(t, err)

	p := g.(orb.Point)
	assert.InDelta(t, 0, p.X(), 1e-9)
	assert.InDelta(t, 0, p.Y(), 1e-9)
}

func TestDecodeRejectsInvalidRecords(t *testing.T) {
	c := NewCodec()

	_, err := c.Decode(RawGeometry{Coordinates: json.RawMessage(`[1,2]`)})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = c.Decode(RawGeometry{Type: "Point"})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = c.Decode(RawGeometry{Type: "Point", Coordinates: json.RawMessage(`null`)})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestDecodeSerialized(t *testing.T) {
	c := NewCodec()

	g, err := c.DecodeSerialized(`{"type":"LineString","coordinates":[[0,0],[10,20]]}`)
	require.NoError(t, err)
	assert.Equal(t, "LineString", g.GeoJSONType())

	_, err = c.DecodeSerialized("")
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	_, err = c.DecodeSerialized("{broken")
	assert.Error(t, err)
}

func TestRawGeometryValid(t *testing.T) {
	var nilGeom *RawGeometry
	assert.False(t, nilGeom.Valid())
	assert.False(t, (&RawGeometry{Type: "Point"}).Valid())
	assert.True(t, (&RawGeometry{Type: "Point", Coordinates: json.RawMessage(`[1,2]`)}).Valid())
}

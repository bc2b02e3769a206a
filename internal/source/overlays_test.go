package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tourismFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Temple of Literature"},
     "geometry": {"type": "Point", "coordinates": [105.8356, 21.0285]}},
    {"type": "Feature", "properties": {"name": "Old Quarter"},
     "geometry": {"type": "Point", "coordinates": [105.8500, 21.0340]}}
  ]
}`

func TestOverlayLoad(t *testing.T) {
	dataDir := t.TempDir()
	geodata := filepath.Join(dataDir, "geodata")
	require.NoError(t, os.MkdirAll(geodata, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(geodata, "Tourism.geojson"), []byte(tourismFixture), 0644))

	o := NewOverlays(dataDir)

	fc, err := o.Load("tourism")
	require.NoError(t, err)
	assert.Len(t, fc.Features, 2)
	assert.Equal(t, "Temple of Literature", fc.Features[0].Properties["name"])
}

func TestOverlayUnknownName(t *testing.T) {
	o := NewOverlays(t.TempDir())
	_, err := o.Load("casinos")
	assert.Error(t, err)
}

func TestOverlayMissingFile(t *testing.T) {
	o := NewOverlays(t.TempDir())
	_, err := o.Load("medical")
	assert.Error(t, err)
}

func TestOverlayNames(t *testing.T) {
	o := NewOverlays(t.TempDir())
	assert.Equal(t, []string{"education", "market", "medical", "tourism"}, o.Names())
}

package scene

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odnoliu/geoscene/internal/geom"
)

func newTestFactory() *Factory {
	return NewFactory(geom.NewCodec(), NewIconLoader(), zerolog.Nop())
}

func pointRecord(id int64, lon, lat float64) UserFeatureRecord {
	coords, _ := json.Marshal([]float64{lon, lat})
	return UserFeatureRecord{
		FeatureID: id,
		LayerID:   9,
		Geom:      &geom.RawGeometry{Type: "Point", Coordinates: coords},
	}
}

func polygonRecord(id int64) UserFeatureRecord {
	return UserFeatureRecord{
		FeatureID: id,
		Name:      "zone",
		LayerID:   9,
		Geom: &geom.RawGeometry{
			Type:        "Polygon",
			Coordinates: json.RawMessage(`[[[105,20],[106,20],[106,21],[105,20]]]`),
		},
	}
}

func TestUserVectorLayerAlwaysHidden(t *testing.T) {
	f := newTestFactory()

	meta := UserLayerMeta{ID: 9, Name: "My places", Fill: "#3388ff", Priority: 4, Visible: true}
	layer := f.UserVectorLayer(meta, []UserFeatureRecord{polygonRecord(1)})

	assert.False(t, layer.Visible, "user layers start hidden regardless of the stored hint")
	assert.Equal(t, KindUserVector, layer.Kind)
	assert.Equal(t, int64(9), layer.ID)
	assert.Equal(t, 4, layer.ZIndex)
	assert.Len(t, layer.Features, 1)
}

func TestUserFeaturesDropInvalidRecords(t *testing.T) {
	f := newTestFactory()

	records := []UserFeatureRecord{
		polygonRecord(1),
		{FeatureID: 2, LayerID: 9},                                      // no geometry at all
		{FeatureID: 3, LayerID: 9, Geom: &geom.RawGeometry{Type: "Point"}}, // no coordinates
		{FeatureID: 4, LayerID: 9, Geom: &geom.RawGeometry{Coordinates: json.RawMessage(`[1,2]`)}}, // no type
		pointRecord(5, 105.8, 21.0),
	}

	features := f.UserFeatures(records)
	require.Len(t, features, 2)
	assert.Equal(t, int64(1), features[0].ID)
	assert.Equal(t, int64(5), features[1].ID)
}

func TestUserFeaturesDefaultName(t *testing.T) {
	f := newTestFactory()

	features := f.UserFeatures([]UserFeatureRecord{pointRecord(1, 105.8, 21.0)})
	require.Len(t, features, 1)
	assert.Equal(t, "Unnamed", features[0].Name)
	assert.NotNil(t, features[0].Properties)
}

func TestPointFeaturesGetMarkerOverride(t *testing.T) {
	f := newTestFactory()

	features := f.UserFeatures([]UserFeatureRecord{pointRecord(1, 105.8, 21.0), polygonRecord(2)})
	require.Len(t, features, 2)

	require.NotNil(t, features[0].Override)
	assert.Equal(t, PointMarkerStyle(), *features[0].Override)
	assert.Nil(t, features[1].Override)
}

func TestDefaultVectorLayerVisible(t *testing.T) {
	f := newTestFactory()

	records := []DefaultFeatureRecord{
		{
			ID:       1,
			LayerID:  5,
			Geometry: `{"type":"MultiPolygon","coordinates":[[[[105,20],[106,20],[106,21],[105,20]]]]}`,
			Country:  "Vietnam",
			Name1:    "Ha Noi",
		},
		{ID: 2, LayerID: 5, Geometry: "not json"},
	}

	layer := f.DefaultVectorLayer("Provinces", records, LayerStyle("#3388ff", "#2266cc", 1), 2, 5)

	assert.True(t, layer.Visible)
	assert.Equal(t, KindDefaultVector, layer.Kind)
	assert.Equal(t, "Provinces", layer.Name)
	require.Len(t, layer.Features, 1, "malformed geometry records are dropped")

	feat := layer.Features[0]
	assert.Equal(t, "MultiPolygon", feat.GeometryType())
	assert.Equal(t, "default_feature", feat.Properties["type"])
	assert.Equal(t, "Vietnam", feat.Properties["COUNTRY"])
	assert.Equal(t, "Ha Noi", feat.Properties["NAME_1"])
}

func TestDefaultVectorLayerNameFromRecords(t *testing.T) {
	f := newTestFactory()

	layer := f.DefaultVectorLayer("", []DefaultFeatureRecord{{
		ID:       1,
		LayerID:  5,
		Geometry: `{"type":"MultiPolygon","coordinates":[[[[105,20],[106,20],[106,21],[105,20]]]]}`,
		Country:  "Vietnam",
	}}, LayerStyle("#3388ff", "", 0), 2, 5)

	assert.Equal(t, "Vietnam", layer.Name)
}

const markerCollectionFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Temple of Literature"},
     "geometry": {"type": "Point", "coordinates": [105.8356, 21.0285]}},
    {"type": "Feature", "properties": {"name": "Old Quarter"},
     "geometry": {"type": "Point", "coordinates": [105.8500, 21.0340]}}
  ]
}`

func markerCollection(t *testing.T) *geojson.FeatureCollection {
	t.Helper()
	fc, err := geojson.UnmarshalFeatureCollection([]byte(markerCollectionFixture))
	require.NoError(t, err)
	return fc
}

func newIconStub(t *testing.T, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("\x89PNG\r\n"))
	}))
}

func TestMarkerLayerBuildsAfterIconResolves(t *testing.T) {
	icons := newIconStub(t, http.StatusOK)
	defer icons.Close()
	f := newTestFactory()

	layer, err := f.MarkerLayer(context.Background(), MarkerLayerOptions{
		Name:       "Tourism spots",
		LayerID:    30,
		IconURL:    icons.URL + "/marker.png",
		ZIndex:     5,
		Collection: markerCollection(t),
	})
	require.NoError(t, err)

	assert.Equal(t, KindDefaultVector, layer.Kind)
	assert.True(t, layer.Visible)
	require.NotNil(t, layer.Icon)
	assert.Equal(t, "image/png", layer.Icon.ContentType)
	assert.NotEmpty(t, layer.Icon.Data)
	require.Len(t, layer.Features, 2)
	assert.Equal(t, "Point", layer.Features[0].GeometryType())
}

func TestMarkerLayerIconFailureAbortsOnlyThatLayer(t *testing.T) {
	icons := newIconStub(t, http.StatusInternalServerError)
	defer icons.Close()
	f := newTestFactory()

	layer, err := f.MarkerLayer(context.Background(), MarkerLayerOptions{
		Name:       "Tourism spots",
		LayerID:    30,
		IconURL:    icons.URL + "/marker.png",
		Collection: markerCollection(t),
	})
	require.Error(t, err)
	assert.Nil(t, layer)

	// An unrelated layer built afterwards is unaffected by the failure.
	other := f.UserVectorLayer(UserLayerMeta{ID: 9, Name: "My places"}, []UserFeatureRecord{polygonRecord(1)})
	require.NotNil(t, other)
	assert.Len(t, other.Features, 1)
}

func TestMarkerLayerStaleCompletionIgnored(t *testing.T) {
	icons := newIconStub(t, http.StatusOK)
	defer icons.Close()

	surface := NewSurface(orb.Point{0, 0}, 2)
	f := newTestFactory()
	m := NewMutator(surface, f, NewBus(), zerolog.Nop())

	layer, err := f.MarkerLayer(context.Background(), MarkerLayerOptions{
		Name:       "Tourism spots",
		LayerID:    30,
		IconURL:    icons.URL + "/marker.png",
		Collection: markerCollection(t),
	})
	require.NoError(t, err)

	// The map is torn down while the icon acquisition was in flight; the
	// late completion must not resurrect it.
	surface.Close()
	m.Add(layer)
	assert.Empty(t, surface.Layers())
}

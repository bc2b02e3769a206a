package scene

import (
	"strconv"
	"strings"
)

// CatalogEntry is a static basemap definition selectable by identifier.
type CatalogEntry struct {
	ID          int64  `json:"id" doc:"Catalog identifier"`
	URLTemplate string `json:"url" doc:"XYZ tile URL template"`
	Label       string `json:"label" doc:"Display label"`
}

// basemapCatalog is the fixed set of tile providers. The composite id
// string selects a subset by `-`-separated numeric tokens.
var basemapCatalog = []CatalogEntry{
	{ID: 1, URLTemplate: "https://mt1.google.com/vt/lyrs=r&x={x}&y={y}&z={z}", Label: "Google Map"},
	{ID: 2, URLTemplate: "https://api.mapbox.com/styles/v1/{id}/tiles/{z}/{x}/{y}", Label: "Mapbox"},
	{ID: 3, URLTemplate: "https://{a-d}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png", Label: "CartoDB"},
	{ID: 4, URLTemplate: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}", Label: "Esri"},
	{ID: 5, URLTemplate: "https://stamen-tiles.a.ssl.fastly.net/terrain/{z}/{x}/{y}.jpg", Label: "Stamen"},
}

// Catalog returns the basemap catalog.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, len(basemapCatalog))
	copy(out, basemapCatalog)
	return out
}

// LookupCatalog returns the catalog entry with the given id.
func LookupCatalog(id int64) (CatalogEntry, bool) {
	for _, e := range basemapCatalog {
		if e.ID == id {
			return e, true
		}
	}
	return CatalogEntry{}, false
}

// ParseCompositeID splits a `-`-joined identifier string into catalog ids.
// Non-numeric tokens are dropped silently.
func ParseCompositeID(s string) []int64 {
	var ids []int64
	for _, tok := range strings.Split(s, "-") {
		id, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Package geom converts raw geometry records into renderable geometries.
//
// Incoming records carry GeoJSON-shaped geometry in EPSG:4326 (lon/lat).
// The rendering surface works in EPSG:3857 (web mercator), so every decode
// ends with a reprojection.
package geom

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
)

// ErrInvalidGeometry is returned for records missing a geometry type or
// coordinate payload.
var ErrInvalidGeometry = errors.New("geom: invalid geometry record")

// RawGeometry is the wire shape of a geometry: a GeoJSON type plus a
// coordinate tree. Coordinates are kept raw so the record round-trips
// without loss until decode time.
type RawGeometry struct {
	Type        string          `json:"type" doc:"GeoJSON geometry type" example:"Point"`
	Coordinates json.RawMessage `json:"coordinates" doc:"Coordinate tree in EPSG:4326"`
}

// Valid reports whether the record carries both a type and coordinates.
func (g *RawGeometry) Valid() bool {
	if g == nil || g.Type == "" {
		return false
	}
	return len(g.Coordinates) > 0 && string(g.Coordinates) != "null"
}

// Codec decodes raw geometry records into orb geometries in the rendering
// projection. It is stateless and safe for concurrent use.
type Codec struct{}

// NewCodec creates a new codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode converts a raw geometry record into a web-mercator orb geometry.
func (c *Codec) Decode(raw RawGeometry) (orb.Geometry, error) {
	if !raw.Valid() {
		return nil, ErrInvalidGeometry
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encoding geometry record: %w", err)
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geometry: %w", err)
	}

	return c.Project(g.Geometry()), nil
}

// DecodeSerialized decodes a geometry that arrives as a JSON string, as
// administrative boundary records do. One parse step, then the normal path.
func (c *Codec) DecodeSerialized(s string) (orb.Geometry, error) {
	if s == "" {
		return nil, ErrInvalidGeometry
	}

	var raw RawGeometry
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("parsing serialized geometry: %w", err)
	}

	return c.Decode(raw)
}

// Project reprojects a lon/lat geometry into web mercator.
func (c *Codec) Project(g orb.Geometry) orb.Geometry {
	return project.Geometry(g, project.WGS84.ToMercator)
}

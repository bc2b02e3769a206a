// Package scene contains the live map scene graph: a mutable collection of
// heterogeneous layers over a rendering surface, plus the registry, factory
// and mutator that operate on it.
package scene

import (
	"github.com/paulmach/orb"

	"github.com/odnoliu/geoscene/internal/geom"
)

// Kind discriminates the structural layer types in the scene.
type Kind string

const (
	// KindTile is a raster basemap layer backed by an XYZ tile source.
	KindTile Kind = "tile"
	// KindDefaultVector is a reference layer of administrative boundaries.
	KindDefaultVector Kind = "default"
	// KindUserVector is a user-authored editable layer.
	KindUserVector Kind = "user"
)

// Vector reports whether the kind holds features.
func (k Kind) Vector() bool {
	return k == KindDefaultVector || k == KindUserVector
}

// Style describes how a layer or feature is drawn. A zero Fill or Stroke
// means "no fill" / "no stroke", not a default color; stroke-only outline
// layers depend on that distinction.
type Style struct {
	Fill        string  `json:"fill,omitempty" doc:"Fill color (CSS)" example:"#3388ff"`
	Stroke      string  `json:"stroke,omitempty" doc:"Stroke color (CSS)" example:"#2266cc"`
	StrokeWidth float64 `json:"stroke_width,omitempty" doc:"Stroke width in pixels"`
	Radius      float64 `json:"radius,omitempty" doc:"Marker radius, point styles only"`
}

// Feature is a single geometry with identity and metadata. A feature belongs
// to exactly one layer's source at a time.
type Feature struct {
	ID         int64
	Name       string
	LayerID    int64
	Geometry   orb.Geometry
	Properties map[string]any

	// Override is the per-feature style, nil unless the feature is a point
	// marker or currently highlighted.
	Override *Style
}

// GeometryType returns the GeoJSON type name of the feature geometry.
func (f *Feature) GeometryType() string {
	if f.Geometry == nil {
		return ""
	}
	return f.Geometry.GeoJSONType()
}

// Layer is a named, typed container of features with a shared style and
// draw order. Identifiers are unique within their kind only.
type Layer struct {
	Kind    Kind
	ID      int64
	Name    string
	ZIndex  int
	Visible bool
	Style   Style

	// Features is the layer source, in insertion order. Empty for tile layers.
	Features []*Feature

	// Tile layers only.
	URLTemplate string
	Attribution string

	// Icon is the marker image for icon-rendered overlay layers, nil otherwise.
	Icon *Icon
}

// FindFeature returns the feature with the given id, or nil.
func (l *Layer) FindFeature(id int64) *Feature {
	for _, f := range l.Features {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Codec is the geometry boundary the scene depends on. *geom.Codec satisfies it.
type Codec interface {
	Decode(raw geom.RawGeometry) (orb.Geometry, error)
	DecodeSerialized(s string) (orb.Geometry, error)
	Project(g orb.Geometry) orb.Geometry
}

// UserFeatureRecord is the wire shape of a user layer feature.
type UserFeatureRecord struct {
	FeatureID  int64             `json:"feature_id" doc:"Feature identifier"`
	Name       string            `json:"name,omitempty" doc:"Display name, defaults to Unnamed"`
	Properties map[string]any    `json:"properties,omitempty" doc:"Free-form attributes"`
	LayerID    int64             `json:"layer_id" doc:"Owning layer identifier"`
	Geom       *geom.RawGeometry `json:"geom" doc:"Geometry in EPSG:4326"`
}

// Validate reports whether the record carries a usable geometry. This is the
// single validity check used by both the factory and feature insertion.
func (r UserFeatureRecord) Validate() error {
	if !r.Geom.Valid() {
		return geom.ErrInvalidGeometry
	}
	return nil
}

// DefaultFeatureRecord is the wire shape of an administrative boundary
// feature. Geometry arrives as a serialized JSON string.
type DefaultFeatureRecord struct {
	ID       int64  `json:"id"`
	LayerID  int64  `json:"layer_id"`
	Geometry string `json:"geometry" doc:"Serialized GeoJSON geometry"`
	CC1      string `json:"CC_1"`
	Country  string `json:"COUNTRY"`
	EngType1 string `json:"ENGTYPE_1"`
	GID0     string `json:"GID_0"`
	GID1     string `json:"GID_1"`
	HASC1    string `json:"HASC_1"`
	ISO1     string `json:"ISO_1"`
	Name1    string `json:"NAME_1"`
	NLName1  string `json:"NL_NAME_1"`
	Type1    string `json:"TYPE_1"`
	VarName1 string `json:"VARNAME_1"`
}

// UserLayerMeta is the stored configuration of a user layer. Visible is
// accepted on the wire but ignored at construction: user layers always
// start hidden.
type UserLayerMeta struct {
	ID          int64   `json:"id" doc:"Layer identifier"`
	Name        string  `json:"name" doc:"Display name"`
	Fill        string  `json:"fill,omitempty" doc:"Fill color (CSS)"`
	Stroke      string  `json:"stroke,omitempty" doc:"Stroke color (CSS)"`
	StrokeWidth float64 `json:"stroke_width,omitempty" doc:"Stroke width in pixels"`
	Priority    int     `json:"priority" doc:"Draw order, higher draws on top"`
	Visible     bool    `json:"visible,omitempty" doc:"Ignored: user layers start hidden"`
}

// ReorderAssignment sets one layer's draw order. IsDefault selects which
// kind the identifier resolves against.
type ReorderAssignment struct {
	LayerID   int64 `json:"layer_id" doc:"Layer identifier"`
	ZIndex    int   `json:"z_index" doc:"New draw order"`
	IsDefault bool  `json:"isDefault" doc:"Resolve against default layers instead of user layers"`
}

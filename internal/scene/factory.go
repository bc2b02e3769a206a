package scene

import (
	"context"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog"
)

// Factory builds layers from raw records. Invalid records are dropped with
// a warning, never fatal; the factory does not touch the surface.
type Factory struct {
	codec Codec
	icons *IconLoader
	log   zerolog.Logger
}

// NewFactory creates a factory over the given geometry codec.
func NewFactory(codec Codec, icons *IconLoader, log zerolog.Logger) *Factory {
	return &Factory{codec: codec, icons: icons, log: log}
}

// DefaultVectorLayer builds an administrative boundary layer. Default
// layers are visible on creation.
func (f *Factory) DefaultVectorLayer(name string, records []DefaultFeatureRecord, style Style, zIndex int, layerID int64) *Layer {
	if name == "" && len(records) > 0 {
		name = records[0].Country
	}
	return &Layer{
		Kind:     KindDefaultVector,
		ID:       layerID,
		Name:     name,
		ZIndex:   zIndex,
		Visible:  true,
		Style:    style,
		Features: f.DefaultFeatures(records),
	}
}

// DefaultFeatures decodes administrative boundary records into features.
func (f *Factory) DefaultFeatures(records []DefaultFeatureRecord) []*Feature {
	var features []*Feature
	for i, rec := range records {
		g, err := f.codec.DecodeSerialized(rec.Geometry)
		if err != nil {
			f.log.Warn().Int("index", i).Int64("id", rec.ID).Err(err).Msg("dropping invalid default feature record")
			continue
		}
		features = append(features, &Feature{
			ID:       rec.ID,
			Name:     rec.Name1,
			LayerID:  rec.LayerID,
			Geometry: g,
			Properties: map[string]any{
				"type":      "default_feature",
				"id":        rec.ID,
				"layer_id":  rec.LayerID,
				"CC_1":      rec.CC1,
				"COUNTRY":   rec.Country,
				"ENGTYPE_1": rec.EngType1,
				"GID_0":     rec.GID0,
				"GID_1":     rec.GID1,
				"HASC_1":    rec.HASC1,
				"ISO_1":     rec.ISO1,
				"NAME_1":    rec.Name1,
				"NL_NAME_1": rec.NLName1,
				"TYPE_1":    rec.Type1,
				"VARNAME_1": rec.VarName1,
			},
		})
	}
	return features
}

// UserVectorLayer builds a user-authored layer. User layers start hidden
// regardless of any visibility hint in the metadata.
func (f *Factory) UserVectorLayer(meta UserLayerMeta, records []UserFeatureRecord) *Layer {
	return &Layer{
		Kind:     KindUserVector,
		ID:       meta.ID,
		Name:     meta.Name,
		ZIndex:   meta.Priority,
		Visible:  false,
		Style:    LayerStyle(meta.Fill, meta.Stroke, meta.StrokeWidth),
		Features: f.UserFeatures(records),
	}
}

// UserFeatures validates and decodes user feature records. Point features
// get the fixed marker override at creation.
func (f *Factory) UserFeatures(records []UserFeatureRecord) []*Feature {
	var features []*Feature
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			f.log.Warn().Int("index", i).Int64("feature_id", rec.FeatureID).Msg("dropping invalid feature record")
			continue
		}
		g, err := f.codec.Decode(*rec.Geom)
		if err != nil {
			f.log.Warn().Int("index", i).Int64("feature_id", rec.FeatureID).Err(err).Msg("dropping undecodable feature record")
			continue
		}

		name := rec.Name
		if name == "" {
			name = "Unnamed"
		}
		props := rec.Properties
		if props == nil {
			props = map[string]any{}
		}

		feat := &Feature{
			ID:         rec.FeatureID,
			Name:       name,
			LayerID:    rec.LayerID,
			Geometry:   g,
			Properties: props,
		}
		if feat.GeometryType() == "Point" {
			override := PointMarkerStyle()
			feat.Override = &override
		}
		features = append(features, feat)
	}
	return features
}

// TileLayers builds one tile layer per resolved catalog entry in the
// composite identifier. Unknown catalog ids are dropped with a warning.
// Tile layers start hidden; the viewer switches one on.
func (f *Factory) TileLayers(composite string) []*Layer {
	var layers []*Layer
	for _, id := range ParseCompositeID(composite) {
		entry, ok := LookupCatalog(id)
		if !ok {
			f.log.Warn().Int64("catalog_id", id).Msg("unknown basemap catalog entry")
			continue
		}
		layers = append(layers, &Layer{
			Kind:        KindTile,
			ID:          entry.ID,
			Name:        entry.Label,
			Visible:     false,
			URLTemplate: entry.URLTemplate,
			Attribution: entry.Label,
		})
	}
	return layers
}

// MarkerLayerOptions configures an icon-rendered overlay layer.
type MarkerLayerOptions struct {
	Name       string
	LayerID    int64
	IconURL    string
	ZIndex     int
	Collection *geojson.FeatureCollection
}

// MarkerLayer builds a point overlay in two phases: the icon is acquired
// first, and the layer is only constructed once the handle resolves. An
// icon failure aborts this layer alone.
func (f *Factory) MarkerLayer(ctx context.Context, opts MarkerLayerOptions) (*Layer, error) {
	icon, err := f.icons.Fetch(ctx, opts.Name, opts.IconURL)
	if err != nil {
		return nil, fmt.Errorf("acquiring marker icon: %w", err)
	}

	layer := &Layer{
		Kind:    KindDefaultVector,
		ID:      opts.LayerID,
		Name:    opts.Name,
		ZIndex:  opts.ZIndex,
		Visible: true,
		Icon:    icon,
	}

	if opts.Collection == nil {
		return layer, nil
	}
	for i, gf := range opts.Collection.Features {
		if gf.Geometry == nil {
			f.log.Warn().Int("index", i).Str("layer", opts.Name).Msg("dropping overlay feature without geometry")
			continue
		}
		layer.Features = append(layer.Features, &Feature{
			ID:         int64(i),
			Name:       opts.Name,
			LayerID:    opts.LayerID,
			Geometry:   f.codec.Project(gf.Geometry),
			Properties: gf.Properties,
		})
	}
	return layer, nil
}

// Package source supplies already-validated layer and feature records to
// the scene. Records come from the embedded DuckDB database; static
// reference overlays come from GeoJSON files under the data directory.
package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/odnoliu/geoscene/internal/geom"
	"github.com/odnoliu/geoscene/internal/scene"
)

// Store reads layer and feature records from DuckDB.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewStore creates a store over an open database connection.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log}
}

// DefaultFeatures returns the administrative boundary records of one
// default layer. Geometry is serialized GeoJSON, decoded downstream.
func (s *Store) DefaultFeatures(ctx context.Context, layerID int64) ([]scene.DefaultFeatureRecord, error) {
	const q = `
		SELECT id, layer_id, ST_AsGeoJSON(geom),
		       CC_1, COUNTRY, ENGTYPE_1, GID_0, GID_1, HASC_1,
		       ISO_1, NAME_1, NL_NAME_1, TYPE_1, VARNAME_1
		FROM default_feature
		WHERE layer_id = ?`

	rows, err := s.db.QueryContext(ctx, q, layerID)
	if err != nil {
		return nil, fmt.Errorf("querying default features for layer %d: %w", layerID, err)
	}
	defer rows.Close()

	var records []scene.DefaultFeatureRecord
	for rows.Next() {
		var rec scene.DefaultFeatureRecord
		var cols [11]sql.NullString
		if err := rows.Scan(&rec.ID, &rec.LayerID, &rec.Geometry,
			&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5],
			&cols[6], &cols[7], &cols[8], &cols[9], &cols[10]); err != nil {
			s.log.Warn().Err(err).Int64("layer_id", layerID).Msg("skipping unreadable default feature row")
			continue
		}
		rec.CC1 = cols[0].String
		rec.Country = cols[1].String
		rec.EngType1 = cols[2].String
		rec.GID0 = cols[3].String
		rec.GID1 = cols[4].String
		rec.HASC1 = cols[5].String
		rec.ISO1 = cols[6].String
		rec.Name1 = cols[7].String
		rec.NLName1 = cols[8].String
		rec.Type1 = cols[9].String
		rec.VarName1 = cols[10].String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UserLayer returns the stored configuration of one user layer.
func (s *Store) UserLayer(ctx context.Context, layerID int64) (scene.UserLayerMeta, error) {
	const q = `
		SELECT layer_id, layer_name, fill, stroke, stroke_width, z_index
		FROM layers
		WHERE layer_id = ?`

	var meta scene.UserLayerMeta
	var fill, stroke sql.NullString
	var width sql.NullFloat64
	var priority sql.NullInt64

	row := s.db.QueryRowContext(ctx, q, layerID)
	if err := row.Scan(&meta.ID, &meta.Name, &fill, &stroke, &width, &priority); err != nil {
		return scene.UserLayerMeta{}, fmt.Errorf("querying user layer %d: %w", layerID, err)
	}
	meta.Fill = fill.String
	meta.Stroke = stroke.String
	meta.StrokeWidth = width.Float64
	meta.Priority = int(priority.Int64)
	return meta, nil
}

// UserFeatures returns the feature records of one user layer.
func (s *Store) UserFeatures(ctx context.Context, layerID int64) ([]scene.UserFeatureRecord, error) {
	const q = `
		SELECT feature_id, feature_name, properties, layer_id, ST_AsGeoJSON(geom)
		FROM features
		WHERE layer_id = ?`

	rows, err := s.db.QueryContext(ctx, q, layerID)
	if err != nil {
		return nil, fmt.Errorf("querying features for layer %d: %w", layerID, err)
	}
	defer rows.Close()

	var records []scene.UserFeatureRecord
	for rows.Next() {
		var rec scene.UserFeatureRecord
		var name, props, rawGeom sql.NullString
		if err := rows.Scan(&rec.FeatureID, &name, &props, &rec.LayerID, &rawGeom); err != nil {
			s.log.Warn().Err(err).Int64("layer_id", layerID).Msg("skipping unreadable feature row")
			continue
		}
		rec.Name = name.String

		if props.Valid && props.String != "" {
			if err := json.Unmarshal([]byte(props.String), &rec.Properties); err != nil {
				s.log.Warn().Err(err).Int64("feature_id", rec.FeatureID).Msg("discarding malformed feature properties")
			}
		}
		if rawGeom.Valid && rawGeom.String != "" {
			var g geom.RawGeometry
			if err := json.Unmarshal([]byte(rawGeom.String), &g); err == nil {
				rec.Geom = &g
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Package geometry resolves coordinates to ward names using GeoJSON boundary
// polygons.
package geometry

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/sirupsen/logrus"
)

// wardFeature is one loaded boundary with its ward name.
type wardFeature struct {
	name     string
	geometry orb.Geometry
	bound    orb.Bound
}

// WardIndex answers point-in-ward lookups over a loaded boundary file.
type WardIndex struct {
	features []wardFeature
	logger   *logrus.Logger
}

// LoadWardIndex reads a GeoJSON FeatureCollection whose features carry a
// "ward" (or "name") property and Polygon/MultiPolygon geometry.
func LoadWardIndex(path string, logger *logrus.Logger) (*WardIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ward boundaries: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ward boundaries: %w", err)
	}

	idx := &WardIndex{logger: logger}
	for _, f := range fc.Features {
		name := featureName(f)
		if name == "" {
			logger.Warn("Skipping ward feature without a name property")
			continue
		}
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
			idx.features = append(idx.features, wardFeature{
				name:     name,
				geometry: f.Geometry,
				bound:    f.Geometry.Bound(),
			})
		default:
			logger.WithField("ward", name).Warn("Skipping ward feature with non-polygon geometry")
		}
	}

	if len(idx.features) == 0 {
		return nil, fmt.Errorf("no usable ward polygons in %s", path)
	}

	logger.WithField("wards", len(idx.features)).Info("Loaded ward boundary index")
	return idx, nil
}

func featureName(f *geojson.Feature) string {
	for _, key := range []string{"ward", "name"} {
		if v, ok := f.Properties[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Locate returns the ward containing the coordinate, or false when no
// polygon matches.
func (idx *WardIndex) Locate(lat, lng float64) (string, bool) {
	point := orb.Point{lng, lat}
	for _, f := range idx.features {
		if !f.bound.Contains(point) {
			continue
		}
		switch geom := f.geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(geom, point) {
				return f.name, true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(geom, point) {
				return f.name, true
			}
		}
	}
	return "", false
}

package geometry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const testBoundaries = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"ward": "Minato"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[139.70, 35.60], [139.80, 35.60], [139.80, 35.70], [139.70, 35.70], [139.70, 35.60]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "Shibuya"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[139.60, 35.60], [139.70, 35.60], [139.70, 35.70], [139.60, 35.70], [139.60, 35.60]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"ward": "Nowhere"},
      "geometry": {"type": "Point", "coordinates": [139.5, 35.5]}
    }
  ]
}`

func writeBoundaries(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wards.geojson")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadWardIndex(t *testing.T) {
	path := writeBoundaries(t, testBoundaries)

	idx, err := LoadWardIndex(path, logrus.New())

	assert.NoError(t, err)
	// The point feature is skipped
	assert.Len(t, idx.features, 2)
}

func TestLoadWardIndex_Errors(t *testing.T) {
	_, err := LoadWardIndex("/does/not/exist.geojson", logrus.New())
	assert.Error(t, err)

	badJSON := writeBoundaries(t, "not geojson")
	_, err = LoadWardIndex(badJSON, logrus.New())
	assert.Error(t, err)

	empty := writeBoundaries(t, `{"type": "FeatureCollection", "features": []}`)
	_, err = LoadWardIndex(empty, logrus.New())
	assert.Error(t, err)
}

func TestWardIndex_Locate(t *testing.T) {
	path := writeBoundaries(t, testBoundaries)
	idx, err := LoadWardIndex(path, logrus.New())
	assert.NoError(t, err)

	ward, ok := idx.Locate(35.65, 139.75)
	assert.True(t, ok)
	assert.Equal(t, "Minato", ward)

	ward, ok = idx.Locate(35.65, 139.65)
	assert.True(t, ok)
	assert.Equal(t, "Shibuya", ward)

	_, ok = idx.Locate(34.0, 135.0)
	assert.False(t, ok)
}

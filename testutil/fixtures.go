// Package testutil provides shared fixtures for tests.
// Fixtures are written to per-test temp directories so tests never depend on
// the working directory or on the shipped data file.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleGeoJSON is a small FeatureCollection with two points and one polygon.
// Property ids are 1, 2 and 3, in that order. The collection name and the
// second feature's top-level id and bbox are GeoJSON members outside
// type/geometry/properties.
const SampleGeoJSON = `{
  "type": "FeatureCollection",
  "name": "sample",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [0, 0]}, "properties": {"id": 1, "name": "origin"}},
    {"type": "Feature", "id": "east-1", "bbox": [10, 5, 10, 5], "geometry": {"type": "Point", "coordinates": [10, 5]}, "properties": {"id": 2, "name": "east", "tags": ["a", "b"]}},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0, 0], [1, 0], [1, 1], [0, 1], [0, 0]]]}, "properties": {"id": 3, "name": "square"}}
  ]
}`

// WriteFile writes content to a file named name inside a fresh temp directory
// and returns its path. The directory is removed when the test finishes.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("testutil.WriteFile: %v", err)
	}
	return path
}

// WriteSample writes SampleGeoJSON to a temp file and returns its path.
func WriteSample(t *testing.T) string {
	t.Helper()
	return WriteFile(t, "places.geojson", SampleGeoJSON)
}

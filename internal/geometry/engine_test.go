package geometry_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/featureserv/internal/domain"
	"github.com/pkordes/featureserv/internal/geometry"
)

const (
	originPoint = `{"type":"Point","coordinates":[0,0]}`
	unitSquare  = `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`
)

// decode parses engine output back into an orb geometry for assertions.
func decode(t *testing.T, raw json.RawMessage) orb.Geometry {
	t.Helper()
	g, err := geojson.UnmarshalGeometry(raw)
	require.NoError(t, err)
	return g.Geometry()
}

func buffer(t *testing.T, geom string, d float64, opts domain.BufferOptions) orb.Geometry {
	t.Helper()
	out, err := geometry.NewEngine().Buffer(json.RawMessage(geom), d, opts)
	require.NoError(t, err)
	return decode(t, out)
}

// TestBuffer_pointBecomesCircle verifies that buffering a point by 1 gives a
// polygon approximating the unit circle around the origin.
func TestBuffer_pointBecomesCircle(t *testing.T) {
	g := buffer(t, originPoint, 1, domain.BufferOptions{})

	poly, ok := g.(orb.Polygon)
	require.True(t, ok, "expected Polygon, got %T", g)

	b := poly.Bound()
	assert.InDelta(t, -1, b.Min[0], 1e-9)
	assert.InDelta(t, -1, b.Min[1], 1e-9)
	assert.InDelta(t, 1, b.Max[0], 1e-9)
	assert.InDelta(t, 1, b.Max[1], 1e-9)

	for _, p := range poly[0] {
		assert.InDelta(t, 1, math.Hypot(p[0], p[1]), 1e-9)
	}
	assert.InDelta(t, math.Pi, planar.Area(poly), 0.05)
}

// TestBuffer_negativeDistanceErodes verifies that a negative distance shrinks a polygon.
func TestBuffer_negativeDistanceErodes(t *testing.T) {
	g := buffer(t, unitSquare, -0.25, domain.BufferOptions{})

	assert.InDelta(t, 0.25, planar.Area(g), 1e-9)
}

// TestBuffer_notAdditive documents that buffering twice is not the same as
// buffering once by the summed distance: erosion then dilation rounds corners.
func TestBuffer_notAdditive(t *testing.T) {
	twice, err := geometry.NewEngine().Buffer(json.RawMessage(unitSquare), -0.4, domain.BufferOptions{})
	require.NoError(t, err)
	twiceGeom := buffer(t, string(twice), 0.4, domain.BufferOptions{})

	once := buffer(t, unitSquare, 0, domain.BufferOptions{})

	assert.InDelta(t, 1, planar.Area(once), 1e-9)
	assert.Less(t, planar.Area(twiceGeom), planar.Area(once)-0.01)
}

// TestBuffer_quadSegmentsControlsVertexCount verifies that options reach GEOS.
func TestBuffer_quadSegmentsControlsVertexCount(t *testing.T) {
	coarse := buffer(t, originPoint, 1, domain.BufferOptions{QuadSegments: 2}).(orb.Polygon)
	fine := buffer(t, originPoint, 1, domain.BufferOptions{QuadSegments: 16}).(orb.Polygon)

	assert.Less(t, len(coarse[0]), len(fine[0]))
}

// TestBuffer_squareCapOnLine verifies that a square cap extends past the line ends.
func TestBuffer_squareCapOnLine(t *testing.T) {
	line := `{"type":"LineString","coordinates":[[0,0],[2,0]]}`

	flat := buffer(t, line, 1, domain.BufferOptions{CapStyle: "flat"})
	square := buffer(t, line, 1, domain.BufferOptions{CapStyle: "square"})

	assert.InDelta(t, 4, planar.Area(flat), 1e-9)
	assert.InDelta(t, 8, planar.Area(square), 1e-9)
}

// TestBuffer_threeDimensionalPoint verifies that extra position values are
// accepted; only the first two are used.
func TestBuffer_threeDimensionalPoint(t *testing.T) {
	out, err := geometry.NewEngine().Buffer(json.RawMessage(`{"type":"Point","coordinates":[0,0,12]}`), 1, domain.BufferOptions{})

	require.NoError(t, err)
	assert.Contains(t, string(out), `"Polygon"`)
}

func TestBuffer_errorsWrapGeometryError(t *testing.T) {
	cases := []struct {
		name string
		geom string
		opts domain.BufferOptions
	}{
		{"null geometry", `null`, domain.BufferOptions{}},
		{"empty", ``, domain.BufferOptions{}},
		{"not json", `{"type":`, domain.BufferOptions{}},
		{"unknown type", `{"type":"Circle","coordinates":[0,0]}`, domain.BufferOptions{}},
		{"bad cap", originPoint, domain.BufferOptions{CapStyle: "pointy"}},
		{"bad join", originPoint, domain.BufferOptions{JoinStyle: "weld"}},
		{"negative segments", originPoint, domain.BufferOptions{QuadSegments: -1}},
		{"point without coordinates", `{"type":"Point","coordinates":[]}`, domain.BufferOptions{}},
		{"point with one coordinate", `{"type":"Point","coordinates":[1]}`, domain.BufferOptions{}},
		{"point missing coordinates", `{"type":"Point"}`, domain.BufferOptions{}},
		{"point non-numeric coordinate", `{"type":"Point","coordinates":[1,"2"]}`, domain.BufferOptions{}},
		{"short position in line", `{"type":"LineString","coordinates":[[0,0],[1]]}`, domain.BufferOptions{}},
		{"short position in polygon ring", `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1],[0,0]]]}`, domain.BufferOptions{}},
		{"short position in collection member", `{"type":"GeometryCollection","geometries":[{"type":"Point","coordinates":[0,0]},{"type":"Point","coordinates":[]}]}`, domain.BufferOptions{}},
		{"polygon coordinates not array", `{"type":"Polygon","coordinates":"nope"}`, domain.BufferOptions{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := geometry.NewEngine().Buffer(json.RawMessage(tc.geom), 1, tc.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrGeometry)
		})
	}
}

// Package geometry binds the GEOS computational-geometry library.
// GeoJSON geometry bytes are decoded with orb, handed to GEOS as WKB, buffered,
// and converted back the same way. No geometry algorithm lives here.
package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulsmith/gogeos/geos"
	"github.com/tidwall/gjson"

	"github.com/pkordes/featureserv/internal/domain"
)

// defaultMitreLimit matches the GEOS default so setting only a join style
// does not change mitre behaviour.
const defaultMitreLimit = 5.0

// Engine buffers GeoJSON geometries with GEOS.
// It holds no state and is safe for concurrent use.
type Engine struct{}

// NewEngine returns a GEOS-backed Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Buffer parses raw as a GeoJSON geometry, buffers it by distance and returns
// the result as GeoJSON. All failures wrap domain.ErrGeometry.
func (e *Engine) Buffer(raw json.RawMessage, distance float64, opts domain.BufferOptions) (json.RawMessage, error) {
	g, err := decode(raw)
	if err != nil {
		return nil, err
	}

	var buffered *geos.Geometry
	if opts.IsZero() {
		buffered, err = g.Buffer(distance)
	} else {
		var bo geos.BufferOpts
		bo, err = bufferOpts(opts)
		if err != nil {
			return nil, err
		}
		buffered, err = g.BufferWithOpts(distance, bo)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: buffer: %v", domain.ErrGeometry, err)
	}

	return encode(buffered)
}

// decode turns GeoJSON geometry bytes into a GEOS geometry.
func decode(raw json.RawMessage) (*geos.Geometry, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: geometry is required", domain.ErrGeometry)
	}

	if err := checkPositions(gjson.ParseBytes(trimmed)); err != nil {
		return nil, err
	}

	gj, err := geojson.UnmarshalGeometry(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: parse geometry: %v", domain.ErrGeometry, err)
	}
	og := gj.Geometry()
	if og == nil {
		return nil, fmt.Errorf("%w: unsupported geometry type %q", domain.ErrGeometry, gj.Type)
	}

	b, err := wkb.Marshal(og)
	if err != nil {
		return nil, fmt.Errorf("%w: encode wkb: %v", domain.ErrGeometry, err)
	}
	g, err := geos.FromWKB(b)
	if err != nil {
		return nil, fmt.Errorf("%w: read wkb: %v", domain.ErrGeometry, err)
	}
	return g, nil
}

// positionDepth is how many array levels sit above a position in each
// geometry type's coordinates member.
var positionDepth = map[string]int{
	"Point":           0,
	"MultiPoint":      1,
	"LineString":      1,
	"MultiLineString": 2,
	"Polygon":         2,
	"MultiPolygon":    3,
}

// checkPositions rejects positions with fewer than two numbers. orb reads
// positions into fixed [2]float64 arrays and fills missing values with zero.
func checkPositions(g gjson.Result) error {
	typ := g.Get("type").String()
	if typ == "GeometryCollection" {
		var err error
		g.Get("geometries").ForEach(func(_, child gjson.Result) bool {
			err = checkPositions(child)
			return err == nil
		})
		return err
	}

	depth, ok := positionDepth[typ]
	if !ok {
		// unknown types are reported by the decoder
		return nil
	}
	return checkNested(g.Get("coordinates"), depth)
}

func checkNested(v gjson.Result, depth int) error {
	if !v.IsArray() {
		return fmt.Errorf("%w: coordinates must be an array", domain.ErrGeometry)
	}
	items := v.Array()
	if depth > 0 {
		for _, item := range items {
			if err := checkNested(item, depth-1); err != nil {
				return err
			}
		}
		return nil
	}

	if len(items) < 2 {
		return fmt.Errorf("%w: position needs at least 2 numbers, got %d", domain.ErrGeometry, len(items))
	}
	for _, c := range items {
		if c.Type != gjson.Number {
			return fmt.Errorf("%w: position values must be numbers", domain.ErrGeometry)
		}
	}
	return nil
}

// encode turns a GEOS geometry back into GeoJSON geometry bytes.
func encode(g *geos.Geometry) (json.RawMessage, error) {
	b, err := g.WKB()
	if err != nil {
		return nil, fmt.Errorf("%w: write wkb: %v", domain.ErrGeometry, err)
	}
	og, err := wkb.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("%w: decode wkb: %v", domain.ErrGeometry, err)
	}
	return marshal(og)
}

func marshal(og orb.Geometry) (json.RawMessage, error) {
	out, err := json.Marshal(geojson.NewGeometry(og))
	if err != nil {
		return nil, fmt.Errorf("%w: marshal geometry: %v", domain.ErrGeometry, err)
	}
	return out, nil
}

func bufferOpts(o domain.BufferOptions) (geos.BufferOpts, error) {
	bo := geos.BufferOpts{
		QuadSegs:   8,
		CapStyle:   geos.CapRound,
		JoinStyle:  geos.JoinRound,
		MitreLimit: defaultMitreLimit,
	}

	switch {
	case o.QuadSegments < 0:
		return bo, fmt.Errorf("%w: quad_segments must not be negative", domain.ErrGeometry)
	case o.QuadSegments > 0:
		bo.QuadSegs = o.QuadSegments
	}

	switch strings.ToLower(o.CapStyle) {
	case "", "round":
	case "flat":
		bo.CapStyle = geos.CapFlat
	case "square":
		bo.CapStyle = geos.CapSquare
	default:
		return bo, fmt.Errorf("%w: unknown cap_style %q", domain.ErrGeometry, o.CapStyle)
	}

	switch strings.ToLower(o.JoinStyle) {
	case "", "round":
	case "mitre", "miter":
		bo.JoinStyle = geos.JoinMitre
	case "bevel":
		bo.JoinStyle = geos.JoinBevel
	default:
		return bo, fmt.Errorf("%w: unknown join_style %q", domain.ErrGeometry, o.JoinStyle)
	}

	return bo, nil
}

// Package domain contains the core data types for the feature service.
// This package has zero project dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

const (
	// TypeFeature is the GeoJSON type member of a Feature.
	TypeFeature = "Feature"
	// TypeFeatureCollection is the GeoJSON type member of a FeatureCollection.
	TypeFeatureCollection = "FeatureCollection"
)

// Properties is the free-form properties member of a Feature.
// Numbers are decoded as json.Number so integer ids round-trip verbatim.
type Properties map[string]any

// ID returns properties.id as an integer. The second result is false when the
// member is absent or not an integral number. Numbers compare by value, so
// 1, 1.0 and 1e0 are all id 1; strings never match.
func (p Properties) ID() (int64, bool) {
	v, ok := p["id"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return n, true
		}
		f, err := id.Float64()
		if err != nil {
			return 0, false
		}
		return integral(f)
	case float64:
		return integral(id)
	case int:
		return int64(id), true
	case int64:
		return id, true
	}
	return 0, false
}

func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// Feature is a single GeoJSON Feature.
// Geometry is kept as raw interchange bytes; only the geometry engine looks inside.
// A decoded Feature remembers its source text and encodes back to it, so
// members such as a top-level id or bbox survive.
type Feature struct {
	Type       string
	Geometry   json.RawMessage
	Properties Properties

	raw json.RawMessage
}

type featureJSON struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties Properties      `json:"properties"`
}

// UnmarshalJSON decodes data with json.Number for property values.
func (f *Feature) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	var v featureJSON
	if err := decodeNumbers(data, &v); err != nil {
		return err
	}
	*f = Feature{
		Type:       v.Type,
		Geometry:   v.Geometry,
		Properties: v.Properties,
		raw:        slices.Clone(data),
	}
	return nil
}

// MarshalJSON writes the source text of a decoded Feature, or the three
// GeoJSON members of one built in code.
func (f Feature) MarshalJSON() ([]byte, error) {
	if len(f.raw) > 0 {
		return f.raw, nil
	}
	return json.Marshal(featureJSON{Type: f.Type, Geometry: f.Geometry, Properties: f.Properties})
}

// FeatureCollection is an ordered set of Features.
// Foreign members of a decoded collection (name, bbox, crs, ...) are kept and
// encoded again alongside type and features.
type FeatureCollection struct {
	Type     string
	Features []Feature

	members map[string]json.RawMessage
}

type featureCollectionJSON struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// UnmarshalJSON decodes a FeatureCollection and keeps its other members.
func (fc *FeatureCollection) UnmarshalJSON(data []byte) error {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	var out FeatureCollection
	if raw, ok := all["type"]; ok {
		if err := json.Unmarshal(raw, &out.Type); err != nil {
			return fmt.Errorf("type: %w", err)
		}
		delete(all, "type")
	}
	if raw, ok := all["features"]; ok {
		if err := json.Unmarshal(raw, &out.Features); err != nil {
			return fmt.Errorf("features: %w", err)
		}
		delete(all, "features")
	}
	if len(all) > 0 {
		out.members = all
	}
	*fc = out
	return nil
}

// MarshalJSON encodes type, features and any kept foreign members.
func (fc FeatureCollection) MarshalJSON() ([]byte, error) {
	if len(fc.members) == 0 {
		return json.Marshal(featureCollectionJSON{Type: fc.Type, Features: fc.Features})
	}
	doc := make(map[string]any, len(fc.members)+2)
	for k, v := range fc.members {
		doc[k] = v
	}
	doc["type"] = fc.Type
	doc["features"] = fc.Features
	return json.Marshal(doc)
}

// Clone returns a copy with its own feature slice. A nil slice becomes empty.
func (fc FeatureCollection) Clone() FeatureCollection {
	out := fc
	out.Features = slices.Clone(fc.Features)
	if out.Features == nil {
		out.Features = []Feature{}
	}
	return out
}

// NewFeatureCollection returns a FeatureCollection with the type member set.
// A nil slice is normalised to an empty one so it encodes as [] rather than null.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: TypeFeatureCollection, Features: features}
}

// BufferRequest is the decoded body of POST /process/buffer.
type BufferRequest struct {
	Features       FeatureCollection `json:"features"`
	BufferDistance float64           `json:"buffer_distance"`
	Options        BufferOptions     `json:"options"`
}

// BufferOptions tunes the engine's buffer operation.
// The zero value means engine defaults: 8 segments per quadrant, round cap, round join.
type BufferOptions struct {
	QuadSegments int    `json:"quad_segments,omitempty"`
	CapStyle     string `json:"cap_style,omitempty"`  // round, flat, square
	JoinStyle    string `json:"join_style,omitempty"` // round, mitre, bevel
}

// IsZero reports whether no option was set.
func (o BufferOptions) IsZero() bool {
	return o == BufferOptions{}
}

// decodeNumbers decodes data into v keeping numbers as json.Number.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

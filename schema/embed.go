// Package schema embeds the JSON Schema used to validate the feature data
// file before the store accepts it.
package schema

import _ "embed"

// FeatureCollection is a JSON Schema (draft 2020-12) for a GeoJSON
// FeatureCollection, embedded at compile time.
//
//go:embed featurecollection.json
var FeatureCollection []byte

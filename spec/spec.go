// Package spec embeds the OpenAPI specification for the feature service.
// It is imported by the HTTP server to serve the document at /openapi.yaml.
package spec

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Load parses the embedded document and validates it against the OpenAPI 3 rules.
// The server calls it at startup so a broken document fails fast.
func Load(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(OpenAPI)
	if err != nil {
		return nil, fmt.Errorf("spec.Load: parse: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("spec.Load: validate: %w", err)
	}
	return doc, nil
}

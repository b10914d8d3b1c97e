// Package repo contains the feature store for the service.
// The store is a single GeoJSON FeatureCollection read from disk once at
// startup and never written afterwards.
// No business logic lives here: it loads, validates and looks up.
package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pkordes/featureserv/internal/domain"
	"github.com/pkordes/featureserv/schema"
)

// FeatureRepo defines the read operations over the loaded FeatureCollection.
// The service layer depends on this interface, not the concrete file-backed
// implementation, which allows the service to be unit-tested with a mock.
type FeatureRepo interface {
	// List returns the full collection in source order, with every member
	// of the source document intact.
	List(ctx context.Context) (domain.FeatureCollection, error)

	// GetByID returns the first feature whose properties.id equals id.
	// Returns domain.ErrNotFound if no feature matches.
	GetByID(ctx context.Context, id int64) (domain.Feature, error)
}

// fileFeatureRepo is the in-memory implementation of FeatureRepo.
// fc is never mutated after construction, so no locking is needed.
type fileFeatureRepo struct {
	fc domain.FeatureCollection
}

// NewFeatureRepo constructs a FeatureRepo over an already-decoded collection.
func NewFeatureRepo(fc domain.FeatureCollection) FeatureRepo {
	return &fileFeatureRepo{fc: fc.Clone()}
}

// Load reads the GeoJSON file at path, validates it against the embedded
// FeatureCollection schema and returns a store over it.
// Any failure wraps domain.ErrLoad; callers should treat it as fatal.
func Load(path string) (FeatureRepo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrLoad, path, err)
	}

	fc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLoad, path, err)
	}

	return NewFeatureRepo(fc), nil
}

// Decode validates data against the FeatureCollection schema and decodes it.
func Decode(data []byte) (domain.FeatureCollection, error) {
	var doc any
	if err := unmarshal(data, &doc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("parse json: %w", err)
	}

	sch, err := compileSchema()
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("invalid feature collection: %w", err)
	}

	var fc domain.FeatureCollection
	if err := unmarshal(data, &fc); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("decode feature collection: %w", err)
	}
	return fc, nil
}

func (r *fileFeatureRepo) List(_ context.Context) (domain.FeatureCollection, error) {
	return r.fc.Clone(), nil
}

func (r *fileFeatureRepo) GetByID(_ context.Context, id int64) (domain.Feature, error) {
	for _, f := range r.fc.Features {
		if got, ok := f.Properties.ID(); ok && got == id {
			return f, nil
		}
	}
	return domain.Feature{}, domain.ErrNotFound
}

// unmarshal decodes with json.Number so property values keep their exact text.
func unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("featurecollection.json", bytes.NewReader(schema.FeatureCollection)); err != nil {
		return nil, err
	}
	return compiler.Compile("featurecollection.json")
}

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pkordes/featureserv/internal/domain"
)

// DefaultBufferWorkers is the fan-out used when NewBufferService gets a
// non-positive worker count.
const DefaultBufferWorkers = 4

// GeometryBufferer is the geometry-engine capability the buffer transformation needs.
// geometry.Engine satisfies it; tests inject a stub.
type GeometryBufferer interface {
	Buffer(geometry json.RawMessage, distance float64, opts domain.BufferOptions) (json.RawMessage, error)
}

// BufferService replaces every feature geometry with its buffered geometry.
type BufferService struct {
	engine  GeometryBufferer
	workers int
}

// NewBufferService constructs a BufferService that runs at most workers
// engine calls at once.
func NewBufferService(engine GeometryBufferer, workers int) *BufferService {
	if workers <= 0 {
		workers = DefaultBufferWorkers
	}
	return &BufferService{engine: engine, workers: workers}
}

// Buffer returns a new collection with one feature per input feature, in input
// order. Each output feature carries the buffered geometry and the input's
// properties map untouched.
//
// If any geometry fails, no collection is returned: the error wraps
// domain.ErrGeometry and names the failing feature index.
func (s *BufferService) Buffer(ctx context.Context, fc domain.FeatureCollection, distance float64, opts domain.BufferOptions) (domain.FeatureCollection, error) {
	out := make([]domain.Feature, len(fc.Features))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, f := range fc.Features {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			geom, err := s.engine.Buffer(f.Geometry, distance, opts)
			if err != nil {
				return fmt.Errorf("feature %d: %w", i, err)
			}
			out[i] = domain.Feature{
				Type:       domain.TypeFeature,
				Geometry:   geom,
				Properties: f.Properties,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("service.BufferService.Buffer: %w", err)
	}
	return domain.NewFeatureCollection(out), nil
}

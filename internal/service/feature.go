// Package service contains the business logic for the feature service.
// Services orchestrate repo and geometry-engine calls.
// No HTTP or file handling lives here. Services depend on interfaces.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/featureserv/internal/domain"
	"github.com/pkordes/featureserv/internal/repo"
)

// FeatureService implements read operations over the feature store.
type FeatureService struct {
	repo repo.FeatureRepo
}

// NewFeatureService constructs a FeatureService backed by the provided FeatureRepo.
func NewFeatureService(r repo.FeatureRepo) *FeatureService {
	return &FeatureService{repo: r}
}

// List returns every feature in the store, in source order.
func (s *FeatureService) List(ctx context.Context) (domain.FeatureCollection, error) {
	fc, err := s.repo.List(ctx)
	if err != nil {
		return domain.FeatureCollection{}, fmt.Errorf("service.FeatureService.List: %w", err)
	}
	return fc, nil
}

// GetByID returns the feature whose properties.id equals id.
// Returns an error wrapping domain.ErrNotFound when absent.
func (s *FeatureService) GetByID(ctx context.Context, id int64) (domain.Feature, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Feature{}, fmt.Errorf("service.FeatureService.GetByID: %w", err)
	}
	return f, nil
}

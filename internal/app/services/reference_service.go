package services

import (
	"context"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/repositories"
)

// ReferenceService serves the state and district lists used by the intake form
type ReferenceService interface {
	ListStates(ctx context.Context) ([]*models.State, error)
	// ListDistricts returns ErrStateNotFound for an unknown state
	ListDistricts(ctx context.Context, stateID string) ([]*models.District, error)
}

type referenceServiceImpl struct {
	reference repositories.ReferenceStore
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(reference repositories.ReferenceStore) ReferenceService {
	return &referenceServiceImpl{reference: reference}
}

func (s *referenceServiceImpl) ListStates(ctx context.Context) ([]*models.State, error) {
	return s.reference.ListStates(ctx)
}

func (s *referenceServiceImpl) ListDistricts(ctx context.Context, stateID string) ([]*models.District, error) {
	if _, err := s.reference.GetState(ctx, stateID); err != nil {
		return nil, err
	}
	return s.reference.ListDistricts(ctx, stateID)
}

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// SEOService stores per-page meta tags
type SEOService interface {
	// Get falls back to the site defaults for pages without an entry
	Get(ctx context.Context, page string) (*models.PageSEO, error)
	List(ctx context.Context) ([]*models.PageSEO, error)
	Upsert(ctx context.Context, page string, req *dto.SEORequest) (*models.PageSEO, error)
}

type seoServiceImpl struct {
	seo repositories.SEOStore
	now func() time.Time
}

// NewSEOService creates a new SEOService
func NewSEOService(seo repositories.SEOStore) SEOService {
	return &seoServiceImpl{seo: seo, now: time.Now}
}

func normalizePage(page string) (string, error) {
	page = strings.ToLower(strings.TrimSpace(page))
	if page == "" {
		return "", apperrors.NewValidationError("page name is required")
	}
	return page, nil
}

func (s *seoServiceImpl) Get(ctx context.Context, page string) (*models.PageSEO, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}
	entry, err := s.seo.Get(ctx, page)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return models.DefaultPageSEO(page), nil
	}
	return entry, err
}

func (s *seoServiceImpl) List(ctx context.Context) ([]*models.PageSEO, error) {
	return s.seo.List(ctx)
}

func (s *seoServiceImpl) Upsert(ctx context.Context, page string, req *dto.SEORequest) (*models.PageSEO, error) {
	page, err := normalizePage(page)
	if err != nil {
		return nil, err
	}
	entry := req.ToModel(page)
	entry.UpdatedAt = s.now().UTC()
	if err := s.seo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

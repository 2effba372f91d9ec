package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/helpers"
)

// SocietyService manages the committee roster and publications
type SocietyService interface {
	ListCommittee(ctx context.Context, filter models.CommitteeFilter) ([]*models.CommitteeMember, error)
	GetCommitteeMember(ctx context.Context, id string) (*models.CommitteeMember, error)
	GetCommitteeMemberBySlug(ctx context.Context, slug string) (*models.CommitteeMember, error)
	// CreateCommitteeMember derives the slug from the name when none is given
	CreateCommitteeMember(ctx context.Context, req *dto.CommitteeRequest) (*models.CommitteeMember, error)
	UpdateCommitteeMember(ctx context.Context, id string, req *dto.CommitteeRequest) (*models.CommitteeMember, error)
	DeleteCommitteeMember(ctx context.Context, id string) error

	ListPublications(ctx context.Context, filter models.PublicationFilter) ([]*models.Publication, error)
	GetPublication(ctx context.Context, id string) (*models.Publication, error)
	CreatePublication(ctx context.Context, req *dto.PublicationRequest) (*models.Publication, error)
	UpdatePublication(ctx context.Context, id string, req *dto.PublicationRequest) (*models.Publication, error)
	DeletePublication(ctx context.Context, id string) error
}

type societyServiceImpl struct {
	committee    repositories.CommitteeStore
	publications repositories.PublicationStore
	logger       zerolog.Logger
	now          func() time.Time
}

// NewSocietyService creates a new SocietyService
func NewSocietyService(committee repositories.CommitteeStore, publications repositories.PublicationStore, logger zerolog.Logger) SocietyService {
	return &societyServiceImpl{
		committee:    committee,
		publications: publications,
		logger:       logger.With().Str("component", "society").Logger(),
		now:          time.Now,
	}
}

func (s *societyServiceImpl) ListCommittee(ctx context.Context, filter models.CommitteeFilter) ([]*models.CommitteeMember, error) {
	return s.committee.List(ctx, filter)
}

func (s *societyServiceImpl) GetCommitteeMember(ctx context.Context, id string) (*models.CommitteeMember, error) {
	return s.committee.GetByID(ctx, id)
}

func (s *societyServiceImpl) GetCommitteeMemberBySlug(ctx context.Context, slug string) (*models.CommitteeMember, error) {
	return s.committee.GetBySlug(ctx, helpers.Slugify(slug))
}

func committeeSlug(req *dto.CommitteeRequest) (slug string, derived bool, err error) {
	if req.Slug != "" {
		slug = helpers.Slugify(req.Slug)
	} else {
		slug, derived = helpers.Slugify(req.FullName), true
	}
	if slug == "" {
		return "", false, apperrors.NewFieldValidationError(apperrors.ErrValidationFailed, "slug",
			"slug must contain at least one letter or digit")
	}
	return slug, derived, nil
}

func (s *societyServiceImpl) CreateCommitteeMember(ctx context.Context, req *dto.CommitteeRequest) (*models.CommitteeMember, error) {
	slug, derived, err := committeeSlug(req)
	if err != nil {
		return nil, err
	}

	m := req.ToModel()
	m.ID = uuid.NewString()
	m.Slug = slug
	m.CreatedAt = s.now().UTC()

	err = s.committee.Create(ctx, m)
	// Two office bearers with the same name in different years
	if derived && errors.Is(err, apperrors.ErrCommitteeSlugTaken) {
		m.Slug = slug + "-" + strconv.Itoa(m.Year)
		err = s.committee.Create(ctx, m)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("committeeID", m.ID).Str("slug", m.Slug).Msg("Committee member created")
	return m, nil
}

func (s *societyServiceImpl) UpdateCommitteeMember(ctx context.Context, id string, req *dto.CommitteeRequest) (*models.CommitteeMember, error) {
	existing, err := s.committee.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := req.ToModel()
	m.ID = id
	m.CreatedAt = existing.CreatedAt
	m.Slug = existing.Slug
	if req.Slug != "" {
		if m.Slug, _, err = committeeSlug(req); err != nil {
			return nil, err
		}
	}
	if err := s.committee.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *societyServiceImpl) DeleteCommitteeMember(ctx context.Context, id string) error {
	return s.committee.Delete(ctx, id)
}

func (s *societyServiceImpl) ListPublications(ctx context.Context, filter models.PublicationFilter) ([]*models.Publication, error) {
	return s.publications.List(ctx, filter)
}

func (s *societyServiceImpl) GetPublication(ctx context.Context, id string) (*models.Publication, error) {
	return s.publications.GetByID(ctx, id)
}

func (s *societyServiceImpl) CreatePublication(ctx context.Context, req *dto.PublicationRequest) (*models.Publication, error) {
	now := s.now().UTC()
	p := req.ToModel()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	if p.PublishedDate.IsZero() {
		p.PublishedDate = now
	}
	if err := s.publications.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info().Str("publicationID", p.ID).Str("type", p.PublicationType).Msg("Publication created")
	return p, nil
}

func (s *societyServiceImpl) UpdatePublication(ctx context.Context, id string, req *dto.PublicationRequest) (*models.Publication, error) {
	existing, err := s.publications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := req.ToModel()
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	if p.PublishedDate.IsZero() {
		p.PublishedDate = existing.PublishedDate
	}
	if err := s.publications.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *societyServiceImpl) DeletePublication(ctx context.Context, id string) error {
	return s.publications.Delete(ctx, id)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/helpers"
)

// MemberService manages the member directory
type MemberService interface {
	// ListPublic returns active members only, ordered by membership number
	ListPublic(ctx context.Context, q dto.MemberListQuery, page, size int) (*dto.PaginatedResponse, error)
	// ListAll returns every member ordered by name
	ListAll(ctx context.Context, q dto.MemberListQuery, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, id string) (*models.Member, error)
	Create(ctx context.Context, req *dto.MemberRequest) (*models.Member, error)
	Update(ctx context.Context, id string, req *dto.MemberRequest) (*models.Member, error)
	Delete(ctx context.Context, id string) error
}

type memberServiceImpl struct {
	members repositories.MemberStore
	logger  zerolog.Logger
	now     func() time.Time
}

// NewMemberService creates a new MemberService
func NewMemberService(members repositories.MemberStore, logger zerolog.Logger) MemberService {
	return &memberServiceImpl{
		members: members,
		logger:  logger.With().Str("component", "members").Logger(),
		now:     time.Now,
	}
}

func (s *memberServiceImpl) list(ctx context.Context, filter models.MemberFilter, page, size int) ([]*models.Member, dto.PaginationInfo, error) {
	page, size = helpers.NormalizePage(page, size)
	filter.Offset, filter.Limit = helpers.CalculateOffsetLimit(page, size)

	members, total, err := s.members.List(ctx, filter)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("error listing members: %w", err)
	}
	return members, helpers.NewPaginationInfo(total, page, size), nil
}

// ListPublic implements MemberService
func (s *memberServiceImpl) ListPublic(ctx context.Context, q dto.MemberListQuery, page, size int) (*dto.PaginatedResponse, error) {
	active := models.MemberActive
	members, info, err := s.list(ctx, models.MemberFilter{
		Status: &active,
		State:  q.State,
		City:   q.City,
		Search: q.Search,
	}, page, size)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{Items: dto.NewPublicMembers(members), Pagination: info}, nil
}

// ListAll implements MemberService
func (s *memberServiceImpl) ListAll(ctx context.Context, q dto.MemberListQuery, page, size int) (*dto.PaginatedResponse, error) {
	members, info, err := s.list(ctx, models.MemberFilter{
		State:      q.State,
		City:       q.City,
		Search:     q.Search,
		SortByName: true,
	}, page, size)
	if err != nil {
		return nil, err
	}
	return &dto.PaginatedResponse{Items: members, Pagination: info}, nil
}

// Get implements MemberService
func (s *memberServiceImpl) Get(ctx context.Context, id string) (*models.Member, error) {
	return s.members.GetByID(ctx, id)
}

// Create implements MemberService
func (s *memberServiceImpl) Create(ctx context.Context, req *dto.MemberRequest) (*models.Member, error) {
	now := s.now().UTC()
	m := req.ToModel()
	m.ID = uuid.NewString()
	m.MembershipNumber = helpers.NilIfEmpty(helpers.Deref(m.MembershipNumber))
	if m.JoinedDate.IsZero() {
		m.JoinedDate = now
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.members.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("memberID", m.ID).Msg("Member created")
	return m, nil
}

// Update implements MemberService
func (s *memberServiceImpl) Update(ctx context.Context, id string, req *dto.MemberRequest) (*models.Member, error) {
	existing, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m := req.ToModel()
	m.ID = id
	m.MembershipNumber = helpers.NilIfEmpty(helpers.Deref(m.MembershipNumber))
	if m.JoinedDate.IsZero() {
		m.JoinedDate = existing.JoinedDate
	}
	m.CertificatePath = existing.CertificatePath
	m.ApplicationID = existing.ApplicationID
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now().UTC()

	if err := s.members.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete implements MemberService
func (s *memberServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("memberID", id).Msg("Member deleted")
	return nil
}

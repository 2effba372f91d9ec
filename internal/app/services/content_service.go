package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// ContentService is the pass-through CRUD for news and events
type ContentService interface {
	ListNews(ctx context.Context, filter models.NewsFilter) ([]*models.News, error)
	// GetNews hides drafts unless includeDrafts is set
	GetNews(ctx context.Context, id string, includeDrafts bool) (*models.News, error)
	CreateNews(ctx context.Context, req *dto.NewsRequest) (*models.News, error)
	UpdateNews(ctx context.Context, id string, req *dto.NewsRequest) (*models.News, error)
	DeleteNews(ctx context.Context, id string) error

	ListEvents(ctx context.Context, q dto.EventQuery, limit int) ([]*models.Event, error)
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	CreateEvent(ctx context.Context, req *dto.EventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, req *dto.EventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

type contentServiceImpl struct {
	news   repositories.NewsStore
	events repositories.EventStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewContentService creates a new ContentService
func NewContentService(news repositories.NewsStore, events repositories.EventStore, logger zerolog.Logger) ContentService {
	return &contentServiceImpl{
		news:   news,
		events: events,
		logger: logger.With().Str("component", "content").Logger(),
		now:    time.Now,
	}
}

func (s *contentServiceImpl) ListNews(ctx context.Context, filter models.NewsFilter) ([]*models.News, error) {
	return s.news.List(ctx, filter)
}

func (s *contentServiceImpl) GetNews(ctx context.Context, id string, includeDrafts bool) (*models.News, error) {
	n, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.IsPublished && !includeDrafts {
		return nil, apperrors.ErrNewsNotFound
	}
	return n, nil
}

func (s *contentServiceImpl) CreateNews(ctx context.Context, req *dto.NewsRequest) (*models.News, error) {
	now := s.now().UTC()
	n := req.ToModel()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	if n.PublishedDate.IsZero() {
		n.PublishedDate = now
	}
	if err := s.news.Create(ctx, n); err != nil {
		return nil, err
	}
	s.logger.Info().Str("newsID", n.ID).Bool("published", n.IsPublished).Msg("News created")
	return n, nil
}

func (s *contentServiceImpl) UpdateNews(ctx context.Context, id string, req *dto.NewsRequest) (*models.News, error) {
	existing, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	n := req.ToModel()
	n.ID = id
	n.CreatedAt = existing.CreatedAt
	if n.PublishedDate.IsZero() {
		n.PublishedDate = existing.PublishedDate
	}
	if err := s.news.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *contentServiceImpl) DeleteNews(ctx context.Context, id string) error {
	return s.news.Delete(ctx, id)
}

func (s *contentServiceImpl) ListEvents(ctx context.Context, q dto.EventQuery, limit int) ([]*models.Event, error) {
	filter := models.EventFilter{EventType: q.EventType}
	if q.Status != "" {
		st := models.EventStatus(q.Status)
		if !st.Valid() {
			return nil, apperrors.NewValidationError("status must be one of: upcoming, ongoing, completed")
		}
		filter.Status = &st
	}
	if limit > 0 {
		filter.Limit = uint64(limit)
	}
	return s.events.List(ctx, filter)
}

func (s *contentServiceImpl) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *contentServiceImpl) CreateEvent(ctx context.Context, req *dto.EventRequest) (*models.Event, error) {
	e := req.ToModel()
	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info().Str("eventID", e.ID).Msg("Event created")
	return e, nil
}

func (s *contentServiceImpl) UpdateEvent(ctx context.Context, id string, req *dto.EventRequest) (*models.Event, error) {
	existing, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e := req.ToModel()
	e.ID = id
	e.CreatedAt = existing.CreatedAt
	if err := s.events.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *contentServiceImpl) DeleteEvent(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

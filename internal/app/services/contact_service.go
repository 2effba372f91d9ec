package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/email"
	"github.com/sesi/membership/internal/pkg/notify"
)

// ContactService stores contact form submissions and alerts the office
type ContactService interface {
	// Submit stores the message; the admin alert is best effort
	Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactMessage, error)
	List(ctx context.Context, filter models.ContactFilter) ([]*models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error
}

type contactServiceImpl struct {
	contacts  repositories.ContactStore
	notifier  notify.Notifier
	templates email.Templates
	logger    zerolog.Logger
	now       func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(contacts repositories.ContactStore, notifier notify.Notifier, templates email.Templates, logger zerolog.Logger) ContactService {
	return &contactServiceImpl{
		contacts:  contacts,
		notifier:  notifier,
		templates: templates,
		logger:    logger.With().Str("component", "contact").Logger(),
		now:       time.Now,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) (*models.ContactMessage, error) {
	m := &models.ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.Join(strings.Fields(req.Subject), " "),
		Message:   strings.TrimSpace(req.Message),
		Status:    models.ContactNew,
		CreatedAt: s.now().UTC(),
	}
	if err := s.contacts.Create(ctx, m); err != nil {
		return nil, err
	}
	s.logger.Info().Str("contactID", m.ID).Str("subject", m.Subject).Msg("Contact form submitted")

	msg, err := s.templates.ContactAlert(email.ContactSummary{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Subject:     m.Subject,
		Message:     m.Message,
		SubmittedAt: m.CreatedAt,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("contactID", m.ID).Msg("Failed to build contact alert")
		return m, nil
	}
	s.notifier.Notify(ctx, msg)
	return m, nil
}

func (s *contactServiceImpl) List(ctx context.Context, filter models.ContactFilter) ([]*models.ContactMessage, error) {
	return s.contacts.List(ctx, filter)
}

func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	return s.contacts.UpdateStatus(ctx, id, status)
}

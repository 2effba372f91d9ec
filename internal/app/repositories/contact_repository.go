package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

var contactColumns = []string{"id", "name", "email", "phone", "subject", "message", "status", "created_at"}

// ContactRepository handles contact form submissions
type ContactRepository struct {
	db *pgxpool.Pool
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a contact message
func (r *ContactRepository) Create(ctx context.Context, m *models.ContactMessage) error {
	sql, args, err := psql().Insert("contact_messages").Columns(contactColumns...).
		Values(m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Status, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert contact query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting contact message: %w", err)
	}
	return nil
}

// List returns messages newest first
func (r *ContactRepository) List(ctx context.Context, f models.ContactFilter) ([]*models.ContactMessage, error) {
	q := psql().Select(contactColumns...).From("contact_messages").OrderBy("created_at DESC")
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list contact query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing contact messages: %w", err)
	}
	defer rows.Close()

	items := make([]*models.ContactMessage, 0)
	for rows.Next() {
		var m models.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &m)
	}
	return items, rows.Err()
}

// UpdateStatus marks a message as read or replied
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	tag, err := r.db.Exec(ctx, `UPDATE contact_messages SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContactNotFound
	}
	return nil
}

// Count counts messages, optionally by status
func (r *ContactRepository) Count(ctx context.Context, status *models.ContactStatus) (int64, error) {
	q := psql().Select("COUNT(*)").From("contact_messages")
	if status != nil {
		q = q.Where(squirrel.Eq{"status": *status})
	}
	return countQuery(ctx, r.db, q)
}

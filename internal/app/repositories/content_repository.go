package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

var newsColumns = []string{"id", "title", "content", "excerpt", "category", "image", "author", "is_published", "published_date", "created_at"}

// NewsRepository handles news items
type NewsRepository struct {
	db *pgxpool.Pool
}

// NewNewsRepository creates a new news repository
func NewNewsRepository(db *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{db: db}
}

func scanNews(row pgx.Row) (*models.News, error) {
	var n models.News
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Excerpt, &n.Category, &n.Image, &n.Author,
		&n.IsPublished, &n.PublishedDate, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a news item
func (r *NewsRepository) Create(ctx context.Context, n *models.News) error {
	sql, args, err := psql().Insert("news").Columns(newsColumns...).
		Values(n.ID, n.Title, n.Content, n.Excerpt, n.Category, n.Image, n.Author, n.IsPublished, n.PublishedDate, n.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert news query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting news: %w", err)
	}
	return nil
}

// GetByID retrieves a news item
func (r *NewsRepository) GetByID(ctx context.Context, id string) (*models.News, error) {
	sql, args, err := psql().Select(newsColumns...).From("news").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get news query: %w", err)
	}
	n, err := scanNews(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNewsNotFound
		}
		return nil, fmt.Errorf("error retrieving news: %w", err)
	}
	return n, nil
}

// List returns news newest first
func (r *NewsRepository) List(ctx context.Context, f models.NewsFilter) ([]*models.News, error) {
	q := psql().Select(newsColumns...).From("news").OrderBy("published_date DESC", "created_at DESC")
	if f.PublishedOnly {
		q = q.Where(squirrel.Eq{"is_published": true})
	}
	if f.Category != "" {
		q = q.Where(squirrel.Eq{"category": f.Category})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list news query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing news: %w", err)
	}
	defer rows.Close()

	items := make([]*models.News, 0)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// Update replaces a news item
func (r *NewsRepository) Update(ctx context.Context, n *models.News) error {
	sql, args, err := psql().Update("news").
		SetMap(map[string]interface{}{
			"title":          n.Title,
			"content":        n.Content,
			"excerpt":        n.Excerpt,
			"category":       n.Category,
			"image":          n.Image,
			"author":         n.Author,
			"is_published":   n.IsPublished,
			"published_date": n.PublishedDate,
		}).
		Where(squirrel.Eq{"id": n.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update news query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNewsNotFound
	}
	return nil
}

// Delete removes a news item
func (r *NewsRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting news: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNewsNotFound
	}
	return nil
}

// Count counts all news items
func (r *NewsRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, psql().Select("COUNT(*)").From("news"))
}

var eventColumns = []string{"id", "title", "description", "event_type", "start_date", "end_date", "venue", "city",
	"registration_link", "banner_image", "status", "created_at"}

// EventRepository handles events
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var e models.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.StartDate, &e.EndDate, &e.Venue, &e.City,
		&e.RegistrationLink, &e.BannerImage, &e.Status, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts an event
func (r *EventRepository) Create(ctx context.Context, e *models.Event) error {
	sql, args, err := psql().Insert("events").Columns(eventColumns...).
		Values(e.ID, e.Title, e.Description, e.EventType, e.StartDate, e.EndDate, e.Venue, e.City,
			e.RegistrationLink, e.BannerImage, e.Status, e.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert event query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting event: %w", err)
	}
	return nil
}

// GetByID retrieves an event
func (r *EventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	sql, args, err := psql().Select(eventColumns...).From("events").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get event query: %w", err)
	}
	e, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error retrieving event: %w", err)
	}
	return e, nil
}

// List returns events ordered by start_date desc
func (r *EventRepository) List(ctx context.Context, f models.EventFilter) ([]*models.Event, error) {
	q := psql().Select(eventColumns...).From("events").OrderBy("start_date DESC")
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.EventType != "" {
		q = q.Where(squirrel.Eq{"event_type": f.EventType})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list events query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Update replaces an event
func (r *EventRepository) Update(ctx context.Context, e *models.Event) error {
	sql, args, err := psql().Update("events").
		SetMap(map[string]interface{}{
			"title":             e.Title,
			"description":       e.Description,
			"event_type":        e.EventType,
			"start_date":        e.StartDate,
			"end_date":          e.EndDate,
			"venue":             e.Venue,
			"city":              e.City,
			"registration_link": e.RegistrationLink,
			"banner_image":      e.BannerImage,
			"status":            e.Status,
		}).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update event query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// Count counts events, optionally by status
func (r *EventRepository) Count(ctx context.Context, status *models.EventStatus) (int64, error) {
	q := psql().Select("COUNT(*)").From("events")
	if status != nil {
		q = q.Where(squirrel.Eq{"status": *status})
	}
	return countQuery(ctx, r.db, q)
}

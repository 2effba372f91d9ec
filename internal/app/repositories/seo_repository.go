package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

const seoSelect = `SELECT page_name, title, description, keywords, og_title, og_description, og_image, updated_at FROM page_seo`

// SEORepository handles page meta tags
type SEORepository struct {
	db *pgxpool.Pool
}

// NewSEORepository creates a new SEO repository
func NewSEORepository(db *pgxpool.Pool) *SEORepository {
	return &SEORepository{db: db}
}

func scanSEO(row pgx.Row) (*models.PageSEO, error) {
	var s models.PageSEO
	if err := row.Scan(&s.PageName, &s.Title, &s.Description, &s.Keywords,
		&s.OGTitle, &s.OGDescription, &s.OGImage, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Get returns the entry for page
func (r *SEORepository) Get(ctx context.Context, page string) (*models.PageSEO, error) {
	s, err := scanSEO(r.db.QueryRow(ctx, seoSelect+` WHERE page_name = $1`, page))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSEONotFound
		}
		return nil, fmt.Errorf("error retrieving seo entry: %w", err)
	}
	return s, nil
}

// List returns every stored entry
func (r *SEORepository) List(ctx context.Context) ([]*models.PageSEO, error) {
	rows, err := r.db.Query(ctx, seoSelect+` ORDER BY page_name`)
	if err != nil {
		return nil, fmt.Errorf("error listing seo entries: %w", err)
	}
	defer rows.Close()

	items := make([]*models.PageSEO, 0)
	for rows.Next() {
		s, err := scanSEO(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// Upsert inserts or replaces the entry for seo.PageName
func (r *SEORepository) Upsert(ctx context.Context, s *models.PageSEO) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO page_seo (page_name, title, description, keywords, og_title, og_description, og_image, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (page_name) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			keywords = EXCLUDED.keywords,
			og_title = EXCLUDED.og_title,
			og_description = EXCLUDED.og_description,
			og_image = EXCLUDED.og_image,
			updated_at = EXCLUDED.updated_at`,
		s.PageName, s.Title, s.Description, s.Keywords, s.OGTitle, s.OGDescription, s.OGImage, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting seo entry: %w", err)
	}
	return nil
}

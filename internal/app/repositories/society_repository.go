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
	"github.com/sesi/membership/internal/pkg/dberrors"
)

const committeeSlugConstraint = "committee_members_slug_key"

var committeeColumns = []string{"id", "full_name", "designation", "email", "mobile", "bio", "profile_image", "year",
	"display_order", "is_current", "slug", "qualifications", "hospital", "city", "created_at"}

// CommitteeRepository handles committee members
type CommitteeRepository struct {
	db *pgxpool.Pool
}

// NewCommitteeRepository creates a new committee repository
func NewCommitteeRepository(db *pgxpool.Pool) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

func scanCommitteeMember(row pgx.Row) (*models.CommitteeMember, error) {
	var m models.CommitteeMember
	if err := row.Scan(&m.ID, &m.FullName, &m.Designation, &m.Email, &m.Mobile, &m.Bio, &m.ProfileImage, &m.Year,
		&m.DisplayOrder, &m.IsCurrent, &m.Slug, &m.Qualifications, &m.Hospital, &m.City, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func translateCommitteeError(err error, op string) error {
	if dberrors.IsDuplicateConstraintError(err, committeeSlugConstraint) {
		return apperrors.ErrCommitteeSlugTaken
	}
	return fmt.Errorf("error %s committee member: %w", op, err)
}

// Create inserts a committee member
func (r *CommitteeRepository) Create(ctx context.Context, m *models.CommitteeMember) error {
	sql, args, err := psql().Insert("committee_members").Columns(committeeColumns...).
		Values(m.ID, m.FullName, m.Designation, m.Email, m.Mobile, m.Bio, m.ProfileImage, m.Year,
			m.DisplayOrder, m.IsCurrent, m.Slug, m.Qualifications, m.Hospital, m.City, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert committee query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return translateCommitteeError(err, "inserting")
	}
	return nil
}

func (r *CommitteeRepository) getBy(ctx context.Context, col, val string) (*models.CommitteeMember, error) {
	sql, args, err := psql().Select(committeeColumns...).From("committee_members").Where(squirrel.Eq{col: val}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get committee query: %w", err)
	}
	m, err := scanCommitteeMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommitteeMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving committee member: %w", err)
	}
	return m, nil
}

// GetByID retrieves a committee member
func (r *CommitteeRepository) GetByID(ctx context.Context, id string) (*models.CommitteeMember, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySlug retrieves a committee member by profile slug
func (r *CommitteeRepository) GetBySlug(ctx context.Context, slug string) (*models.CommitteeMember, error) {
	return r.getBy(ctx, "slug", slug)
}

// List returns committee members in display order
func (r *CommitteeRepository) List(ctx context.Context, f models.CommitteeFilter) ([]*models.CommitteeMember, error) {
	q := psql().Select(committeeColumns...).From("committee_members").OrderBy("display_order", "full_name")
	if f.Year != nil {
		q = q.Where(squirrel.Eq{"year": *f.Year})
	}
	if f.IsCurrent != nil {
		q = q.Where(squirrel.Eq{"is_current": *f.IsCurrent})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list committee query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing committee: %w", err)
	}
	defer rows.Close()

	items := make([]*models.CommitteeMember, 0)
	for rows.Next() {
		m, err := scanCommitteeMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Update replaces a committee member
func (r *CommitteeRepository) Update(ctx context.Context, m *models.CommitteeMember) error {
	sql, args, err := psql().Update("committee_members").
		SetMap(map[string]interface{}{
			"full_name":      m.FullName,
			"designation":    m.Designation,
			"email":          m.Email,
			"mobile":         m.Mobile,
			"bio":            m.Bio,
			"profile_image":  m.ProfileImage,
			"year":           m.Year,
			"display_order":  m.DisplayOrder,
			"is_current":     m.IsCurrent,
			"slug":           m.Slug,
			"qualifications": m.Qualifications,
			"hospital":       m.Hospital,
			"city":           m.City,
		}).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update committee query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translateCommitteeError(err, "updating")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommitteeMemberNotFound
	}
	return nil
}

// Delete removes a committee member
func (r *CommitteeRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM committee_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting committee member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCommitteeMemberNotFound
	}
	return nil
}

// Count counts committee members
func (r *CommitteeRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, psql().Select("COUNT(*)").From("committee_members"))
}

var publicationColumns = []string{"id", "title", "description", "publication_type", "authors", "published_date",
	"file_url", "external_link", "cover_image", "created_at"}

// PublicationRepository handles publications
type PublicationRepository struct {
	db *pgxpool.Pool
}

// NewPublicationRepository creates a new publication repository
func NewPublicationRepository(db *pgxpool.Pool) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func scanPublication(row pgx.Row) (*models.Publication, error) {
	var p models.Publication
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.PublicationType, &p.Authors, &p.PublishedDate,
		&p.FileURL, &p.ExternalLink, &p.CoverImage, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a publication
func (r *PublicationRepository) Create(ctx context.Context, p *models.Publication) error {
	sql, args, err := psql().Insert("publications").Columns(publicationColumns...).
		Values(p.ID, p.Title, p.Description, p.PublicationType, p.Authors, p.PublishedDate,
			p.FileURL, p.ExternalLink, p.CoverImage, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building insert publication query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error inserting publication: %w", err)
	}
	return nil
}

// GetByID retrieves a publication
func (r *PublicationRepository) GetByID(ctx context.Context, id string) (*models.Publication, error) {
	sql, args, err := psql().Select(publicationColumns...).From("publications").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get publication query: %w", err)
	}
	p, err := scanPublication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPublicationNotFound
		}
		return nil, fmt.Errorf("error retrieving publication: %w", err)
	}
	return p, nil
}

// List returns publications newest first
func (r *PublicationRepository) List(ctx context.Context, f models.PublicationFilter) ([]*models.Publication, error) {
	q := psql().Select(publicationColumns...).From("publications").OrderBy("published_date DESC", "created_at DESC")
	if f.PublicationType != "" {
		q = q.Where(squirrel.Eq{"publication_type": f.PublicationType})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list publications query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing publications: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Publication, 0)
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// Update replaces a publication
func (r *PublicationRepository) Update(ctx context.Context, p *models.Publication) error {
	sql, args, err := psql().Update("publications").
		SetMap(map[string]interface{}{
			"title":            p.Title,
			"description":      p.Description,
			"publication_type": p.PublicationType,
			"authors":          p.Authors,
			"published_date":   p.PublishedDate,
			"file_url":         p.FileURL,
			"external_link":    p.ExternalLink,
			"cover_image":      p.CoverImage,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update publication query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPublicationNotFound
	}
	return nil
}

// Delete removes a publication
func (r *PublicationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM publications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting publication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPublicationNotFound
	}
	return nil
}

// Count counts publications
func (r *PublicationRepository) Count(ctx context.Context) (int64, error) {
	return countQuery(ctx, r.db, psql().Select("COUNT(*)").From("publications"))
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/dberrors"
)

const (
	membersTable           = "members"
	memberNumberConstraint = "members_membership_number_key"
)

// applicationHoldsNumberSQL finds an application other than the member's own
// that already carries the number
const applicationHoldsNumberSQL = `
SELECT EXISTS (
	SELECT 1 FROM membership_applications a
	WHERE a.membership_number = $1
	AND a.id IS DISTINCT FROM COALESCE($2::text, (SELECT application_id FROM members WHERE id = $3))
)`

var memberColumns = []string{
	"id", "full_name", "email", "mobile", "qualification", "specialization", "hospital", "city", "state",
	"membership_type", "membership_number", "joined_date", "status", "certificate_path", "application_id",
	"years_experience", "medical_council_reg_no", "created_at", "updated_at",
}

// MemberRepository handles database operations for the member directory
type MemberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{db: db}
}

func scanMember(row pgx.Row) (*models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.ID, &m.FullName, &m.Email, &m.Mobile, &m.Qualification, &m.Specialization, &m.Hospital, &m.City, &m.State,
		&m.MembershipType, &m.MembershipNumber, &m.JoinedDate, &m.Status, &m.CertificatePath, &m.ApplicationID,
		&m.YearsExperience, &m.MedicalCouncilRegNo, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// translateMemberError maps unique violations onto the conflict they represent
func translateMemberError(err error, op string) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, memberNumberConstraint):
		return apperrors.ErrMembershipNumberTaken
	case dberrors.IsUniqueViolation(err):
		return apperrors.ErrMemberAlreadyExists
	}
	return fmt.Errorf("error %s member: %w", op, err)
}

// checkNumberFree rejects a number issued to another application.
// applicationID is nil on update, where the stored link is used.
func (r *MemberRepository) checkNumberFree(ctx context.Context, number, applicationID *string, memberID string) error {
	if number == nil {
		return nil
	}
	var taken bool
	if err := r.db.QueryRow(ctx, applicationHoldsNumberSQL, *number, applicationID, memberID).Scan(&taken); err != nil {
		return fmt.Errorf("error checking membership number: %w", err)
	}
	if taken {
		return apperrors.ErrMembershipNumberTaken
	}
	return nil
}

// Create inserts a member
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) error {
	if err := r.checkNumberFree(ctx, m.MembershipNumber, m.ApplicationID, m.ID); err != nil {
		return err
	}

	sql, args, err := psql().Insert(membersTable).
		Columns(memberColumns...).
		Values(
			m.ID, m.FullName, m.Email, m.Mobile, m.Qualification, m.Specialization, m.Hospital, m.City, m.State,
			m.MembershipType, m.MembershipNumber, m.JoinedDate, m.Status, m.CertificatePath, m.ApplicationID,
			m.YearsExperience, m.MedicalCouncilRegNo, m.CreatedAt, m.UpdatedAt,
		).ToSql()
	if err != nil {
		return fmt.Errorf("error building insert member query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return translateMemberError(err, "inserting")
	}
	return nil
}

func (r *MemberRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Member, error) {
	sql, args, err := psql().Select(memberColumns...).From(membersTable).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get member query: %w", err)
	}

	m, err := scanMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, fmt.Errorf("error retrieving member: %w", err)
	}
	return m, nil
}

// GetByID retrieves a member by ID
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByApplicationID retrieves the member materialized from an application
func (r *MemberRepository) GetByApplicationID(ctx context.Context, applicationID string) (*models.Member, error) {
	return r.getOne(ctx, squirrel.Eq{"application_id": applicationID})
}

func memberWhere(q squirrel.SelectBuilder, f models.MemberFilter) squirrel.SelectBuilder {
	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}
	if f.State != "" {
		q = q.Where(squirrel.ILike{"state": f.State})
	}
	if f.City != "" {
		q = q.Where(squirrel.ILike{"city": f.City})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"full_name": pattern},
			squirrel.ILike{"city": pattern},
			squirrel.ILike{"state": pattern},
			squirrel.ILike{"hospital": pattern},
			squirrel.ILike{"membership_number": pattern},
		})
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of members plus the total matching count
func (r *MemberRepository) List(ctx context.Context, f models.MemberFilter) ([]*models.Member, int64, error) {
	total, err := countQuery(ctx, r.db, memberWhere(psql().Select("COUNT(*)").From(membersTable), f))
	if err != nil {
		return nil, 0, err
	}

	order := "membership_number ASC NULLS LAST"
	if f.SortByName {
		order = "full_name ASC"
	}
	q := memberWhere(psql().Select(memberColumns...).From(membersTable), f).OrderBy(order, "id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

// Update replaces the editable fields of a member
func (r *MemberRepository) Update(ctx context.Context, m *models.Member) error {
	if err := r.checkNumberFree(ctx, m.MembershipNumber, nil, m.ID); err != nil {
		return err
	}

	sql, args, err := psql().Update(membersTable).
		SetMap(map[string]interface{}{
			"full_name":              m.FullName,
			"email":                  m.Email,
			"mobile":                 m.Mobile,
			"qualification":          m.Qualification,
			"specialization":         m.Specialization,
			"hospital":               m.Hospital,
			"city":                   m.City,
			"state":                  m.State,
			"membership_type":        m.MembershipType,
			"membership_number":      m.MembershipNumber,
			"joined_date":            m.JoinedDate,
			"status":                 m.Status,
			"years_experience":       m.YearsExperience,
			"medical_council_reg_no": m.MedicalCouncilRegNo,
			"updated_at":             m.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update member query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return translateMemberError(err, "updating")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// Delete removes a member
func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMemberNotFound
	}
	return nil
}

// Count counts members, optionally by status
func (r *MemberRepository) Count(ctx context.Context, status *models.MemberStatus) (int64, error) {
	q := psql().Select("COUNT(*)").From(membersTable)
	if status != nil {
		q = q.Where(squirrel.Eq{"status": *status})
	}
	return countQuery(ctx, r.db, q)
}

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

const (
	applicationsTable            = "membership_applications"
	applicationNumberConstraint  = "membership_applications_membership_number_key"
	applicationPrimaryConstraint = "membership_applications_pkey"
)

var applicationColumns = []string{
	"id", "region_membership", "membership_type", "title", "first_name", "middle_name", "last_name",
	"full_name", "mobile", "email", "gender", "medical_council_reg_no", "qualification",
	"current_appointments", "specialised_practice", "years_experience", "proposal_name_1", "proposal_name_2",
	"comm_address", "comm_country", "comm_state_id", "comm_state_name", "comm_district_id", "comm_district_name", "comm_pincode",
	"work_address", "work_country", "work_state_id", "work_state_name", "work_district_id", "work_district_name", "work_pincode",
	"work_hospital", "documents", "status", "admin_notes", "membership_number", "certificate_path",
	"submitted_at", "reviewed_at", "reviewed_by", "approved_at", "schema_version",
}

// ApplicationRepository handles database operations for membership applications
type ApplicationRepository struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func scanApplication(row pgx.Row) (*models.MembershipApplication, error) {
	var a models.MembershipApplication
	err := row.Scan(
		&a.ID, &a.RegionMembership, &a.MembershipType, &a.Title, &a.FirstName, &a.MiddleName, &a.LastName,
		&a.FullName, &a.Mobile, &a.Email, &a.Gender, &a.MedicalCouncilRegNo, &a.Qualification,
		&a.CurrentAppointments, &a.SpecialisedPractice, &a.YearsExperience, &a.ProposalName1, &a.ProposalName2,
		&a.CommAddress.Line, &a.CommAddress.Country, &a.CommAddress.StateID, &a.CommAddress.StateName,
		&a.CommAddress.DistrictID, &a.CommAddress.DistrictName, &a.CommAddress.Pincode,
		&a.WorkAddress.Line, &a.WorkAddress.Country, &a.WorkAddress.StateID, &a.WorkAddress.StateName,
		&a.WorkAddress.DistrictID, &a.WorkAddress.DistrictName, &a.WorkAddress.Pincode,
		&a.WorkHospital, &a.Documents, &a.Status, &a.AdminNotes, &a.MembershipNumber, &a.CertificatePath,
		&a.SubmittedAt, &a.ReviewedAt, &a.ReviewedBy, &a.ApprovedAt, &a.SchemaVersion,
	)
	if err != nil {
		return nil, err
	}
	if a.Documents == nil {
		a.Documents = []models.Document{}
	}
	return &a, nil
}

// Create inserts a new application
func (r *ApplicationRepository) Create(ctx context.Context, a *models.MembershipApplication) error {
	docs := a.Documents
	if docs == nil {
		docs = []models.Document{}
	}

	sql, args, err := psql().Insert(applicationsTable).
		Columns(applicationColumns...).
		Values(
			a.ID, a.RegionMembership, a.MembershipType, a.Title, a.FirstName, a.MiddleName, a.LastName,
			a.FullName, a.Mobile, a.Email, a.Gender, a.MedicalCouncilRegNo, a.Qualification,
			a.CurrentAppointments, a.SpecialisedPractice, a.YearsExperience, a.ProposalName1, a.ProposalName2,
			a.CommAddress.Line, a.CommAddress.Country, a.CommAddress.StateID, a.CommAddress.StateName,
			a.CommAddress.DistrictID, a.CommAddress.DistrictName, a.CommAddress.Pincode,
			a.WorkAddress.Line, a.WorkAddress.Country, a.WorkAddress.StateID, a.WorkAddress.StateName,
			a.WorkAddress.DistrictID, a.WorkAddress.DistrictName, a.WorkAddress.Pincode,
			a.WorkHospital, docs, a.Status, a.AdminNotes, a.MembershipNumber, a.CertificatePath,
			a.SubmittedAt, a.ReviewedAt, a.ReviewedBy, a.ApprovedAt, a.SchemaVersion,
		).ToSql()
	if err != nil {
		return fmt.Errorf("error building insert application query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, applicationPrimaryConstraint) {
			return apperrors.ErrApplicationIDConflict
		}
		return fmt.Errorf("error inserting application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.MembershipApplication, error) {
	sql, args, err := psql().Select(applicationColumns...).
		From(applicationsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building get application query: %w", err)
	}

	app, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// List returns applications ordered by submitted_at desc
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]*models.MembershipApplication, error) {
	q := psql().Select(applicationColumns...).
		From(applicationsTable).
		OrderBy("submitted_at DESC").
		Limit(1000)
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*models.MembershipApplication, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

func setReview(q squirrel.UpdateBuilder, review models.Review) squirrel.UpdateBuilder {
	q = q.Set("status", review.Status).
		Set("reviewed_at", review.ReviewedAt).
		Set("reviewed_by", review.ReviewedBy)
	if review.AdminNotes != nil {
		q = q.Set("admin_notes", *review.AdminNotes)
	}
	return q
}

// UpdateReview stamps the review fields without touching the membership number
func (r *ApplicationRepository) UpdateReview(ctx context.Context, id string, review models.Review) error {
	sql, args, err := setReview(psql().Update(applicationsTable), review).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building update review query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating application review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// memberHoldsNumberSQL finds a member, not materialized from the application,
// that already carries the number
const memberHoldsNumberSQL = `
SELECT EXISTS (
	SELECT 1 FROM members
	WHERE membership_number = $1 AND application_id IS DISTINCT FROM $2
)`

// MarkApproved is a compare-and-set on status <> 'approved'. A number already
// held by a member counts as taken.
func (r *ApplicationRepository) MarkApproved(ctx context.Context, id string, approval models.Approval) error {
	var held bool
	if err := r.db.QueryRow(ctx, memberHoldsNumberSQL, approval.MembershipNumber, id).Scan(&held); err != nil {
		return fmt.Errorf("error checking membership number: %w", err)
	}
	if held {
		return apperrors.ErrMembershipNumberTaken
	}

	sql, args, err := setReview(psql().Update(applicationsTable), approval.Review).
		Set("membership_number", approval.MembershipNumber).
		Set("approved_at", approval.ApprovedAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": models.StatusApproved}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building approve query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, applicationNumberConstraint) {
			return apperrors.ErrMembershipNumberTaken
		}
		return fmt.Errorf("error approving application: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Either the row is gone or someone else approved it.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return apperrors.ErrAlreadyApproved
}

// SetCertificatePath records where the certificate was stored
func (r *ApplicationRepository) SetCertificatePath(ctx context.Context, id, path string) error {
	sql, args, err := psql().Update(applicationsTable).
		Set("certificate_path", path).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building certificate path query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting certificate path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Count counts applications, optionally by status
func (r *ApplicationRepository) Count(ctx context.Context, status *models.ApplicationStatus) (int64, error) {
	q := psql().Select("COUNT(*)").From(applicationsTable)
	if status != nil {
		q = q.Where(squirrel.Eq{"status": *status})
	}
	return countQuery(ctx, r.db, q)
}

func countQuery(ctx context.Context, db *pgxpool.Pool, q squirrel.SelectBuilder) (int64, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building count query: %w", err)
	}
	var n int64
	if err := db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("error counting rows: %w", err)
	}
	return n, nil
}

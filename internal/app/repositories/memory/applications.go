package memory

import (
	"context"
	"sort"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/memberno"
)

// ApplicationRepository keeps applications in memory
type ApplicationRepository struct {
	s *store
}

func cloneApplication(a *models.MembershipApplication) *models.MembershipApplication {
	c := *a
	c.Documents = append([]models.Document(nil), a.Documents...)
	return &c
}

// Create stores a copy of app
func (r *ApplicationRepository) Create(_ context.Context, app *models.MembershipApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.applications[app.ID]; ok {
		return apperrors.ErrApplicationIDConflict
	}
	if app.MembershipNumber != nil && r.s.applicationNumberTakenLocked(*app.MembershipNumber, app.ID) {
		return apperrors.ErrMembershipNumberTaken
	}
	r.s.applications[app.ID] = cloneApplication(app)
	return nil
}

// GetByID returns a copy of the stored application
func (r *ApplicationRepository) GetByID(_ context.Context, id string) (*models.MembershipApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	app, ok := r.s.applications[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return cloneApplication(app), nil
}

// List returns applications newest first
func (r *ApplicationRepository) List(_ context.Context, filter models.ApplicationFilter) ([]*models.MembershipApplication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	apps := make([]*models.MembershipApplication, 0, len(r.s.applications))
	for _, a := range r.s.applications {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		apps = append(apps, cloneApplication(a))
	}
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].SubmittedAt.Equal(apps[j].SubmittedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].SubmittedAt.After(apps[j].SubmittedAt)
	})
	return apps, nil
}

func applyReview(a *models.MembershipApplication, review models.Review) {
	reviewedAt := review.ReviewedAt
	reviewedBy := review.ReviewedBy
	a.Status = review.Status
	a.ReviewedAt = &reviewedAt
	a.ReviewedBy = &reviewedBy
	if review.AdminNotes != nil {
		notes := *review.AdminNotes
		a.AdminNotes = &notes
	}
}

// UpdateReview stamps status and review fields
func (r *ApplicationRepository) UpdateReview(_ context.Context, id string, review models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	applyReview(app, review)
	return nil
}

// MarkApproved approves the application unless it already is
func (r *ApplicationRepository) MarkApproved(_ context.Context, id string, approval models.Approval) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	if app.IsApproved() {
		return apperrors.ErrAlreadyApproved
	}
	if r.s.numberTakenLocked(approval.MembershipNumber, id) {
		return apperrors.ErrMembershipNumberTaken
	}

	applyReview(app, approval.Review)
	number := approval.MembershipNumber
	approvedAt := approval.ApprovedAt
	app.MembershipNumber = &number
	app.ApprovedAt = &approvedAt
	return nil
}

// SetCertificatePath records where the certificate was stored
func (r *ApplicationRepository) SetCertificatePath(_ context.Context, id, path string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	app, ok := r.s.applications[id]
	if !ok {
		return apperrors.ErrApplicationNotFound
	}
	app.CertificatePath = &path
	return nil
}

// Count counts applications, optionally by status
func (r *ApplicationRepository) Count(_ context.Context, status *models.ApplicationStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, a := range r.s.applications {
		if status == nil || a.Status == *status {
			n++
		}
	}
	return n, nil
}

// applicationNumberTakenLocked mirrors the unique constraint on
// membership_applications.membership_number
func (s *store) applicationNumberTakenLocked(number, exceptID string) bool {
	for id, a := range s.applications {
		if id != exceptID && a.MembershipNumber != nil && *a.MembershipNumber == number {
			return true
		}
	}
	return false
}

// numberTakenLocked reports whether number is held by another application or
// by a member not materialized from applicationID
func (s *store) numberTakenLocked(number, applicationID string) bool {
	if s.applicationNumberTakenLocked(number, applicationID) {
		return true
	}
	for _, m := range s.members {
		if sameString(m.MembershipNumber, &number) && !sameString(m.ApplicationID, &applicationID) {
			return true
		}
	}
	return false
}

// NumberAllocator is the in-memory counterpart of the membership_counters table
type NumberAllocator struct {
	s *store
}

// Allocate returns the next membership number for year, past both the counter
// and every conforming number already stored.
func (a *NumberAllocator) Allocate(ctx context.Context, year int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	seq := max(a.s.counters[year], memberno.MaxSequence(a.s.issuedNumbersLocked(), year))
	seq++
	a.s.counters[year] = seq
	return memberno.Format(year, seq), nil
}

func (s *store) issuedNumbersLocked() []string {
	numbers := make([]string, 0, len(s.applications)+len(s.members))
	for _, a := range s.applications {
		if a.MembershipNumber != nil {
			numbers = append(numbers, *a.MembershipNumber)
		}
	}
	for _, m := range s.members {
		if m.MembershipNumber != nil {
			numbers = append(numbers, *m.MembershipNumber)
		}
	}
	return numbers
}

package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// MemberRepository keeps the member directory in memory
type MemberRepository struct {
	s *store
}

func cloneMember(m *models.Member) *models.Member {
	c := *m
	return &c
}

func sameString(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

// memberConflictLocked mirrors the unique constraints on membership_number and
// application_id. A number may only be shared with the member's own application.
func (s *store) memberConflictLocked(m *models.Member, applicationID *string) error {
	for id, other := range s.members {
		if id == m.ID {
			continue
		}
		if sameString(other.MembershipNumber, m.MembershipNumber) {
			return apperrors.ErrMembershipNumberTaken
		}
		if sameString(other.ApplicationID, applicationID) {
			return apperrors.ErrMemberAlreadyExists
		}
	}
	if m.MembershipNumber != nil {
		for id, a := range s.applications {
			if sameString(a.MembershipNumber, m.MembershipNumber) && (applicationID == nil || *applicationID != id) {
				return apperrors.ErrMembershipNumberTaken
			}
		}
	}
	return nil
}

// Create stores a copy of m
func (r *MemberRepository) Create(_ context.Context, m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[m.ID]; ok {
		return apperrors.ErrMemberAlreadyExists
	}
	if err := r.s.memberConflictLocked(m, m.ApplicationID); err != nil {
		return err
	}
	r.s.members[m.ID] = cloneMember(m)
	return nil
}

// GetByID returns a copy of the member
func (r *MemberRepository) GetByID(_ context.Context, id string) (*models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.members[id]
	if !ok {
		return nil, apperrors.ErrMemberNotFound
	}
	return cloneMember(m), nil
}

// GetByApplicationID returns the member materialized from an application
func (r *MemberRepository) GetByApplicationID(_ context.Context, applicationID string) (*models.Member, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.members {
		if m.ApplicationID != nil && *m.ApplicationID == applicationID {
			return cloneMember(m), nil
		}
	}
	return nil, apperrors.ErrMemberNotFound
}

func containsFold(s *string, needle string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), needle)
}

func memberMatches(m *models.Member, f models.MemberFilter) bool {
	if f.Status != nil && m.Status != *f.Status {
		return false
	}
	if f.State != "" && !strings.EqualFold(m.State, f.State) {
		return false
	}
	if f.City != "" && !strings.EqualFold(m.City, f.City) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return containsFold(&m.FullName, q) || containsFold(&m.City, q) || containsFold(&m.State, q) ||
			containsFold(m.Hospital, q) || containsFold(m.MembershipNumber, q)
	}
	return true
}

// List returns one page of matching members plus the total count
func (r *MemberRepository) List(_ context.Context, f models.MemberFilter) ([]*models.Member, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*models.Member, 0)
	for _, m := range r.s.members {
		if memberMatches(m, f) {
			matched = append(matched, cloneMember(m))
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if f.SortByName {
			if a.FullName != b.FullName {
				return a.FullName < b.FullName
			}
			return a.ID < b.ID
		}
		// NULLS LAST
		switch {
		case a.MembershipNumber == nil && b.MembershipNumber == nil:
			return a.ID < b.ID
		case a.MembershipNumber == nil:
			return false
		case b.MembershipNumber == nil:
			return true
		case *a.MembershipNumber != *b.MembershipNumber:
			return *a.MembershipNumber < *b.MembershipNumber
		}
		return a.ID < b.ID
	})

	total := int64(len(matched))
	if f.Limit > 0 {
		start := min(int(f.Offset), len(matched))
		end := min(start+int(f.Limit), len(matched))
		matched = matched[start:end]
	}
	return matched, total, nil
}

// Update replaces the editable fields of a member
func (r *MemberRepository) Update(_ context.Context, m *models.Member) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.members[m.ID]
	if !ok {
		return apperrors.ErrMemberNotFound
	}
	if err := r.s.memberConflictLocked(m, existing.ApplicationID); err != nil {
		return err
	}

	updated := cloneMember(m)
	updated.CertificatePath = existing.CertificatePath
	updated.ApplicationID = existing.ApplicationID
	updated.CreatedAt = existing.CreatedAt
	r.s.members[m.ID] = updated
	return nil
}

// Delete removes a member
func (r *MemberRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.members[id]; !ok {
		return apperrors.ErrMemberNotFound
	}
	delete(r.s.members, id)
	return nil
}

// Count counts members, optionally by status
func (r *MemberRepository) Count(_ context.Context, status *models.MemberStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, m := range r.s.members {
		if status == nil || m.Status == *status {
			n++
		}
	}
	return n, nil
}

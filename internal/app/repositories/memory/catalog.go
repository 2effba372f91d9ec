package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// ReferenceRepository keeps states and districts in memory
type ReferenceRepository struct {
	s *store
}

// ListStates returns states by name
func (r *ReferenceRepository) ListStates(_ context.Context) ([]*models.State, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.State, 0, len(r.s.states))
	for _, st := range r.s.states {
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetState returns one state
func (r *ReferenceRepository) GetState(_ context.Context, id string) (*models.State, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.states[id]
	if !ok {
		return nil, apperrors.ErrStateNotFound
	}
	c := *st
	return &c, nil
}

// ListDistricts returns the districts of a state by name
func (r *ReferenceRepository) ListDistricts(_ context.Context, stateID string) ([]*models.District, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.District, 0)
	for _, d := range r.s.districts {
		if d.StateID == stateID {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetDistrict returns one district
func (r *ReferenceRepository) GetDistrict(_ context.Context, id string) (*models.District, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.districts[id]
	if !ok {
		return nil, apperrors.ErrDistrictNotFound
	}
	c := *d
	return &c, nil
}

// UpsertState inserts or replaces a state
func (r *ReferenceRepository) UpsertState(_ context.Context, st *models.State) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *st
	r.s.states[st.ID] = &c
	return nil
}

// UpsertDistrict inserts or replaces a district; its state must exist
func (r *ReferenceRepository) UpsertDistrict(_ context.Context, d *models.District) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.states[d.StateID]; !ok {
		return apperrors.ErrStateNotFound
	}
	c := *d
	r.s.districts[d.ID] = &c
	return nil
}

// UserRepository keeps back-office accounts in memory
type UserRepository struct {
	s *store
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a user; emails are kept lower-case
func (r *UserRepository) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if _, ok := r.s.users[u.Email]; ok {
		return apperrors.ErrEmailAlreadyExists
	}
	c := *u
	r.s.users[u.Email] = &c
	return nil
}

// GetByEmail looks a user up case-insensitively
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[normalizeEmail(email)]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ID == id {
			u.LastLoginAt = &at
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

// SEORepository keeps page meta tags in memory
type SEORepository struct {
	s *store
}

// Get returns the entry for page
func (r *SEORepository) Get(_ context.Context, page string) (*models.PageSEO, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.seo[page]
	if !ok {
		return nil, apperrors.ErrSEONotFound
	}
	c := *e
	return &c, nil
}

// List returns every entry by page name
func (r *SEORepository) List(_ context.Context) ([]*models.PageSEO, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.PageSEO, 0, len(r.s.seo))
	for _, e := range r.s.seo {
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PageName < out[j].PageName })
	return out, nil
}

// Upsert inserts or replaces the entry for seo.PageName
func (r *SEORepository) Upsert(_ context.Context, seo *models.PageSEO) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *seo
	r.s.seo[seo.PageName] = &c
	return nil
}

package memory

import (
	"context"
	"sort"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// CommitteeRepository keeps committee members in memory
type CommitteeRepository struct {
	s *store
}

func (s *store) committeeSlugTakenLocked(slug, id string) bool {
	for _, m := range s.committee {
		if m.Slug == slug && m.ID != id {
			return true
		}
	}
	return false
}

// Create stores a committee member
func (r *CommitteeRepository) Create(_ context.Context, m *models.CommitteeMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.committee[m.ID]; ok {
		return apperrors.NewConflictError("committee member id already exists")
	}
	if r.s.committeeSlugTakenLocked(m.Slug, m.ID) {
		return apperrors.ErrCommitteeSlugTaken
	}
	c := *m
	r.s.committee[m.ID] = &c
	return nil
}

// GetByID returns one committee member
func (r *CommitteeRepository) GetByID(_ context.Context, id string) (*models.CommitteeMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.committee[id]
	if !ok {
		return nil, apperrors.ErrCommitteeMemberNotFound
	}
	c := *m
	return &c, nil
}

// GetBySlug returns the member behind a profile slug
func (r *CommitteeRepository) GetBySlug(_ context.Context, slug string) (*models.CommitteeMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, m := range r.s.committee {
		if m.Slug == slug {
			c := *m
			return &c, nil
		}
	}
	return nil, apperrors.ErrCommitteeMemberNotFound
}

// List returns committee members in display order
func (r *CommitteeRepository) List(_ context.Context, f models.CommitteeFilter) ([]*models.CommitteeMember, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.CommitteeMember, 0)
	for _, m := range r.s.committee {
		if f.Year != nil && m.Year != *f.Year {
			continue
		}
		if f.IsCurrent != nil && m.IsCurrent != *f.IsCurrent {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

// Update replaces a committee member
func (r *CommitteeRepository) Update(_ context.Context, m *models.CommitteeMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.committee[m.ID]
	if !ok {
		return apperrors.ErrCommitteeMemberNotFound
	}
	if r.s.committeeSlugTakenLocked(m.Slug, m.ID) {
		return apperrors.ErrCommitteeSlugTaken
	}
	c := *m
	c.CreatedAt = existing.CreatedAt
	r.s.committee[m.ID] = &c
	return nil
}

// Delete removes a committee member
func (r *CommitteeRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.committee[id]; !ok {
		return apperrors.ErrCommitteeMemberNotFound
	}
	delete(r.s.committee, id)
	return nil
}

// Count counts committee members
func (r *CommitteeRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.committee)), nil
}

// PublicationRepository keeps publications in memory
type PublicationRepository struct {
	s *store
}

// Create stores a publication
func (r *PublicationRepository) Create(_ context.Context, p *models.Publication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.publications[p.ID]; ok {
		return apperrors.NewConflictError("publication id already exists")
	}
	c := *p
	r.s.publications[p.ID] = &c
	return nil
}

// GetByID returns one publication
func (r *PublicationRepository) GetByID(_ context.Context, id string) (*models.Publication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.publications[id]
	if !ok {
		return nil, apperrors.ErrPublicationNotFound
	}
	c := *p
	return &c, nil
}

// List returns publications newest first
func (r *PublicationRepository) List(_ context.Context, f models.PublicationFilter) ([]*models.Publication, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Publication, 0)
	for _, p := range r.s.publications {
		if f.PublicationType != "" && p.PublicationType != f.PublicationType {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedDate.Equal(out[j].PublishedDate) {
			return out[i].PublishedDate.After(out[j].PublishedDate)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.Limit > 0 && uint64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Update replaces a publication
func (r *PublicationRepository) Update(_ context.Context, p *models.Publication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.publications[p.ID]
	if !ok {
		return apperrors.ErrPublicationNotFound
	}
	c := *p
	c.CreatedAt = existing.CreatedAt
	r.s.publications[p.ID] = &c
	return nil
}

// Delete removes a publication
func (r *PublicationRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.publications[id]; !ok {
		return apperrors.ErrPublicationNotFound
	}
	delete(r.s.publications, id)
	return nil
}

// Count counts publications
func (r *PublicationRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.publications)), nil
}

// ContactRepository keeps contact messages in memory
type ContactRepository struct {
	s *store
}

// Create stores a contact message
func (r *ContactRepository) Create(_ context.Context, m *models.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.contacts[m.ID]; ok {
		return apperrors.NewConflictError("contact message id already exists")
	}
	c := *m
	r.s.contacts[m.ID] = &c
	return nil
}

// List returns messages newest first
func (r *ContactRepository) List(_ context.Context, f models.ContactFilter) ([]*models.ContactMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.ContactMessage, 0)
	for _, m := range r.s.contacts {
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && uint64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// UpdateStatus sets a message's status
func (r *ContactRepository) UpdateStatus(_ context.Context, id string, status models.ContactStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.contacts[id]
	if !ok {
		return apperrors.ErrContactNotFound
	}
	m.Status = status
	return nil
}

// Count counts messages, optionally by status
func (r *ContactRepository) Count(_ context.Context, status *models.ContactStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, m := range r.s.contacts {
		if status == nil || m.Status == *status {
			n++
		}
	}
	return n, nil
}

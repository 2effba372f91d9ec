package memory

import (
	"context"
	"sort"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// NewsRepository keeps news items in memory
type NewsRepository struct {
	s *store
}

// Create stores a news item
func (r *NewsRepository) Create(_ context.Context, n *models.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.news[n.ID]; ok {
		return apperrors.NewConflictError("news id already exists")
	}
	c := *n
	r.s.news[n.ID] = &c
	return nil
}

// GetByID returns one news item
func (r *NewsRepository) GetByID(_ context.Context, id string) (*models.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n, ok := r.s.news[id]
	if !ok {
		return nil, apperrors.ErrNewsNotFound
	}
	c := *n
	return &c, nil
}

// List returns news newest first
func (r *NewsRepository) List(_ context.Context, f models.NewsFilter) ([]*models.News, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.News, 0)
	for _, n := range r.s.news {
		if f.PublishedOnly && !n.IsPublished {
			continue
		}
		if f.Category != "" && n.Category != f.Category {
			continue
		}
		c := *n
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

// Update replaces a news item
func (r *NewsRepository) Update(_ context.Context, n *models.News) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.news[n.ID]
	if !ok {
		return apperrors.ErrNewsNotFound
	}
	c := *n
	c.CreatedAt = existing.CreatedAt
	r.s.news[n.ID] = &c
	return nil
}

// Delete removes a news item
func (r *NewsRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.news[id]; !ok {
		return apperrors.ErrNewsNotFound
	}
	delete(r.s.news, id)
	return nil
}

// Count counts all news items
func (r *NewsRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.news)), nil
}

// EventRepository keeps events in memory
type EventRepository struct {
	s *store
}

// Create stores an event
func (r *EventRepository) Create(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[e.ID]; ok {
		return apperrors.NewConflictError("event id already exists")
	}
	c := *e
	r.s.events[e.ID] = &c
	return nil
}

// GetByID returns one event
func (r *EventRepository) GetByID(_ context.Context, id string) (*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	c := *e
	return &c, nil
}

// List returns events by start date, latest first
func (r *EventRepository) List(_ context.Context, f models.EventFilter) ([]*models.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.Event, 0)
	for _, e := range r.s.events {
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		if f.EventType != "" && e.EventType != f.EventType {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	if f.Limit > 0 && uint64(len(out)) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Update replaces an event
func (r *EventRepository) Update(_ context.Context, e *models.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.events[e.ID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	c := *e
	c.CreatedAt = existing.CreatedAt
	r.s.events[e.ID] = &c
	return nil
}

// Delete removes an event
func (r *EventRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(r.s.events, id)
	return nil
}

// Count counts events, optionally by status
func (r *EventRepository) Count(_ context.Context, status *models.EventStatus) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, e := range r.s.events {
		if status == nil || e.Status == *status {
			n++
		}
	}
	return n, nil
}

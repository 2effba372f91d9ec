package memory

import (
	"context"
	"sort"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/pkg/apperrors"
)

// GalleryRepository keeps albums and photos in memory
type GalleryRepository struct {
	s *store
}

// albumPhotosLocked returns an album's photos in display order
func (s *store) albumPhotosLocked(albumID string) []*models.GalleryPhoto {
	out := make([]*models.GalleryPhoto, 0)
	for _, p := range s.photos {
		if p.AlbumID == albumID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out
}

func (s *store) albumCopyLocked(a *models.GalleryAlbum) *models.GalleryAlbum {
	c := *a
	c.PhotoCount = len(s.albumPhotosLocked(a.ID))
	return &c
}

// CreateAlbum stores an album
func (r *GalleryRepository) CreateAlbum(_ context.Context, a *models.GalleryAlbum) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.albums[a.ID]; ok {
		return apperrors.NewConflictError("album id already exists")
	}
	c := *a
	c.PhotoCount = 0
	r.s.albums[a.ID] = &c
	return nil
}

// GetAlbum returns one album with its photo count
func (r *GalleryRepository) GetAlbum(_ context.Context, id string) (*models.GalleryAlbum, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.albums[id]
	if !ok {
		return nil, apperrors.ErrAlbumNotFound
	}
	return r.s.albumCopyLocked(a), nil
}

// ListAlbums returns albums newest first
func (r *GalleryRepository) ListAlbums(_ context.Context, f models.AlbumFilter) ([]*models.GalleryAlbum, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*models.GalleryAlbum, 0)
	for _, a := range r.s.albums {
		if f.PublishedOnly && !a.IsPublished {
			continue
		}
		if f.Category != "" && (a.Category == nil || *a.Category != f.Category) {
			continue
		}
		out = append(out, r.s.albumCopyLocked(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpdateAlbum replaces the album's editable fields
func (r *GalleryRepository) UpdateAlbum(_ context.Context, a *models.GalleryAlbum) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.albums[a.ID]
	if !ok {
		return apperrors.ErrAlbumNotFound
	}
	c := *a
	c.CreatedAt = existing.CreatedAt
	c.PhotoCount = 0
	r.s.albums[a.ID] = &c
	return nil
}

// DeleteAlbum removes the album and its photos
func (r *GalleryRepository) DeleteAlbum(_ context.Context, id string) ([]*models.GalleryPhoto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.albums[id]; !ok {
		return nil, apperrors.ErrAlbumNotFound
	}
	removed := r.s.albumPhotosLocked(id)
	for _, p := range removed {
		delete(r.s.photos, p.ID)
	}
	delete(r.s.albums, id)
	return removed, nil
}

// CountAlbums counts albums
func (r *GalleryRepository) CountAlbums(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.albums)), nil
}

// AddPhotos appends photos after the album's last one
func (r *GalleryRepository) AddPhotos(_ context.Context, albumID string, photos []*models.GalleryPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	album, ok := r.s.albums[albumID]
	if !ok {
		return apperrors.ErrAlbumNotFound
	}

	next := 0
	if existing := r.s.albumPhotosLocked(albumID); len(existing) > 0 {
		next = existing[len(existing)-1].DisplayOrder + 1
	}
	for i, p := range photos {
		p.AlbumID = albumID
		p.DisplayOrder = next + i
		c := *p
		r.s.photos[p.ID] = &c
	}
	if album.CoverImage == nil {
		cover := photos[0].ImageURL
		album.CoverImage = &cover
	}
	return nil
}

// ListPhotos returns an album's photos in display order
func (r *GalleryRepository) ListPhotos(_ context.Context, albumID string) ([]*models.GalleryPhoto, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	photos := r.s.albumPhotosLocked(albumID)
	out := make([]*models.GalleryPhoto, len(photos))
	for i, p := range photos {
		c := *p
		out[i] = &c
	}
	return out, nil
}

// DeletePhoto removes one photo and moves the cover on if it pointed there
func (r *GalleryRepository) DeletePhoto(_ context.Context, albumID, photoID string) (*models.GalleryPhoto, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.photos[photoID]
	if !ok || p.AlbumID != albumID {
		return nil, apperrors.ErrPhotoNotFound
	}
	delete(r.s.photos, photoID)

	if album, ok := r.s.albums[albumID]; ok && album.CoverImage != nil && *album.CoverImage == p.ImageURL {
		album.CoverImage = nil
		if rest := r.s.albumPhotosLocked(albumID); len(rest) > 0 {
			cover := rest[0].ImageURL
			album.CoverImage = &cover
		}
	}
	return p, nil
}

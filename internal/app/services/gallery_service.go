package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/filestorage"
	"github.com/sesi/membership/internal/pkg/helpers"
	"github.com/sesi/membership/internal/pkg/validation"
)

const (
	// GalleryFolder is where album photos are stored
	GalleryFolder = "gallery"
	// MaxBulkPhotos caps one bulk upload request
	MaxBulkPhotos = 50
)

// GalleryService manages albums and the photos stored for them
type GalleryService interface {
	ListAlbums(ctx context.Context, filter models.AlbumFilter) ([]*models.GalleryAlbum, error)
	// GetAlbum hides unpublished albums unless includeUnpublished is set
	GetAlbum(ctx context.Context, id string, includeUnpublished bool) (*models.AlbumWithPhotos, error)
	CreateAlbum(ctx context.Context, req *dto.AlbumRequest) (*models.GalleryAlbum, error)
	UpdateAlbum(ctx context.Context, id string, req *dto.AlbumRequest) (*models.GalleryAlbum, error)
	// DeleteAlbum removes the album, its photos and their stored files
	DeleteAlbum(ctx context.Context, id string) error

	ListPhotos(ctx context.Context, albumID string) ([]*models.GalleryPhoto, error)
	UploadPhoto(ctx context.Context, albumID string, form dto.PhotoForm, file *multipart.FileHeader) (*models.GalleryPhoto, error)
	// UploadPhotos stores every file or none of them
	UploadPhotos(ctx context.Context, albumID string, files []*multipart.FileHeader) (*dto.BulkUploadResponse, error)
	DeletePhoto(ctx context.Context, albumID, photoID string) error
}

type galleryServiceImpl struct {
	gallery repositories.GalleryStore
	storage filestorage.Storage
	logger  zerolog.Logger
	now     func() time.Time
}

// NewGalleryService creates a new GalleryService
func NewGalleryService(gallery repositories.GalleryStore, storage filestorage.Storage, logger zerolog.Logger) GalleryService {
	return &galleryServiceImpl{
		gallery: gallery,
		storage: storage,
		logger:  logger.With().Str("component", "gallery").Logger(),
		now:     time.Now,
	}
}

func (s *galleryServiceImpl) ListAlbums(ctx context.Context, filter models.AlbumFilter) ([]*models.GalleryAlbum, error) {
	return s.gallery.ListAlbums(ctx, filter)
}

func (s *galleryServiceImpl) GetAlbum(ctx context.Context, id string, includeUnpublished bool) (*models.AlbumWithPhotos, error) {
	album, err := s.gallery.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	if !album.IsPublished && !includeUnpublished {
		return nil, apperrors.ErrAlbumNotFound
	}
	photos, err := s.gallery.ListPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	album.PhotoCount = len(photos)
	return &models.AlbumWithPhotos{GalleryAlbum: *album, Photos: photos}, nil
}

func (s *galleryServiceImpl) CreateAlbum(ctx context.Context, req *dto.AlbumRequest) (*models.GalleryAlbum, error) {
	a := req.ToModel()
	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()
	if err := s.gallery.CreateAlbum(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("albumID", a.ID).Msg("Album created")
	return a, nil
}

func (s *galleryServiceImpl) UpdateAlbum(ctx context.Context, id string, req *dto.AlbumRequest) (*models.GalleryAlbum, error) {
	existing, err := s.gallery.GetAlbum(ctx, id)
	if err != nil {
		return nil, err
	}
	a := req.ToModel()
	a.ID = id
	a.CreatedAt = existing.CreatedAt
	if a.CoverImage == nil {
		a.CoverImage = existing.CoverImage
	}
	if err := s.gallery.UpdateAlbum(ctx, a); err != nil {
		return nil, err
	}
	a.PhotoCount = existing.PhotoCount
	return a, nil
}

func (s *galleryServiceImpl) DeleteAlbum(ctx context.Context, id string) error {
	removed, err := s.gallery.DeleteAlbum(ctx, id)
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(removed))
	for _, p := range removed {
		paths = append(paths, p.ImageURL)
	}
	s.removeFiles(ctx, paths)
	s.logger.Info().Str("albumID", id).Int("photos", len(removed)).Msg("Album deleted")
	return nil
}

func (s *galleryServiceImpl) ListPhotos(ctx context.Context, albumID string) ([]*models.GalleryPhoto, error) {
	if _, err := s.gallery.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}
	return s.gallery.ListPhotos(ctx, albumID)
}

func (s *galleryServiceImpl) UploadPhoto(ctx context.Context, albumID string, form dto.PhotoForm, file *multipart.FileHeader) (*models.GalleryPhoto, error) {
	if file == nil {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, "image", "image is required")
	}
	album, err := s.gallery.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(form.Title)
	if title == "" {
		title = album.Title
	}
	photos, err := s.store(ctx, album, "image", []*multipart.FileHeader{file})
	if err != nil {
		return nil, err
	}
	photos[0].Title = title
	photos[0].Description = helpers.NilIfEmpty(form.Description)

	if err := s.commit(ctx, albumID, photos); err != nil {
		return nil, err
	}
	return photos[0], nil
}

func (s *galleryServiceImpl) UploadPhotos(ctx context.Context, albumID string, files []*multipart.FileHeader) (*dto.BulkUploadResponse, error) {
	if len(files) == 0 {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, "images", "at least one image is required")
	}
	if len(files) > MaxBulkPhotos {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrValidationFailed, "images",
			fmt.Sprintf("at most %d images can be uploaded at once", MaxBulkPhotos))
	}
	album, err := s.gallery.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	photos, err := s.store(ctx, album, "images", files)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx, albumID, photos); err != nil {
		return nil, err
	}
	return &dto.BulkUploadResponse{Success: true, UploadedCount: len(photos), Photos: photos}, nil
}

// store validates every file before writing any, then saves them to the
// gallery folder. On failure nothing is left behind.
func (s *galleryServiceImpl) store(ctx context.Context, album *models.GalleryAlbum, field string, files []*multipart.FileHeader) ([]*models.GalleryPhoto, error) {
	for _, fh := range files {
		if fh == nil {
			return nil, apperrors.NewFieldValidationError(apperrors.ErrMissingDocument, field, field+" is required")
		}
		if err := validation.ValidateImageUpload(field, fh.Filename, fh.Size); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	photos := make([]*models.GalleryPhoto, 0, len(files))
	saved := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := filestorage.SaveFileHeader(ctx, s.storage, fh, GalleryFolder)
		if err != nil {
			s.removeFiles(ctx, saved)
			if errors.Is(err, filestorage.ErrUnreadableUpload) {
				return nil, apperrors.NewFieldValidationError(apperrors.ErrInvalidFile, field, field+": "+filestorage.ErrUnreadableUpload.Error())
			}
			return nil, fmt.Errorf("error storing gallery photo: %w", err)
		}
		saved = append(saved, path)
		photos = append(photos, &models.GalleryPhoto{
			ID:         uuid.NewString(),
			AlbumID:    album.ID,
			Title:      album.Title,
			ImageURL:   path,
			UploadedAt: now,
		})
	}
	return photos, nil
}

func (s *galleryServiceImpl) commit(ctx context.Context, albumID string, photos []*models.GalleryPhoto) error {
	if err := s.gallery.AddPhotos(ctx, albumID, photos); err != nil {
		paths := make([]string, len(photos))
		for i, p := range photos {
			paths[i] = p.ImageURL
		}
		s.removeFiles(ctx, paths)
		return err
	}
	s.logger.Info().Str("albumID", albumID).Int("photos", len(photos)).Msg("Photos added to album")
	return nil
}

func (s *galleryServiceImpl) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	p, err := s.gallery.DeletePhoto(ctx, albumID, photoID)
	if err != nil {
		return err
	}
	s.removeFiles(ctx, []string{p.ImageURL})
	return nil
}

func (s *galleryServiceImpl) removeFiles(ctx context.Context, paths []string) {
	ctx = context.WithoutCancel(ctx)
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			s.logger.Error().Err(err).Str("path", p).Msg("Failed to remove gallery file")
		}
	}
}

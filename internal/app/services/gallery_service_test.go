package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/app/repositories/memory"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/filestorage"
)

type GalleryServiceSuite struct {
	suite.Suite

	ctx     context.Context
	repos   *repositories.Repositories
	storage *filestorage.LocalStorage
	svc     *galleryServiceImpl
}

func TestGalleryServiceSuite(t *testing.T) {
	suite.Run(t, new(GalleryServiceSuite))
}

func (s *GalleryServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = memory.NewRepositories()

	storage, err := filestorage.NewLocalStorage(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)
	s.storage = storage
	s.svc = s.newService(storage)
}

func (s *GalleryServiceSuite) newService(storage filestorage.Storage) *galleryServiceImpl {
	svc := NewGalleryService(s.repos.Gallery, storage, zerolog.Nop()).(*galleryServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func (s *GalleryServiceSuite) album(published bool) *models.GalleryAlbum {
	a, err := s.svc.CreateAlbum(s.ctx, &dto.AlbumRequest{Title: "SESICON 2025", IsPublished: &published})
	s.Require().NoError(err)
	return a
}

func (s *GalleryServiceSuite) images(names ...string) []*multipart.FileHeader {
	specs := make(map[string]fileSpec, len(names))
	for i, n := range names {
		specs[string(rune('a'+i))] = fileSpec{n, 256}
	}
	byField := multipartFiles(s.T(), specs)
	out := make([]*multipart.FileHeader, len(names))
	for i := range names {
		out[i] = byField[string(rune('a'+i))]
	}
	return out
}

func (s *GalleryServiceSuite) storedFiles() []string {
	matches, err := filepath.Glob(filepath.Join(s.storage.BasePath(), GalleryFolder, "*"))
	s.Require().NoError(err)
	return matches
}

func (s *GalleryServiceSuite) TestUploadPhotoSetsCoverAndOrder() {
	a := s.album(true)

	first, err := s.svc.UploadPhoto(s.ctx, a.ID, dto.PhotoForm{}, s.images("stage.jpg")[0])
	s.Require().NoError(err)
	s.Equal("SESICON 2025", first.Title)
	s.Equal(0, first.DisplayOrder)
	s.Regexp(`^/uploads/gallery/[0-9a-f-]+\.jpg$`, first.ImageURL)

	second, err := s.svc.UploadPhoto(s.ctx, a.ID, dto.PhotoForm{Title: "Keynote", Description: "Day one"}, s.images("keynote.png")[0])
	s.Require().NoError(err)
	s.Equal("Keynote", second.Title)
	s.Equal("Day one", *second.Description)
	s.Equal(1, second.DisplayOrder)

	got, err := s.svc.GetAlbum(s.ctx, a.ID, false)
	s.Require().NoError(err)
	s.Equal(2, got.PhotoCount)
	s.Require().Len(got.Photos, 2)
	s.Equal(first.ID, got.Photos[0].ID)
	s.Require().NotNil(got.CoverImage)
	s.Equal(first.ImageURL, *got.CoverImage)
}

func (s *GalleryServiceSuite) TestBulkUploadAppendsAfterExisting() {
	a := s.album(true)
	_, err := s.svc.UploadPhoto(s.ctx, a.ID, dto.PhotoForm{}, s.images("one.jpg")[0])
	s.Require().NoError(err)

	resp, err := s.svc.UploadPhotos(s.ctx, a.ID, s.images("two.jpg", "three.jpeg", "four.png"))
	s.Require().NoError(err)
	s.True(resp.Success)
	s.Equal(3, resp.UploadedCount)
	for i, p := range resp.Photos {
		s.Equal(i+1, p.DisplayOrder)
		s.Equal(a.Title, p.Title)
	}

	photos, err := s.svc.ListPhotos(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(photos, 4)
	s.Len(s.storedFiles(), 4)
}

func (s *GalleryServiceSuite) TestBulkUploadRejectsWholeBatch() {
	a := s.album(true)

	_, err := s.svc.UploadPhotos(s.ctx, a.ID, s.images("ok.png", "brochure.pdf"))
	s.ErrorIs(err, apperrors.ErrInvalidFile)
	ce, ok := apperrors.AsCustom(err)
	s.Require().True(ok)
	s.Equal("images", ce.Field)
	s.Empty(s.storedFiles())

	failing := s.newService(&failingStorage{Storage: s.storage, failOn: 2})
	_, err = failing.UploadPhotos(s.ctx, a.ID, s.images("a.png", "b.png", "c.png"))
	s.Error(err)
	s.Empty(s.storedFiles())

	photos, err := s.svc.ListPhotos(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Empty(photos)
}

func (s *GalleryServiceSuite) TestBulkUploadLimits() {
	a := s.album(true)

	_, err := s.svc.UploadPhotos(s.ctx, a.ID, nil)
	s.ErrorIs(err, apperrors.ErrMissingDocument)

	_, err = s.svc.UploadPhotos(s.ctx, a.ID, make([]*multipart.FileHeader, MaxBulkPhotos+1))
	s.ErrorIs(err, apperrors.ErrValidationFailed)
}

func (s *GalleryServiceSuite) TestUploadToMissingAlbumStoresNothing() {
	_, err := s.svc.UploadPhoto(s.ctx, "missing", dto.PhotoForm{}, s.images("x.png")[0])
	s.ErrorIs(err, apperrors.ErrAlbumNotFound)
	s.Empty(s.storedFiles())

	_, err = s.svc.UploadPhotos(s.ctx, "missing", s.images("x.png"))
	s.ErrorIs(err, apperrors.ErrResourceNotFound)
	s.Empty(s.storedFiles())
}

func (s *GalleryServiceSuite) TestUnreadablePhotoIsClientError() {
	a := s.album(true)
	_, err := s.svc.UploadPhoto(s.ctx, a.ID, dto.PhotoForm{}, &multipart.FileHeader{Filename: "lost.png", Size: 10})
	s.ErrorIs(err, apperrors.ErrInvalidFile)
	s.Empty(s.storedFiles())
}

func (s *GalleryServiceSuite) TestUnpublishedAlbumHiddenFromPublic() {
	a := s.album(false)

	_, err := s.svc.GetAlbum(s.ctx, a.ID, false)
	s.ErrorIs(err, apperrors.ErrAlbumNotFound)
	_, err = s.svc.GetAlbum(s.ctx, a.ID, true)
	s.NoError(err)

	public, err := s.svc.ListAlbums(s.ctx, models.AlbumFilter{PublishedOnly: true})
	s.Require().NoError(err)
	s.Empty(public)
}

func (s *GalleryServiceSuite) TestUpdateAlbumKeepsCover() {
	a := s.album(true)
	p, err := s.svc.UploadPhoto(s.ctx, a.ID, dto.PhotoForm{}, s.images("cover.jpg")[0])
	s.Require().NoError(err)

	updated, err := s.svc.UpdateAlbum(s.ctx, a.ID, &dto.AlbumRequest{Title: "SESICON 2025 Kochi"})
	s.Require().NoError(err)
	s.Equal(p.ImageURL, *updated.CoverImage)
	s.Equal(1, updated.PhotoCount)
	s.Equal(a.CreatedAt, updated.CreatedAt)

	_, err = s.svc.UpdateAlbum(s.ctx, "missing", &dto.AlbumRequest{Title: "x"})
	s.ErrorIs(err, apperrors.ErrAlbumNotFound)
}

func (s *GalleryServiceSuite) TestDeletePhotoMovesCover() {
	a := s.album(true)
	resp, err := s.svc.UploadPhotos(s.ctx, a.ID, s.images("a.jpg", "b.jpg"))
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeletePhoto(s.ctx, a.ID, resp.Photos[0].ID))
	got, err := s.svc.GetAlbum(s.ctx, a.ID, true)
	s.Require().NoError(err)
	s.Equal(resp.Photos[1].ImageURL, *got.CoverImage)
	s.Len(s.storedFiles(), 1)

	s.ErrorIs(s.svc.DeletePhoto(s.ctx, a.ID, resp.Photos[0].ID), apperrors.ErrPhotoNotFound)
}

func (s *GalleryServiceSuite) TestDeleteAlbumRemovesPhotosAndFiles() {
	a := s.album(true)
	_, err := s.svc.UploadPhotos(s.ctx, a.ID, s.images("a.jpg", "b.jpg", "c.jpg"))
	s.Require().NoError(err)
	s.Len(s.storedFiles(), 3)

	s.Require().NoError(s.svc.DeleteAlbum(s.ctx, a.ID))
	s.Empty(s.storedFiles())

	_, err = s.svc.ListPhotos(s.ctx, a.ID)
	s.ErrorIs(err, apperrors.ErrAlbumNotFound)
	s.ErrorIs(s.svc.DeleteAlbum(s.ctx, a.ID), apperrors.ErrAlbumNotFound)
}

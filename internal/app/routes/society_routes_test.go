package routes

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/pkg/notify"
)

// postImages sends each name as a part under field, plus any text fields.
func (a *testAPI) postImages(t *testing.T, path, token, field string, fields map[string]string, names ...string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range names {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.do(req, token)
}

func TestCommitteeRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")

	w := api.doJSON(http.MethodPost, "/api/v1/admin/committee", editor,
		dto.CommitteeRequest{FullName: "Dr. A. K. Rao", Designation: "President", Year: 2025})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	president := decode[models.CommitteeMember](t, w)
	assert.Equal(t, "dr-a-k-rao", president.Slug)

	past := false
	w = api.doJSON(http.MethodPost, "/api/v1/admin/committee", editor,
		dto.CommitteeRequest{FullName: "Dr. B. Nair", Designation: "Secretary", Year: 2019, IsCurrent: &past})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.doJSON(http.MethodPost, "/api/v1/admin/committee", editor,
		dto.CommitteeRequest{FullName: "Dr. C", Designation: "EC Member", Year: 2025, Slug: "dr-a-k-rao"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = api.doJSON(http.MethodGet, "/api/v1/committee", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := decode[[]models.CommitteeMember](t, w)
	require.Len(t, current, 1)
	assert.Equal(t, president.ID, current[0].ID)

	w = api.doJSON(http.MethodGet, "/api/v1/committee?is_current=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CommitteeMember](t, w), 1)

	w = api.doJSON(http.MethodGet, "/api/v1/committee/dr-a-k-rao", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "President", decode[models.CommitteeMember](t, w).Designation)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/committee", editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CommitteeMember](t, w), 2)

	w = api.doJSON(http.MethodDelete, "/api/v1/admin/committee/"+president.ID, editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/committee/dr-a-k-rao", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicationRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")

	w := api.doJSON(http.MethodPost, "/api/v1/admin/publications", editor,
		dto.PublicationRequest{Title: "JSESI Vol 1", PublicationType: "journal"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	pub := decode[models.Publication](t, w)

	w = api.doJSON(http.MethodPost, "/api/v1/admin/publications", editor,
		map[string]any{"title": "Bad link", "publication_type": "journal", "external_link": "not a url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/publications?publication_type=journal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Publication](t, w), 1)

	w = api.doJSON(http.MethodGet, "/api/v1/publications?publication_type=newsletter", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Publication](t, w))

	w = api.doJSON(http.MethodGet, "/api/v1/publications/"+pub.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/statistics", "", nil)
	assert.Equal(t, int64(1), decode[dto.PublicStatistics](t, w).TotalPublications)
}

func TestGalleryRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")

	w := api.doJSON(http.MethodPost, "/api/v1/admin/gallery/albums", editor, dto.AlbumRequest{Title: "SESICON 2025"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	album := decode[models.GalleryAlbum](t, w)
	photos := "/api/v1/admin/gallery/albums/" + album.ID + "/photos"

	w = api.postImages(t, photos, editor, "image", map[string]string{"title": "Inauguration"}, "stage.jpg")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[models.GalleryPhoto](t, w)
	assert.Equal(t, "Inauguration", first.Title)

	w = api.postImages(t, photos+"/bulk", editor, "images", nil, "a.jpg", "b.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bulk := decode[dto.BulkUploadResponse](t, w)
	assert.Equal(t, 2, bulk.UploadedCount)

	w = api.postImages(t, photos+"/bulk", editor, "images", nil, "c.jpg", "notes.pdf")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.postImages(t, photos, editor, "image", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/gallery/albums/"+album.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.AlbumWithPhotos](t, w)
	assert.Equal(t, 3, got.PhotoCount)
	require.Len(t, got.Photos, 3)
	assert.Equal(t, first.ImageURL, *got.CoverImage)

	w = api.doJSON(http.MethodDelete, photos+"/"+first.ID, editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, photos, editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.GalleryPhoto](t, w), 2)

	draft := false
	w = api.doJSON(http.MethodPut, "/api/v1/admin/gallery/albums/"+album.ID, editor, dto.AlbumRequest{Title: "SESICON 2025", IsPublished: &draft})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.doJSON(http.MethodGet, "/api/v1/gallery/albums/"+album.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/gallery/albums", "", nil)
	assert.Empty(t, decode[[]models.GalleryAlbum](t, w))
	w = api.doJSON(http.MethodGet, "/api/v1/admin/gallery/albums/"+album.ID, editor, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.doJSON(http.MethodDelete, "/api/v1/admin/gallery/albums/"+album.ID, editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/admin/gallery/albums", editor, nil)
	assert.Empty(t, decode[[]models.GalleryAlbum](t, w))
}

func TestContactRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.token(t, "admin")
	editor := api.token(t, "editor")

	w := api.doJSON(http.MethodPost, "/api/v1/contact", "", dto.ContactRequest{
		Name: "Visitor", Email: "visitor@example.com", Subject: "Fellowship", Message: "When is the next intake?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, decode[dto.SuccessResponse](t, w).Success)

	require.Equal(t, 1, api.queue.Len())
	msg, err := api.queue.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, notify.KindContactAlert, msg.Kind)
	assert.Equal(t, "admin@sesi.co.in", msg.To)

	w = api.doJSON(http.MethodPost, "/api/v1/contact", "", map[string]string{"name": "X", "email": "nope", "subject": "s", "message": "m"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/contact", editor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/contact?status=new", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	inbox := decode[[]models.ContactMessage](t, w)
	require.Len(t, inbox, 1)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/dashboard", admin, nil)
	assert.Equal(t, int64(1), decode[dto.DashboardStats](t, w).NewContactMessages)

	w = api.doJSON(http.MethodPut, "/api/v1/admin/contact/"+inbox[0].ID+"/status", admin, map[string]string{"status": "replied"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.doJSON(http.MethodPut, "/api/v1/admin/contact/"+inbox[0].ID+"/status", admin, map[string]string{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.doJSON(http.MethodPut, "/api/v1/admin/contact/missing/status", admin, map[string]string{"status": "read"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/dashboard", admin, nil)
	assert.Zero(t, decode[dto.DashboardStats](t, w).NewContactMessages)
}

func TestContactSurvivesDeadQueue(t *testing.T) {
	api := newTestAPI(t, deadQueue{})

	w := api.doJSON(http.MethodPost, "/api/v1/contact", "", dto.ContactRequest{
		Name: "Visitor", Email: "visitor@example.com", Subject: "Hi", Message: "Hello",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

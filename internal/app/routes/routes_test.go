package routes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/app/controllers"
	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/app/repositories/memory"
	"github.com/sesi/membership/internal/app/services"
	"github.com/sesi/membership/internal/middleware"
	"github.com/sesi/membership/internal/pkg/auth"
	"github.com/sesi/membership/internal/pkg/certificate"
	"github.com/sesi/membership/internal/pkg/email"
	"github.com/sesi/membership/internal/pkg/filestorage"
	"github.com/sesi/membership/internal/pkg/notify"
)

type testAPI struct {
	router  *gin.Engine
	repos   *repositories.Repositories
	storage *filestorage.LocalStorage
	queue   *notify.MemoryQueue
	jwt     *auth.JWTService
}

type deadQueue struct{}

func (deadQueue) Enqueue(context.Context, notify.Message) error   { return errors.New("queue unavailable") }
func (deadQueue) Dequeue(context.Context) (notify.Message, error) { return notify.Message{}, notify.ErrQueueClosed }
func (deadQueue) Close() error                                    { return nil }

func newTestAPI(t *testing.T, queue notify.Queue) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidators())

	ctx := context.Background()
	repos := memory.NewRepositories()
	require.NoError(t, repos.Reference.UpsertState(ctx, &models.State{ID: "ka", Name: "Karnataka", Code: "KA"}))
	require.NoError(t, repos.Reference.UpsertDistrict(ctx, &models.District{ID: "ka-blr", Name: "Bengaluru Urban", StateID: "ka"}))

	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	api := &testAPI{repos: repos, storage: storage}
	if queue == nil {
		api.queue = notify.NewMemoryQueue(64)
		queue = api.queue
	}

	logger := zerolog.Nop()
	api.jwt = auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "sesi"})
	templates := email.Templates{SiteURL: "https://sesi.co.in", AdminEmail: "admin@sesi.co.in"}

	dispatcher := notify.NewDispatcher(queue, logger, nil)
	appService := services.NewApplicationService(repos, storage, certificate.NewPDFRenderer("https://sesi.co.in"),
		dispatcher, templates, "http://localhost:8080", nil, logger)

	api.router = gin.New()
	SetupRouter(api.router, Controllers{
		Auth:        controllers.NewAuthController(services.NewAuthService(repos.Users, api.jwt, logger), logger),
		Application: controllers.NewApplicationController(appService, logger),
		Member:      controllers.NewMemberController(services.NewMemberService(repos.Members, logger)),
		Content:     controllers.NewContentController(services.NewContentService(repos.News, repos.Events, logger)),
		Site: controllers.NewSiteController(services.NewReferenceService(repos.Reference),
			services.NewSEOService(repos.SEO), services.NewStatsService(repos)),
		Upload:  controllers.NewUploadController(services.NewUploadService(storage, logger)),
		Society: controllers.NewSocietyController(services.NewSocietyService(repos.Committee, repos.Publications, logger)),
		Gallery: controllers.NewGalleryController(services.NewGalleryService(repos.Gallery, storage, logger)),
		Contact: controllers.NewContactController(services.NewContactService(repos.Contact, dispatcher, templates, logger)),
		Health:  controllers.NewHealthController(map[string]controllers.HealthCheck{
			"database": func(context.Context) error { return nil },
		}),
	}, middleware.NewAuthMiddleware(api.jwt))

	return api
}

func (a *testAPI) token(t *testing.T, role string) string {
	t.Helper()
	tok, _, err := a.jwt.GenerateToken(auth.Subject{UserID: "u-" + role, Email: role + "@sesi.co.in", Role: role})
	require.NoError(t, err)
	return tok
}

func (a *testAPI) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.do(req, token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var applicationFields = map[string]string{
	"region_membership":      "South Zone",
	"membership_type":        "Life Member",
	"title":                  "Dr.",
	"first_name":             "Meera",
	"last_name":              "Shetty",
	"mobile":                 "9845012345",
	"email":                  "meera@example.com",
	"gender":                 "female",
	"medical_council_reg_no": "KMC-9001",
	"qualification":          "MS Ortho",
	"years_experience":       "12",
	"proposal_name_1":        "Dr. P",
	"proposal_name_2":        "Dr. Q",
	"comm_address":           "12 Residency Road",
	"comm_state_id":          "ka",
	"comm_district_id":       "ka-blr",
	"comm_pincode":           "560025",
	"work_address":           "City Hospital",
	"work_state_id":          "ka",
	"work_district_id":       "ka-blr",
	"work_pincode":           "560001",
	"work_hospital":          "City Hospital",
}

// applicationForm builds a multipart intake body. Fields in override replace
// the defaults; an empty override value drops the field.
func applicationForm(t *testing.T, override map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range applicationFields {
		if o, ok := override[k]; ok {
			v = o
		}
		if v != "" {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("%PDF-1.4 test document"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

var requiredUploads = map[string]string{
	"mbbs_certificate":               "mbbs.pdf",
	"orthopedic_certificate":         "ortho.jpg",
	"state_registration_certificate": "reg.png",
}

func (a *testAPI) submit(t *testing.T, override map[string]string, files map[string]string) *httptest.ResponseRecorder {
	body, contentType := applicationForm(t, override, files)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", body)
	req.Header.Set("Content-Type", contentType)
	return a.do(req, "")
}

func TestMembershipEndToEnd(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.token(t, "admin")
	year := time.Now().UTC().Year()

	w := api.submit(t, nil, requiredUploads)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	submitted := decode[dto.SubmitApplicationResponse](t, w)
	assert.True(t, submitted.Success)
	require.NotEmpty(t, submitted.ApplicationID)
	assert.Equal(t, 2, api.queue.Len())

	w = api.doJSON(http.MethodGet, "/api/v1/applications/"+submitted.ApplicationID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var public map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	assert.Equal(t, "submitted", public["status"])
	assert.Equal(t, "Dr. Meera Shetty", public["full_name"])
	for _, hidden := range []string{"documents", "admin_notes", "comm_address", "work_address", "work_state_name"} {
		assert.NotContains(t, public, hidden)
	}

	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/"+submitted.ApplicationID+"/status?status=approved", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	approved := decode[dto.UpdateStatusResponse](t, w)
	assert.Equal(t, fmt.Sprintf("SESI-%d-0001", year), approved.MembershipNumber)
	assert.Equal(t, fmt.Sprintf("/uploads/certificates/SESI_Certificate_SESI-%d-0001.pdf", year), approved.CertificatePath)
	assert.NotEmpty(t, approved.MemberID)

	rc, err := api.storage.Open(context.Background(), approved.CertificatePath)
	require.NoError(t, err)
	head := make([]byte, 5)
	_, err = rc.Read(head)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "%PDF-", string(head))

	w = api.doJSON(http.MethodGet, "/api/v1/members", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var directory struct {
		Items      []dto.PublicMember `json:"items"`
		Pagination dto.PaginationInfo `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &directory))
	require.Len(t, directory.Items, 1)
	assert.Equal(t, approved.MembershipNumber, *directory.Items[0].MembershipNumber)
	assert.Equal(t, "active", directory.Items[0].Status)
	assert.Equal(t, "Bengaluru Urban", directory.Items[0].City)

	w = api.doJSON(http.MethodGet, "/api/v1/statistics", "", nil)
	assert.Equal(t, int64(1), decode[dto.PublicStatistics](t, w).TotalMembers)
}

func TestSubmitValidation(t *testing.T) {
	api := newTestAPI(t, nil)

	cases := []struct {
		name     string
		override map[string]string
		files    map[string]string
		field    string
	}{
		{"missing first name", map[string]string{"first_name": ""}, requiredUploads, "first_name"},
		{"bad email", map[string]string{"email": "not-an-email"}, requiredUploads, "email"},
		{"bad pincode", map[string]string{"work_pincode": "12"}, requiredUploads, "work_pincode"},
		{"missing document", nil, map[string]string{"mbbs_certificate": "a.pdf", "orthopedic_certificate": "b.pdf"}, "state_registration_certificate"},
		{"bad extension", nil, map[string]string{"mbbs_certificate": "a.exe", "orthopedic_certificate": "b.pdf", "state_registration_certificate": "c.pdf"}, "mbbs_certificate"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := api.submit(t, tc.override, tc.files)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			resp := decode[dto.ErrorResponse](t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.field, resp.Error.Field)
			assert.NotEmpty(t, resp.Detail)
		})
	}

	n, err := api.repos.Applications.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatusUpdateAcceptsJSONBody(t *testing.T) {
	api := newTestAPI(t, nil)
	admin := api.token(t, "admin")

	id := decode[dto.SubmitApplicationResponse](t, api.submit(t, nil, requiredUploads)).ApplicationID

	w := api.doJSON(http.MethodPut, "/api/v1/admin/applications/"+id+"/status", admin,
		map[string]any{"status": "rejected", "admin_notes": "incomplete registration"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Application status updated to rejected", decode[dto.UpdateStatusResponse](t, w).Message)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/applications/"+id, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[dto.ApplicationDetail](t, w)
	assert.Equal(t, models.StatusRejected, detail.Status)
	assert.Equal(t, "incomplete registration", *detail.AdminNotes)
	assert.Equal(t, "admin@sesi.co.in", *detail.ReviewedBy)
	assert.Len(t, detail.Documents, 3)

	// Query parameters win over the body.
	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/"+id+"/status?status=under_review", admin,
		map[string]any{"status": "approved"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[dto.UpdateStatusResponse](t, w).MembershipNumber)

	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/"+id+"/status?status=archived", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/missing/status?status=approved", admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/applications?status=under_review", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]dto.ApplicationDetail](t, w), 1)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")
	admin := api.token(t, "admin")

	w := api.doJSON(http.MethodPut, "/api/v1/admin/applications/x/status?status=approved", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/x/status?status=approved", editor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/members", editor, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/dashboard", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.doJSON(http.MethodPost, "/api/v1/admin/news", editor, map[string]any{"title": "Hello", "content": "World", "category": "society"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.doJSON(http.MethodGet, "/api/v1/auth/verify", editor, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.VerifyResponse{Valid: true, Email: "editor@sesi.co.in", Role: "editor"}, decode[dto.VerifyResponse](t, w))
}

func TestNotifierFailureDoesNotFailRequests(t *testing.T) {
	api := newTestAPI(t, deadQueue{})
	admin := api.token(t, "admin")

	w := api.submit(t, nil, requiredUploads)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	id := decode[dto.SubmitApplicationResponse](t, w).ApplicationID

	w = api.doJSON(http.MethodPut, "/api/v1/admin/applications/"+id+"/status?status=approved", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[dto.UpdateStatusResponse](t, w).MembershipNumber)
}

func TestLoginFlow(t *testing.T) {
	api := newTestAPI(t, nil)
	authService := services.NewAuthService(api.repos.Users, api.jwt, zerolog.Nop())
	_, err := authService.CreateUser(context.Background(), &dto.CreateUserRequest{Email: "admin@sesi.co.in", Password: "changeme123"})
	require.NoError(t, err)

	w := api.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@sesi.co.in", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", decode[dto.ErrorResponse](t, w).Detail)

	w = api.doJSON(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@sesi.co.in", "password": "changeme123"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[dto.LoginResponse](t, w)
	assert.Equal(t, "bearer", login.TokenType)

	w = api.doJSON(http.MethodGet, "/api/v1/admin/dashboard", login.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicSiteRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")

	w := api.doJSON(http.MethodGet, "/api/v1/seo/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shoulder & Elbow Society of India", decode[models.PageSEO](t, w).Title)

	w = api.doJSON(http.MethodPut, "/api/v1/admin/seo/home", editor, map[string]string{"title": "SESI Home"})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/seo/home", "", nil)
	assert.Equal(t, "SESI Home", decode[models.PageSEO](t, w).Title)

	w = api.doJSON(http.MethodGet, "/api/v1/states/ka/districts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.District](t, w), 1)

	w = api.doJSON(http.MethodGet, "/api/v1/states/zz/districts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	draft := false
	w = api.doJSON(http.MethodPost, "/api/v1/admin/news", editor, dto.NewsRequest{Title: "Soon", Content: "x", Category: "society", IsPublished: &draft})
	require.Equal(t, http.StatusCreated, w.Code)
	newsID := decode[models.News](t, w).ID

	w = api.doJSON(http.MethodGet, "/api/v1/news/"+newsID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/admin/news/"+newsID, editor, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, "/api/v1/news", "", nil)
	assert.Empty(t, decode[[]models.News](t, w))

	w = api.doJSON(http.MethodGet, "/api/v1/events?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.doJSON(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.doJSON(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminUpload(t *testing.T) {
	api := newTestAPI(t, nil)
	editor := api.token(t, "editor")

	upload := func(subfolder, name string) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("image-bytes"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/upload?subfolder="+subfolder, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return api.do(req, editor)
	}

	w := upload("gallery", "photo.png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[dto.UploadResponse](t, w)
	assert.True(t, strings.HasPrefix(resp.Path, "/uploads/gallery/"))

	assert.Equal(t, http.StatusBadRequest, upload("gallery", "script.sh").Code)
	assert.Equal(t, http.StatusForbidden, upload("certificates", "photo.png").Code)
}

func TestSwaggerDocs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupSwagger(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc["basePath"])
	assert.Contains(t, doc["paths"], "/admin/applications/{id}/status")
	assert.Contains(t, doc["paths"], "/admin/gallery/albums/{id}/photos/bulk")
}

package services

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories/memory"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/auth"
	"github.com/sesi/membership/internal/pkg/filestorage"
)

func newAuthService(t *testing.T) (*authServiceImpl, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "sesi-test"})
	svc := NewAuthService(memory.NewRepositories().Users, jwtService, zerolog.Nop()).(*authServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, jwtService
}

func TestAuthService_LoginFlow(t *testing.T) {
	ctx := context.Background()
	svc, jwtService := newAuthService(t)

	created, err := svc.EnsureUser(ctx, &dto.CreateUserRequest{Email: "Admin@SESI.co.in", Password: "changeme123"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureUser(ctx, &dto.CreateUserRequest{Email: "admin@sesi.co.in", Password: "another-pass"})
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@sesi.co.in", Password: "changeme123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Equal(t, "SESI Admin", resp.User.FullName)

	claims, err := jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin@sesi.co.in", claims.Email)
	assert.Equal(t, "admin", claims.Role)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "admin@sesi.co.in", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@sesi.co.in", Password: "changeme123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_DisabledAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	hash, err := auth.HashPasswordWithCost("changeme123", bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, svc.users.Create(ctx, &models.User{
		ID: "u1", Email: "old@sesi.co.in", PasswordHash: hash, Role: models.RoleEditor, IsActive: false,
	}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "old@sesi.co.in", Password: "changeme123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthService_CreateUserValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthService(t)

	_, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "e@sesi.co.in", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "e@sesi.co.in", Password: "changeme123", Role: "owner"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	user, err := svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "e@sesi.co.in", Password: "changeme123", Role: "Editor", FullName: "Content Team"})
	require.NoError(t, err)
	assert.Equal(t, "editor", user.Role)

	_, err = svc.CreateUser(ctx, &dto.CreateUserRequest{Email: "E@sesi.co.in", Password: "changeme123"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMemberService(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	svc := NewMemberService(repos.Members, zerolog.Nop())

	number := "SESI-2025-0002"
	a, err := svc.Create(ctx, &dto.MemberRequest{FullName: "Zara Iyer", Email: "z@example.com", MembershipType: "Life Member", MembershipNumber: &number, State: "Kerala"})
	require.NoError(t, err)
	assert.Equal(t, models.MemberActive, a.Status)
	assert.False(t, a.JoinedDate.IsZero())

	blank := ""
	b, err := svc.Create(ctx, &dto.MemberRequest{FullName: "Arjun Nair", Email: "a@example.com", MembershipType: "Annual", MembershipNumber: &blank, Status: "inactive"})
	require.NoError(t, err)
	assert.Nil(t, b.MembershipNumber)

	_, err = svc.Create(ctx, &dto.MemberRequest{FullName: "Copy", Email: "c@example.com", MembershipType: "Annual", MembershipNumber: &number})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	public, err := svc.ListPublic(ctx, dto.MemberListQuery{}, 1, 20)
	require.NoError(t, err)
	items := public.Items.([]dto.PublicMember)
	require.Len(t, items, 1)
	assert.Equal(t, "Zara Iyer", items[0].FullName)
	assert.Equal(t, int64(1), public.Pagination.TotalItems)

	all, err := svc.ListAll(ctx, dto.MemberListQuery{}, 0, 0)
	require.NoError(t, err)
	members := all.Items.([]*models.Member)
	require.Len(t, members, 2)
	assert.Equal(t, "Arjun Nair", members[0].FullName)
	assert.Equal(t, 20, all.Pagination.PageSize)

	updated, err := svc.Update(ctx, a.ID, &dto.MemberRequest{FullName: "Zara K Iyer", Email: "z@example.com", MembershipType: "Life Member", MembershipNumber: &number})
	require.NoError(t, err)
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)
	assert.Equal(t, a.JoinedDate, updated.JoinedDate)

	require.NoError(t, svc.Delete(ctx, b.ID))
	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestReferenceService(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	require.NoError(t, repos.Reference.UpsertState(ctx, &models.State{ID: "kl", Name: "Kerala", Code: "KL"}))
	require.NoError(t, repos.Reference.UpsertDistrict(ctx, &models.District{ID: "kl-tvm", Name: "Thiruvananthapuram", StateID: "kl"}))
	svc := NewReferenceService(repos.Reference)

	states, err := svc.ListStates(ctx)
	require.NoError(t, err)
	assert.Len(t, states, 1)

	districts, err := svc.ListDistricts(ctx, "kl")
	require.NoError(t, err)
	assert.Len(t, districts, 1)

	_, err = svc.ListDistricts(ctx, "xx")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestContentService_News(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	svc := NewContentService(repos.News, repos.Events, zerolog.Nop())

	draft := false
	n, err := svc.CreateNews(ctx, &dto.NewsRequest{Title: "Draft", Content: "x", Category: "society", IsPublished: &draft})
	require.NoError(t, err)
	assert.Equal(t, "SESI Admin", n.Author)
	assert.False(t, n.PublishedDate.IsZero())

	_, err = svc.GetNews(ctx, n.ID, false)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	got, err := svc.GetNews(ctx, n.ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Draft", got.Title)

	published, err := svc.UpdateNews(ctx, n.ID, &dto.NewsRequest{Title: "Out now", Content: "y", Category: "society"})
	require.NoError(t, err)
	assert.True(t, published.IsPublished)
	assert.Equal(t, n.CreatedAt, published.CreatedAt)
	assert.Equal(t, n.PublishedDate, published.PublishedDate)

	list, err := svc.ListNews(ctx, models.NewsFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteNews(ctx, n.ID))
	assert.ErrorIs(t, svc.DeleteNews(ctx, n.ID), apperrors.ErrResourceNotFound)
}

func TestContentService_Events(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	svc := NewContentService(repos.News, repos.Events, zerolog.Nop())

	start := time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC)
	e, err := svc.CreateEvent(ctx, &dto.EventRequest{Title: "SESICON", Description: "Annual meet", EventType: "conference", StartDate: start, Venue: "Hall A", City: "Kochi"})
	require.NoError(t, err)
	assert.Equal(t, models.EventUpcoming, e.Status)

	_, err = svc.CreateEvent(ctx, &dto.EventRequest{Title: "Workshop", Description: "Hands on", EventType: "workshop", StartDate: start, Venue: "Lab", City: "Pune", Status: "completed"})
	require.NoError(t, err)

	upcoming, err := svc.ListEvents(ctx, dto.EventQuery{Status: "upcoming"}, 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "SESICON", upcoming[0].Title)

	limited, err := svc.ListEvents(ctx, dto.EventQuery{}, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = svc.ListEvents(ctx, dto.EventQuery{Status: "cancelled"}, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	updated, err := svc.UpdateEvent(ctx, e.ID, &dto.EventRequest{Title: "SESICON 2025", Description: "Annual meet", EventType: "conference", StartDate: start, Venue: "Hall B", City: "Kochi", Status: "ongoing"})
	require.NoError(t, err)
	assert.Equal(t, models.EventOngoing, updated.Status)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateEvent(ctx, "missing", &dto.EventRequest{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestSEOService(t *testing.T) {
	ctx := context.Background()
	svc := NewSEOService(memory.NewRepositories().SEO)

	def, err := svc.Get(ctx, "About")
	require.NoError(t, err)
	assert.Equal(t, "about", def.PageName)
	assert.Equal(t, "Shoulder & Elbow Society of India", def.Title)

	saved, err := svc.Upsert(ctx, " About ", &dto.SEORequest{Title: "About SESI", Keywords: "history"})
	require.NoError(t, err)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := svc.Get(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "About SESI", got.Title)

	_, err = svc.Upsert(ctx, "  ", &dto.SEORequest{Title: "x"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStatsService(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories()
	svc := NewStatsService(repos)

	require.NoError(t, repos.Members.Create(ctx, &models.Member{ID: "m1", Status: models.MemberActive}))
	require.NoError(t, repos.Members.Create(ctx, &models.Member{ID: "m2", Status: models.MemberInactive}))
	require.NoError(t, repos.Events.Create(ctx, &models.Event{ID: "e1", Status: models.EventUpcoming}))
	require.NoError(t, repos.Events.Create(ctx, &models.Event{ID: "e2", Status: models.EventCompleted}))
	require.NoError(t, repos.News.Create(ctx, &models.News{ID: "n1", IsPublished: true}))
	require.NoError(t, repos.Applications.Create(ctx, &models.MembershipApplication{ID: "a1", Status: models.StatusSubmitted}))
	require.NoError(t, repos.Applications.Create(ctx, &models.MembershipApplication{ID: "a2", Status: models.StatusUnderReview}))
	require.NoError(t, repos.Committee.Create(ctx, &models.CommitteeMember{ID: "c1", Slug: "dr-a"}))
	require.NoError(t, repos.Gallery.CreateAlbum(ctx, &models.GalleryAlbum{ID: "g1"}))
	require.NoError(t, repos.Publications.Create(ctx, &models.Publication{ID: "p1"}))
	require.NoError(t, repos.Contact.Create(ctx, &models.ContactMessage{ID: "k1", Status: models.ContactNew}))
	require.NoError(t, repos.Contact.Create(ctx, &models.ContactMessage{ID: "k2", Status: models.ContactRead}))

	public, err := svc.Public(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.PublicStatistics{TotalMembers: 1, TotalEvents: 2, UpcomingEvents: 1, TotalPublications: 1}, *public)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.DashboardStats{
		TotalMembers:         2,
		ActiveMembers:        1,
		TotalEvents:          2,
		UpcomingEvents:       1,
		TotalNews:            1,
		TotalApplications:    2,
		PendingApplications:  1,
		ApprovedApplications: 0,
		CommitteeMembers:     1,
		TotalAlbums:          1,
		TotalPublications:    1,
		NewContactMessages:   1,
	}, *dash)
}

func TestUploadService(t *testing.T) {
	ctx := context.Background()
	storage, err := filestorage.NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewUploadService(storage, zerolog.Nop())

	files := multipartFiles(t, map[string]fileSpec{
		"ok":  {"banner.JPG", 512},
		"exe": {"tool.exe", 10},
		"big": {"huge.pdf", 6 << 20},
	})

	resp, err := svc.Upload(ctx, "gallery/2025", files["ok"])
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(512), resp.Size)
	assert.Regexp(t, `^/uploads/gallery/2025/[0-9a-f-]+\.jpg$`, resp.Path)
	exists, err := storage.Exists(ctx, resp.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Upload(ctx, "gallery", files["exe"])
	assert.ErrorIs(t, err, apperrors.ErrInvalidFile)

	_, err = svc.Upload(ctx, "gallery", files["big"])
	assert.ErrorIs(t, err, apperrors.ErrFileTooLarge)

	_, err = svc.Upload(ctx, "certificates", files["ok"])
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = svc.Upload(ctx, "../etc", files["ok"])
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.Upload(ctx, "gallery", nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingDocument)

	_, err = svc.Upload(ctx, "gallery", &multipart.FileHeader{Filename: "lost.png", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFile)
}

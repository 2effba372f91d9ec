package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sesi/membership/internal/app/models"
)

// ApplicationStore persists membership applications
type ApplicationStore interface {
	Create(ctx context.Context, app *models.MembershipApplication) error
	GetByID(ctx context.Context, id string) (*models.MembershipApplication, error)
	// List returns applications newest first
	List(ctx context.Context, filter models.ApplicationFilter) ([]*models.MembershipApplication, error)
	// UpdateReview stamps status and review fields; ErrApplicationNotFound if the row is gone
	UpdateReview(ctx context.Context, id string, review models.Review) error
	// MarkApproved moves a not-yet-approved application to approved with its
	// number. It returns ErrAlreadyApproved when another request got there
	// first and ErrMembershipNumberTaken when the number is already used.
	MarkApproved(ctx context.Context, id string, approval models.Approval) error
	SetCertificatePath(ctx context.Context, id, path string) error
	Count(ctx context.Context, status *models.ApplicationStatus) (int64, error)
}

// NumberAllocator hands out membership numbers, one atomic step per call
type NumberAllocator interface {
	Allocate(ctx context.Context, year int) (string, error)
}

// MemberStore persists the member directory
type MemberStore interface {
	// Create returns ErrMembershipNumberTaken when another member or another
	// application holds the number, ErrMemberAlreadyExists when the
	// application id is already used
	Create(ctx context.Context, m *models.Member) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*models.Member, error)
	List(ctx context.Context, filter models.MemberFilter) ([]*models.Member, int64, error)
	Update(ctx context.Context, m *models.Member) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status *models.MemberStatus) (int64, error)
}

// ReferenceStore holds states and districts
type ReferenceStore interface {
	ListStates(ctx context.Context) ([]*models.State, error)
	GetState(ctx context.Context, id string) (*models.State, error)
	ListDistricts(ctx context.Context, stateID string) ([]*models.District, error)
	GetDistrict(ctx context.Context, id string) (*models.District, error)
	UpsertState(ctx context.Context, s *models.State) error
	UpsertDistrict(ctx context.Context, d *models.District) error
}

// UserStore holds back-office accounts
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// NewsStore holds news items
type NewsStore interface {
	Create(ctx context.Context, n *models.News) error
	GetByID(ctx context.Context, id string) (*models.News, error)
	List(ctx context.Context, filter models.NewsFilter) ([]*models.News, error)
	Update(ctx context.Context, n *models.News) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// EventStore holds events
type EventStore interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, status *models.EventStatus) (int64, error)
}

// SEOStore holds per-page meta tags
type SEOStore interface {
	Get(ctx context.Context, page string) (*models.PageSEO, error)
	List(ctx context.Context) ([]*models.PageSEO, error)
	Upsert(ctx context.Context, seo *models.PageSEO) error
}

// CommitteeStore holds committee members
type CommitteeStore interface {
	// Create returns ErrCommitteeSlugTaken when the slug is in use
	Create(ctx context.Context, m *models.CommitteeMember) error
	GetByID(ctx context.Context, id string) (*models.CommitteeMember, error)
	GetBySlug(ctx context.Context, slug string) (*models.CommitteeMember, error)
	// List orders by display_order, then name
	List(ctx context.Context, filter models.CommitteeFilter) ([]*models.CommitteeMember, error)
	Update(ctx context.Context, m *models.CommitteeMember) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// GalleryStore holds albums and their photos. Listed and fetched albums
// carry a live photo count.
type GalleryStore interface {
	CreateAlbum(ctx context.Context, a *models.GalleryAlbum) error
	GetAlbum(ctx context.Context, id string) (*models.GalleryAlbum, error)
	// ListAlbums returns albums newest first
	ListAlbums(ctx context.Context, filter models.AlbumFilter) ([]*models.GalleryAlbum, error)
	UpdateAlbum(ctx context.Context, a *models.GalleryAlbum) error
	// DeleteAlbum removes the album and its photos and returns the removed photos
	DeleteAlbum(ctx context.Context, id string) ([]*models.GalleryPhoto, error)
	CountAlbums(ctx context.Context) (int64, error)

	// AddPhotos appends photos to the album in one step. Display order continues
	// after the album's last photo and the first photo becomes the cover when
	// the album has none.
	AddPhotos(ctx context.Context, albumID string, photos []*models.GalleryPhoto) error
	// ListPhotos returns photos in display order
	ListPhotos(ctx context.Context, albumID string) ([]*models.GalleryPhoto, error)
	// DeletePhoto returns the removed photo
	DeletePhoto(ctx context.Context, albumID, photoID string) (*models.GalleryPhoto, error)
}

// PublicationStore holds publications
type PublicationStore interface {
	Create(ctx context.Context, p *models.Publication) error
	GetByID(ctx context.Context, id string) (*models.Publication, error)
	// List returns publications newest first
	List(ctx context.Context, filter models.PublicationFilter) ([]*models.Publication, error)
	Update(ctx context.Context, p *models.Publication) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// ContactStore holds contact form submissions
type ContactStore interface {
	Create(ctx context.Context, m *models.ContactMessage) error
	// List returns messages newest first
	List(ctx context.Context, filter models.ContactFilter) ([]*models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error
	Count(ctx context.Context, status *models.ContactStatus) (int64, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Applications ApplicationStore
	Allocator    NumberAllocator
	Members      MemberStore
	Reference    ReferenceStore
	Users        UserStore
	News         NewsStore
	Events       EventStore
	SEO          SEOStore
	Committee    CommitteeStore
	Gallery      GalleryStore
	Publications PublicationStore
	Contact      ContactStore
}

// NewRepositories initializes the Postgres repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Applications: NewApplicationRepository(db),
		Allocator:    NewNumberAllocator(db),
		Members:      NewMemberRepository(db),
		Reference:    NewReferenceRepository(db),
		Users:        NewUserRepository(db),
		News:         NewNewsRepository(db),
		Events:       NewEventRepository(db),
		SEO:          NewSEORepository(db),
		Committee:    NewCommitteeRepository(db),
		Gallery:      NewGalleryRepository(db),
		Publications: NewPublicationRepository(db),
		Contact:      NewContactRepository(db),
	}
}

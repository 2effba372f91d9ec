// Package memory provides in-process implementations of the repository
// interfaces. They back the test suites and the --memory development mode and
// share one lock so that the allocator can see applications and members.
package memory

import (
	"sync"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/repositories"
)

type store struct {
	mu sync.RWMutex

	applications map[string]*models.MembershipApplication
	members      map[string]*models.Member
	counters     map[int]int
	states       map[string]*models.State
	districts    map[string]*models.District
	users        map[string]*models.User // keyed by lower-cased email
	news         map[string]*models.News
	events       map[string]*models.Event
	seo          map[string]*models.PageSEO
	committee    map[string]*models.CommitteeMember
	albums       map[string]*models.GalleryAlbum
	photos       map[string]*models.GalleryPhoto
	publications map[string]*models.Publication
	contacts     map[string]*models.ContactMessage
}

func newStore() *store {
	return &store{
		applications: make(map[string]*models.MembershipApplication),
		members:      make(map[string]*models.Member),
		counters:     make(map[int]int),
		states:       make(map[string]*models.State),
		districts:    make(map[string]*models.District),
		users:        make(map[string]*models.User),
		news:         make(map[string]*models.News),
		events:       make(map[string]*models.Event),
		seo:          make(map[string]*models.PageSEO),
		committee:    make(map[string]*models.CommitteeMember),
		albums:       make(map[string]*models.GalleryAlbum),
		photos:       make(map[string]*models.GalleryPhoto),
		publications: make(map[string]*models.Publication),
		contacts:     make(map[string]*models.ContactMessage),
	}
}

// NewRepositories returns a fresh, empty set of in-memory repositories
func NewRepositories() *repositories.Repositories {
	s := newStore()
	return &repositories.Repositories{
		Applications: &ApplicationRepository{s: s},
		Allocator:    &NumberAllocator{s: s},
		Members:      &MemberRepository{s: s},
		Reference:    &ReferenceRepository{s: s},
		Users:        &UserRepository{s: s},
		News:         &NewsRepository{s: s},
		Events:       &EventRepository{s: s},
		SEO:          &SEORepository{s: s},
		Committee:    &CommitteeRepository{s: s},
		Gallery:      &GalleryRepository{s: s},
		Publications: &PublicationRepository{s: s},
		Contact:      &ContactRepository{s: s},
	}
}

var (
	_ repositories.ApplicationStore = (*ApplicationRepository)(nil)
	_ repositories.NumberAllocator  = (*NumberAllocator)(nil)
	_ repositories.MemberStore      = (*MemberRepository)(nil)
	_ repositories.ReferenceStore   = (*ReferenceRepository)(nil)
	_ repositories.UserStore        = (*UserRepository)(nil)
	_ repositories.NewsStore        = (*NewsRepository)(nil)
	_ repositories.EventStore       = (*EventRepository)(nil)
	_ repositories.SEOStore         = (*SEORepository)(nil)
	_ repositories.CommitteeStore   = (*CommitteeRepository)(nil)
	_ repositories.GalleryStore     = (*GalleryRepository)(nil)
	_ repositories.PublicationStore = (*PublicationRepository)(nil)
	_ repositories.ContactStore     = (*ContactRepository)(nil)
)

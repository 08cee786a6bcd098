package content

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
)

// Collection is a thin CRUD wrapper over one store key holding a JSON
// array: read, mutate, write back. All the admin content lists behave
// identically, only the record shape differs.
type Collection[T any] struct {
	store store.Store
	key   string
	id    func(*T) *string

	mu sync.Mutex
}

func newCollection[T any](st store.Store, key string, id func(*T) *string) *Collection[T] {
	return &Collection[T]{store: st, key: key, id: id}
}

func (c *Collection[T]) List(ctx context.Context) []T {
	var items []T
	if err := c.store.Get(ctx, c.key, &items); err != nil {
		return nil
	}
	return items
}

func (c *Collection[T]) Get(ctx context.Context, id string) *T {
	items := c.List(ctx)
	for i := range items {
		if *c.id(&items[i]) == id {
			return &items[i]
		}
	}
	return nil
}

func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idField := c.id(&item); *idField == "" {
		*idField = uuid.NewString()
	}
	next := append([]T{item}, c.List(ctx)...)
	if err := c.store.Set(ctx, c.key, next); err != nil {
		return item, fmt.Errorf("failed to persist %s: %w", c.key, err)
	}
	return item, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, patch T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.List(ctx)
	var updated *T
	for i := range items {
		if *c.id(&items[i]) == id {
			*c.id(&patch) = id
			items[i] = patch
			updated = &items[i]
			break
		}
	}
	if updated == nil {
		return nil, fmt.Errorf("%s: no item with id %s", c.key, id)
	}
	if err := c.store.Set(ctx, c.key, items); err != nil {
		return nil, fmt.Errorf("failed to persist %s: %w", c.key, err)
	}
	return updated, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.List(ctx)
	next := items[:0:0]
	for i := range items {
		if *c.id(&items[i]) != id {
			next = append(next, items[i])
		}
	}
	if len(next) == len(items) {
		return false, nil
	}
	if err := c.store.Set(ctx, c.key, next); err != nil {
		return false, err
	}
	return true, nil
}

// Service groups the admin-managed content collections plus the two
// singleton documents (home content and theme).
type Service struct {
	Announcements *Collection[models.Announcement]
	Cabinet       *Collection[models.CabinetMember]
	Faculty       *Collection[models.FacultyMember]
	Programs      *Collection[models.Program]
	Degrees       *Collection[models.Degree]
	Gallery       *Collection[models.GalleryAlbum]

	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{
		Announcements: newCollection(st, store.KeyAnnouncements, func(a *models.Announcement) *string { return &a.ID }),
		Cabinet:       newCollection(st, store.KeyCabinet, func(m *models.CabinetMember) *string { return &m.ID }),
		Faculty:       newCollection(st, store.KeyFaculty, func(m *models.FacultyMember) *string { return &m.ID }),
		Programs:      newCollection(st, store.KeyPrograms, func(p *models.Program) *string { return &p.ID }),
		Degrees:       newCollection(st, store.KeyDegrees, func(d *models.Degree) *string { return &d.ID }),
		Gallery:       newCollection(st, store.KeyGalleryAlbums, func(g *models.GalleryAlbum) *string { return &g.ID }),
		store:         st,
	}
}

func (s *Service) Home(ctx context.Context) models.HomeContent {
	var home models.HomeContent
	_ = s.store.Get(ctx, store.KeyHomeContent, &home)
	return home
}

func (s *Service) SetHome(ctx context.Context, home models.HomeContent) error {
	return s.store.Set(ctx, store.KeyHomeContent, home)
}

func (s *Service) Theme(ctx context.Context) models.Theme {
	var theme models.Theme
	if err := s.store.Get(ctx, store.KeyTheme, &theme); err != nil {
		return models.Theme{}
	}
	return theme
}

func (s *Service) SetTheme(ctx context.Context, theme models.Theme) error {
	return s.store.Set(ctx, store.KeyTheme, theme)
}

// EnsureSeed writes the demo cabinet and faculty entries on first run.
func (s *Service) EnsureSeed(ctx context.Context) error {
	var cabinet []models.CabinetMember
	if err := s.store.Get(ctx, store.KeyCabinet, &cabinet); err != nil {
		seed := []models.CabinetMember{
			{
				ID:        "cab-1",
				Name:      "Muhammad Adan",
				Role:      "President",
				Degree:    "BS Computer Science",
				AgNo:      "2022-AG-7993",
				Interests: []string{"Leadership", "Community", "Events"},
				Email:     "adan@example.com",
				Summary:   "Leads TCS operations, manages society vision, and coordinates with faculty and industry.",
			},
			{
				ID:        "cab-2",
				Name:      "Mannoor B.",
				Role:      "Vice President",
				Degree:    "BS Software Engineering",
				AgNo:      "2023-AG-12001",
				Interests: []string{"Management", "Design", "Operations"},
				Email:     "mannoor@example.com",
				Summary:   "Supports president, supervises teams, and ensures smooth execution of events.",
			},
		}
		if err := s.store.Set(ctx, store.KeyCabinet, seed); err != nil {
			return err
		}
	}

	var faculty []models.FacultyMember
	if err := s.store.Get(ctx, store.KeyFaculty, &faculty); err != nil {
		seed := []models.FacultyMember{
			{
				ID:              "fac-1",
				Name:            "Dr. ABC Example",
				DepartmentRole:  "Professor",
				Education:       "PhD Computer Science",
				ExperienceYears: 10,
				Expertise:       []string{"Machine Learning", "Data Mining", "Research"},
				Courses:         []string{"AI", "ML", "Data Science"},
				Universities:    []string{"UAF"},
				Email:           "abc@example.com",
				Summary:         "Faculty mentor for TCS, provides guidance on research, competitions, and academic direction.",
			},
		}
		if err := s.store.Set(ctx, store.KeyFaculty, seed); err != nil {
			return err
		}
	}
	return nil
}

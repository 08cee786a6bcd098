package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
)

var ErrEventNotFound = errors.New("event not found")

// Catalog is the CRUD surface over event records. Writes belong to the
// admin dashboard; the ticketing engine reads only.
type Catalog struct {
	Store store.Store

	mu sync.Mutex
}

func NewCatalog(st store.Store) *Catalog {
	return &Catalog{Store: st}
}

// EnsureSeed writes the demo events on first run. An existing (even
// empty) collection is left alone.
func (c *Catalog) EnsureSeed(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var existing []models.Event
	if err := c.Store.Get(ctx, store.KeyEvents, &existing); err == nil {
		return nil
	}
	return c.Store.Set(ctx, store.KeyEvents, seedEvents())
}

func (c *Catalog) List(ctx context.Context) []models.Event {
	var evts []models.Event
	if err := c.Store.Get(ctx, store.KeyEvents, &evts); err != nil {
		return nil
	}
	return evts
}

// ListUpcoming filters out past events; this is the set the registration
// form offers.
func (c *Catalog) ListUpcoming(ctx context.Context) []models.Event {
	var upcoming []models.Event
	for _, e := range c.List(ctx) {
		if e.Status != models.EventPast {
			upcoming = append(upcoming, e)
		}
	}
	return upcoming
}

func (c *Catalog) Get(ctx context.Context, id string) (*models.Event, error) {
	for _, e := range c.List(ctx) {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (c *Catalog) Create(ctx context.Context, event models.Event) (*models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	evts := c.List(ctx)
	next := append([]models.Event{event}, evts...)
	if err := c.Store.Set(ctx, store.KeyEvents, next); err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}
	return &event, nil
}

func (c *Catalog) Update(ctx context.Context, id string, patch models.Event) (*models.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evts := c.List(ctx)
	var updated *models.Event
	for i := range evts {
		if evts[i].ID == id {
			patch.ID = id
			evts[i] = patch
			updated = &evts[i]
			break
		}
	}
	if updated == nil {
		return nil, ErrEventNotFound
	}
	if err := c.Store.Set(ctx, store.KeyEvents, evts); err != nil {
		return nil, fmt.Errorf("failed to persist event: %w", err)
	}
	return updated, nil
}

func (c *Catalog) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	evts := c.List(ctx)
	next := evts[:0:0]
	for _, e := range evts {
		if e.ID != id {
			next = append(next, e)
		}
	}
	if len(next) == len(evts) {
		return false, nil
	}
	if err := c.Store.Set(ctx, store.KeyEvents, next); err != nil {
		return false, err
	}
	return true, nil
}

func seedEvents() []models.Event {
	return []models.Event{
		{
			ID:             "evt-1",
			Title:          "Tech & Entrepreneurship Summit 4.0",
			Date:           "2025-10-28",
			Time:           "18:00",
			Venue:          "D-Ground (UAF)",
			Status:         models.EventOpen,
			Featured:       true,
			Capacity:       300,
			SeatsRemaining: 120,
			Tags:           []string{"Keynote", "Panel", "Social Night"},
			Description:    "A featured TCS event with talks, networking and a social night.",
		},
		{
			ID:             "evt-2",
			Title:          "Programming in Big Data – Seminar",
			Date:           "2025-10-17",
			Time:           "11:00",
			Venue:          "Lecture Theatre, CS Dept.",
			Status:         models.EventOpen,
			Featured:       false,
			Capacity:       150,
			SeatsRemaining: 70,
			Tags:           []string{"Seminar", "Big Data"},
			Description:    "Seminar on Big Data programming practices.",
		},
	}
}

package analytics

import (
	"context"

	"tcs-portal/internal/models"
)

// TicketSource is the read-only ticket view the aggregates run over.
type TicketSource interface {
	List(ctx context.Context) []models.Ticket
}

// EventSource resolves event metadata for per-event breakdowns.
type EventSource interface {
	List(ctx context.Context) []models.Event
}

// Service computes the admin dashboard aggregates. Everything derives
// from the current collections on each call; there is no separate
// analytics store.
type Service struct {
	Tickets TicketSource
	Events  EventSource
}

func NewService(tickets TicketSource, events EventSource) *Service {
	return &Service{Tickets: tickets, Events: events}
}

// Overview is the dashboard summary: totals plus a per-event breakdown.
type Overview struct {
	TotalTickets   int            `json:"totalTickets"`
	TotalCheckedIn int            `json:"totalCheckedIn"`
	TotalEvents    int            `json:"totalEvents"`
	Departments    map[string]int `json:"departments"`
	Events         []EventMetrics `json:"events"`
}

// EventMetrics aggregates one event's registrations.
type EventMetrics struct {
	EventID      string  `json:"eventId"`
	Title        string  `json:"title"`
	Status       string  `json:"status"`
	Capacity     int     `json:"capacity"`
	Issued       int     `json:"issued"`
	CheckedIn    int     `json:"checkedIn"`
	CheckInRate  float64 `json:"checkInRate"`
	CapacityUsed float64 `json:"capacityUsed"`
}

func (s *Service) Overview(ctx context.Context) Overview {
	allEvents := s.Events.List(ctx)
	allTickets := s.Tickets.List(ctx)

	perEvent := make(map[string]*EventMetrics, len(allEvents))
	ordered := make([]*EventMetrics, 0, len(allEvents))
	for _, e := range allEvents {
		m := &EventMetrics{EventID: e.ID, Title: e.Title, Status: e.Status, Capacity: e.Capacity}
		perEvent[e.ID] = m
		ordered = append(ordered, m)
	}

	overview := Overview{
		TotalEvents: len(allEvents),
		Departments: make(map[string]int),
	}
	for _, t := range allTickets {
		overview.TotalTickets++
		if t.CheckedIn {
			overview.TotalCheckedIn++
		}
		if t.Department != "" {
			overview.Departments[t.Department]++
		}
		m, ok := perEvent[t.EventID]
		if !ok {
			// Ticket for a deleted event still counts in the totals.
			continue
		}
		m.Issued++
		if t.CheckedIn {
			m.CheckedIn++
		}
	}

	overview.Events = make([]EventMetrics, 0, len(ordered))
	for _, m := range ordered {
		if m.Issued > 0 {
			m.CheckInRate = float64(m.CheckedIn) / float64(m.Issued)
		}
		if m.Capacity > 0 {
			m.CapacityUsed = float64(m.Issued) / float64(m.Capacity)
		}
		overview.Events = append(overview.Events, *m)
	}
	return overview
}

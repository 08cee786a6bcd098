package checkin

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"tcs-portal/internal/models"
	"tcs-portal/internal/tickets"
	"tcs-portal/internal/tickets/qr"
)

var ErrAlreadyCheckedIn = errors.New("already checked-in")

// csvColumns is the fixed export order.
var csvColumns = []string{
	"publicTicketId", "agNo", "name", "email", "eventId",
	"eventTitle", "department", "semester", "createdAt", "checkedIn",
}

// EventSource resolves event titles for the CSV join.
type EventSource interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

// Service is the admin surface over the ticket records: natural-key
// lookup, check-in toggling, deletion and CSV export. QR decoding feeds
// Scan; the camera and barcode reader stay outside.
type Service struct {
	Tickets *tickets.Service
	Events  EventSource
}

func NewService(ticketSvc *tickets.Service, events EventSource) *Service {
	return &Service{Tickets: ticketSvc, Events: events}
}

// FindTicket matches on (AG No, event); AG No comparison is
// case-insensitive.
func (s *Service) FindTicket(ctx context.Context, agNo, eventID string) *models.Ticket {
	return s.Tickets.Find(ctx, agNo, eventID)
}

func (s *Service) SetCheckedIn(ctx context.Context, ticketID string, checkedIn bool) (*models.Ticket, error) {
	return s.Tickets.SetCheckedIn(ctx, ticketID, checkedIn)
}

// DeleteTicket removes the record, reopening the student's eligibility to
// re-register for that event.
func (s *Service) DeleteTicket(ctx context.Context, ticketID string) (bool, error) {
	return s.Tickets.Delete(ctx, ticketID)
}

// QuickCheckIn is the manual-entry path: AG No plus event. It refuses a
// second check-in so gate staff see the duplicate instead of silently
// re-flagging.
func (s *Service) QuickCheckIn(ctx context.Context, agNo, eventID string) (*models.Ticket, error) {
	ag := strings.ToUpper(strings.TrimSpace(agNo))
	if ag == "" || eventID == "" {
		return nil, fmt.Errorf("AG No and event are both required")
	}
	found := s.Tickets.Find(ctx, ag, eventID)
	if found == nil {
		return nil, fmt.Errorf("no ticket for %s at event %s: %w", ag, eventID, tickets.ErrTicketNotFound)
	}
	if found.CheckedIn {
		return found, ErrAlreadyCheckedIn
	}
	return s.Tickets.SetCheckedIn(ctx, found.ID, true)
}

// Scan handles raw scanner input. A full QR payload resolves by ticket ID
// (its embedded event wins); a bare string falls back to AG No matching
// against the supplied event.
func (s *Service) Scan(ctx context.Context, rawText, eventID string) (*models.Ticket, error) {
	payload, fromJSON := qr.Parse(rawText)
	if fromJSON && payload.TicketID != "" {
		ticket, err := s.Tickets.Get(ctx, payload.TicketID)
		if err != nil {
			return nil, err
		}
		if ticket.CheckedIn {
			return ticket, ErrAlreadyCheckedIn
		}
		return s.Tickets.SetCheckedIn(ctx, ticket.ID, true)
	}
	return s.QuickCheckIn(ctx, payload.AgNo, eventID)
}

// ExportCSV flattens the given tickets into comma-separated rows with a
// header line. The event title column is the joined display form
// "{eventId} • {title}".
func (s *Service) ExportCSV(ctx context.Context, ticketList []models.Ticket) (string, error) {
	titles := make(map[string]string)
	for _, t := range ticketList {
		if _, ok := titles[t.EventID]; ok {
			continue
		}
		title := "Event"
		if ev, err := s.Events.Get(ctx, t.EventID); err == nil && ev != nil {
			title = ev.Title
		}
		titles[t.EventID] = fmt.Sprintf("%s • %s", t.EventID, title)
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(csvColumns); err != nil {
		return "", err
	}
	for _, t := range ticketList {
		row := []string{
			t.PublicTicketID,
			t.AgNo,
			t.Name,
			t.Email,
			t.EventID,
			titles[t.EventID],
			t.Department,
			t.Semester,
			t.CreatedAt.Format(time.RFC3339),
			strconv.FormatBool(t.CheckedIn),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

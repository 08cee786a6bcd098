package checkin_test

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tcs-portal/internal/checkin"
	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
	"tcs-portal/internal/tickets"
	"tcs-portal/internal/tickets/qr"
)

type stubEvents struct {
	events map[string]models.Event
}

func (s *stubEvents) Get(ctx context.Context, id string) (*models.Event, error) {
	if e, ok := s.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func setup() (*checkin.Service, *tickets.Service) {
	events := &stubEvents{events: map[string]models.Event{
		"evt-1": {ID: "evt-1", Title: "Tech & Entrepreneurship Summit 4.0", Status: models.EventOpen},
		"evt-2": {ID: "evt-2", Title: "Programming in Big Data – Seminar", Status: models.EventOpen},
	}}
	ticketSvc := tickets.NewService(store.NewMemory(store.NewMemoryBus()), events)
	ticketSvc.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return checkin.NewService(ticketSvc, events), ticketSvc
}

func issue(t *testing.T, ticketSvc *tickets.Service, agNo, eventID string) *models.Ticket {
	t.Helper()
	ticket, err := ticketSvc.Issue(context.Background(), tickets.IssueInput{
		UserID:     "user-1",
		EventID:    eventID,
		FullName:   "Ali Khan",
		AgNo:       agNo,
		Email:      "ali@example.com",
		Department: "Computer Science",
		Semester:   "5th",
	})
	assert.NoError(t, err)
	return ticket
}

func TestQuickCheckIn(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	// Lowercase AG No still matches.
	checked, err := svc.QuickCheckIn(ctx, "2022-ag-7993", "evt-1")
	assert.NoError(t, err)
	assert.True(t, checked.CheckedIn)
}

func TestQuickCheckInRefusesSecondPass(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	_, err := svc.QuickCheckIn(ctx, "2022-AG-7993", "evt-1")
	assert.NoError(t, err)

	ticket, err := svc.QuickCheckIn(ctx, "2022-AG-7993", "evt-1")
	assert.ErrorIs(t, err, checkin.ErrAlreadyCheckedIn)
	assert.NotNil(t, ticket)
	assert.True(t, ticket.CheckedIn)
}

func TestQuickCheckInUnknownTicket(t *testing.T) {
	svc, _ := setup()

	_, err := svc.QuickCheckIn(context.Background(), "2022-AG-7993", "evt-1")
	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)
}

func TestQuickCheckInMissingFields(t *testing.T) {
	svc, _ := setup()

	_, err := svc.QuickCheckIn(context.Background(), "", "evt-1")
	assert.Error(t, err)

	_, err = svc.QuickCheckIn(context.Background(), "2022-AG-7993", "")
	assert.Error(t, err)
}

func TestScanFullPayload(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	ticket := issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	text, err := qr.FromTicket(*ticket).Encode()
	assert.NoError(t, err)

	// The payload's embedded event wins over the supplied one.
	checked, err := svc.Scan(ctx, text, "evt-2")
	assert.NoError(t, err)
	assert.Equal(t, ticket.ID, checked.ID)
	assert.True(t, checked.CheckedIn)
}

func TestScanBareAgNoFallback(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	checked, err := svc.Scan(ctx, "2022-ag-7993", "evt-1")
	assert.NoError(t, err)
	assert.True(t, checked.CheckedIn)
}

func TestScanAlreadyCheckedIn(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	ticket := issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	text, err := qr.FromTicket(*ticket).Encode()
	assert.NoError(t, err)

	_, err = svc.Scan(ctx, text, "evt-1")
	assert.NoError(t, err)

	_, err = svc.Scan(ctx, text, "evt-1")
	assert.ErrorIs(t, err, checkin.ErrAlreadyCheckedIn)
}

func TestDeleteTicketReopensRegistration(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	ticket := issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	deleted, err := svc.DeleteTicket(ctx, ticket.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	issue(t, ticketSvc, "2022-AG-7993", "evt-1")
}

func TestExportCSV(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	first := issue(t, ticketSvc, "2022-AG-7993", "evt-1")
	second := issue(t, ticketSvc, "2023-AG-12001", "evt-2")

	_, err := svc.SetCheckedIn(ctx, first.ID, true)
	assert.NoError(t, err)

	out, err := svc.ExportCSV(ctx, ticketSvc.List(ctx))
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "publicTicketId,agNo,name,email,eventId,eventTitle,department,semester,createdAt,checkedIn", lines[0])

	// Newest ticket first; its event title column is the joined form.
	assert.Contains(t, lines[1], second.PublicTicketID)
	assert.Contains(t, lines[1], "evt-2 • Programming in Big Data – Seminar")
	assert.Contains(t, lines[1], "false")
	assert.Contains(t, lines[2], first.PublicTicketID)
	assert.Contains(t, lines[2], "true")
	assert.Contains(t, lines[2], "2025-10-01T12:00:00Z")
}

func TestExportCSVQuotesEmbeddedCommas(t *testing.T) {
	ctx := context.Background()
	events := &stubEvents{events: map[string]models.Event{
		"evt-3": {ID: "evt-3", Title: "Hack, Build & Ship", Status: models.EventOpen},
	}}
	ticketSvc := tickets.NewService(store.NewMemory(store.NewMemoryBus()), events)
	svc := checkin.NewService(ticketSvc, events)

	_, err := ticketSvc.Issue(ctx, tickets.IssueInput{
		UserID:     "user-1",
		EventID:    "evt-3",
		FullName:   "Khan, Ali",
		AgNo:       "2022-AG-7993",
		Email:      "ali@example.com",
		Department: "Computer Science",
		Semester:   "5th",
	})
	assert.NoError(t, err)

	out, err := svc.ExportCSV(ctx, ticketSvc.List(ctx))
	assert.NoError(t, err)

	// Comma-carrying fields come back quoted so the row still splits
	// into exactly ten columns.
	assert.Contains(t, out, `"Khan, Ali"`)
	assert.Contains(t, out, `"evt-3 • Hack, Build & Ship"`)

	r := csv.NewReader(strings.NewReader(out))
	rows, err := r.ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Len(t, rows[1], 10)
	assert.Equal(t, "Khan, Ali", rows[1][2])
	assert.Equal(t, "evt-3 • Hack, Build & Ship", rows[1][5])
}

func TestExportCSVUnknownEventTitle(t *testing.T) {
	svc, ticketSvc := setup()
	ctx := context.Background()
	ticket := issue(t, ticketSvc, "2022-AG-7993", "evt-1")

	ticket.EventID = "evt-gone"
	out, err := svc.ExportCSV(ctx, []models.Ticket{*ticket})
	assert.NoError(t, err)
	assert.Contains(t, out, "evt-gone • Event")
}

func TestExportCSVEmpty(t *testing.T) {
	svc, _ := setup()

	out, err := svc.ExportCSV(context.Background(), nil)
	assert.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"publicTicketId", "agNo", "name", "email", "eventId",
		"eventTitle", "department", "semester", "createdAt", "checkedIn",
	}, ",")+"\n", out)
}

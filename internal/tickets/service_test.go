package tickets_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
	"tcs-portal/internal/tickets"
)

// stubEvents serves a fixed event list without touching the store.
type stubEvents struct {
	events map[string]models.Event
}

func (s *stubEvents) Get(ctx context.Context, id string) (*models.Event, error) {
	if e, ok := s.events[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func setupService() (*tickets.Service, *store.Memory) {
	st := store.NewMemory(store.NewMemoryBus())
	events := &stubEvents{events: map[string]models.Event{
		"evt-1": {ID: "evt-1", Title: "Tech & Entrepreneurship Summit 4.0", Status: models.EventOpen},
		"evt-2": {ID: "evt-2", Title: "Programming in Big Data – Seminar", Status: models.EventOpen},
		"evt-past": {ID: "evt-past", Title: "Old Meetup", Status: models.EventPast},
	}}
	svc := tickets.NewService(st, events)
	svc.Now = func() time.Time { return time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC) }
	return svc, st
}

func sampleInput() tickets.IssueInput {
	return tickets.IssueInput{
		UserID:     "user-1",
		EventID:    "evt-1",
		FullName:   "Ali Khan",
		AgNo:       "2022-AG-7993",
		Email:      "ali@example.com",
		Department: "Computer Science",
		Semester:   "5th",
	}
}

func TestIssueTicket(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	ticket, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, ticket.ID)
	assert.Equal(t, "2022-AG-7993", ticket.AgNo)
	assert.Equal(t, "Ali Khan", ticket.Name)
	assert.Equal(t, "evt-1", ticket.EventID)
	assert.False(t, ticket.CheckedIn)
	assert.Equal(t, svc.Now(), ticket.CreatedAt)
}

func TestIssueUppercasesAgNo(t *testing.T) {
	svc, _ := setupService()

	input := sampleInput()
	input.AgNo = "  2022-ag-7993 "
	ticket, err := svc.Issue(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "2022-AG-7993", ticket.AgNo)
}

func TestIssueDuplicateAgNoSameEvent(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	// Same AG No, different case, same event: still a duplicate.
	second := sampleInput()
	second.AgNo = "2022-ag-7993"
	second.FullName = "Someone Else"
	_, err = svc.Issue(ctx, second)
	assert.ErrorIs(t, err, tickets.ErrDuplicateRegistration)

	assert.Len(t, svc.List(ctx), 1)
}

func TestIssueSameAgNoDifferentEvent(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	other := sampleInput()
	other.EventID = "evt-2"
	_, err = svc.Issue(ctx, other)
	assert.NoError(t, err)

	assert.Len(t, svc.List(ctx), 2)
}

func TestIssueInvalidAgNoFormats(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	cases := []string{
		"22-AG-7993",     // 2-digit year
		"2022-AG-799",    // 3-digit sequence
		"2022-AG-799333", // 6-digit sequence
		"2022AG7993",     // no dashes
		"2022-XX-7993",   // wrong literal
		"abcd-AG-7993",   // non-numeric year
	}
	for _, agNo := range cases {
		input := sampleInput()
		input.AgNo = agNo
		_, err := svc.Issue(ctx, input)

		var validationErr *tickets.ValidationError
		assert.ErrorAs(t, err, &validationErr, "agNo %q should be rejected", agNo)
	}

	// Nothing was persisted by any failed attempt.
	assert.Empty(t, svc.List(ctx))
}

func TestIssueValidatesFieldOrder(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	// Name missing wins over the also-missing AG No.
	input := tickets.IssueInput{EventID: "evt-1", Email: "a@b.c"}
	_, err := svc.Issue(ctx, input)
	var validationErr *tickets.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Full Name")

	input.FullName = "Ali Khan"
	input.Email = ""
	_, err = svc.Issue(ctx, input)
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "Email")
}

func TestIssueUnknownEvent(t *testing.T) {
	svc, _ := setupService()

	input := sampleInput()
	input.EventID = "evt-missing"
	_, err := svc.Issue(context.Background(), input)
	assert.ErrorIs(t, err, tickets.ErrEventNotFound)
}

func TestIssuePastEvent(t *testing.T) {
	svc, _ := setupService()

	input := sampleInput()
	input.EventID = "evt-past"
	_, err := svc.Issue(context.Background(), input)

	var validationErr *tickets.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Message, "closed")
}

func TestIssueStoreFailureLeavesNothing(t *testing.T) {
	svc, _ := setupService()
	svc.Store = failingStore{}

	_, err := svc.Issue(context.Background(), sampleInput())
	assert.Error(t, err)
	assert.False(t, errors.As(err, new(*tickets.ValidationError)))
}

type failingStore struct{}

func (failingStore) Get(ctx context.Context, key string, into any) error { return store.ErrNotFound }
func (failingStore) Set(ctx context.Context, key string, value any) error {
	return errors.New("disk full")
}
func (failingStore) Delete(ctx context.Context, key string) error { return nil }

func TestPublicTicketIDStructure(t *testing.T) {
	svc, _ := setupService()

	ticket, err := svc.Issue(context.Background(), sampleInput())
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.PublicTicketID, "tech-entrepreneurshi-ali-khan-2022-AG-7993-"),
		"got %s", ticket.PublicTicketID)
	suffix := ticket.PublicTicketID[strings.LastIndex(ticket.PublicTicketID, "-")+1:]
	assert.Len(t, suffix, 4)
}

func TestDeleteThenReissue(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	first, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	deleted, err := svc.Delete(ctx, first.ID)
	assert.NoError(t, err)
	assert.True(t, deleted)

	// Deletion lifts the uniqueness constraint; the new ticket is a
	// fresh record, not a resurrection.
	second, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, second.CheckedIn)
}

func TestDeleteUnknownTicket(t *testing.T) {
	svc, _ := setupService()

	deleted, err := svc.Delete(context.Background(), "nope")
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestSetCheckedInIdempotent(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	ticket, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	updated, err := svc.SetCheckedIn(ctx, ticket.ID, true)
	assert.NoError(t, err)
	assert.True(t, updated.CheckedIn)

	// Setting an already-set flag keeps the same final state.
	again, err := svc.SetCheckedIn(ctx, ticket.ID, true)
	assert.NoError(t, err)
	assert.True(t, again.CheckedIn)

	cleared, err := svc.SetCheckedIn(ctx, ticket.ID, false)
	assert.NoError(t, err)
	assert.False(t, cleared.CheckedIn)
}

func TestSetCheckedInUnknownTicket(t *testing.T) {
	svc, _ := setupService()

	_, err := svc.SetCheckedIn(context.Background(), "missing", true)
	assert.ErrorIs(t, err, tickets.ErrTicketNotFound)
}

func TestNewestTicketFirst(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	first, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	second := sampleInput()
	second.AgNo = "2023-AG-12001"
	latest, err := svc.Issue(ctx, second)
	assert.NoError(t, err)

	all := svc.List(ctx)
	assert.Len(t, all, 2)
	assert.Equal(t, latest.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
}

func TestSearchTickets(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	other := sampleInput()
	other.AgNo = "2023-AG-12001"
	other.FullName = "Sara Ahmed"
	other.Email = "sara@example.com"
	_, err = svc.Issue(ctx, other)
	assert.NoError(t, err)

	assert.Len(t, svc.Search(ctx, ""), 2)
	assert.Len(t, svc.Search(ctx, "7993"), 1)
	assert.Len(t, svc.Search(ctx, "sara"), 1)
	assert.Len(t, svc.Search(ctx, "SARA"), 1)
	assert.Empty(t, svc.Search(ctx, "zzz"))
}

func TestFindByNaturalKey(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	issued, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	found := svc.Find(ctx, "2022-ag-7993", "evt-1")
	assert.NotNil(t, found)
	assert.Equal(t, issued.ID, found.ID)

	assert.Nil(t, svc.Find(ctx, "2022-AG-7993", "evt-2"))
}

func TestListByUser(t *testing.T) {
	svc, _ := setupService()
	ctx := context.Background()

	_, err := svc.Issue(ctx, sampleInput())
	assert.NoError(t, err)

	other := sampleInput()
	other.UserID = "user-2"
	other.AgNo = "2023-AG-12001"
	_, err = svc.Issue(ctx, other)
	assert.NoError(t, err)

	mine := svc.ListByUser(ctx, "user-1")
	assert.Len(t, mine, 1)
	assert.Equal(t, "user-1", mine[0].UserID)
}

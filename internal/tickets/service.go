package tickets

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tcs-portal/internal/models"
	"tcs-portal/internal/store"
)

var (
	ErrDuplicateRegistration = errors.New("this AG No already has a ticket for this event")
	ErrEventNotFound         = errors.New("event not found")
	ErrTicketNotFound        = errors.New("ticket not found")
)

// ValidationError reports a failed issuance precondition with a message
// suitable for direct display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AgNoPattern is the authoritative format for a student registration
// number: 4-digit year, literal AG, 4-or-5-digit sequence. Input is
// uppercased before matching; the engine validates only and never
// reformats raw digits (that is a UI-level helper).
var AgNoPattern = regexp.MustCompile(`^\d{4}-AG-\d{4,5}$`)

// EventSource is the read-only view of the event catalog the engine
// consults at issuance time.
type EventSource interface {
	Get(ctx context.Context, id string) (*models.Event, error)
}

// IssueInput is the registration form as submitted.
type IssueInput struct {
	UserID     string
	EventID    string
	FullName   string
	AgNo       string
	Email      string
	Department string
	Semester   string
}

// Service enforces one ticket per (event, AG No) pair and owns every
// mutation of the tickets collection. The mutex serializes the
// read-modify-write against the collection blob so the uniqueness
// invariant holds even with concurrent callers.
type Service struct {
	Store  store.Store
	Events EventSource
	Now    func() time.Time

	mu sync.Mutex
}

func NewService(st store.Store, events EventSource) *Service {
	return &Service{Store: st, Events: events, Now: time.Now}
}

// Issue validates the input, generates the ticket and persists it.
// Preconditions run in a fixed order and nothing is written until all of
// them pass. The returned ticket is always CheckedIn == false.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*models.Ticket, error) {
	if strings.TrimSpace(input.FullName) == "" {
		return nil, &ValidationError{Message: "Full Name is required."}
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, &ValidationError{Message: "Email is required."}
	}
	agNo := strings.ToUpper(strings.TrimSpace(input.AgNo))
	if agNo == "" {
		return nil, &ValidationError{Message: "AG No is required."}
	}
	if !AgNoPattern.MatchString(agNo) {
		return nil, &ValidationError{Message: "AG No format must be YYYY-AG-XXXX or YYYY-AG-XXXXX (digits)."}
	}

	event, err := s.Events.Get(ctx, input.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up event %s: %w", input.EventID, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", input.EventID, ErrEventNotFound)
	}
	if event.Status == models.EventPast {
		return nil, &ValidationError{Message: "Registration for this event has closed."}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.loadTickets(ctx)
	for _, t := range existing {
		if t.EventID == input.EventID && strings.EqualFold(t.AgNo, agNo) {
			return nil, ErrDuplicateRegistration
		}
	}

	ticket := models.Ticket{
		ID:             uuid.NewString(),
		PublicTicketID: PublicTicketID(event.Title, input.FullName, agNo),
		UserID:         input.UserID,
		EventID:        input.EventID,
		Name:           strings.TrimSpace(input.FullName),
		AgNo:           agNo,
		Email:          strings.TrimSpace(input.Email),
		Department:     input.Department,
		Semester:       input.Semester,
		CreatedAt:      s.Now(),
		CheckedIn:      false,
	}

	next := append([]models.Ticket{ticket}, existing...)
	if err := s.Store.Set(ctx, store.KeyTickets, next); err != nil {
		return nil, fmt.Errorf("failed to persist ticket: %w", err)
	}
	return &ticket, nil
}

func (s *Service) List(ctx context.Context) []models.Ticket {
	return s.loadTickets(ctx)
}

func (s *Service) ListByUser(ctx context.Context, userID string) []models.Ticket {
	var mine []models.Ticket
	for _, t := range s.loadTickets(ctx) {
		if t.UserID == userID {
			mine = append(mine, t)
		}
	}
	return mine
}

// Search filters tickets by a case-insensitive substring over AG No,
// public ticket ID, name and email.
func (s *Service) Search(ctx context.Context, query string) []models.Ticket {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.loadTickets(ctx)
	if q == "" {
		return all
	}
	var matched []models.Ticket
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.AgNo), q) ||
			strings.Contains(strings.ToLower(t.PublicTicketID), q) ||
			strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Email), q) {
			matched = append(matched, t)
		}
	}
	return matched
}

func (s *Service) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	for _, t := range s.loadTickets(ctx) {
		if t.ID == ticketID {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("ticket %s: %w", ticketID, ErrTicketNotFound)
}

// Find looks a ticket up by its natural key: AG No (case-insensitive)
// plus event.
func (s *Service) Find(ctx context.Context, agNo, eventID string) *models.Ticket {
	for _, t := range s.loadTickets(ctx) {
		if t.EventID == eventID && strings.EqualFold(t.AgNo, strings.TrimSpace(agNo)) {
			return &t
		}
	}
	return nil
}

// SetCheckedIn flips the checked-in flag. The operation is idempotent:
// setting an already-set flag is a no-op with the same final state.
func (s *Service) SetCheckedIn(ctx context.Context, ticketID string, checkedIn bool) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadTickets(ctx)
	var updated *models.Ticket
	for i := range all {
		if all[i].ID == ticketID {
			all[i].CheckedIn = checkedIn
			updated = &all[i]
			break
		}
	}
	if updated == nil {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, ErrTicketNotFound)
	}
	if err := s.Store.Set(ctx, store.KeyTickets, all); err != nil {
		return nil, fmt.Errorf("failed to persist check-in: %w", err)
	}
	return updated, nil
}

// Delete removes the ticket. This is the only way to lift the uniqueness
// constraint for the (event, AG No) pair: after deletion the student may
// register again. That is intentional, not a loophole.
func (s *Service) Delete(ctx context.Context, ticketID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.loadTickets(ctx)
	next := all[:0:0]
	for _, t := range all {
		if t.ID != ticketID {
			next = append(next, t)
		}
	}
	if len(next) == len(all) {
		return false, nil
	}
	if err := s.Store.Set(ctx, store.KeyTickets, next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) loadTickets(ctx context.Context) []models.Ticket {
	var all []models.Ticket
	if err := s.Store.Get(ctx, store.KeyTickets, &all); err != nil {
		return nil
	}
	return all
}

package models

import (
	"time"
)

// Ticket grants one student entry to one event. ID is the opaque storage
// key; PublicTicketID is the human-readable display key. The uniqueness
// authority is the (EventID, AgNo) pair, never PublicTicketID.
type Ticket struct {
	ID             string    `json:"id"`
	PublicTicketID string    `json:"publicTicketId"`
	UserID         string    `json:"userId"`
	EventID        string    `json:"eventId"`
	Name           string    `json:"name"`
	AgNo           string    `json:"agNo"`
	Email          string    `json:"email"`
	Department     string    `json:"department"`
	Semester       string    `json:"semester"`
	CreatedAt      time.Time `json:"createdAt"`
	CheckedIn      bool      `json:"checkedIn"`
}

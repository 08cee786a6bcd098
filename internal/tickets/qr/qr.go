package qr

import (
	"encoding/json"
	"strings"

	"github.com/skip2/go-qrcode"

	"tcs-portal/internal/models"
)

// Payload is the wire format encoded into the QR symbol: UTF-8 JSON with
// these exact keys. The check-in scanner parses it back; a bare AG No
// string from a generic reader is also accepted (see Parse).
type Payload struct {
	TicketID       string `json:"ticketId"`
	PublicTicketID string `json:"publicTicketId"`
	UserID         string `json:"userId"`
	EventID        string `json:"eventId"`
	AgNo           string `json:"agNo"`
	Email          string `json:"email"`
	Department     string `json:"department"`
	Semester       string `json:"semester"`
}

func FromTicket(t models.Ticket) Payload {
	return Payload{
		TicketID:       t.ID,
		PublicTicketID: t.PublicTicketID,
		UserID:         t.UserID,
		EventID:        t.EventID,
		AgNo:           t.AgNo,
		Email:          t.Email,
		Department:     t.Department,
		Semester:       t.Semester,
	}
}

// Encode serializes the payload to the JSON text placed in the QR symbol.
func (p Payload) Encode() (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Parse interprets scanned text. Well-formed JSON yields the full
// payload; anything else falls back to treating the scan as a bare AG No
// for a manual-entry match (fromJSON reports which case applied).
func Parse(raw string) (p Payload, fromJSON bool) {
	trimmed := strings.TrimSpace(raw)
	if err := json.Unmarshal([]byte(trimmed), &p); err == nil && p.AgNo != "" {
		return p, true
	}
	return Payload{AgNo: strings.ToUpper(trimmed)}, false
}

// Image renders the payload as a PNG raster of the given pixel size.
func (p Payload) Image(size int) ([]byte, error) {
	text, err := p.Encode()
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(text, qrcode.Medium, size)
}

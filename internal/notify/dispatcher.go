package notify

import (
	"fmt"
	"time"

	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
	"tcs-portal/internal/tickets/template"
)

// Sender is the delivery backend; Mailer in production, a fake in tests.
type Sender interface {
	Send(ticket models.Ticket, event template.EventDisplay, qrPNG, pdfBytes []byte) error
}

// Dispatcher is the best-effort delivery layer. A failed or timed-out
// send never affects the already-persisted ticket; it is only reported as
// a status. Each attempt is bounded by Timeout and a single retry follows
// the first failure.
type Dispatcher struct {
	Sender  Sender
	Timeout time.Duration
	Log     *logger.Logger
}

func NewDispatcher(sender Sender, timeout time.Duration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{Sender: sender, Timeout: timeout, Log: log}
}

// SendTicketEmail runs one bounded attempt plus one retry and reports
// whether delivery succeeded.
func (d *Dispatcher) SendTicketEmail(ticket models.Ticket, event template.EventDisplay, qrPNG, pdfBytes []byte) bool {
	for attempt := 1; attempt <= 2; attempt++ {
		if err := d.attempt(ticket, event, qrPNG, pdfBytes); err != nil {
			d.Log.LogMail("SEND", ticket.Email, fmt.Sprintf("attempt %d failed: %v", attempt, err))
			continue
		}
		d.Log.LogMail("SEND", ticket.Email, fmt.Sprintf("ticket %s delivered", ticket.PublicTicketID))
		return true
	}
	return false
}

// Dispatch fires the send without awaiting it; issuance never blocks on
// delivery.
func (d *Dispatcher) Dispatch(ticket models.Ticket, event template.EventDisplay, qrPNG, pdfBytes []byte) {
	go func() {
		if !d.SendTicketEmail(ticket, event, qrPNG, pdfBytes) {
			d.Log.LogMail("SEND", ticket.Email, fmt.Sprintf("giving up on ticket %s", ticket.PublicTicketID))
		}
	}()
}

func (d *Dispatcher) attempt(ticket models.Ticket, event template.EventDisplay, qrPNG, pdfBytes []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- d.Sender.Send(ticket, event, qrPNG, pdfBytes)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(d.Timeout):
		return fmt.Errorf("send timed out after %s", d.Timeout)
	}
}

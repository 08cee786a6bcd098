package notify

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"tcs-portal/internal/config"
	"tcs-portal/internal/models"
	"tcs-portal/internal/tickets/template"
)

// Mailer delivers the rendered ticket over SMTP with the QR image and PDF
// attached.
type Mailer struct {
	cfg config.EmailConfig
}

func NewMailer(cfg config.EmailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Send(ticket models.Ticket, event template.EventDisplay, qrPNG, pdfBytes []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", ticket.Email)
	msg.SetHeader("Subject", fmt.Sprintf("Your TCS ticket for %s", event.Title))
	msg.SetBody("text/html", mailBody(ticket, event))

	if len(qrPNG) > 0 {
		msg.Attach("ticket-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(qrPNG)
			return err
		}))
	}
	if len(pdfBytes) > 0 {
		msg.Attach("ticket.pdf", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdfBytes)
			return err
		}))
	}

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUsername, m.cfg.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send ticket email to %s: %w", ticket.Email, err)
	}
	return nil
}

func mailBody(ticket models.Ticket, event template.EventDisplay) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>Your registration for <b>%s</b> is confirmed.</p>
<p>Ticket ID: <b>%s</b><br>
AG Number: %s<br>
Date: %s %s</p>
<p>Your printable ticket and entry QR code are attached. Present the QR code at the entrance.</p>
<p>— The Computing Society, UAF</p>`,
		ticket.Name, event.Title, ticket.PublicTicketID, ticket.AgNo, event.Date, event.Time)
}

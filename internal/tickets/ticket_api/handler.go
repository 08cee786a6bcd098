package ticket_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tcs-portal/internal/identity/identity_api"
	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
	"tcs-portal/internal/notify"
	"tcs-portal/internal/tickets"
	"tcs-portal/internal/tickets/qr"
	"tcs-portal/internal/tickets/template"
	"tcs-portal/internal/utils"
)

// TicketEvents streams ticket lifecycle events; nil when Kafka is
// disabled.
type TicketEvents interface {
	PublishTicketIssued(ticket models.Ticket) error
}

type Handler struct {
	Tickets  *tickets.Service
	Catalog  tickets.EventSource
	Renderer *template.Renderer
	// Mail dispatches the confirmation email directly. Left nil when a
	// Kafka consumer owns delivery instead, or when SMTP is disabled.
	Mail   *notify.Dispatcher
	Events TicketEvents
	QRSize int
	Logger *logger.Logger
}

type issueRequest struct {
	EventID    string `json:"eventId"`
	FullName   string `json:"fullName"`
	AgNo       string `json:"agNo"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Semester   string `json:"semester"`
}

type issueResponse struct {
	Ticket    *models.Ticket `json:"ticket"`
	QRPayload string         `json:"qrPayload"`
}

// IssueTicket registers the logged-in student for an event and returns
// the fresh ticket plus the QR payload text. Email delivery and event
// streaming happen after the ticket is persisted and never fail the
// request.
func (h *Handler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	ticket, err := h.Tickets.Issue(r.Context(), tickets.IssueInput{
		UserID:     identity_api.UserID(r.Context()),
		EventID:    req.EventID,
		FullName:   req.FullName,
		AgNo:       req.AgNo,
		Email:      req.Email,
		Department: req.Department,
		Semester:   req.Semester,
	})
	if err != nil {
		h.writeIssueError(w, err)
		return
	}
	h.Logger.LogTicket("ISSUE", ticket.PublicTicketID, fmt.Sprintf("event %s, AG %s", ticket.EventID, ticket.AgNo))

	payload := qr.FromTicket(*ticket)
	payloadText, err := payload.Encode()
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to build QR payload", err.Error()))
		return
	}

	if h.Events != nil {
		if err := h.Events.PublishTicketIssued(*ticket); err != nil {
			h.Logger.Error("KAFKA", "ticket-issued publish failed: "+err.Error())
		}
	}
	if h.Mail != nil {
		display := h.eventDisplay(r, ticket.EventID)
		qrPNG, pdfBytes := h.renderArtifacts(*ticket, display)
		h.Mail.Dispatch(*ticket, display, qrPNG, pdfBytes)
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Ticket issued", issueResponse{
		Ticket:    ticket,
		QRPayload: payloadText,
	}))
}

func (h *Handler) MyTickets(w http.ResponseWriter, r *http.Request) {
	mine := h.Tickets.ListByUser(r.Context(), identity_api.UserID(r.Context()))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("My tickets", mine))
}

// TicketQR serves the entry QR image for a ticket the caller owns.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.ownedTicket(w, r)
	if !ok {
		return
	}

	png, err := qr.FromTicket(*ticket).Image(h.QRSize)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to render QR", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// TicketPDF serves the printable ticket document.
func (h *Handler) TicketPDF(w http.ResponseWriter, r *http.Request) {
	ticket, ok := h.ownedTicket(w, r)
	if !ok {
		return
	}

	display := h.eventDisplay(r, ticket.EventID)
	qrPNG, err := qr.FromTicket(*ticket).Image(h.QRSize)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to render QR", err.Error()))
		return
	}
	pdfBytes, err := h.Renderer.Render(*ticket, display, qrPNG)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to render PDF", err.Error()))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="TCS-Ticket-%s.pdf"`, ticket.AgNo))
	w.Write(pdfBytes)
}

func (h *Handler) ownedTicket(w http.ResponseWriter, r *http.Request) (*models.Ticket, bool) {
	ticketID := chi.URLParam(r, "ticketID")
	ticket, err := h.Tickets.Get(r.Context(), ticketID)
	if err != nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found", ticketID))
		return nil, false
	}
	if ticket.UserID != identity_api.UserID(r.Context()) && identity_api.Role(r.Context()) != models.RoleAdmin {
		utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Not your ticket", ""))
		return nil, false
	}
	return ticket, true
}

func (h *Handler) eventDisplay(r *http.Request, eventID string) template.EventDisplay {
	event, err := h.Catalog.Get(r.Context(), eventID)
	if err != nil {
		return template.DisplayFor(nil)
	}
	return template.DisplayFor(event)
}

func (h *Handler) renderArtifacts(ticket models.Ticket, display template.EventDisplay) (qrPNG, pdfBytes []byte) {
	qrPNG, err := qr.FromTicket(ticket).Image(h.QRSize)
	if err != nil {
		h.Logger.Error("TICKET", "QR render failed: "+err.Error())
		return nil, nil
	}
	pdfBytes, err = h.Renderer.Render(ticket, display, qrPNG)
	if err != nil {
		// The email still goes out with the QR attached.
		h.Logger.Error("TICKET", "PDF render failed: "+err.Error())
	}
	return qrPNG, pdfBytes
}

func (h *Handler) writeIssueError(w http.ResponseWriter, err error) {
	var validationErr *tickets.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Registration failed", validationErr.Message))
	case errors.Is(err, tickets.ErrDuplicateRegistration):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Registration failed", "This AG No already has a ticket for this event."))
	case errors.Is(err, tickets.ErrEventNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Registration failed", "Event not found."))
	default:
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Registration failed", err.Error()))
	}
}

package checkin_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tcs-portal/internal/checkin"
	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
	"tcs-portal/internal/tickets"
	"tcs-portal/internal/utils"
)

// TicketEvents streams check-in events; nil when Kafka is disabled.
type TicketEvents interface {
	PublishTicketCheckedIn(ticket models.Ticket) error
}

type Handler struct {
	Checkin *checkin.Service
	Events  TicketEvents
	Logger  *logger.Logger
}

// ListTickets serves the admin table; ?q= filters by AG No, ticket ID,
// name or email.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	matched := h.Checkin.Tickets.Search(r.Context(), r.URL.Query().Get("q"))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets", matched))
}

type quickCheckInRequest struct {
	AgNo    string `json:"agNo"`
	EventID string `json:"eventId"`
}

func (h *Handler) QuickCheckIn(w http.ResponseWriter, r *http.Request) {
	var req quickCheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	ticket, err := h.Checkin.QuickCheckIn(r.Context(), req.AgNo, req.EventID)
	h.writeCheckInResult(w, ticket, err)
}

type scanRequest struct {
	RawText string `json:"rawText"`
	EventID string `json:"eventId"`
}

// Scan accepts whatever the QR reader produced: the full JSON payload or
// a bare AG No string.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	ticket, err := h.Checkin.Scan(r.Context(), req.RawText, req.EventID)
	h.writeCheckInResult(w, ticket, err)
}

type setCheckedInRequest struct {
	CheckedIn bool `json:"checkedIn"`
}

// SetCheckedIn toggles the flag directly from the admin table. The
// operation is idempotent.
func (h *Handler) SetCheckedIn(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	var req setCheckedInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	ticket, err := h.Checkin.SetCheckedIn(r.Context(), ticketID, req.CheckedIn)
	if err != nil {
		if errors.Is(err, tickets.ErrTicketNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found", ticketID))
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to update ticket", err.Error()))
		return
	}
	h.publishCheckedIn(*ticket)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket updated", ticket))
}

// DeleteTicket removes the record so the student can re-register.
func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")
	deleted, err := h.Checkin.DeleteTicket(r.Context(), ticketID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete ticket", err.Error()))
		return
	}
	if !deleted {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found", ticketID))
		return
	}
	h.Logger.LogTicket("DELETE", ticketID, "eligibility reopened")
	w.WriteHeader(http.StatusNoContent)
}

// ExportCSV streams the (optionally filtered) ticket table as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	matched := h.Checkin.Tickets.Search(r.Context(), r.URL.Query().Get("q"))
	csvText, err := h.Checkin.ExportCSV(r.Context(), matched)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Export failed", err.Error()))
		return
	}
	filename := fmt.Sprintf("tcs-tickets-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Write([]byte(csvText))
}

func (h *Handler) writeCheckInResult(w http.ResponseWriter, ticket *models.Ticket, err error) {
	switch {
	case err == nil:
		h.Logger.LogTicket("CHECKIN", ticket.PublicTicketID, "checked in")
		h.publishCheckedIn(*ticket)
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Checked-in successfully", ticket))
	case errors.Is(err, checkin.ErrAlreadyCheckedIn):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Already checked-in", ""))
	case errors.Is(err, tickets.ErrTicketNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found for this AG No + Event", ""))
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Check-in failed", err.Error()))
	}
}

func (h *Handler) publishCheckedIn(ticket models.Ticket) {
	if h.Events == nil {
		return
	}
	if err := h.Events.PublishTicketCheckedIn(ticket); err != nil {
		h.Logger.Error("KAFKA", "ticket-checked-in publish failed: "+err.Error())
	}
}

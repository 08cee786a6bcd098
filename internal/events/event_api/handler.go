package event_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tcs-portal/internal/events"
	"tcs-portal/internal/models"
	"tcs-portal/internal/utils"
)

type Handler struct {
	Catalog *events.Catalog
}

func NewHandler(catalog *events.Catalog) *Handler {
	return &Handler{Catalog: catalog}
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	list := h.Catalog.List(r.Context())
	if r.URL.Query().Get("upcoming") == "true" {
		list = h.Catalog.ListUpcoming(r.Context())
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events", list))
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	event, err := h.Catalog.Get(r.Context(), eventID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Event lookup failed", err.Error()))
		return
	}
	if event == nil {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", eventID))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event", event))
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	created, err := h.Catalog.Create(r.Context(), event)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to create event", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Event created", created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	var patch models.Event
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	updated, err := h.Catalog.Update(r.Context(), eventID, patch)
	if err != nil {
		if errors.Is(err, events.ErrEventNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", eventID))
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to update event", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event updated", updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")
	deleted, err := h.Catalog.Delete(r.Context(), eventID)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete event", err.Error()))
		return
	}
	if !deleted {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", eventID))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

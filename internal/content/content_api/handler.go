package content_api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tcs-portal/internal/content"
	"tcs-portal/internal/models"
	"tcs-portal/internal/utils"
)

type Handler struct {
	Content *content.Service
}

func NewHandler(contentSvc *content.Service) *Handler {
	return &Handler{Content: contentSvc}
}

// Routes mounts REST endpoints for every admin-managed collection plus
// the home and theme documents.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	mountCollection(r, "/announcements", h.Content.Announcements)
	mountCollection(r, "/cabinet", h.Content.Cabinet)
	mountCollection(r, "/faculty", h.Content.Faculty)
	mountCollection(r, "/programs", h.Content.Programs)
	mountCollection(r, "/degrees", h.Content.Degrees)
	mountCollection(r, "/gallery", h.Content.Gallery)

	r.Get("/home", h.GetHome)
	r.Put("/home", h.SetHome)
	r.Get("/theme", h.GetTheme)
	r.Put("/theme", h.SetTheme)
	return r
}

// PublicRoutes exposes the read-only content surface the public site
// renders: collection listings plus the home and theme documents.
func (h *Handler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/announcements", listOnly(h.Content.Announcements))
	r.Get("/cabinet", listOnly(h.Content.Cabinet))
	r.Get("/faculty", listOnly(h.Content.Faculty))
	r.Get("/programs", listOnly(h.Content.Programs))
	r.Get("/degrees", listOnly(h.Content.Degrees))
	r.Get("/gallery", listOnly(h.Content.Gallery))
	r.Get("/home", h.GetHome)
	r.Get("/theme", h.GetTheme)
	return r
}

func listOnly[T any](c *content.Collection[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Items", c.List(r.Context())))
	}
}

func (h *Handler) GetHome(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Home content", h.Content.Home(r.Context())))
}

func (h *Handler) SetHome(w http.ResponseWriter, r *http.Request) {
	var home models.HomeContent
	if err := json.NewDecoder(r.Body).Decode(&home); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.Content.SetHome(r.Context(), home); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to save home content", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Home content saved", home))
}

func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Theme", h.Content.Theme(r.Context())))
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var theme models.Theme
	if err := json.NewDecoder(r.Body).Decode(&theme); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}
	if err := h.Content.SetTheme(r.Context(), theme); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to save theme", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Theme saved", theme))
}

func mountCollection[T any](r chi.Router, path string, c *content.Collection[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Items", c.List(req.Context())))
		})
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var item T
			if err := json.NewDecoder(req.Body).Decode(&item); err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
				return
			}
			created, err := c.Create(req.Context(), item)
			if err != nil {
				utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to create item", err.Error()))
				return
			}
			utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Item created", created))
		})
		r.Put("/{itemID}", func(w http.ResponseWriter, req *http.Request) {
			var patch T
			if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
				utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
				return
			}
			updated, err := c.Update(req.Context(), chi.URLParam(req, "itemID"), patch)
			if err != nil {
				utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Failed to update item", err.Error()))
				return
			}
			utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Item updated", updated))
		})
		r.Delete("/{itemID}", func(w http.ResponseWriter, req *http.Request) {
			deleted, err := c.Delete(req.Context(), chi.URLParam(req, "itemID"))
			if err != nil {
				utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to delete item", err.Error()))
				return
			}
			if !deleted {
				utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Item not found", ""))
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

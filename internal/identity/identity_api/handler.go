package identity_api

import (
	"encoding/json"
	"errors"
	"net/http"

	"tcs-portal/internal/identity"
	"tcs-portal/internal/logger"
	"tcs-portal/internal/models"
	"tcs-portal/internal/utils"
)

type Handler struct {
	Identity  *identity.Service
	JWTSecret string
	Logger    *logger.Logger
}

func NewHandler(identitySvc *identity.Service, jwtSecret string, log *logger.Logger) *Handler {
	return &Handler{Identity: identitySvc, JWTSecret: jwtSecret, Logger: log}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    *models.User    `json:"user"`
	Session *models.Session `json:"session"`
	Token   string          `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, err := h.Identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var validationErr *identity.ValidationError
		switch {
		case errors.As(err, &validationErr):
			utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Registration failed", validationErr.Message))
		case errors.Is(err, identity.ErrDuplicateEmail):
			utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("Registration failed", "Email already registered."))
		default:
			utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Registration failed", err.Error()))
		}
		return
	}

	h.Logger.LogAuth("REGISTER", user.Email)
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Registered", user))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	user, session, err := h.Identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Login failed", "Invalid email or password."))
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}

	token, err := identity.MintToken(h.JWTSecret, *session)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}

	h.Logger.LogAuth("LOGIN", user.Email)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged in", loginResponse{
		User:    user,
		Session: session,
		Token:   token,
	}))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Identity.Logout(r.Context()); err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Logout failed", err.Error()))
		return
	}
	h.Logger.LogAuth("LOGOUT", "session cleared")
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Logged out", nil))
}

// Me resolves the current session; an expired one reads as logged out.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Identity.CurrentUser(r.Context())
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Session lookup failed", err.Error()))
		return
	}
	if user == nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Not logged in", ""))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Current user", user))
}

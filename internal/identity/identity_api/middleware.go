package identity_api

import (
	"context"
	"net/http"

	"tcs-portal/internal/identity"
	"tcs-portal/internal/models"
	"tcs-portal/internal/utils"
)

type contextKey string

const (
	ctxUserID contextKey = "userID"
	ctxRole   contextKey = "role"
)

// UserID returns the authenticated user's ID from the request context.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxUserID).(string)
	return id
}

// Role returns the authenticated user's role from the request context.
func Role(ctx context.Context) string {
	role, _ := ctx.Value(ctxRole).(string)
	return role
}

// WithUser stamps the authenticated identity onto the context. RequireAuth
// applies it after resolving the session; handler tests use it directly.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	return context.WithValue(ctx, ctxRole, role)
}

// RequireAuth validates the bearer token and resolves the stored session.
// The session record stays the authority: a valid token with an expired
// or replaced session is rejected.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := identity.ExtractTokenFromRequest(r)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Authorization required", err.Error()))
			return
		}

		userID, role, err := identity.VerifyToken(h.JWTSecret, tokenString)
		if err != nil {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Invalid token", err.Error()))
			return
		}

		user, err := h.Identity.CurrentUser(r.Context())
		if err != nil {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Session lookup failed", err.Error()))
			return
		}
		if user == nil || user.ID != userID {
			utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("Session expired", "Please log in again."))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, role)))
	})
}

// RequireAdmin guards the admin dashboard routes. It must run inside
// RequireAuth.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r.Context()) != models.RoleAdmin {
			utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("Admin access required", ""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles the admin-only identity endpoints.
type AdminHandler struct {
	service  services.UserServiceProvider
	sessions *Sessions
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.UserServiceProvider, sessions *Sessions) *AdminHandler {
	return &AdminHandler{service: service, sessions: sessions}
}

// RolePayload is the body of a role change.
type RolePayload struct {
	Role models.Role `json:"role" validate:"required,oneof=user admin"`
}

// Login authenticates an admin. Valid credentials of a non-admin are refused.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed admin authentication attempt")
		writeError(w, r, err)
		return
	}
	if user.Role != models.RoleAdmin {
		log.Warn().Str("user_id", user.ID).Msg("Non-admin attempted admin login")
		writeError(w, r, apperr.Forbidden("Access denied. Admins only."))
		return
	}

	if err := h.sessions.start(w, user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout clears the session cookie.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.end(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// UpdateRole sets the role of an identity.
func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.Authorize(r, auth.AdminOnly())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var payload RolePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.UpdateRole(r.Context(), claims.UserID, chi.URLParam(r, "id"), payload.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("actor_id", claims.UserID).Str("user_id", user.ID).Str("role", string(user.Role)).Msg("Role updated")
	writeJSON(w, http.StatusOK, user)
}

// Delete removes any identity.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.Authorize(r, auth.AdminOnly())
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(r.Context(), claims.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}

	if claims.UserID == id {
		h.sessions.end(w)
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

// GetAll lists every identity.
func (h *AdminHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

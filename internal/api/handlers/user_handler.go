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

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service  services.UserServiceProvider
	sessions *Sessions
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, sessions *Sessions) *UserHandler {
	return &UserHandler{service: service, sessions: sessions}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name         string `json:"name" validate:"required,notblank,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=6,bytesmax=72"`
	ProfileImage string `json:"profileImage" validate:"omitempty,max=2048"`
}

var profileFields = fields("name", "email", "bio", "profileImage")

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Name, payload.Email, payload.Password, payload.ProfileImage)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			log.Info().Str("email", payload.Email).Msg("Registration with existing email rejected")
		}
		writeError(w, r, err)
		return
	}

	if err := h.sessions.start(w, user); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("user_id", user.ID).Msg("User registered")
	writeJSON(w, http.StatusCreated, userResponse{User: user})
}

// Login handles user authentication and sets the session cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		writeError(w, r, err)
		return
	}

	if err := h.sessions.start(w, user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: user})
}

// Logout clears the session cookie. The token itself stays valid until it expires.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.end(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// GetMe returns the identity of the caller.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByID returns an identity to itself or to an admin.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := auth.Authorize(r, auth.OwnerOrAdmin(user.ID)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByEmail returns an identity to itself or to an admin.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.service.GetUserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := auth.Authorize(r, auth.OwnerOrAdmin(user.ID)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Update changes the caller's own profile and refreshes the session cookie.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	patch, err := readPatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var update models.ProfileUpdate
	if err := patch.bind(profileFields, &update); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), claims.UserID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.sessions.start(w, user); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Delete removes an identity. Callers may delete themselves, admins anyone.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	claims, err := auth.Authorize(r, auth.OwnerOrAdmin(user.ID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), claims.UserID, user.ID); err != nil {
		writeError(w, r, err)
		return
	}

	if claims.UserID == user.ID {
		h.sessions.end(w)
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

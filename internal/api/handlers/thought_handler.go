package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/services"
)

// ThoughtHandler handles HTTP requests for private thoughts.
type ThoughtHandler struct {
	service services.ThoughtServiceProvider
	users   services.UserServiceProvider
}

// NewThoughtHandler creates a new ThoughtHandler.
func NewThoughtHandler(service services.ThoughtServiceProvider, users services.UserServiceProvider) *ThoughtHandler {
	return &ThoughtHandler{service: service, users: users}
}

// ThoughtPayload is the body of a new thought.
type ThoughtPayload struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"omitempty,email"`
	Thought string `json:"thought" validate:"required,notblank,max=5000"`
}

var thoughtFields = fields("name", "email", "thought")

// Create stores a thought owned by the caller.
func (h *ThoughtHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	var payload ThoughtPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	email := payload.Email
	if email == "" {
		held, err := currentEmail(r, h.users)(claims.UserID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		email = held
	}

	thought, err := h.service.CreateThought(r.Context(), models.Thought{
		UserID:  claims.UserID,
		Name:    payload.Name,
		Email:   email,
		Thought: payload.Thought,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, thought)
}

// load fetches the thought named in the URL and checks the caller may touch it.
func (h *ThoughtHandler) load(r *http.Request) (models.Thought, error) {
	thought, err := h.service.GetThoughtByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return models.Thought{}, err
	}
	if _, err := auth.Authorize(r, auth.OwnerOrAdmin(thought.UserID)); err != nil {
		return models.Thought{}, err
	}
	return thought, nil
}

// Get returns a single thought.
func (h *ThoughtHandler) Get(w http.ResponseWriter, r *http.Request) {
	thought, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

// GetAll lists every thought.
func (h *ThoughtHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	thoughts, err := h.service.GetAllThoughts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thoughts)
}

// GetByEmail lists thoughts recorded under an email, to its holder or an admin.
func (h *ThoughtHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := auth.Authorize(r, auth.SelfEmailOrAdmin(email, currentEmail(r, h.users))); err != nil {
		writeError(w, r, err)
		return
	}

	thoughts, err := h.service.GetThoughtsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thoughts)
}

// Update edits a thought.
func (h *ThoughtHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	thought, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var update models.ThoughtUpdate
	if err := patch.bind(thoughtFields, &update); err != nil {
		writeError(w, r, err)
		return
	}

	thought, err = h.service.UpdateThought(r.Context(), thought.ID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, thought)
}

// Delete removes a thought.
func (h *ThoughtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	thought, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteThought(r.Context(), thought.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Thought deleted successfully")
}

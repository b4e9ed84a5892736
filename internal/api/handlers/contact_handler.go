package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/services"
)

// ContactHandler handles HTTP requests for contact messages.
type ContactHandler struct {
	service services.ContactServiceProvider
	users   services.UserServiceProvider
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service services.ContactServiceProvider, users services.UserServiceProvider) *ContactHandler {
	return &ContactHandler{service: service, users: users}
}

// ContactPayload is the body of a new contact message.
type ContactPayload struct {
	Name    string `json:"name" validate:"required,notblank,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

var contactFields = fields("name", "email", "message")

// Create stores a contact message owned by the caller.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	var payload ContactPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	contact, err := h.service.CreateContact(r.Context(), models.Contact{
		UserID:  claims.UserID,
		Name:    payload.Name,
		Email:   payload.Email,
		Message: payload.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// load fetches the contact named in the URL and checks the caller may touch it.
func (h *ContactHandler) load(r *http.Request) (models.Contact, error) {
	contact, err := h.service.GetContactByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return models.Contact{}, err
	}
	if _, err := auth.Authorize(r, auth.OwnerOrAdmin(contact.UserID)); err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}

// Get returns a single contact message.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// GetAll lists every contact message.
func (h *ContactHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.GetAllContacts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// GetByEmail lists contact messages sent with an email, to its holder or an admin.
func (h *ContactHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := auth.Authorize(r, auth.SelfEmailOrAdmin(email, currentEmail(r, h.users))); err != nil {
		writeError(w, r, err)
		return
	}

	contacts, err := h.service.GetContactsByEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

// Update edits a contact message.
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	contact, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var update models.ContactUpdate
	if err := patch.bind(contactFields, &update); err != nil {
		writeError(w, r, err)
		return
	}

	contact, err = h.service.UpdateContact(r.Context(), contact.ID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

// Delete removes a contact message.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	contact, err := h.load(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteContact(r.Context(), contact.ID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Contact deleted successfully")
}

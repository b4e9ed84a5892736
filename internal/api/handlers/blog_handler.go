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

// BlogHandler handles HTTP requests for blog posts.
type BlogHandler struct {
	service services.BlogServiceProvider
}

// NewBlogHandler creates a new BlogHandler.
func NewBlogHandler(service services.BlogServiceProvider) *BlogHandler {
	return &BlogHandler{service: service}
}

// BlogPayload is the body of a new blog post.
type BlogPayload struct {
	Title    string   `json:"title" validate:"required,notblank,max=200"`
	Content  string   `json:"content" validate:"required,notblank"`
	Category string   `json:"category" validate:"max=100"`
	Tags     []string `json:"tags" validate:"max=20,dive,max=40"`
}

var blogFields = fields("title", "content", "category", "tags")

// Create publishes a blog owned by the caller.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	var payload BlogPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, r, err)
		return
	}

	blog, err := h.service.CreateBlog(r.Context(), models.Blog{
		UserID:      claims.UserID,
		PublishedBy: claims.Name,
		Title:       payload.Title,
		Content:     payload.Content,
		Category:    payload.Category,
		Tags:        payload.Tags,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("blog_id", blog.ID).Str("user_id", claims.UserID).Msg("Blog created")
	writeJSON(w, http.StatusCreated, blog)
}

// Get returns a single blog.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.GetBlogByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// GetAll lists every blog.
func (h *BlogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.GetAllBlogs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// GetByCategory lists blogs in a category.
func (h *BlogHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.GetBlogsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// GetByEmail lists the blogs of the author with the given email.
func (h *BlogHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	blogs, err := h.service.GetBlogsByAuthorEmail(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// GetMine lists the caller's blogs.
func (h *BlogHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, r, apperr.Unauthenticated("Authentication required"))
		return
	}

	blogs, err := h.service.GetBlogsByUser(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// Update edits a blog. Only its owner or an admin may do so.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	patch, err := readPatch(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	blog, err := h.service.GetBlogByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := auth.Authorize(r, auth.OwnerOrAdmin(blog.UserID)); err != nil {
		writeError(w, r, err)
		return
	}

	var update models.BlogUpdate
	if err := patch.bind(blogFields, &update); err != nil {
		writeError(w, r, err)
		return
	}

	blog, err = h.service.UpdateBlog(r.Context(), blog.ID, update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

// Delete removes a blog. Only its owner or an admin may do so.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	blog, err := h.service.GetBlogByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	claims, err := auth.Authorize(r, auth.OwnerOrAdmin(blog.UserID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteBlog(r.Context(), blog.ID); err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("blog_id", blog.ID).Str("actor_id", claims.UserID).Msg("Blog deleted")
	writeMessage(w, http.StatusOK, "Blog deleted successfully")
}

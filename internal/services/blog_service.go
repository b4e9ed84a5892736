package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
)

// Feed actions published for blog mutations.
const (
	ActionBlogCreated = "blog.created"
	ActionBlogUpdated = "blog.updated"
	ActionBlogDeleted = "blog.deleted"
)

// Publisher pushes live notifications to connected clients.
type Publisher interface {
	Publish(action string, payload any)
}

// BlogServiceProvider defines the interface for blog services.
type BlogServiceProvider interface {
	CreateBlog(ctx context.Context, blog models.Blog) (models.Blog, error)
	GetBlogByID(ctx context.Context, id string) (models.Blog, error)
	GetAllBlogs(ctx context.Context) ([]models.Blog, error)
	GetBlogsByCategory(ctx context.Context, category string) ([]models.Blog, error)
	GetBlogsByAuthorEmail(ctx context.Context, email string) ([]models.Blog, error)
	GetBlogsByUser(ctx context.Context, userID string) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, id string, update models.BlogUpdate) (models.Blog, error)
	DeleteBlog(ctx context.Context, id string) error
}

// BlogService provides business logic for blog posts.
type BlogService struct {
	db        *sql.DB
	publisher Publisher
}

// NewBlogService creates a new BlogService. publisher may be nil.
func NewBlogService(db *sql.DB, publisher Publisher) *BlogService {
	return &BlogService{db: db, publisher: publisher}
}

const blogColumns = "b.id, b.user_id, b.published_by, b.title, b.content, b.category, b.tags_json, b.created_at, b.updated_at"

const errBlogNotFound = "Blog not found"

func scanBlog(row rowScanner) (models.Blog, error) {
	var (
		b        models.Blog
		tagsJSON string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.PublishedBy, &b.Title, &b.Content, &b.Category, &tagsJSON, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return models.Blog{}, err
	}
	if err := json.Unmarshal([]byte(tagsJSON), &b.Tags); err != nil {
		return models.Blog{}, fmt.Errorf("decode tags of blog %s: %w", b.ID, err)
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return b, nil
}

// NormalizeTags trims and lower-cases tags, dropping empty ones.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (s *BlogService) publish(action string, payload any) {
	if s.publisher != nil {
		s.publisher.Publish(action, payload)
	}
}

// CreateBlog stores a new blog. Owner fields must already be stamped by the caller.
func (s *BlogService) CreateBlog(ctx context.Context, blog models.Blog) (models.Blog, error) {
	if blog.UserID == "" {
		return models.Blog{}, apperr.Internal(fmt.Errorf("blog without owner"))
	}

	now := time.Now().UTC()
	blog.ID = uuid.New().String()
	blog.Title = strings.TrimSpace(blog.Title)
	blog.Content = strings.TrimSpace(blog.Content)
	blog.Category = strings.TrimSpace(blog.Category)
	blog.Tags = NormalizeTags(blog.Tags)
	blog.CreatedAt = now
	blog.UpdatedAt = now
	if blog.PublishedBy == "" {
		blog.PublishedBy = "Unknown"
	}

	tagsJSON, err := json.Marshal(blog.Tags)
	if err != nil {
		return models.Blog{}, apperr.Internal(err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blogs (id, user_id, published_by, title, content, category, tags_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		blog.ID, blog.UserID, blog.PublishedBy, blog.Title, blog.Content, blog.Category, string(tagsJSON), blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		return models.Blog{}, storageError(err, errBlogNotFound)
	}

	s.publish(ActionBlogCreated, blog)
	return blog, nil
}

// GetBlogByID retrieves a single blog.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (models.Blog, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs b WHERE b.id = ?", id)
	blog, err := scanBlog(row)
	if err != nil {
		return models.Blog{}, storageError(err, errBlogNotFound)
	}
	return blog, nil
}

func (s *BlogService) list(ctx context.Context, query string, args ...any) ([]models.Blog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	blogs := []models.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return blogs, nil
}

const newestFirst = " ORDER BY b.created_at DESC, b.rowid DESC"

// GetAllBlogs lists every blog, newest first.
func (s *BlogService) GetAllBlogs(ctx context.Context) ([]models.Blog, error) {
	return s.list(ctx, "SELECT "+blogColumns+" FROM blogs b"+newestFirst)
}

// GetBlogsByCategory lists blogs in a category, newest first.
func (s *BlogService) GetBlogsByCategory(ctx context.Context, category string) ([]models.Blog, error) {
	return s.list(ctx, "SELECT "+blogColumns+" FROM blogs b WHERE b.category = ?"+newestFirst, strings.TrimSpace(category))
}

// GetBlogsByAuthorEmail lists blogs whose owner has the given email.
func (s *BlogService) GetBlogsByAuthorEmail(ctx context.Context, email string) ([]models.Blog, error) {
	return s.list(ctx,
		"SELECT "+blogColumns+" FROM blogs b JOIN users u ON u.id = b.user_id WHERE u.email = ?"+newestFirst,
		NormalizeEmail(email))
}

// GetBlogsByUser lists the blogs owned by userID.
func (s *BlogService) GetBlogsByUser(ctx context.Context, userID string) ([]models.Blog, error) {
	return s.list(ctx, "SELECT "+blogColumns+" FROM blogs b WHERE b.user_id = ?"+newestFirst, userID)
}

// UpdateBlog applies the non-nil fields of update.
func (s *BlogService) UpdateBlog(ctx context.Context, id string, update models.BlogUpdate) (models.Blog, error) {
	var tagsJSON *string
	if update.Tags != nil {
		raw, err := json.Marshal(NormalizeTags(*update.Tags))
		if err != nil {
			return models.Blog{}, apperr.Internal(err)
		}
		str := string(raw)
		tagsJSON = &str
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			category = COALESCE(?, category),
			tags_json = COALESCE(?, tags_json),
			updated_at = ?
		WHERE id = ?`,
		trimmed(update.Title), trimmed(update.Content), trimmed(update.Category), tagsJSON, time.Now().UTC(), id)
	if err != nil {
		return models.Blog{}, storageError(err, errBlogNotFound)
	}
	if err := mustAffect(res, errBlogNotFound); err != nil {
		return models.Blog{}, err
	}

	blog, err := s.GetBlogByID(ctx, id)
	if err != nil {
		return models.Blog{}, err
	}
	s.publish(ActionBlogUpdated, blog)
	return blog, nil
}

// DeleteBlog removes a blog.
func (s *BlogService) DeleteBlog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = ?", id)
	if err != nil {
		return storageError(err, errBlogNotFound)
	}
	if err := mustAffect(res, errBlogNotFound); err != nil {
		return err
	}

	s.publish(ActionBlogDeleted, map[string]string{"id": id})
	return nil
}

// trimmed returns a trimmed copy of s, keeping nil as nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
)

// ThoughtServiceProvider defines the interface for thought services.
type ThoughtServiceProvider interface {
	CreateThought(ctx context.Context, thought models.Thought) (models.Thought, error)
	GetThoughtByID(ctx context.Context, id string) (models.Thought, error)
	GetAllThoughts(ctx context.Context) ([]models.Thought, error)
	GetThoughtsByEmail(ctx context.Context, email string) ([]models.Thought, error)
	UpdateThought(ctx context.Context, id string, update models.ThoughtUpdate) (models.Thought, error)
	DeleteThought(ctx context.Context, id string) error
}

// ThoughtService provides business logic for private thoughts.
type ThoughtService struct {
	db *sql.DB
}

// NewThoughtService creates a new ThoughtService.
func NewThoughtService(db *sql.DB) *ThoughtService {
	return &ThoughtService{db: db}
}

const thoughtColumns = "id, user_id, name, email, thought, created_at"

const errThoughtNotFound = "Thought not found"

func scanThought(row rowScanner) (models.Thought, error) {
	var t models.Thought
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Email, &t.Thought, &t.CreatedAt)
	return t, err
}

// CreateThought stores a thought owned by thought.UserID.
func (s *ThoughtService) CreateThought(ctx context.Context, thought models.Thought) (models.Thought, error) {
	if thought.UserID == "" {
		return models.Thought{}, apperr.Internal(fmt.Errorf("thought without owner"))
	}

	thought.ID = uuid.New().String()
	thought.Name = strings.TrimSpace(thought.Name)
	thought.Email = NormalizeEmail(thought.Email)
	thought.Thought = strings.TrimSpace(thought.Thought)
	thought.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO thoughts ("+thoughtColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		thought.ID, thought.UserID, thought.Name, thought.Email, thought.Thought, thought.CreatedAt)
	if err != nil {
		return models.Thought{}, storageError(err, errThoughtNotFound)
	}
	return thought, nil
}

// GetThoughtByID retrieves a single thought.
func (s *ThoughtService) GetThoughtByID(ctx context.Context, id string) (models.Thought, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+thoughtColumns+" FROM thoughts WHERE id = ?", id)
	thought, err := scanThought(row)
	if err != nil {
		return models.Thought{}, storageError(err, errThoughtNotFound)
	}
	return thought, nil
}

func (s *ThoughtService) list(ctx context.Context, query string, args ...any) ([]models.Thought, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	thoughts := []models.Thought{}
	for rows.Next() {
		thought, err := scanThought(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		thoughts = append(thoughts, thought)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return thoughts, nil
}

// GetAllThoughts lists every thought, newest first.
func (s *ThoughtService) GetAllThoughts(ctx context.Context) ([]models.Thought, error) {
	return s.list(ctx, "SELECT "+thoughtColumns+" FROM thoughts ORDER BY created_at DESC, rowid DESC")
}

// GetThoughtsByEmail lists thoughts recorded under email.
func (s *ThoughtService) GetThoughtsByEmail(ctx context.Context, email string) ([]models.Thought, error) {
	return s.list(ctx,
		"SELECT "+thoughtColumns+" FROM thoughts WHERE email = ? ORDER BY created_at DESC, rowid DESC",
		NormalizeEmail(email))
}

// UpdateThought applies the non-nil fields of update.
func (s *ThoughtService) UpdateThought(ctx context.Context, id string, update models.ThoughtUpdate) (models.Thought, error) {
	var email *string
	if update.Email != nil {
		e := NormalizeEmail(*update.Email)
		email = &e
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE thoughts SET
			name = COALESCE(?, name),
			email = COALESCE(?, email),
			thought = COALESCE(?, thought)
		WHERE id = ?`,
		trimmed(update.Name), email, trimmed(update.Thought), id)
	if err != nil {
		return models.Thought{}, storageError(err, errThoughtNotFound)
	}
	if err := mustAffect(res, errThoughtNotFound); err != nil {
		return models.Thought{}, err
	}
	return s.GetThoughtByID(ctx, id)
}

// DeleteThought removes a thought.
func (s *ThoughtService) DeleteThought(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM thoughts WHERE id = ?", id)
	if err != nil {
		return storageError(err, errThoughtNotFound)
	}
	return mustAffect(res, errThoughtNotFound)
}

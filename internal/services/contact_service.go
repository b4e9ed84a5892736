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

// ContactServiceProvider defines the interface for contact services.
type ContactServiceProvider interface {
	CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error)
	GetContactByID(ctx context.Context, id string) (models.Contact, error)
	GetAllContacts(ctx context.Context) ([]models.Contact, error)
	GetContactsByEmail(ctx context.Context, email string) ([]models.Contact, error)
	UpdateContact(ctx context.Context, id string, update models.ContactUpdate) (models.Contact, error)
	DeleteContact(ctx context.Context, id string) error
}

// ContactService provides business logic for contact messages.
type ContactService struct {
	db *sql.DB
}

// NewContactService creates a new ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{db: db}
}

const contactColumns = "id, user_id, name, email, message, created_at"

const errContactNotFound = "Contact not found"

func scanContact(row rowScanner) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Email, &c.Message, &c.CreatedAt)
	return c, err
}

// CreateContact stores a contact message owned by contact.UserID.
func (s *ContactService) CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	if contact.UserID == "" {
		return models.Contact{}, apperr.Internal(fmt.Errorf("contact without owner"))
	}

	contact.ID = uuid.New().String()
	contact.Name = strings.TrimSpace(contact.Name)
	contact.Email = NormalizeEmail(contact.Email)
	contact.Message = strings.TrimSpace(contact.Message)
	contact.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO contacts ("+contactColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		contact.ID, contact.UserID, contact.Name, contact.Email, contact.Message, contact.CreatedAt)
	if err != nil {
		return models.Contact{}, storageError(err, errContactNotFound)
	}
	return contact, nil
}

// GetContactByID retrieves a single contact message.
func (s *ContactService) GetContactByID(ctx context.Context, id string) (models.Contact, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+contactColumns+" FROM contacts WHERE id = ?", id)
	contact, err := scanContact(row)
	if err != nil {
		return models.Contact{}, storageError(err, errContactNotFound)
	}
	return contact, nil
}

func (s *ContactService) list(ctx context.Context, query string, args ...any) ([]models.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return contacts, nil
}

// GetAllContacts lists every contact message, newest first.
func (s *ContactService) GetAllContacts(ctx context.Context) ([]models.Contact, error) {
	return s.list(ctx, "SELECT "+contactColumns+" FROM contacts ORDER BY created_at DESC, rowid DESC")
}

// GetContactsByEmail lists contact messages sent from email.
func (s *ContactService) GetContactsByEmail(ctx context.Context, email string) ([]models.Contact, error) {
	return s.list(ctx,
		"SELECT "+contactColumns+" FROM contacts WHERE email = ? ORDER BY created_at DESC, rowid DESC",
		NormalizeEmail(email))
}

// UpdateContact applies the non-nil fields of update.
func (s *ContactService) UpdateContact(ctx context.Context, id string, update models.ContactUpdate) (models.Contact, error) {
	var email *string
	if update.Email != nil {
		e := NormalizeEmail(*update.Email)
		email = &e
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE contacts SET
			name = COALESCE(?, name),
			email = COALESCE(?, email),
			message = COALESCE(?, message)
		WHERE id = ?`,
		trimmed(update.Name), email, trimmed(update.Message), id)
	if err != nil {
		return models.Contact{}, storageError(err, errContactNotFound)
	}
	if err := mustAffect(res, errContactNotFound); err != nil {
		return models.Contact{}, err
	}
	return s.GetContactByID(ctx, id)
}

// DeleteContact removes a contact message.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return storageError(err, errContactNotFound)
	}
	return mustAffect(res, errContactNotFound)
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, name, email, password, profileImage string) (models.User, error)
	AuthenticateUser(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error)
	UpdateRole(ctx context.Context, actorID, id string, role models.Role) (models.User, error)
	DeleteUser(ctx context.Context, actorID, id string) error
}

// UserService is the credential store.
type UserService struct {
	db         *sql.DB
	events     EventServiceProvider
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB, events EventServiceProvider, bcryptCost int) *UserService {
	return &UserService{db: db, events: events, bcryptCost: bcryptCost}
}

const userColumns = "id, name, email, password_hash, role, bio, profile_image, created_at"

const errUserNotFound = "User not found"

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Bio, &u.ProfileImage, &u.CreatedAt)
	return u, err
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new identity with the user role.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, profileImage string) (models.User, error) {
	return s.create(ctx, name, email, password, profileImage, models.RoleUser)
}

func (s *UserService) create(ctx context.Context, name, email, password, profileImage string, role models.Role) (models.User, error) {
	email = NormalizeEmail(email)

	var exists bool
	if err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists); err != nil {
		return models.User{}, apperr.Internal(err)
	}
	if exists {
		return models.User{}, apperr.Conflict("Email already exists")
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return models.User{}, apperr.From(err)
	}

	if strings.TrimSpace(profileImage) == "" {
		profileImage = models.DefaultProfileImage
	}

	user := models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Bio:          "unknown",
		ProfileImage: profileImage,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.Bio, user.ProfileImage, user.CreatedAt)
	if err != nil {
		// A concurrent registration can win the race past the existence check.
		return models.User{}, storageError(err, errUserNotFound)
	}

	record(ctx, s.events, "user.register", fmt.Sprintf("User %s registered", user.Email), user.ID)

	user.PasswordHash = ""
	return user, nil
}

// AuthenticateUser verifies a user's credentials.
// Unknown emails and wrong passwords fail the same way.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (models.User, error) {
	invalid := apperr.Unauthenticated("Invalid email or password")

	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			auth.BurnPasswordCheck(password)
			return models.User{}, invalid
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, invalid
	}

	record(ctx, s.events, "user.login", fmt.Sprintf("User %s logged in", user.Email), user.ID)

	user.PasswordHash = ""
	return user, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, storageError(err, errUserNotFound)
	}
	user.PasswordHash = ""
	return user, nil
}

// GetUserByEmail retrieves a single user by email, case-insensitively.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := s.getUserByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

// getUserByEmail includes the password hash.
func (s *UserService) getUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", NormalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, storageError(err, errUserNotFound)
	}
	return user, nil
}

// GetAllUsers lists every identity, newest first.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		user.PasswordHash = ""
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil profile fields of update.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (models.User, error) {
	if update.Email != nil {
		email := NormalizeEmail(*update.Email)
		update.Email = &email
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			name = COALESCE(?, name),
			email = COALESCE(?, email),
			bio = COALESCE(?, bio),
			profile_image = COALESCE(?, profile_image)
		WHERE id = ?`,
		update.Name, update.Email, update.Bio, update.ProfileImage, id)
	if err != nil {
		return models.User{}, storageError(err, errUserNotFound)
	}
	if err := mustAffect(res, errUserNotFound); err != nil {
		return models.User{}, err
	}
	return s.GetUserByID(ctx, id)
}

// UpdateRole changes the role of an identity.
func (s *UserService) UpdateRole(ctx context.Context, actorID, id string, role models.Role) (models.User, error) {
	if !role.Valid() {
		return models.User{}, apperr.Validation("Invalid role")
	}

	res, err := s.db.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return models.User{}, storageError(err, errUserNotFound)
	}
	if err := mustAffect(res, errUserNotFound); err != nil {
		return models.User{}, err
	}

	record(ctx, s.events, "admin.role.update", fmt.Sprintf("User %s role set to %s", id, role), actorID)
	return s.GetUserByID(ctx, id)
}

// DeleteUser removes an identity and, through the schema, everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return storageError(err, errUserNotFound)
	}
	if err := mustAffect(res, errUserNotFound); err != nil {
		return err
	}

	record(ctx, s.events, "user.delete", fmt.Sprintf("User %s deleted", id), actorID)
	return nil
}

// EnsureAdmin creates an admin identity for email unless one already exists.
// It reports whether an account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	existing, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			log.Warn().Str("email", existing.Email).Msg("Bootstrap admin email belongs to a non-admin account")
		}
		return false, nil
	case !apperr.Is(err, apperr.KindNotFound):
		return false, err
	}

	if _, err := s.create(ctx, name, email, password, "", models.RoleAdmin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

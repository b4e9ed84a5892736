package handlers

import (
	"net/http"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/auth"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/isdelr/devblogs-be/internal/services"
)

// Sessions issues and clears session cookies.
type Sessions struct {
	tokens *auth.TokenService
	secure bool
}

// NewSessions creates a Sessions. secure marks cookies as HTTPS-only.
func NewSessions(tokens *auth.TokenService, secure bool) *Sessions {
	return &Sessions{tokens: tokens, secure: secure}
}

// start issues a token for user and sets it as the session cookie.
func (s *Sessions) start(w http.ResponseWriter, user models.User) error {
	token, err := s.tokens.Issue(auth.ClaimsFor(user))
	if err != nil {
		return apperr.Internal(err)
	}
	auth.SetSessionCookie(w, token, s.tokens.TTL(), s.secure)
	return nil
}

func (s *Sessions) end(w http.ResponseWriter) {
	auth.ClearSessionCookie(w, s.secure)
}

// userResponse wraps an identity for login and registration responses.
type userResponse struct {
	User models.User `json:"user"`
}

// currentEmail resolves the email an account holds in the store.
func currentEmail(r *http.Request, users services.UserServiceProvider) auth.EmailLookup {
	return func(userID string) (string, error) {
		user, err := users.GetUserByID(r.Context(), userID)
		if err != nil {
			return "", err
		}
		return user.Email, nil
	}
}

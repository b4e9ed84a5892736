package auth

import (
	"net/http"
	"strings"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
)

// RoleSet is a set of roles granted access.
type RoleSet map[models.Role]struct{}

// Roles builds a RoleSet.
func Roles(roles ...models.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r models.Role) bool {
	_, ok := s[r]
	return ok
}

// Policy is the authorization gate shared by every resource handler.
// Access is allowed when the caller's role is in Roles, or when Owns holds for the caller.
type Policy struct {
	Roles RoleSet
	Owns  func(*Claims) bool
}

// Check returns nil when claims satisfy the policy, a Forbidden error otherwise.
func (p Policy) Check(c *Claims) error {
	if c == nil {
		return apperr.Unauthenticated("Authentication required")
	}
	if p.Roles.Has(c.Role) {
		return nil
	}
	if p.Owns != nil && p.Owns(c) {
		return nil
	}
	return apperr.Forbidden("Access denied")
}

// AdminOnly grants access to admins.
func AdminOnly() Policy {
	return Policy{Roles: Roles(models.RoleAdmin)}
}

// OwnerOrAdmin grants access to the owner of a resource and to any admin.
// Admin always wins, whoever the owner is.
func OwnerOrAdmin(ownerID string) Policy {
	return Policy{
		Roles: Roles(models.RoleAdmin),
		Owns:  func(c *Claims) bool { return ownerID != "" && c.UserID == ownerID },
	}
}

// EmailLookup returns the email the identity userID holds right now.
type EmailLookup func(userID string) (string, error)

// SelfEmailOrAdmin grants access to the identity currently holding email and to any admin.
// The caller's email comes from current, not from the token, which goes stale
// once the account changes its address.
func SelfEmailOrAdmin(email string, current EmailLookup) Policy {
	return Policy{
		Roles: Roles(models.RoleAdmin),
		Owns: func(c *Claims) bool {
			if email == "" || current == nil {
				return false
			}
			held, err := current(c.UserID)
			return err == nil && strings.EqualFold(held, email)
		},
	}
}

// Authorize checks the claims attached to the request against p.
func Authorize(r *http.Request, p Policy) (*Claims, error) {
	c := ClaimsFromContext(r.Context())
	if err := p.Check(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RequireRoles creates a middleware that only lets callers with one of roles through.
// It must run after SessionMiddleware.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	p := Policy{Roles: Roles(roles...)}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := Authorize(r, p); err != nil {
				if apperr.Is(err, apperr.KindForbidden) {
					apperr.Write(w, apperr.Forbidden("Forbidden: Insufficient permissions"))
					return
				}
				apperr.Write(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

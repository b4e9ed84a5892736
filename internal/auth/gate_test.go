package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/isdelr/devblogs-be/internal/models"
	"github.com/stretchr/testify/assert"
)

func claims(id string, role models.Role) *Claims {
	return &Claims{UserID: id, Email: id + "@x.com", Role: role}
}

func TestOwnerOrAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		caller *Claims
		owner  string
		want   apperr.Kind
		allow  bool
	}{
		{"owner", claims("a", models.RoleUser), "a", 0, true},
		{"other user", claims("b", models.RoleUser), "a", apperr.KindForbidden, false},
		{"admin on someone else's", claims("root", models.RoleAdmin), "a", 0, true},
		{"empty owner never matches", claims("", models.RoleUser), "", apperr.KindForbidden, false},
		{"anonymous", nil, "a", apperr.KindUnauthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := OwnerOrAdmin(tt.owner).Check(tt.caller)
			if tt.allow {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	assert.NoError(t, AdminOnly().Check(claims("root", models.RoleAdmin)))
	assert.True(t, apperr.Is(AdminOnly().Check(claims("a", models.RoleUser)), apperr.KindForbidden))
}

func TestSelfEmailOrAdmin(t *testing.T) {
	t.Parallel()

	held := map[string]string{"a": "a@x.com"}
	lookup := func(id string) (string, error) {
		email, ok := held[id]
		if !ok {
			return "", apperr.NotFound("User not found")
		}
		return email, nil
	}

	c := claims("a", models.RoleUser)
	assert.NoError(t, SelfEmailOrAdmin("A@X.com", lookup).Check(c))
	assert.Error(t, SelfEmailOrAdmin("b@x.com", lookup).Check(c))
	assert.NoError(t, SelfEmailOrAdmin("b@x.com", lookup).Check(claims("root", models.RoleAdmin)))

	// The token still says a@x.com but the account has moved on.
	held["a"] = "c@x.com"
	assert.True(t, apperr.Is(SelfEmailOrAdmin("a@x.com", lookup).Check(c), apperr.KindForbidden))

	delete(held, "a")
	assert.Error(t, SelfEmailOrAdmin("c@x.com", lookup).Check(c))
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	h := RequireRoles(models.RoleAdmin)(ok)

	tests := []struct {
		name   string
		caller *Claims
		want   int
	}{
		{"admin", claims("root", models.RoleAdmin), http.StatusTeapot},
		{"user", claims("a", models.RoleUser), http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/getall", nil)
			if tt.caller != nil {
				req = req.WithContext(ContextWithClaims(req.Context(), tt.caller))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

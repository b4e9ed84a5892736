package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/devblogs-be/internal/apperr"
	"github.com/rs/zerolog/log"
)

// Verifier verifies a raw session token.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// SessionMiddleware creates a middleware that requires a valid session cookie.
// A missing cookie is answered with 403, an unverifiable token with 401.
func SessionMiddleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				apperr.Write(w, apperr.Unauthenticated("Access denied. No token provided.").WithStatus(http.StatusForbidden))
				return
			}

			claims, err := v.Verify(cookie.Value)
			if err != nil {
				log.Warn().Err(err).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("Rejected session token")
				apperr.Write(w, apperr.Unauthenticated("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/audit"
	"github.com/Gabriel-Vignoli/FitPlan-Admin-Dashboard-sub000/internal/auth"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// GetIdentity returns the authenticated admin identity from the request
// context, or nil when the request is unauthenticated.
func GetIdentity(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(IdentityContextKey).(*auth.Identity); ok {
		return identity
	}
	return nil
}

// AuthMiddleware protects JSON API routes. All failure modes collapse to a
// plain 401; the response never distinguishes missing, malformed, expired,
// or forged tokens.
type AuthMiddleware struct {
	codec auth.Codec
}

func NewAuthMiddleware(codec auth.Codec) *AuthMiddleware {
	return &AuthMiddleware{codec: codec}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AuthCookie)
		if err != nil || cookie.Value == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		identity := m.codec.Verify(cookie.Value)
		if identity == nil {
			log.Warn().Msg("auth middleware: invalid session token")
			audit.LogFromRequest(r, audit.Event{Type: audit.EventAuthFailure})
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": "Unauthorized",
			})
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/authz"
	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// TokenParser verifies a bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string) (domain.Claims, error)
}

// RevocationChecker reports whether a token was revoked on logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Policy decides whether a subject may call a route.
type Policy interface {
	Allow(subject, path, method string) (bool, error)
}

// NewAuthenticator returns a middleware that resolves the caller from the
// Authorization header. A request without the header continues anonymously.
// A malformed, expired or revoked token is rejected with 401; a revocation
// store failure is rejected with 503.
func NewAuthenticator(tokens TokenParser, revoked RevocationChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid authorization header")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
				return
			}
			isRevoked, err := revoked.IsRevoked(r.Context(), claims.TokenID)
			if err != nil {
				log.ErrorContext(r.Context(), "check token revocation", "error", err)
				writeError(w, http.StatusServiceUnavailable, "unavailable", "unable to verify token")
				return
			}
			if isRevoked {
				writeError(w, http.StatusUnauthorized, "unauthorized", "token has been revoked")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// NewAuthorizer returns a middleware that checks the caller's role against
// policy. Wire it after NewAuthenticator. Anonymous callers that are denied
// get 401, authenticated ones 403.
func NewAuthorizer(policy Policy, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, authenticated := auth.ClaimsFrom(r.Context())
			subject := authz.Subject(claims, authenticated)

			path := r.URL.Path
			if len(path) > 1 {
				path = strings.TrimSuffix(path, "/")
			}
			allowed, err := policy.Allow(subject, path, r.Method)
			if err != nil {
				log.ErrorContext(r.Context(), "enforce policy", "error", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "an unexpected error occurred")
				return
			}
			if allowed {
				next.ServeHTTP(w, r)
				return
			}
			if !authenticated {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			log.WarnContext(r.Context(), "access denied", "user_id", claims.ID, "role", claims.Role,
				"method", r.Method, "path", path)
			writeError(w, http.StatusForbidden, "forbidden", "access denied")
		})
	}
}

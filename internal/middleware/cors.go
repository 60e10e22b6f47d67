// Package middleware provides the HTTP middleware chain of the travel booking API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers for the given
// origins. Entries are full origins (scheme + host, no trailing slash); "*"
// allows any origin. Report downloads need Content-Disposition exposed and
// rate-limited clients need Retry-After.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         600,
	})
	return c.Handler
}

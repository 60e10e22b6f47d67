package auth

import (
	"context"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the authenticated caller.
func WithClaims(ctx context.Context, c domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFrom returns the caller stored by WithClaims. ok is false for an
// anonymous request.
func ClaimsFrom(ctx context.Context) (domain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(domain.Claims)
	return c, ok
}

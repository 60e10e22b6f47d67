// Package auth is the credential service: bcrypt password hashing, HS256
// access tokens and the token revocation stores consulted on every request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// errInvalidToken covers every token failure.
var errInvalidToken = fmt.Errorf("%w: invalid or expired token", domain.ErrUnauthorized)

// tokenClaims is the JSON payload of an access token.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64       `json:"id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// Credentials hashes passwords and issues and verifies access tokens.
type Credentials struct {
	signer   jwt.Signer
	verifier jwt.Verifier
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

// NewCredentials builds a Credentials signing with secret. Tokens live for ttl.
func NewCredentials(secret []byte, ttl time.Duration) (*Credentials, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth.NewCredentials: empty secret")
	}
	signer, err := jwt.NewSignerHS(jwt.HS256, secret)
	if err != nil {
		return nil, fmt.Errorf("auth.NewCredentials: %w", err)
	}
	verifier, err := jwt.NewVerifierHS(jwt.HS256, secret)
	if err != nil {
		return nil, fmt.Errorf("auth.NewCredentials: %w", err)
	}
	return &Credentials{
		signer:   signer,
		verifier: verifier,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}, nil
}

// WithClock replaces the wall clock used for issuing and checking expiry.
func (c *Credentials) WithClock(now func() time.Time) *Credentials {
	c.now = now
	return c
}

// WithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func (c *Credentials) WithCost(cost int) *Credentials {
	c.cost = cost
	return c
}

// Hash returns the bcrypt hash of password.
func (c *Credentials) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.cost)
	if err != nil {
		return "", fmt.Errorf("auth.Credentials.Hash: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash.
func (c *Credentials) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Issue signs a token for the identity in cl. The returned claims carry the
// fresh token ID and expiry.
func (c *Credentials) Issue(cl domain.Claims) (string, domain.Claims, error) {
	now := c.now()
	cl.TokenID = uuid.NewString()
	cl.ExpiresAt = now.Add(c.ttl).Truncate(time.Second)

	token, err := jwt.NewBuilder(c.signer).Build(tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        cl.TokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(cl.ExpiresAt),
		},
		UserID: cl.ID,
		Email:  cl.Email,
		Role:   cl.Role,
	})
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("auth.Credentials.Issue: %w", err)
	}
	return token.String(), cl, nil
}

// Parse verifies the signature and expiry of raw and returns its claims.
// Every failure is domain.ErrUnauthorized.
func (c *Credentials) Parse(raw string) (domain.Claims, error) {
	token, err := jwt.Parse([]byte(raw), c.verifier)
	if err != nil {
		return domain.Claims{}, errInvalidToken
	}
	var tc tokenClaims
	if err := token.DecodeClaims(&tc); err != nil {
		return domain.Claims{}, errInvalidToken
	}
	if tc.ExpiresAt == nil || !tc.IsValidExpiresAt(c.now()) {
		return domain.Claims{}, errInvalidToken
	}
	if tc.ID == "" || tc.UserID <= 0 || !tc.Role.Valid() {
		return domain.Claims{}, errInvalidToken
	}
	return domain.Claims{
		ID:        tc.UserID,
		Email:     tc.Email,
		Role:      tc.Role,
		TokenID:   tc.ID,
		ExpiresAt: tc.ExpiresAt.Time,
	}, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// TokenIssuer is the token half of the credential service.
type TokenIssuer interface {
	// Issue signs a token for c and returns it with the claims as issued,
	// including TokenID and ExpiresAt.
	Issue(c domain.Claims) (string, domain.Claims, error)
}

// Revoker invalidates a token before its natural expiry.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
}

// errBadCredentials covers both an unknown email and a wrong password.
var errBadCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

// AuthService implements registration, login, logout and token refresh.
type AuthService struct {
	users   repo.UserRepo
	hasher  PasswordHasher
	tokens  TokenIssuer
	revoker Revoker
	audit   Auditor
	signup  *UserService
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, hasher PasswordHasher, tokens TokenIssuer, revoker Revoker, a Auditor) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		revoker: revoker,
		audit:   a,
		signup:  NewUserService(users, hasher, a),
	}
}

// Register creates a plain user account. Any supplied role is ignored.
func (s *AuthService) Register(ctx context.Context, in UserInput) (domain.User, error) {
	in.Role = nil
	u, err := s.signup.newUser(in)
	if err != nil {
		return domain.User{}, err
	}
	result, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	s.audit.Record(ctx, claimsFor(result), ActionRegister, fmt.Sprintf("registered user %d", result.ID))
	return result, nil
}

// Login checks the credentials and issues a token.
// Returns domain.ErrUnauthorized with one generic message on any mismatch.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Claims, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", domain.Claims{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return "", domain.Claims{}, err
	}

	u, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.Claims{}, errBadCredentials
		}
		return "", domain.Claims{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return "", domain.Claims{}, errBadCredentials
	}

	token, claims, err := s.tokens.Issue(claimsFor(u))
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	s.audit.Record(ctx, claims, ActionLogin, fmt.Sprintf("user %d logged in", u.ID))
	return token, claims, nil
}

// Logout revokes the actor's token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, actor domain.Claims) error {
	if err := s.revoker.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return fmt.Errorf("service.AuthService.Logout: %w", err)
	}
	s.audit.Record(ctx, actor, ActionLogout, fmt.Sprintf("user %d logged out", actor.ID))
	return nil
}

// Refresh replaces the actor's token with one reflecting u, for example
// after a profile change altered the email. The old token is revoked.
func (s *AuthService) Refresh(ctx context.Context, actor domain.Claims, u domain.User) (string, domain.Claims, error) {
	token, claims, err := s.tokens.Issue(claimsFor(u))
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	if err := s.revoker.Revoke(ctx, actor.TokenID, actor.ExpiresAt); err != nil {
		return "", domain.Claims{}, fmt.Errorf("service.AuthService.Refresh: %w", err)
	}
	return token, claims, nil
}

func claimsFor(u domain.User) domain.Claims {
	return domain.Claims{ID: u.ID, Email: u.Email, Role: u.Role}
}

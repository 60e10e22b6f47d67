package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/middleware"
)

type mockTokenParser struct {
	parse func(raw string) (domain.Claims, error)
}

func (m *mockTokenParser) Parse(raw string) (domain.Claims, error) { return m.parse(raw) }

var _ middleware.TokenParser = (*mockTokenParser)(nil)

type mockRevocations struct {
	isRevoked func(ctx context.Context, id string) (bool, error)
}

func (m *mockRevocations) IsRevoked(ctx context.Context, id string) (bool, error) {
	return m.isRevoked(ctx, id)
}

var _ middleware.RevocationChecker = (*mockRevocations)(nil)

type mockPolicy struct {
	allow func(subject, path, method string) (bool, error)
}

func (m *mockPolicy) Allow(subject, path, method string) (bool, error) {
	return m.allow(subject, path, method)
}

var _ middleware.Policy = (*mockPolicy)(nil)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// tokens accepts "good" and "revoked" and rejects anything else.
var tokens = &mockTokenParser{parse: func(raw string) (domain.Claims, error) {
	switch raw {
	case "good":
		return domain.Claims{ID: 2, Email: "jan@example.com", Role: domain.RoleUser, TokenID: "t-good"}, nil
	case "revoked":
		return domain.Claims{ID: 2, Role: domain.RoleUser, TokenID: "t-revoked"}, nil
	}
	return domain.Claims{}, domain.ErrUnauthorized
}}

var revocations = &mockRevocations{isRevoked: func(_ context.Context, id string) (bool, error) {
	return id == "t-revoked", nil
}}

// claimsEcho writes the caller's user id, or 0 for anonymous requests.
var claimsEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	c, _ := auth.ClaimsFrom(r.Context())
	_ = json.NewEncoder(w).Encode(map[string]int64{"id": c.ID})
})

func serveAuth(t *testing.T, h http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	h := middleware.NewAuthenticator(tokens, revocations, discard)(claimsEcho)

	tests := []struct {
		name   string
		header string
		status int
		id     int64
	}{
		{"anonymous", "", http.StatusOK, 0},
		{"valid", "Bearer good", http.StatusOK, 2},
		{"not bearer", "Basic abc", http.StatusUnauthorized, 0},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, 0},
		{"bad token", "Bearer forged", http.StatusUnauthorized, 0},
		{"revoked", "Bearer revoked", http.StatusUnauthorized, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveAuth(t, h, tc.header)
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				var body map[string]int64
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tc.id, body["id"])
			} else {
				assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}

func TestAuthenticator_RevocationStoreDown(t *testing.T) {
	down := &mockRevocations{isRevoked: func(_ context.Context, _ string) (bool, error) {
		return false, errors.New("breaker open")
	}}
	h := middleware.NewAuthenticator(tokens, down, discard)(claimsEcho)

	rec := serveAuth(t, h, "Bearer good")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthorizer(t *testing.T) {
	var gotSubject string
	policy := &mockPolicy{allow: func(subject, path, _ string) (bool, error) {
		gotSubject = subject
		return path == "/open", nil
	}}
	h := middleware.NewAuthenticator(tokens, revocations, discard)(
		middleware.NewAuthorizer(policy, discard)(claimsEcho),
	)

	tests := []struct {
		name    string
		path    string
		header  string
		status  int
		subject string
	}{
		{"anonymous allowed", "/open", "", http.StatusOK, "anonymous"},
		{"trailing slash", "/open/", "", http.StatusOK, "anonymous"},
		{"anonymous denied", "/closed", "", http.StatusUnauthorized, "anonymous"},
		{"user allowed", "/open", "Bearer good", http.StatusOK, "user"},
		{"user denied", "/closed", "Bearer good", http.StatusForbidden, "user"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.subject, gotSubject)
		})
	}
}

func TestAuthorizer_PolicyError(t *testing.T) {
	policy := &mockPolicy{allow: func(_, _, _ string) (bool, error) { return false, errors.New("bad matcher") }}
	h := middleware.NewAuthorizer(policy, discard)(claimsEcho)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/continents", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

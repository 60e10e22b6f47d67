package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/domain"
)

func newCredentials(t *testing.T, now time.Time) *auth.Credentials {
	t.Helper()
	c, err := auth.NewCredentials([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return c.WithCost(bcrypt.MinCost).WithClock(func() time.Time { return now })
}

func TestNewCredentials_EmptySecret(t *testing.T) {
	_, err := auth.NewCredentials(nil, time.Hour)
	assert.Error(t, err)
}

func TestCredentials_HashAndCompare(t *testing.T) {
	c := newCredentials(t, time.Now())

	hash, err := c.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, c.Compare(hash, "s3cret"))
	assert.False(t, c.Compare(hash, "S3cret"))
	assert.False(t, c.Compare("not-a-hash", "s3cret"))
}

func TestCredentials_IssueAndParse(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	c := newCredentials(t, now)

	token, issued, err := c.Issue(domain.Claims{ID: 7, Email: "jan@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.True(t, issued.ExpiresAt.Equal(now.Add(time.Hour)))

	got, err := c.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "jan@example.com", got.Email)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, issued.TokenID, got.TokenID)
	assert.True(t, got.ExpiresAt.Equal(issued.ExpiresAt))
}

func TestCredentials_Issue_UniqueTokenIDs(t *testing.T) {
	c := newCredentials(t, time.Now())
	_, a, err := c.Issue(domain.Claims{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)
	_, b, err := c.Issue(domain.Claims{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestCredentials_Parse_Expired(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	token, _, err := newCredentials(t, now).Issue(domain.Claims{ID: 7, Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = newCredentials(t, now.Add(2*time.Hour)).Parse(token)

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCredentials_Parse_Rejects(t *testing.T) {
	now := time.Now()
	c := newCredentials(t, now)
	token, _, err := c.Issue(domain.Claims{ID: 7, Role: domain.RoleUser})
	require.NoError(t, err)

	other, err := auth.NewCredentials([]byte("another-secret"), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	for name, raw := range map[string]string{
		"garbage":      "not.a.token",
		"empty":        "",
		"wrong secret": token,
		"tampered":     tampered,
	} {
		t.Run(name, func(t *testing.T) {
			verifier := c
			if name == "wrong secret" {
				verifier = other
			}
			_, err := verifier.Parse(raw)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

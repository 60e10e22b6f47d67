package domain

import "time"

// Claims is the decoded identity of the caller, carried in the access token.
// The integrity guards only ever look at ID, Email and Role; TokenID and
// ExpiresAt let a token be revoked on logout.
type Claims struct {
	ID    int64
	Email string
	Role  Role

	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the caller holds the admin role.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

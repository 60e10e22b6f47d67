package domain

// Role is the authorization role of a User.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an account. PasswordHash is opaque to everything except the
// credential service and is never serialized to clients.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
}

// UserFilter narrows a user listing. Zero values mean "no filter".
type UserFilter struct {
	Role Role
}

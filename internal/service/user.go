package service

import (
	"context"
	"fmt"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// PasswordHasher is the hashing half of the credential service.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// UserInput is the raw field set of a user create or update.
// Role is ignored by self-service operations.
type UserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *string
}

func (in UserInput) empty() bool {
	return in.FirstName == nil && in.LastName == nil && in.Email == nil &&
		in.Password == nil && in.Role == nil
}

// UserService implements business logic for User operations, including the
// self- and admin-protection guards.
type UserService struct {
	users  repo.UserRepo
	hasher PasswordHasher
	audit  Auditor
}

// NewUserService constructs a UserService backed by the provided repo and hasher.
func NewUserService(users repo.UserRepo, hasher PasswordHasher, a Auditor) *UserService {
	return &UserService{users: users, hasher: hasher, audit: a}
}

// Create validates and persists a new user. Role defaults to user.
func (s *UserService) Create(ctx context.Context, actor domain.Claims, in UserInput) (domain.User, error) {
	u, err := s.newUser(in)
	if err != nil {
		return domain.User{}, err
	}
	if in.Role != nil {
		if u.Role, err = parseRole(trimmed(in.Role)); err != nil {
			return domain.User{}, err
		}
	}

	result, err := s.users.Create(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Create: %w", err)
	}
	s.audit.Record(ctx, actor, ActionUserCreate, fmt.Sprintf("created user %d (%s)", result.ID, result.Email))
	return result, nil
}

// GetByID returns domain.ErrNotFound if the user does not exist.
func (s *UserService) GetByID(ctx context.Context, id int64) (domain.User, error) {
	result, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error) {
	page, err := s.users.List(ctx, p, f)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("service.UserService.List: %w", err)
	}
	return page, nil
}

// Update applies the supplied fields to a user.
// Returns domain.ErrForbidden when an admin demotes themself or anyone
// demotes another admin.
func (s *UserService) Update(ctx context.Context, actor domain.Claims, id int64, in UserInput) (domain.User, error) {
	if in.empty() {
		return domain.User{}, noData()
	}
	var role domain.Role
	if in.Role != nil {
		r, err := parseRole(trimmed(in.Role))
		if err != nil {
			return domain.User{}, err
		}
		role = r
		if role == domain.RoleUser && actor.ID == id {
			return domain.User{}, fmt.Errorf("%w: cannot demote your own account", domain.ErrForbidden)
		}
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	if role == domain.RoleUser && current.Role == domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("%w: cannot demote another admin", domain.ErrForbidden)
	}

	u, err := s.applyUser(current, in)
	if err != nil {
		return domain.User{}, err
	}
	if role != "" {
		u.Role = role
	}

	result, err := s.users.Update(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Update: %w", err)
	}
	s.audit.Record(ctx, actor, ActionUserUpdate, fmt.Sprintf("updated user %d", id))
	return result, nil
}

// Delete removes a user. The actor may not delete themself or another admin,
// and a user holding reservations is kept so their history survives.
func (s *UserService) Delete(ctx context.Context, actor domain.Claims, id int64) error {
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrForbidden)
	}
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	if target.Role == domain.RoleAdmin {
		return fmt.Errorf("%w: cannot delete another admin", domain.ErrForbidden)
	}
	n, err := s.users.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: user has reservations", domain.ErrDependency)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.UserService.Delete: %w", err)
	}
	s.audit.Record(ctx, actor, ActionUserDelete, fmt.Sprintf("deleted user %d", id))
	return nil
}

// Profile returns the actor's own account.
func (s *UserService) Profile(ctx context.Context, actor domain.Claims) (domain.User, error) {
	result, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.Profile: %w", err)
	}
	return result, nil
}

// UpdateProfile changes the actor's own names, email or password.
// A supplied role is rejected rather than ignored.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Claims, in UserInput) (domain.User, error) {
	if in.Role != nil {
		return domain.User{}, fmt.Errorf("%w: role cannot be changed from the profile", domain.ErrForbidden)
	}
	if in.empty() {
		return domain.User{}, noData()
	}
	current, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpdateProfile: %w", err)
	}
	u, err := s.applyUser(current, in)
	if err != nil {
		return domain.User{}, err
	}

	result, err := s.users.Update(ctx, u)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.UpdateProfile: %w", err)
	}
	s.audit.Record(ctx, actor, ActionProfileUpdate, fmt.Sprintf("updated own profile %d", actor.ID))
	return result, nil
}

// newUser validates a complete field set and hashes the password.
// The role is always user; callers that allow a role set it afterwards.
func (s *UserService) newUser(in UserInput) (domain.User, error) {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"first_name", in.FirstName},
		{"last_name", in.LastName},
		{"email", in.Email},
		{"password", in.Password},
	} {
		if _, err := requiredText(f.name, f.value); err != nil {
			return domain.User{}, err
		}
	}
	u, err := s.applyUser(domain.User{}, UserInput{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  in.Password,
	})
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.RoleUser
	return u, nil
}

// applyUser overlays names, email and password. Role is handled by callers.
func (s *UserService) applyUser(base domain.User, in UserInput) (domain.User, error) {
	var err error
	if in.FirstName != nil {
		if base.FirstName, err = requiredText("first_name", in.FirstName); err != nil {
			return domain.User{}, err
		}
	}
	if in.LastName != nil {
		if base.LastName, err = requiredText("last_name", in.LastName); err != nil {
			return domain.User{}, err
		}
	}
	if in.Email != nil {
		if base.Email, err = normalizeEmail(*in.Email); err != nil {
			return domain.User{}, err
		}
	}
	if in.Password != nil {
		if _, err := requiredText("password", in.Password); err != nil {
			return domain.User{}, err
		}
		if base.PasswordHash, err = s.hasher.Hash(*in.Password); err != nil {
			return domain.User{}, fmt.Errorf("service.UserService: hash password: %w", err)
		}
	}
	return base, nil
}

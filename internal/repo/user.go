package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/search"
)

// UserRepo defines the persistence operations for Users.
type UserRepo interface {
	// Create returns domain.ErrConflict if the email is taken.
	Create(ctx context.Context, u domain.User) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)

	// GetByEmail looks up an already-normalized email.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error)

	// Update overwrites every mutable field including the password hash.
	Update(ctx context.Context, u domain.User) (domain.User, error)
	Delete(ctx context.Context, id int64) error

	// CountReservations counts reservations held by the user.
	CountReservations(ctx context.Context, id int64) (int64, error)
}

var userSorter = search.NewSorter("id", map[string]string{
	"id":         "users.id",
	"first_name": "users.first_name",
	"last_name":  "users.last_name",
	"email":      "users.email",
	"role":       "users.role",
})

type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `users.id, users.first_name, users.last_name, users.email, users.password_hash, users.role`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (first_name, last_name, email, first_name_folded, last_name_folded,
		                   email_folded, password_hash, role)
		VALUES (@first_name, @last_name, @email, @first_name_folded, @last_name_folded,
		        @email_folded, @password_hash, @role)
		RETURNING ` + userColumns

	result, err := scanUser(r.db.QueryRow(ctx, q, userArgs(u)))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = @id`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = @email`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.GetByEmail: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error) {
	q := listQuery{
		columns: userColumns,
		from:    "users",
		args:    pgx.NamedArgs{},
		orderBy: userSorter.OrderBy(p.Sort, p.Order),
	}
	if p.Search != "" {
		q.and(`(users.first_name_folded LIKE @search
			OR users.last_name_folded LIKE @search
			OR users.email_folded LIKE @search)`, "search", search.LikePattern(p.Search))
	}
	if f.Role != "" {
		q.and("users.role = @role", "role", string(f.Role))
	}

	page, err := queryPage(ctx, r.db, q, p.Pagination, scanUser)
	if err != nil {
		return domain.Page[domain.User]{}, fmt.Errorf("repo.UserRepo.List: %w", err)
	}
	return page, nil
}

func (r *pgUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		UPDATE users
		SET first_name        = @first_name,
		    last_name         = @last_name,
		    email             = @email,
		    first_name_folded = @first_name_folded,
		    last_name_folded  = @last_name_folded,
		    email_folded      = @email_folded,
		    password_hash     = @password_hash,
		    role              = @role
		WHERE id = @id
		RETURNING ` + userColumns

	args := userArgs(u)
	args["id"] = u.ID

	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, fmt.Errorf("repo.UserRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgUserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.UserRepo.Delete: %w", translateDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.UserRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepo) CountReservations(ctx context.Context, id int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM reservations WHERE user_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.UserRepo.CountReservations: %w", err)
	}
	return n, nil
}

func userArgs(u domain.User) pgx.NamedArgs {
	return pgx.NamedArgs{
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"email":             u.Email,
		"first_name_folded": search.Fold(u.FirstName),
		"last_name_folded":  search.Fold(u.LastName),
		"email_folded":      search.Fold(u.Email),
		"password_hash":     u.PasswordHash,
		"role":              string(u.Role),
	}
}

func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &role); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

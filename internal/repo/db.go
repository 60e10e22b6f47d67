// Package repo contains all database access logic for the travel booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Postgres SQLSTATE codes the repos translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// constraintMessages gives user-facing text for named constraints. Unknown
// constraints fall back to the constraint name.
var constraintMessages = map[string]string{
	"continents_name_key":      "continent name already exists",
	"countries_name_key":       "country name already exists",
	"trips_offer_key":          "trip already exists",
	"users_email_key":          "email already registered",
	"reservations_booking_key": "reservation already exists",
	"reservations_dates_check": "trip_date must be after reservation_date",
}

func constraintMessage(name string) string {
	if msg, ok := constraintMessages[name]; ok {
		return msg
	}
	return name
}

// translate maps driver errors onto domain sentinels for writes and reads.
// A foreign-key violation on insert/update means the referenced parent is
// missing, so it becomes ErrNotFound.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, constraintMessage(pgErr.ConstraintName))
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: referenced entity does not exist", domain.ErrNotFound)
		case codeCheckViolation:
			return fmt.Errorf("%w: %s", domain.ErrValidation, constraintMessage(pgErr.ConstraintName))
		}
	}
	return err
}

// translateDelete is translate for DELETE statements, where a foreign-key
// violation means dependents still exist.
func translateDelete(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
		return fmt.Errorf("%w: %s", domain.ErrDependency, pgErr.TableName)
	}
	return translate(err)
}

// listQuery describes one filtered, sorted list query. where entries are
// ANDed; args holds every named parameter they reference.
type listQuery struct {
	columns string
	from    string
	where   []string
	args    pgx.NamedArgs
	orderBy string
}

func (q *listQuery) and(cond string, name string, value any) {
	q.where = append(q.where, cond)
	q.args[name] = value
}

func (q listQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(q.where, " AND ")
}

// queryPage runs q twice: once for the total and once for the requested page.
// A zero Limit returns every matching row.
func queryPage[T any](ctx context.Context, d db, q listQuery, p domain.PaginationParams, scan func(scanner) (T, error)) (domain.Page[T], error) {
	var total int64
	countSQL := "SELECT count(*) FROM " + q.from + " " + q.whereClause()
	if err := d.QueryRow(ctx, countSQL, q.args).Scan(&total); err != nil {
		return domain.Page[T]{}, fmt.Errorf("count: %w", err)
	}

	args := pgx.NamedArgs{}
	for k, v := range q.args {
		args[k] = v
	}
	sql := "SELECT " + q.columns + " FROM " + q.from + " " + q.whereClause() + " ORDER BY " + q.orderBy
	if p.Limit > 0 {
		sql += " LIMIT @limit OFFSET @offset"
		args["limit"] = p.Limit
		args["offset"] = p.Offset()
	}

	items, err := collect(ctx, d, sql, args, scan)
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.Page[T]{Items: items, Total: total}, nil
}

// collect runs a query and scans every row. It always returns a non-nil slice.
func collect[T any](ctx context.Context, d db, sql string, args pgx.NamedArgs, scan func(scanner) (T, error)) ([]T, error) {
	rows, err := d.Query(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// count runs a single-value COUNT query.
func count(ctx context.Context, d db, sql string, args pgx.NamedArgs) (int64, error) {
	var n int64
	if err := d.QueryRow(ctx, sql, args).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

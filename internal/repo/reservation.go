package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/search"
)

// ReservationRepo defines the persistence operations for Reservations.
// Reads join users and trips to fill UserEmail and TripName.
type ReservationRepo interface {
	// Create inserts a reservation. Returns domain.ErrConflict on a duplicate
	// (user, trip, trip_date) and domain.ErrNotFound if the user or trip is gone.
	Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (domain.Reservation, error)
	List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error)

	// ListByUser returns all reservations of a user ordered by trip date.
	ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)

	// Update overwrites user, trip, trip date and status. The reservation
	// date is never changed by an update.
	Update(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	Delete(ctx context.Context, id int64) error

	// ExistsDuplicate reports whether a reservation other than excludeID
	// holds the same (userID, tripID, tripDate). Pass 0 to exclude nothing.
	ExistsDuplicate(ctx context.Context, userID, tripID int64, tripDate time.Time, excludeID int64) (bool, error)

	CountByTrip(ctx context.Context, tripID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)

	// ListDue returns reservations whose trip date is on or before today and
	// that the sweep may still need to touch.
	ListDue(ctx context.Context, today time.Time) ([]domain.Reservation, error)

	// ApplySweep writes the swept status and reservation date, but only if
	// the row still has status from. It reports whether a row changed.
	ApplySweep(ctx context.Context, r domain.Reservation, from domain.Status) (bool, error)
}

var reservationSorter = search.NewSorter("id", map[string]string{
	"id":               "reservations.id",
	"user_id":          "reservations.user_id",
	"trip_id":          "reservations.trip_id",
	"reservation_date": "reservations.reservation_date",
	"trip_date":        "reservations.trip_date",
	"status":           "reservations.status",
	"user_email":       "users.email",
	"trip_name":        "trips.name",
})

type pgReservationRepo struct {
	db db
}

// NewReservationRepo constructs a ReservationRepo backed by the provided db connection.
func NewReservationRepo(db db) ReservationRepo {
	return &pgReservationRepo{db: db}
}

const (
	reservationColumns = `reservations.id, reservations.user_id, reservations.trip_id,
		reservations.reservation_date, reservations.trip_date, reservations.status,
		users.email, trips.name`
	reservationJoins = ` JOIN users ON reservations.user_id = users.id
		JOIN trips ON reservations.trip_id = trips.id`
)

func (r *pgReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		WITH written AS (
			INSERT INTO reservations (user_id, trip_id, reservation_date, trip_date, status)
			VALUES (@user_id, @trip_id, @reservation_date, @trip_date, @status)
			RETURNING *
		)
		SELECT ` + reservationColumns + ` FROM written AS reservations` + reservationJoins

	args := pgx.NamedArgs{
		"user_id":          res.UserID,
		"trip_id":          res.TripID,
		"reservation_date": res.ReservationDate,
		"trip_date":        res.TripDate,
		"status":           string(res.Status),
	}

	result, err := scanReservation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations` + reservationJoins + ` WHERE reservations.id = @id`

	result, err := scanReservation(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// List searches trip name, user email and status on folded text, and both
// dates on their literal YYYY-MM-DD text.
func (r *pgReservationRepo) List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error) {
	q := listQuery{
		columns: reservationColumns,
		from:    "reservations" + reservationJoins,
		args:    pgx.NamedArgs{},
		orderBy: reservationSorter.OrderBy(p.Sort, p.Order),
	}
	if p.Search != "" {
		q.and(`(trips.name_folded LIKE @search
			OR users.email_folded LIKE @search
			OR reservations.status LIKE @search
			OR reservations.reservation_date::text LIKE @search_raw
			OR reservations.trip_date::text LIKE @search_raw)`, "search", search.LikePattern(p.Search))
		q.args["search_raw"] = search.RawLikePattern(p.Search)
	}
	if f.UserID != 0 {
		q.and("users.id = @user_id", "user_id", f.UserID)
	}
	if f.UserEmail != "" {
		q.and("users.email = @user_email", "user_email", f.UserEmail)
	}
	if f.TripID != 0 {
		q.and("trips.id = @trip_id", "trip_id", f.TripID)
	}
	if f.TripName != "" {
		q.and("trips.name = @trip_name", "trip_name", f.TripName)
	}
	if f.Status != "" {
		q.and("reservations.status = @status", "status", string(f.Status))
	}

	page, err := queryPage(ctx, r.db, q, p.Pagination, scanReservation)
	if err != nil {
		return domain.Page[domain.Reservation]{}, fmt.Errorf("repo.ReservationRepo.List: %w", err)
	}
	return page, nil
}

func (r *pgReservationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations` + reservationJoins + `
		WHERE reservations.user_id = @user_id
		ORDER BY reservations.trip_date ASC, reservations.id ASC`

	out, err := collect(ctx, r.db, q, pgx.NamedArgs{"user_id": userID}, scanReservation)
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListByUser: %w", err)
	}
	return out, nil
}

func (r *pgReservationRepo) Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	const q = `
		WITH written AS (
			UPDATE reservations
			SET user_id   = @user_id,
			    trip_id   = @trip_id,
			    trip_date = @trip_date,
			    status    = @status
			WHERE id = @id
			RETURNING *
		)
		SELECT ` + reservationColumns + ` FROM written AS reservations` + reservationJoins

	args := pgx.NamedArgs{
		"id":        res.ID,
		"user_id":   res.UserID,
		"trip_id":   res.TripID,
		"trip_date": res.TripDate,
		"status":    string(res.Status),
	}

	result, err := scanReservation(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("repo.ReservationRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgReservationRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", translateDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReservationRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgReservationRepo) ExistsDuplicate(ctx context.Context, userID, tripID int64, tripDate time.Time, excludeID int64) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_id = @user_id
			  AND trip_id = @trip_id
			  AND trip_date = @trip_date
			  AND id <> @exclude_id
		)`

	args := pgx.NamedArgs{
		"user_id":    userID,
		"trip_id":    tripID,
		"trip_date":  tripDate,
		"exclude_id": excludeID,
	}

	var exists bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ReservationRepo.ExistsDuplicate: %w", err)
	}
	return exists, nil
}

func (r *pgReservationRepo) CountByTrip(ctx context.Context, tripID int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM reservations WHERE trip_id = @id`, pgx.NamedArgs{"id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.CountByTrip: %w", err)
	}
	return n, nil
}

func (r *pgReservationRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM reservations WHERE user_id = @id`, pgx.NamedArgs{"id": userID})
	if err != nil {
		return 0, fmt.Errorf("repo.ReservationRepo.CountByUser: %w", err)
	}
	return n, nil
}

func (r *pgReservationRepo) ListDue(ctx context.Context, today time.Time) ([]domain.Reservation, error) {
	const q = `
		SELECT ` + reservationColumns + `
		FROM reservations` + reservationJoins + `
		WHERE reservations.trip_date <= @today
		  AND (reservations.status IN ('oczekujacy', 'zatwierdzony')
		       OR reservations.reservation_date <> reservations.trip_date - 1)
		ORDER BY reservations.id`

	out, err := collect(ctx, r.db, q, pgx.NamedArgs{"today": today}, scanReservation)
	if err != nil {
		return nil, fmt.Errorf("repo.ReservationRepo.ListDue: %w", err)
	}
	return out, nil
}

func (r *pgReservationRepo) ApplySweep(ctx context.Context, res domain.Reservation, from domain.Status) (bool, error) {
	const q = `
		UPDATE reservations
		SET status           = @status,
		    reservation_date = @reservation_date
		WHERE id = @id AND status = @from`

	args := pgx.NamedArgs{
		"id":               res.ID,
		"status":           string(res.Status),
		"reservation_date": res.ReservationDate,
		"from":             string(from),
	}

	tag, err := r.db.Exec(ctx, q, args)
	if err != nil {
		return false, fmt.Errorf("repo.ReservationRepo.ApplySweep: %w", translate(err))
	}
	return tag.RowsAffected() > 0, nil
}

// scanReservation maps a single database row into a domain.Reservation.
// It handles the DATE conversions.
func scanReservation(s scanner) (domain.Reservation, error) {
	var (
		res             domain.Reservation
		reservationDate pgtype.Date
		tripDate        pgtype.Date
		status          string
	)
	err := s.Scan(&res.ID, &res.UserID, &res.TripID, &reservationDate, &tripDate, &status,
		&res.UserEmail, &res.TripName)
	if err != nil {
		return domain.Reservation{}, err
	}
	res.ReservationDate = reservationDate.Time
	res.TripDate = tripDate.Time
	res.Status = domain.Status(status)
	return res, nil
}

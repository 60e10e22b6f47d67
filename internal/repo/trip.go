package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/search"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record with its
	// country and continent names populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by ID.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// List returns one page of trips matching p and f.
	List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error)

	// Update overwrites the mutable fields of an existing trip and returns the
	// updated record. Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// ExistsDuplicate reports whether another trip (ID != trip.ID) has the
	// same name, description, period, price and country.
	ExistsDuplicate(ctx context.Context, trip domain.Trip) (bool, error)

	// CountReservations counts reservations referencing the trip.
	CountReservations(ctx context.Context, id int64) (int64, error)
}

var tripSorter = search.NewSorter("id", map[string]string{
	"id":             "trips.id",
	"name":           "trips.name",
	"description":    "trips.description",
	"period":         "trips.period",
	"price":          "trips.price",
	"country_id":     "countries.id",
	"country_name":   "countries.name",
	"continent_id":   "continents.id",
	"continent_name": "continents.name",
})

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const (
	tripColumns = `trips.id, trips.name, trips.description, trips.period, trips.price, trips.country_id,
		countries.name, continents.id, continents.name`
	tripJoins = ` JOIN countries ON trips.country_id = countries.id
		JOIN continents ON countries.continent_id = continents.id`
)

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH written AS (
			INSERT INTO trips (name, name_folded, description, period, price, country_id)
			VALUES (@name, @name_folded, @description, @period, @price, @country_id)
			RETURNING *
		)
		SELECT ` + tripColumns + ` FROM written AS trips` + tripJoins

	result, err := scanTrip(r.db.QueryRow(ctx, q, tripArgs(trip)))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", translate(err))
	}
	return result, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips` + tripJoins + ` WHERE trips.id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

// List searches trip, country and continent names.
func (r *pgTripRepo) List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error) {
	q := listQuery{
		columns: tripColumns,
		from:    "trips" + tripJoins,
		args:    pgx.NamedArgs{},
		orderBy: tripSorter.OrderBy(p.Sort, p.Order),
	}
	if p.Search != "" {
		q.and(`(trips.name_folded LIKE @search
			OR countries.name_folded LIKE @search
			OR continents.name_folded LIKE @search)`, "search", search.LikePattern(p.Search))
	}
	if f.ContinentID != 0 {
		q.and("continents.id = @continent_id", "continent_id", f.ContinentID)
	}
	if f.ContinentName != "" {
		q.and("continents.name = @continent_name", "continent_name", f.ContinentName)
	}
	if f.CountryID != 0 {
		q.and("countries.id = @country_id", "country_id", f.CountryID)
	}
	if f.CountryName != "" {
		q.and("countries.name = @country_name", "country_name", f.CountryName)
	}

	page, err := queryPage(ctx, r.db, q, p.Pagination, scanTrip)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	return page, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		WITH written AS (
			UPDATE trips
			SET name        = @name,
			    name_folded = @name_folded,
			    description = @description,
			    period      = @period,
			    price       = @price,
			    country_id  = @country_id
			WHERE id = @id
			RETURNING *
		)
		SELECT ` + tripColumns + ` FROM written AS trips` + tripJoins

	args := tripArgs(trip)
	args["id"] = trip.ID

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", translate(err))
	}
	return result, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trips WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", translateDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) ExistsDuplicate(ctx context.Context, trip domain.Trip) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM trips
			WHERE name = @name
			  AND description = @description
			  AND period = @period
			  AND price = @price
			  AND country_id = @country_id
			  AND id <> @id
		)`

	args := tripArgs(trip)
	args["id"] = trip.ID

	var exists bool
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.TripRepo.ExistsDuplicate: %w", err)
	}
	return exists, nil
}

func (r *pgTripRepo) CountReservations(ctx context.Context, id int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM reservations WHERE trip_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.TripRepo.CountReservations: %w", err)
	}
	return n, nil
}

func tripArgs(trip domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        trip.Name,
		"name_folded": search.Fold(trip.Name),
		"description": trip.Description,
		"period":      trip.Period,
		"price":       trip.Price,
		"country_id":  trip.CountryID,
	}
}

// scanTrip maps a single database row into a domain.Trip.
// NUMERIC price scans straight into float64.
func scanTrip(s scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.Name, &t.Description, &t.Period, &t.Price, &t.CountryID,
		&t.CountryName, &t.ContinentID, &t.ContinentName)
	if err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/search"
)

// ContinentRepo defines the persistence operations for Continents.
type ContinentRepo interface {
	// Create inserts a continent and returns it with its generated ID.
	// Returns domain.ErrConflict if the name is taken.
	Create(ctx context.Context, c domain.Continent) (domain.Continent, error)

	// GetByID returns domain.ErrNotFound if no continent has that ID.
	GetByID(ctx context.Context, id int64) (domain.Continent, error)

	// List returns one page of continents matching p.
	List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error)

	// Update overwrites all mutable fields. Returns domain.ErrNotFound or
	// domain.ErrConflict.
	Update(ctx context.Context, c domain.Continent) (domain.Continent, error)

	// Delete returns domain.ErrNotFound if nothing was deleted.
	Delete(ctx context.Context, id int64) error

	// CountCountries counts countries referencing the continent.
	CountCountries(ctx context.Context, id int64) (int64, error)

	// CountTrips counts trips in countries of the continent.
	CountTrips(ctx context.Context, id int64) (int64, error)
}

var continentSorter = search.NewSorter("id", map[string]string{
	"id":          "continents.id",
	"name":        "continents.name",
	"description": "continents.description",
	"area":        "continents.area",
})

// pgContinentRepo is the Postgres implementation of ContinentRepo.
type pgContinentRepo struct {
	db db
}

// NewContinentRepo constructs a ContinentRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewContinentRepo(db db) ContinentRepo {
	return &pgContinentRepo{db: db}
}

const continentColumns = `continents.id, continents.name, continents.description, continents.area`

func (r *pgContinentRepo) Create(ctx context.Context, c domain.Continent) (domain.Continent, error) {
	const q = `
		INSERT INTO continents (name, name_folded, description, area)
		VALUES (@name, @name_folded, @description, @area)
		RETURNING ` + continentColumns

	row := r.db.QueryRow(ctx, q, continentArgs(c))
	result, err := scanContinent(row)
	if err != nil {
		return domain.Continent{}, fmt.Errorf("repo.ContinentRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgContinentRepo) GetByID(ctx context.Context, id int64) (domain.Continent, error) {
	const q = `SELECT ` + continentColumns + ` FROM continents WHERE id = @id`

	result, err := scanContinent(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Continent{}, fmt.Errorf("repo.ContinentRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgContinentRepo) List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error) {
	q := listQuery{
		columns: continentColumns,
		from:    "continents",
		args:    pgx.NamedArgs{},
		orderBy: continentSorter.OrderBy(p.Sort, p.Order),
	}
	if p.Search != "" {
		q.and("continents.name_folded LIKE @search", "search", search.LikePattern(p.Search))
	}

	page, err := queryPage(ctx, r.db, q, p.Pagination, scanContinent)
	if err != nil {
		return domain.Page[domain.Continent]{}, fmt.Errorf("repo.ContinentRepo.List: %w", err)
	}
	return page, nil
}

func (r *pgContinentRepo) Update(ctx context.Context, c domain.Continent) (domain.Continent, error) {
	const q = `
		UPDATE continents
		SET name        = @name,
		    name_folded = @name_folded,
		    description = @description,
		    area        = @area
		WHERE id = @id
		RETURNING ` + continentColumns

	args := continentArgs(c)
	args["id"] = c.ID

	result, err := scanContinent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Continent{}, fmt.Errorf("repo.ContinentRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgContinentRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM continents WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ContinentRepo.Delete: %w", translateDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ContinentRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgContinentRepo) CountCountries(ctx context.Context, id int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM countries WHERE continent_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.ContinentRepo.CountCountries: %w", err)
	}
	return n, nil
}

func (r *pgContinentRepo) CountTrips(ctx context.Context, id int64) (int64, error) {
	const q = `
		SELECT count(*)
		FROM trips
		JOIN countries ON trips.country_id = countries.id
		WHERE countries.continent_id = @id`

	n, err := count(ctx, r.db, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.ContinentRepo.CountTrips: %w", err)
	}
	return n, nil
}

func continentArgs(c domain.Continent) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        c.Name,
		"name_folded": search.Fold(c.Name),
		"description": c.Description,
		"area":        c.Area,
	}
}

// scanContinent maps a single database row into a domain.Continent.
func scanContinent(s scanner) (domain.Continent, error) {
	var c domain.Continent
	if err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Area); err != nil {
		return domain.Continent{}, err
	}
	return c, nil
}

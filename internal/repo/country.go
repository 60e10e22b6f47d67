package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/search"
)

// CountryRepo defines the persistence operations for Countries.
// Reads join the parent continent to fill ContinentName.
type CountryRepo interface {
	Create(ctx context.Context, c domain.Country) (domain.Country, error)
	GetByID(ctx context.Context, id int64) (domain.Country, error)
	List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error)
	Update(ctx context.Context, c domain.Country) (domain.Country, error)
	Delete(ctx context.Context, id int64) error

	// CountTrips counts trips referencing the country.
	CountTrips(ctx context.Context, id int64) (int64, error)
}

var countrySorter = search.NewSorter("id", map[string]string{
	"id":             "countries.id",
	"name":           "countries.name",
	"description":    "countries.description",
	"area":           "countries.area",
	"population":     "countries.population",
	"continent_id":   "continents.id",
	"continent_name": "continents.name",
})

type pgCountryRepo struct {
	db db
}

// NewCountryRepo constructs a CountryRepo backed by the provided db connection.
func NewCountryRepo(db db) CountryRepo {
	return &pgCountryRepo{db: db}
}

const (
	countryColumns = `countries.id, countries.name, countries.description, countries.area,
		countries.population, countries.continent_id, continents.name`
	countryFrom = `countries JOIN continents ON countries.continent_id = continents.id`
)

// Writes go through a CTE so the written row can be joined to its continent.
func (r *pgCountryRepo) Create(ctx context.Context, c domain.Country) (domain.Country, error) {
	const q = `
		WITH written AS (
			INSERT INTO countries (name, name_folded, description, area, population, continent_id)
			VALUES (@name, @name_folded, @description, @area, @population, @continent_id)
			RETURNING *
		)
		SELECT ` + countryColumns + `
		FROM written AS countries JOIN continents ON countries.continent_id = continents.id`

	result, err := scanCountry(r.db.QueryRow(ctx, q, countryArgs(c)))
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgCountryRepo) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	q := `SELECT ` + countryColumns + ` FROM ` + countryFrom + ` WHERE countries.id = @id`

	result, err := scanCountry(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.GetByID: %w", translate(err))
	}
	return result, nil
}

func (r *pgCountryRepo) List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error) {
	q := listQuery{
		columns: countryColumns,
		from:    countryFrom,
		args:    pgx.NamedArgs{},
		orderBy: countrySorter.OrderBy(p.Sort, p.Order),
	}
	if p.Search != "" {
		q.and("(countries.name_folded LIKE @search OR continents.name_folded LIKE @search)",
			"search", search.LikePattern(p.Search))
	}
	if f.ContinentID != 0 {
		q.and("continents.id = @continent_id", "continent_id", f.ContinentID)
	}
	if f.ContinentName != "" {
		q.and("continents.name = @continent_name", "continent_name", f.ContinentName)
	}

	page, err := queryPage(ctx, r.db, q, p.Pagination, scanCountry)
	if err != nil {
		return domain.Page[domain.Country]{}, fmt.Errorf("repo.CountryRepo.List: %w", err)
	}
	return page, nil
}

func (r *pgCountryRepo) Update(ctx context.Context, c domain.Country) (domain.Country, error) {
	const q = `
		WITH written AS (
			UPDATE countries
			SET name         = @name,
			    name_folded  = @name_folded,
			    description  = @description,
			    area         = @area,
			    population   = @population,
			    continent_id = @continent_id
			WHERE id = @id
			RETURNING *
		)
		SELECT ` + countryColumns + `
		FROM written AS countries JOIN continents ON countries.continent_id = continents.id`

	args := countryArgs(c)
	args["id"] = c.ID

	result, err := scanCountry(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Country{}, fmt.Errorf("repo.CountryRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgCountryRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM countries WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.CountryRepo.Delete: %w", translateDelete(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.CountryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgCountryRepo) CountTrips(ctx context.Context, id int64) (int64, error) {
	n, err := count(ctx, r.db, `SELECT count(*) FROM trips WHERE country_id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return 0, fmt.Errorf("repo.CountryRepo.CountTrips: %w", err)
	}
	return n, nil
}

func countryArgs(c domain.Country) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":         c.Name,
		"name_folded":  search.Fold(c.Name),
		"description":  c.Description,
		"area":         c.Area,
		"population":   c.Population,
		"continent_id": c.ContinentID,
	}
}

func scanCountry(s scanner) (domain.Country, error) {
	var c domain.Country
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Area, &c.Population, &c.ContinentID, &c.ContinentName)
	if err != nil {
		return domain.Country{}, err
	}
	return c, nil
}

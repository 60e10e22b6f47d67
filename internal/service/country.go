package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// CountryInput is the raw field set of a country create or update.
type CountryInput struct {
	Name        *string
	Description *string
	Area        any
	Population  any
	ContinentID any
}

func (in CountryInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Area == nil &&
		in.Population == nil && in.ContinentID == nil
}

// CountryService implements business logic for Country operations.
// It holds the continents repo to verify the parent continent exists.
type CountryService struct {
	countries  repo.CountryRepo
	continents repo.ContinentRepo
	audit      Auditor
}

// NewCountryService constructs a CountryService backed by the provided repos.
func NewCountryService(countries repo.CountryRepo, continents repo.ContinentRepo, a Auditor) *CountryService {
	return &CountryService{countries: countries, continents: continents, audit: a}
}

// Create validates the country, verifies the continent exists, then persists.
func (s *CountryService) Create(ctx context.Context, actor domain.Claims, in CountryInput) (domain.Country, error) {
	if _, err := requiredText("name", in.Name); err != nil {
		return domain.Country{}, err
	}
	if err := requirePresent(
		field{"area", in.Area},
		field{"population", in.Population},
		field{"continent_id", in.ContinentID},
	); err != nil {
		return domain.Country{}, err
	}
	c, err := applyCountry(domain.Country{}, in)
	if err != nil {
		return domain.Country{}, err
	}
	if err := s.requireContinent(ctx, c.ContinentID); err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.Create: %w", err)
	}

	result, err := s.countries.Create(ctx, c)
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.Create: %w", err)
	}
	s.audit.Record(ctx, actor, ActionCountryCreate, fmt.Sprintf("created country %d (%s)", result.ID, result.Name))
	return result, nil
}

// GetByID returns domain.ErrNotFound if the country does not exist.
func (s *CountryService) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	result, err := s.countries.GetByID(ctx, id)
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of countries.
func (s *CountryService) List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error) {
	page, err := s.countries.List(ctx, p, f)
	if err != nil {
		return domain.Page[domain.Country]{}, fmt.Errorf("service.CountryService.List: %w", err)
	}
	return page, nil
}

// Update applies the supplied fields. A changed continent_id must reference
// an existing continent.
func (s *CountryService) Update(ctx context.Context, actor domain.Claims, id int64, in CountryInput) (domain.Country, error) {
	if in.empty() {
		return domain.Country{}, noData()
	}
	current, err := s.countries.GetByID(ctx, id)
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.Update: %w", err)
	}
	c, err := applyCountry(current, in)
	if err != nil {
		return domain.Country{}, err
	}
	if c.ContinentID != current.ContinentID {
		if err := s.requireContinent(ctx, c.ContinentID); err != nil {
			return domain.Country{}, fmt.Errorf("service.CountryService.Update: %w", err)
		}
	}

	result, err := s.countries.Update(ctx, c)
	if err != nil {
		return domain.Country{}, fmt.Errorf("service.CountryService.Update: %w", err)
	}
	s.audit.Record(ctx, actor, ActionCountryUpdate, fmt.Sprintf("updated country %d", id))
	return result, nil
}

// Delete removes a country that no trip references.
func (s *CountryService) Delete(ctx context.Context, actor domain.Claims, id int64) error {
	if _, err := s.countries.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.CountryService.Delete: %w", err)
	}
	trips, err := s.countries.CountTrips(ctx, id)
	if err != nil {
		return fmt.Errorf("service.CountryService.Delete: %w", err)
	}
	if trips > 0 {
		return fmt.Errorf("%w: country has trips", domain.ErrDependency)
	}

	if err := s.countries.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.CountryService.Delete: %w", err)
	}
	s.audit.Record(ctx, actor, ActionCountryDelete, fmt.Sprintf("deleted country %d", id))
	return nil
}

func (s *CountryService) requireContinent(ctx context.Context, id int64) error {
	return requireParent(ctx, "continent", id, s.continents.GetByID)
}

func applyCountry(base domain.Country, in CountryInput) (domain.Country, error) {
	var err error
	if in.Name != nil {
		if base.Name, err = requiredText("name", in.Name); err != nil {
			return domain.Country{}, err
		}
	}
	if in.Description != nil {
		base.Description = trimmed(in.Description)
	}
	if in.Area != nil {
		if base.Area, err = positiveInt("area", in.Area); err != nil {
			return domain.Country{}, err
		}
	}
	if in.Population != nil {
		if base.Population, err = positiveInt("population", in.Population); err != nil {
			return domain.Country{}, err
		}
	}
	if in.ContinentID != nil {
		if base.ContinentID, err = refID("continent_id", in.ContinentID); err != nil {
			return domain.Country{}, err
		}
	}
	return base, nil
}

// requireParent looks up a referenced row and reports a missing one as
// domain.ErrNotFound naming the entity.
func requireParent[T any](ctx context.Context, entity string, id int64, get func(context.Context, int64) (T, error)) error {
	if _, err := get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: referenced %s %d does not exist", domain.ErrNotFound, entity, id)
		}
		return err
	}
	return nil
}

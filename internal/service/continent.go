package service

import (
	"context"
	"fmt"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// ContinentInput is the raw field set of a continent create or update.
// Nil fields were not supplied. Area is a decoded JSON value.
type ContinentInput struct {
	Name        *string
	Description *string
	Area        any
}

func (in ContinentInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Area == nil
}

// ContinentService implements business logic for Continent operations.
type ContinentService struct {
	repo  repo.ContinentRepo
	audit Auditor
}

// NewContinentService constructs a ContinentService backed by the provided repo.
func NewContinentService(r repo.ContinentRepo, a Auditor) *ContinentService {
	return &ContinentService{repo: r, audit: a}
}

// Create validates and persists a new continent.
// Returns domain.ErrValidation for bad input and domain.ErrConflict for a taken name.
func (s *ContinentService) Create(ctx context.Context, actor domain.Claims, in ContinentInput) (domain.Continent, error) {
	if _, err := requiredText("name", in.Name); err != nil {
		return domain.Continent{}, err
	}
	if err := requirePresent(field{"area", in.Area}); err != nil {
		return domain.Continent{}, err
	}
	c, err := applyContinent(domain.Continent{}, in)
	if err != nil {
		return domain.Continent{}, err
	}

	result, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.Continent{}, fmt.Errorf("service.ContinentService.Create: %w", err)
	}
	s.audit.Record(ctx, actor, ActionContinentCreate, fmt.Sprintf("created continent %d (%s)", result.ID, result.Name))
	return result, nil
}

// GetByID returns domain.ErrNotFound if the continent does not exist.
func (s *ContinentService) GetByID(ctx context.Context, id int64) (domain.Continent, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Continent{}, fmt.Errorf("service.ContinentService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of continents.
func (s *ContinentService) List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error) {
	page, err := s.repo.List(ctx, p)
	if err != nil {
		return domain.Page[domain.Continent]{}, fmt.Errorf("service.ContinentService.List: %w", err)
	}
	return page, nil
}

// Update applies the supplied fields to an existing continent.
func (s *ContinentService) Update(ctx context.Context, actor domain.Claims, id int64, in ContinentInput) (domain.Continent, error) {
	if in.empty() {
		return domain.Continent{}, noData()
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Continent{}, fmt.Errorf("service.ContinentService.Update: %w", err)
	}
	c, err := applyContinent(current, in)
	if err != nil {
		return domain.Continent{}, err
	}

	result, err := s.repo.Update(ctx, c)
	if err != nil {
		return domain.Continent{}, fmt.Errorf("service.ContinentService.Update: %w", err)
	}
	s.audit.Record(ctx, actor, ActionContinentUpdate, fmt.Sprintf("updated continent %d", id))
	return result, nil
}

// Delete removes a continent that no country references.
// Returns domain.ErrDependency otherwise, with a message that says whether
// those countries also have trips.
func (s *ContinentService) Delete(ctx context.Context, actor domain.Claims, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.ContinentService.Delete: %w", err)
	}
	countries, err := s.repo.CountCountries(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ContinentService.Delete: %w", err)
	}
	if countries > 0 {
		trips, err := s.repo.CountTrips(ctx, id)
		if err != nil {
			return fmt.Errorf("service.ContinentService.Delete: %w", err)
		}
		if trips > 0 {
			return fmt.Errorf("%w: continent has countries with trips", domain.ErrDependency)
		}
		return fmt.Errorf("%w: continent has countries", domain.ErrDependency)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ContinentService.Delete: %w", err)
	}
	s.audit.Record(ctx, actor, ActionContinentDelete, fmt.Sprintf("deleted continent %d", id))
	return nil
}

// applyContinent overlays the supplied fields of in onto base.
func applyContinent(base domain.Continent, in ContinentInput) (domain.Continent, error) {
	var err error
	if in.Name != nil {
		if base.Name, err = requiredText("name", in.Name); err != nil {
			return domain.Continent{}, err
		}
	}
	if in.Description != nil {
		base.Description = trimmed(in.Description)
	}
	if in.Area != nil {
		if base.Area, err = positiveInt("area", in.Area); err != nil {
			return domain.Continent{}, err
		}
	}
	return base, nil
}

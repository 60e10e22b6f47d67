// Package service contains the business logic for the travel booking API.
// Services validate inputs, enforce integrity rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// TripInput is the raw field set of a trip create or update.
type TripInput struct {
	Name        *string
	Description *string
	Period      any
	Price       any
	CountryID   any
}

func (in TripInput) empty() bool {
	return in.Name == nil && in.Description == nil && in.Period == nil &&
		in.Price == nil && in.CountryID == nil
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips     repo.TripRepo
	countries repo.CountryRepo
	audit     Auditor
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, countries repo.CountryRepo, a Auditor) *TripService {
	return &TripService{trips: trips, countries: countries, audit: a}
}

// Create validates a trip, checks its country and rejects an identical offer.
// Returns domain.ErrConflict when another trip has the same
// (name, description, period, price, country_id).
func (s *TripService) Create(ctx context.Context, actor domain.Claims, in TripInput) (domain.Trip, error) {
	if _, err := requiredText("name", in.Name); err != nil {
		return domain.Trip{}, err
	}
	if err := requirePresent(
		field{"period", in.Period},
		field{"price", in.Price},
		field{"country_id", in.CountryID},
	); err != nil {
		return domain.Trip{}, err
	}
	trip, err := applyTrip(domain.Trip{}, in)
	if err != nil {
		return domain.Trip{}, err
	}
	if err := s.requireCountry(ctx, trip.CountryID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	if err := s.rejectDuplicate(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	s.audit.Record(ctx, actor, ActionTripCreate, fmt.Sprintf("created trip %d (%s)", result.ID, result.Name))
	return result, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	result, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of trips.
func (s *TripService) List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error) {
	page, err := s.trips.List(ctx, p, f)
	if err != nil {
		return domain.Page[domain.Trip]{}, fmt.Errorf("service.TripService.List: %w", err)
	}
	return page, nil
}

// Update applies the supplied fields. The merged trip is re-checked against
// the duplicate rule, excluding itself.
func (s *TripService) Update(ctx context.Context, actor domain.Claims, id int64, in TripInput) (domain.Trip, error) {
	if in.empty() {
		return domain.Trip{}, noData()
	}
	current, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip, err := applyTrip(current, in)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.CountryID != current.CountryID {
		if err := s.requireCountry(ctx, trip.CountryID); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
		}
	}
	if err := s.rejectDuplicate(ctx, trip); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	s.audit.Record(ctx, actor, ActionTripUpdate, fmt.Sprintf("updated trip %d", id))
	return result, nil
}

// Delete removes a trip that no reservation references.
func (s *TripService) Delete(ctx context.Context, actor domain.Claims, id int64) error {
	if _, err := s.trips.GetByID(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	n, err := s.trips.CountReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: trip has reservations", domain.ErrDependency)
	}

	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	s.audit.Record(ctx, actor, ActionTripDelete, fmt.Sprintf("deleted trip %d", id))
	return nil
}

func (s *TripService) requireCountry(ctx context.Context, id int64) error {
	return requireParent(ctx, "country", id, s.countries.GetByID)
}

func (s *TripService) rejectDuplicate(ctx context.Context, trip domain.Trip) error {
	dup, err := s.trips.ExistsDuplicate(ctx, trip)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: trip already exists", domain.ErrConflict)
	}
	return nil
}

func applyTrip(base domain.Trip, in TripInput) (domain.Trip, error) {
	var err error
	if in.Name != nil {
		if base.Name, err = requiredText("name", in.Name); err != nil {
			return domain.Trip{}, err
		}
	}
	if in.Description != nil {
		base.Description = trimmed(in.Description)
	}
	if in.Period != nil {
		if base.Period, err = positiveInt("period", in.Period); err != nil {
			return domain.Trip{}, err
		}
	}
	if in.Price != nil {
		if base.Price, err = price(in.Price); err != nil {
			return domain.Trip{}, err
		}
	}
	if in.CountryID != nil {
		if base.CountryID, err = refID("country_id", in.CountryID); err != nil {
			return domain.Trip{}, err
		}
	}
	return base, nil
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// ReservationInput is the raw field set of a reservation create or update.
// TripDate and Status are wire strings.
type ReservationInput struct {
	UserID   any
	TripID   any
	TripDate *string
	Status   *string
}

func (in ReservationInput) empty() bool {
	return in.UserID == nil && in.TripID == nil && in.TripDate == nil && in.Status == nil
}

// BookingInput is a self-service booking: the actor books a trip for a date.
type BookingInput struct {
	TripID   any
	TripDate *string
}

// ReservationService implements the reservation lifecycle: creation and
// update validation, self-service booking, counts and the status sweep.
type ReservationService struct {
	reservations repo.ReservationRepo
	users        repo.UserRepo
	trips        repo.TripRepo
	audit        Auditor
	now          func() time.Time
}

// NewReservationService constructs a ReservationService. now supplies the
// wall clock; pass time.Now in production.
func NewReservationService(
	reservations repo.ReservationRepo,
	users repo.UserRepo,
	trips repo.TripRepo,
	a Auditor,
	now func() time.Time,
) *ReservationService {
	return &ReservationService{reservations: reservations, users: users, trips: trips, audit: a, now: now}
}

// Create validates and persists a reservation on behalf of an admin.
// The trip date must be after today, the user and trip must exist and the
// (user, trip, trip_date) key must be free. Status defaults to pending.
func (s *ReservationService) Create(ctx context.Context, actor domain.Claims, in ReservationInput) (domain.Reservation, error) {
	if err := requirePresent(field{"user_id", in.UserID}, field{"trip_id", in.TripID}); err != nil {
		return domain.Reservation{}, err
	}
	userID, err := refID("user_id", in.UserID)
	if err != nil {
		return domain.Reservation{}, err
	}
	status := domain.StatusPending
	if in.Status != nil {
		if status, err = parseStatus(*in.Status); err != nil {
			return domain.Reservation{}, err
		}
	}

	result, err := s.create(ctx, userID, in.TripID, in.TripDate, status)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	s.audit.Record(ctx, actor, ActionReservationCreate, fmt.Sprintf("created reservation %d", result.ID))
	return result, nil
}

// Book creates a pending reservation for the actor.
func (s *ReservationService) Book(ctx context.Context, actor domain.Claims, in BookingInput) (domain.Reservation, error) {
	if err := requirePresent(field{"trip_id", in.TripID}); err != nil {
		return domain.Reservation{}, err
	}
	result, err := s.create(ctx, actor.ID, in.TripID, in.TripDate, domain.StatusPending)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Book: %w", err)
	}
	s.audit.Record(ctx, actor, ActionReservationBook, fmt.Sprintf("booked reservation %d", result.ID))
	return result, nil
}

func (s *ReservationService) create(ctx context.Context, userID int64, rawTripID any, rawTripDate *string, status domain.Status) (domain.Reservation, error) {
	tripID, err := refID("trip_id", rawTripID)
	if err != nil {
		return domain.Reservation{}, err
	}
	if rawTripDate == nil {
		return domain.Reservation{}, fmt.Errorf("%w: trip_date is required", domain.ErrValidation)
	}
	tripDate, err := parseDate("trip_date", *rawTripDate)
	if err != nil {
		return domain.Reservation{}, err
	}
	today := dateOf(s.now())
	if !tripDate.After(today) {
		return domain.Reservation{}, fmt.Errorf("%w: %w: trip_date must be at least one day after today", domain.ErrValidation, domain.ErrInvalidDate)
	}

	if err := requireParent(ctx, "user", userID, s.users.GetByID); err != nil {
		return domain.Reservation{}, err
	}
	if err := requireParent(ctx, "trip", tripID, s.trips.GetByID); err != nil {
		return domain.Reservation{}, err
	}
	if err := s.rejectDuplicate(ctx, userID, tripID, tripDate, 0); err != nil {
		return domain.Reservation{}, err
	}

	return s.reservations.Create(ctx, domain.Reservation{
		UserID:          userID,
		TripID:          tripID,
		ReservationDate: today,
		TripDate:        tripDate,
		Status:          status,
	})
}

// GetByID returns domain.ErrNotFound if the reservation does not exist.
func (s *ReservationService) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	result, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.GetByID: %w", err)
	}
	return result, nil
}

// List returns one page of reservations.
func (s *ReservationService) List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error) {
	page, err := s.reservations.List(ctx, p, f)
	if err != nil {
		return domain.Page[domain.Reservation]{}, fmt.Errorf("service.ReservationService.List: %w", err)
	}
	return page, nil
}

// ListByUser returns a user's reservations ordered by trip date.
// Non-admins may only list their own.
func (s *ReservationService) ListByUser(ctx context.Context, actor domain.Claims, userID int64) ([]domain.Reservation, error) {
	if !actor.IsAdmin() && actor.ID != userID {
		return nil, fmt.Errorf("%w: cannot view another user's reservations", domain.ErrForbidden)
	}
	if err := requireParent(ctx, "user", userID, s.users.GetByID); err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByUser: %w", err)
	}
	out, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ReservationService.ListByUser: %w", err)
	}
	if out == nil {
		return []domain.Reservation{}, nil
	}
	return out, nil
}

// Update applies the supplied fields to a reservation. A new trip date must
// fall after the reservation's own reservation date, not after today. The
// merged key is re-checked for duplicates excluding this row.
func (s *ReservationService) Update(ctx context.Context, actor domain.Claims, id int64, in ReservationInput) (domain.Reservation, error) {
	if in.empty() {
		return domain.Reservation{}, noData()
	}

	var (
		next domain.Reservation
		err  error
	)
	if in.Status != nil {
		if next.Status, err = parseStatus(*in.Status); err != nil {
			return domain.Reservation{}, err
		}
	}
	if in.TripDate != nil {
		if next.TripDate, err = parseDate("trip_date", *in.TripDate); err != nil {
			return domain.Reservation{}, err
		}
	}
	if in.UserID != nil {
		if next.UserID, err = refID("user_id", in.UserID); err != nil {
			return domain.Reservation{}, err
		}
	}
	if in.TripID != nil {
		if next.TripID, err = refID("trip_id", in.TripID); err != nil {
			return domain.Reservation{}, err
		}
	}

	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}
	if in.TripDate != nil && !next.TripDate.After(current.ReservationDate) {
		return domain.Reservation{}, fmt.Errorf("%w: %w: trip_date must be at least one day after the reservation date %s",
			domain.ErrValidation, domain.ErrInvalidDate, current.ReservationDate.Format(domain.DateLayout))
	}

	merged := current
	if in.UserID != nil {
		if err := requireParent(ctx, "user", next.UserID, s.users.GetByID); err != nil {
			return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
		}
		merged.UserID = next.UserID
	}
	if in.TripID != nil {
		if err := requireParent(ctx, "trip", next.TripID, s.trips.GetByID); err != nil {
			return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
		}
		merged.TripID = next.TripID
	}
	if in.TripDate != nil {
		merged.TripDate = next.TripDate
	}
	if in.Status != nil {
		merged.Status = next.Status
	}
	if err := s.rejectDuplicate(ctx, merged.UserID, merged.TripID, merged.TripDate, id); err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}

	result, err := s.reservations.Update(ctx, merged)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}
	s.audit.Record(ctx, actor, ActionReservationUpdate, fmt.Sprintf("updated reservation %d", id))
	return result, nil
}

// Delete removes a reservation.
func (s *ReservationService) Delete(ctx context.Context, actor domain.Claims, id int64) error {
	if err := s.reservations.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ReservationService.Delete: %w", err)
	}
	s.audit.Record(ctx, actor, ActionReservationDelete, fmt.Sprintf("deleted reservation %d", id))
	return nil
}

// CountByTrip counts reservations of an existing trip.
func (s *ReservationService) CountByTrip(ctx context.Context, tripID int64) (int64, error) {
	if err := requireParent(ctx, "trip", tripID, s.trips.GetByID); err != nil {
		return 0, fmt.Errorf("service.ReservationService.CountByTrip: %w", err)
	}
	n, err := s.reservations.CountByTrip(ctx, tripID)
	if err != nil {
		return 0, fmt.Errorf("service.ReservationService.CountByTrip: %w", err)
	}
	return n, nil
}

// CountByUser counts reservations of an existing user.
func (s *ReservationService) CountByUser(ctx context.Context, userID int64) (int64, error) {
	if err := requireParent(ctx, "user", userID, s.users.GetByID); err != nil {
		return 0, fmt.Errorf("service.ReservationService.CountByUser: %w", err)
	}
	n, err := s.reservations.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("service.ReservationService.CountByUser: %w", err)
	}
	return n, nil
}

func (s *ReservationService) rejectDuplicate(ctx context.Context, userID, tripID int64, tripDate time.Time, excludeID int64) error {
	dup, err := s.reservations.ExistsDuplicate(ctx, userID, tripID, tripDate, excludeID)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: reservation already exists", domain.ErrConflict)
	}
	return nil
}

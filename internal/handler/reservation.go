package handler

import (
	"context"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// ReservationRequest is the body of POST and PUT /reservations.
// Dates are YYYY-MM-DD strings, validated by the service.
type ReservationRequest struct {
	UserID   any     `json:"user_id"`
	TripID   any     `json:"trip_id"`
	TripDate *string `json:"trip_date"`
	Status   *string `json:"status"`
}

// BookingRequest is the body of POST /reservations/book.
type BookingRequest struct {
	TripID   any     `json:"trip_id"`
	TripDate *string `json:"trip_date"`
}

// Reservation is the wire form of domain.Reservation.
type Reservation struct {
	ID              int64              `json:"id"`
	UserID          int64              `json:"user_id"`
	TripID          int64              `json:"trip_id"`
	ReservationDate openapi_types.Date `json:"reservation_date"`
	TripDate        openapi_types.Date `json:"trip_date"`
	Status          domain.Status      `json:"status"`
	UserEmail       string             `json:"user_email,omitempty"`
	TripName        string             `json:"trip_name,omitempty"`
}

func reservationToResponse(r domain.Reservation) Reservation {
	return Reservation{
		ID:              r.ID,
		UserID:          r.UserID,
		TripID:          r.TripID,
		ReservationDate: openapi_types.Date{Time: r.ReservationDate},
		TripDate:        openapi_types.Date{Time: r.TripDate},
		Status:          r.Status,
		UserEmail:       r.UserEmail,
		TripName:        r.TripName,
	}
}

// ListReservations handles GET /reservations.
// Filters: user_id, user_email, trip_id, trip_name, status.
func (s *Server) ListReservations(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	f, err := reservationFilter(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	page, err := s.reservations.List(r.Context(), p, f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p.Pagination, reservationToResponse))
}

// GetReservation handles GET /reservations/{id}.
func (s *Server) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	res, err := s.reservations.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationToResponse(res))
}

// CreateReservation handles POST /reservations.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var body ReservationRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	res, err := s.reservations.Create(r.Context(), actor(r), service.ReservationInput{
		UserID:   body.UserID,
		TripID:   body.TripID,
		TripDate: body.TripDate,
		Status:   body.Status,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservationToResponse(res))
}

// BookReservation handles POST /reservations/book for the caller.
func (s *Server) BookReservation(w http.ResponseWriter, r *http.Request) {
	var body BookingRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	res, err := s.reservations.Book(r.Context(), actor(r), service.BookingInput{
		TripID:   body.TripID,
		TripDate: body.TripDate,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservationToResponse(res))
}

// UpdateReservation handles PUT /reservations/{id}.
func (s *Server) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	var body ReservationRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	res, err := s.reservations.Update(r.Context(), actor(r), id, service.ReservationInput{
		UserID:   body.UserID,
		TripID:   body.TripID,
		TripDate: body.TripDate,
		Status:   body.Status,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservationToResponse(res))
}

// DeleteReservation handles DELETE /reservations/{id}.
func (s *Server) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	if err := s.reservations.Delete(r.Context(), actor(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUserReservations handles GET /reservations/user/{id}. Non-admins may
// only list their own reservations.
func (s *Server) ListUserReservations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	list, err := s.reservations.ListByUser(r.Context(), actor(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	data := make([]Reservation, len(list))
	for i, res := range list {
		data[i] = reservationToResponse(res)
	}
	writeJSON(w, http.StatusOK, data)
}

// CountTripReservations handles GET /reservations/count/trip/{id}.
func (s *Server) CountTripReservations(w http.ResponseWriter, r *http.Request) {
	s.writeCount(w, r, s.reservations.CountByTrip)
}

// CountUserReservations handles GET /reservations/count/user/{id}.
func (s *Server) CountUserReservations(w http.ResponseWriter, r *http.Request) {
	s.writeCount(w, r, s.reservations.CountByUser)
}

func (s *Server) writeCount(w http.ResponseWriter, r *http.Request, count func(ctx context.Context, id int64) (int64, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	n, err := count(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: n})
}

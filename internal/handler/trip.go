package handler

import (
	"net/http"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// TripRequest is the body of POST and PUT /trips.
type TripRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Period      any     `json:"period"`
	Price       any     `json:"price"`
	CountryID   any     `json:"country_id"`
}

// Trip is the wire form of domain.Trip.
type Trip struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Period        int64   `json:"period"`
	Price         float64 `json:"price"`
	CountryID     int64   `json:"country_id"`
	CountryName   string  `json:"country_name,omitempty"`
	ContinentID   int64   `json:"continent_id,omitempty"`
	ContinentName string  `json:"continent_name,omitempty"`
}

func tripToResponse(t domain.Trip) Trip {
	return Trip{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Period:        t.Period,
		Price:         t.Price,
		CountryID:     t.CountryID,
		CountryName:   t.CountryName,
		ContinentID:   t.ContinentID,
		ContinentName: t.ContinentName,
	}
}

func (b TripRequest) input() service.TripInput {
	return service.TripInput{
		Name:        b.Name,
		Description: b.Description,
		Period:      b.Period,
		Price:       b.Price,
		CountryID:   b.CountryID,
	}
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100)
// plus continent_id, continent_name, country_id and country_name filters.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	f, err := tripFilter(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	page, err := s.trips.List(r.Context(), p, f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p.Pagination, tripToResponse))
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	t, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(t))
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	t, err := s.trips.Create(r.Context(), actor(r), body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(t))
}

// UpdateTrip handles PUT /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	var body TripRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	t, err := s.trips.Update(r.Context(), actor(r), id, body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(t))
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	if err := s.trips.Delete(r.Context(), actor(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

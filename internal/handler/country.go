package handler

import (
	"net/http"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// CountryRequest is the body of POST and PUT /countries.
type CountryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Area        any     `json:"area"`
	Population  any     `json:"population"`
	ContinentID any     `json:"continent_id"`
}

// Country is the wire form of domain.Country.
type Country struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Area          int64  `json:"area"`
	Population    int64  `json:"population"`
	ContinentID   int64  `json:"continent_id"`
	ContinentName string `json:"continent_name,omitempty"`
}

func countryToResponse(c domain.Country) Country {
	return Country{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Area:          c.Area,
		Population:    c.Population,
		ContinentID:   c.ContinentID,
		ContinentName: c.ContinentName,
	}
}

func (b CountryRequest) input() service.CountryInput {
	return service.CountryInput{
		Name:        b.Name,
		Description: b.Description,
		Area:        b.Area,
		Population:  b.Population,
		ContinentID: b.ContinentID,
	}
}

// ListCountries handles GET /countries.
// Filters: continent_id, continent_name.
func (s *Server) ListCountries(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	f, err := countryFilter(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	page, err := s.countries.List(r.Context(), p, f)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p.Pagination, countryToResponse))
}

// GetCountry handles GET /countries/{id}.
func (s *Server) GetCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.countries.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countryToResponse(c))
}

// CreateCountry handles POST /countries.
func (s *Server) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var body CountryRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.countries.Create(r.Context(), actor(r), body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, countryToResponse(c))
}

// UpdateCountry handles PUT /countries/{id}.
func (s *Server) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	var body CountryRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.countries.Update(r.Context(), actor(r), id, body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countryToResponse(c))
}

// DeleteCountry handles DELETE /countries/{id}.
func (s *Server) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	if err := s.countries.Delete(r.Context(), actor(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

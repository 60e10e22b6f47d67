package handler

import (
	"net/http"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// ContinentRequest is the body of POST and PUT /continents.
// Numbers stay untyped so the service can report "must be a number".
type ContinentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Area        any     `json:"area"`
}

// Continent is the wire form of domain.Continent.
type Continent struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Area        int64  `json:"area"`
}

func continentToResponse(c domain.Continent) Continent {
	return Continent{ID: c.ID, Name: c.Name, Description: c.Description, Area: c.Area}
}

func (b ContinentRequest) input() service.ContinentInput {
	return service.ContinentInput{Name: b.Name, Description: b.Description, Area: b.Area}
}

// ListContinents handles GET /continents.
func (s *Server) ListContinents(w http.ResponseWriter, r *http.Request) {
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}
	page, err := s.continents.List(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(page, p.Pagination, continentToResponse))
}

// GetContinent handles GET /continents/{id}.
func (s *Server) GetContinent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.continents.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, continentToResponse(c))
}

// CreateContinent handles POST /continents.
func (s *Server) CreateContinent(w http.ResponseWriter, r *http.Request) {
	var body ContinentRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.continents.Create(r.Context(), actor(r), body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, continentToResponse(c))
}

// UpdateContinent handles PUT /continents/{id}.
func (s *Server) UpdateContinent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	var body ContinentRequest
	if err := decodeBody(r, &body); err != nil {
		validationError(w, err.Error())
		return
	}
	c, err := s.continents.Update(r.Context(), actor(r), id, body.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, continentToResponse(c))
}

// DeleteContinent handles DELETE /continents/{id}.
func (s *Server) DeleteContinent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		validationError(w, err.Error())
		return
	}
	if err := s.continents.Delete(r.Context(), actor(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// ListResponse is the envelope of every list endpoint.
type ListResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// CountResponse is the body of the reservation count endpoints.
type CountResponse struct {
	Count int64 `json:"count"`
}

func newListResponse[E, T any](page domain.Page[E], p domain.PaginationParams, convert func(E) T) ListResponse[T] {
	data := make([]T, len(page.Items))
	for i, item := range page.Items {
		data[i] = convert(item)
	}
	return ListResponse[T]{
		Data:       data,
		Pagination: Pagination{Page: p.Page, Limit: p.Limit, Total: page.Total},
	}
}

// actor returns the authenticated caller. Routes reaching a handler that
// needs an actor have passed the authorizer, so the zero Claims only shows
// up when the router is used without the auth middleware.
func actor(r *http.Request) domain.Claims {
	c, _ := auth.ClaimsFrom(r.Context())
	return c
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

var validate = newValidator()

// newValidator reports fields by their json or query tag name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// decodeBody decodes a JSON object into dst. Numbers are kept as json.Number
// so the service layer sees exactly what the client sent.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errors.New("request body is required")
		case errors.As(err, &maxErr):
			return errors.New("request body too large")
		default:
			return errors.New("request body must be a JSON object")
		}
	}
	return checkStruct(dst)
}

// checkStruct runs the validate tags of dst and turns the first failure into
// a readable message.
func checkStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return id, nil
}

// listQuery is the query string shared by list and report endpoints.
type listQuery struct {
	Search *string `query:"search"`
	Sort   *string `query:"sort"`
	Order  *string `query:"order"`
	Page   *int    `query:"page" validate:"omitnil,min=1"`
	Limit  *int    `query:"limit" validate:"omitnil,min=1"`
}

// bindQuery fills every tagged field of dst from q. Fields must be pointers.
func bindQuery(q url.Values, dst any) error {
	v := reflect.ValueOf(dst).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("query")
		if name == "" {
			continue
		}
		if err := runtime.BindQueryParameter("form", true, false, name, q, v.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("invalid query parameter %s", name)
		}
	}
	return checkStruct(dst)
}

// listParams binds the shared list query. Sort and order are passed through
// untrusted; the repo maps them through its allow-list.
func listParams(r *http.Request) (domain.ListParams, error) {
	var q listQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return domain.ListParams{}, err
	}
	return domain.ListParams{
		Search:     deref(q.Search),
		Sort:       deref(q.Sort),
		Order:      deref(q.Order),
		Pagination: domain.NewPaginationParams(q.Page, q.Limit),
	}, nil
}

type countryQuery struct {
	ContinentID   *int64  `query:"continent_id" validate:"omitnil,min=1"`
	ContinentName *string `query:"continent_name"`
}

func countryFilter(r *http.Request) (domain.CountryFilter, error) {
	var q countryQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return domain.CountryFilter{}, err
	}
	return domain.CountryFilter{ContinentID: derefInt(q.ContinentID), ContinentName: deref(q.ContinentName)}, nil
}

type tripQuery struct {
	ContinentID   *int64  `query:"continent_id" validate:"omitnil,min=1"`
	ContinentName *string `query:"continent_name"`
	CountryID     *int64  `query:"country_id" validate:"omitnil,min=1"`
	CountryName   *string `query:"country_name"`
}

func tripFilter(r *http.Request) (domain.TripFilter, error) {
	var q tripQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return domain.TripFilter{}, err
	}
	return domain.TripFilter{
		ContinentID:   derefInt(q.ContinentID),
		ContinentName: deref(q.ContinentName),
		CountryID:     derefInt(q.CountryID),
		CountryName:   deref(q.CountryName),
	}, nil
}

type userQuery struct {
	Role *string `query:"role" validate:"omitnil,oneof=admin user"`
}

func userFilter(r *http.Request) (domain.UserFilter, error) {
	var q userQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return domain.UserFilter{}, err
	}
	return domain.UserFilter{Role: domain.Role(deref(q.Role))}, nil
}

type reservationQuery struct {
	UserID    *int64  `query:"user_id" validate:"omitnil,min=1"`
	UserEmail *string `query:"user_email"`
	TripID    *int64  `query:"trip_id" validate:"omitnil,min=1"`
	TripName  *string `query:"trip_name"`
	Status    *string `query:"status" validate:"omitnil,oneof=oczekujacy zatwierdzony anulowany zakonczony"`
}

func reservationFilter(r *http.Request) (domain.ReservationFilter, error) {
	var q reservationQuery
	if err := bindQuery(r.URL.Query(), &q); err != nil {
		return domain.ReservationFilter{}, err
	}
	return domain.ReservationFilter{
		UserID:    derefInt(q.UserID),
		UserEmail: deref(q.UserEmail),
		TripID:    derefInt(q.TripID),
		TripName:  deref(q.TripName),
		Status:    domain.Status(deref(q.Status)),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}

// Package handler implements the HTTP handlers for the travel booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, continent.go, etc.) but all share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/report"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// ContinentServicer defines the business operations the continent handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ContinentServicer interface {
	Create(ctx context.Context, actor domain.Claims, in service.ContinentInput) (domain.Continent, error)
	GetByID(ctx context.Context, id int64) (domain.Continent, error)
	List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error)
	Update(ctx context.Context, actor domain.Claims, id int64, in service.ContinentInput) (domain.Continent, error)
	Delete(ctx context.Context, actor domain.Claims, id int64) error
}

// CountryServicer defines the business operations the country handlers depend on.
type CountryServicer interface {
	Create(ctx context.Context, actor domain.Claims, in service.CountryInput) (domain.Country, error)
	GetByID(ctx context.Context, id int64) (domain.Country, error)
	List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error)
	Update(ctx context.Context, actor domain.Claims, id int64, in service.CountryInput) (domain.Country, error)
	Delete(ctx context.Context, actor domain.Claims, id int64) error
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, actor domain.Claims, in service.TripInput) (domain.Trip, error)
	GetByID(ctx context.Context, id int64) (domain.Trip, error)
	List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error)
	Update(ctx context.Context, actor domain.Claims, id int64, in service.TripInput) (domain.Trip, error)
	Delete(ctx context.Context, actor domain.Claims, id int64) error
}

// UserServicer defines the business operations the user handlers depend on.
type UserServicer interface {
	Create(ctx context.Context, actor domain.Claims, in service.UserInput) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error)
	Update(ctx context.Context, actor domain.Claims, id int64, in service.UserInput) (domain.User, error)
	Delete(ctx context.Context, actor domain.Claims, id int64) error
	Profile(ctx context.Context, actor domain.Claims) (domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Claims, in service.UserInput) (domain.User, error)
}

// ReservationServicer defines the business operations the reservation handlers depend on.
type ReservationServicer interface {
	Create(ctx context.Context, actor domain.Claims, in service.ReservationInput) (domain.Reservation, error)
	Book(ctx context.Context, actor domain.Claims, in service.BookingInput) (domain.Reservation, error)
	GetByID(ctx context.Context, id int64) (domain.Reservation, error)
	List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error)
	ListByUser(ctx context.Context, actor domain.Claims, userID int64) ([]domain.Reservation, error)
	Update(ctx context.Context, actor domain.Claims, id int64, in service.ReservationInput) (domain.Reservation, error)
	Delete(ctx context.Context, actor domain.Claims, id int64) error
	CountByTrip(ctx context.Context, tripID int64) (int64, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
}

// AuthServicer defines the credential operations the auth handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, in service.UserInput) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.Claims, error)
	Logout(ctx context.Context, actor domain.Claims) error
	Refresh(ctx context.Context, actor domain.Claims, u domain.User) (string, domain.Claims, error)
}

// ReportServicer builds report tables.
type ReportServicer interface {
	Continents(ctx context.Context, actor domain.Claims, p domain.ListParams) (report.Table, error)
	Countries(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.CountryFilter) (report.Table, error)
	Trips(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.TripFilter) (report.Table, error)
	Users(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.UserFilter) (report.Table, error)
	Reservations(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.ReservationFilter) (report.Table, error)
}

// Services groups every dependency of Server. Nil members are allowed in
// tests that only exercise part of the API.
type Services struct {
	Continents   ContinentServicer
	Countries    CountryServicer
	Trips        TripServicer
	Users        UserServicer
	Reservations ReservationServicer
	Auth         AuthServicer
	Reports      ReportServicer
}

// Server holds the services behind every endpoint.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	continents   ContinentServicer
	countries    CountryServicer
	trips        TripServicer
	users        UserServicer
	reservations ReservationServicer
	auth         AuthServicer
	reports      ReportServicer
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(s Services, log *slog.Logger) *Server {
	return &Server{
		continents:   s.Continents,
		countries:    s.Countries,
		trips:        s.Trips,
		users:        s.Users,
		reservations: s.Reservations,
		auth:         s.Auth,
		reports:      s.Reports,
		log:          log,
	}
}

// Routes registers every endpoint on r. authLimit, if not nil, wraps the
// /auth routes.
func (s *Server) Routes(r chi.Router, authLimit func(http.Handler) http.Handler) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/auth", func(r chi.Router) {
		if authLimit != nil {
			r.Use(authLimit)
		}
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Post("/logout", s.Logout)
		r.Get("/verify", s.Verify)
	})

	r.Route("/continents", func(r chi.Router) {
		r.Get("/", s.ListContinents)
		r.Post("/", s.CreateContinent)
		r.Get("/{id}", s.GetContinent)
		r.Put("/{id}", s.UpdateContinent)
		r.Delete("/{id}", s.DeleteContinent)
	})

	r.Route("/countries", func(r chi.Router) {
		r.Get("/", s.ListCountries)
		r.Post("/", s.CreateCountry)
		r.Get("/{id}", s.GetCountry)
		r.Put("/{id}", s.UpdateCountry)
		r.Delete("/{id}", s.DeleteCountry)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/{id}", s.GetTrip)
		r.Put("/{id}", s.UpdateTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/profile/me", s.GetProfile)
		r.Put("/profile/me", s.UpdateProfile)
		r.Get("/", s.ListUsers)
		r.Post("/", s.CreateUser)
		r.Get("/{id}", s.GetUser)
		r.Put("/{id}", s.UpdateUser)
		r.Delete("/{id}", s.DeleteUser)
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/book", s.BookReservation)
		r.Get("/user/{id}", s.ListUserReservations)
		r.Get("/count/trip/{id}", s.CountTripReservations)
		r.Get("/count/user/{id}", s.CountUserReservations)
		r.Get("/", s.ListReservations)
		r.Post("/", s.CreateReservation)
		r.Get("/{id}", s.GetReservation)
		r.Put("/{id}", s.UpdateReservation)
		r.Delete("/{id}", s.DeleteReservation)
	})

	r.Get("/reports/{entity}", s.GetReport)
}

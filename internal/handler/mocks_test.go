package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/backend/internal/auth"
	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/handler"
	"github.com/pkordes/travel-booking/backend/internal/report"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// ---- service mocks ---------------------------------------------------------
// Set only the method fields your test needs.

type mockContinentServicer struct {
	create  func(ctx context.Context, actor domain.Claims, in service.ContinentInput) (domain.Continent, error)
	getByID func(ctx context.Context, id int64) (domain.Continent, error)
	list    func(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error)
	update  func(ctx context.Context, actor domain.Claims, id int64, in service.ContinentInput) (domain.Continent, error)
	delete  func(ctx context.Context, actor domain.Claims, id int64) error
}

func (m *mockContinentServicer) Create(ctx context.Context, a domain.Claims, in service.ContinentInput) (domain.Continent, error) {
	return m.create(ctx, a, in)
}
func (m *mockContinentServicer) GetByID(ctx context.Context, id int64) (domain.Continent, error) {
	return m.getByID(ctx, id)
}
func (m *mockContinentServicer) List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error) {
	return m.list(ctx, p)
}
func (m *mockContinentServicer) Update(ctx context.Context, a domain.Claims, id int64, in service.ContinentInput) (domain.Continent, error) {
	return m.update(ctx, a, id, in)
}
func (m *mockContinentServicer) Delete(ctx context.Context, a domain.Claims, id int64) error {
	return m.delete(ctx, a, id)
}

var _ handler.ContinentServicer = (*mockContinentServicer)(nil)

type mockCountryServicer struct {
	create  func(ctx context.Context, actor domain.Claims, in service.CountryInput) (domain.Country, error)
	getByID func(ctx context.Context, id int64) (domain.Country, error)
	list    func(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error)
	update  func(ctx context.Context, actor domain.Claims, id int64, in service.CountryInput) (domain.Country, error)
	delete  func(ctx context.Context, actor domain.Claims, id int64) error
}

func (m *mockCountryServicer) Create(ctx context.Context, a domain.Claims, in service.CountryInput) (domain.Country, error) {
	return m.create(ctx, a, in)
}
func (m *mockCountryServicer) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	return m.getByID(ctx, id)
}
func (m *mockCountryServicer) List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error) {
	return m.list(ctx, p, f)
}
func (m *mockCountryServicer) Update(ctx context.Context, a domain.Claims, id int64, in service.CountryInput) (domain.Country, error) {
	return m.update(ctx, a, id, in)
}
func (m *mockCountryServicer) Delete(ctx context.Context, a domain.Claims, id int64) error {
	return m.delete(ctx, a, id)
}

var _ handler.CountryServicer = (*mockCountryServicer)(nil)

type mockTripServicer struct {
	create  func(ctx context.Context, actor domain.Claims, in service.TripInput) (domain.Trip, error)
	getByID func(ctx context.Context, id int64) (domain.Trip, error)
	list    func(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error)
	update  func(ctx context.Context, actor domain.Claims, id int64, in service.TripInput) (domain.Trip, error)
	delete  func(ctx context.Context, actor domain.Claims, id int64) error
}

func (m *mockTripServicer) Create(ctx context.Context, a domain.Claims, in service.TripInput) (domain.Trip, error) {
	return m.create(ctx, a, in)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error) {
	return m.list(ctx, p, f)
}
func (m *mockTripServicer) Update(ctx context.Context, a domain.Claims, id int64, in service.TripInput) (domain.Trip, error) {
	return m.update(ctx, a, id, in)
}
func (m *mockTripServicer) Delete(ctx context.Context, a domain.Claims, id int64) error {
	return m.delete(ctx, a, id)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockUserServicer struct {
	create        func(ctx context.Context, actor domain.Claims, in service.UserInput) (domain.User, error)
	getByID       func(ctx context.Context, id int64) (domain.User, error)
	list          func(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error)
	update        func(ctx context.Context, actor domain.Claims, id int64, in service.UserInput) (domain.User, error)
	delete        func(ctx context.Context, actor domain.Claims, id int64) error
	profile       func(ctx context.Context, actor domain.Claims) (domain.User, error)
	updateProfile func(ctx context.Context, actor domain.Claims, in service.UserInput) (domain.User, error)
}

func (m *mockUserServicer) Create(ctx context.Context, a domain.Claims, in service.UserInput) (domain.User, error) {
	return m.create(ctx, a, in)
}
func (m *mockUserServicer) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserServicer) List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error) {
	return m.list(ctx, p, f)
}
func (m *mockUserServicer) Update(ctx context.Context, a domain.Claims, id int64, in service.UserInput) (domain.User, error) {
	return m.update(ctx, a, id, in)
}
func (m *mockUserServicer) Delete(ctx context.Context, a domain.Claims, id int64) error {
	return m.delete(ctx, a, id)
}
func (m *mockUserServicer) Profile(ctx context.Context, a domain.Claims) (domain.User, error) {
	return m.profile(ctx, a)
}
func (m *mockUserServicer) UpdateProfile(ctx context.Context, a domain.Claims, in service.UserInput) (domain.User, error) {
	return m.updateProfile(ctx, a, in)
}

var _ handler.UserServicer = (*mockUserServicer)(nil)

type mockReservationServicer struct {
	create      func(ctx context.Context, actor domain.Claims, in service.ReservationInput) (domain.Reservation, error)
	book        func(ctx context.Context, actor domain.Claims, in service.BookingInput) (domain.Reservation, error)
	getByID     func(ctx context.Context, id int64) (domain.Reservation, error)
	list        func(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error)
	listByUser  func(ctx context.Context, actor domain.Claims, userID int64) ([]domain.Reservation, error)
	update      func(ctx context.Context, actor domain.Claims, id int64, in service.ReservationInput) (domain.Reservation, error)
	delete      func(ctx context.Context, actor domain.Claims, id int64) error
	countByTrip func(ctx context.Context, tripID int64) (int64, error)
	countByUser func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockReservationServicer) Create(ctx context.Context, a domain.Claims, in service.ReservationInput) (domain.Reservation, error) {
	return m.create(ctx, a, in)
}
func (m *mockReservationServicer) Book(ctx context.Context, a domain.Claims, in service.BookingInput) (domain.Reservation, error) {
	return m.book(ctx, a, in)
}
func (m *mockReservationServicer) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationServicer) List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error) {
	return m.list(ctx, p, f)
}
func (m *mockReservationServicer) ListByUser(ctx context.Context, a domain.Claims, userID int64) ([]domain.Reservation, error) {
	return m.listByUser(ctx, a, userID)
}
func (m *mockReservationServicer) Update(ctx context.Context, a domain.Claims, id int64, in service.ReservationInput) (domain.Reservation, error) {
	return m.update(ctx, a, id, in)
}
func (m *mockReservationServicer) Delete(ctx context.Context, a domain.Claims, id int64) error {
	return m.delete(ctx, a, id)
}
func (m *mockReservationServicer) CountByTrip(ctx context.Context, tripID int64) (int64, error) {
	return m.countByTrip(ctx, tripID)
}
func (m *mockReservationServicer) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return m.countByUser(ctx, userID)
}

var _ handler.ReservationServicer = (*mockReservationServicer)(nil)

type mockAuthServicer struct {
	register func(ctx context.Context, in service.UserInput) (domain.User, error)
	login    func(ctx context.Context, email, password string) (string, domain.Claims, error)
	logout   func(ctx context.Context, actor domain.Claims) error
	refresh  func(ctx context.Context, actor domain.Claims, u domain.User) (string, domain.Claims, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, in service.UserInput) (domain.User, error) {
	return m.register(ctx, in)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (string, domain.Claims, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Logout(ctx context.Context, a domain.Claims) error {
	return m.logout(ctx, a)
}
func (m *mockAuthServicer) Refresh(ctx context.Context, a domain.Claims, u domain.User) (string, domain.Claims, error) {
	return m.refresh(ctx, a, u)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

type mockReportServicer struct {
	table func(entity string, p domain.ListParams) (report.Table, error)
}

func (m *mockReportServicer) Continents(_ context.Context, _ domain.Claims, p domain.ListParams) (report.Table, error) {
	return m.table("continents", p)
}
func (m *mockReportServicer) Countries(_ context.Context, _ domain.Claims, p domain.ListParams, _ domain.CountryFilter) (report.Table, error) {
	return m.table("countries", p)
}
func (m *mockReportServicer) Trips(_ context.Context, _ domain.Claims, p domain.ListParams, _ domain.TripFilter) (report.Table, error) {
	return m.table("trips", p)
}
func (m *mockReportServicer) Users(_ context.Context, _ domain.Claims, p domain.ListParams, _ domain.UserFilter) (report.Table, error) {
	return m.table("users", p)
}
func (m *mockReportServicer) Reservations(_ context.Context, _ domain.Claims, p domain.ListParams, _ domain.ReservationFilter) (report.Table, error) {
	return m.table("reservations", p)
}

var _ handler.ReportServicer = (*mockReportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var (
	admin = domain.Claims{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin, TokenID: "tok-admin"}
	user  = domain.Claims{ID: 2, Email: "jan@example.com", Role: domain.RoleUser, TokenID: "tok-user"}
)

// newHTTPHandler wires a Server with the given mocks into a chi router the
// same way main.go does, minus the auth middleware.
func newHTTPHandler(s handler.Services) http.Handler {
	r := chi.NewRouter()
	handler.NewServer(s, discardLogger()).Routes(r, nil)
	return r
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// do sends a request as caller (nil for anonymous) and returns the recorder.
func do(t *testing.T, h http.Handler, method, target string, body any, caller *domain.Claims) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), *caller))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

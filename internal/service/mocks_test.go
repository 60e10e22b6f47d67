package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
	"github.com/pkordes/travel-booking/backend/internal/service"
)

// ---- repos -----------------------------------------------------------------

type mockContinentRepo struct {
	create         func(ctx context.Context, c domain.Continent) (domain.Continent, error)
	getByID        func(ctx context.Context, id int64) (domain.Continent, error)
	list           func(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error)
	update         func(ctx context.Context, c domain.Continent) (domain.Continent, error)
	delete         func(ctx context.Context, id int64) error
	countCountries func(ctx context.Context, id int64) (int64, error)
	countTrips     func(ctx context.Context, id int64) (int64, error)
}

func (m *mockContinentRepo) Create(ctx context.Context, c domain.Continent) (domain.Continent, error) {
	return m.create(ctx, c)
}
func (m *mockContinentRepo) GetByID(ctx context.Context, id int64) (domain.Continent, error) {
	return m.getByID(ctx, id)
}
func (m *mockContinentRepo) List(ctx context.Context, p domain.ListParams) (domain.Page[domain.Continent], error) {
	return m.list(ctx, p)
}
func (m *mockContinentRepo) Update(ctx context.Context, c domain.Continent) (domain.Continent, error) {
	return m.update(ctx, c)
}
func (m *mockContinentRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockContinentRepo) CountCountries(ctx context.Context, id int64) (int64, error) {
	return m.countCountries(ctx, id)
}
func (m *mockContinentRepo) CountTrips(ctx context.Context, id int64) (int64, error) {
	return m.countTrips(ctx, id)
}

var _ repo.ContinentRepo = (*mockContinentRepo)(nil)

type mockCountryRepo struct {
	create     func(ctx context.Context, c domain.Country) (domain.Country, error)
	getByID    func(ctx context.Context, id int64) (domain.Country, error)
	list       func(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error)
	update     func(ctx context.Context, c domain.Country) (domain.Country, error)
	delete     func(ctx context.Context, id int64) error
	countTrips func(ctx context.Context, id int64) (int64, error)
}

func (m *mockCountryRepo) Create(ctx context.Context, c domain.Country) (domain.Country, error) {
	return m.create(ctx, c)
}
func (m *mockCountryRepo) GetByID(ctx context.Context, id int64) (domain.Country, error) {
	return m.getByID(ctx, id)
}
func (m *mockCountryRepo) List(ctx context.Context, p domain.ListParams, f domain.CountryFilter) (domain.Page[domain.Country], error) {
	return m.list(ctx, p, f)
}
func (m *mockCountryRepo) Update(ctx context.Context, c domain.Country) (domain.Country, error) {
	return m.update(ctx, c)
}
func (m *mockCountryRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockCountryRepo) CountTrips(ctx context.Context, id int64) (int64, error) {
	return m.countTrips(ctx, id)
}

var _ repo.CountryRepo = (*mockCountryRepo)(nil)

type mockTripRepo struct {
	create            func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	getByID           func(ctx context.Context, id int64) (domain.Trip, error)
	list              func(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error)
	update            func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	delete            func(ctx context.Context, id int64) error
	existsDuplicate   func(ctx context.Context, t domain.Trip) (bool, error)
	countReservations func(ctx context.Context, id int64) (int64, error)
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context, p domain.ListParams, f domain.TripFilter) (domain.Page[domain.Trip], error) {
	return m.list(ctx, p, f)
}
func (m *mockTripRepo) Update(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, t)
}
func (m *mockTripRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) ExistsDuplicate(ctx context.Context, t domain.Trip) (bool, error) {
	return m.existsDuplicate(ctx, t)
}
func (m *mockTripRepo) CountReservations(ctx context.Context, id int64) (int64, error) {
	return m.countReservations(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockUserRepo struct {
	create            func(ctx context.Context, u domain.User) (domain.User, error)
	getByID           func(ctx context.Context, id int64) (domain.User, error)
	getByEmail        func(ctx context.Context, email string) (domain.User, error)
	list              func(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error)
	update            func(ctx context.Context, u domain.User) (domain.User, error)
	delete            func(ctx context.Context, id int64) error
	countReservations func(ctx context.Context, id int64) (int64, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context, p domain.ListParams, f domain.UserFilter) (domain.Page[domain.User], error) {
	return m.list(ctx, p, f)
}
func (m *mockUserRepo) Update(ctx context.Context, u domain.User) (domain.User, error) {
	return m.update(ctx, u)
}
func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockUserRepo) CountReservations(ctx context.Context, id int64) (int64, error) {
	return m.countReservations(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type mockReservationRepo struct {
	create          func(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	getByID         func(ctx context.Context, id int64) (domain.Reservation, error)
	list            func(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error)
	listByUser      func(ctx context.Context, userID int64) ([]domain.Reservation, error)
	update          func(ctx context.Context, r domain.Reservation) (domain.Reservation, error)
	delete          func(ctx context.Context, id int64) error
	existsDuplicate func(ctx context.Context, userID, tripID int64, tripDate time.Time, excludeID int64) (bool, error)
	countByTrip     func(ctx context.Context, tripID int64) (int64, error)
	countByUser     func(ctx context.Context, userID int64) (int64, error)
	listDue         func(ctx context.Context, today time.Time) ([]domain.Reservation, error)
	applySweep      func(ctx context.Context, r domain.Reservation, from domain.Status) (bool, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	return m.create(ctx, r)
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id int64) (domain.Reservation, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationRepo) List(ctx context.Context, p domain.ListParams, f domain.ReservationFilter) (domain.Page[domain.Reservation], error) {
	return m.list(ctx, p, f)
}
func (m *mockReservationRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockReservationRepo) Update(ctx context.Context, r domain.Reservation) (domain.Reservation, error) {
	return m.update(ctx, r)
}
func (m *mockReservationRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}
func (m *mockReservationRepo) ExistsDuplicate(ctx context.Context, userID, tripID int64, tripDate time.Time, excludeID int64) (bool, error) {
	return m.existsDuplicate(ctx, userID, tripID, tripDate, excludeID)
}
func (m *mockReservationRepo) CountByTrip(ctx context.Context, tripID int64) (int64, error) {
	return m.countByTrip(ctx, tripID)
}
func (m *mockReservationRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return m.countByUser(ctx, userID)
}
func (m *mockReservationRepo) ListDue(ctx context.Context, today time.Time) ([]domain.Reservation, error) {
	return m.listDue(ctx, today)
}
func (m *mockReservationRepo) ApplySweep(ctx context.Context, r domain.Reservation, from domain.Status) (bool, error) {
	return m.applySweep(ctx, r, from)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

// ---- collaborators ---------------------------------------------------------

// recordingAuditor keeps every event so tests can assert on audit output.
type recordingAuditor struct {
	mu     sync.Mutex
	events []auditEntry
}

type auditEntry struct {
	actor  domain.Claims
	action string
	detail string
}

func (a *recordingAuditor) Record(_ context.Context, actor domain.Claims, action, detail string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, auditEntry{actor: actor, action: action, detail: detail})
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.action
	}
	return out
}

var _ service.Auditor = (*recordingAuditor)(nil)

// fakeHasher "hashes" by prefixing, which keeps assertions readable.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) bool  { return hash == "hashed:"+password }

var _ service.PasswordHasher = fakeHasher{}

type mockTokens struct {
	issue func(c domain.Claims) (string, domain.Claims, error)
}

func (m *mockTokens) Issue(c domain.Claims) (string, domain.Claims, error) {
	return m.issue(c)
}

var _ service.TokenIssuer = (*mockTokens)(nil)

type mockRevoker struct {
	revoke func(ctx context.Context, tokenID string, until time.Time) error
}

func (m *mockRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	return m.revoke(ctx, tokenID, until)
}

var _ service.Revoker = (*mockRevoker)(nil)

// ---- shared fixtures -------------------------------------------------------

var (
	admin = domain.Claims{ID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	user  = domain.Claims{ID: 2, Email: "jan@example.com", Role: domain.RoleUser}
)

func str(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/repo"
	"github.com/pkordes/travel-booking/backend/testutil"
)

// repos bundles every repo backed by one transaction so tests can build
// parent rows and children together. The transaction is rolled back when the
// test finishes.
type repos struct {
	continents   repo.ContinentRepo
	countries    repo.CountryRepo
	trips        repo.TripRepo
	users        repo.UserRepo
	reservations repo.ReservationRepo
	audit        repo.AuditRepo
	tx           pgx.Tx
}

func newTestRepos(t *testing.T) repos {
	t.Helper()
	tx := testutil.NewTx(t)
	return repos{
		continents:   repo.NewContinentRepo(tx),
		countries:    repo.NewCountryRepo(tx),
		trips:        repo.NewTripRepo(tx),
		users:        repo.NewUserRepo(tx),
		reservations: repo.NewReservationRepo(tx),
		audit:        repo.NewAuditRepo(tx),
		tx:           tx,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mustCreateContinent inserts a continent whose name does not collide with
// the seeded ones.
func mustCreateContinent(t *testing.T, r repos, name string) domain.Continent {
	t.Helper()
	c, err := r.continents.Create(context.Background(), domain.Continent{
		Name:        name,
		Description: "test continent",
		Area:        1000,
	})
	require.NoError(t, err, "create continent")
	return c
}

func mustCreateCountry(t *testing.T, r repos, continentID int64, name string) domain.Country {
	t.Helper()
	c, err := r.countries.Create(context.Background(), domain.Country{
		Name:        name,
		Description: "test country",
		Area:        500,
		Population:  1000000,
		ContinentID: continentID,
	})
	require.NoError(t, err, "create country")
	return c
}

func mustCreateTrip(t *testing.T, r repos, countryID int64, name string) domain.Trip {
	t.Helper()
	trip, err := r.trips.Create(context.Background(), domain.Trip{
		Name:        name,
		Description: "sightseeing",
		Period:      7,
		Price:       1999.99,
		CountryID:   countryID,
	})
	require.NoError(t, err, "create trip")
	return trip
}

func mustCreateUser(t *testing.T, r repos, email string) domain.User {
	t.Helper()
	u, err := r.users.Create(context.Background(), domain.User{
		FirstName:    "Jan",
		LastName:     "Kowalski",
		Email:        email,
		PasswordHash: "hash",
		Role:         domain.RoleUser,
	})
	require.NoError(t, err, "create user")
	return u
}

// fixture creates one continent, country, trip and user.
type fixture struct {
	continent domain.Continent
	country   domain.Country
	trip      domain.Trip
	user      domain.User
}

func mustCreateFixture(t *testing.T, r repos) fixture {
	t.Helper()
	continent := mustCreateContinent(t, r, "Atlantyda")
	country := mustCreateCountry(t, r, continent.ID, "Wyspa Łódź")
	return fixture{
		continent: continent,
		country:   country,
		trip:      mustCreateTrip(t, r, country.ID, "Rejs po zatoce"),
		user:      mustCreateUser(t, r, "jan@example.com"),
	}
}

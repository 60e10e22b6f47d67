package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkordes/travel-booking/backend/internal/domain"
	"github.com/pkordes/travel-booking/backend/internal/report"
	"github.com/pkordes/travel-booking/backend/internal/repo"
)

// ReportService assembles full, unpaginated report tables for each entity.
// Search, sort and filters behave exactly as in the list endpoints.
type ReportService struct {
	continents   repo.ContinentRepo
	countries    repo.CountryRepo
	trips        repo.TripRepo
	users        repo.UserRepo
	reservations repo.ReservationRepo
	audit        Auditor
}

// NewReportService constructs a ReportService backed by the provided repos.
func NewReportService(
	continents repo.ContinentRepo,
	countries repo.CountryRepo,
	trips repo.TripRepo,
	users repo.UserRepo,
	reservations repo.ReservationRepo,
	a Auditor,
) *ReportService {
	return &ReportService{
		continents:   continents,
		countries:    countries,
		trips:        trips,
		users:        users,
		reservations: reservations,
		audit:        a,
	}
}

// Continents returns every matching continent as a report table.
func (s *ReportService) Continents(ctx context.Context, actor domain.Claims, p domain.ListParams) (report.Table, error) {
	page, err := s.continents.List(ctx, unpaged(p))
	if err != nil {
		return report.Table{}, fmt.Errorf("service.ReportService.Continents: %w", err)
	}
	t := report.Table{
		Name:    "continents",
		Title:   "Continents",
		Headers: []string{"ID", "Name", "Description", "Area (km2)"},
		Widths:  []float64{1, 3, 8, 2},
	}
	for _, c := range page.Items {
		t.Rows = append(t.Rows, []string{itoa(c.ID), c.Name, c.Description, itoa(c.Area)})
	}
	return s.done(ctx, actor, t), nil
}

// Countries returns every matching country as a report table.
func (s *ReportService) Countries(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.CountryFilter) (report.Table, error) {
	page, err := s.countries.List(ctx, unpaged(p), f)
	if err != nil {
		return report.Table{}, fmt.Errorf("service.ReportService.Countries: %w", err)
	}
	t := report.Table{
		Name:    "countries",
		Title:   "Countries",
		Headers: []string{"ID", "Name", "Description", "Area (km2)", "Population", "Continent"},
		Widths:  []float64{1, 3, 6, 2, 2, 3},
	}
	for _, c := range page.Items {
		t.Rows = append(t.Rows, []string{
			itoa(c.ID), c.Name, c.Description, itoa(c.Area), itoa(c.Population), c.ContinentName,
		})
	}
	return s.done(ctx, actor, t), nil
}

// Trips returns every matching trip as a report table.
func (s *ReportService) Trips(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.TripFilter) (report.Table, error) {
	page, err := s.trips.List(ctx, unpaged(p), f)
	if err != nil {
		return report.Table{}, fmt.Errorf("service.ReportService.Trips: %w", err)
	}
	t := report.Table{
		Name:    "trips",
		Title:   "Trips",
		Headers: []string{"ID", "Name", "Description", "Days", "Price", "Country", "Continent"},
		Widths:  []float64{1, 3, 6, 1, 2, 3, 3},
	}
	for _, trip := range page.Items {
		t.Rows = append(t.Rows, []string{
			itoa(trip.ID), trip.Name, trip.Description, itoa(trip.Period),
			strconv.FormatFloat(trip.Price, 'f', 2, 64), trip.CountryName, trip.ContinentName,
		})
	}
	return s.done(ctx, actor, t), nil
}

// Users returns every matching user as a report table. Password hashes are
// never included.
func (s *ReportService) Users(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.UserFilter) (report.Table, error) {
	page, err := s.users.List(ctx, unpaged(p), f)
	if err != nil {
		return report.Table{}, fmt.Errorf("service.ReportService.Users: %w", err)
	}
	t := report.Table{
		Name:    "users",
		Title:   "Users",
		Headers: []string{"ID", "First name", "Last name", "Email", "Role"},
		Widths:  []float64{1, 3, 3, 5, 2},
	}
	for _, u := range page.Items {
		t.Rows = append(t.Rows, []string{itoa(u.ID), u.FirstName, u.LastName, u.Email, roleLabel(u.Role)})
	}
	return s.done(ctx, actor, t), nil
}

// Reservations returns every matching reservation as a report table.
func (s *ReportService) Reservations(ctx context.Context, actor domain.Claims, p domain.ListParams, f domain.ReservationFilter) (report.Table, error) {
	page, err := s.reservations.List(ctx, unpaged(p), f)
	if err != nil {
		return report.Table{}, fmt.Errorf("service.ReportService.Reservations: %w", err)
	}
	t := report.Table{
		Name:    "reservations",
		Title:   "Reservations",
		Headers: []string{"ID", "User", "Trip", "Reserved on", "Trip date", "Status"},
		Widths:  []float64{1, 4, 4, 2, 2, 2},
	}
	for _, r := range page.Items {
		t.Rows = append(t.Rows, []string{
			itoa(r.ID), r.UserEmail, r.TripName,
			r.ReservationDate.Format(domain.DateLayout), r.TripDate.Format(domain.DateLayout),
			statusLabel(r.Status),
		})
	}
	return s.done(ctx, actor, t), nil
}

func (s *ReportService) done(ctx context.Context, actor domain.Claims, t report.Table) report.Table {
	s.audit.Record(ctx, actor, ActionReport, fmt.Sprintf("generated %s report (%d rows)", t.Name, len(t.Rows)))
	return t
}

// unpaged drops pagination so the repo returns every matching row.
func unpaged(p domain.ListParams) domain.ListParams {
	p.Pagination = domain.PaginationParams{}
	return p
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleAdmin {
		return "Administrator"
	}
	return "User"
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusPending:
		return "Pending"
	case domain.StatusApproved:
		return "Approved"
	case domain.StatusCancelled:
		return "Cancelled"
	case domain.StatusCompleted:
		return "Completed"
	}
	return string(s)
}

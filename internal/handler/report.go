package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/travel-booking/backend/internal/report"
)

// GetReport handles GET /reports/{entity}?format=csv|pdf.
// It accepts the same search, sort and filter parameters as the matching
// list endpoint; pagination is ignored and every matching row is included.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	format, ok := report.ParseFormat(r.URL.Query().Get("format"))
	if !ok {
		validationError(w, "format must be one of: csv pdf")
		return
	}
	p, err := listParams(r)
	if err != nil {
		validationError(w, err.Error())
		return
	}

	ctx, caller := r.Context(), actor(r)
	var table report.Table
	switch entity := chi.URLParam(r, "entity"); entity {
	case "continents":
		table, err = s.reports.Continents(ctx, caller, p)
	case "countries":
		f, ferr := countryFilter(r)
		if ferr != nil {
			validationError(w, ferr.Error())
			return
		}
		table, err = s.reports.Countries(ctx, caller, p, f)
	case "trips":
		f, ferr := tripFilter(r)
		if ferr != nil {
			validationError(w, ferr.Error())
			return
		}
		table, err = s.reports.Trips(ctx, caller, p, f)
	case "users":
		f, ferr := userFilter(r)
		if ferr != nil {
			validationError(w, ferr.Error())
			return
		}
		table, err = s.reports.Users(ctx, caller, p, f)
	case "reservations":
		f, ferr := reservationFilter(r)
		if ferr != nil {
			validationError(w, ferr.Error())
			return
		}
		table, err = s.reports.Reservations(ctx, caller, p, f)
	default:
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("no report for %q", entity))
		return
	}
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// Render to a buffer first so a rendering failure can still become a 500.
	var buf bytes.Buffer
	if err := report.Write(&buf, table, format); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, table.Filename(format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

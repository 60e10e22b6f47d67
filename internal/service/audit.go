package service

import (
	"context"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

// Auditor receives one event per successful mutation or report generation.
// Implementations must not fail the caller; delivery errors are theirs to log.
type Auditor interface {
	Record(ctx context.Context, actor domain.Claims, action, detail string)
}

// Audit action names.
const (
	ActionContinentCreate   = "continent.create"
	ActionContinentUpdate   = "continent.update"
	ActionContinentDelete   = "continent.delete"
	ActionCountryCreate     = "country.create"
	ActionCountryUpdate     = "country.update"
	ActionCountryDelete     = "country.delete"
	ActionTripCreate        = "trip.create"
	ActionTripUpdate        = "trip.update"
	ActionTripDelete        = "trip.delete"
	ActionUserCreate        = "user.create"
	ActionUserUpdate        = "user.update"
	ActionUserDelete        = "user.delete"
	ActionProfileUpdate     = "user.profile_update"
	ActionReservationCreate = "reservation.create"
	ActionReservationBook   = "reservation.book"
	ActionReservationUpdate = "reservation.update"
	ActionReservationDelete = "reservation.delete"
	ActionRegister          = "auth.register"
	ActionLogin             = "auth.login"
	ActionLogout            = "auth.logout"
	ActionReport            = "report.generate"
)

package domain

import "time"

// DateLayout is the only accepted wire format for dates.
const DateLayout = "2006-01-02"

// Status is the lifecycle state of a Reservation. The string values are the
// wire values and must not change.
type Status string

const (
	StatusPending   Status = "oczekujacy"
	StatusApproved  Status = "zatwierdzony"
	StatusCancelled Status = "anulowany"
	StatusCompleted Status = "zakonczony"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusPending, StatusApproved, StatusCancelled, StatusCompleted}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Reservation books a User onto a Trip for a given TripDate.
// Dates are calendar dates at UTC midnight. TripDate is always after
// ReservationDate, and (UserID, TripID, TripDate) is unique.
type Reservation struct {
	ID              int64
	UserID          int64
	TripID          int64
	ReservationDate time.Time
	TripDate        time.Time
	Status          Status

	// Read-model fields, populated on reads only.
	UserEmail string
	TripName  string
}

// ReservationFilter narrows a reservation listing. Zero values mean "no filter".
type ReservationFilter struct {
	UserID    int64
	UserEmail string
	TripID    int64
	TripName  string
	Status    Status
}

// SweepResult counts the rows touched by one status sweep.
type SweepResult struct {
	Cancelled  int64
	Completed  int64
	Normalized int64
	Failed     int64
}

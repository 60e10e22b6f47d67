// Package domain contains the core data types for the travel booking application.
// This package depends only on the standard library and google/uuid and is
// imported by every other internal package (repo, service, handler).
package domain

// Trip is a bookable offer in one Country. Period is in days and Price has
// two-decimal precision. No two trips share the same
// (Name, Description, Period, Price, CountryID) tuple.
type Trip struct {
	ID          int64
	Name        string
	Description string
	Period      int64
	Price       float64
	CountryID   int64

	// Read-model fields, populated on reads only.
	CountryName   string
	ContinentID   int64
	ContinentName string
}

// TripFilter narrows a trip listing. Zero values mean "no filter".
type TripFilter struct {
	ContinentID   int64
	ContinentName string
	CountryID     int64
	CountryName   string
}

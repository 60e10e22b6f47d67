package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-positive area).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidDate marks a malformed or out-of-range date.
// It is always joined with ErrValidation.
var ErrInvalidDate = errors.New("invalid date")

// ErrInvalidStatus marks a reservation status outside the enumerated set.
// It is always joined with ErrValidation.
var ErrInvalidStatus = errors.New("invalid status")

// ErrConflict is returned when a write would violate a uniqueness rule
// (duplicate name, email, trip tuple or reservation composite key).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrDependency is returned when a delete is blocked by dependent rows.
// Handlers should map this to HTTP 409.
var ErrDependency = errors.New("dependency error")

// ErrForbidden is returned when a self-protection or admin-protection rule
// rejects the operation. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned for bad credentials and invalid tokens.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

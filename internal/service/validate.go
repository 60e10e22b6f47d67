package service

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/travel-booking/backend/internal/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// maxPrice keeps prices inside NUMERIC(12,2).
const maxPrice = 1e10

// number coerces a decoded JSON value to a finite float that is > 0.
// Accepted inputs are JSON numbers (float64 or json.Number), Go integers and
// numeric strings.
func number(field string, v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, notANumber(field)
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, notANumber(field)
		}
		f = parsed
	default:
		return 0, notANumber(field)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, notANumber(field)
	}
	if f <= 0 {
		return 0, fmt.Errorf("%w: %s must be greater than zero", domain.ErrValidation, field)
	}
	return f, nil
}

func notANumber(field string) error {
	return fmt.Errorf("%w: %s must be a number", domain.ErrValidation, field)
}

// positiveInt validates a whole-unit quantity, rounding fractions up.
func positiveInt(field string, v any) (int64, error) {
	f, err := number(field, v)
	if err != nil {
		return 0, err
	}
	c := math.Ceil(f)
	if c >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s is too large", domain.ErrValidation, field)
	}
	return int64(c), nil
}

// refID validates a foreign-key value: a positive whole number.
func refID(field string, v any) (int64, error) {
	f, err := number(field, v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s must be a whole number", domain.ErrValidation, field)
	}
	return int64(f), nil
}

// field pairs a decoded JSON value with its name for presence checks.
type field struct {
	name  string
	value any
}

// requirePresent rejects the first absent value, in argument order.
func requirePresent(fields ...field) error {
	for _, f := range fields {
		if f.value == nil {
			return fmt.Errorf("%w: %s is required", domain.ErrValidation, f.name)
		}
	}
	return nil
}

// price validates a price and rounds it to 2 decimal places.
func price(v any) (float64, error) {
	f, err := number("price", v)
	if err != nil {
		return 0, err
	}
	p := math.Round(f*100) / 100
	if p <= 0 {
		return 0, fmt.Errorf("%w: price must be greater than zero", domain.ErrValidation)
	}
	if p >= maxPrice {
		return 0, fmt.Errorf("%w: price is too large", domain.ErrValidation)
	}
	return p, nil
}

// requiredText trims s and rejects a missing or blank value.
func requiredText(field string, s *string) (string, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "", fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	return strings.TrimSpace(*s), nil
}

// normalizeEmail trims and lower-cases an address and checks its shape.
func normalizeEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	return email, nil
}

func parseRole(s string) (domain.Role, error) {
	role := domain.Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: role must be %q or %q", domain.ErrValidation, domain.RoleAdmin, domain.RoleUser)
	}
	return role, nil
}

func parseStatus(s string) (domain.Status, error) {
	status := domain.Status(s)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %w: %q is not a reservation status", domain.ErrValidation, domain.ErrInvalidStatus, s)
	}
	return status, nil
}

// parseDate accepts exactly YYYY-MM-DD and rejects dates that do not exist
// by rebuilding the date and comparing its components.
func parseDate(field, s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %w: %s must be in YYYY-MM-DD format", domain.ErrValidation, domain.ErrInvalidDate, field)
	}
	y, _ := strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	d, _ := strconv.Atoi(s[8:10])

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, fmt.Errorf("%w: %w: %s does not exist", domain.ErrValidation, domain.ErrInvalidDate, s)
	}
	return t, nil
}

// dateOf truncates t to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func noData() error {
	return fmt.Errorf("%w: no data to update", domain.ErrValidation)
}

// trimmed returns the trimmed value of an optional string.
func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

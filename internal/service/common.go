package service

import (
	"database/sql"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02"
	// Fixed-width fraction keeps stored timestamps sortable as text.
	storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateNonNegativeFloat(name string, value float64) error {
	if !finite(value) || value < 0 {
		return validationErrorf("%s must be >= 0", name)
	}
	return nil
}

func validatePositiveFloat(name string, value float64) error {
	if !finite(value) || value <= 0 {
		return validationErrorf("%s must be a positive number", name)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// ParseDate accepts only the zero-padded YYYY-MM-DD form and rejects
// impossible calendar days.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !datePattern.MatchString(value) {
		return time.Time{}, validationErrorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, validationErrorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func validateDate(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// FormatDate renders the calendar day of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseStoredTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", raw, err)
	}
	return t, nil
}

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	out := v.Float64
	return &out
}

func nullableString(value string) any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return value
}

// rollback is deferred after BeginTx; it is a no-op once the tx commits.
func rollback(tx *sql.Tx) {
	_ = tx.Rollback()
}

package services

import (
	"strings"
	"time"

	"github.com/pursueapp/pursue/internal/models"
)

// FreeTierMaxRangeDays caps the member-progress lookback window for free
// callers. Premium callers may request arbitrary ranges.
const FreeTierMaxRangeDays = 30

// ParseDateRange parses inclusive from/to date strings in the caller's
// location. Both bounds are required for member-progress views.
func ParseDateRange(rawFrom string, rawTo string, location *time.Location) (time.Time, time.Time, error) {
	from, err := ParseUserDate(rawFrom, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseUserDate(rawTo, location)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return from, to, nil
}

// ParseUserDate parses a calendar date string ("2006-01-02") at midnight in
// the given location.
func ParseUserDate(raw string, location *time.Location) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, ErrInvalidDate
	}
	parsed, err := time.ParseInLocation("2006-01-02", trimmed, location)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return DateAtLocation(parsed, location), nil
}

// LoadUserLocation resolves an IANA zone name, defaulting empty input to UTC.
func LoadUserLocation(name string) (*time.Location, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(trimmed)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return location, nil
}

// CheckRangeAllowed enforces the subscription gate on lookback windows.
// Exceeding the free cap is a distinct subscription error, never a silent
// truncation.
func CheckRangeAllowed(caller *models.User, from time.Time, to time.Time) error {
	if caller.IsPremium() {
		return nil
	}
	days := Period{Start: from, End: to}.Days()
	if days > FreeTierMaxRangeDays {
		return ErrSubscriptionRequired
	}
	return nil
}

package services

import (
	"time"

	"github.com/pursueapp/pursue/internal/models"
)

// Period is the canonical accounting window a calendar date falls into for a
// goal's cadence. Start and End are both inclusive calendar days at midnight
// in the user's location.
type Period struct {
	Start time.Time
	End   time.Time
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// ComputePeriod maps a user-local date to its period for the cadence.
// Weekly periods run Monday through Sunday (ISO weeks); monthly and yearly
// snap to calendar boundaries. Pure and idempotent; invalid cadences are
// rejected at the input boundary before this is reached, so the error path
// here only guards against programming mistakes.
func ComputePeriod(cadence string, userDate time.Time, location *time.Location) (Period, error) {
	day := DateAtLocation(userDate, location)

	switch cadence {
	case models.CadenceDaily:
		return Period{Start: day, End: day}, nil
	case models.CadenceWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // days since Monday
		start := day.AddDate(0, 0, -offset)
		return Period{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case models.CadenceMonthly:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case models.CadenceYearly:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
		return Period{Start: start, End: start.AddDate(1, 0, -1)}, nil
	default:
		return Period{}, ErrInvalidCadence
	}
}

// CanonicalKey normalizes the period start to a location-independent date.
// This is the dedup key stored on progress entries: the same user-local
// period always maps to the same key, even if the user later changes zones.
func (period Period) CanonicalKey() time.Time {
	year, month, day := period.Start.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether the calendar date of value falls inside the period.
func (period Period) Contains(value time.Time) bool {
	day := DateAtLocation(value, period.Start.Location())
	return !day.Before(period.Start) && !day.After(period.End)
}

// Days returns the number of calendar days in the period. The difference is
// taken on UTC-normalized dates so DST transitions inside the window cannot
// skew the count.
func (period Period) Days() int {
	start := period.CanonicalKey()
	year, month, day := period.End.Date()
	end := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

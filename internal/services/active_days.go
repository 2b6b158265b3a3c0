package services

import (
	"strings"
	"time"
)

// ActiveDays is a 7-bit weekday set for daily goals: bit i set means weekday
// i (0 = Sunday) counts toward rollup denominators. A nil mask on the goal
// means every day counts; a zero mask is invalid and rejected by the goal
// config validator before one of these is ever built.
type ActiveDays uint8

const (
	maskWeekdays ActiveDays = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday |
		1<<time.Thursday | 1<<time.Friday
	maskWeekends ActiveDays = 1<<time.Sunday | 1<<time.Saturday
	maskEveryDay ActiveDays = maskWeekdays | maskWeekends
)

var shortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// NewActiveDays builds a mask from distinct weekday values in 0..6.
func NewActiveDays(days []int) (ActiveDays, error) {
	if len(days) == 0 {
		return 0, ErrInvalidActiveDays
	}
	var mask ActiveDays
	for _, day := range days {
		if day < 0 || day > 6 {
			return 0, ErrInvalidActiveDays
		}
		bit := ActiveDays(1) << day
		if mask&bit != 0 {
			return 0, ErrInvalidActiveDays
		}
		mask |= bit
	}
	return mask, nil
}

func (mask ActiveDays) Active(weekday time.Weekday) bool {
	return mask&(1<<weekday) != 0
}

func (mask ActiveDays) Count() int {
	count := 0
	for day := 0; day < 7; day++ {
		if mask&(1<<day) != 0 {
			count++
		}
	}
	return count
}

func (mask ActiveDays) Days() []int {
	days := make([]int, 0, 7)
	for day := 0; day < 7; day++ {
		if mask&(1<<day) != 0 {
			days = append(days, day)
		}
	}
	return days
}

// Label derives the human-readable summary shown next to a daily goal.
func (mask ActiveDays) Label() string {
	switch mask {
	case maskEveryDay:
		return "Every day"
	case maskWeekdays:
		return "Weekdays only"
	case maskWeekends:
		return "Weekends only"
	}

	names := make([]string, 0, 7)
	for _, day := range mask.Days() {
		names = append(names, shortDayNames[day])
	}
	return strings.Join(names, ", ")
}

// CountableDays returns how many calendar days of the period the mask keeps.
// The mask never moves period boundaries; it only shrinks denominators.
func (mask ActiveDays) CountableDays(period Period) int {
	count := 0
	for cursor := period.Start; !cursor.After(period.End); cursor = cursor.AddDate(0, 0, 1) {
		if mask.Active(cursor.Weekday()) {
			count++
		}
	}
	return count
}

// CountableDaysInRange is CountableDays over an arbitrary inclusive window.
func (mask ActiveDays) CountableDaysInRange(from time.Time, to time.Time) int {
	return mask.CountableDays(Period{Start: from, End: to})
}

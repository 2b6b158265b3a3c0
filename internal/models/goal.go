package models

import "time"

const (
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
	CadenceYearly  = "yearly"

	MetricBinary   = "binary"
	MetricNumeric  = "numeric"
	MetricDuration = "duration"
	MetricJournal  = "journal"
)

type Goal struct {
	ID             uint   `gorm:"primaryKey"`
	PublicID       string `gorm:"uniqueIndex;not null"`
	GroupID        uint   `gorm:"not null;index"`
	Title          string `gorm:"not null"`
	Cadence        string `gorm:"not null"`
	MetricType     string `gorm:"not null"`
	TargetValue    *float64
	Unit           string
	ActiveDaysMask *uint8
	LogTitlePrompt string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ArchivedAt     *time.Time
	DeletedAt      *time.Time
}

func (goal *Goal) IsArchived() bool {
	return goal.ArchivedAt != nil
}

func (goal *Goal) IsDeleted() bool {
	return goal.DeletedAt != nil
}

// RequiresTarget reports whether the metric type carries target/unit fields.
func (goal *Goal) RequiresTarget() bool {
	return goal.MetricType == MetricNumeric || goal.MetricType == MetricDuration
}

// ActiveDuring reports whether the goal existed and was unarchived at any
// point of the [from, to] window.
func (goal *Goal) ActiveDuring(from time.Time, to time.Time) bool {
	if goal.IsDeleted() {
		return false
	}
	if goal.CreatedAt.After(to.AddDate(0, 0, 1)) {
		return false
	}
	if goal.ArchivedAt != nil && goal.ArchivedAt.Before(from) {
		return false
	}
	return true
}

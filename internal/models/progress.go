package models

import "time"

// ProgressEntry is append-only. The composite unique index on
// (goal_id, user_id, period_start) is the consistency rule for the whole
// ledger: two concurrent submissions for the same period race at the store,
// and exactly one row survives.
type ProgressEntry struct {
	ID          uint      `gorm:"primaryKey"`
	GoalID      uint      `gorm:"not null;uniqueIndex:uidx_goal_user_period"`
	UserID      uint      `gorm:"not null;uniqueIndex:uidx_goal_user_period"`
	PeriodStart time.Time `gorm:"type:date;not null;uniqueIndex:uidx_goal_user_period"`
	Value       float64   `gorm:"not null"`
	Note        string
	LogTitle    string
	Timezone    string    `gorm:"not null"`
	LoggedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time
}

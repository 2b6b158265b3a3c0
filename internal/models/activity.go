package models

import "time"

const (
	EventGroupCreated   = "group_created"
	EventMemberJoined   = "member_joined"
	EventMemberLeft     = "member_left"
	EventGoalAdded      = "goal_added"
	EventGoalUpdated    = "goal_updated"
	EventGoalArchived   = "goal_archived"
	EventProgressLogged = "progress_logged"
)

// ActivityEvent is immutable once written. The auto-increment ID doubles as
// the monotonic sequence that pagination cursors are keyed on; rows are never
// updated, only orphaned (actor_id set to null) when the actor is deleted.
type ActivityEvent struct {
	ID        uint           `gorm:"primaryKey"`
	GroupID   uint           `gorm:"not null;index:idx_events_group_id"`
	ActorID   *uint          `gorm:"index"`
	GoalID    *uint          `gorm:"index"`
	EntryID   *uint          `gorm:"index"`
	EventType string         `gorm:"not null"`
	Metadata  map[string]any `gorm:"serializer:json"`
	CreatedAt time.Time      `gorm:"not null"`
}

// Reaction decorates an activity event. Uniqueness per (event, user, emoji)
// keeps repeat taps idempotent at the store.
type Reaction struct {
	ID        uint   `gorm:"primaryKey"`
	EventID   uint   `gorm:"not null;uniqueIndex:uidx_event_user_emoji"`
	UserID    uint   `gorm:"not null;uniqueIndex:uidx_event_user_emoji"`
	Emoji     string `gorm:"not null;uniqueIndex:uidx_event_user_emoji"`
	CreatedAt time.Time
}

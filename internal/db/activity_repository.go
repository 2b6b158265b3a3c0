package db

import (
	"time"

	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	database *gorm.DB
}

func NewActivityRepository(database *gorm.DB) *ActivityRepository {
	return &ActivityRepository{database: database}
}

// ReactionRow is one grouped reaction aggregate for an event.
type ReactionRow struct {
	EventID       uint   `gorm:"column:event_id"`
	EntryID       uint   `gorm:"column:entry_id"`
	Emoji         string `gorm:"column:emoji"`
	Count         int    `gorm:"column:count"`
	CallerReacted bool   `gorm:"column:caller_reacted"`
}

// PageEvents returns one page of group events strictly newer-first. Ordering
// by the auto-increment id gives a total order (insertion order breaks
// timestamp ties), which is what makes cursors reproducible.
func (repo *ActivityRepository) PageEvents(groupID uint, actorID *uint, beforeID uint, limit int) ([]models.ActivityEvent, error) {
	query := repo.database.Where("group_id = ?", groupID)
	if actorID != nil {
		query = query.Where("actor_id = ?", *actorID)
	}
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	events := make([]models.ActivityEvent, 0)
	if err := query.
		Order("id DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents is the exact size of the full scope within this read.
func (repo *ActivityRepository) CountEvents(groupID uint, actorID *uint) (int64, error) {
	query := repo.database.Model(&models.ActivityEvent{}).Where("group_id = ?", groupID)
	if actorID != nil {
		query = query.Where("actor_id = ?", *actorID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *ActivityRepository) FindEventByID(eventID uint) (models.ActivityEvent, error) {
	var event models.ActivityEvent
	if err := repo.database.First(&event, eventID).Error; err != nil {
		return models.ActivityEvent{}, err
	}
	return event, nil
}

// ReactionsForEvents returns per-emoji counts and whether the caller reacted,
// grouped by event.
func (repo *ActivityRepository) ReactionsForEvents(eventIDs []uint, callerID uint) ([]ReactionRow, error) {
	rows := make([]ReactionRow, 0)
	if len(eventIDs) == 0 {
		return rows, nil
	}

	if err := repo.database.Raw(`
SELECT event_id,
       emoji,
       COUNT(*) AS count,
       MAX(CASE WHEN user_id = ? THEN 1 ELSE 0 END) AS caller_reacted
FROM reactions
WHERE event_id IN ?
GROUP BY event_id, emoji
ORDER BY event_id, emoji`, callerID, eventIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ReactionsForEntries resolves reactions attached to the progress_logged
// events of the given entries.
func (repo *ActivityRepository) ReactionsForEntries(entryIDs []uint, callerID uint) ([]ReactionRow, error) {
	rows := make([]ReactionRow, 0)
	if len(entryIDs) == 0 {
		return rows, nil
	}

	if err := repo.database.Raw(`
SELECT activity_events.entry_id AS entry_id,
       reactions.emoji,
       COUNT(*) AS count,
       MAX(CASE WHEN reactions.user_id = ? THEN 1 ELSE 0 END) AS caller_reacted
FROM reactions
JOIN activity_events ON activity_events.id = reactions.event_id
WHERE activity_events.entry_id IN ?
GROUP BY activity_events.entry_id, reactions.emoji
ORDER BY activity_events.entry_id, reactions.emoji`, callerID, entryIDs).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (repo *ActivityRepository) AddReaction(eventID uint, userID uint, emoji string) error {
	reaction := models.Reaction{
		EventID:   eventID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now(),
	}
	if err := repo.database.Create(&reaction).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (repo *ActivityRepository) RemoveReaction(eventID uint, userID uint, emoji string) error {
	result := repo.database.
		Where("event_id = ? AND user_id = ? AND emoji = ?", eventID, userID, emoji).
		Delete(&models.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

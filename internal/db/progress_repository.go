package db

import (
	"time"

	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

type ProgressRepository struct {
	database *gorm.DB
}

func NewProgressRepository(database *gorm.DB) *ProgressRepository {
	return &ProgressRepository{database: database}
}

// CreateWithEvent inserts the entry and its progress_logged event in one
// transaction. Uniqueness per (goal, user, period) is the store's unique
// index, not an application check: the second of two racing submissions hits
// the constraint and the whole transaction rolls back, reported as
// ErrDuplicate with the original row untouched.
func (repo *ProgressRepository) CreateWithEvent(entry *models.ProgressEntry, groupID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}

		event := models.ActivityEvent{
			GroupID:   groupID,
			ActorID:   &entry.UserID,
			GoalID:    &entry.GoalID,
			EntryID:   &entry.ID,
			EventType: models.EventProgressLogged,
			Metadata:  map[string]any{"period_start": entry.PeriodStart.Format("2006-01-02")},
			CreatedAt: time.Now(),
		}
		return tx.Create(&event).Error
	})
}

func (repo *ProgressRepository) FindByID(entryID uint) (models.ProgressEntry, error) {
	var entry models.ProgressEntry
	if err := repo.database.First(&entry, entryID).Error; err != nil {
		return models.ProgressEntry{}, err
	}
	return entry, nil
}

// DeleteOwned removes the entry only when owned by userID; the hard delete
// excludes it from future aggregation reads without touching history rows.
func (repo *ProgressRepository) DeleteOwned(entryID uint, userID uint) error {
	result := repo.database.
		Where("id = ? AND user_id = ?", entryID, userID).
		Delete(&models.ProgressEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListForGoalInPeriod returns all members' entries for the goal whose period
// key falls inside [periodStart, periodEnd], oldest first.
func (repo *ProgressRepository) ListForGoalInPeriod(goalID uint, periodStart time.Time, periodEnd time.Time) ([]models.ProgressEntry, error) {
	entries := make([]models.ProgressEntry, 0)
	if err := repo.database.
		Where("goal_id = ? AND period_start >= ? AND period_start <= ?", goalID, periodStart, periodEnd).
		Order("period_start ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForUserInRange returns one user's entries across a goal set, newest
// first, keyed for cursor pagination on the entry id.
func (repo *ProgressRepository) ListForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time, beforeID uint, limit int) ([]models.ProgressEntry, error) {
	entries := make([]models.ProgressEntry, 0)
	if len(goalIDs) == 0 {
		return entries, nil
	}

	query := repo.database.
		Where("user_id = ? AND goal_id IN ? AND period_start >= ? AND period_start <= ?", userID, goalIDs, from, to)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}
	if err := query.
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAllForUserInRange is the unpaginated variant used for whole-window
// goal summaries.
func (repo *ProgressRepository) ListAllForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time) ([]models.ProgressEntry, error) {
	entries := make([]models.ProgressEntry, 0)
	if len(goalIDs) == 0 {
		return entries, nil
	}
	if err := repo.database.
		Where("user_id = ? AND goal_id IN ? AND period_start >= ? AND period_start <= ?", userID, goalIDs, from, to).
		Order("period_start ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *ProgressRepository) CountForUserInRange(userID uint, goalIDs []uint, from time.Time, to time.Time) (int64, error) {
	if len(goalIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := repo.database.Model(&models.ProgressEntry{}).
		Where("user_id = ? AND goal_id IN ? AND period_start >= ? AND period_start <= ?", userID, goalIDs, from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

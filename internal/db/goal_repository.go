package db

import (
	"time"

	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

type GoalRepository struct {
	database *gorm.DB
}

func NewGoalRepository(database *gorm.DB) *GoalRepository {
	return &GoalRepository{database: database}
}

func (repo *GoalRepository) FindByID(goalID uint) (models.Goal, error) {
	var goal models.Goal
	if err := repo.database.
		Where("deleted_at IS NULL").
		First(&goal, goalID).Error; err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

func (repo *GoalRepository) ListByGroup(groupID uint) ([]models.Goal, error) {
	goals := make([]models.Goal, 0)
	if err := repo.database.
		Where("group_id = ? AND deleted_at IS NULL", groupID).
		Order("id ASC").
		Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateWithCap admits the goal against the per-group goal cap and appends
// the goal_added event in one transaction.
func (repo *GoalRepository) CreateWithCap(goal *models.Goal, actorID uint, cap int) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		admitted, err := admitInsert(tx,
			"goals",
			[]string{"public_id", "group_id", "title", "cadence", "metric_type", "target_value", "unit", "active_days_mask", "log_title_prompt", "created_at", "updated_at"},
			[]any{goal.PublicID, goal.GroupID, goal.Title, goal.Cadence, goal.MetricType, goal.TargetValue, goal.Unit, goal.ActiveDaysMask, goal.LogTitlePrompt, now, now},
			groupGoalCountGuard(goal.GroupID, cap),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return err
		}
		if !admitted {
			return ErrCapExceeded
		}

		var created models.Goal
		if err := tx.Where("public_id = ?", goal.PublicID).First(&created).Error; err != nil {
			return err
		}
		*goal = created

		event := models.ActivityEvent{
			GroupID:   goal.GroupID,
			ActorID:   &actorID,
			GoalID:    &goal.ID,
			EventType: models.EventGoalAdded,
			Metadata:  map[string]any{"title": goal.Title},
			CreatedAt: now,
		}
		return tx.Create(&event).Error
	})
}

// UpdateWithEvent persists column updates and records which fields changed
// (old and new values) on the goal_updated event in the same transaction.
func (repo *GoalRepository) UpdateWithEvent(goalID uint, groupID uint, actorID uint, updates map[string]any, changes map[string]any) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Goal{}).
			Where("id = ? AND deleted_at IS NULL", goalID).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		event := models.ActivityEvent{
			GroupID:   groupID,
			ActorID:   &actorID,
			GoalID:    &goalID,
			EventType: models.EventGoalUpdated,
			Metadata:  changes,
			CreatedAt: time.Now(),
		}
		return tx.Create(&event).Error
	})
}

func (repo *GoalRepository) ArchiveWithEvent(goal *models.Goal, actorID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		result := tx.Model(&models.Goal{}).
			Where("id = ? AND archived_at IS NULL AND deleted_at IS NULL", goal.ID).
			Update("archived_at", now)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		goal.ArchivedAt = &now

		event := models.ActivityEvent{
			GroupID:   goal.GroupID,
			ActorID:   &actorID,
			GoalID:    &goal.ID,
			EventType: models.EventGoalArchived,
			Metadata:  map[string]any{"title": goal.Title},
			CreatedAt: now,
		}
		return tx.Create(&event).Error
	})
}

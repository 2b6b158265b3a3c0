package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
)

type GoalStore interface {
	FindByID(goalID uint) (models.Goal, error)
	ListByGroup(groupID uint) ([]models.Goal, error)
	CreateWithCap(goal *models.Goal, actorID uint, cap int) error
	UpdateWithEvent(goalID uint, groupID uint, actorID uint, updates map[string]any, changes map[string]any) error
	ArchiveWithEvent(goal *models.Goal, actorID uint) error
}

type GoalMembershipReader interface {
	MembershipFor(groupID uint, userID uint) (models.Membership, bool, error)
}

type GoalService struct {
	goals  GoalStore
	groups GoalMembershipReader
}

func NewGoalService(goals GoalStore, groups GoalMembershipReader) *GoalService {
	return &GoalService{
		goals:  goals,
		groups: groups,
	}
}

type AddGoalInput struct {
	GroupID        uint
	CallerID       uint
	Title          string
	Cadence        string
	MetricType     string
	TargetValue    *float64
	Unit           string
	ActiveDays     []int
	LogTitlePrompt string
}

// AddGoal creates a goal in the caller's group, admitted against the
// per-group goal cap. Creation is admin-only.
func (service *GoalService) AddGoal(input AddGoalInput) (models.Goal, error) {
	membership, found, err := service.groups.MembershipFor(input.GroupID, input.CallerID)
	if err != nil {
		return models.Goal{}, err
	}
	if err := RequireGoalManager(membership, found); err != nil {
		return models.Goal{}, err
	}

	config, err := NewGoalConfig(input.Title, input.Cadence, input.MetricType, input.TargetValue, input.Unit, input.ActiveDays, input.LogTitlePrompt)
	if err != nil {
		return models.Goal{}, err
	}

	goal := models.Goal{
		PublicID: uuid.NewString(),
		GroupID:  input.GroupID,
	}
	config.Apply(&goal)

	if err := service.goals.CreateWithCap(&goal, input.CallerID, models.MaxGoalsPerGroup); err != nil {
		if errors.Is(err, db.ErrCapExceeded) {
			return models.Goal{}, ErrLimitExceeded
		}
		return models.Goal{}, err
	}
	return goal, nil
}

type UpdateGoalInput struct {
	GoalID      uint
	CallerID    uint
	Title       *string
	TargetValue *float64
	Unit        *string
}

// UpdateGoal applies a partial edit to a goal's presentation fields. Cadence
// and metric type are immutable once entries may exist against them; the way
// to change those is to archive and add a new goal.
func (service *GoalService) UpdateGoal(input UpdateGoalInput) (models.Goal, error) {
	goal, err := service.goals.FindByID(input.GoalID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, err
	}
	if goal.IsArchived() {
		return models.Goal{}, ErrNotFound
	}

	membership, found, err := service.groups.MembershipFor(goal.GroupID, input.CallerID)
	if err != nil {
		return models.Goal{}, err
	}
	if err := RequireGoalManager(membership, found); err != nil {
		return models.Goal{}, err
	}

	updates := map[string]any{}
	changes := map[string]any{}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" || len(trimmed) > maxTitleLength {
			return models.Goal{}, ErrTitleRequired
		}
		if trimmed != goal.Title {
			updates["title"] = trimmed
			changes["title"] = map[string]any{"old": goal.Title, "new": trimmed}
			goal.Title = trimmed
		}
	}
	if input.TargetValue != nil {
		next := *input.TargetValue
		if err := validateTargetFor(goal.MetricType, next); err != nil {
			return models.Goal{}, err
		}
		if goal.TargetValue == nil || *goal.TargetValue != next {
			var previous any
			if goal.TargetValue != nil {
				previous = *goal.TargetValue
			}
			updates["target_value"] = next
			changes["target_value"] = map[string]any{"old": previous, "new": next}
			goal.TargetValue = &next
		}
	}
	if input.Unit != nil {
		trimmed := strings.TrimSpace(*input.Unit)
		if goal.MetricType == models.MetricBinary || goal.MetricType == models.MetricJournal {
			if trimmed != "" {
				return models.Goal{}, ErrTargetForbidden
			}
		}
		if len(trimmed) > maxUnitLength {
			return models.Goal{}, ErrInvalidMetricValue
		}
		if trimmed != goal.Unit {
			updates["unit"] = trimmed
			changes["unit"] = map[string]any{"old": goal.Unit, "new": trimmed}
			goal.Unit = trimmed
		}
	}

	if len(updates) == 0 {
		return goal, nil
	}

	if err := service.goals.UpdateWithEvent(goal.ID, goal.GroupID, input.CallerID, updates, changes); err != nil {
		if db.IsRecordNotFound(err) {
			return models.Goal{}, ErrNotFound
		}
		return models.Goal{}, err
	}
	return goal, nil
}

// ArchiveGoal retires a goal from active tracking. Existing entries and
// historical rollups keep it in scope for the dates it was live.
func (service *GoalService) ArchiveGoal(goalID uint, callerID uint) error {
	goal, err := service.goals.FindByID(goalID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if goal.IsArchived() {
		return nil
	}

	membership, found, err := service.groups.MembershipFor(goal.GroupID, callerID)
	if err != nil {
		return err
	}
	if err := RequireGoalManager(membership, found); err != nil {
		return err
	}

	return service.goals.ArchiveWithEvent(&goal, callerID)
}

// ListGoals returns a group's live goals, visible to any active member.
func (service *GoalService) ListGoals(groupID uint, callerID uint) ([]models.Goal, error) {
	membership, found, err := service.groups.MembershipFor(groupID, callerID)
	if err != nil {
		return nil, err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return nil, err
	}
	return service.goals.ListByGroup(groupID)
}

func validateTargetFor(metricType string, target float64) error {
	switch metricType {
	case models.MetricBinary, models.MetricJournal:
		if target < 1 || target != float64(int64(target)) {
			return ErrInvalidMetricValue
		}
	case models.MetricDuration:
		if target <= 0 || target > maxDurationSecond {
			return ErrInvalidMetricValue
		}
	default:
		if target <= 0 || target > maxNumericValue {
			return ErrInvalidMetricValue
		}
	}
	return nil
}

package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
)

type ProgressGoalReader interface {
	FindByID(goalID uint) (models.Goal, error)
}

type ProgressMembershipReader interface {
	MembershipFor(groupID uint, userID uint) (models.Membership, bool, error)
}

type ProgressEntryStore interface {
	CreateWithEvent(entry *models.ProgressEntry, groupID uint) error
	FindByID(entryID uint) (models.ProgressEntry, error)
	DeleteOwned(entryID uint, userID uint) error
}

// ProgressService is the append-only ledger of progress entries. It owns
// metric validation and the period mapping; the one-entry-per-period rule
// itself lives in the store's unique index.
type ProgressService struct {
	goals   ProgressGoalReader
	groups  ProgressMembershipReader
	entries ProgressEntryStore
}

func NewProgressService(goals ProgressGoalReader, groups ProgressMembershipReader, entries ProgressEntryStore) *ProgressService {
	return &ProgressService{
		goals:   goals,
		groups:  groups,
		entries: entries,
	}
}

type LogProgressInput struct {
	GoalID   uint
	UserID   uint
	Value    float64
	Note     string
	LogTitle string
	UserDate string
	Timezone string
}

// LogProgress validates and appends one entry for the user-local calendar
// day, plus the progress_logged activity event, in one transaction. A second
// submission for an already-logged day fails with ErrDuplicateEntry and
// leaves the original untouched.
func (service *ProgressService) LogProgress(input LogProgressInput, now time.Time) (models.ProgressEntry, error) {
	goal, err := service.goals.FindByID(input.GoalID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.ProgressEntry{}, ErrNotFound
		}
		return models.ProgressEntry{}, err
	}
	if goal.IsArchived() {
		return models.ProgressEntry{}, ErrNotFound
	}

	membership, found, err := service.groups.MembershipFor(goal.GroupID, input.UserID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return models.ProgressEntry{}, err
	}

	location, err := LoadUserLocation(input.Timezone)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	userDate, err := ParseUserDate(input.UserDate, location)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if userDate.After(DateAtLocation(now, location)) {
		return models.ProgressEntry{}, ErrFutureDate
	}

	note := strings.TrimSpace(input.Note)
	logTitle := strings.TrimSpace(input.LogTitle)
	if len(note) > maxNoteLength || len(logTitle) > maxTitleLength {
		return models.ProgressEntry{}, ErrNoteTooLong
	}
	if err := validateMetricValue(&goal, input.Value, logTitle); err != nil {
		return models.ProgressEntry{}, err
	}

	// Entries are keyed on the user-local day. The goal's cadence period is
	// an aggregation window over these day keys, so a weekly goal can hold
	// one entry per day but never two for the same day.
	day, err := ComputePeriod(models.CadenceDaily, userDate, location)
	if err != nil {
		return models.ProgressEntry{}, err
	}

	entry := models.ProgressEntry{
		GoalID:      goal.ID,
		UserID:      input.UserID,
		PeriodStart: day.CanonicalKey(),
		Value:       input.Value,
		Note:        note,
		LogTitle:    logTitle,
		Timezone:    location.String(),
		LoggedAt:    now,
	}
	if err := service.entries.CreateWithEvent(&entry, goal.GroupID); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.ProgressEntry{}, ErrDuplicateEntry
		}
		return models.ProgressEntry{}, err
	}
	return entry, nil
}

// GetEntry is visible to the owner or to any active member of the goal's group.
func (service *ProgressService) GetEntry(entryID uint, callerID uint) (models.ProgressEntry, error) {
	entry, err := service.entries.FindByID(entryID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.ProgressEntry{}, ErrNotFound
		}
		return models.ProgressEntry{}, err
	}
	if entry.UserID == callerID {
		return entry, nil
	}

	goal, err := service.goals.FindByID(entry.GoalID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.ProgressEntry{}, ErrNotFound
		}
		return models.ProgressEntry{}, err
	}
	membership, found, err := service.groups.MembershipFor(goal.GroupID, callerID)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return models.ProgressEntry{}, err
	}
	return entry, nil
}

// DeleteProgress hard-deletes an entry the caller owns.
func (service *ProgressService) DeleteProgress(entryID uint, userID uint) error {
	entry, err := service.entries.FindByID(entryID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if entry.UserID != userID {
		return ErrForbidden
	}

	if err := service.entries.DeleteOwned(entryID, userID); err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// validateMetricValue enforces the per-metric value domain: binary and
// journal are 0/1 (journal additionally needs a log title), duration is
// whole non-negative seconds, numeric is bounded with at most two decimal
// places of precision.
func validateMetricValue(goal *models.Goal, value float64, logTitle string) error {
	switch goal.MetricType {
	case models.MetricBinary:
		if value != 0 && value != 1 {
			return ErrInvalidMetricValue
		}
	case models.MetricJournal:
		if value != 0 && value != 1 {
			return ErrInvalidMetricValue
		}
		if logTitle == "" {
			return ErrLogTitleRequired
		}
	case models.MetricDuration:
		if value < 0 || value > maxDurationSecond || value != math.Trunc(value) {
			return ErrInvalidMetricValue
		}
	case models.MetricNumeric:
		if value < 0 || value > maxNumericValue {
			return ErrInvalidMetricValue
		}
		scaled := value * 100
		if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			return ErrInvalidMetricValue
		}
	default:
		return ErrInvalidMetricType
	}
	return nil
}

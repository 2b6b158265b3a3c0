package services

import (
	"strings"

	"github.com/pursueapp/pursue/internal/models"
)

const (
	maxTitleLength    = 120
	maxNoteLength     = 1000
	maxUnitLength     = 20
	maxNumericValue   = 1_000_000
	maxDurationSecond = 366 * 24 * 60 * 60
)

// GoalConfig is the validated shape a goal must pass through before it can
// exist. Keying the optional fields off cadence and metric type here keeps
// invalid combinations (an active-days mask on a weekly goal, a target on a
// journal goal) out of the store entirely instead of checking them per read.
type GoalConfig struct {
	Title          string
	Cadence        string
	MetricType     string
	TargetValue    *float64
	Unit           string
	ActiveDays     *ActiveDays
	LogTitlePrompt string
}

func validCadence(cadence string) bool {
	switch cadence {
	case models.CadenceDaily, models.CadenceWeekly, models.CadenceMonthly, models.CadenceYearly:
		return true
	}
	return false
}

func validMetricType(metricType string) bool {
	switch metricType {
	case models.MetricBinary, models.MetricNumeric, models.MetricDuration, models.MetricJournal:
		return true
	}
	return false
}

// NewGoalConfig validates raw goal input into a GoalConfig.
func NewGoalConfig(title string, cadence string, metricType string, targetValue *float64, unit string, activeDays []int, logTitlePrompt string) (GoalConfig, error) {
	config := GoalConfig{
		Title:          strings.TrimSpace(title),
		Cadence:        strings.TrimSpace(cadence),
		MetricType:     strings.TrimSpace(metricType),
		Unit:           strings.TrimSpace(unit),
		LogTitlePrompt: strings.TrimSpace(logTitlePrompt),
	}

	if config.Title == "" || len(config.Title) > maxTitleLength {
		return GoalConfig{}, ErrTitleRequired
	}
	if !validCadence(config.Cadence) {
		return GoalConfig{}, ErrInvalidCadence
	}
	if !validMetricType(config.MetricType) {
		return GoalConfig{}, ErrInvalidMetricType
	}

	switch config.MetricType {
	case models.MetricNumeric, models.MetricDuration:
		if targetValue == nil || *targetValue <= 0 {
			return GoalConfig{}, ErrTargetRequired
		}
		if len(config.Unit) > maxUnitLength {
			return GoalConfig{}, ErrTargetRequired
		}
		value := *targetValue
		config.TargetValue = &value
	case models.MetricBinary, models.MetricJournal:
		if targetValue != nil && *targetValue != 0 {
			// A per-period count target is the one allowed exception:
			// "do this 3 times a week" is a binary goal with target 3.
			if *targetValue != float64(int64(*targetValue)) || *targetValue < 1 {
				return GoalConfig{}, ErrTargetForbidden
			}
			value := *targetValue
			config.TargetValue = &value
		}
		if config.Unit != "" {
			return GoalConfig{}, ErrTargetForbidden
		}
	}

	if config.MetricType == models.MetricJournal && config.LogTitlePrompt == "" {
		return GoalConfig{}, ErrLogTitleRequired
	}

	if len(activeDays) > 0 {
		if config.Cadence != models.CadenceDaily {
			return GoalConfig{}, ErrInvalidActiveDays
		}
		mask, err := NewActiveDays(activeDays)
		if err != nil {
			return GoalConfig{}, err
		}
		config.ActiveDays = &mask
	}

	return config, nil
}

// Apply writes the validated config onto a goal entity.
func (config GoalConfig) Apply(goal *models.Goal) {
	goal.Title = config.Title
	goal.Cadence = config.Cadence
	goal.MetricType = config.MetricType
	goal.TargetValue = config.TargetValue
	goal.Unit = config.Unit
	goal.LogTitlePrompt = config.LogTitlePrompt
	if config.ActiveDays != nil {
		mask := uint8(*config.ActiveDays)
		goal.ActiveDaysMask = &mask
	} else {
		goal.ActiveDaysMask = nil
	}
}

// GoalActiveDays decodes the stored mask, or nil when every day counts.
func GoalActiveDays(goal *models.Goal) *ActiveDays {
	if goal.ActiveDaysMask == nil {
		return nil
	}
	mask := ActiveDays(*goal.ActiveDaysMask)
	return &mask
}

package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/pursueapp/pursue/internal/models"
)

func floatPtr(value float64) *float64 {
	return &value
}

func TestNewGoalConfigNumeric(t *testing.T) {
	config, err := NewGoalConfig("Read pages", models.CadenceDaily, models.MetricNumeric, floatPtr(50), "pages", nil, "")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if config.TargetValue == nil || *config.TargetValue != 50 {
		t.Fatalf("unexpected target: %v", config.TargetValue)
	}
	if config.Unit != "pages" {
		t.Fatalf("unexpected unit: %q", config.Unit)
	}
}

func TestNewGoalConfigNumericRequiresTarget(t *testing.T) {
	cases := []struct {
		name   string
		target *float64
	}{
		{"missing", nil},
		{"zero", floatPtr(0)},
		{"negative", floatPtr(-3)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGoalConfig("Run", models.CadenceWeekly, models.MetricNumeric, tc.target, "km", nil, "")
			if !errors.Is(err, ErrTargetRequired) {
				t.Fatalf("expected ErrTargetRequired, got %v", err)
			}
		})
	}
}

func TestNewGoalConfigBinary(t *testing.T) {
	config, err := NewGoalConfig("Meditate", models.CadenceWeekly, models.MetricBinary, floatPtr(3), "", nil, "")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if config.TargetValue == nil || *config.TargetValue != 3 {
		t.Fatalf("expected count target 3, got %v", config.TargetValue)
	}

	if _, err := NewGoalConfig("Meditate", models.CadenceWeekly, models.MetricBinary, floatPtr(2.5), "", nil, ""); !errors.Is(err, ErrTargetForbidden) {
		t.Fatalf("expected ErrTargetForbidden for fractional count, got %v", err)
	}
	if _, err := NewGoalConfig("Meditate", models.CadenceWeekly, models.MetricBinary, nil, "times", nil, ""); !errors.Is(err, ErrTargetForbidden) {
		t.Fatalf("expected ErrTargetForbidden for unit on binary goal, got %v", err)
	}
}

func TestNewGoalConfigJournalRequiresPrompt(t *testing.T) {
	if _, err := NewGoalConfig("Gratitude", models.CadenceDaily, models.MetricJournal, nil, "", nil, ""); !errors.Is(err, ErrLogTitleRequired) {
		t.Fatalf("expected ErrLogTitleRequired, got %v", err)
	}

	config, err := NewGoalConfig("Gratitude", models.CadenceDaily, models.MetricJournal, nil, "", nil, "What are you grateful for?")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if config.LogTitlePrompt != "What are you grateful for?" {
		t.Fatalf("unexpected prompt: %q", config.LogTitlePrompt)
	}
}

func TestNewGoalConfigActiveDaysOnlyDaily(t *testing.T) {
	config, err := NewGoalConfig("Workout", models.CadenceDaily, models.MetricBinary, nil, "", []int{1, 2, 3, 4, 5}, "")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if config.ActiveDays == nil || config.ActiveDays.Count() != 5 {
		t.Fatalf("unexpected mask: %v", config.ActiveDays)
	}

	for _, cadence := range []string{models.CadenceWeekly, models.CadenceMonthly, models.CadenceYearly} {
		if _, err := NewGoalConfig("Workout", cadence, models.MetricBinary, nil, "", []int{1, 2}, ""); !errors.Is(err, ErrInvalidActiveDays) {
			t.Fatalf("expected ErrInvalidActiveDays for %s cadence, got %v", cadence, err)
		}
	}
}

func TestNewGoalConfigTitleBounds(t *testing.T) {
	if _, err := NewGoalConfig("", models.CadenceDaily, models.MetricBinary, nil, "", nil, ""); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired for empty title, got %v", err)
	}
	if _, err := NewGoalConfig("   ", models.CadenceDaily, models.MetricBinary, nil, "", nil, ""); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired for blank title, got %v", err)
	}
	if _, err := NewGoalConfig(strings.Repeat("x", 121), models.CadenceDaily, models.MetricBinary, nil, "", nil, ""); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired for oversized title, got %v", err)
	}
}

func TestNewGoalConfigRejectsUnknownKinds(t *testing.T) {
	if _, err := NewGoalConfig("Run", "hourly", models.MetricBinary, nil, "", nil, ""); !errors.Is(err, ErrInvalidCadence) {
		t.Fatalf("expected ErrInvalidCadence, got %v", err)
	}
	if _, err := NewGoalConfig("Run", models.CadenceDaily, "steps", nil, "", nil, ""); !errors.Is(err, ErrInvalidMetricType) {
		t.Fatalf("expected ErrInvalidMetricType, got %v", err)
	}
}

func TestGoalConfigApply(t *testing.T) {
	config, err := NewGoalConfig("Workout", models.CadenceDaily, models.MetricBinary, nil, "", []int{0, 6}, "")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}

	var goal models.Goal
	config.Apply(&goal)

	if goal.Title != "Workout" || goal.Cadence != models.CadenceDaily || goal.MetricType != models.MetricBinary {
		t.Fatalf("unexpected goal: %+v", goal)
	}
	if goal.ActiveDaysMask == nil {
		t.Fatal("expected active days mask to be set")
	}
	mask := GoalActiveDays(&goal)
	if mask == nil || mask.Label() != "Weekends only" {
		t.Fatalf("unexpected mask label: %v", mask)
	}
}

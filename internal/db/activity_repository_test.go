package db

import (
	"errors"
	"testing"
	"time"

	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

func appendEvent(t *testing.T, database *gorm.DB, groupID uint, actorID uint, eventType string) models.ActivityEvent {
	t.Helper()

	event := models.ActivityEvent{
		GroupID:   groupID,
		ActorID:   &actorID,
		EventType: eventType,
		CreatedAt: time.Now().UTC(),
	}
	if err := database.Create(&event).Error; err != nil {
		t.Fatalf("append %s event: %v", eventType, err)
	}
	return event
}

func TestPageEventsReturnsTotalOrderPages(t *testing.T) {
	database := openTestDatabase(t)
	owner := seedUser(t, database, "owner@pursue.test", models.TierFree)
	member := seedUser(t, database, "member@pursue.test", models.TierFree)
	group := seedGroup(t, database, owner.ID, "Runners")
	repo := NewActivityRepository(database)

	// seedGroup already appended group_created; add six more.
	for i := 0; i < 3; i++ {
		appendEvent(t, database, group.ID, owner.ID, models.EventProgressLogged)
		appendEvent(t, database, group.ID, member.ID, models.EventProgressLogged)
	}

	total, err := repo.CountEvents(group.ID, nil)
	if err != nil {
		t.Fatalf("count events: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected 7 events in scope, got %d", total)
	}

	collected := make([]models.ActivityEvent, 0, 7)
	beforeID := uint(0)
	for {
		page, err := repo.PageEvents(group.ID, nil, beforeID, 3)
		if err != nil {
			t.Fatalf("page events: %v", err)
		}
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
		beforeID = page[len(page)-1].ID
	}

	if len(collected) != 7 {
		t.Fatalf("expected pages to concatenate to 7 events, got %d", len(collected))
	}
	for i := 1; i < len(collected); i++ {
		if collected[i].ID >= collected[i-1].ID {
			t.Fatalf("expected strictly descending ids, got %d then %d", collected[i-1].ID, collected[i].ID)
		}
	}
}

func TestPageEventsActorScope(t *testing.T) {
	database := openTestDatabase(t)
	owner := seedUser(t, database, "owner@pursue.test", models.TierFree)
	member := seedUser(t, database, "member@pursue.test", models.TierFree)
	group := seedGroup(t, database, owner.ID, "Runners")
	repo := NewActivityRepository(database)

	appendEvent(t, database, group.ID, owner.ID, models.EventProgressLogged)
	appendEvent(t, database, group.ID, member.ID, models.EventProgressLogged)
	appendEvent(t, database, group.ID, member.ID, models.EventProgressLogged)

	page, err := repo.PageEvents(group.ID, &member.ID, 0, 10)
	if err != nil {
		t.Fatalf("page actor events: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 events for actor, got %d", len(page))
	}
	for _, event := range page {
		if event.ActorID == nil || *event.ActorID != member.ID {
			t.Fatalf("expected actor %d, got %v", member.ID, event.ActorID)
		}
	}

	count, err := repo.CountEvents(group.ID, &member.ID)
	if err != nil {
		t.Fatalf("count actor events: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected actor scope count 2, got %d", count)
	}
}

func TestReactionsAggregatePerEmoji(t *testing.T) {
	database := openTestDatabase(t)
	owner := seedUser(t, database, "owner@pursue.test", models.TierFree)
	member := seedUser(t, database, "member@pursue.test", models.TierFree)
	group := seedGroup(t, database, owner.ID, "Runners")
	repo := NewActivityRepository(database)

	event := appendEvent(t, database, group.ID, owner.ID, models.EventProgressLogged)

	if err := repo.AddReaction(event.ID, owner.ID, "🔥"); err != nil {
		t.Fatalf("owner reaction: %v", err)
	}
	if err := repo.AddReaction(event.ID, member.ID, "🔥"); err != nil {
		t.Fatalf("member reaction: %v", err)
	}
	if err := repo.AddReaction(event.ID, member.ID, "💪"); err != nil {
		t.Fatalf("second emoji reaction: %v", err)
	}

	if err := repo.AddReaction(event.ID, member.ID, "🔥"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on repeat reaction, got %v", err)
	}

	rows, err := repo.ReactionsForEvents([]uint{event.ID}, owner.ID)
	if err != nil {
		t.Fatalf("load reactions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 emoji aggregates, got %d", len(rows))
	}

	byEmoji := make(map[string]ReactionRow, len(rows))
	for _, row := range rows {
		byEmoji[row.Emoji] = row
	}
	fire := byEmoji["🔥"]
	if fire.Count != 2 || !fire.CallerReacted {
		t.Fatalf("expected 🔥 count 2 with caller reacted, got count=%d reacted=%v", fire.Count, fire.CallerReacted)
	}
	flex := byEmoji["💪"]
	if flex.Count != 1 || flex.CallerReacted {
		t.Fatalf("expected 💪 count 1 without caller, got count=%d reacted=%v", flex.Count, flex.CallerReacted)
	}

	if err := repo.RemoveReaction(event.ID, member.ID, "🔥"); err != nil {
		t.Fatalf("remove reaction: %v", err)
	}
	if err := repo.RemoveReaction(event.ID, member.ID, "🔥"); !IsRecordNotFound(err) {
		t.Fatalf("expected record not found on repeated removal, got %v", err)
	}
}

func TestReactionsForEntriesResolvesThroughEvents(t *testing.T) {
	database := openTestDatabase(t)
	owner := seedUser(t, database, "owner@pursue.test", models.TierFree)
	group := seedGroup(t, database, owner.ID, "Runners")
	goal := seedGoal(t, database, group.ID, owner.ID, "Run", models.CadenceDaily, models.MetricBinary)
	activity := NewActivityRepository(database)
	progress := NewProgressRepository(database)

	entry := models.ProgressEntry{
		GoalID:      goal.ID,
		UserID:      owner.ID,
		PeriodStart: dayKey(2025, time.March, 10),
		Value:       1,
		Timezone:    "UTC",
		LoggedAt:    time.Now().UTC(),
	}
	if err := progress.CreateWithEvent(&entry, group.ID); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	var event models.ActivityEvent
	if err := database.
		Where("entry_id = ? AND event_type = ?", entry.ID, models.EventProgressLogged).
		First(&event).Error; err != nil {
		t.Fatalf("load progress event: %v", err)
	}
	if err := activity.AddReaction(event.ID, owner.ID, "🔥"); err != nil {
		t.Fatalf("react to entry event: %v", err)
	}

	rows, err := activity.ReactionsForEntries([]uint{entry.ID}, owner.ID)
	if err != nil {
		t.Fatalf("load entry reactions: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 reaction aggregate, got %d", len(rows))
	}
	if rows[0].EntryID != entry.ID || rows[0].Emoji != "🔥" || rows[0].Count != 1 || !rows[0].CallerReacted {
		t.Fatalf("unexpected reaction row: %+v", rows[0])
	}
}

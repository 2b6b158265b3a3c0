package services

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
	"gorm.io/gorm"
)

type reactionKey struct {
	eventID uint
	userID  uint
	emoji   string
}

type stubEventStore struct {
	nextID    uint
	events    map[uint]models.ActivityEvent
	reactions map[reactionKey]bool
}

func newStubEventStore() *stubEventStore {
	return &stubEventStore{
		nextID:    1,
		events:    map[uint]models.ActivityEvent{},
		reactions: map[reactionKey]bool{},
	}
}

func (stub *stubEventStore) append(groupID uint, actorID uint, eventType string) models.ActivityEvent {
	actor := actorID
	event := models.ActivityEvent{
		ID:        stub.nextID,
		GroupID:   groupID,
		ActorID:   &actor,
		EventType: eventType,
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(stub.nextID) * time.Minute),
	}
	stub.nextID++
	stub.events[event.ID] = event
	return event
}

func (stub *stubEventStore) sortedDesc() []models.ActivityEvent {
	events := make([]models.ActivityEvent, 0, len(stub.events))
	for _, event := range stub.events {
		events = append(events, event)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID > events[j].ID })
	return events
}

func (stub *stubEventStore) matches(event models.ActivityEvent, groupID uint, actorID *uint) bool {
	if event.GroupID != groupID {
		return false
	}
	if actorID != nil && (event.ActorID == nil || *event.ActorID != *actorID) {
		return false
	}
	return true
}

func (stub *stubEventStore) PageEvents(groupID uint, actorID *uint, beforeID uint, limit int) ([]models.ActivityEvent, error) {
	var result []models.ActivityEvent
	for _, event := range stub.sortedDesc() {
		if !stub.matches(event, groupID, actorID) {
			continue
		}
		if beforeID != 0 && event.ID >= beforeID {
			continue
		}
		result = append(result, event)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func (stub *stubEventStore) CountEvents(groupID uint, actorID *uint) (int64, error) {
	var count int64
	for _, event := range stub.events {
		if stub.matches(event, groupID, actorID) {
			count++
		}
	}
	return count, nil
}

func (stub *stubEventStore) FindEventByID(eventID uint) (models.ActivityEvent, error) {
	event, ok := stub.events[eventID]
	if !ok {
		return models.ActivityEvent{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (stub *stubEventStore) ReactionsForEvents(eventIDs []uint, callerID uint) ([]db.ReactionRow, error) {
	type aggregate struct {
		count         int
		callerReacted bool
	}
	byEventEmoji := map[uint]map[string]*aggregate{}
	for key := range stub.reactions {
		for _, eventID := range eventIDs {
			if key.eventID != eventID {
				continue
			}
			if byEventEmoji[eventID] == nil {
				byEventEmoji[eventID] = map[string]*aggregate{}
			}
			if byEventEmoji[eventID][key.emoji] == nil {
				byEventEmoji[eventID][key.emoji] = &aggregate{}
			}
			byEventEmoji[eventID][key.emoji].count++
			if key.userID == callerID {
				byEventEmoji[eventID][key.emoji].callerReacted = true
			}
		}
	}

	var rows []db.ReactionRow
	for eventID, byEmoji := range byEventEmoji {
		for emoji, agg := range byEmoji {
			rows = append(rows, db.ReactionRow{
				EventID:       eventID,
				Emoji:         emoji,
				Count:         agg.count,
				CallerReacted: agg.callerReacted,
			})
		}
	}
	return rows, nil
}

func (stub *stubEventStore) AddReaction(eventID uint, userID uint, emoji string) error {
	key := reactionKey{eventID: eventID, userID: userID, emoji: emoji}
	if stub.reactions[key] {
		return db.ErrDuplicate
	}
	stub.reactions[key] = true
	return nil
}

func (stub *stubEventStore) RemoveReaction(eventID uint, userID uint, emoji string) error {
	key := reactionKey{eventID: eventID, userID: userID, emoji: emoji}
	if !stub.reactions[key] {
		return gorm.ErrRecordNotFound
	}
	delete(stub.reactions, key)
	return nil
}

func newActivityFixture() (*ActivityService, *stubEventStore, *stubMembershipReader) {
	events := newStubEventStore()
	groups := &stubMembershipReader{memberships: map[uint]map[uint]models.Membership{
		10: {
			100: activeMembership(models.RoleCreator),
			101: activeMembership(models.RoleMember),
			102: {Role: models.RoleMember, Status: models.MembershipPending},
		},
	}}
	return NewActivityService(events, groups), events, groups
}

func TestActivityPageOrderingAndPagination(t *testing.T) {
	service, events, _ := newActivityFixture()
	const total = 7
	for i := 0; i < total; i++ {
		events.append(10, 100, models.EventProgressLogged)
	}

	var collected []uint
	cursor := ""
	for {
		page, err := service.Page(ActivityScope{GroupID: 10}, 100, cursor, 2)
		if err != nil {
			t.Fatalf("page: %v", err)
		}
		if page.TotalInScope != total {
			t.Fatalf("expected total %d, got %d", total, page.TotalInScope)
		}
		for _, item := range page.Items {
			collected = append(collected, item.EventID)
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	if len(collected) != total {
		t.Fatalf("expected %d events, got %d", total, len(collected))
	}
	seen := map[uint]bool{}
	for i, eventID := range collected {
		if seen[eventID] {
			t.Fatalf("event %d repeated", eventID)
		}
		seen[eventID] = true
		if i > 0 && collected[i-1] <= eventID {
			t.Fatal("expected strictly descending event ids")
		}
	}
}

func TestActivityPageStableUnderInsertsBehindCursor(t *testing.T) {
	service, events, _ := newActivityFixture()
	for i := 0; i < 4; i++ {
		events.append(10, 100, models.EventProgressLogged)
	}

	first, err := service.Page(ActivityScope{GroupID: 10}, 100, "", 2)
	if err != nil {
		t.Fatalf("first page: %v", err)
	}

	// New events land ahead of the cursor; the second page must still pick
	// up exactly where the first left off.
	events.append(10, 100, models.EventProgressLogged)
	events.append(10, 100, models.EventProgressLogged)

	second, err := service.Page(ActivityScope{GroupID: 10}, 100, first.NextCursor, 2)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(second.Items))
	}
	if second.Items[0].EventID != 2 || second.Items[1].EventID != 1 {
		t.Fatalf("expected events 2,1 on the second page, got %d,%d", second.Items[0].EventID, second.Items[1].EventID)
	}
}

func TestActivityPageActorScope(t *testing.T) {
	service, events, _ := newActivityFixture()
	events.append(10, 100, models.EventProgressLogged)
	events.append(10, 101, models.EventProgressLogged)
	events.append(10, 100, models.EventGoalAdded)

	actorID := uint(100)
	page, err := service.Page(ActivityScope{GroupID: 10, ActorID: &actorID}, 101, "", 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Items) != 2 || page.TotalInScope != 2 {
		t.Fatalf("expected 2 actor-scoped events, got %d (total %d)", len(page.Items), page.TotalInScope)
	}
	for _, item := range page.Items {
		if item.ActorID == nil || *item.ActorID != actorID {
			t.Fatalf("unexpected actor on item %d", item.EventID)
		}
	}
}

func TestActivityPageMembershipGate(t *testing.T) {
	service, events, _ := newActivityFixture()
	events.append(10, 100, models.EventProgressLogged)

	if _, err := service.Page(ActivityScope{GroupID: 10}, 999, "", 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := service.Page(ActivityScope{GroupID: 10}, 102, "", 10); !errors.Is(err, ErrPendingApproval) {
		t.Fatalf("expected ErrPendingApproval, got %v", err)
	}
}

func TestActivityPageRejectsBadInput(t *testing.T) {
	service, _, _ := newActivityFixture()

	if _, err := service.Page(ActivityScope{GroupID: 10}, 100, "garbage!", 10); !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
	if _, err := service.Page(ActivityScope{GroupID: 10}, 100, "", 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestReactionsDecorateItems(t *testing.T) {
	service, events, _ := newActivityFixture()
	event := events.append(10, 100, models.EventProgressLogged)

	if err := service.AddReaction(event.ID, 100, "🔥"); err != nil {
		t.Fatalf("add reaction: %v", err)
	}
	if err := service.AddReaction(event.ID, 101, "🔥"); err != nil {
		t.Fatalf("add second reaction: %v", err)
	}
	// Same reaction again is a no-op.
	if err := service.AddReaction(event.ID, 100, "🔥"); err != nil {
		t.Fatalf("repeat reaction: %v", err)
	}

	page, err := service.Page(ActivityScope{GroupID: 10}, 101, "", 10)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page.Items) != 1 || len(page.Items[0].Reactions) != 1 {
		t.Fatalf("expected one decorated item, got %+v", page.Items)
	}
	reaction := page.Items[0].Reactions[0]
	if reaction.Emoji != "🔥" || reaction.Count != 2 || !reaction.CallerReacted {
		t.Fatalf("unexpected reaction summary: %+v", reaction)
	}

	if err := service.RemoveReaction(event.ID, 101, "🔥"); err != nil {
		t.Fatalf("remove reaction: %v", err)
	}
	page, err = service.Page(ActivityScope{GroupID: 10}, 101, "", 10)
	if err != nil {
		t.Fatalf("page after removal: %v", err)
	}
	reaction = page.Items[0].Reactions[0]
	if reaction.Count != 1 || reaction.CallerReacted {
		t.Fatalf("unexpected reaction summary after removal: %+v", reaction)
	}
}

func TestAddReactionValidation(t *testing.T) {
	service, events, _ := newActivityFixture()
	event := events.append(10, 100, models.EventProgressLogged)

	if err := service.AddReaction(event.ID, 100, "  "); !errors.Is(err, ErrInvalidEmoji) {
		t.Fatalf("expected ErrInvalidEmoji, got %v", err)
	}
	if err := service.AddReaction(999, 100, "🔥"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.AddReaction(event.ID, 999, "🔥"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

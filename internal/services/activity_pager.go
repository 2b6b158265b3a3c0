package services

import (
	"errors"
	"strings"
	"time"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
)

const maxEmojiLength = 16

type PagerEventReader interface {
	PageEvents(groupID uint, actorID *uint, beforeID uint, limit int) ([]models.ActivityEvent, error)
	CountEvents(groupID uint, actorID *uint) (int64, error)
	FindEventByID(eventID uint) (models.ActivityEvent, error)
	ReactionsForEvents(eventIDs []uint, callerID uint) ([]db.ReactionRow, error)
	AddReaction(eventID uint, userID uint, emoji string) error
	RemoveReaction(eventID uint, userID uint, emoji string) error
}

type PagerGroupReader interface {
	MembershipFor(groupID uint, userID uint) (models.Membership, bool, error)
}

// ActivityService pages a group's event stream and manages reaction
// decoration. Pages are keyed on the event sequence id, so concurrent
// inserts ahead of the cursor can never skip or repeat items.
type ActivityService struct {
	events PagerEventReader
	groups PagerGroupReader
}

func NewActivityService(events PagerEventReader, groups PagerGroupReader) *ActivityService {
	return &ActivityService{
		events: events,
		groups: groups,
	}
}

// ActivityScope selects a whole group stream or one actor's slice of it.
type ActivityScope struct {
	GroupID uint
	ActorID *uint
}

type ActivityItem struct {
	EventID   uint
	EventType string
	ActorID   *uint
	GoalID    *uint
	EntryID   *uint
	Metadata  map[string]any
	CreatedAt time.Time
	Reactions []ReactionSummary
}

type ActivityPage struct {
	Items        []ActivityItem
	NextCursor   string
	HasMore      bool
	TotalInScope int64
}

// Page returns one reverse-chronological page of the scope's event stream.
func (service *ActivityService) Page(scope ActivityScope, callerID uint, cursorToken string, limit int) (ActivityPage, error) {
	membership, found, err := service.groups.MembershipFor(scope.GroupID, callerID)
	if err != nil {
		return ActivityPage{}, err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return ActivityPage{}, err
	}

	clamped, err := ClampPageLimit(limit)
	if err != nil {
		return ActivityPage{}, err
	}
	var beforeID uint
	if cursorToken != "" {
		cursor, err := DecodeCursor(cursorToken)
		if err != nil {
			return ActivityPage{}, err
		}
		beforeID = cursor.LastSeenID
	}

	events, err := service.events.PageEvents(scope.GroupID, scope.ActorID, beforeID, clamped+1)
	if err != nil {
		return ActivityPage{}, err
	}
	hasMore := len(events) > clamped
	if hasMore {
		events = events[:clamped]
	}

	eventIDs := make([]uint, 0, len(events))
	for _, event := range events {
		eventIDs = append(eventIDs, event.ID)
	}
	reactionRows, err := service.events.ReactionsForEvents(eventIDs, callerID)
	if err != nil {
		return ActivityPage{}, err
	}
	reactionsByEvent := make(map[uint][]ReactionSummary)
	for _, row := range reactionRows {
		reactionsByEvent[row.EventID] = append(reactionsByEvent[row.EventID], ReactionSummary{
			Emoji:         row.Emoji,
			Count:         row.Count,
			CallerReacted: row.CallerReacted,
		})
	}

	items := make([]ActivityItem, 0, len(events))
	for _, event := range events {
		items = append(items, ActivityItem{
			EventID:   event.ID,
			EventType: event.EventType,
			ActorID:   event.ActorID,
			GoalID:    event.GoalID,
			EntryID:   event.EntryID,
			Metadata:  event.Metadata,
			CreatedAt: event.CreatedAt,
			Reactions: reactionsByEvent[event.ID],
		})
	}

	totalInScope, err := service.events.CountEvents(scope.GroupID, scope.ActorID)
	if err != nil {
		return ActivityPage{}, err
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		nextCursor = EncodeCursor(Cursor{LastSeenID: items[len(items)-1].EventID})
	}

	return ActivityPage{
		Items:        items,
		NextCursor:   nextCursor,
		HasMore:      hasMore,
		TotalInScope: totalInScope,
	}, nil
}

// AddReaction records the caller's reaction on an event in their group.
// Repeating the same reaction is a no-op rather than an error.
func (service *ActivityService) AddReaction(eventID uint, callerID uint, emoji string) error {
	trimmed := strings.TrimSpace(emoji)
	if trimmed == "" || len(trimmed) > maxEmojiLength {
		return ErrInvalidEmoji
	}

	event, err := service.events.FindEventByID(eventID)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	membership, found, err := service.groups.MembershipFor(event.GroupID, callerID)
	if err != nil {
		return err
	}
	if err := RequireActiveMember(membership, found); err != nil {
		return err
	}

	if err := service.events.AddReaction(eventID, callerID, trimmed); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil
		}
		return err
	}
	return nil
}

func (service *ActivityService) RemoveReaction(eventID uint, callerID uint, emoji string) error {
	trimmed := strings.TrimSpace(emoji)
	if trimmed == "" {
		return ErrInvalidEmoji
	}
	if err := service.events.RemoveReaction(eventID, callerID, trimmed); err != nil {
		if db.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

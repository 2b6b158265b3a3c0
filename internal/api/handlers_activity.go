package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/services"
)

type reactionResponse struct {
	Emoji         string `json:"emoji"`
	Count         int    `json:"count"`
	CallerReacted bool   `json:"caller_reacted"`
}

func reactionPayloads(reactions []services.ReactionSummary) []reactionResponse {
	payload := make([]reactionResponse, 0, len(reactions))
	for _, reaction := range reactions {
		payload = append(payload, reactionResponse{
			Emoji:         reaction.Emoji,
			Count:         reaction.Count,
			CallerReacted: reaction.CallerReacted,
		})
	}
	return payload
}

func (handler *Handler) GroupActivity(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}
	limit, err := queryPageLimit(c)
	if err != nil {
		return serviceError(c, err)
	}

	scope := services.ActivityScope{GroupID: groupID}
	if raw := c.Query("actor_id"); raw != "" {
		actorID, err := parseQueryID(raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid actor id")
		}
		scope.ActorID = &actorID
	}

	user := currentUser(c)
	page, err := handler.activity.Page(scope, user.ID, c.Query("cursor"), limit)
	if err != nil {
		return serviceError(c, err)
	}

	items := make([]fiber.Map, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fiber.Map{
			"event_id":   item.EventID,
			"event_type": item.EventType,
			"actor_id":   item.ActorID,
			"goal_id":    item.GoalID,
			"entry_id":   item.EntryID,
			"metadata":   item.Metadata,
			"created_at": item.CreatedAt.UTC().Format(time.RFC3339),
			"reactions":  reactionPayloads(item.Reactions),
		})
	}
	return c.JSON(fiber.Map{
		"items":          items,
		"next_cursor":    page.NextCursor,
		"has_more":       page.HasMore,
		"total_in_scope": page.TotalInScope,
	})
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

func (handler *Handler) AddReaction(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var request reactionRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	if err := handler.activity.AddReaction(eventID, user.ID, request.Emoji); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) RemoveReaction(c *fiber.Ctx) error {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid event id")
	}

	var request reactionRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	if err := handler.activity.RemoveReaction(eventID, user.ID, request.Emoji); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

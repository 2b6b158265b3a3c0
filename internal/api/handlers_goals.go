package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/models"
	"github.com/pursueapp/pursue/internal/services"
)

type goalResponse struct {
	ID             uint     `json:"id"`
	PublicID       string   `json:"public_id"`
	GroupID        uint     `json:"group_id"`
	Title          string   `json:"title"`
	Cadence        string   `json:"cadence"`
	MetricType     string   `json:"metric_type"`
	TargetValue    *float64 `json:"target_value,omitempty"`
	Unit           string   `json:"unit,omitempty"`
	ActiveDays     []int    `json:"active_days,omitempty"`
	ActiveDaysText string   `json:"active_days_text,omitempty"`
	LogTitlePrompt string   `json:"log_title_prompt,omitempty"`
	Archived       bool     `json:"archived"`
}

func goalPayload(goal *models.Goal) goalResponse {
	payload := goalResponse{
		ID:             goal.ID,
		PublicID:       goal.PublicID,
		GroupID:        goal.GroupID,
		Title:          goal.Title,
		Cadence:        goal.Cadence,
		MetricType:     goal.MetricType,
		TargetValue:    goal.TargetValue,
		Unit:           goal.Unit,
		LogTitlePrompt: goal.LogTitlePrompt,
		Archived:       goal.IsArchived(),
	}
	if mask := services.GoalActiveDays(goal); mask != nil {
		payload.ActiveDays = mask.Days()
		payload.ActiveDaysText = mask.Label()
	}
	return payload
}

type addGoalRequest struct {
	Title          string   `json:"title"`
	Cadence        string   `json:"cadence"`
	MetricType     string   `json:"metric_type"`
	TargetValue    *float64 `json:"target_value"`
	Unit           string   `json:"unit"`
	ActiveDays     []int    `json:"active_days"`
	LogTitlePrompt string   `json:"log_title_prompt"`
}

func (handler *Handler) AddGoal(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}

	var request addGoalRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	goal, err := handler.goals.AddGoal(services.AddGoalInput{
		GroupID:        groupID,
		CallerID:       user.ID,
		Title:          request.Title,
		Cadence:        request.Cadence,
		MetricType:     request.MetricType,
		TargetValue:    request.TargetValue,
		Unit:           request.Unit,
		ActiveDays:     request.ActiveDays,
		LogTitlePrompt: request.LogTitlePrompt,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"goal": goalPayload(&goal)})
}

func (handler *Handler) ListGoals(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}

	user := currentUser(c)
	goals, err := handler.goals.ListGoals(groupID, user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	payload := make([]goalResponse, 0, len(goals))
	for index := range goals {
		payload = append(payload, goalPayload(&goals[index]))
	}
	return c.JSON(fiber.Map{"goals": payload})
}

type updateGoalRequest struct {
	Title       *string  `json:"title"`
	TargetValue *float64 `json:"target_value"`
	Unit        *string  `json:"unit"`
}

func (handler *Handler) UpdateGoal(c *fiber.Ctx) error {
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	var request updateGoalRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	goal, err := handler.goals.UpdateGoal(services.UpdateGoalInput{
		GoalID:      goalID,
		CallerID:    user.ID,
		Title:       request.Title,
		TargetValue: request.TargetValue,
		Unit:        request.Unit,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"goal": goalPayload(&goal)})
}

func (handler *Handler) ArchiveGoal(c *fiber.Ctx) error {
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	user := currentUser(c)
	if err := handler.goals.ArchiveGoal(goalID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

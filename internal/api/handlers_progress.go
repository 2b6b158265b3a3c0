package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/models"
	"github.com/pursueapp/pursue/internal/services"
)

const dateLayout = "2006-01-02"

type entryResponse struct {
	ID          uint    `json:"id"`
	GoalID      uint    `json:"goal_id"`
	UserID      uint    `json:"user_id"`
	Value       float64 `json:"value"`
	Note        string  `json:"note,omitempty"`
	LogTitle    string  `json:"log_title,omitempty"`
	PeriodStart string  `json:"period_start"`
	LoggedAt    string  `json:"logged_at"`
}

func entryPayload(entry *models.ProgressEntry) entryResponse {
	return entryResponse{
		ID:          entry.ID,
		GoalID:      entry.GoalID,
		UserID:      entry.UserID,
		Value:       entry.Value,
		Note:        entry.Note,
		LogTitle:    entry.LogTitle,
		PeriodStart: entry.PeriodStart.Format(dateLayout),
		LoggedAt:    entry.LoggedAt.UTC().Format(time.RFC3339),
	}
}

type logProgressRequest struct {
	Value    float64 `json:"value"`
	Note     string  `json:"note"`
	LogTitle string  `json:"log_title"`
	Date     string  `json:"date"`
	Timezone string  `json:"timezone"`
}

func (handler *Handler) LogProgress(c *fiber.Ctx) error {
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	var request logProgressRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	timezone := request.Timezone
	if timezone == "" {
		timezone = user.Timezone
	}
	date := request.Date
	if date == "" {
		location, err := services.LoadUserLocation(timezone)
		if err != nil {
			return serviceError(c, err)
		}
		date = time.Now().In(location).Format(dateLayout)
	}

	entry, err := handler.progress.LogProgress(services.LogProgressInput{
		GoalID:   goalID,
		UserID:   user.ID,
		Value:    request.Value,
		Note:     request.Note,
		LogTitle: request.LogTitle,
		UserDate: date,
		Timezone: timezone,
	}, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entryPayload(&entry)})
}

func (handler *Handler) GetProgressEntry(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	user := currentUser(c)
	entry, err := handler.progress.GetEntry(entryID, user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"entry": entryPayload(&entry)})
}

func (handler *Handler) DeleteProgress(c *fiber.Ctx) error {
	entryID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	user := currentUser(c)
	if err := handler.progress.DeleteProgress(entryID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

type userProgressResponse struct {
	UserID      uint           `json:"user_id"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	Completed   float64        `json:"completed"`
	Total       float64        `json:"total"`
	Percentage  int            `json:"percentage"`
	Entries     []entrySummary `json:"entries"`
}

type entrySummary struct {
	EntryID     uint    `json:"entry_id"`
	Value       float64 `json:"value"`
	Note        string  `json:"note,omitempty"`
	LogTitle    string  `json:"log_title,omitempty"`
	PeriodStart string  `json:"period_start"`
	LoggedAt    string  `json:"logged_at"`
}

func userProgressPayload(progress services.UserProgress) userProgressResponse {
	entries := make([]entrySummary, 0, len(progress.Entries))
	for _, entry := range progress.Entries {
		entries = append(entries, entrySummary{
			EntryID:     entry.EntryID,
			Value:       entry.Value,
			Note:        entry.Note,
			LogTitle:    entry.LogTitle,
			PeriodStart: entry.PeriodStart.Format(dateLayout),
			LoggedAt:    entry.LoggedAt.UTC().Format(time.RFC3339),
		})
	}
	return userProgressResponse{
		UserID:      progress.UserID,
		DisplayName: progress.DisplayName,
		AvatarURL:   progress.AvatarURL,
		Completed:   progress.Completed,
		Total:       progress.Total,
		Percentage:  progress.Percentage,
		Entries:     entries,
	}
}

func (handler *Handler) CurrentPeriodProgress(c *fiber.Ctx) error {
	goalID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid goal id")
	}

	user := currentUser(c)
	view, err := handler.aggregation.CurrentPeriodProgress(goalID, user.ID, time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	members := make([]userProgressResponse, 0, len(view.MemberProgress))
	for _, member := range view.MemberProgress {
		members = append(members, userProgressPayload(member))
	}
	return c.JSON(fiber.Map{
		"goal_id":         view.GoalID,
		"period_start":    view.PeriodStart.Format(dateLayout),
		"period_end":      view.PeriodEnd.Format(dateLayout),
		"period_type":     view.PeriodType,
		"user_progress":   userProgressPayload(view.UserProgress),
		"member_progress": members,
	})
}

func (handler *Handler) MemberProgress(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}
	targetUserID, err := parseIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}
	limit, err := queryPageLimit(c)
	if err != nil {
		return serviceError(c, err)
	}

	user := currentUser(c)
	view, err := handler.aggregation.MemberProgressOverRange(services.MemberProgressQuery{
		GroupID:      groupID,
		TargetUserID: targetUserID,
		CallerID:     user.ID,
		FromDate:     c.Query("from"),
		ToDate:       c.Query("to"),
		Cursor:       c.Query("cursor"),
		Limit:        limit,
	})
	if err != nil {
		return serviceError(c, err)
	}

	goals := make([]fiber.Map, 0, len(view.GoalSummaries))
	for _, summary := range view.GoalSummaries {
		goals = append(goals, fiber.Map{
			"goal_id":      summary.GoalID,
			"title":        summary.Title,
			"cadence":      summary.Cadence,
			"metric_type":  summary.MetricType,
			"completed":    summary.Completed,
			"total":        summary.Total,
			"percentage":   summary.Percentage,
			"target_value": summary.TargetValue,
			"unit":         summary.Unit,
		})
	}

	log := make([]fiber.Map, 0, len(view.ActivityLog))
	for _, item := range view.ActivityLog {
		log = append(log, fiber.Map{
			"entry_id":     item.EntryID,
			"goal_id":      item.GoalID,
			"goal_title":   item.GoalTitle,
			"metric_type":  item.MetricType,
			"unit":         item.Unit,
			"value":        item.Value,
			"note":         item.Note,
			"log_title":    item.LogTitle,
			"period_start": item.PeriodStart.Format(dateLayout),
			"logged_at":    item.LoggedAt.UTC().Format(time.RFC3339),
			"reactions":    reactionPayloads(item.Reactions),
		})
	}

	return c.JSON(fiber.Map{
		"member": fiber.Map{
			"user_id":      view.Member.UserID,
			"display_name": view.Member.DisplayName,
			"avatar_url":   view.Member.AvatarURL,
		},
		"timeframe": fiber.Map{
			"from": view.Timeframe.From.Format(dateLayout),
			"to":   view.Timeframe.To.Format(dateLayout),
			"days": view.Timeframe.Days,
		},
		"goal_summaries": goals,
		"activity_log":   log,
		"pagination": fiber.Map{
			"next_cursor":    view.Pagination.NextCursor,
			"has_more":       view.Pagination.HasMore,
			"total_in_scope": view.Pagination.TotalInScope,
		},
	})
}

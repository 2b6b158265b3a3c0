package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/models"
)

type groupResponse struct {
	ID          uint   `json:"id"`
	PublicID    string `json:"public_id"`
	Name        string `json:"name"`
	OwnerID     uint   `json:"owner_id"`
	InviteCode  string `json:"invite_code,omitempty"`
	MemberCount int    `json:"member_count"`
}

func groupPayload(group *models.Group, includeInvite bool) groupResponse {
	payload := groupResponse{
		ID:          group.ID,
		PublicID:    group.PublicID,
		Name:        group.Name,
		OwnerID:     group.OwnerID,
		MemberCount: group.MemberCount,
	}
	if includeInvite {
		payload.InviteCode = group.InviteCode
	}
	return payload
}

type createGroupRequest struct {
	Name string `json:"name"`
}

func (handler *Handler) CreateGroup(c *fiber.Ctx) error {
	var request createGroupRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	group, err := handler.groups.TryCreateGroup(user.ID, request.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"group": groupPayload(&group, true)})
}

func (handler *Handler) ListGroups(c *fiber.Ctx) error {
	user := currentUser(c)
	groups, err := handler.groups.ListGroups(user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	payload := make([]groupResponse, 0, len(groups))
	for index := range groups {
		includeInvite := groups[index].OwnerID == user.ID
		payload = append(payload, groupPayload(&groups[index], includeInvite))
	}
	return c.JSON(fiber.Map{"groups": payload})
}

func (handler *Handler) GetGroup(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}

	user := currentUser(c)
	group, err := handler.groups.GetGroup(groupID, user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"group": groupPayload(&group, group.OwnerID == user.ID)})
}

type joinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

func (handler *Handler) JoinGroup(c *fiber.Ctx) error {
	var request joinGroupRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	group, err := handler.groups.JoinByInviteCode(user.ID, request.InviteCode)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"group": groupPayload(&group, false)})
}

func (handler *Handler) ApproveMember(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}
	targetUserID, err := parseIDParam(c, "userId")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user := currentUser(c)
	if err := handler.groups.ApproveMember(groupID, targetUserID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) LeaveGroup(c *fiber.Ctx) error {
	groupID, err := parseIDParam(c, "id")
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid group id")
	}

	user := currentUser(c)
	if err := handler.groups.LeaveGroup(groupID, user.ID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

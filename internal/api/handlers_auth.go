package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/models"
	"github.com/pursueapp/pursue/internal/services"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Tier        string `json:"tier"`
	Timezone    string `json:"timezone"`
}

func userPayload(user *models.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL(),
		Tier:        user.Tier,
		Timezone:    user.Timezone,
	}
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	var request registerRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := handler.auth.Register(services.RegisterInput{
		Email:       request.Email,
		Password:    request.Password,
		DisplayName: request.DisplayName,
		Timezone:    request.Timezone,
	})
	if err != nil {
		return serviceError(c, err)
	}

	token, err := handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		return serviceError(c, err)
	}
	if err := handler.setAuthCookie(c, &user); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	var request loginRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	limiterKey := requestLimiterKey(c)
	now := time.Now()
	if handler.loginLimiter.tooManyRecent(limiterKey, now, loginFailureLimit, loginFailureWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.auth.Login(request.Email, request.Password)
	if err != nil {
		handler.loginLimiter.addFailure(limiterKey, now, loginFailureWindow)
		return apiError(c, fiber.StatusUnauthorized, "invalid email or password")
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.buildToken(&user, defaultAuthTokenTTL)
	if err != nil {
		return serviceError(c, err)
	}
	if err := handler.setAuthCookie(c, &user); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{
		"user":  userPayload(&user),
		"token": token,
	})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": userPayload(currentUser(c))})
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (handler *Handler) UpdateTimezone(c *fiber.Ctx) error {
	var request timezoneRequest
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user := currentUser(c)
	if err := handler.auth.UpdateTimezone(user.ID, request.Timezone); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := handler.auth.DeleteAccount(user.ID); err != nil {
		return serviceError(c, err)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}

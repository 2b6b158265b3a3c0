package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/pursueapp/pursue/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// serviceError translates a service sentinel into a JSON error response.
func serviceError(c *fiber.Ctx, err error) error {
	return apiError(c, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case services.IsValidationError(err):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCredentialsInvalid),
		errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrPendingApproval),
		errors.Is(err, services.ErrTargetNotMember):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrDuplicateEntry),
		errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrSubscriptionRequired):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrLimitExceeded):
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}

func parseQueryID(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || value == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}

// queryPageLimit reads the limit query parameter, defaulting when absent.
// An explicit zero or negative value is passed through for the service to
// reject.
func queryPageLimit(c *fiber.Ctx) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return services.DefaultPageLimit, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, services.ErrInvalidLimit
	}
	return value, nil
}

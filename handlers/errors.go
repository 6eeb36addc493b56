// handlers/errors.go
package handlers

import (
	"errors"

	"pillar-log-system/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps the service error taxonomy onto HTTP statuses. Store
// errors outside the taxonomy surface as 500s with the cause attached, the
// same shape the rest of the platform's services use.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var upstreamErr *services.UpstreamError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": validationErr.Error(),
		})
	case errors.Is(err, services.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "authentication required",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})
	case errors.As(err, &conflictErr):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": conflictErr.Error(),
		})
	case errors.Is(err, services.ErrInsufficientData):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": services.ErrInsufficientData.Error(),
		})
	case errors.As(err, &upstreamErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": upstreamErr.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal error",
			"cause": err.Error(),
		})
	}
}

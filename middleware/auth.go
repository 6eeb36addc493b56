// middleware/auth.go
package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the authenticated user identity set by the
// Gateway. Routes wrapped with it reject requests without a user context
// before any mutation happens; public read routes attach it when present.
func UserContextMiddleware(required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get("X-User-ID")
		if required && userID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

// UserID reads the identity attached by UserContextMiddleware. Empty on
// anonymous requests to optional routes.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// handlers/profile_routes.go
package handlers

import (
	"strconv"

	"pillar-log-system/middleware"
	"pillar-log-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, userService *services.UserService) {
	secured := app.Group("/user", middleware.UserContextMiddleware(true))

	secured.Post("/onboarding", func(c *fiber.Ctx) error {
		var input services.OnboardingInput
		if err := c.BodyParser(&input); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.Onboard(middleware.UserID(c), input)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	secured.Get("/profile", func(c *fiber.Ctx) error {
		user, err := userService.Profile(middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(user)
	})

	// Public reads — no user context needed.
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		entries, err := userService.Leaderboard(limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(entries)
	})

	app.Get("/profiles/:username", func(c *fiber.Ctx) error {
		profile, logs, err := userService.PublicProfileByUsername(c.Params("username"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"profile":     profile,
			"public_logs": logs,
		})
	})
}

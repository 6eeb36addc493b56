// handlers/social_routes.go
package handlers

import (
	"strconv"

	"pillar-log-system/middleware"
	"pillar-log-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, dashboardService *services.DashboardService, endorsementService *services.EndorsementService) {
	// The grid is readable without a user context; the viewer's own
	// endorsement state is simply absent for anonymous reads.
	grid := app.Group("/grid", middleware.UserContextMiddleware(false))

	grid.Get("/", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		entries, err := dashboardService.PublicGrid(middleware.UserID(c), limit)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(entries)
	})

	secured := app.Group("/grid", middleware.UserContextMiddleware(true))

	// Toggle the viewer's endorsement; the response carries the durable
	// count so the client can reconcile its optimistic state.
	secured.Post("/logs/:id/endorse", func(c *fiber.Ctx) error {
		type Req struct {
			Endorse bool `json:"endorse"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		logID := c.Params("id")
		userID := middleware.UserID(c)
		if err := endorsementService.Toggle(logID, userID, req.Endorse); err != nil {
			return respondError(c, err)
		}

		count, err := endorsementService.Count(logID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"log_id":            logID,
			"endorsed":          req.Endorse,
			"endorsement_count": count,
		})
	})
}

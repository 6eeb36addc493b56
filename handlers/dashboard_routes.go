// handlers/dashboard_routes.go
package handlers

import (
	"time"

	"pillar-log-system/middleware"
	"pillar-log-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, dashboardService *services.DashboardService) {
	secured := app.Group("/dashboard", middleware.UserContextMiddleware(true))

	secured.Get("/", func(c *fiber.Ctx) error {
		dashboard, err := dashboardService.Dashboard(middleware.UserID(c), time.Now().UTC())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dashboard)
	})
}

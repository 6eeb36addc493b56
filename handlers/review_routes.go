// handlers/review_routes.go
package handlers

import (
	"time"

	"pillar-log-system/middleware"
	"pillar-log-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupReviewRoutes(app *fiber.App, reviewService *services.ReviewService) {
	secured := app.Group("/reviews", middleware.UserContextMiddleware(true))

	// User-triggered only — there is no scheduler behind this.
	secured.Post("/generate", func(c *fiber.Ctx) error {
		review, err := reviewService.Generate(c.Context(), middleware.UserID(c), time.Now().UTC())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"review": review})
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		reviews, err := reviewService.List(middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(reviews)
	})
}

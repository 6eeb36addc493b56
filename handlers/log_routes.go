// handlers/log_routes.go
package handlers

import (
	"pillar-log-system/middleware"
	"pillar-log-system/services"
	"pillar-log-system/utils"

	"github.com/gofiber/fiber/v2"
)

func SetupLogRoutes(app *fiber.App, logService *services.LogService, draftService *services.DraftService) {
	secured := app.Group("/logs", middleware.UserContextMiddleware(true))

	// Scoring preview: same function as submission, no side effects.
	secured.Post("/preview-score", func(c *fiber.Ctx) error {
		var payload services.LogPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"xp": services.CalculateScore(payload.Clamped().ScoreInput()),
		})
	})

	// Open a date for editing: persisted record wins, then staged draft,
	// then documented defaults. A missing log is not an error.
	secured.Get("/:date", func(c *fiber.Ctx) error {
		day, err := services.ParseDay(c.Params("date"))
		if err != nil {
			return respondError(c, err)
		}

		payload, source, err := logService.Open(c.Context(), middleware.UserID(c), day)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"date":   day.Format("2006-01-02"),
			"source": source,
			"log":    payload,
			"xp":     services.CalculateScore(payload.ScoreInput()),
		})
	})

	// Submit: idempotent wholesale upsert on (user_id, date).
	secured.Post("/:date", func(c *fiber.Ctx) error {
		day, err := services.ParseDay(c.Params("date"))
		if err != nil {
			return respondError(c, err)
		}

		var payload services.LogPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		saved, err := logService.Submit(c.Context(), middleware.UserID(c), day, payload)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"message": "log synchronized",
			"log":     saved,
			"xp":      services.ScoreLog(saved),
		})
	})

	// Stage a draft. Fire-and-forget: the write lands after the quiet
	// period unless another edit restarts it.
	secured.Post("/:date/draft", func(c *fiber.Ctx) error {
		day, err := services.ParseDay(c.Params("date"))
		if err != nil {
			return respondError(c, err)
		}

		var payload services.LogPayload
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		draftService.Stage(middleware.UserID(c), day, payload)
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"message": "draft staged",
		})
	})

	// Attachment upload: straight to R2, public URL back to the client.
	secured.Post("/:date/attachment", func(c *fiber.Ctx) error {
		if _, err := services.ParseDay(c.Params("date")); err != nil {
			return respondError(c, err)
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing image file",
			})
		}

		url, err := utils.UploadFileToR2(fileHeader, utils.AttachmentKey(fileHeader.Filename))
		if err != nil {
			return respondError(c, &services.UpstreamError{Service: "blob store", Err: err})
		}
		return c.JSON(fiber.Map{"image_url": url})
	})
}

package progressRoutes

import (
	"edhub/config"
	progressControllers "edhub/controllers/progress"
	"edhub/middleware"
	"edhub/validators"
	progressValidators "edhub/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(api fiber.Router, cfg *config.Config, ctrl *progressControllers.ProgressController) {
	progressGroup := api.Group("/progress", middleware.JWTMiddleware(cfg))
	courseID := validators.IDParam("courseId")

	progressGroup.Get("/", ctrl.ListProgress)
	// Must stay ahead of /:courseId
	progressGroup.Get("/certificates", ctrl.ListCertificates)
	progressGroup.Get("/:courseId", courseID, ctrl.GetProgress)
	progressGroup.Put("/:courseId/lesson/:lessonId", courseID, progressValidators.UpdateLesson(), ctrl.UpdateLesson)
}

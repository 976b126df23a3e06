package progressController

import (
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	courseModels "edhub/models/course"
	"edhub/services"

	"github.com/gofiber/fiber/v2"
)

type ProgressController struct {
	log      *logger.Logger
	progress services.ProgressService
}

func NewProgressController(log *logger.Logger, progress services.ProgressService) *ProgressController {
	return &ProgressController{log: log.With("controller", "ProgressController"), progress: progress}
}

func (pc *ProgressController) ListProgress(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	rows, err := pc.progress.ListProgress(c.UserContext(), userID)
	if err != nil {
		return controllers.ErrorResponse(c, pc.log, err, "Failed to fetch progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", rows)
}

func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("courseId").(uint)

	view, err := pc.progress.GetProgress(c.UserContext(), userID, courseID)
	if err != nil {
		return controllers.ErrorResponse(c, pc.log, err, "Failed to fetch progress!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", view)
}

func (pc *ProgressController) UpdateLesson(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("courseId").(uint)
	lessonID := c.Locals("lessonId").(string)
	upd := c.Locals("lessonUpdate").(courseModels.LessonUpdate)

	result, err := pc.progress.UpdateLesson(c.UserContext(), userID, courseID, lessonID, upd)
	if err != nil {
		return controllers.ErrorResponse(c, pc.log, err, "Failed to update progress!")
	}
	message := "Progress updated successfully!"
	if result.Certificate != nil {
		message = "Course completed! Certificate earned."
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func (pc *ProgressController) ListCertificates(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	certs, err := pc.progress.ListCertificates(c.UserContext(), userID)
	if err != nil {
		return controllers.ErrorResponse(c, pc.log, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", certs)
}

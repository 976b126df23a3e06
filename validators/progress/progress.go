package progressValidator

import (
	"edhub/middleware"
	courseModels "edhub/models/course"
	"edhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type lessonUpdateRequest struct {
	Completed *bool    `json:"completed"`
	TimeSpent *float64 `json:"timeSpent" validate:"omitempty,gte=0"`
	Score     *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
}

// UpdateLesson validates a lesson progress update; every body field is optional
func UpdateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lessonID := strings.TrimSpace(c.Params("lessonId"))
		if lessonID == "" || len(lessonID) > 64 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid lesson ID!", nil)
		}

		reqData := new(lessonUpdateRequest)
		if len(c.Body()) > 0 {
			if ok, err := validators.ParseBody(c, reqData); !ok {
				return err
			}
		}

		c.Locals("lessonId", lessonID)
		c.Locals("lessonUpdate", courseModels.LessonUpdate{
			Completed: reqData.Completed,
			TimeSpent: reqData.TimeSpent,
			Score:     reqData.Score,
		})
		return c.Next()
	}
}

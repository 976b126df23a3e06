package courseRoutes

import (
	"edhub/config"
	courseControllers "edhub/controllers/course"
	"edhub/middleware"
	"edhub/models"
	"edhub/validators"
	courseValidators "edhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(api fiber.Router, cfg *config.Config, ctrl *courseControllers.CourseController, reviews *courseControllers.ReviewController) {
	courseGroup := api.Group("/courses")
	auth := middleware.JWTMiddleware(cfg)
	authorOnly := middleware.RequireRoles(models.RoleInstructor, models.RoleAdmin)
	courseID := validators.IDParam("id")

	// Public catalog
	courseGroup.Get("/", courseValidators.ListCourses(), ctrl.ListCourses)
	courseGroup.Get("/:id", courseID, ctrl.GetCourse)

	// Authoring
	courseGroup.Post("/", auth, authorOnly, courseValidators.CreateCourse(), ctrl.CreateCourse)
	courseGroup.Put("/:id", auth, authorOnly, courseID, courseValidators.UpdateCourse(), ctrl.UpdateCourse)
	courseGroup.Delete("/:id", auth, authorOnly, courseID, ctrl.DeleteCourse)

	// Learning
	courseGroup.Get("/:id/lessons", auth, courseID, ctrl.GetLessons)
	courseGroup.Post("/:id/enroll", auth, courseID, ctrl.Enroll)
	courseGroup.Post("/:id/lessons/:lessonId/run", auth, courseID, courseValidators.RunCode(), ctrl.RunCode)
	courseGroup.Post("/:id/lessons/:lessonId/quiz", auth, courseID, courseValidators.SubmitQuiz(), ctrl.SubmitQuiz)

	// Reviews
	courseGroup.Get("/:id/reviews", courseID, courseValidators.ValidateReviewList(), reviews.GetReviews)
	courseGroup.Post("/:id/reviews", auth, courseID, courseValidators.ValidateReview(), reviews.CreateReview)
}

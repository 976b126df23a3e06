package courseController

import (
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"
	courseValidator "edhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

type CourseController struct {
	log        *logger.Logger
	courses    services.CourseService
	enrollment services.EnrollmentService
	practice   services.PracticeService
}

func NewCourseController(log *logger.Logger, courses services.CourseService, enrollment services.EnrollmentService, practice services.PracticeService) *CourseController {
	return &CourseController{
		log:        log.With("controller", "CourseController"),
		courses:    courses,
		enrollment: enrollment,
		practice:   practice,
	}
}

func (cc *CourseController) ListCourses(c *fiber.Ctx) error {
	query := c.Locals("catalogQuery").(services.CatalogQuery)

	page, err := cc.courses.ListCatalog(c.UserContext(), query)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to fetch courses!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", page)
}

func (cc *CourseController) GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	course, err := cc.courses.GetCourse(c.UserContext(), courseID)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to fetch course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

func (cc *CourseController) CreateCourse(c *fiber.Ctx) error {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	in := c.Locals("courseInput").(services.CourseInput)

	course, err := cc.courses.CreateCourse(c.UserContext(), services.Actor{UserID: userID, Role: role}, in)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to create course!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

func (cc *CourseController) UpdateCourse(c *fiber.Ctx) error {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)
	in := c.Locals("courseInput").(services.CourseInput)

	course, err := cc.courses.UpdateCourse(c.UserContext(), services.Actor{UserID: userID, Role: role}, courseID, in)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to update course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

func (cc *CourseController) DeleteCourse(c *fiber.Ctx) error {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)

	if err := cc.courses.DeleteCourse(c.UserContext(), services.Actor{UserID: userID, Role: role}, courseID); err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to delete course!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

func (cc *CourseController) GetLessons(c *fiber.Ctx) error {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)

	lessons, err := cc.courses.GetLessons(c.UserContext(), services.Actor{UserID: userID, Role: role}, courseID)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to fetch lessons!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func (cc *CourseController) Enroll(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)

	progress, err := cc.enrollment.Enroll(c.UserContext(), userID, courseID)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to enroll in course!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", progress)
}

func (cc *CourseController) RunCode(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)
	reqData := c.Locals("runCode").(*courseValidator.RunCodeRequest)

	out, err := cc.practice.RunCode(c.UserContext(), userID, courseID, c.Params("lessonId"), reqData.Code, reqData.Stdin)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to run code!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Code executed!", out)
}

func (cc *CourseController) SubmitQuiz(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)
	answers := c.Locals("quizAnswers").([]int)

	result, err := cc.practice.GradeQuiz(c.UserContext(), userID, courseID, c.Params("lessonId"), answers)
	if err != nil {
		return controllers.ErrorResponse(c, cc.log, err, "Failed to grade quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz graded!", result)
}

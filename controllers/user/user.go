package userController

import (
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	log   *logger.Logger
	users services.UserService
}

func NewUserController(log *logger.Logger, users services.UserService) *UserController {
	return &UserController{log: log.With("controller", "UserController"), users: users}
}

func (uc *UserController) Stats(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	stats, err := uc.users.Stats(c.UserContext(), userID)
	if err != nil {
		return controllers.ErrorResponse(c, uc.log, err, "Failed to fetch stats!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Stats fetched successfully!", stats)
}

func (uc *UserController) EnrolledCourses(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courses, err := uc.users.EnrolledCourses(c.UserContext(), userID)
	if err != nil {
		return controllers.ErrorResponse(c, uc.log, err, "Failed to fetch enrolled courses!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", courses)
}

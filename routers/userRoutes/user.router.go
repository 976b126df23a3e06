package userRoutes

import (
	"edhub/config"
	userControllers "edhub/controllers/user"
	"edhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(api fiber.Router, cfg *config.Config, ctrl *userControllers.UserController) {
	userGroup := api.Group("/users", middleware.JWTMiddleware(cfg))

	userGroup.Get("/stats", ctrl.Stats)
	userGroup.Get("/enrolled-courses", ctrl.EnrolledCourses)
}

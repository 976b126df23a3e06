package authRoutes

import (
	"edhub/config"
	authControllers "edhub/controllers/auth"
	"edhub/middleware"
	authValidators "edhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(api fiber.Router, cfg *config.Config, ctrl *authControllers.AuthController) {
	authGroup := api.Group("/auth")

	authGroup.Post("/register", authValidators.Signup(), ctrl.Signup)
	authGroup.Post("/login", authValidators.Login(), ctrl.Login)
	authGroup.Get("/me", middleware.JWTMiddleware(cfg), ctrl.Me)
}

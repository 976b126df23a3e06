package authController

import (
	"edhub/config"
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"
	authValidator "edhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	cfg   *config.Config
	log   *logger.Logger
	auth  services.AuthService
	users services.UserService
}

func NewAuthController(cfg *config.Config, log *logger.Logger, auth services.AuthService, users services.UserService) *AuthController {
	return &AuthController{cfg: cfg, log: log.With("controller", "AuthController"), auth: auth, users: users}
}

func (ac *AuthController) Signup(c *fiber.Ctx) error {
	in := c.Locals("registerInput").(services.RegisterInput)

	user, err := ac.auth.Register(c.UserContext(), in)
	if err != nil {
		return controllers.ErrorResponse(c, ac.log, err, "Failed to create user!")
	}
	token, err := middleware.GenerateJWT(ac.cfg, user)
	if err != nil {
		return controllers.ErrorResponse(c, ac.log, err, "Failed to generate token!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	reqData := c.Locals("loginRequest").(*authValidator.LoginRequest)

	user, err := ac.auth.Login(c.UserContext(), reqData.Email, reqData.Password)
	if err != nil {
		return controllers.ErrorResponse(c, ac.log, err, "Login failed!")
	}
	token, err := middleware.GenerateJWT(ac.cfg, user)
	if err != nil {
		return controllers.ErrorResponse(c, ac.log, err, "Failed to generate token!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	user, err := ac.users.GetUser(c.UserContext(), userID)
	if err != nil {
		return controllers.ErrorResponse(c, ac.log, err, "Failed to fetch user!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

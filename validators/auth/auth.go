package authValidator

import (
	"edhub/services"
	"edhub/validators"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor"`
	Avatar   string `json:"avatar" validate:"omitempty,url"`
	Bio      string `json:"bio" validate:"max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup validates the registration body
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(signupRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("registerInput", services.RegisterInput{
			Name:     reqData.Name,
			Email:    reqData.Email,
			Password: reqData.Password,
			Role:     reqData.Role,
			Avatar:   reqData.Avatar,
			Bio:      reqData.Bio,
		})
		return c.Next()
	}
}

// Login validates the credentials body
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("loginRequest", reqData)
		return c.Next()
	}
}

package courseValidator

import (
	"edhub/middleware"
	"edhub/validators"

	"github.com/gofiber/fiber/v2"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewListRequest struct {
	Page  int `query:"page" validate:"gte=0,lte=10000"`
	Limit int `query:"limit" validate:"gte=0"`
}

// ValidateReview validates a course review body
func ValidateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// ValidateReviewList validates the review paging query
func ValidateReviewList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewListRequest)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := validators.Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals("validatedReviewList", reqData)
		return c.Next()
	}
}

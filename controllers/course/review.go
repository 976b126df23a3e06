package courseController

import (
	"edhub/controllers"
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"
	courseValidator "edhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

type ReviewController struct {
	log     *logger.Logger
	reviews services.ReviewService
}

func NewReviewController(log *logger.Logger, reviews services.ReviewService) *ReviewController {
	return &ReviewController{log: log.With("controller", "ReviewController"), reviews: reviews}
}

func (rc *ReviewController) CreateReview(c *fiber.Ctx) error {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		return controllers.Unauthorized(c)
	}
	courseID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReview").(*courseValidator.ReviewRequest)

	review, created, err := rc.reviews.Submit(c.UserContext(), userID, courseID, reqData.Rating, reqData.Comment)
	if err != nil {
		return controllers.ErrorResponse(c, rc.log, err, "Failed to save review!")
	}
	if created {
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review created successfully", review)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully", review)
}

func (rc *ReviewController) GetReviews(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)
	reqData := c.Locals("validatedReviewList").(*courseValidator.ReviewListRequest)

	page, err := rc.reviews.List(c.UserContext(), courseID, reqData.Page, reqData.Limit)
	if err != nil {
		return controllers.ErrorResponse(c, rc.log, err, "Failed to fetch reviews!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews list fetched successfully", page)
}

package controllers

import (
	"edhub/logger"
	"edhub/middleware"
	"edhub/services"
	"errors"

	"github.com/gofiber/fiber/v2"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrCourseNotFound, fiber.StatusNotFound},
	{services.ErrProgressNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrLessonNotFound, fiber.StatusNotFound},
	{services.ErrAlreadyEnrolled, fiber.StatusConflict},
	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrNotEnrolled, fiber.StatusForbidden},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrNotCodingLesson, fiber.StatusBadRequest},
	{services.ErrNotQuizLesson, fiber.StatusBadRequest},
	{services.ErrUnsupportedLanguage, fiber.StatusBadRequest},
	{services.ErrRunnerUnavailable, fiber.StatusServiceUnavailable},
	{services.ErrRunnerFailed, fiber.StatusBadGateway},
}

// ErrorResponse maps a service error to its status code. Unknown errors are logged and
// answered with a generic message.
func ErrorResponse(c *fiber.Ctx, log *logger.Logger, err error, fallback string) error {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return middleware.JsonResponse(c, e.status, false, e.err.Error(), nil)
		}
	}
	log.Error(fallback, "method", c.Method(), "path", c.Path(), "error", err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
}

// Unauthorized is returned by handlers reached without an authenticated caller
func Unauthorized(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// statusOf returns the status the error handler will send for err, or the
// status already written when err is nil.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return fiber.StatusInternalServerError
}

package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/domain"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(c *fiber.Ctx, status int, body ErrorBody) error {
	return c.Status(status).JSON(errorResponse{Error: body})
}

// ErrorHandler maps AppErrors onto their status code. Client errors carry the
// wrapped cause as detail; server errors are logged and never expose it.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return writeError(c, fiberErr.Code, ErrorBody{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
			})
		}

		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			body := ErrorBody{Code: appErr.Code, Message: appErr.Message}

			if appErr.StatusCode >= 500 {
				logger.Error("internal error",
					slog.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
					slog.String("code", appErr.Code),
					slog.String("path", c.Path()),
					slog.Any("error", err),
				)
			} else if appErr.Err != nil {
				body.Detail = appErr.Err.Error()
			}

			return writeError(c, appErr.StatusCode, body)
		}

		logger.Error("unhandled error",
			slog.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
			slog.Any("error", err),
			slog.String("path", c.Path()),
		)

		return writeError(c, fiber.StatusInternalServerError, ErrorBody{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
		})
	}
}

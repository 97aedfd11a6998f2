package serverutils

import (
	"errors"

	"support-chat-be/internal/pkg/apperror"
	"support-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the domain error taxonomy onto HTTP status
// codes. AppError messages are surfaced to the caller verbatim; anything
// else is a 500 with a generic body.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := fiber.StatusInternalServerError
			switch appErr.Code {
			case apperror.CodeUnauthorized:
				status = fiber.StatusUnauthorized
			case apperror.CodeNotFound:
				status = fiber.StatusNotFound
			case apperror.CodeBadRequest:
				status = fiber.StatusBadRequest
			}
			return ctx.Status(status).JSON(ErrorResponse{
				Success: false,
				Code:    string(appErr.Code),
				Message: appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse{
				Success: false,
				Message: fiberErr.Message,
			})
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Success: false,
			Message: "internal server error",
		})
	}
}

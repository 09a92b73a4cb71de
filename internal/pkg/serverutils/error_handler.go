package serverutils

import (
	"errors"

	"context-engine-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware maps the service error taxonomy onto HTTP status
// codes. Management surfaces see precise failures; the turn route never
// returns an error in the first place.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return ctx.Status(statusForCode(appErr.Code)).JSON(ErrorResponse(appErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}

func statusForCode(code apperror.Code) int {
	switch code {
	case apperror.CodeNotFound:
		return fiber.StatusNotFound
	case apperror.CodeInvalidInput:
		return fiber.StatusBadRequest
	case apperror.CodeConflict:
		return fiber.StatusConflict
	case apperror.CodeUnavailable:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

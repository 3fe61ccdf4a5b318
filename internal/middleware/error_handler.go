package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"userapi/internal/apperrors"
	"userapi/pkg/logger"
	"userapi/pkg/response"
)

// ErrorHandler returns the single boundary that converts every error escaping
// a handler into the error envelope. Handlers and services never format HTTP
// error responses themselves. Outside development mode, unclassified errors
// are reduced to a generic message.
func ErrorHandler(development bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return response.Error(c, appErr.Status, appErr.Message, appErr.Fields)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return response.Error(c, fiberErr.Code, fiberErr.Message, nil)
		}

		log := logger.Get()
		log.Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")

		message := "Internal Server Error"
		if development {
			message = err.Error()
		}
		return response.Error(c, fiber.StatusInternalServerError, message, nil)
	}
}

// NotFoundHandler terminates the chain for requests that matched no route.
func NotFoundHandler(c *fiber.Ctx) error {
	return response.Error(c, fiber.StatusNotFound, "Resource not found", nil)
}

package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
)

// ErrorHandler renders every error returned by a handler as
// {"success": false, "error": msg} with a status derived from its kind.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, msg := classify(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   msg,
		})
	}
}

func classify(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return fiber.StatusNotFound, apperr.Message(err)
	case apperr.KindInvalidArgument:
		return fiber.StatusBadRequest, apperr.Message(err)
	case apperr.KindInvalidState:
		return fiber.StatusConflict, apperr.Message(err)
	case apperr.KindUnavailable:
		return fiber.StatusServiceUnavailable, apperr.Message(err)
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

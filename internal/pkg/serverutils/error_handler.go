package serverutils

import (
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden, apperror.KindQuotaExceeded, apperror.KindFeatureGated:
		return fiber.StatusForbidden
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindTranscription:
		return fiber.StatusUnprocessableEntity
	case apperror.KindRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts application errors into JSON error
// responses. Production mode hides internal detail; development mode
// includes the wrapped cause for unexpected errors.
func ErrorHandlerMiddleware(log logger.ILogger, isProd bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		if appErr, ok := apperror.As(err); ok {
			status := statusFor(appErr.Kind)

			if status >= fiber.StatusInternalServerError {
				log.Error("HTTP", "request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"error": err.Error(),
				})
			}

			body := &ErrorBody{Message: appErr.Message, Field: appErr.Field}
			if appErr.Kind == apperror.KindQuotaExceeded {
				remaining := appErr.Remaining
				body.Remaining = &remaining
			}
			if !isProd && appErr.Err != nil && status >= fiber.StatusInternalServerError {
				body.Detail = appErr.Err.Error()
			}

			return ctx.Status(status).JSON(BaseResponse[*ErrorBody]{
				Success: false,
				Message: appErr.Message,
				Data:    body,
			})
		}

		if fiberErr, ok := err.(*fiber.Error); ok {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		log.Error("HTTP", "unexpected error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})

		message := "internal server error"
		if !isProd {
			message = err.Error()
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(message))
	}
}

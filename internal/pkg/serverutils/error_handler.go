package serverutils

import (
	"errors"

	"gymflow-be/internal/pkg/apierr"
	"gymflow-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders every error returned by a handler as a
// BaseResponse. Unknown errors become a 500 without leaking their text.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		if e, ok := apierr.As(err); ok {
			status := e.Status
			if status == 0 {
				status = fiber.StatusInternalServerError
			}
			if status >= fiber.StatusInternalServerError {
				log.Error("HTTP", "Request failed", map[string]interface{}{
					"path":  ctx.Path(),
					"code":  e.Code,
					"error": e.Error(),
				})
			}
			return ctx.Status(status).JSON(ErrorResponse(e.Code, e.Error()))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse("", fe.Message))
		}

		log.Error("HTTP", "Unhandled error", map[string]interface{}{
			"path":  ctx.Path(),
			"error": err.Error(),
		})
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(apierr.CodeInternal, "Internal server error"))
	}
}

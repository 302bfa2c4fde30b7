package handlers

import (
	"errors"

	"productapi/internal/apperror"
	"productapi/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message"`
	Details []apperror.FieldError `json:"details,omitempty"`
}

// ErrorHandler renders any error returned by a handler or middleware.
// Internal error details are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Kind == apperror.KindInternal {
			logInternal(c, err)
		}
		return c.Status(appErr.Status()).JSON(ErrorResponse{
			Error:   appErr.Title(),
			Message: appErr.Message,
			Details: appErr.Fields,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error:   utils.StatusMessage(fiberErr.Code),
			Message: fiberErr.Message,
		})
	}

	logInternal(c, err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   utils.StatusMessage(fiber.StatusInternalServerError),
		Message: apperror.InternalErrorMessage,
	})
}

func logInternal(c *fiber.Ctx, err error) {
	logger.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("request failed")
}

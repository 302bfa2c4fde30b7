package middleware

import (
	"strings"

	"productapi/internal/apperror"
	"productapi/internal/services"
	"productapi/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// BearerRequired rejects requests whose Authorization header is missing or
// does not start with "Bearer ". The handler chain is not entered on failure.
func BearerRequired(verifier services.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Authorization header is required")
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return apperror.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		if err := verifier.VerifyToken(strings.TrimPrefix(authHeader, bearerPrefix)); err != nil {
			logger.Debug().Err(err).Str("path", c.Path()).Msg("bearer token rejected")
			return apperror.Unauthorized("Invalid or expired token")
		}

		return c.Next()
	}
}

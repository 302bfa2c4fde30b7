package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"productapi/internal/apperror"
	"productapi/internal/middleware"
	"productapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyToken(string) error { return errors.New("bad token") }

func newTestApp(verifier services.TokenVerifier, reached *bool) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := apperror.As(err); ok {
				return c.Status(appErr.Status()).SendString(appErr.Message)
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
	app.Post("/protected", middleware.BearerRequired(verifier), func(c *fiber.Ctx) error {
		*reached = true
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestBearerRequired(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		verifier services.TokenVerifier
		status   int
	}{
		{"missing header", "", services.PrefixVerifier{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", services.PrefixVerifier{}, http.StatusUnauthorized},
		{"lowercase scheme", "bearer abc", services.PrefixVerifier{}, http.StatusUnauthorized},
		{"no space", "Bearerabc", services.PrefixVerifier{}, http.StatusUnauthorized},
		{"any bearer token", "Bearer anything", services.PrefixVerifier{}, http.StatusNoContent},
		{"verifier rejects", "Bearer anything", rejectingVerifier{}, http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			app := newTestApp(tc.verifier, &reached)

			req := httptest.NewRequest(http.MethodPost, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			assert.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.status == http.StatusNoContent, reached)
		})
	}
}

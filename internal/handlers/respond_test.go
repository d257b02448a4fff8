package handlers

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/workhive/workhive-backend/internal/services"
)

func TestServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", services.ErrNotFound, fiber.StatusNotFound},
		{"forbidden", services.ErrForbidden, fiber.StatusForbidden},
		{"not member", services.ErrNotMember, fiber.StatusForbidden},
		{"invalid credentials", services.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"invalid token", services.ErrInvalidToken, fiber.StatusUnauthorized},
		{"email taken", services.ErrEmailTaken, fiber.StatusConflict},
		{"already member", services.ErrAlreadyMember, fiber.StatusConflict},
		{"invalid transition", services.ErrInvalidTransition, fiber.StatusBadRequest},
		{"owner protected", services.ErrOwnerProtected, fiber.StatusBadRequest},
		{"self deactivation", services.ErrSelfDeactivation, fiber.StatusBadRequest},
		{"file too large", services.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
		{"unsupported type", services.ErrUnsupportedType, fiber.StatusUnsupportedMediaType},
		{"unknown", errors.New("database exploded"), fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return serviceError(c, tc.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
		})
	}
}

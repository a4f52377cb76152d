// Package handlers is the HTTP surface. Handlers parse the request, call
// into the rule layer and render the uniform result envelope.
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/domain"
)

// statusFor maps the stable result codes onto HTTP statuses.
func statusFor(res domain.Result) int {
	if res.Success {
		return fiber.StatusOK
	}
	switch res.Code {
	case domain.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case domain.CodeForbidden:
		return fiber.StatusForbidden
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeDuplicate:
		return fiber.StatusConflict
	case domain.CodeInvalidStatus, domain.CodeValidation:
		return fiber.StatusUnprocessableEntity
	case domain.CodeRateLimited:
		return fiber.StatusTooManyRequests
	}
	return fiber.StatusInternalServerError
}

func respond(c *fiber.Ctx, res domain.Result) error {
	return c.Status(statusFor(res)).JSON(res)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "invalid body",
	})
}

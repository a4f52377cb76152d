package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
	"github.com/workhive-id/workhive_be/internal/utils"
)

// AttachPrincipal resolves the claims to a user record and parks it under
// "principal". Must run after JWTFromCookie.
func AttachPrincipal(users store.UserStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Locals("claims")
		if raw == nil {
			return fiber.ErrUnauthorized
		}
		claims, ok := raw.(*utils.Claims)
		if !ok {
			return fiber.ErrUnauthorized
		}

		uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
		if err != nil {
			return fiber.ErrUnauthorized
		}

		u, err := users.GetUser(c.UserContext(), uid)
		if err != nil {
			return fiber.ErrUnauthorized
		}
		if !u.IsActive {
			return fiber.NewError(fiber.StatusForbidden, "account disabled")
		}

		c.Locals("userId", uid.String())
		c.Locals("role", string(u.Role))
		c.Locals("principal", u)
		return c.Next()
	}
}

// Principal returns the resolved user, or nil on public routes.
func Principal(c *fiber.Ctx) *models.User {
	if u, ok := c.Locals("principal").(*models.User); ok {
		return u
	}
	return nil
}

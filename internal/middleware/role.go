package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/models"
)

// RequireRoles gates a route group to the listed roles. Must run after
// AttachPrincipal.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := make(map[models.Role]bool, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		u := Principal(c)
		if u == nil {
			return fiber.ErrUnauthorized
		}
		if !allowedSet[u.Role] {
			return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
		}
		return c.Next()
	}
}

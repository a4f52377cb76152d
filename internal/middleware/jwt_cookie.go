package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/utils"
)

// CookieName holds the session token on the SPA's domain.
const CookieName = "wh_token"

// JWTFromCookie rejects requests without a valid session cookie and parks
// the parsed claims in locals for the rest of the chain.
func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(CookieName)
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseJWT(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

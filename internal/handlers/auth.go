package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/identity"
	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/session"
	"github.com/workhive-id/workhive_be/internal/utils"
)

type AuthHandler struct {
	Tracker   *session.Tracker
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // client / freelancer, admin never from public
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

func (h *AuthHandler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   -1,
	})
}

func (h *AuthHandler) issueToken(c *fiber.Ctx, u *models.User) error {
	token, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.Expires)
	if err != nil {
		return err
	}
	h.setSessionCookie(c, token)
	return nil
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if !strings.Contains(req.Email, "@") {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"message": "Invalid email address",
		})
	}

	res := h.Tracker.Register(c.UserContext(), identity.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(strings.ToLower(strings.TrimSpace(req.Role))),
	})
	if !res.Success {
		return respond(c, res)
	}

	u, _ := res.Data.(*models.User)
	if u != nil {
		if err := h.issueToken(c, u); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create token",
			})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	res := h.Tracker.Login(c.UserContext(), req.Email, req.Password)
	if !res.Success {
		return respond(c, res)
	}

	u, _ := res.Data.(*models.User)
	if u != nil {
		if err := h.issueToken(c, u); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create token",
			})
		}
	}
	return respond(c, res)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	res := h.Tracker.Logout(c.UserContext())
	h.clearSessionCookie(c)
	return respond(c, res)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	return respond(c, h.Tracker.ResetPassword(c.UserContext(), req.Email))
}

// Me reports the authenticated user; runs behind the JWT middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/guards"
	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/store"
)

// GuardHandler lets the SPA ask whether a navigation is allowed before it
// happens. The principal comes from the request, wrapped in a resolved
// session so every decision runs through the same bounded-wait guards.
type GuardHandler struct {
	Profiles store.ProfileStore
	Projects guards.ProjectLookup
}

func (h *GuardHandler) guardsFor(c *fiber.Ctx) *guards.Guards {
	return guards.New(guards.Resolved(middleware.Principal(c)), h.Profiles, h.Projects)
}

func decisionJSON(c *fiber.Ctx, d guards.Decision) error {
	if d.Allowed {
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"allowed": true}})
	}
	return c.JSON(fiber.Map{"success": false, "redirect": d.Redirect})
}

// Check resolves the named guard. Unknown guard names deny to the login
// page; every decision is total.
func (h *GuardHandler) Check(c *fiber.Ctx) error {
	g := h.guardsFor(c)
	ctx := c.UserContext()

	switch c.Params("name") {
	case "auth":
		return decisionJSON(c, g.Auth(ctx))
	case "guest":
		return decisionJSON(c, g.Guest(ctx))
	case "client":
		return decisionJSON(c, g.Role(ctx, models.RoleClient))
	case "freelancer":
		return decisionJSON(c, g.Role(ctx, models.RoleFreelancer))
	case "admin":
		return decisionJSON(c, g.Admin(ctx))
	case "profile-setup":
		return decisionJSON(c, g.ProfileSetup(ctx))
	case "project-owner":
		return decisionJSON(c, g.ProjectOwner(ctx, c.Query("project_id")))
	}
	return decisionJSON(c, guards.RedirectTo(guards.PathLogin))
}

// Home returns the role-specific landing page for the signed-in user.
func (h *GuardHandler) Home(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	if p == nil {
		return c.JSON(fiber.Map{"success": false, "redirect": guards.PathLogin})
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"home": guards.RoleHome(p.Role)}})
}

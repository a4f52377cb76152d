package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/repository"
)

type ProfileHandler struct {
	Repo *repository.ProfileRepo
}

func NewProfileHandler(repo *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Repo: repo}
}

func (h *ProfileHandler) CreateClient(c *fiber.Ctx) error {
	var p models.ClientProfile
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	return respond(c, h.Repo.CreateClient(c.UserContext(), middleware.Principal(c), &p))
}

func (h *ProfileHandler) CreateFreelancer(c *fiber.Ctx) error {
	var p models.FreelancerProfile
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	return respond(c, h.Repo.CreateFreelancer(c.UserContext(), middleware.Principal(c), &p))
}

func (h *ProfileHandler) GetClient(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.GetClient(c.UserContext(), userID))
}

func (h *ProfileHandler) GetFreelancer(c *fiber.Ctx) error {
	userID, ok := paramUUID(c, "userId")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.GetFreelancer(c.UserContext(), userID))
}

func (h *ProfileHandler) UpdateClient(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	var p models.ClientProfile
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	return respond(c, h.Repo.UpdateClient(c.UserContext(), u, u.ID, &p))
}

func (h *ProfileHandler) UpdateFreelancer(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	var p models.FreelancerProfile
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	return respond(c, h.Repo.UpdateFreelancer(c.UserContext(), u, u.ID, &p))
}

// Completion backs the profile-setup flow in the SPA.
func (h *ProfileHandler) Completion(c *fiber.Ctx) error {
	return respond(c, h.Repo.Completion(c.UserContext(), middleware.Principal(c)))
}

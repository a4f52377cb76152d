package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/repository"
)

type ProjectHandler struct {
	Repo *repository.ProjectRepo
}

func NewProjectHandler(repo *repository.ProjectRepo) *ProjectHandler {
	return &ProjectHandler{Repo: repo}
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "invalid id",
	})
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var p models.Project
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	res := h.Repo.Create(c.UserContext(), middleware.Principal(c), &p)
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return respond(c, res)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.GetByID(c.UserContext(), middleware.Principal(c), id))
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var p models.Project
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	return respond(c, h.Repo.Update(c.UserContext(), middleware.Principal(c), id, &p))
}

func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.Delete(c.UserContext(), middleware.Principal(c), id))
}

func (h *ProjectHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return badBody(c)
	}
	next := models.ProjectStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	return respond(c, h.Repo.UpdateStatus(c.UserContext(), middleware.Principal(c), id, next))
}

// Mine lists the acting client's own projects, drafts included.
func (h *ProjectHandler) Mine(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	return respond(c, h.Repo.ByClient(c.UserContext(), u.ID))
}

func (h *ProjectHandler) ListPublished(c *fiber.Ctx) error {
	if raw := c.Query("skills"); raw != "" {
		skills := strings.Split(raw, ",")
		for i := range skills {
			skills[i] = strings.TrimSpace(skills[i])
		}
		return respond(c, h.Repo.BySkills(c.UserContext(), skills))
	}
	return respond(c, h.Repo.Published(c.UserContext()))
}

func (h *ProjectHandler) ListFeatured(c *fiber.Ctx) error {
	return respond(c, h.Repo.Featured(c.UserContext()))
}

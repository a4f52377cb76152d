package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/repository"
)

type ProposalHandler struct {
	Repo *repository.ProposalRepo
}

func NewProposalHandler(repo *repository.ProposalRepo) *ProposalHandler {
	return &ProposalHandler{Repo: repo}
}

func (h *ProposalHandler) Submit(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var p models.Proposal
	if err := c.BodyParser(&p); err != nil {
		return badBody(c)
	}
	p.ProjectID = projectID
	res := h.Repo.Submit(c.UserContext(), middleware.Principal(c), &p)
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return respond(c, res)
}

func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.GetByID(c.UserContext(), middleware.Principal(c), id))
}

func (h *ProposalHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Status   string `json:"status"`
		Feedback string `json:"feedback"`
	}
	if err := c.BodyParser(&req); err != nil || req.Status == "" {
		return badBody(c)
	}
	next := models.ProposalStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	return respond(c, h.Repo.UpdateStatus(c.UserContext(), middleware.Principal(c), id, next, req.Feedback))
}

// ByProject lists proposals on the client's project.
func (h *ProposalHandler) ByProject(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.ByProject(c.UserContext(), middleware.Principal(c), projectID))
}

// Mine lists the acting freelancer's proposals.
func (h *ProposalHandler) Mine(c *fiber.Ctx) error {
	return respond(c, h.Repo.ByFreelancer(c.UserContext(), middleware.Principal(c)))
}

func (h *ProposalHandler) Stats(c *fiber.Ctx) error {
	return respond(c, h.Repo.Stats(c.UserContext(), middleware.Principal(c)))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/repository"
)

type ReviewHandler struct {
	Repo *repository.ReviewRepo
}

func NewReviewHandler(repo *repository.ReviewRepo) *ReviewHandler {
	return &ReviewHandler{Repo: repo}
}

func (h *ReviewHandler) Submit(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	res := h.Repo.Submit(c.UserContext(), middleware.Principal(c), projectID, req.Rating, req.Comment)
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return respond(c, res)
}

func (h *ReviewHandler) ByFreelancer(c *fiber.Ctx) error {
	freelancerID, ok := paramUUID(c, "userId")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.ByFreelancer(c.UserContext(), freelancerID))
}

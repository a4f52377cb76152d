package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/workhive-id/workhive_be/internal/middleware"
	"github.com/workhive-id/workhive_be/internal/models"
	"github.com/workhive-id/workhive_be/internal/repository"
)

type FileHandler struct {
	Repo *repository.FileRepo
}

func NewFileHandler(repo *repository.FileRepo) *FileHandler {
	return &FileHandler{Repo: repo}
}

func optionalUUID(c *fiber.Ctx, field string) *uuid.UUID {
	raw := c.FormValue(field)
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func contentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}

// Upload accepts a multipart form with "file" and "category" fields plus
// optional project/proposal/message associations.
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "file is required",
		})
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to read upload",
		})
	}
	defer f.Close()

	res := h.Repo.Upload(c.UserContext(), middleware.Principal(c), repository.UploadInput{
		Name:       fh.Filename,
		Size:       fh.Size,
		MimeType:   contentType(fh),
		Category:   models.FileCategory(c.FormValue("category")),
		Body:       f,
		ProjectID:  optionalUUID(c, "project_id"),
		ProposalID: optionalUUID(c, "proposal_id"),
		MessageID:  optionalUUID(c, "message_id"),
	})
	if res.Success {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return respond(c, res)
}

func (h *FileHandler) Get(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.GetByID(c.UserContext(), middleware.Principal(c), id))
}

func (h *FileHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.Delete(c.UserContext(), middleware.Principal(c), id))
}

// Mine lists the acting user's own uploads.
func (h *FileHandler) Mine(c *fiber.Ctx) error {
	u := middleware.Principal(c)
	if u == nil {
		return fiber.ErrUnauthorized
	}
	return respond(c, h.Repo.ByOwner(c.UserContext(), u, u.ID))
}

func (h *FileHandler) ByProject(c *fiber.Ctx) error {
	projectID, ok := paramUUID(c, "id")
	if !ok {
		return invalidID(c)
	}
	return respond(c, h.Repo.ByProject(c.UserContext(), middleware.Principal(c), projectID))
}

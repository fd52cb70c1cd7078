package web

import (
	"errors"
	"time"

	"labdesk/internal/announcement"
	"labdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ListAnnouncements returns the active view: not deleted, not expired.
// Expired announcements remain reachable through /api/export.
func (h *Handler) ListAnnouncements(c *fiber.Ctx) error {
	return c.JSON(h.Announcements.Active(c.Context()))
}

func (h *Handler) GetAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid announcement id")
	}

	a, err := h.Announcements.Announcement(c.Context(), id)
	if err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Announcement not found")
		}
		h.Logger.Error("Failed to fetch announcement", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch announcement")
	}

	return c.JSON(a)
}

type createAnnouncementRequest struct {
	Title     string     `json:"title" validate:"required"`
	Body      string     `json:"body" validate:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h *Handler) CreateAnnouncement(c *fiber.Ctx) error {
	var req createAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid announcement data", err)
	}

	a, err := h.Announcements.Create(c.Context(), announcement.CreateParams{
		Title:     req.Title,
		Body:      req.Body,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.Logger.Error("Failed to create announcement", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create announcement")
	}

	return c.Status(fiber.StatusCreated).JSON(a)
}

type updateAnnouncementRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=1"`
	Body      *string    `json:"body" validate:"omitempty,min=1"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (h *Handler) UpdateAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid announcement id")
	}

	var req updateAnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid announcement data", err)
	}

	params := announcement.UpdateParams{}
	if req.Title != nil {
		params.Title = util.Some(*req.Title)
	}
	if req.Body != nil {
		params.Body = util.Some(*req.Body)
	}
	if req.ExpiresAt != nil {
		params.ExpiresAt = util.Some(req.ExpiresAt)
	}

	a, err := h.Announcements.Update(c.Context(), id, params)
	if err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Announcement not found")
		}
		h.Logger.Error("Failed to update announcement", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update announcement")
	}

	return c.JSON(a)
}

func (h *Handler) DeleteAnnouncement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid announcement id")
	}

	if err := h.Announcements.Delete(c.Context(), id); err != nil {
		if errors.Is(err, announcement.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Announcement not found")
		}
		h.Logger.Error("Failed to delete announcement", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete announcement")
	}

	return messageResponse(c, "Announcement deleted successfully")
}

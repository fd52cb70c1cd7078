package web

import (
	"errors"

	"labdesk/internal/rotation"
	"labdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListRotation(c *fiber.Ctx) error {
	return c.JSON(h.Rotation.Entries(c.Context()))
}

func (h *Handler) GetRotationQueue(c *fiber.Ctx) error {
	return c.JSON(h.Rotation.Queue(c.Context()))
}

type reorderRotationRequest struct {
	RotationIDs []string `json:"rotationIds" validate:"required,min=1,dive,uuid"`
}

func (h *Handler) ReorderRotation(c *fiber.Ctx) error {
	var req reorderRotationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "rotationIds must be a list of rotation entry ids", err)
	}

	ids := make([]uuid.UUID, 0, len(req.RotationIDs))
	for _, raw := range req.RotationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid rotation entry id")
		}
		ids = append(ids, id)
	}

	entries, err := h.Rotation.Reorder(c.Context(), ids)
	if err != nil {
		if errors.Is(err, rotation.ErrInvalidOrder) {
			return errorResponse(c, fiber.StatusBadRequest, err.Error())
		}
		h.Logger.Error("Failed to reorder rotation", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to reorder rotation")
	}

	return c.JSON(entries)
}

type updateRotationRequest struct {
	Active *bool `json:"active"`
}

func (h *Handler) UpdateRotation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid rotation entry id")
	}

	var req updateRotationRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	params := rotation.UpdateParams{}
	if req.Active != nil {
		params.Active = util.Some(*req.Active)
	}

	entry, err := h.Rotation.Update(c.Context(), id, params)
	if err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Rotation entry not found")
		}
		h.Logger.Error("Failed to update rotation entry", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update rotation entry")
	}

	return c.JSON(entry)
}

func (h *Handler) MarkPresented(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid rotation entry id")
	}

	entry, err := h.Rotation.MarkPresented(c.Context(), id)
	if err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Rotation entry not found")
		}
		h.Logger.Error("Failed to mark rotation entry as presented", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to update rotation entry")
	}

	return c.JSON(entry)
}

func (h *Handler) DeleteRotation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid rotation entry id")
	}

	if err := h.Rotation.Remove(c.Context(), id); err != nil {
		if errors.Is(err, rotation.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Rotation entry not found")
		}
		h.Logger.Error("Failed to delete rotation entry", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete rotation entry")
	}

	return messageResponse(c, "Rotation entry deleted successfully")
}

package web

import (
	"errors"
	"time"

	"labdesk/internal/member"
	"labdesk/internal/model"
	"labdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListMembers(c *fiber.Ctx) error {
	return c.JSON(h.Members.Members(c.Context()))
}

func (h *Handler) GetMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid member id")
	}

	m, err := h.Members.Member(c.Context(), id)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found")
		}
		h.Logger.Error("Failed to fetch member", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch member")
	}

	return c.JSON(m)
}

type createMemberRequest struct {
	Name                 string     `json:"name" validate:"required"`
	Email                string     `json:"email" validate:"required,email"`
	Role                 string     `json:"role" validate:"omitempty,oneof=Admin NonAdmin"`
	StudentStatus        string     `json:"studentStatus" validate:"required,oneof=PhD MTech BTech Intern"`
	IsActive             *bool      `json:"isActive"`
	InternExpirationDate *time.Time `json:"internExpirationDate"`
}

func (h *Handler) CreateMember(c *fiber.Ctx) error {
	var req createMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid member data", err)
	}

	role := model.Role(req.Role)
	if role == "" {
		role = model.RoleNonAdmin
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	m, err := h.Members.Create(c.Context(), member.CreateParams{
		Name:                 req.Name,
		Email:                req.Email,
		Role:                 role,
		StudentStatus:        model.StudentStatus(req.StudentStatus),
		IsActive:             isActive,
		InternExpirationDate: req.InternExpirationDate,
	})
	if err != nil {
		if errors.Is(err, member.ErrEmailExists) {
			return errorResponse(c, fiber.StatusConflict, "Email already exists")
		}
		h.Logger.Error("Failed to create member", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to create member")
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

type updateMemberRequest struct {
	Name                 *string    `json:"name" validate:"omitempty,min=1"`
	Email                *string    `json:"email" validate:"omitempty,email"`
	Role                 *string    `json:"role" validate:"omitempty,oneof=Admin NonAdmin"`
	StudentStatus        *string    `json:"studentStatus" validate:"omitempty,oneof=PhD MTech BTech Intern"`
	IsActive             *bool      `json:"isActive"`
	InternExpirationDate *time.Time `json:"internExpirationDate"`
}

func (h *Handler) UpdateMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid member id")
	}

	var req updateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid member data", err)
	}

	params := member.UpdateParams{}
	if req.Name != nil {
		params.Name = util.Some(*req.Name)
	}
	if req.Email != nil {
		params.Email = util.Some(*req.Email)
	}
	if req.Role != nil {
		params.Role = util.Some(model.Role(*req.Role))
	}
	if req.StudentStatus != nil {
		params.StudentStatus = util.Some(model.StudentStatus(*req.StudentStatus))
	}
	if req.IsActive != nil {
		params.IsActive = util.Some(*req.IsActive)
	}
	if req.InternExpirationDate != nil {
		params.InternExpirationDate = util.Some(req.InternExpirationDate)
	}

	m, err := h.Members.Update(c.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, member.ErrNotFound):
			return errorResponse(c, fiber.StatusNotFound, "Member not found")
		case errors.Is(err, member.ErrEmailExists):
			return errorResponse(c, fiber.StatusConflict, "Email already exists")
		default:
			h.Logger.Error("Failed to update member", "id", id, "error", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to update member")
		}
	}

	return c.JSON(m)
}

func (h *Handler) DeleteMember(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid member id")
	}

	if err := h.Members.Delete(c.Context(), id); err != nil {
		if errors.Is(err, member.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Member not found")
		}
		h.Logger.Error("Failed to delete member", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete member")
	}

	return messageResponse(c, "Member deleted successfully")
}

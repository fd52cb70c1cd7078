package web

import (
	"errors"

	"labdesk/internal/meeting"
	"labdesk/internal/model"
	"labdesk/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func (h *Handler) ListMeetings(c *fiber.Ctx) error {
	return c.JSON(h.Meetings.Meetings(c.Context()))
}

func (h *Handler) GetMeeting(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid meeting id")
	}

	m, err := h.Meetings.Meeting(c.Context(), id)
	if err != nil {
		if errors.Is(err, meeting.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Meeting not found")
		}
		h.Logger.Error("Failed to fetch meeting", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch meeting")
	}

	return c.JSON(m)
}

type createMeetingRequest struct {
	Title       string `json:"title" validate:"required"`
	PresenterID string `json:"presenterId" validate:"required,uuid"`
	Type        string `json:"type" validate:"required,oneof=PaperPresentation WorkPresentation Tutorial"`
	Date        string `json:"date" validate:"required,calendar_date"`
	StartTime   string `json:"startTime" validate:"required,clock_time"`
	EndTime     string `json:"endTime" validate:"required,clock_time"`
	Description string `json:"description"`
}

func (h *Handler) CreateMeeting(c *fiber.Ctx) error {
	var req createMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid meeting data", err)
	}

	presenterID, err := uuid.Parse(req.PresenterID)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid presenter id")
	}

	m, err := h.Meetings.Create(c.Context(), meeting.CreateParams{
		Title:       req.Title,
		PresenterID: presenterID,
		Type:        model.MeetingType(req.Type),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, meeting.ErrScheduleConflict):
			return errorResponse(c, fiber.StatusConflict, "Presenter has a conflicting meeting at this time")
		case errors.Is(err, meeting.ErrInvalidTimeRange):
			return errorResponse(c, fiber.StatusBadRequest, "endTime must be after startTime")
		default:
			h.Logger.Error("Failed to create meeting", "error", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to create meeting")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(m)
}

type updateMeetingRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	PresenterID *string `json:"presenterId" validate:"omitempty,uuid"`
	Type        *string `json:"type" validate:"omitempty,oneof=PaperPresentation WorkPresentation Tutorial"`
	Date        *string `json:"date" validate:"omitempty,calendar_date"`
	StartTime   *string `json:"startTime" validate:"omitempty,clock_time"`
	EndTime     *string `json:"endTime" validate:"omitempty,clock_time"`
	Description *string `json:"description"`
}

func (h *Handler) UpdateMeeting(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid meeting id")
	}

	var req updateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.Validator.Validate(req); err != nil {
		return validationErrorResponse(c, "Invalid meeting data", err)
	}

	params := meeting.UpdateParams{}
	if req.Title != nil {
		params.Title = util.Some(*req.Title)
	}
	if req.PresenterID != nil {
		presenterID, err := uuid.Parse(*req.PresenterID)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid presenter id")
		}
		params.PresenterID = util.Some(presenterID)
	}
	if req.Type != nil {
		params.Type = util.Some(model.MeetingType(*req.Type))
	}
	if req.Date != nil {
		params.Date = util.Some(*req.Date)
	}
	if req.StartTime != nil {
		params.StartTime = util.Some(*req.StartTime)
	}
	if req.EndTime != nil {
		params.EndTime = util.Some(*req.EndTime)
	}
	if req.Description != nil {
		params.Description = util.Some(*req.Description)
	}

	m, err := h.Meetings.Update(c.Context(), id, params)
	if err != nil {
		switch {
		case errors.Is(err, meeting.ErrNotFound):
			return errorResponse(c, fiber.StatusNotFound, "Meeting not found")
		case errors.Is(err, meeting.ErrScheduleConflict):
			return errorResponse(c, fiber.StatusConflict, "Presenter has a conflicting meeting at this time")
		case errors.Is(err, meeting.ErrInvalidTimeRange):
			return errorResponse(c, fiber.StatusBadRequest, "endTime must be after startTime")
		default:
			h.Logger.Error("Failed to update meeting", "id", id, "error", err)
			return errorResponse(c, fiber.StatusInternalServerError, "Failed to update meeting")
		}
	}

	return c.JSON(m)
}

func (h *Handler) DeleteMeeting(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid meeting id")
	}

	if err := h.Meetings.Delete(c.Context(), id); err != nil {
		if errors.Is(err, meeting.ErrNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Meeting not found")
		}
		h.Logger.Error("Failed to delete meeting", "id", id, "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to delete meeting")
	}

	return messageResponse(c, "Meeting deleted successfully")
}

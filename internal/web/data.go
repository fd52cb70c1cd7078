package web

import (
	"labdesk/internal/model"
	"labdesk/internal/seed"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) ListAuditLogs(c *fiber.Ctx) error {
	return c.JSON(h.Auditor.Logs(c.Context()))
}

// ExportData returns the full snapshot, soft-deleted rows and audit logs
// included, as a downloadable document.
func (h *Handler) ExportData(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=lab-data.json`)
	return c.JSON(h.Store.Export())
}

// ImportData wholesale-replaces every collection from the uploaded snapshot.
func (h *Handler) ImportData(c *fiber.Ctx) error {
	var snapshot model.Snapshot
	if err := c.BodyParser(&snapshot); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid snapshot document")
	}

	h.Store.Import(snapshot)

	return messageResponse(c, "Data imported successfully")
}

func (h *Handler) LoadSeedData(c *fiber.Ctx) error {
	if err := seed.Load(c.Context(), h.Members, h.Meetings, h.Rotation, h.Announcements); err != nil {
		h.Logger.Error("Failed to load seed data", "error", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to load seed data")
	}

	return messageResponse(c, "Seed data loaded successfully")
}

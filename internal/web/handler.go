package web

import (
	"log/slog"

	"labdesk/internal/announcement"
	"labdesk/internal/audit"
	"labdesk/internal/meeting"
	"labdesk/internal/member"
	"labdesk/internal/rotation"
	"labdesk/internal/store"
	"labdesk/internal/validator"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Logger        *slog.Logger
	Validator     *validator.Validator
	Store         *store.Store
	Auditor       *audit.Auditor
	Members       *member.Manager
	Meetings      *meeting.Manager
	Rotation      *rotation.Manager
	Announcements *announcement.Manager
}

func NewHandler(logger *slog.Logger, v *validator.Validator, store *store.Store, auditor *audit.Auditor, members *member.Manager, meetings *meeting.Manager, rotationManager *rotation.Manager, announcements *announcement.Manager) *Handler {
	return &Handler{
		Logger:        logger,
		Validator:     v,
		Store:         store,
		Auditor:       auditor,
		Members:       members,
		Meetings:      meetings,
		Rotation:      rotationManager,
		Announcements: announcements,
	}
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)

	members := api.Group("/members")
	members.Get("", h.ListMembers)
	members.Post("", h.CreateMember)
	members.Get("/:id", h.GetMember)
	members.Patch("/:id", h.UpdateMember)
	members.Delete("/:id", h.DeleteMember)

	meetings := api.Group("/meetings")
	meetings.Get("", h.ListMeetings)
	meetings.Post("", h.CreateMeeting)
	meetings.Get("/:id", h.GetMeeting)
	meetings.Patch("/:id", h.UpdateMeeting)
	meetings.Delete("/:id", h.DeleteMeeting)

	rotation := api.Group("/rotation")
	rotation.Get("", h.ListRotation)
	rotation.Get("/queue", h.GetRotationQueue)
	rotation.Post("/reorder", h.ReorderRotation)
	rotation.Patch("/:id/present", h.MarkPresented)
	rotation.Patch("/:id", h.UpdateRotation)
	rotation.Delete("/:id", h.DeleteRotation)

	announcements := api.Group("/announcements")
	announcements.Get("", h.ListAnnouncements)
	announcements.Post("", h.CreateAnnouncement)
	announcements.Get("/:id", h.GetAnnouncement)
	announcements.Patch("/:id", h.UpdateAnnouncement)
	announcements.Delete("/:id", h.DeleteAnnouncement)

	api.Get("/audit-logs", h.ListAuditLogs)
	api.Get("/export", h.ExportData)
	api.Post("/import", h.ImportData)
	api.Post("/seed", h.LoadSeedData)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

package announcement

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"labdesk/internal/audit"
	"labdesk/internal/model"
	"labdesk/internal/store"
	"labdesk/internal/util"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("announcement not found")

type Manager struct {
	logger  *slog.Logger
	store   *store.Store
	auditor *audit.Auditor
}

func NewManager(logger *slog.Logger, store *store.Store, auditor *audit.Auditor) Manager {
	return Manager{logger: logger, store: store, auditor: auditor}
}

// Announcements returns all non-deleted announcements, expired ones included.
func (m *Manager) Announcements(ctx context.Context) []model.Announcement {
	return m.store.Announcements()
}

// Active returns non-deleted announcements whose expiry, if any, lies in the
// future.
func (m *Manager) Active(ctx context.Context) []model.Announcement {
	now := time.Now()
	active := make([]model.Announcement, 0)
	for _, a := range m.store.Announcements() {
		if !a.Expired(now) {
			active = append(active, a)
		}
	}
	return active
}

func (m *Manager) Announcement(ctx context.Context, id uuid.UUID) (model.Announcement, error) {
	a, ok := m.store.Announcement(id)
	if !ok {
		return model.Announcement{}, ErrNotFound
	}
	return a, nil
}

type CreateParams struct {
	Title     string
	Body      string
	ExpiresAt *time.Time
}

func (m *Manager) Create(ctx context.Context, params CreateParams) (model.Announcement, error) {
	a := model.Announcement{
		ID:        uuid.New(),
		Title:     params.Title,
		Body:      params.Body,
		CreatedAt: time.Now(),
		ExpiresAt: params.ExpiresAt,
	}
	m.store.PutAnnouncement(a)
	m.auditor.Record(ctx, model.AuditActionCreate, model.EntityTypeAnnouncement, a.ID, map[string]any{
		"title": a.Title,
	})

	return a, nil
}

type UpdateParams struct {
	Title     util.Optional[string]
	Body      util.Optional[string]
	ExpiresAt util.Optional[*time.Time]
}

func (m *Manager) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.Announcement, error) {
	a, ok := m.store.Announcement(id)
	if !ok {
		return model.Announcement{}, ErrNotFound
	}

	changes := make(map[string]any)
	if params.Title.IsSet {
		a.Title = params.Title.Val
		changes["title"] = a.Title
	}
	if params.Body.IsSet {
		a.Body = params.Body.Val
		changes["body"] = a.Body
	}
	if params.ExpiresAt.IsSet {
		a.ExpiresAt = params.ExpiresAt.Val
		changes["expiresAt"] = a.ExpiresAt
	}

	m.store.PutAnnouncement(a)
	m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeAnnouncement, id, changes)

	return a, nil
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	a, ok := m.store.Announcement(id)
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	a.DeletedAt = &now
	m.store.PutAnnouncement(a)
	m.auditor.Record(ctx, model.AuditActionDelete, model.EntityTypeAnnouncement, id, map[string]any{
		"title": a.Title,
	})

	return nil
}

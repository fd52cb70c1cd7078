package announcement_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"labdesk/internal/announcement"
	"labdesk/internal/audit"
	"labdesk/internal/model"
	"labdesk/internal/store"
	"labdesk/internal/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*announcement.Manager, *store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, _, err := store.Open(logger, filepath.Join(t.TempDir(), "lab-data.json"))
	require.NoError(t, err)

	auditor := audit.NewAuditor(logger, st)
	announcements := announcement.NewManager(logger, st, &auditor)
	return &announcements, st
}

func TestManager_Active_ExcludesExpired(t *testing.T) {
	announcements, _ := newTestManager(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired, err := announcements.Create(ctx, announcement.CreateParams{
		Title:     "Old News",
		Body:      "Long gone.",
		ExpiresAt: &past,
	})
	require.NoError(t, err)
	current, err := announcements.Create(ctx, announcement.CreateParams{
		Title:     "Fresh",
		Body:      "Still relevant.",
		ExpiresAt: &future,
	})
	require.NoError(t, err)
	evergreen, err := announcements.Create(ctx, announcement.CreateParams{
		Title: "Pinned",
		Body:  "Never expires.",
	})
	require.NoError(t, err)

	active := announcements.Active(ctx)
	require.Len(t, active, 2)
	ids := []uuid.UUID{active[0].ID, active[1].ID}
	assert.Contains(t, ids, current.ID)
	assert.Contains(t, ids, evergreen.ID)

	// Expired announcements remain listable, just not active.
	all := announcements.Announcements(ctx)
	assert.Len(t, all, 3)
	_, err = announcements.Announcement(ctx, expired.ID)
	assert.NoError(t, err)
}

func TestManager_Update_CanClearExpiry(t *testing.T) {
	announcements, _ := newTestManager(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	a, err := announcements.Create(ctx, announcement.CreateParams{
		Title:     "Old News",
		Body:      "Long gone.",
		ExpiresAt: &past,
	})
	require.NoError(t, err)
	require.Empty(t, announcements.Active(ctx))

	updated, err := announcements.Update(ctx, a.ID, announcement.UpdateParams{
		ExpiresAt: util.Some[*time.Time](nil),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ExpiresAt)
	assert.Len(t, announcements.Active(ctx), 1)
}

func TestManager_Delete_SoftDeletes(t *testing.T) {
	announcements, st := newTestManager(t)
	ctx := context.Background()

	a, err := announcements.Create(ctx, announcement.CreateParams{Title: "Bye", Body: "..."})
	require.NoError(t, err)
	require.NoError(t, announcements.Delete(ctx, a.ID))

	assert.Empty(t, announcements.Announcements(ctx))
	_, err = announcements.Announcement(ctx, a.ID)
	assert.ErrorIs(t, err, announcement.ErrNotFound)
	assert.ErrorIs(t, announcements.Delete(ctx, a.ID), announcement.ErrNotFound)

	// Soft-deleted rows survive in the export.
	require.Len(t, st.Export().Announcements, 1)
	assert.NotNil(t, st.Export().Announcements[0].DeletedAt)
}

func TestManager_MutationsAreAudited(t *testing.T) {
	announcements, st := newTestManager(t)
	ctx := context.Background()

	a, err := announcements.Create(ctx, announcement.CreateParams{Title: "Note", Body: "..."})
	require.NoError(t, err)
	_, err = announcements.Update(ctx, a.ID, announcement.UpdateParams{Title: util.Some("Edited")})
	require.NoError(t, err)
	require.NoError(t, announcements.Delete(ctx, a.ID))

	var actions []model.AuditAction
	for _, l := range st.AuditLogs() {
		require.Equal(t, model.EntityTypeAnnouncement, l.EntityType)
		require.Equal(t, a.ID, l.EntityID)
		actions = append(actions, l.Action)
	}
	assert.Equal(t, []model.AuditAction{model.AuditActionDelete, model.AuditActionUpdate, model.AuditActionCreate}, actions)
}

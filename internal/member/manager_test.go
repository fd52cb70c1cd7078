package member_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"labdesk/internal/audit"
	"labdesk/internal/member"
	"labdesk/internal/model"
	"labdesk/internal/rotation"
	"labdesk/internal/store"
	"labdesk/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManagers(t *testing.T) (*member.Manager, *rotation.Manager, *store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, _, err := store.Open(logger, filepath.Join(t.TempDir(), "lab-data.json"))
	require.NoError(t, err)

	auditor := audit.NewAuditor(logger, st)
	rotations := rotation.NewManager(logger, st, &auditor)
	members := member.NewManager(logger, st, &auditor, &rotations)
	return &members, &rotations, st
}

func createMember(t *testing.T, members *member.Manager, name, email string) model.Member {
	t.Helper()

	m, err := members.Create(context.Background(), member.CreateParams{
		Name:          name,
		Email:         email,
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusPhD,
		IsActive:      true,
	})
	require.NoError(t, err)
	return m
}

func auditLogsFor(st *store.Store, entityType model.EntityType) []model.AuditLog {
	var logs []model.AuditLog
	for _, l := range st.AuditLogs() {
		if l.EntityType == entityType {
			logs = append(logs, l)
		}
	}
	return logs
}

func TestManager_Create_AutoEnrollsInRotation(t *testing.T) {
	members, rotations, _ := newTestManagers(t)
	ctx := context.Background()

	a := createMember(t, members, "Alice", "alice@lab.edu")
	b := createMember(t, members, "Bob", "bob@lab.edu")
	c := createMember(t, members, "Carol", "carol@lab.edu")

	entries := rotations.Entries(ctx)
	require.Len(t, entries, 3)
	for i, want := range []model.Member{a, b, c} {
		assert.Equal(t, want.ID, entries[i].MemberID)
		assert.Equal(t, i, entries[i].OrderIndex)
		assert.True(t, entries[i].Active)
		assert.Nil(t, entries[i].LastPresentedAt)
	}
}

func TestManager_Create_DuplicateEmailConflicts(t *testing.T) {
	members, _, _ := newTestManagers(t)
	ctx := context.Background()

	first := createMember(t, members, "Alice", "alice@lab.edu")

	_, err := members.Create(ctx, member.CreateParams{
		Name:          "Impostor",
		Email:         "alice@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusMTech,
		IsActive:      true,
	})
	assert.ErrorIs(t, err, member.ErrEmailExists)

	// Soft-deleting the first member frees the address.
	require.NoError(t, members.Delete(ctx, first.ID))
	_, err = members.Create(ctx, member.CreateParams{
		Name:          "Alice Again",
		Email:         "alice@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusPhD,
		IsActive:      true,
	})
	assert.NoError(t, err)
}

func TestManager_Delete_WithdrawsFromRotationAndRenumbers(t *testing.T) {
	members, rotations, _ := newTestManagers(t)
	ctx := context.Background()

	a := createMember(t, members, "Alice", "alice@lab.edu")
	b := createMember(t, members, "Bob", "bob@lab.edu")
	c := createMember(t, members, "Carol", "carol@lab.edu")

	require.NoError(t, members.Delete(ctx, b.ID))

	entries := rotations.Entries(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, a.ID, entries[0].MemberID)
	assert.Equal(t, 0, entries[0].OrderIndex)
	assert.Equal(t, c.ID, entries[1].MemberID)
	assert.Equal(t, 1, entries[1].OrderIndex)

	_, err := members.Member(ctx, b.ID)
	assert.ErrorIs(t, err, member.ErrNotFound)
}

func TestManager_Update_MergesSetFieldsOnly(t *testing.T) {
	members, _, _ := newTestManagers(t)
	ctx := context.Background()

	m := createMember(t, members, "Alice", "alice@lab.edu")

	updated, err := members.Update(ctx, m.ID, member.UpdateParams{
		Name:     util.Some("Alice Liddell"),
		IsActive: util.Some(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "alice@lab.edu", updated.Email)
	assert.Equal(t, model.StudentStatusPhD, updated.StudentStatus)
	assert.True(t, updated.UpdatedAt.After(m.UpdatedAt) || updated.UpdatedAt.Equal(m.UpdatedAt))
}

func TestManager_Update_EmailConflict(t *testing.T) {
	members, _, _ := newTestManagers(t)
	ctx := context.Background()

	createMember(t, members, "Alice", "alice@lab.edu")
	b := createMember(t, members, "Bob", "bob@lab.edu")

	_, err := members.Update(ctx, b.ID, member.UpdateParams{Email: util.Some("alice@lab.edu")})
	assert.ErrorIs(t, err, member.ErrEmailExists)

	// Re-submitting the member's own email is fine.
	_, err = members.Update(ctx, b.ID, member.UpdateParams{Email: util.Some("bob@lab.edu")})
	assert.NoError(t, err)
}

func TestManager_Update_DeletedMemberNotFound(t *testing.T) {
	members, _, _ := newTestManagers(t)
	ctx := context.Background()

	m := createMember(t, members, "Alice", "alice@lab.edu")
	require.NoError(t, members.Delete(ctx, m.ID))

	_, err := members.Update(ctx, m.ID, member.UpdateParams{Name: util.Some("Ghost")})
	assert.ErrorIs(t, err, member.ErrNotFound)

	// Deleting twice is a not-found, not a second delete.
	assert.ErrorIs(t, members.Delete(ctx, m.ID), member.ErrNotFound)
}

func TestManager_MutationsAreAudited(t *testing.T) {
	members, _, st := newTestManagers(t)
	ctx := context.Background()

	m := createMember(t, members, "Alice", "alice@lab.edu")
	_, err := members.Update(ctx, m.ID, member.UpdateParams{Name: util.Some("Alice Liddell")})
	require.NoError(t, err)
	require.NoError(t, members.Delete(ctx, m.ID))

	logs := auditLogsFor(st, model.EntityTypeMember)
	require.Len(t, logs, 3)
	// Newest first.
	assert.Equal(t, model.AuditActionDelete, logs[0].Action)
	assert.Equal(t, model.AuditActionUpdate, logs[1].Action)
	assert.Equal(t, model.AuditActionCreate, logs[2].Action)
	for _, l := range logs {
		assert.Equal(t, m.ID, l.EntityID)
	}
}

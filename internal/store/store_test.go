package store_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"labdesk/internal/model"
	"labdesk/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")

	st, existing, err := store.Open(testLogger(), path)
	require.NoError(t, err)
	assert.False(t, existing)
	assert.Empty(t, st.Members())
	assert.Empty(t, st.RotationEntries())
}

func TestOpen_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := store.Open(testLogger(), path)
	assert.Error(t, err)
}

func TestStore_SnapshotFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	st, _, err := store.Open(testLogger(), path)
	require.NoError(t, err)

	created := time.Date(2024, 11, 1, 9, 30, 0, 0, time.UTC)
	expires := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	member := model.Member{
		ID:            uuid.New(),
		Name:          "Priya Patel",
		Email:         "priya.patel@lab.edu",
		Role:          model.RoleNonAdmin,
		StudentStatus: model.StudentStatusPhD,
		IsActive:      true,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	meeting := model.Meeting{
		ID:          uuid.New(),
		Title:       "Weekly Sync",
		PresenterID: member.ID,
		Type:        model.MeetingTypeWorkPresentation,
		Date:        "2024-12-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	entry := model.Rotation{
		ID:         uuid.New(),
		MemberID:   member.ID,
		OrderIndex: 0,
		Active:     true,
	}
	announcement := model.Announcement{
		ID:        uuid.New(),
		Title:     "Schedule Change",
		Body:      "Meetings move to Fridays.",
		CreatedAt: created,
		ExpiresAt: &expires,
	}
	logEntry := model.AuditLog{
		ID:         uuid.New(),
		Action:     model.AuditActionCreate,
		EntityType: model.EntityTypeMember,
		EntityID:   member.ID,
		Timestamp:  created,
		Metadata:   json.RawMessage(`{"name":"Priya Patel"}`),
	}

	st.PutMember(member)
	st.PutMeeting(meeting)
	st.PutRotation(entry)
	st.PutAnnouncement(announcement)
	st.AppendAuditLog(logEntry)

	// The file holds [id, entity] pairs per collection.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string][][2]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["members"], 1)
	var fileID uuid.UUID
	require.NoError(t, json.Unmarshal(doc["members"][0][0], &fileID))
	assert.Equal(t, member.ID, fileID)

	reloaded, existing, err := store.Open(testLogger(), path)
	require.NoError(t, err)
	assert.True(t, existing)
	assert.Equal(t, st.Export(), reloaded.Export())
}

func TestStore_SoftDeletedExcludedFromReadsButExported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	st, _, err := store.Open(testLogger(), path)
	require.NoError(t, err)

	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	deleted := now.Add(time.Hour)
	member := model.Member{
		ID:        uuid.New(),
		Name:      "Gone",
		Email:     "gone@lab.edu",
		CreatedAt: now,
		UpdatedAt: now,
		DeletedAt: &deleted,
	}
	st.PutMember(member)

	assert.Empty(t, st.Members())
	_, ok := st.Member(member.ID)
	assert.False(t, ok)
	_, ok = st.MemberByEmail(member.Email)
	assert.False(t, ok)

	require.Len(t, st.Export().Members, 1)
	assert.Equal(t, member.ID, st.Export().Members[0].ID)
}

func TestStore_ImportReplacesCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	st, _, err := store.Open(testLogger(), path)
	require.NoError(t, err)

	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	st.PutMember(model.Member{ID: uuid.New(), Name: "Old", Email: "old@lab.edu", CreatedAt: now, UpdatedAt: now})

	imported := model.Member{ID: uuid.New(), Name: "New", Email: "new@lab.edu", CreatedAt: now, UpdatedAt: now}
	st.Import(model.Snapshot{Members: []model.Member{imported}})

	members := st.Members()
	require.Len(t, members, 1)
	assert.Equal(t, imported.ID, members[0].ID)
	assert.Empty(t, st.Meetings())
	assert.Empty(t, st.AuditLogs())
}

func TestStore_PersistFailureDoesNotFailMutation(t *testing.T) {
	// Point the snapshot at a directory so every write fails.
	st, _, err := store.Open(testLogger(), t.TempDir())
	require.NoError(t, err)

	var hookErr error
	st.SetOnPersistError(func(err error) { hookErr = err })

	now := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	member := model.Member{ID: uuid.New(), Name: "Kept", Email: "kept@lab.edu", CreatedAt: now, UpdatedAt: now}
	st.PutMember(member)

	got, ok := st.Member(member.ID)
	assert.True(t, ok)
	assert.Equal(t, member.Email, got.Email)
	assert.Error(t, hookErr)
	assert.Equal(t, int64(1), st.PersistFailures())
}

func TestStore_RotationEntriesOrderedByIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	st, _, err := store.Open(testLogger(), path)
	require.NoError(t, err)

	st.PutRotations([]model.Rotation{
		{ID: uuid.New(), MemberID: uuid.New(), OrderIndex: 2, Active: true},
		{ID: uuid.New(), MemberID: uuid.New(), OrderIndex: 0, Active: true},
		{ID: uuid.New(), MemberID: uuid.New(), OrderIndex: 1, Active: true},
	})

	entries := st.RotationEntries()
	require.Len(t, entries, 3)
	for i, entry := range entries {
		assert.Equal(t, i, entry.OrderIndex)
	}
}

func TestStore_AuditLogsNewestFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lab-data.json")
	st, _, err := store.Open(testLogger(), path)
	require.NoError(t, err)

	base := time.Date(2024, 11, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		st.AppendAuditLog(model.AuditLog{
			ID:         uuid.New(),
			Action:     model.AuditActionCreate,
			EntityType: model.EntityTypeMember,
			EntityID:   uuid.New(),
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	logs := st.AuditLogs()
	require.Len(t, logs, 3)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))
	assert.True(t, logs[1].Timestamp.After(logs[2].Timestamp))
}

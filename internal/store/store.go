// Package store holds every collection in memory behind a single mutex and
// writes the whole snapshot back to one JSON file after each mutation. The
// file is read once at startup; afterwards memory is the source of truth and
// a failed write never rolls back or fails the mutation that triggered it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"labdesk/internal/model"

	"github.com/google/uuid"
)

type Store struct {
	logger *slog.Logger
	path   string

	mu            sync.Mutex
	members       map[uuid.UUID]model.Member
	meetings      map[uuid.UUID]model.Meeting
	rotation      map[uuid.UUID]model.Rotation
	announcements map[uuid.UUID]model.Announcement
	auditLogs     map[uuid.UUID]model.AuditLog

	persistFailures int64
	onPersistError  func(error)
}

// Open loads the snapshot file at path if it exists. The second return value
// reports whether existing data was loaded, so the caller can decide to seed.
// A missing file starts an empty store; an unreadable or corrupt file is an
// error rather than a silent reset.
func Open(logger *slog.Logger, path string) (*Store, bool, error) {
	s := &Store{
		logger:        logger,
		path:          path,
		members:       make(map[uuid.UUID]model.Member),
		meetings:      make(map[uuid.UUID]model.Meeting),
		rotation:      make(map[uuid.UUID]model.Rotation),
		announcements: make(map[uuid.UUID]model.Announcement),
		auditLogs:     make(map[uuid.UUID]model.AuditLog),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read data file: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	for _, p := range doc.Members {
		s.members[p.ID] = p.Value
	}
	for _, p := range doc.Meetings {
		s.meetings[p.ID] = p.Value
	}
	for _, p := range doc.Rotation {
		s.rotation[p.ID] = p.Value
	}
	for _, p := range doc.Announcements {
		s.announcements[p.ID] = p.Value
	}
	for _, p := range doc.AuditLogs {
		s.auditLogs[p.ID] = p.Value
	}

	return s, true, nil
}

// SetOnPersistError installs a hook invoked whenever a snapshot write fails.
// The hook runs with the store lock held and must not call back into the store.
func (s *Store) SetOnPersistError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPersistError = fn
}

// PersistFailures returns how many snapshot writes have failed since startup.
func (s *Store) PersistFailures() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistFailures
}

// persistLocked rewrites the whole snapshot file. Callers hold s.mu. Errors
// are logged and counted but never returned: the in-memory mutation stands.
func (s *Store) persistLocked() {
	doc := fileDocument{
		Members:       pairsOf(s.members, memberLess),
		Meetings:      pairsOf(s.meetings, meetingLess),
		Rotation:      pairsOf(s.rotation, rotationLess),
		Announcements: pairsOf(s.announcements, announcementLess),
		AuditLogs:     pairsOf(s.auditLogs, auditLogLess),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err == nil {
		err = os.WriteFile(s.path, data, 0o644)
	}
	if err != nil {
		s.persistFailures++
		s.logger.Error("Failed to persist snapshot", "path", s.path, "error", err)
		if s.onPersistError != nil {
			s.onPersistError(err)
		}
	}
}

// Members returns all non-deleted members, oldest first.
func (s *Store) Members() []model.Member {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := make([]model.Member, 0, len(s.members))
	for _, m := range s.members {
		if m.DeletedAt == nil {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return memberLess(members[i], members[j]) })
	return members
}

// Member returns the member if present and not soft-deleted.
func (s *Store) Member(id uuid.UUID) (model.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok || m.DeletedAt != nil {
		return model.Member{}, false
	}
	return m, true
}

// MemberByEmail searches non-deleted members only; soft-deleted members do
// not hold their email address.
func (s *Store) MemberByEmail(email string) (model.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.members {
		if m.DeletedAt == nil && m.Email == email {
			return m, true
		}
	}
	return model.Member{}, false
}

func (s *Store) PutMember(m model.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[m.ID] = m
	s.persistLocked()
}

// Meetings returns all non-deleted meetings, oldest first.
func (s *Store) Meetings() []model.Meeting {
	s.mu.Lock()
	defer s.mu.Unlock()

	meetings := make([]model.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if m.DeletedAt == nil {
			meetings = append(meetings, m)
		}
	}
	sort.Slice(meetings, func(i, j int) bool { return meetingLess(meetings[i], meetings[j]) })
	return meetings
}

func (s *Store) Meeting(id uuid.UUID) (model.Meeting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.meetings[id]
	if !ok || m.DeletedAt != nil {
		return model.Meeting{}, false
	}
	return m, true
}

func (s *Store) PutMeeting(m model.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meetings[m.ID] = m
	s.persistLocked()
}

// RotationEntries returns every rotation entry ordered by OrderIndex.
func (s *Store) RotationEntries() []model.Rotation {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]model.Rotation, 0, len(s.rotation))
	for _, r := range s.rotation {
		entries = append(entries, r)
	}
	sort.Slice(entries, func(i, j int) bool { return rotationLess(entries[i], entries[j]) })
	return entries
}

func (s *Store) RotationEntry(id uuid.UUID) (model.Rotation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rotation[id]
	return r, ok
}

func (s *Store) PutRotation(r model.Rotation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rotation[r.ID] = r
	s.persistLocked()
}

// PutRotations stores a batch of entries under one snapshot write. Renumbering
// after a removal and explicit reorders go through here so a multi-entry
// update hits the disk once.
func (s *Store) PutRotations(entries []model.Rotation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range entries {
		s.rotation[r.ID] = r
	}
	s.persistLocked()
}

// DeleteRotation hard-deletes the entry and reports whether it existed.
func (s *Store) DeleteRotation(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rotation[id]; !ok {
		return false
	}
	delete(s.rotation, id)
	s.persistLocked()
	return true
}

// Announcements returns all non-deleted announcements, oldest first, expired
// ones included. Callers wanting the active view filter on expiry themselves.
func (s *Store) Announcements() []model.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()

	announcements := make([]model.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		if a.DeletedAt == nil {
			announcements = append(announcements, a)
		}
	}
	sort.Slice(announcements, func(i, j int) bool { return announcementLess(announcements[i], announcements[j]) })
	return announcements
}

func (s *Store) Announcement(id uuid.UUID) (model.Announcement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.announcements[id]
	if !ok || a.DeletedAt != nil {
		return model.Announcement{}, false
	}
	return a, true
}

func (s *Store) PutAnnouncement(a model.Announcement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.announcements[a.ID] = a
	s.persistLocked()
}

// AuditLogs returns every log entry, most recent first.
func (s *Store) AuditLogs() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]model.AuditLog, 0, len(s.auditLogs))
	for _, l := range s.auditLogs {
		logs = append(logs, l)
	}
	sort.Slice(logs, func(i, j int) bool { return auditLogLess(logs[i], logs[j]) })
	return logs
}

func (s *Store) AppendAuditLog(l model.AuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auditLogs[l.ID] = l
	s.persistLocked()
}

// Export returns every collection in full, soft-deleted rows and audit logs
// included.
func (s *Store) Export() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return model.Snapshot{
		Members:       valuesOf(s.members, memberLess),
		Meetings:      valuesOf(s.meetings, meetingLess),
		Rotation:      valuesOf(s.rotation, rotationLess),
		Announcements: valuesOf(s.announcements, announcementLess),
		AuditLogs:     valuesOf(s.auditLogs, auditLogLess),
	}
}

// Import wholesale-replaces all five collections and persists the result.
func (s *Store) Import(snapshot model.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members = make(map[uuid.UUID]model.Member, len(snapshot.Members))
	for _, m := range snapshot.Members {
		s.members[m.ID] = m
	}
	s.meetings = make(map[uuid.UUID]model.Meeting, len(snapshot.Meetings))
	for _, m := range snapshot.Meetings {
		s.meetings[m.ID] = m
	}
	s.rotation = make(map[uuid.UUID]model.Rotation, len(snapshot.Rotation))
	for _, r := range snapshot.Rotation {
		s.rotation[r.ID] = r
	}
	s.announcements = make(map[uuid.UUID]model.Announcement, len(snapshot.Announcements))
	for _, a := range snapshot.Announcements {
		s.announcements[a.ID] = a
	}
	s.auditLogs = make(map[uuid.UUID]model.AuditLog, len(snapshot.AuditLogs))
	for _, l := range snapshot.AuditLogs {
		s.auditLogs[l.ID] = l
	}

	s.persistLocked()
}

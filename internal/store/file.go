package store

import (
	"encoding/json"
	"fmt"
	"sort"

	"labdesk/internal/model"

	"github.com/google/uuid"
)

// fileDocument is the on-disk layout: five named collections, each a list of
// [id, entity] pairs.
type fileDocument struct {
	Members       []pair[model.Member]       `json:"members"`
	Meetings      []pair[model.Meeting]      `json:"meetings"`
	Rotation      []pair[model.Rotation]     `json:"rotation"`
	Announcements []pair[model.Announcement] `json:"announcements"`
	AuditLogs     []pair[model.AuditLog]     `json:"auditLogs"`
}

// pair serialises as a two-element JSON array: [id, entity].
type pair[T any] struct {
	ID    uuid.UUID
	Value T
}

func (p pair[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Value})
}

func (p *pair[T]) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected [id, entity] pair: %w", err)
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return fmt.Errorf("invalid entity id: %w", err)
	}
	return json.Unmarshal(raw[1], &p.Value)
}

func pairsOf[T any](m map[uuid.UUID]T, less func(a, b T) bool) []pair[T] {
	pairs := make([]pair[T], 0, len(m))
	for id, v := range m {
		pairs = append(pairs, pair[T]{ID: id, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return less(pairs[i].Value, pairs[j].Value) })
	return pairs
}

func valuesOf[T any](m map[uuid.UUID]T, less func(a, b T) bool) []T {
	values := make([]T, 0, len(m))
	for _, v := range m {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return less(values[i], values[j]) })
	return values
}

// Orderings are deterministic so repeated exports and snapshot writes of the
// same state produce the same document.

func memberLess(a, b model.Member) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func meetingLess(a, b model.Meeting) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

func rotationLess(a, b model.Rotation) bool {
	if a.OrderIndex != b.OrderIndex {
		return a.OrderIndex < b.OrderIndex
	}
	return a.ID.String() < b.ID.String()
}

func announcementLess(a, b model.Announcement) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Audit logs read newest-first.
func auditLogLess(a, b model.AuditLog) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID.String() < b.ID.String()
}

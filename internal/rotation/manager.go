// Package rotation maintains the presentation queue: a strictly-ordered,
// gapless list of members awaiting their turn to present. Order is explicit;
// marking an entry as presented does not rotate the queue.
package rotation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"labdesk/internal/audit"
	"labdesk/internal/model"
	"labdesk/internal/store"
	"labdesk/internal/util"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("rotation entry not found")
	ErrInvalidOrder = errors.New("order must reference every rotation entry exactly once")
)

type Manager struct {
	logger  *slog.Logger
	store   *store.Store
	auditor *audit.Auditor
}

func NewManager(logger *slog.Logger, store *store.Store, auditor *audit.Auditor) Manager {
	return Manager{logger: logger, store: store, auditor: auditor}
}

// Entries returns every rotation entry ordered by OrderIndex, including
// inactive ones and entries whose member no longer resolves.
func (m *Manager) Entries(ctx context.Context) []model.Rotation {
	return m.store.RotationEntries()
}

// Queue returns the presentable view: active entries whose member still
// exists and is not soft-deleted, ascending by OrderIndex. The head is up
// next.
func (m *Manager) Queue(ctx context.Context) []model.Rotation {
	queue := make([]model.Rotation, 0)
	for _, r := range m.store.RotationEntries() {
		if !r.Active {
			continue
		}
		if _, ok := m.store.Member(r.MemberID); !ok {
			continue
		}
		queue = append(queue, r)
	}
	return queue
}

// Enroll appends the member to the end of the queue. Enrolling a member who
// already has an entry is a no-op returning the existing entry.
func (m *Manager) Enroll(ctx context.Context, memberID uuid.UUID) (model.Rotation, error) {
	entries := m.store.RotationEntries()
	for _, r := range entries {
		if r.MemberID == memberID {
			return r, nil
		}
	}

	maxIndex := -1
	for _, r := range entries {
		if r.OrderIndex > maxIndex {
			maxIndex = r.OrderIndex
		}
	}

	entry := model.Rotation{
		ID:         uuid.New(),
		MemberID:   memberID,
		OrderIndex: maxIndex + 1,
		Active:     true,
	}
	m.store.PutRotation(entry)
	m.auditor.Record(ctx, model.AuditActionCreate, model.EntityTypeRotation, entry.ID, map[string]any{
		"memberId":  memberID,
		"autoAdded": true,
	})

	return entry, nil
}

// Withdraw hard-deletes the member's entry, if any, and renumbers the
// remaining entries to a contiguous run starting at 0. Gaps must never
// persist.
func (m *Manager) Withdraw(ctx context.Context, memberID uuid.UUID) error {
	var target *model.Rotation
	for _, r := range m.store.RotationEntries() {
		if r.MemberID == memberID {
			entry := r
			target = &entry
			break
		}
	}
	if target == nil {
		return nil
	}

	m.store.DeleteRotation(target.ID)
	m.renumber(ctx)
	m.auditor.Record(ctx, model.AuditActionDelete, model.EntityTypeRotation, target.ID, map[string]any{
		"memberId":    memberID,
		"autoRemoved": true,
	})

	return nil
}

// Remove hard-deletes a single entry by id and closes the gap it leaves.
func (m *Manager) Remove(ctx context.Context, id uuid.UUID) error {
	if !m.store.DeleteRotation(id) {
		return ErrNotFound
	}
	m.renumber(ctx)
	m.auditor.Record(ctx, model.AuditActionDelete, model.EntityTypeRotation, id, nil)
	return nil
}

type UpdateParams struct {
	Active util.Optional[bool]
}

// Update applies a partial update to an entry. Ordering is managed through
// Reorder, not here.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.Rotation, error) {
	entry, ok := m.store.RotationEntry(id)
	if !ok {
		return model.Rotation{}, ErrNotFound
	}

	changes := make(map[string]any)
	if params.Active.IsSet {
		entry.Active = params.Active.Val
		changes["active"] = entry.Active
	}

	m.store.PutRotation(entry)
	m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeRotation, id, changes)

	return entry, nil
}

// Reorder reassigns OrderIndex by position in ids. The list must mention
// every current entry exactly once; otherwise nothing is mutated.
func (m *Manager) Reorder(ctx context.Context, ids []uuid.UUID) ([]model.Rotation, error) {
	entries := m.store.RotationEntries()
	if len(ids) != len(entries) {
		return nil, fmt.Errorf("%w: got %d ids for %d entries", ErrInvalidOrder, len(ids), len(entries))
	}

	byID := make(map[uuid.UUID]model.Rotation, len(entries))
	for _, r := range entries {
		byID[r.ID] = r
	}

	seen := make(map[uuid.UUID]bool, len(ids))
	reordered := make([]model.Rotation, 0, len(ids))
	for i, id := range ids {
		entry, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown entry %s", ErrInvalidOrder, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate entry %s", ErrInvalidOrder, id)
		}
		seen[id] = true
		entry.OrderIndex = i
		reordered = append(reordered, entry)
	}

	m.store.PutRotations(reordered)
	for _, entry := range reordered {
		m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeRotation, entry.ID, map[string]any{
			"orderIndex": entry.OrderIndex,
		})
	}

	return reordered, nil
}

// MarkPresented stamps LastPresentedAt on the entry. The entry keeps its
// position: advancing the queue is an explicit reorder.
func (m *Manager) MarkPresented(ctx context.Context, id uuid.UUID) (model.Rotation, error) {
	entry, ok := m.store.RotationEntry(id)
	if !ok {
		return model.Rotation{}, ErrNotFound
	}

	now := time.Now()
	entry.LastPresentedAt = &now
	m.store.PutRotation(entry)
	m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeRotation, id, map[string]any{
		"lastPresentedAt": now,
	})

	return entry, nil
}

// renumber rewrites OrderIndex values to a contiguous ascending run starting
// at 0, preserving relative order.
func (m *Manager) renumber(ctx context.Context) {
	entries := m.store.RotationEntries()
	changed := make([]model.Rotation, 0, len(entries))
	for i, r := range entries {
		if r.OrderIndex != i {
			r.OrderIndex = i
			changed = append(changed, r)
		}
	}
	if len(changed) > 0 {
		m.store.PutRotations(changed)
	}
}

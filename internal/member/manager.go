package member

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"labdesk/internal/audit"
	"labdesk/internal/model"
	"labdesk/internal/rotation"
	"labdesk/internal/store"
	"labdesk/internal/util"

	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("member not found")
	ErrEmailExists = errors.New("email already in use")
)

type Manager struct {
	logger   *slog.Logger
	store    *store.Store
	auditor  *audit.Auditor
	rotation *rotation.Manager
}

func NewManager(logger *slog.Logger, store *store.Store, auditor *audit.Auditor, rotation *rotation.Manager) Manager {
	return Manager{logger: logger, store: store, auditor: auditor, rotation: rotation}
}

func (m *Manager) Members(ctx context.Context) []model.Member {
	return m.store.Members()
}

func (m *Manager) Member(ctx context.Context, id uuid.UUID) (model.Member, error) {
	member, ok := m.store.Member(id)
	if !ok {
		return model.Member{}, ErrNotFound
	}
	return member, nil
}

type CreateParams struct {
	Name                 string
	Email                string
	Role                 model.Role
	StudentStatus        model.StudentStatus
	IsActive             bool
	InternExpirationDate *time.Time
}

// Create stores a new member and enrolls them at the end of the presentation
// rotation. Email addresses are unique among non-deleted members; enrollment
// is best-effort and never fails the creation.
func (m *Manager) Create(ctx context.Context, params CreateParams) (model.Member, error) {
	if _, ok := m.store.MemberByEmail(params.Email); ok {
		return model.Member{}, ErrEmailExists
	}

	now := time.Now()
	member := model.Member{
		ID:                   uuid.New(),
		Name:                 params.Name,
		Email:                params.Email,
		Role:                 params.Role,
		StudentStatus:        params.StudentStatus,
		IsActive:             params.IsActive,
		InternExpirationDate: params.InternExpirationDate,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	m.store.PutMember(member)
	m.auditor.Record(ctx, model.AuditActionCreate, model.EntityTypeMember, member.ID, map[string]any{
		"name": member.Name,
	})

	if _, err := m.rotation.Enroll(ctx, member.ID); err != nil {
		m.logger.Error("Failed to enroll member in rotation", "memberId", member.ID, "error", err)
	}

	return member, nil
}

type UpdateParams struct {
	Name                 util.Optional[string]
	Email                util.Optional[string]
	Role                 util.Optional[model.Role]
	StudentStatus        util.Optional[model.StudentStatus]
	IsActive             util.Optional[bool]
	InternExpirationDate util.Optional[*time.Time]
}

// Update merges the set fields into the member. Changing the email re-checks
// uniqueness against every other non-deleted member.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.Member, error) {
	member, ok := m.store.Member(id)
	if !ok {
		return model.Member{}, ErrNotFound
	}

	changes := make(map[string]any)
	if params.Name.IsSet {
		member.Name = params.Name.Val
		changes["name"] = member.Name
	}
	if params.Email.IsSet && params.Email.Val != member.Email {
		if other, exists := m.store.MemberByEmail(params.Email.Val); exists && other.ID != id {
			return model.Member{}, ErrEmailExists
		}
		member.Email = params.Email.Val
		changes["email"] = member.Email
	}
	if params.Role.IsSet {
		member.Role = params.Role.Val
		changes["role"] = member.Role
	}
	if params.StudentStatus.IsSet {
		member.StudentStatus = params.StudentStatus.Val
		changes["studentStatus"] = member.StudentStatus
	}
	if params.IsActive.IsSet {
		member.IsActive = params.IsActive.Val
		changes["isActive"] = member.IsActive
	}
	if params.InternExpirationDate.IsSet {
		member.InternExpirationDate = params.InternExpirationDate.Val
		changes["internExpirationDate"] = member.InternExpirationDate
	}

	member.UpdatedAt = time.Now()
	m.store.PutMember(member)
	m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeMember, id, changes)

	return member, nil
}

// Delete soft-deletes the member and withdraws them from the rotation. The
// withdrawal is best-effort; the deletion stands regardless.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	member, ok := m.store.Member(id)
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	member.DeletedAt = &now
	m.store.PutMember(member)

	if err := m.rotation.Withdraw(ctx, id); err != nil {
		m.logger.Error("Failed to withdraw member from rotation", "memberId", id, "error", err)
	}

	m.auditor.Record(ctx, model.AuditActionDelete, model.EntityTypeMember, id, map[string]any{
		"name": member.Name,
	})

	return nil
}

package meeting

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

var (
	ErrNotFound         = errors.New("meeting not found")
	ErrScheduleConflict = errors.New("presenter has a conflicting meeting at this time")
	ErrInvalidTimeRange = errors.New("endTime must be after startTime")
)

type Manager struct {
	logger  *slog.Logger
	store   *store.Store
	auditor *audit.Auditor
}

func NewManager(logger *slog.Logger, store *store.Store, auditor *audit.Auditor) Manager {
	return Manager{logger: logger, store: store, auditor: auditor}
}

func (m *Manager) Meetings(ctx context.Context) []model.Meeting {
	return m.store.Meetings()
}

func (m *Manager) Meeting(ctx context.Context, id uuid.UUID) (model.Meeting, error) {
	meeting, ok := m.store.Meeting(id)
	if !ok {
		return model.Meeting{}, ErrNotFound
	}
	return meeting, nil
}

type CreateParams struct {
	Title       string
	PresenterID uuid.UUID
	Type        model.MeetingType
	Date        string
	StartTime   string
	EndTime     string
	Description string
}

func (m *Manager) Create(ctx context.Context, params CreateParams) (model.Meeting, error) {
	if params.EndTime <= params.StartTime {
		return model.Meeting{}, ErrInvalidTimeRange
	}

	now := time.Now()
	meeting := model.Meeting{
		ID:          uuid.New(),
		Title:       params.Title,
		PresenterID: params.PresenterID,
		Type:        params.Type,
		Date:        params.Date,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if m.hasConflict(meeting) {
		return model.Meeting{}, ErrScheduleConflict
	}

	m.store.PutMeeting(meeting)
	m.auditor.Record(ctx, model.AuditActionCreate, model.EntityTypeMeeting, meeting.ID, map[string]any{
		"title": meeting.Title,
	})

	return meeting, nil
}

type UpdateParams struct {
	Title       util.Optional[string]
	PresenterID util.Optional[uuid.UUID]
	Type        util.Optional[model.MeetingType]
	Date        util.Optional[string]
	StartTime   util.Optional[string]
	EndTime     util.Optional[string]
	Description util.Optional[string]
}

func (m *Manager) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (model.Meeting, error) {
	meeting, ok := m.store.Meeting(id)
	if !ok {
		return model.Meeting{}, ErrNotFound
	}

	changes := make(map[string]any)
	if params.Title.IsSet {
		meeting.Title = params.Title.Val
		changes["title"] = meeting.Title
	}
	if params.PresenterID.IsSet {
		meeting.PresenterID = params.PresenterID.Val
		changes["presenterId"] = meeting.PresenterID
	}
	if params.Type.IsSet {
		meeting.Type = params.Type.Val
		changes["type"] = meeting.Type
	}
	if params.Date.IsSet {
		meeting.Date = params.Date.Val
		changes["date"] = meeting.Date
	}
	if params.StartTime.IsSet {
		meeting.StartTime = params.StartTime.Val
		changes["startTime"] = meeting.StartTime
	}
	if params.EndTime.IsSet {
		meeting.EndTime = params.EndTime.Val
		changes["endTime"] = meeting.EndTime
	}
	if params.Description.IsSet {
		meeting.Description = params.Description.Val
		changes["description"] = meeting.Description
	}

	if meeting.EndTime <= meeting.StartTime {
		return model.Meeting{}, ErrInvalidTimeRange
	}
	if m.hasConflict(meeting) {
		return model.Meeting{}, ErrScheduleConflict
	}

	meeting.UpdatedAt = time.Now()
	m.store.PutMeeting(meeting)
	m.auditor.Record(ctx, model.AuditActionUpdate, model.EntityTypeMeeting, id, changes)

	return meeting, nil
}

func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	meeting, ok := m.store.Meeting(id)
	if !ok {
		return ErrNotFound
	}

	now := time.Now()
	meeting.DeletedAt = &now
	m.store.PutMeeting(meeting)
	m.auditor.Record(ctx, model.AuditActionDelete, model.EntityTypeMeeting, id, map[string]any{
		"title": meeting.Title,
	})

	return nil
}

// hasConflict reports whether another non-deleted meeting of the same
// presenter on the same date overlaps the candidate. Intervals are half-open:
// back-to-back meetings sharing a boundary do not conflict. Zero-padded HH:MM
// strings order correctly under lexicographic comparison.
func (m *Manager) hasConflict(candidate model.Meeting) bool {
	for _, other := range m.store.Meetings() {
		if other.ID == candidate.ID {
			continue
		}
		if other.PresenterID != candidate.PresenterID || other.Date != candidate.Date {
			continue
		}
		if candidate.StartTime < other.EndTime && other.StartTime < candidate.EndTime {
			return true
		}
	}
	return false
}

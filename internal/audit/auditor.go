package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"labdesk/internal/model"
	"labdesk/internal/store"

	"github.com/google/uuid"
)

// Auditor appends an immutable record for every mutation across entity kinds.
// Entries are never updated or removed and sit outside the soft-delete
// convention.
type Auditor struct {
	logger *slog.Logger
	store  *store.Store
}

func NewAuditor(logger *slog.Logger, store *store.Store) Auditor {
	return Auditor{logger: logger, store: store}
}

// Record creates a log entry stamped with the current time. It never fails
// the mutation that requested it: marshalling or persistence problems are
// logged and swallowed.
func (a *Auditor) Record(ctx context.Context, action model.AuditAction, entityType model.EntityType, entityID uuid.UUID, metadata map[string]any) {
	var data json.RawMessage
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err != nil {
			a.logger.Error("Failed to marshal audit metadata", "entityType", entityType, "entityId", entityID, "error", err)
		} else {
			data = b
		}
	}

	a.store.AppendAuditLog(model.AuditLog{
		ID:         uuid.New(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Timestamp:  time.Now(),
		Metadata:   data,
	})
}

// Logs returns every audit entry, most recent first.
func (a *Auditor) Logs(ctx context.Context) []model.AuditLog {
	return a.store.AuditLogs()
}

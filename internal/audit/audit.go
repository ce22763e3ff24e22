// Package audit records operator and engine actions to the audit trail.
package audit

import (
	"context"
	"time"

	"surveyd/internal/store"
	"surveyd/pkg/logx"
)

// Recorder writes audit entries through the store. A nil-store Recorder is
// a safe no-op so callers don't have to branch on whether auditing is on.
type Recorder struct {
	store store.AuditStore
	log   logx.Logger
}

func NewRecorder(s store.AuditStore, log logx.Logger) Recorder {
	if log.IsZero() {
		log = logx.Nop()
	}
	return Recorder{store: s, log: log}
}

// Record appends one entry. Audit failures are logged, never propagated:
// an audit outage must not fail the operation being audited.
func (r Recorder) Record(ctx context.Context, actorID, action, entityType, entityID, details string) {
	if r.store == nil {
		return
	}
	e := store.AuditEntry{
		At:         time.Now(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if err := r.store.AppendAudit(ctx, e); err != nil {
		r.log.Warn("audit append failed",
			logx.String("action", action),
			logx.String("entity", entityID),
			logx.Err(err),
		)
	}
}

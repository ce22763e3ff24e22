package store

import (
	"context"
	"errors"
	"time"

	"surveyd/internal/domain"
)

var ErrNotFound = errors.New("not found")

// Config configures the persistence layer.
//
// Driver values:
//   - "sqlite": SQLite database file (default)
//   - "postgres": PostgreSQL via DSN
type Config struct {
	Driver      string
	Path        string        // sqlite file path
	DSN         string        // postgres connection string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// SurveyStore is the survey persistence contract used by the engine.
// Save is only ever called by the engine to persist an advanced ScheduledAt;
// everything else about a survey is written by the management API.
type SurveyStore interface {
	Insert(ctx context.Context, s domain.Survey) error
	GetByID(ctx context.Context, id string) (domain.Survey, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.Survey, error)
	Save(ctx context.Context, s domain.Survey) error
	Delete(ctx context.Context, id string) error
}

// RecipientStore resolves candidate audiences.
type RecipientStore interface {
	InsertRecipient(ctx context.Context, r domain.Recipient) error
	FindByActivityWindow(ctx context.Context, cutoff time.Time) ([]domain.Recipient, error)
	FindByRoleAndDepartment(ctx context.Context, role domain.Role, department string) ([]domain.Recipient, error)
}

// ResponseStore reads and records submissions. The engine only reads;
// Add exists for the assignment operation and for the API layer.
type ResponseStore interface {
	Add(ctx context.Context, r domain.SurveyResponse) error
	FindBySurvey(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error)
}

// AuditEntry records an operator or engine action.
// Keep it compact and schema-stable.
type AuditEntry struct {
	At         time.Time
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    string
}

// AuditStore appends to the audit trail.
type AuditStore interface {
	AppendAudit(ctx context.Context, e AuditEntry) error
}

// Store is the full persistence surface surveyd needs.
type Store interface {
	SurveyStore
	RecipientStore
	ResponseStore
	AuditStore
	Close() error
}

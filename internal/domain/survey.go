package domain

import (
	"time"

	"github.com/google/uuid"
)

// SurveyStatus is the externally driven lifecycle state of a survey.
// The scheduler never changes it; it only advances ScheduledAt for
// recurring surveys.
type SurveyStatus string

const (
	StatusDraft    SurveyStatus = "draft"
	StatusActive   SurveyStatus = "active"
	StatusPaused   SurveyStatus = "paused"
	StatusExpired  SurveyStatus = "expired"
	StatusArchived SurveyStatus = "archived"
)

// TriggerKind classifies what makes a survey eligible for delivery.
type TriggerKind string

const (
	TriggerPostVisit  TriggerKind = "post_visit"
	TriggerScheduled  TriggerKind = "scheduled"
	TriggerManual     TriggerKind = "manual"
	TriggerEventBased TriggerKind = "event_based"
)

// RecurrenceUnit is the cadence unit of a recurrence rule.
type RecurrenceUnit string

const (
	Daily   RecurrenceUnit = "daily"
	Weekly  RecurrenceUnit = "weekly"
	Monthly RecurrenceUnit = "monthly"
)

// RecurrenceRule describes the repeat cadence of a recurring survey.
// Interval must be positive.
type RecurrenceRule struct {
	Unit     RecurrenceUnit `json:"unit" db:"unit"`
	Interval int            `json:"interval" db:"interval"`
}

// NotificationSettings is the per-survey delivery policy.
type NotificationSettings struct {
	SendEmail        bool          `json:"send_email" db:"send_email"`
	SendSMS          bool          `json:"send_sms" db:"send_sms"`
	EmailTemplate    string        `json:"email_template" db:"email_template"`
	SMSTemplate      string        `json:"sms_template" db:"sms_template"`
	ReminderInterval time.Duration `json:"reminder_interval" db:"reminder_interval"`
	MaxReminders     int           `json:"max_reminders" db:"max_reminders"`
}

// Survey is a schedulable unit of deferred work with a delivery policy.
type Survey struct {
	ID          string       `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Department  string       `json:"department,omitempty" db:"department"`
	Status      SurveyStatus `json:"status" db:"status"`
	CreatedBy   string       `json:"created_by" db:"created_by"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty" db:"expires_at"`

	// ScheduledAt is the next delivery time. Nil means "no concrete time":
	// due immediately for non-recurring manual sends, never for anything else.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" db:"scheduled_at"`

	TriggerKind     TriggerKind `json:"trigger_kind,omitempty" db:"trigger_kind"`
	TriggerMetadata string      `json:"trigger_metadata,omitempty" db:"trigger_metadata"`

	IsRecurring bool            `json:"is_recurring" db:"is_recurring"`
	Recurrence  *RecurrenceRule `json:"recurrence,omitempty"`

	Notifications NotificationSettings `json:"notifications"`

	Questions []Question `json:"questions"`
}

// QuestionType determines how answers are aggregated and validated.
type QuestionType string

const (
	QText           QuestionType = "text"
	QMultipleChoice QuestionType = "multiple_choice"
	QSingleChoice   QuestionType = "single_choice"
	QRating         QuestionType = "rating"
	QDate           QuestionType = "date"
	QBoolean        QuestionType = "boolean"
	QScale          QuestionType = "scale"
)

// Numeric reports whether answers to this question type are aggregated as
// numbers (average/min/max).
func (t QuestionType) Numeric() bool { return t == QRating || t == QScale }

// Choice reports whether answers to this question type are aggregated as a
// categorical distribution.
func (t QuestionType) Choice() bool { return t == QMultipleChoice || t == QSingleChoice }

// ConditionalNext routes to a next question when its boolean expression
// over the answers-so-far evaluates true.
type ConditionalNext struct {
	Expression string `json:"expression" db:"expression"`
	NextID     string `json:"next_id" db:"next_id"`
}

type Question struct {
	ID         string       `json:"id" db:"id"`
	SurveyID   string       `json:"survey_id" db:"survey_id"`
	Text       string       `json:"text" db:"text"`
	Type       QuestionType `json:"type" db:"question_type"`
	Required   bool         `json:"required" db:"required"`
	OrderIndex int          `json:"order_index" db:"order_index"`
	Options    []string     `json:"options,omitempty"`

	// NextID is the static next question; Conditionals take priority.
	NextID       string            `json:"next_id,omitempty" db:"next_id"`
	Conditionals []ConditionalNext `json:"conditionals,omitempty"`
}

// NewID returns a fresh survey/question/response identifier.
func NewID() string { return uuid.NewString() }

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"surveyd/internal/domain"
	"surveyd/pkg/logx"
)

// sqlStore implements Store on sqlx. Queries are written with `?` bind vars
// and passed through Rebind so the same code serves sqlite and postgres.
type sqlStore struct {
	db  *sqlx.DB
	log logx.Logger
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ---- row types ----

type surveyRow struct {
	ID                 string  `db:"id"`
	Title              string  `db:"title"`
	Description        string  `db:"description"`
	Department         string  `db:"department"`
	Status             string  `db:"status"`
	CreatedBy          string  `db:"created_by"`
	CreatedAt          int64   `db:"created_at"`
	ExpiresAt          *int64  `db:"expires_at"`
	ScheduledAt        *int64  `db:"scheduled_at"`
	TriggerKind        string  `db:"trigger_kind"`
	TriggerMetadata    string  `db:"trigger_metadata"`
	IsRecurring        bool    `db:"is_recurring"`
	RecurrenceUnit     *string `db:"recurrence_unit"`
	RecurrenceInterval *int    `db:"recurrence_interval"`
	SendEmail          bool    `db:"send_email"`
	SendSMS            bool    `db:"send_sms"`
	EmailTemplate      string  `db:"email_template"`
	SMSTemplate        string  `db:"sms_template"`
	ReminderInterval   int64   `db:"reminder_interval"`
	MaxReminders       int     `db:"max_reminders"`
}

type questionRow struct {
	ID           string `db:"id"`
	SurveyID     string `db:"survey_id"`
	Text         string `db:"text"`
	QuestionType string `db:"question_type"`
	Required     bool   `db:"required"`
	OrderIndex   int    `db:"order_index"`
	Options      string `db:"options"`
	NextID       string `db:"next_id"`
	Conditionals string `db:"conditionals"`
}

type recipientRow struct {
	ID         string `db:"id"`
	Username   string `db:"username"`
	Email      string `db:"email"`
	Phone      string `db:"phone"`
	FirstName  string `db:"first_name"`
	LastName   string `db:"last_name"`
	Department string `db:"department"`
	Role       string `db:"role"`
	Active     bool   `db:"active"`
	LastSeenAt *int64 `db:"last_seen_at"`
}

type responseRow struct {
	ID           string `db:"id"`
	SurveyID     string `db:"survey_id"`
	RespondentID string `db:"respondent_id"`
	Status       string `db:"status"`
	SubmittedAt  int64  `db:"submitted_at"`
}

type answerRow struct {
	ResponseID string `db:"response_id"`
	QuestionID string `db:"question_id"`
	Value      string `db:"value"`
}

func msOf(t time.Time) int64 { return t.UTC().UnixMilli() }

func msPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := msOf(*t)
	return &ms
}

func timeOf(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func timePtr(ms *int64) *time.Time {
	if ms == nil {
		return nil
	}
	t := timeOf(*ms)
	return &t
}

func (r surveyRow) toDomain(questions []domain.Question) domain.Survey {
	s := domain.Survey{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Department:      r.Department,
		Status:          domain.SurveyStatus(r.Status),
		CreatedBy:       r.CreatedBy,
		CreatedAt:       timeOf(r.CreatedAt),
		ExpiresAt:       timePtr(r.ExpiresAt),
		ScheduledAt:     timePtr(r.ScheduledAt),
		TriggerKind:     domain.TriggerKind(r.TriggerKind),
		TriggerMetadata: r.TriggerMetadata,
		IsRecurring:     r.IsRecurring,
		Notifications: domain.NotificationSettings{
			SendEmail:        r.SendEmail,
			SendSMS:          r.SendSMS,
			EmailTemplate:    r.EmailTemplate,
			SMSTemplate:      r.SMSTemplate,
			ReminderInterval: time.Duration(r.ReminderInterval) * time.Millisecond,
			MaxReminders:     r.MaxReminders,
		},
		Questions: questions,
	}
	if r.RecurrenceUnit != nil && r.RecurrenceInterval != nil {
		s.Recurrence = &domain.RecurrenceRule{
			Unit:     domain.RecurrenceUnit(*r.RecurrenceUnit),
			Interval: *r.RecurrenceInterval,
		}
	}
	return s
}

// ---- surveys ----

func (s *sqlStore) Insert(ctx context.Context, sv domain.Survey) error {
	var unit *string
	var interval *int
	if sv.Recurrence != nil {
		u := string(sv.Recurrence.Unit)
		unit, interval = &u, &sv.Recurrence.Interval
	}

	q := s.db.Rebind(`INSERT INTO surveys(
		id, title, description, department, status, created_by, created_at,
		expires_at, scheduled_at, trigger_kind, trigger_metadata, is_recurring,
		recurrence_unit, recurrence_interval, send_email, send_sms,
		email_template, sms_template, reminder_interval, max_reminders)
		VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	_, err := s.db.ExecContext(ctx, q,
		sv.ID, sv.Title, sv.Description, sv.Department, string(sv.Status),
		sv.CreatedBy, msOf(sv.CreatedAt), msPtr(sv.ExpiresAt), msPtr(sv.ScheduledAt),
		string(sv.TriggerKind), sv.TriggerMetadata, sv.IsRecurring,
		unit, interval,
		sv.Notifications.SendEmail, sv.Notifications.SendSMS,
		sv.Notifications.EmailTemplate, sv.Notifications.SMSTemplate,
		sv.Notifications.ReminderInterval.Milliseconds(), sv.Notifications.MaxReminders,
	)
	if err != nil {
		return err
	}

	for _, qu := range sv.Questions {
		if err := s.insertQuestion(ctx, sv.ID, qu); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlStore) insertQuestion(ctx context.Context, surveyID string, qu domain.Question) error {
	opts, err := json.Marshal(qu.Options)
	if err != nil {
		return err
	}
	conds, err := json.Marshal(qu.Conditionals)
	if err != nil {
		return err
	}
	q := s.db.Rebind(`INSERT INTO questions(
		id, survey_id, text, question_type, required, order_index, options, next_id, conditionals)
		VALUES(?,?,?,?,?,?,?,?,?)`)
	_, err = s.db.ExecContext(ctx, q,
		qu.ID, surveyID, qu.Text, string(qu.Type), qu.Required, qu.OrderIndex,
		string(opts), qu.NextID, string(conds))
	return err
}

func (s *sqlStore) GetByID(ctx context.Context, id string) (domain.Survey, error) {
	var row surveyRow
	q := s.db.Rebind(`SELECT * FROM surveys WHERE id = ?`)
	if err := s.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Survey{}, ErrNotFound
		}
		return domain.Survey{}, err
	}
	questions, err := s.questionsFor(ctx, id)
	if err != nil {
		return domain.Survey{}, err
	}
	return row.toDomain(questions), nil
}

// FindDue selects active surveys whose scheduled time has passed. A survey
// with no scheduled time is due only when it is a non-recurring manual send;
// recurring surveys always carry a concrete time.
func (s *sqlStore) FindDue(ctx context.Context, now time.Time) ([]domain.Survey, error) {
	var rows []surveyRow
	q := s.db.Rebind(`SELECT * FROM surveys
		WHERE status = ?
		  AND (
			(scheduled_at IS NOT NULL AND scheduled_at <= ?)
			OR (scheduled_at IS NULL AND is_recurring = ? AND trigger_kind = ?)
		  )
		ORDER BY id`)
	err := s.db.SelectContext(ctx, &rows, q,
		string(domain.StatusActive), msOf(now), false, string(domain.TriggerManual))
	if err != nil {
		return nil, err
	}

	out := make([]domain.Survey, 0, len(rows))
	for _, row := range rows {
		questions, err := s.questionsFor(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toDomain(questions))
	}
	return out, nil
}

func (s *sqlStore) questionsFor(ctx context.Context, surveyID string) ([]domain.Question, error) {
	var rows []questionRow
	q := s.db.Rebind(`SELECT * FROM questions WHERE survey_id = ? ORDER BY order_index`)
	if err := s.db.SelectContext(ctx, &rows, q, surveyID); err != nil {
		return nil, err
	}
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		qu := domain.Question{
			ID:         r.ID,
			SurveyID:   r.SurveyID,
			Text:       r.Text,
			Type:       domain.QuestionType(r.QuestionType),
			Required:   r.Required,
			OrderIndex: r.OrderIndex,
			NextID:     r.NextID,
		}
		if err := json.Unmarshal([]byte(r.Options), &qu.Options); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(r.Conditionals), &qu.Conditionals); err != nil {
			return nil, err
		}
		out = append(out, qu)
	}
	return out, nil
}

// Save persists the survey's schedule state. Only ScheduledAt is ever
// advanced by the engine, so the update is deliberately narrow.
func (s *sqlStore) Save(ctx context.Context, sv domain.Survey) error {
	q := s.db.Rebind(`UPDATE surveys SET scheduled_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, msPtr(sv.ScheduledAt), sv.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	q := s.db.Rebind(`DELETE FROM surveys WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- recipients ----

func (s *sqlStore) InsertRecipient(ctx context.Context, r domain.Recipient) error {
	q := s.db.Rebind(`INSERT INTO recipients(
		id, username, email, phone, first_name, last_name, department, role, active, last_seen_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`)
	_, err := s.db.ExecContext(ctx, q,
		r.ID, r.Username, r.Email, r.Phone, r.FirstName, r.LastName,
		r.Department, string(r.Role), r.Active, msPtr(r.LastSeenAt))
	return err
}

func (s *sqlStore) FindByActivityWindow(ctx context.Context, cutoff time.Time) ([]domain.Recipient, error) {
	var rows []recipientRow
	q := s.db.Rebind(`SELECT * FROM recipients
		WHERE active = ? AND last_seen_at IS NOT NULL AND last_seen_at >= ?
		ORDER BY id`)
	if err := s.db.SelectContext(ctx, &rows, q, true, msOf(cutoff)); err != nil {
		return nil, err
	}
	return recipientRowsToDomain(rows), nil
}

func (s *sqlStore) FindByRoleAndDepartment(ctx context.Context, role domain.Role, department string) ([]domain.Recipient, error) {
	var rows []recipientRow
	var err error
	if department == "" {
		q := s.db.Rebind(`SELECT * FROM recipients WHERE active = ? AND role = ? ORDER BY id`)
		err = s.db.SelectContext(ctx, &rows, q, true, string(role))
	} else {
		q := s.db.Rebind(`SELECT * FROM recipients WHERE active = ? AND role = ? AND department = ? ORDER BY id`)
		err = s.db.SelectContext(ctx, &rows, q, true, string(role), department)
	}
	if err != nil {
		return nil, err
	}
	return recipientRowsToDomain(rows), nil
}

func recipientRowsToDomain(rows []recipientRow) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Recipient{
			ID:         r.ID,
			Username:   r.Username,
			Email:      r.Email,
			Phone:      r.Phone,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Department: r.Department,
			Role:       domain.Role(r.Role),
			Active:     r.Active,
			LastSeenAt: timePtr(r.LastSeenAt),
		})
	}
	return out
}

// ---- responses ----

func (s *sqlStore) Add(ctx context.Context, r domain.SurveyResponse) error {
	q := s.db.Rebind(`INSERT INTO responses(id, survey_id, respondent_id, status, submitted_at)
		VALUES(?,?,?,?,?)`)
	_, err := s.db.ExecContext(ctx, q,
		r.ID, r.SurveyID, r.RespondentID, string(r.Status), msOf(r.SubmittedAt))
	if err != nil {
		return err
	}
	for _, a := range r.Answers {
		aq := s.db.Rebind(`INSERT INTO answers(response_id, question_id, value) VALUES(?,?,?)`)
		if _, err := s.db.ExecContext(ctx, aq, r.ID, a.QuestionID, a.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlStore) FindBySurvey(ctx context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	var rows []responseRow
	q := s.db.Rebind(`SELECT * FROM responses WHERE survey_id = ? ORDER BY submitted_at`)
	if err := s.db.SelectContext(ctx, &rows, q, surveyID); err != nil {
		return nil, err
	}

	out := make([]domain.SurveyResponse, 0, len(rows))
	for _, r := range rows {
		var answers []answerRow
		aq := s.db.Rebind(`SELECT * FROM answers WHERE response_id = ?`)
		if err := s.db.SelectContext(ctx, &answers, aq, r.ID); err != nil {
			return nil, err
		}
		resp := domain.SurveyResponse{
			ID:           r.ID,
			SurveyID:     r.SurveyID,
			RespondentID: r.RespondentID,
			Status:       domain.ResponseStatus(r.Status),
			SubmittedAt:  timeOf(r.SubmittedAt),
		}
		for _, a := range answers {
			resp.Answers = append(resp.Answers, domain.Answer{QuestionID: a.QuestionID, Value: a.Value})
		}
		out = append(out, resp)
	}
	return out, nil
}

// ---- audit ----

func (s *sqlStore) AppendAudit(ctx context.Context, e AuditEntry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	q := s.db.Rebind(`INSERT INTO audit_log(at, actor_id, action, entity_type, entity_id, details)
		VALUES(?,?,?,?,?,?)`)
	_, err := s.db.ExecContext(ctx, q,
		msOf(e.At), e.ActorID, e.Action, e.EntityType, e.EntityID, e.Details)
	return err
}

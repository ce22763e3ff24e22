package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"surveyd/internal/domain"
)

// Memory is an in-process Store used in tests and for ephemeral runs.
// All methods are safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	surveys    map[string]domain.Survey
	recipients map[string]domain.Recipient
	responses  map[string][]domain.SurveyResponse // keyed by survey id
	audit      []AuditEntry
}

func NewMemory() *Memory {
	return &Memory{
		surveys:    map[string]domain.Survey{},
		recipients: map[string]domain.Recipient{},
		responses:  map[string][]domain.SurveyResponse{},
	}
}

var _ Store = (*Memory)(nil)

func (m *Memory) Close() error { return nil }

func (m *Memory) Insert(_ context.Context, s domain.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.surveys[s.ID] = s
	return nil
}

func (m *Memory) GetByID(_ context.Context, id string) (domain.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.surveys[id]
	if !ok {
		return domain.Survey{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) FindDue(_ context.Context, now time.Time) ([]domain.Survey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Survey
	for _, s := range m.surveys {
		if s.Status != domain.StatusActive {
			continue
		}
		switch {
		case s.ScheduledAt != nil && !s.ScheduledAt.After(now):
			out = append(out, s)
		case s.ScheduledAt == nil && !s.IsRecurring && s.TriggerKind == domain.TriggerManual:
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Save(_ context.Context, s domain.Survey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.surveys[s.ID]
	if !ok {
		return ErrNotFound
	}
	cur.ScheduledAt = s.ScheduledAt
	m.surveys[s.ID] = cur
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.surveys[id]; !ok {
		return ErrNotFound
	}
	delete(m.surveys, id)
	delete(m.responses, id)
	return nil
}

func (m *Memory) InsertRecipient(_ context.Context, r domain.Recipient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recipients[r.ID] = r
	return nil
}

func (m *Memory) FindByActivityWindow(_ context.Context, cutoff time.Time) ([]domain.Recipient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Recipient
	for _, r := range m.recipients {
		if !r.Active || r.LastSeenAt == nil {
			continue
		}
		if !r.LastSeenAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) FindByRoleAndDepartment(_ context.Context, role domain.Role, department string) ([]domain.Recipient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Recipient
	for _, r := range m.recipients {
		if !r.Active || r.Role != role {
			continue
		}
		if department != "" && r.Department != department {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Add(_ context.Context, r domain.SurveyResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[r.SurveyID] = append(m.responses[r.SurveyID], r)
	return nil
}

func (m *Memory) FindBySurvey(_ context.Context, surveyID string) ([]domain.SurveyResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.SurveyResponse, len(m.responses[surveyID]))
	copy(out, m.responses[surveyID])
	return out, nil
}

func (m *Memory) AppendAudit(_ context.Context, e AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.At.IsZero() {
		e.At = time.Now()
	}
	m.audit = append(m.audit, e)
	return nil
}

// AuditEntries returns a copy of the audit trail (test helper).
func (m *Memory) AuditEntries() []AuditEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]AuditEntry, len(m.audit))
	copy(out, m.audit)
	return out
}

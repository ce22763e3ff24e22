package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"surveyd/internal/domain"
)

func TestMemoryFindDueSemantics(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	ctx := context.Background()
	now := time.Date(2026, time.July, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	surveys := []domain.Survey{
		{ID: "a", Status: domain.StatusActive, ScheduledAt: &past},
		{ID: "b", Status: domain.StatusActive, ScheduledAt: &now}, // boundary: due
		{ID: "c", Status: domain.StatusActive, ScheduledAt: &future},
		{ID: "d", Status: domain.StatusDraft, ScheduledAt: &past},
		{ID: "e", Status: domain.StatusActive, TriggerKind: domain.TriggerManual},
		{ID: "f", Status: domain.StatusActive, IsRecurring: true}, // nil schedule, recurring: not due
	}
	for _, s := range surveys {
		if err := m.Insert(ctx, s); err != nil {
			t.Fatalf("insert %s: %v", s.ID, err)
		}
	}

	got, err := m.FindDue(ctx, now)
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	want := []string{"a", "b", "e"}
	if len(ids) != len(want) {
		t.Fatalf("FindDue = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("FindDue = %v, want %v", ids, want)
		}
	}
}

func TestMemorySaveUpdatesScheduleOnly(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	ctx := context.Background()

	if err := m.Insert(ctx, domain.Survey{ID: "a", Title: "Original", Status: domain.StatusActive}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	next := time.Date(2026, time.July, 3, 8, 0, 0, 0, time.UTC)
	if err := m.Save(ctx, domain.Survey{ID: "a", Title: "Changed", ScheduledAt: &next}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := m.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Original" {
		t.Fatalf("Title = %q, want Original", got.Title)
	}
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(next) {
		t.Fatalf("ScheduledAt = %v, want %v", got.ScheduledAt, next)
	}

	if err := m.Save(ctx, domain.Survey{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryAuditTrail(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	if err := m.AppendAudit(context.Background(), AuditEntry{Action: "surveys.create"}); err != nil {
		t.Fatalf("AppendAudit: %v", err)
	}
	entries := m.AuditEntries()
	if len(entries) != 1 || entries[0].Action != "surveys.create" {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0].At.IsZero() {
		t.Fatal("expected At to be stamped")
	}
}

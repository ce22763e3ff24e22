package audit

import (
	"context"
	"testing"

	"surveyd/internal/store"
	"surveyd/pkg/logx"
)

func TestRecordAppendsEntry(t *testing.T) {
	t.Parallel()
	mem := store.NewMemory()
	r := NewRecorder(mem, logx.Nop())

	r.Record(context.Background(), "admin-1", "surveys.create", "survey", "sv-1", "created")

	entries := mem.AuditEntries()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.ActorID != "admin-1" || e.Action != "surveys.create" || e.EntityID != "sv-1" {
		t.Fatalf("unexpected entry: %+v", e)
	}
	if e.At.IsZero() {
		t.Fatal("expected timestamp to be stamped")
	}
}

func TestRecordNilStoreIsNoOp(t *testing.T) {
	t.Parallel()
	r := NewRecorder(nil, logx.Nop())
	// Must not panic.
	r.Record(context.Background(), "admin-1", "surveys.create", "survey", "sv-1", "")
}

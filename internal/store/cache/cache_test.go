package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"surveyd/internal/domain"
	"surveyd/internal/store"
	"surveyd/pkg/logx"
)

// countingStore wraps the memory store and counts inner reads.
type countingStore struct {
	*store.Memory

	mu   sync.Mutex
	gets int
}

func (c *countingStore) GetByID(ctx context.Context, id string) (domain.Survey, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Memory.GetByID(ctx, id)
}

func (c *countingStore) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func TestGetByIDCachesReads(t *testing.T) {
	t.Parallel()
	inner := &countingStore{Memory: store.NewMemory()}
	c := New(inner, time.Minute, logx.Nop())

	sv := domain.Survey{ID: "sv-1", Title: "Cached", Status: domain.StatusActive}
	if err := c.Insert(context.Background(), sv); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetByID(context.Background(), "sv-1")
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if got.Title != "Cached" {
			t.Fatalf("Title = %q, want Cached", got.Title)
		}
	}
	if inner.getCount() != 1 {
		t.Fatalf("inner reads = %d, want 1", inner.getCount())
	}
}

func TestSaveInvalidatesEntry(t *testing.T) {
	t.Parallel()
	inner := &countingStore{Memory: store.NewMemory()}
	c := New(inner, time.Minute, logx.Nop())

	next := time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)
	sv := domain.Survey{ID: "sv-1", Title: "S", Status: domain.StatusActive}
	if err := c.Insert(context.Background(), sv); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := c.GetByID(context.Background(), "sv-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	sv.ScheduledAt = &next
	if err := c.Save(context.Background(), sv); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := c.GetByID(context.Background(), "sv-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ScheduledAt == nil || !got.ScheduledAt.Equal(next) {
		t.Fatalf("ScheduledAt = %v, want %v after invalidation", got.ScheduledAt, next)
	}
	if inner.getCount() != 2 {
		t.Fatalf("inner reads = %d, want 2 (one before, one after save)", inner.getCount())
	}
}

func TestDeleteInvalidatesEntry(t *testing.T) {
	t.Parallel()
	inner := &countingStore{Memory: store.NewMemory()}
	c := New(inner, time.Minute, logx.Nop())

	sv := domain.Survey{ID: "sv-1", Title: "S", Status: domain.StatusActive}
	if err := c.Insert(context.Background(), sv); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := c.GetByID(context.Background(), "sv-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if err := c.Delete(context.Background(), "sv-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.GetByID(context.Background(), "sv-1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestExpiredEntryRefetches(t *testing.T) {
	t.Parallel()
	inner := &countingStore{Memory: store.NewMemory()}
	c := New(inner, 10*time.Millisecond, logx.Nop())

	sv := domain.Survey{ID: "sv-1", Title: "S", Status: domain.StatusActive}
	if err := c.Insert(context.Background(), sv); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := c.GetByID(context.Background(), "sv-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	time.Sleep(25 * time.Millisecond)
	if _, err := c.GetByID(context.Background(), "sv-1"); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if inner.getCount() != 2 {
		t.Fatalf("inner reads = %d, want 2 after TTL expiry", inner.getCount())
	}
}

func TestFindDueBypassesCache(t *testing.T) {
	t.Parallel()
	inner := &countingStore{Memory: store.NewMemory()}
	c := New(inner, time.Minute, logx.Nop())

	now := time.Now().UTC()
	due := now.Add(-time.Minute)
	sv := domain.Survey{ID: "sv-1", Title: "S", Status: domain.StatusActive, ScheduledAt: &due}
	if err := c.Insert(context.Background(), sv); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := c.FindDue(context.Background(), now)
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindDue = %v, want one survey", got)
	}
}

package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countSink struct {
	emails atomic.Int64
	sms    atomic.Int64
}

func (c *countSink) SendEmail(context.Context, string, string, string) error {
	c.emails.Add(1)
	return nil
}

func (c *countSink) SendSMS(context.Context, string, string) error {
	c.sms.Add(1)
	return nil
}

func TestThrottledPassesThrough(t *testing.T) {
	t.Parallel()
	inner := &countSink{}
	s := NewThrottled(inner, 1000)

	ctx := context.Background()
	if err := s.SendEmail(ctx, "a@example.org", "subj", "body"); err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if err := s.SendSMS(ctx, "+100", "body"); err != nil {
		t.Fatalf("SendSMS: %v", err)
	}
	if inner.emails.Load() != 1 || inner.sms.Load() != 1 {
		t.Fatalf("emails=%d sms=%d, want 1/1", inner.emails.Load(), inner.sms.Load())
	}
}

func TestThrottledDisabledWithZeroRate(t *testing.T) {
	t.Parallel()
	inner := &countSink{}
	s := NewThrottled(inner, 0)

	for i := 0; i < 100; i++ {
		if err := s.SendEmail(context.Background(), "a@example.org", "s", "b"); err != nil {
			t.Fatalf("SendEmail: %v", err)
		}
	}
	if inner.emails.Load() != 100 {
		t.Fatalf("emails = %d, want 100", inner.emails.Load())
	}
}

func TestThrottledHonorsContext(t *testing.T) {
	t.Parallel()
	inner := &countSink{}
	s := NewThrottled(inner, 1) // burst of 1, then waits

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.SendEmail(ctx, "a@example.org", "s", "b"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	cancel()
	if err := s.SendEmail(ctx, "a@example.org", "s", "b"); err == nil {
		t.Fatal("expected context error once cancelled")
	}
	if inner.emails.Load() != 1 {
		t.Fatalf("emails = %d, want 1", inner.emails.Load())
	}
}

func TestThrottledSlowsBursts(t *testing.T) {
	t.Parallel()
	inner := &countSink{}
	s := NewThrottled(inner, 10)

	start := time.Now()
	for i := 0; i < 15; i++ {
		if err := s.SendSMS(context.Background(), "+100", "b"); err != nil {
			t.Fatalf("SendSMS: %v", err)
		}
	}
	// 10 burst tokens, then 5 more at 10/s: at least ~400ms of waiting.
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("burst of 15 at 10/s finished in %v, throttle not applied", elapsed)
	}
}

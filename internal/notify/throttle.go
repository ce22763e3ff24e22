package notify

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttled wraps a Sink with a shared token bucket so bulk sends cannot
// overrun a provider's rate limit. Waits respect the caller's context, so a
// cancelled run stops queueing sends immediately.
type Throttled struct {
	inner   Sink
	limiter *rate.Limiter
}

// NewThrottled caps sends at perSec with a burst of the same size.
// perSec <= 0 disables throttling.
func NewThrottled(inner Sink, perSec int) Throttled {
	var limiter *rate.Limiter
	if perSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
	}
	return Throttled{inner: inner, limiter: limiter}
}

func (t Throttled) SendEmail(ctx context.Context, address, subject, body string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.SendEmail(ctx, address, subject, body)
}

func (t Throttled) SendSMS(ctx context.Context, address, body string) error {
	if err := t.wait(ctx); err != nil {
		return err
	}
	return t.inner.SendSMS(ctx, address, body)
}

func (t Throttled) wait(ctx context.Context) error {
	if t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}

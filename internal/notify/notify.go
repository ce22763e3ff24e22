// Package notify defines the notification sink the delivery engine speaks to.
//
// Sends are fire-and-forget from the engine's perspective: the sink reports
// an error for the individual send and the engine records it, but sink-level
// delivery guarantees (provider retries, bounces) live outside this core.
package notify

import (
	"context"

	"surveyd/pkg/logx"
)

// Sink delivers rendered messages over a channel.
type Sink interface {
	SendEmail(ctx context.Context, address, subject, body string) error
	SendSMS(ctx context.Context, address, body string) error
}

// LogSink writes every send to the log instead of a provider. It stands in
// for the real gateway in development and tests.
type LogSink struct {
	log logx.Logger
}

func NewLogSink(log logx.Logger) LogSink {
	if log.IsZero() {
		log = logx.Nop()
	}
	return LogSink{log: log}
}

func (s LogSink) SendEmail(_ context.Context, address, subject, body string) error {
	s.log.Info("email sent",
		logx.String("to", address),
		logx.String("subject", subject),
		logx.Int("body_len", len(body)),
	)
	return nil
}

func (s LogSink) SendSMS(_ context.Context, address, body string) error {
	s.log.Info("sms sent",
		logx.String("to", address),
		logx.Int("body_len", len(body)),
	)
	return nil
}

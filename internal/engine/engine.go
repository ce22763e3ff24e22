package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"surveyd/internal/audience"
	"surveyd/internal/domain"
	"surveyd/internal/notify"
	"surveyd/internal/render"
	"surveyd/internal/schedule"
	"surveyd/internal/store"
	"surveyd/pkg/logx"
)

// Config controls the delivery engine.
type Config struct {
	// Workers bounds per-survey parallelism within one run.
	Workers int
}

// Engine orchestrates one delivery pass over all due surveys.
type Engine struct {
	surveys  store.SurveyStore
	resolver audience.Resolver
	sink     notify.Sink
	renderer render.Renderer
	log      logx.Logger
	workers  int
}

func New(cfg Config, surveys store.SurveyStore, resolver audience.Resolver, sink notify.Sink, renderer render.Renderer, log logx.Logger) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Engine{
		surveys:  surveys,
		resolver: resolver,
		sink:     sink,
		renderer: renderer,
		log:      log,
		workers:  workers,
	}
}

// RunOnce performs a single delivery pass at the given tick time.
// Nothing escapes as an unhandled fault; every failure lands in the report.
func (e *Engine) RunOnce(ctx context.Context, now time.Time) Report {
	wallStart := time.Now()
	b := &reportBuilder{report: Report{Started: now}}

	due, err := e.surveys.FindDue(ctx, now)
	if err != nil {
		b.addErrors(SurveyError{Stage: StageSelect, Err: err})
		b.report.Duration = time.Since(wallStart)
		return b.report
	}
	b.report.SurveysExamined = len(due)
	if len(due) == 0 {
		b.report.Duration = time.Since(wallStart)
		return b.report
	}

	workers := e.workers
	if workers > len(due) {
		workers = len(due)
	}

	queue := make(chan domain.Survey)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range queue {
				e.processOne(ctx, now, s, b)
			}
		}()
	}

	for _, s := range due {
		queue <- s
	}
	close(queue)
	wg.Wait()

	// Stable error order for report consumers.
	sort.Slice(b.report.Errors, func(i, j int) bool {
		if b.report.Errors[i].SurveyID != b.report.Errors[j].SurveyID {
			return b.report.Errors[i].SurveyID < b.report.Errors[j].SurveyID
		}
		return b.report.Errors[i].Stage < b.report.Errors[j].Stage
	})
	b.report.Duration = time.Since(wallStart)
	return b.report
}

// processOne handles a single survey with full isolation: errors and panics
// are converted to report entries.
func (e *Engine) processOne(ctx context.Context, now time.Time, s domain.Survey, b *reportBuilder) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic processing survey",
				logx.String("survey", s.ID),
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())),
			)
			b.addErrors(SurveyError{SurveyID: s.ID, Stage: StagePanic, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	switch {
	case s.TriggerKind == domain.TriggerPostVisit:
		e.processPostVisit(ctx, now, s, b)
	case s.IsRecurring:
		e.processRecurring(ctx, now, s, b)
	default:
		e.processOneTime(ctx, s, b)
	}
}

// processPostVisit sends to patients seen within the trigger window.
// Post-visit surveys are not rescheduled.
func (e *Engine) processPostVisit(ctx context.Context, now time.Time, s domain.Survey, b *reportBuilder) {
	window, err := schedule.ParseWindow(s.TriggerMetadata)
	if err != nil {
		b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageSchedule,
			Err: fmt.Errorf("%w: %v", ErrMalformedSchedule, err)})
		return
	}

	recipients, err := e.resolver.RecentPatients(ctx, window, now)
	if err != nil {
		b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageAudience,
			Err: fmt.Errorf("%w: %v", ErrResolveAudience, err)})
		return
	}

	e.deliver(ctx, s, recipients, b)
}

// processRecurring fires exactly once for a due recurring survey, then
// advances the schedule. If the rule computes a time still in the past, the
// engine does not loop to catch up: it fires once per tick until the
// schedule is ahead of the clock again.
func (e *Engine) processRecurring(ctx context.Context, now time.Time, s domain.Survey, b *reportBuilder) {
	if s.Recurrence == nil {
		b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageSchedule,
			Err: fmt.Errorf("%w: recurring survey has no recurrence rule", ErrMalformedSchedule)})
		return
	}

	last := now
	if s.ScheduledAt != nil {
		last = *s.ScheduledAt
	}
	next := schedule.NextAfter(*s.Recurrence, last)

	if !e.processOneTime(ctx, s, b) {
		// Audience resolution failed: leave the schedule untouched so the
		// survey is retried on the next tick.
		return
	}

	s.ScheduledAt = &next
	if err := e.surveys.Save(ctx, s); err != nil {
		b.addErrors(SurveyError{SurveyID: s.ID, Stage: StagePersist, Err: err})
		return
	}
	e.log.Debug("recurring survey rescheduled",
		logx.String("survey", s.ID),
		logx.Time("next", next),
	)
}

// processOneTime resolves the department-or-all patient audience and sends.
// It reports whether the send pass ran (audience resolved), not whether
// every individual dispatch succeeded.
func (e *Engine) processOneTime(ctx context.Context, s domain.Survey, b *reportBuilder) bool {
	recipients, err := e.resolver.TargetPatients(ctx, s.Department)
	if err != nil {
		b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageAudience,
			Err: fmt.Errorf("%w: %v", ErrResolveAudience, err)})
		return false
	}
	e.deliver(ctx, s, recipients, b)
	return true
}

// deliver renders and dispatches to each recipient. Dispatch errors are
// per-recipient: one failed send never blocks the rest of the audience.
func (e *Engine) deliver(ctx context.Context, s domain.Survey, recipients []domain.Recipient, b *reportBuilder) {
	ns := s.Notifications
	if !ns.SendEmail && !ns.SendSMS {
		// A delivery policy with no channels is a no-op, not an error.
		e.log.Debug("survey has no notification channels", logx.String("survey", s.ID))
		return
	}

	sent := 0
	for _, rcpt := range recipients {
		if ns.SendEmail {
			body := e.renderer.Message(ns.EmailTemplate, s, rcpt)
			if err := e.sink.SendEmail(ctx, rcpt.Email, s.Title, body); err != nil {
				b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageDispatch,
					Err: fmt.Errorf("%w: email to %s: %v", ErrDispatch, rcpt.ID, err)})
			} else {
				sent++
			}
		}
		if ns.SendSMS {
			body := e.renderer.Message(ns.SMSTemplate, s, rcpt)
			if err := e.sink.SendSMS(ctx, rcpt.Phone, body); err != nil {
				b.addErrors(SurveyError{SurveyID: s.ID, Stage: StageDispatch,
					Err: fmt.Errorf("%w: sms to %s: %v", ErrDispatch, rcpt.ID, err)})
			} else {
				sent++
			}
		}
	}
	b.addSent(sent)
}

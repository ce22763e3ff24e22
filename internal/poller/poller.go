// Package poller drives the delivery engine on a fixed interval.
//
// Exactly one RunOnce is in flight at a time: if a tick fires while the
// previous run is still executing, that tick is skipped rather than queued,
// so a slow run can never build a backlog of overlapping runs. A panic
// escaping the engine is recovered here; a single bad tick must not
// terminate the scheduler process.
package poller

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"surveyd/internal/engine"
	"surveyd/pkg/logx"
)

// Config controls the poll loop.
type Config struct {
	// Interval between ticks. Defaults to one minute.
	Interval time.Duration
	// StopGrace bounds how long Stop waits for an in-flight run.
	StopGrace time.Duration
}

// Runner is the single-tick contract the poller drives.
type Runner interface {
	RunOnce(ctx context.Context, now time.Time) engine.Report
}

// ReportFunc receives the report of every completed run.
type ReportFunc func(ctx context.Context, r engine.Report)

type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	runner   Runner
	onReport ReportFunc

	c         *cron.Cron
	runCtx    context.Context
	runCancel context.CancelFunc
	runWG     sync.WaitGroup

	// tickMu guards running for the overlap-skip policy.
	tickMu  sync.Mutex
	running bool

	skipped uint64
}

func New(cfg Config, runner Runner, onReport ReportFunc, log logx.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 30 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{cfg: cfg, runner: runner, onReport: onReport, log: log}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return nil
	}

	s.runCtx, s.runCancel = context.WithCancel(ctx)

	c := cron.New()
	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		s.runCancel()
		s.runCtx, s.runCancel = nil, nil
		return err
	}
	s.c = c
	c.Start()
	s.log.Info("poller started", logx.Duration("interval", s.cfg.Interval))
	return nil
}

// Stop stops scheduling new ticks and waits (bounded) for the in-flight run.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	cancel := s.runCancel
	s.c = nil
	s.runCtx, s.runCancel = nil, nil
	s.mu.Unlock()
	if c == nil {
		return
	}

	<-c.Stop().Done()

	done := make(chan struct{})
	go func() {
		s.runWG.Wait()
		close(done)
	}()

	grace := s.cfg.StopGrace
	if dl, ok := ctx.Deadline(); ok {
		if until := time.Until(dl); until < grace {
			grace = until
		}
	}

	select {
	case <-done:
	case <-time.After(grace):
		// Abort the in-flight run rather than hanging shutdown.
		if cancel != nil {
			cancel()
		}
		<-done
	}
	s.log.Info("poller stopped", logx.Int64("ticks_skipped", int64(s.skippedCount())))
}

// Apply restarts the loop with a new interval. No-op when not running or
// when the interval is unchanged.
func (s *Service) Apply(cfg Config) error {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 30 * time.Second
	}

	s.mu.Lock()
	changed := cfg.Interval != s.cfg.Interval
	running := s.c != nil
	parent := s.runCtx
	s.cfg = cfg
	s.mu.Unlock()

	if !changed || !running {
		return nil
	}

	// Swap the cron without cancelling the in-flight run.
	s.mu.Lock()
	old := s.c
	c := cron.New()
	spec := fmt.Sprintf("@every %s", cfg.Interval)
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		s.mu.Unlock()
		return err
	}
	s.c = c
	s.mu.Unlock()

	if old != nil {
		<-old.Stop().Done()
	}
	c.Start()
	_ = parent
	s.log.Info("poll interval changed", logx.Duration("interval", cfg.Interval))
	return nil
}

// TickNow runs one delivery pass immediately, honoring the overlap policy.
func (s *Service) TickNow() { s.tick() }

func (s *Service) tick() {
	s.tickMu.Lock()
	if s.running {
		s.skipped++
		skipped := s.skipped
		s.tickMu.Unlock()
		s.log.Warn("tick skipped, previous run still in flight", logx.Int64("total_skipped", int64(skipped)))
		return
	}
	s.running = true
	s.tickMu.Unlock()

	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	s.runWG.Add(1)
	defer s.runWG.Done()
	defer func() {
		s.tickMu.Lock()
		s.running = false
		s.tickMu.Unlock()
	}()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in delivery run",
				logx.Any("panic", r),
				logx.String("stack", string(debug.Stack())),
			)
		}
	}()

	now := time.Now().UTC()
	report := s.runner.RunOnce(ctx, now)

	if s.onReport != nil {
		s.onReport(ctx, report)
	}
}

func (s *Service) skippedCount() uint64 {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	return s.skipped
}

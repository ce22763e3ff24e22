package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"surveyd/internal/audience"
	"surveyd/internal/audit"
	"surveyd/internal/config"
	"surveyd/internal/engine"
	"surveyd/internal/notify"
	"surveyd/internal/poller"
	"surveyd/internal/render"
	"surveyd/internal/secure"
	"surveyd/internal/store"
	"surveyd/internal/store/cache"
	"surveyd/pkg/logx"
)

type App struct {
	cfgPath string
	cfgm    *config.Manager

	log  logx.Logger
	logs *logx.Service

	st      store.Store
	surveys store.SurveyStore

	eng    *engine.Engine
	poll   *poller.Service
	aud    audit.Recorder
	tokens *secure.TokenStore

	bg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	durs, err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))
	cfgm.SetLogger(log.With(logx.String("comp", "config")))

	st, err := store.Open(store.Config{
		Driver:      cfg.Store.Driver,
		Path:        cfg.Store.Path,
		DSN:         cfg.Store.DSN,
		BusyTimeout: durs.BusyTimeout,
	}, log.With(logx.String("comp", "store")))
	if err != nil {
		_ = logSvc.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	var surveys store.SurveyStore = st
	if cfg.Cache.Enabled {
		surveys = cache.New(st, durs.CacheTTL, log.With(logx.String("comp", "cache")))
	}

	resolver := audience.NewResolver(st)
	renderer := render.New(cfg.Engine.LinkBase)
	sink := notify.NewThrottled(
		notify.NewLogSink(log.With(logx.String("comp", "notify"))),
		cfg.Notify.RatePerSec,
	)

	eng := engine.New(engine.Config{Workers: cfg.Engine.Workers},
		surveys, resolver, sink, renderer,
		log.With(logx.String("comp", "engine")))

	aud := audit.NewRecorder(st, log.With(logx.String("comp", "audit")))

	a := &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		log:     log,
		logs:    logSvc,
		st:      st,
		surveys: surveys,
		eng:     eng,
		aud:     aud,
		tokens: secure.NewTokenStore(secure.TokenStoreConfig{
			TTL:        durs.TokenTTL,
			MaxEntries: cfg.Security.TokenMaxEntries,
		}),
	}

	a.poll = poller.New(poller.Config{
		Interval:  durs.PollInterval,
		StopGrace: durs.StopGrace,
	}, eng, a.onReport, log.With(logx.String("comp", "poller")))

	return a, nil
}

func (a *App) Engine() *engine.Engine     { return a.eng }
func (a *App) Store() store.Store         { return a.st }
func (a *App) Tokens() *secure.TokenStore { return a.tokens }
func (a *App) Config() *config.Config     { return a.cfgm.Get() }

// onReport runs after every delivery pass. Non-empty passes land in the
// audit trail; error details were already logged by the engine.
func (a *App) onReport(ctx context.Context, r engine.Report) {
	a.log.Info("delivery pass finished",
		logx.Int("examined", r.SurveysExamined),
		logx.Int("sent", r.NotificationsSent),
		logx.Int("errors", len(r.Errors)),
		logx.Duration("took", r.Duration),
	)
	if r.SurveysExamined == 0 && !r.Failed() {
		return
	}
	a.aud.Record(ctx, "system", "engine.run", "engine", "",
		fmt.Sprintf("examined=%d sent=%d errors=%d", r.SurveysExamined, r.NotificationsSent, len(r.Errors)))
}

func (a *App) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	cfg := a.cfgm.Get()
	if cfg.Scheduler.Enabled {
		if err := a.poll.Start(runCtx); err != nil {
			cancel()
			return err
		}
	} else {
		a.log.Warn("scheduler disabled; surveys will not be delivered")
	}

	// Config hot reload: logging level and poll interval apply live.
	sub := a.cfgm.Subscribe(8)
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		defer a.cfgm.Unsubscribe(sub)
		for {
			select {
			case <-runCtx.Done():
				return
			case newCfg, ok := <-sub:
				if !ok {
					return
				}
				a.applyConfig(newCfg)
			}
		}
	}()

	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		if err := a.cfgm.Watch(runCtx); err != nil {
			a.log.Warn("config watch stopped", logx.Err(err))
		}
	}()

	a.log.Info("app started", logx.String("config", a.cfgPath))
	return nil
}

func (a *App) applyConfig(cfg *config.Config) {
	durs, err := cfg.Validate()
	if err != nil {
		// Manager validates before publishing, so this is unexpected.
		a.log.Warn("reloaded config rejected", logx.Err(err))
		return
	}

	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	if err := a.poll.Apply(poller.Config{
		Interval:  durs.PollInterval,
		StopGrace: durs.StopGrace,
	}); err != nil {
		a.log.Warn("poll interval update failed", logx.Err(err))
	}

	a.log.Info("config applied",
		logx.String("level", cfg.Logging.Level),
		logx.Duration("poll_interval", durs.PollInterval),
	)
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("stopping")

	a.poll.Stop(ctx)

	if a.cancel != nil {
		a.cancel()
	}

	done := make(chan struct{})
	go func() {
		a.bg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
	}

	if err := a.st.Close(); err != nil {
		a.log.Warn("store close failed", logx.Err(err))
	}
	a.log.Info("stopped")
	return a.logs.Close()
}

package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/certwatch/docsite/internal/build"
	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/events"
	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/state"
)

// Daemon runs continuous documentation builds: an initial build at startup,
// scheduled periodic rebuilds, and config-triggered reloads. Build events are
// optionally published to NATS.
type Daemon struct {
	mu         sync.Mutex
	cfg        *config.Config
	configPath string
	runCtx     context.Context // set by Start; cancels reload-triggered builds too
	rec        metrics.Recorder
	store      *state.Store
	workspace  string

	scheduler *Scheduler
	watcher   *ConfigWatcher
	publisher *events.Publisher
}

// New creates a daemon. store may be nil; events are connected lazily on
// Start when enabled.
func New(cfg *config.Config, configPath string, rec metrics.Recorder, store *state.Store, workspaceDir string) (*Daemon, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	scheduler, err := NewScheduler()
	if err != nil {
		return nil, err
	}
	d := &Daemon{
		cfg:        cfg,
		configPath: configPath,
		rec:        rec,
		store:      store,
		workspace:  workspaceDir,
		scheduler:  scheduler,
	}
	d.watcher, err = NewConfigWatcher(configPath, d.reloadConfig)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Start runs the daemon until ctx is canceled.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	d.runCtx = ctx
	d.mu.Unlock()

	cfg := d.currentConfig()

	if cfg.Daemon.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Daemon.Events)
		if err != nil {
			return err
		}
		d.publisher = pub
	}

	d.runBuild(ctx, "startup")

	if interval := cfg.Daemon.RebuildInterval; interval != "" {
		dur, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("parse daemon.rebuild_interval %q: %w", interval, err)
		}
		jobID, err := d.scheduler.SchedulePeriodicRebuild(dur, func() {
			d.rec.IncRebuildTrigger("schedule")
			d.runBuild(ctx, "schedule")
		})
		if err != nil {
			return err
		}
		slog.Info("Scheduled periodic rebuild", slog.String("job_id", jobID), slog.Duration("interval", dur))
		d.scheduler.Start()
	}

	if err := d.watcher.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

// Stop shuts the daemon down gracefully.
func (d *Daemon) Stop(ctx context.Context) error {
	if err := d.scheduler.Stop(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
	}
	if err := d.watcher.Stop(); err != nil {
		slog.Warn("Config watcher shutdown error", logfields.Error(err))
	}
	d.publisher.Close()
	return nil
}

// runBuild executes one build and publishes its outcome.
func (d *Daemon) runBuild(ctx context.Context, trigger string) {
	cfg := d.currentConfig()
	builder := build.NewBuilder(cfg, d.rec, d.store, d.workspace)

	slog.Info("Daemon build starting", slog.String("trigger", trigger))
	started := time.Now()
	report, err := builder.Run(ctx, build.Options{Incremental: true})

	ev := events.BuildEvent{Timestamp: time.Now().UTC()}
	if err != nil {
		slog.Error("Daemon build failed", slog.String("trigger", trigger), logfields.Error(err))
		ev.Outcome = string(metrics.OutcomeFailed)
		ev.Error = err.Error()
		ev.DurationMS = time.Since(started).Milliseconds()
	} else {
		ev.BuildID = report.BuildID
		ev.Outcome = string(metrics.OutcomeSuccess)
		ev.Pages = report.Pages
		ev.DurationMS = report.Duration.Milliseconds()
	}
	d.publisher.Publish(ev)
}

// reloadConfig re-reads the config file and swaps it in for future builds,
// then rebuilds immediately. A broken config keeps the previous one active.
func (d *Daemon) reloadConfig() {
	cfg, err := config.Load(d.configPath)
	if err != nil {
		slog.Error("Config reload failed; keeping previous configuration", logfields.Error(err))
		return
	}
	d.mu.Lock()
	d.cfg = cfg
	d.mu.Unlock()

	d.rec.IncRebuildTrigger("config")
	d.runBuild(d.buildContext(), "config-reload")
}

func (d *Daemon) currentConfig() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// buildContext returns the run context handed to Start, so shutdown cancels
// reload-triggered builds the same way it cancels scheduled ones.
func (d *Daemon) buildContext() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.runCtx != nil {
		return d.runCtx
	}
	return context.Background()
}

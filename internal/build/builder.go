package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/content"
	"github.com/certwatch/docsite/internal/gitsync"
	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/render"
	"github.com/certwatch/docsite/internal/state"
)

// Builder runs one documentation build end to end: source sync, discovery,
// rendering, and state bookkeeping.
type Builder struct {
	cfg          *config.Config
	rec          metrics.Recorder
	store        *state.Store // optional; nil disables incremental decisions
	workspaceDir string
}

// Options tunes a single build run.
type Options struct {
	// Incremental skips rendering entirely when the docs-set hash matches the
	// last recorded build. Requires a state store.
	Incremental bool
}

// Report summarizes one build run.
type Report struct {
	BuildID  string
	Pages    int
	Assets   int
	Duration time.Duration
	SetHash  string
	Changed  []string
	Skipped  bool
}

// NewBuilder creates a builder. rec and store may be nil.
func NewBuilder(cfg *config.Config, rec metrics.Recorder, store *state.Store, workspaceDir string) *Builder {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Builder{cfg: cfg, rec: rec, store: store, workspaceDir: workspaceDir}
}

// Run executes a build and records its outcome.
func (b *Builder) Run(ctx context.Context, opts Options) (*Report, error) {
	report := &Report{BuildID: uuid.NewString()}
	started := time.Now()

	res, err := b.run(ctx, opts, report)
	report.Duration = time.Since(started)
	b.rec.ObserveBuildDuration(report.Duration)

	outcome := metrics.OutcomeSuccess
	errText := ""
	switch {
	case err == nil:
	case ctx.Err() != nil:
		outcome = metrics.OutcomeCanceled
		errText = err.Error()
	default:
		outcome = metrics.OutcomeFailed
		errText = err.Error()
	}
	b.rec.IncBuildOutcome(outcome)

	if b.store != nil && !report.Skipped {
		pages := 0
		if res != nil {
			pages = res.Pages
		}
		recErr := b.store.RecordBuild(ctx, state.BuildRecord{
			ID:        report.BuildID,
			StartedAt: started,
			Duration:  report.Duration,
			Pages:     pages,
			Outcome:   string(outcome),
			Error:     errText,
		})
		if recErr != nil {
			slog.Warn("Failed to record build", logfields.BuildID(report.BuildID), logfields.Error(recErr))
		}
	}

	if err != nil {
		return nil, err
	}
	if res != nil {
		report.Pages = res.Pages
		report.Assets = res.Assets
	}
	slog.Info("Build finished",
		logfields.BuildID(report.BuildID),
		slog.Int("pages", report.Pages),
		slog.Bool("skipped", report.Skipped),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func (b *Builder) run(ctx context.Context, opts Options, report *Report) (*render.Result, error) {
	docsDir, err := b.resolveDocsDir()
	if err != nil {
		return nil, err
	}

	discoverStart := time.Now()
	pages, err := content.NewDiscovery(docsDir, b.cfg.Sidebar.Ignore).Discover()
	if err != nil {
		return nil, err
	}
	b.rec.ObserveStageDuration("discover", time.Since(discoverStart))

	for i := range pages {
		if err := pages[i].Load(); err != nil {
			return nil, err
		}
	}
	manifest, err := content.BuildManifest(pages)
	if err != nil {
		return nil, err
	}
	report.SetHash = manifest.Hash

	if opts.Incremental && b.store != nil {
		prev, err := b.store.LatestManifest(ctx)
		if err != nil {
			return nil, err
		}
		report.Changed = manifest.Changed(prev)
		if prev != nil && len(report.Changed) == 0 {
			slog.Info("Docs unchanged since last build; skipping render", slog.String("set_hash", manifest.Hash))
			report.Skipped = true
			return nil, nil
		}
	}

	renderer, err := render.New(b.cfg, b.cfg.Output.Dir, b.rec)
	if err != nil {
		return nil, err
	}
	res, err := renderer.Render(ctx, pages)
	if err != nil {
		return nil, err
	}

	if b.store != nil {
		if err := b.store.SaveManifest(ctx, report.BuildID, manifest); err != nil {
			slog.Warn("Failed to save manifest", logfields.BuildID(report.BuildID), logfields.Error(err))
		}
	}
	return res, nil
}

// resolveDocsDir syncs the source repository when one is configured, or uses
// the local source directory.
func (b *Builder) resolveDocsDir() (string, error) {
	if b.cfg.Source.URL == "" {
		return b.cfg.Source.Dir, nil
	}
	syncStart := time.Now()
	docsDir, err := gitsync.NewClient(b.workspaceDir).Sync(b.cfg.Source)
	if err != nil {
		return "", err
	}
	b.rec.ObserveStageDuration("sync", time.Since(syncStart))
	return docsDir, nil
}

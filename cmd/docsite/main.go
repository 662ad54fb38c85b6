package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"github.com/certwatch/docsite/internal/build"
	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/daemon"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/server"
	"github.com/certwatch/docsite/internal/state"
	"github.com/certwatch/docsite/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"site.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output      string `short:"o" help:"Output directory override"`
		Incremental bool   `short:"i" help:"Skip rendering when docs are unchanged since the last build"`
		StateDB     string `help:"SQLite state database path (enables build history and incremental decisions)"`
	} `cmd:"" help:"Build the documentation site"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Discover struct{} `cmd:"" help:"List documentation files in sidebar order without building"`

	Preview struct {
		Port int `short:"p" help:"HTTP port" default:"8080"`
	} `cmd:"" help:"Serve the site locally and rebuild on changes"`

	Daemon struct {
		StateDB string `help:"SQLite state database path" default:"./docsite.db"`
	} `cmd:"" help:"Run continuous builds with scheduling and config reload"`

	Check struct{} `cmd:"" help:"Verify internal links in the rendered site"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "build":
		if err := runBuild(); err != nil {
			slog.Error("Build failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration written", "path", CLI.Config)
	case "discover":
		if err := runDiscover(); err != nil {
			slog.Error("Discover failed", "error", err)
			os.Exit(1)
		}
	case "preview":
		if err := runPreview(); err != nil {
			slog.Error("Preview failed", "error", err)
			os.Exit(1)
		}
	case "daemon":
		if err := runDaemon(); err != nil {
			slog.Error("Daemon failed", "error", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			slog.Error("Check failed", "error", err)
			os.Exit(1)
		}
	case "version":
		slog.Info("docsite",
			"version", version.Version,
			"commit", version.GitCommit,
			"built", version.BuildTime)
	}
}

func runBuild() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}
	if CLI.Build.Output != "" {
		cfg.Output.Dir = CLI.Build.Output
	}

	var store *state.Store
	if CLI.Build.StateDB != "" {
		store, err = state.Open(CLI.Build.StateDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	workspace, err := os.MkdirTemp("", "docsite-workspace-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(workspace) }()

	builder := build.NewBuilder(cfg, nil, store, workspace)
	_, err = builder.Run(context.Background(), build.Options{Incremental: CLI.Build.Incremental})
	return err
}

func runPreview() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	var promRec *metrics.PrometheusRecorder
	if cfg.Metrics.Enabled {
		promRec = metrics.NewPrometheusRecorder(nil)
		rec = promRec
	}

	builder := build.NewBuilder(cfg, rec, nil, "")
	return server.StartPreview(ctx, cfg, builder, rec, promRec, CLI.Preview.Port)
}

func runDaemon() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		rec = metrics.NewPrometheusRecorder(nil)
	}

	store, err := state.Open(CLI.Daemon.StateDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	workspace, err := os.MkdirTemp("", "docsite-workspace-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.RemoveAll(workspace) }()

	d, err := daemon.New(cfg, CLI.Config, rec, store, workspace)
	if err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() { errChan <- d.Start(ctx) }()

	slog.Info("Daemon started, waiting for shutdown signal...")
	select {
	case err := <-errChan:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		slog.Info("Shutdown signal received, stopping daemon...")
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	return d.Stop(stopCtx)
}

package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/certwatch/docsite/internal/config"
)

func daemonFixture(t *testing.T) (*Daemon, *config.Config, string) {
	t.Helper()
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "index.md"), []byte("# Home\n"), 0o644))

	configPath := filepath.Join(t.TempDir(), "site.yaml")
	content := "site:\n  title: Certwatch\nsource:\n  dir: " + docs + "\noutput:\n  dir: " + t.TempDir() + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)

	d, err := New(cfg, configPath, nil, nil, t.TempDir())
	require.NoError(t, err)
	return d, cfg, configPath
}

func TestDaemon_RunBuild_RendersSite(t *testing.T) {
	d, cfg, _ := daemonFixture(t)

	d.runBuild(context.Background(), "test")

	_, err := os.Stat(filepath.Join(cfg.Output.Dir, "index.html"))
	require.NoError(t, err)
}

func TestDaemon_ReloadConfig_BrokenFileKeepsPrevious(t *testing.T) {
	d, cfg, configPath := daemonFixture(t)

	require.NoError(t, os.WriteFile(configPath, []byte(":::: not yaml"), 0o644))
	d.reloadConfig()

	require.Equal(t, cfg.Site.Title, d.currentConfig().Site.Title)
}

func TestDaemon_ReloadConfig_ValidFileSwapsIn(t *testing.T) {
	d, cfg, configPath := daemonFixture(t)

	content := "site:\n  title: Renamed\nsource:\n  dir: " + cfg.Source.Dir + "\noutput:\n  dir: " + cfg.Output.Dir + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	d.reloadConfig()

	require.Equal(t, "Renamed", d.currentConfig().Site.Title)
}

func TestDaemon_ReloadConfig_BuildHonorsRunContext(t *testing.T) {
	d, cfg, configPath := daemonFixture(t)

	freshOut := t.TempDir()
	content := "site:\n  title: Renamed\nsource:\n  dir: " + cfg.Source.Dir + "\noutput:\n  dir: " + freshOut + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.mu.Lock()
	d.runCtx = ctx
	d.mu.Unlock()

	d.reloadConfig()

	// The config swap still happens, but the canceled run context stops the
	// triggered build before anything is rendered.
	require.Equal(t, "Renamed", d.currentConfig().Site.Title)
	_, err := os.Stat(filepath.Join(freshOut, "index.html"))
	require.True(t, os.IsNotExist(err))
}

func TestScheduler_PeriodicTaskFires(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)
	defer func() { _ = s.Stop() }()

	var fired atomic.Int32
	_, err = s.SchedulePeriodicRebuild(20*time.Millisecond, func() { fired.Add(1) })
	require.NoError(t, err)
	s.Start()

	require.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

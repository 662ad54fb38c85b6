package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/content"
	"github.com/certwatch/docsite/internal/linkcheck"
	"github.com/certwatch/docsite/internal/sidebar"
)

// runDiscover lists the documentation files in the order the sidebar will
// present them, without building anything.
func runDiscover() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	pages, err := content.NewDiscovery(cfg.Source.Dir, cfg.Sidebar.Ignore).Discover()
	if err != nil {
		return err
	}

	entries := make([]sidebar.Entry, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		if p.IsAsset {
			continue
		}
		if err := p.Load(); err != nil {
			return err
		}
		entries = append(entries, sidebar.Entry{
			Filename: p.Filename(),
			Section:  p.Section,
			Title:    p.Title,
			Route:    p.Route(),
		})
	}

	groups := sidebar.Build(entries, false)
	for _, g := range groups {
		if g.Text != "" {
			fmt.Println(g.Text)
		}
		for _, item := range g.Items {
			fmt.Printf("  %s -> %s\n", item.Text, item.Link)
		}
	}
	return nil
}

// runCheck verifies internal links in an already rendered site.
func runCheck() error {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Output.Dir); err != nil {
		return fmt.Errorf("output directory %s not found; run build first: %w", cfg.Output.Dir, err)
	}

	broken, err := linkcheck.Check(cfg.Output.Dir, cfg.Site.Base)
	if err != nil {
		return err
	}
	if len(broken) == 0 {
		slog.Info("All internal links resolve", "dir", cfg.Output.Dir)
		return nil
	}
	for _, b := range broken {
		slog.Error("Broken link", "file", b.File, "href", b.Href)
	}
	return fmt.Errorf("found %d broken internal links", len(broken))
}

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/content"
	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/metrics"
	"github.com/certwatch/docsite/internal/sidebar"
)

// Renderer turns discovered pages into a static HTML site.
type Renderer struct {
	cfg     *config.Config
	outDir  string
	rec     metrics.Recorder
	layout  *template.Template
	locales *Locales
	md      goldmark.Markdown
}

// Result summarizes one render pass.
type Result struct {
	Pages  int
	Assets int
}

// New creates a renderer writing into outDir.
func New(cfg *config.Config, outDir string, rec metrics.Recorder) (*Renderer, error) {
	layout, err := parseLayout()
	if err != nil {
		return nil, fmt.Errorf("parse layout template: %w", err)
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return &Renderer{
		cfg:     cfg,
		outDir:  outDir,
		rec:     rec,
		layout:  layout,
		locales: NewLocales(cfg.Site, cfg.Locales),
		md:      md,
	}, nil
}

// Render loads every page, renders markdown pages through the layout, copies
// assets, and emits the search index and sitemap. Pages must come from a
// single discovery pass; ordering decisions happen here.
func (r *Renderer) Render(ctx context.Context, pages []content.Page) (*Result, error) {
	for i := range pages {
		if err := pages[i].Load(); err != nil {
			return nil, err
		}
	}

	groups, flat := r.buildSidebar(pages)
	searchTranslations, err := json.Marshal(r.cfg.Search.Translations)
	if err != nil {
		return nil, fmt.Errorf("marshal search translations: %w", err)
	}

	res := &Result{}
	start := time.Now()
	var searchDocs []searchDoc

	for i := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &pages[i]

		if p.IsAsset {
			if err := r.writeFile(p.OutputPath(), p.Body); err != nil {
				return nil, err
			}
			res.Assets++
			continue
		}

		html, err := r.renderPage(p, groups, flat, template.JS(searchTranslations))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.RelPath, err)
		}
		if err := r.writeFile(p.OutputPath(), html); err != nil {
			return nil, err
		}
		res.Pages++

		if r.cfg.Search.On() {
			searchDocs = append(searchDocs, searchDoc{
				Route: r.route(p),
				Title: p.Title,
				Text:  plainText(p.Body),
			})
		}
		slog.Debug("Rendered page", logfields.File(p.RelPath))
	}
	r.rec.ObserveStageDuration("render", time.Since(start))
	r.rec.SetPagesRendered(res.Pages)

	if r.cfg.Search.On() {
		if err := r.writeSearchIndex(searchDocs); err != nil {
			return nil, err
		}
	}
	if r.cfg.Sitemap.Hostname != "" {
		if err := r.writeSitemap(pages); err != nil {
			return nil, err
		}
	}

	slog.Info("Site rendered",
		slog.Int("pages", res.Pages),
		slog.Int("assets", res.Assets),
		logfields.Path(r.outDir))
	return res, nil
}

// buildSidebar maps markdown pages to sidebar entries and returns the ordered
// groups plus the flattened display order used for prev/next navigation.
func (r *Renderer) buildSidebar(pages []content.Page) ([]sidebar.Group, []sidebar.Item) {
	var entries []sidebar.Entry
	for i := range pages {
		p := &pages[i]
		if p.IsAsset {
			continue
		}
		entries = append(entries, sidebar.Entry{
			Filename: p.Filename(),
			Section:  p.Section,
			Title:    p.Title,
			Route:    r.route(p),
		})
	}
	groups := sidebar.Build(entries, r.cfg.Sidebar.Collapsed)
	return groups, sidebar.Flatten(groups)
}

func (r *Renderer) renderPage(p *content.Page, groups []sidebar.Group, flat []sidebar.Item, searchTranslations template.JS) ([]byte, error) {
	var body bytes.Buffer
	pctx := parser.NewContext(parser.WithIDs(newSlugIDs()))
	if err := r.md.Convert(p.Body, &body, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}

	route := r.route(p)
	prev, next := neighbors(flat, route)

	// A fresh generator replays the same ID sequence Convert assigned, so
	// outline anchors stay correct when heading texts repeat.
	outlineIDs := newSlugIDs()

	data := pageData{
		Lang:               r.locales.LangFor(p.RelPath),
		Title:              p.Title,
		SiteTitle:          r.cfg.Site.Title,
		Description:        r.cfg.Site.Description,
		Base:               r.cfg.Site.Base,
		Head:               renderHead(r.cfg.Head),
		Nav:                r.cfg.Theme.Nav,
		Social:             r.cfg.Theme.Social,
		Sidebar:            groups,
		Outline:            content.Headings(p.Body, r.cfg.Theme.Outline.Depth, outlineIDs.slug),
		OutlineLabel:       r.cfg.Theme.Outline.Label,
		Content:            template.HTML(body.String()),
		Prev:               prev,
		Next:               next,
		PrevLabel:          r.cfg.Theme.DocFooter.Prev,
		NextLabel:          r.cfg.Theme.DocFooter.Next,
		Footer:             r.cfg.Theme.Footer,
		SearchEnabled:      r.cfg.Search.On(),
		SearchTranslations: searchTranslations,
		Route:              route,
	}

	var out bytes.Buffer
	if err := r.layout.Execute(&out, data); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return out.Bytes(), nil
}

// neighbors finds the previous and next sidebar items around a route.
// Duplicate heading IDs aside, routes are unique per page.
func neighbors(flat []sidebar.Item, route string) (prev, next *sidebar.Item) {
	for i := range flat {
		if flat[i].Link != route {
			continue
		}
		if i > 0 {
			prev = &flat[i-1]
		}
		if i+1 < len(flat) {
			next = &flat[i+1]
		}
		return prev, next
	}
	return nil, nil
}

// route returns the site URL of a page including the configured base path.
func (r *Renderer) route(p *content.Page) string {
	base := strings.TrimSuffix(r.cfg.Site.Base, "/")
	return base + p.Route()
}

func (r *Renderer) writeFile(rel string, data []byte) error {
	path := filepath.Join(r.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

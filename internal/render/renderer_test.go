package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/content"
)

func testConfig(docsDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Site = config.SiteConfig{Lang: "en-US", Title: "Certwatch", Base: "/"}
	cfg.Source.Dir = docsDir
	cfg.Theme.Outline = config.Outline{Depth: 3, Label: "On this page"}
	cfg.Theme.DocFooter = config.DocFooter{Prev: "Previous page", Next: "Next page"}
	return cfg
}

func writeDoc(t *testing.T, dir, rel, body string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func renderFixture(t *testing.T, cfg *config.Config, docsDir, outDir string) *Result {
	t.Helper()
	pages, err := content.NewDiscovery(docsDir, cfg.Sidebar.Ignore).Discover()
	require.NoError(t, err)

	r, err := New(cfg, outDir, nil)
	require.NoError(t, err)
	res, err := r.Render(context.Background(), pages)
	require.NoError(t, err)
	return res
}

func TestRender_WritesOrderedSidebar(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")
	writeDoc(t, docs, "2-quickstart.md", "# Quickstart\n")
	writeDoc(t, docs, "10-install.md", "# Install\n")
	writeDoc(t, docs, "about.md", "# About\n")

	res := renderFixture(t, testConfig(docs), docs, out)
	require.Equal(t, 4, res.Pages)

	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	s := string(html)

	// Sidebar items appear in comparator order.
	home := strings.Index(s, ">Home</a>")
	quick := strings.Index(s, ">Quickstart</a>")
	install := strings.Index(s, ">Install</a>")
	about := strings.Index(s, ">About</a>")
	require.True(t, home >= 0 && quick >= 0 && install >= 0 && about >= 0, s)
	require.Less(t, home, quick)
	require.Less(t, quick, install)
	require.Less(t, install, about)
}

func TestRender_PrevNextFollowSidebarOrder(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")
	writeDoc(t, docs, "1-first.md", "# First\n")
	writeDoc(t, docs, "2-second.md", "# Second\n")

	renderFixture(t, testConfig(docs), docs, out)

	html, err := os.ReadFile(filepath.Join(out, "1-first.html"))
	require.NoError(t, err)
	s := string(html)
	require.Contains(t, s, `class="prev" href="/"`)
	require.Contains(t, s, `class="next" href="/2-second.html"`)
	require.Contains(t, s, "Previous page")
	require.Contains(t, s, "Next page")
}

func TestRender_InjectsHeadTags(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")

	cfg := testConfig(docs)
	cfg.Head = []config.HeadTag{
		{Tag: "link", Attrs: map[string]string{"rel": "icon", "href": "/favicon.ico"}},
		{Tag: "script", Attrs: map[string]string{"src": "https://analytics.example/stats.js", "defer": ""}},
	}
	renderFixture(t, cfg, docs, out)

	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	s := string(html)
	require.Contains(t, s, `<link href="/favicon.ico" rel="icon">`)
	require.Contains(t, s, `<script defer="" src="https://analytics.example/stats.js"></script>`)
}

func TestRender_EmitsSearchIndex(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n\nMonitor certificate expiry dates.\n")

	renderFixture(t, testConfig(docs), docs, out)

	data, err := os.ReadFile(filepath.Join(out, "search-index.json"))
	require.NoError(t, err)
	var docsIdx []map[string]string
	require.NoError(t, json.Unmarshal(data, &docsIdx))
	require.Len(t, docsIdx, 1)
	require.Equal(t, "/", docsIdx[0]["route"])
	require.Equal(t, "Home", docsIdx[0]["title"])
	require.Contains(t, docsIdx[0]["text"], "certificate expiry")
}

func TestRender_SearchDisabled_NoIndexFile(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")

	cfg := testConfig(docs)
	off := false
	cfg.Search.Enabled = &off
	renderFixture(t, cfg, docs, out)

	_, err := os.Stat(filepath.Join(out, "search-index.json"))
	require.True(t, os.IsNotExist(err))
}

func TestRender_EmitsSitemapWithHostname(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")
	writeDoc(t, docs, "guide/1-install.md", "# Install\n")

	cfg := testConfig(docs)
	cfg.Sitemap.Hostname = "https://docs.certwatch.example"
	renderFixture(t, cfg, docs, out)

	data, err := os.ReadFile(filepath.Join(out, "sitemap.xml"))
	require.NoError(t, err)
	s := string(data)
	require.Contains(t, s, "<loc>https://docs.certwatch.example/</loc>")
	require.Contains(t, s, "<loc>https://docs.certwatch.example/guide/1-install.html</loc>")
}

func TestRender_CopiesAssets(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")
	writeDoc(t, docs, "images/logo.png", "png-bytes")

	res := renderFixture(t, testConfig(docs), docs, out)
	require.Equal(t, 1, res.Assets)

	data, err := os.ReadFile(filepath.Join(out, "images", "logo.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestRender_OutlineContainsHeadingAnchors(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n\n## Getting Started\n\ntext\n\n### Deep Dive\n\nmore\n")

	renderFixture(t, testConfig(docs), docs, out)

	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	s := string(html)
	require.Contains(t, s, `href="#getting-started"`)
	require.Contains(t, s, `id="getting-started"`)
	require.Contains(t, s, `href="#deep-dive"`)
}

func TestRender_DuplicateHeadings_OutlineTargetsSuffixedAnchors(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n\n## Setup\n\none\n\n## Setup\n\ntwo\n")

	renderFixture(t, testConfig(docs), docs, out)

	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	s := string(html)
	require.Contains(t, s, `id="setup"`)
	require.Contains(t, s, `id="setup-1"`)
	require.Contains(t, s, `href="#setup"`)
	require.Contains(t, s, `href="#setup-1"`)
}

func TestRender_BasePrefixAppliedToRoutes(t *testing.T) {
	docs := t.TempDir()
	out := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")
	writeDoc(t, docs, "1-a.md", "# A\n")

	cfg := testConfig(docs)
	cfg.Site.Base = "/docs/"
	renderFixture(t, cfg, docs, out)

	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), `href="/docs/1-a.html"`)
}

func TestRender_ContextCancellation_Aborts(t *testing.T) {
	docs := t.TempDir()
	writeDoc(t, docs, "index.md", "# Home\n")

	pages, err := content.NewDiscovery(docs, nil).Discover()
	require.NoError(t, err)

	r, err := New(testConfig(docs), t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, pages)
	require.ErrorIs(t, err, context.Canceled)
}

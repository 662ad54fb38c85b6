package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func relPaths(pages []Page) []string {
	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.RelPath)
	}
	return out
}

func TestDiscover_CollectsMarkdownAndAssets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Home\n")
	writeFile(t, dir, "guide/1-install.md", "# Install\n")
	writeFile(t, dir, "guide/logo.png", "png-bytes")
	writeFile(t, dir, "notes.rst", "not supported")

	pages, err := NewDiscovery(dir, nil).Discover()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"index.md", "guide/1-install.md", "guide/logo.png"}, relPaths(pages))

	for _, p := range pages {
		if p.RelPath == "guide/logo.png" {
			require.True(t, p.IsAsset)
		} else {
			require.False(t, p.IsAsset)
		}
	}
}

func TestDiscover_SkipsHiddenFilesAndArtifact(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Home\n")
	writeFile(t, dir, ".DS_Store", "junk")
	writeFile(t, dir, "guide/.DS_Store", "junk")
	writeFile(t, dir, ".hidden.md", "secret")
	writeFile(t, dir, ".git/config", "x")
	writeFile(t, dir, "guide/2-tls.md", "# TLS\n")

	pages, err := NewDiscovery(dir, nil).Discover()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"index.md", "guide/2-tls.md"}, relPaths(pages))
}

func TestDiscover_IgnoreList_SkipsPathsAndSubtrees(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.md", "# Home\n")
	writeFile(t, dir, "drafts/wip.md", "# WIP\n")
	writeFile(t, dir, "internal-notes.md", "# Notes\n")

	pages, err := NewDiscovery(dir, []string{"drafts", "internal-notes.md"}).Discover()
	require.NoError(t, err)
	require.Equal(t, []string{"index.md"}, relPaths(pages))
}

func TestPage_Load_SplitsFrontmatterAndResolvesTitle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1-intro.md", "---\ntitle: Introduction\norder: 1\n---\n# Ignored heading\nBody\n")

	pages, err := NewDiscovery(dir, nil).Discover()
	require.NoError(t, err)
	require.Len(t, pages, 1)

	p := &pages[0]
	require.NoError(t, p.Load())
	require.Equal(t, "Introduction", p.Title)
	require.Equal(t, 1, p.Meta["order"])
	require.Equal(t, "# Ignored heading\nBody\n", string(p.Body))
}

func TestPage_Load_TitleFallsBackToFirstHeadingThenName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2-setup.md", "# Setup Guide\n\ntext\n")
	writeFile(t, dir, "misc.md", "no headings here\n")

	pages, err := NewDiscovery(dir, nil).Discover()
	require.NoError(t, err)

	byRel := map[string]*Page{}
	for i := range pages {
		require.NoError(t, pages[i].Load())
		byRel[pages[i].RelPath] = &pages[i]
	}
	require.Equal(t, "Setup Guide", byRel["2-setup.md"].Title)
	require.Equal(t, "misc", byRel["misc.md"].Title)
}

func TestPage_RouteAndOutputPath(t *testing.T) {
	p := Page{RelPath: "guide/index.md", Section: "guide", Name: "index", Extension: ".md"}
	require.True(t, p.IsLanding())
	require.Equal(t, "guide/index.html", p.OutputPath())
	require.Equal(t, "/guide/", p.Route())

	q := Page{RelPath: "guide/2-tls.md", Section: "guide", Name: "2-tls", Extension: ".md"}
	require.False(t, q.IsLanding())
	require.Equal(t, "guide/2-tls.html", q.OutputPath())
	require.Equal(t, "/guide/2-tls.html", q.Route())
}

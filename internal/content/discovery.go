package content

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/certwatch/docsite/internal/logfields"
	"github.com/certwatch/docsite/internal/sidebar"
)

// Discovery walks a documentation directory and collects pages and assets.
type Discovery struct {
	docsDir string
	ignore  map[string]struct{}
}

// NewDiscovery creates a discovery instance for a docs directory. The ignore
// list holds additional relative paths excluded from the walk; the built-in
// filesystem artifact filter always applies.
func NewDiscovery(docsDir string, ignore []string) *Discovery {
	ig := make(map[string]struct{}, len(ignore))
	for _, i := range ignore {
		ig[filepath.ToSlash(i)] = struct{}{}
	}
	return &Discovery{docsDir: docsDir, ignore: ig}
}

// Discover finds all documentation files under the docs directory. Hidden
// files, the ignore artifact, and configured ignore paths are skipped.
// Content is not loaded; call Page.Load before rendering.
func (d *Discovery) Discover() ([]Page, error) {
	var pages []Page

	err := filepath.Walk(d.docsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(d.docsDir, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel != "." && (strings.HasPrefix(info.Name(), ".") || d.ignored(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		if name == sidebar.IgnoreArtifact || strings.HasPrefix(name, ".") || d.ignored(rel) {
			return nil
		}

		isMarkdown := isMarkdownFile(name)
		isAssetFile := isAsset(name)
		if !isMarkdown && !isAssetFile {
			return nil
		}

		page := Page{
			Path:      path,
			RelPath:   rel,
			Section:   sectionOf(rel),
			Name:      strings.TrimSuffix(name, filepath.Ext(name)),
			Extension: filepath.Ext(name),
			IsAsset:   isAssetFile,
		}
		pages = append(pages, page)

		slog.Debug("Discovered file",
			logfields.File(rel),
			logfields.Section(page.Section),
			slog.Bool("asset", isAssetFile))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDocsDirWalkFailed, d.docsDir, err)
	}

	slog.Info("Documentation discovered", slog.Int("files", len(pages)), logfields.Path(d.docsDir))
	return pages, nil
}

func (d *Discovery) ignored(rel string) bool {
	if _, ok := d.ignore[rel]; ok {
		return true
	}
	for prefix := range d.ignore {
		if strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

// isMarkdownFile checks if a file is a markdown file.
func isMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown" || ext == ".mdown" || ext == ".mkd"
}

// isAsset checks if a file is an asset (image, etc.).
func isAsset(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	assetExtensions := []string{
		".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".bmp", ".ico",
		".pdf",
		".mp4", ".webm", ".ogv",
		".css", ".js", ".txt", ".csv", ".json", ".xml",
	}
	for _, assetExt := range assetExtensions {
		if ext == assetExt {
			return true
		}
	}
	return false
}

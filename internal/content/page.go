package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Page represents a discovered documentation file or asset.
type Page struct {
	Path      string         // Absolute path to the file
	RelPath   string         // Slash-separated path relative to the docs directory
	Section   string         // Directory portion of RelPath ("" at root)
	Name      string         // File name without extension
	Extension string         // File extension including the dot
	Title     string         // Resolved title (frontmatter, first heading, or name)
	Meta      map[string]any // Parsed YAML frontmatter
	Body      []byte         // Markdown body with frontmatter removed
	IsAsset   bool           // True for images and other non-markdown files

	loaded bool
}

// Filename returns the base filename, the unit the sidebar ordering operates on.
func (p *Page) Filename() string { return p.Name + p.Extension }

// IsLanding reports whether this page is its section's landing page.
func (p *Page) IsLanding() bool { return strings.EqualFold(p.Filename(), "index.md") }

// OutputPath returns the site-relative path of the rendered HTML document.
// "guide/2-quickstart.md" becomes "guide/2-quickstart.html"; landing pages
// become their section's "index.html".
func (p *Page) OutputPath() string {
	if p.IsAsset {
		return p.RelPath
	}
	rel := strings.TrimSuffix(p.RelPath, p.Extension) + ".html"
	return rel
}

// Route returns the site-absolute URL path of the page (without base prefix).
// Landing pages route to their section directory.
func (p *Page) Route() string {
	out := "/" + p.OutputPath()
	if p.IsLanding() {
		out = strings.TrimSuffix(out, "index.html")
	}
	return out
}

// Load reads the file, splits frontmatter from the body, and resolves the
// page title. Assets are read verbatim.
func (p *Page) Load() error {
	if p.loaded {
		return nil
	}
	raw, err := os.ReadFile(p.Path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileReadFailed, p.Path, err)
	}
	if p.IsAsset {
		p.Body = raw
		p.loaded = true
		return nil
	}

	meta, body, err := SplitFrontmatter(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", p.RelPath, err)
	}
	p.Meta = meta
	p.Body = body
	p.Title = resolveTitle(meta, body, p.Name)
	p.loaded = true
	return nil
}

// resolveTitle picks the page title: frontmatter `title`, else the first ATX
// heading of the body, else the bare filename.
func resolveTitle(meta map[string]any, body []byte, fallback string) string {
	if t, ok := meta["title"].(string); ok && t != "" {
		return t
	}
	if h := FirstHeading(body); h != "" {
		return h
	}
	return fallback
}

// sectionOf derives the section from a relative path.
func sectionOf(relPath string) string {
	section := filepath.ToSlash(filepath.Dir(relPath))
	if section == "." {
		return ""
	}
	return section
}

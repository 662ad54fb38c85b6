package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full site configuration, loaded once at startup and treated
// as immutable afterwards.
type Config struct {
	Site    SiteConfig        `yaml:"site"`
	Source  SourceConfig      `yaml:"source"`
	Output  OutputConfig      `yaml:"output"`
	Head    []HeadTag         `yaml:"head,omitempty"`
	Theme   ThemeConfig       `yaml:"theme"`
	Sidebar SidebarConfig     `yaml:"sidebar"`
	Search  SearchConfig      `yaml:"search"`
	Sitemap SitemapConfig     `yaml:"sitemap"`
	Locales map[string]Locale `yaml:"locales,omitempty"`
	Daemon  DaemonConfig      `yaml:"daemon"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// SiteConfig holds top-level site metadata.
type SiteConfig struct {
	Lang        string `yaml:"lang,omitempty"`
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	// Base is the public base path the site is served under ("/" by default).
	Base string `yaml:"base,omitempty"`
}

// SourceConfig describes where the documentation sources come from. When URL
// is set, the repository is cloned/updated into a workspace before building;
// otherwise Dir is used directly.
type SourceConfig struct {
	Dir    string      `yaml:"dir,omitempty"`
	URL    string      `yaml:"url,omitempty"`
	Branch string      `yaml:"branch,omitempty"`
	Path   string      `yaml:"path,omitempty"` // docs subdirectory inside the repository
	Auth   *AuthConfig `yaml:"auth,omitempty"`
}

// AuthType enumerates supported authentication methods (stringly for YAML compatibility).
type AuthType string

const (
	AuthTypeNone  AuthType = "none"
	AuthTypeSSH   AuthType = "ssh"
	AuthTypeToken AuthType = "token"
	AuthTypeBasic AuthType = "basic"
)

// AuthConfig represents authentication configuration for the docs source repository.
type AuthConfig struct {
	Type     AuthType `yaml:"type"` // ssh|token|basic|none
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
	Token    string   `yaml:"token,omitempty"`
	KeyPath  string   `yaml:"key_path,omitempty"`
}

// IsZero reports whether no auth method is specified.
func (a *AuthConfig) IsZero() bool { return a == nil || a.Type == "" || a.Type == AuthTypeNone }

// OutputConfig controls where the generated site is written.
type OutputConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// HeadTag models one raw entry injected into the HTML <head> of every page,
// e.g. a favicon link, an SEO meta tag, or an analytics bootstrap script.
type HeadTag struct {
	Tag     string            `yaml:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty"`
}

// ThemeConfig groups presentation options.
type ThemeConfig struct {
	Nav       []NavLink    `yaml:"nav,omitempty"`
	Social    []SocialLink `yaml:"social,omitempty"`
	Outline   Outline      `yaml:"outline"`
	Footer    Footer       `yaml:"footer"`
	DocFooter DocFooter    `yaml:"doc_footer"`
}

// NavLink is a single top-navigation or footer link.
type NavLink struct {
	Text string `yaml:"text"`
	Link string `yaml:"link"`
}

// SocialLink points at a project presence on an external platform.
type SocialLink struct {
	Icon string `yaml:"icon"`
	Link string `yaml:"link"`
}

// Outline controls the per-page heading outline.
type Outline struct {
	Depth int    `yaml:"depth,omitempty"` // deepest heading level included (2..6)
	Label string `yaml:"label,omitempty"`
}

// Footer holds the site footer content, including legal-registration links
// rendered beneath the copyright line.
type Footer struct {
	Message   string    `yaml:"message,omitempty"`
	Copyright string    `yaml:"copyright,omitempty"`
	Links     []NavLink `yaml:"links,omitempty"`
}

// DocFooter holds the previous/next page labels.
type DocFooter struct {
	Prev string `yaml:"prev,omitempty"`
	Next string `yaml:"next,omitempty"`
}

// SidebarConfig controls sidebar auto-generation.
type SidebarConfig struct {
	// Ignore lists additional paths excluded from sidebar generation on top
	// of the built-in filesystem artifact filter.
	Ignore    []string `yaml:"ignore,omitempty"`
	Collapsed bool     `yaml:"collapsed,omitempty"`
}

// SearchConfig controls the local full-text search index and its UI strings.
type SearchConfig struct {
	Enabled      *bool             `yaml:"enabled,omitempty"`
	Translations map[string]string `yaml:"translations,omitempty"`
}

// On reports whether search indexing is enabled (default true).
func (s SearchConfig) On() bool { return s.Enabled == nil || *s.Enabled }

// SitemapConfig controls sitemap.xml emission.
type SitemapConfig struct {
	Hostname string `yaml:"hostname,omitempty"`
}

// Locale describes one language edition of the site.
type Locale struct {
	Label       string `yaml:"label"`
	Lang        string `yaml:"lang"`
	Description string `yaml:"description,omitempty"`
}

// DaemonConfig controls daemon mode.
type DaemonConfig struct {
	// RebuildInterval between scheduled rebuilds, e.g. "15m". Empty disables scheduling.
	RebuildInterval string      `yaml:"rebuild_interval,omitempty"`
	Events          EventConfig `yaml:"events"`
}

// EventConfig controls optional NATS build-event publication.
type EventConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint of the preview/daemon server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// Load reads, parses, and normalizes a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	applyEnvOverrides(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Site.Title == "" {
		return ErrMissingTitle
	}
	if c.Source.Dir == "" && c.Source.URL == "" {
		return ErrMissingSource
	}
	return nil
}

package render

import (
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/certwatch/docsite/internal/config"
)

// Locales resolves which language edition a page belongs to. Locale keys in
// the config are path prefixes ("zh" matches "zh/guide/index.md"); the
// reserved key "root" covers everything else.
type Locales struct {
	site     config.SiteConfig
	locales  map[string]config.Locale
	prefixes []string // non-root locale keys, longest first
	matcher  language.Matcher
	tags     []language.Tag
	keys     []string // locale key per matcher tag index
}

// NewLocales builds the resolver. When no locales are configured every page
// falls back to the site language.
func NewLocales(site config.SiteConfig, locales map[string]config.Locale) *Locales {
	l := &Locales{site: site, locales: locales}

	for key := range locales {
		if key != "root" {
			l.prefixes = append(l.prefixes, key)
		}
	}
	sort.Slice(l.prefixes, func(i, j int) bool { return len(l.prefixes[i]) > len(l.prefixes[j]) })

	appendTag := func(key, lang string) {
		tag, err := language.Parse(lang)
		if err != nil {
			return
		}
		l.tags = append(l.tags, tag)
		l.keys = append(l.keys, key)
	}
	if root, ok := locales["root"]; ok {
		appendTag("root", root.Lang)
	} else {
		appendTag("root", site.Lang)
	}
	for _, key := range l.prefixes {
		appendTag(key, locales[key].Lang)
	}
	if len(l.tags) > 0 {
		l.matcher = language.NewMatcher(l.tags)
	}
	return l
}

// LangFor returns the HTML lang attribute for a page path.
func (l *Locales) LangFor(relPath string) string {
	for _, prefix := range l.prefixes {
		if relPath == prefix || strings.HasPrefix(relPath, prefix+"/") {
			return l.locales[prefix].Lang
		}
	}
	if root, ok := l.locales["root"]; ok && root.Lang != "" {
		return root.Lang
	}
	return l.site.Lang
}

// Match picks the best configured locale key for an Accept-Language header.
// Used by the preview server to redirect "/" to a language root.
func (l *Locales) Match(acceptLanguage string) string {
	if l.matcher == nil || acceptLanguage == "" {
		return "root"
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return "root"
	}
	_, idx, _ := l.matcher.Match(desired...)
	if idx < 0 || idx >= len(l.keys) {
		return "root"
	}
	return l.keys[idx]
}

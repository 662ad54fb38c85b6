package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/certwatch/docsite/internal/config"
)

func localeFixture() *Locales {
	site := config.SiteConfig{Lang: "en-US"}
	return NewLocales(site, map[string]config.Locale{
		"root": {Label: "English", Lang: "en-US"},
		"zh":   {Label: "中文", Lang: "zh-CN"},
	})
}

func TestLocales_LangFor_PrefixedPathsGetLocaleLang(t *testing.T) {
	l := localeFixture()
	require.Equal(t, "zh-CN", l.LangFor("zh/guide/index.md"))
	require.Equal(t, "en-US", l.LangFor("guide/index.md"))
	require.Equal(t, "en-US", l.LangFor("zhistory.md")) // prefix match is path-segment aware
}

func TestLocales_LangFor_NoLocalesConfigured_UsesSiteLang(t *testing.T) {
	l := NewLocales(config.SiteConfig{Lang: "de-DE"}, nil)
	require.Equal(t, "de-DE", l.LangFor("guide/index.md"))
}

func TestLocales_Match_AcceptLanguage(t *testing.T) {
	l := localeFixture()
	require.Equal(t, "zh", l.Match("zh-CN,zh;q=0.9"))
	require.Equal(t, "root", l.Match("en-GB,en;q=0.8"))
	require.Equal(t, "root", l.Match(""))
	require.Equal(t, "root", l.Match(";;;"))
}

func TestLocales_Match_NoLocales_AlwaysRoot(t *testing.T) {
	l := NewLocales(config.SiteConfig{Lang: "en-US"}, nil)
	require.Equal(t, "root", l.Match("zh-CN"))
}

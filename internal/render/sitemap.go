package render

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/certwatch/docsite/internal/content"
)

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type sitemapSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// writeSitemap emits sitemap.xml for every markdown page, rooted at the
// configured hostname.
func (r *Renderer) writeSitemap(pages []content.Page) error {
	host := strings.TrimSuffix(r.cfg.Sitemap.Hostname, "/")
	set := sitemapSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for i := range pages {
		p := &pages[i]
		if p.IsAsset {
			continue
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: host + r.route(p)})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sitemap: %w", err)
	}
	return r.writeFile("sitemap.xml", append([]byte(xml.Header), data...))
}

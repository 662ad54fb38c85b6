package render

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/certwatch/docsite/internal/config"
	"github.com/certwatch/docsite/internal/content"
	"github.com/certwatch/docsite/internal/sidebar"
)

// pageData is the model handed to the layout template for one page.
type pageData struct {
	Lang               string
	Title              string
	SiteTitle          string
	Description        string
	Base               string
	Head               template.HTML
	Nav                []config.NavLink
	Social             []config.SocialLink
	Sidebar            []sidebar.Group
	Outline            []content.Heading
	OutlineLabel       string
	Content            template.HTML
	Prev               *sidebar.Item
	Next               *sidebar.Item
	PrevLabel          string
	NextLabel          string
	Footer             config.Footer
	SearchEnabled      bool
	SearchTranslations template.JS
	Route              string
}

const layoutTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Title}}{{.Title}} | {{end}}{{.SiteTitle}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">
{{end}}{{.Head}}</head>
<body>
<header class="navbar">
<a class="site-title" href="{{.Base}}">{{.SiteTitle}}</a>
<nav class="nav">
{{range .Nav}}<a href="{{.Link}}">{{.Text}}</a>
{{end}}</nav>
{{if .SearchEnabled}}<div id="search" data-translations="{{.SearchTranslations}}"></div>
{{end}}<div class="social">
{{range .Social}}<a class="icon-{{.Icon}}" href="{{.Link}}" rel="noopener" target="_blank">{{.Icon}}</a>
{{end}}</div>
</header>
<aside class="sidebar">
{{range .Sidebar}}<section class="sidebar-group{{if .Collapsed}} collapsed{{end}}">
{{if .Text}}<h3>{{.Text}}</h3>{{end}}
<ul>
{{range .Items}}<li><a href="{{.Link}}"{{if eq .Link $.Route}} class="active"{{end}}>{{.Text}}</a></li>
{{end}}</ul>
</section>
{{end}}</aside>
<main class="content">
{{.Content}}
<nav class="doc-footer">
{{if .Prev}}<a class="prev" href="{{.Prev.Link}}"><span>{{.PrevLabel}}</span>{{.Prev.Text}}</a>{{end}}
{{if .Next}}<a class="next" href="{{.Next.Link}}"><span>{{.NextLabel}}</span>{{.Next.Text}}</a>{{end}}
</nav>
</main>
{{if .Outline}}<aside class="outline">
<h4>{{.OutlineLabel}}</h4>
<ul>
{{range .Outline}}<li class="level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
{{end}}</ul>
</aside>
{{end}}<footer class="footer">
{{if .Footer.Message}}<p>{{.Footer.Message}}</p>{{end}}
{{if .Footer.Links}}<p class="legal">{{range .Footer.Links}}<a href="{{.Link}}" rel="noopener" target="_blank">{{.Text}}</a> {{end}}</p>{{end}}
{{if .Footer.Copyright}}<p>{{.Footer.Copyright}}</p>{{end}}
</footer>
</body>
</html>
`

func parseLayout() (*template.Template, error) {
	return template.New("layout").Parse(layoutTemplate)
}

// renderHead serializes the configured head tags. Attributes are emitted in
// sorted order so output is deterministic across builds.
func renderHead(tags []config.HeadTag) template.HTML {
	var b strings.Builder
	for _, tag := range tags {
		name := strings.ToLower(strings.TrimSpace(tag.Tag))
		if name == "" {
			continue
		}
		b.WriteByte('<')
		b.WriteString(name)

		keys := make([]string, 0, len(tag.Attrs))
		for k := range tag.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, ` %s="%s"`, html.EscapeString(k), html.EscapeString(tag.Attrs[k]))
		}

		if isVoidTag(name) {
			b.WriteString(">\n")
			continue
		}
		b.WriteByte('>')
		// Script/style bodies are injected verbatim; the config file is a
		// trusted input, same as the templates themselves.
		b.WriteString(tag.Content)
		fmt.Fprintf(&b, "</%s>\n", name)
	}
	return template.HTML(b.String())
}

func isVoidTag(name string) bool {
	switch name {
	case "meta", "link", "base", "br", "hr", "img", "input", "source":
		return true
	}
	return false
}

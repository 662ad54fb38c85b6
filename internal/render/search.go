package render

import (
	"encoding/json"
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// searchDoc is one entry of the client-side full-text search index.
type searchDoc struct {
	Route string `json:"route"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// writeSearchIndex emits search-index.json at the site root. The client-side
// search UI fetches it once and searches in memory.
func (r *Renderer) writeSearchIndex(docs []searchDoc) error {
	if docs == nil {
		docs = []searchDoc{}
	}
	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("marshal search index: %w", err)
	}
	return r.writeFile("search-index.json", data)
}

// plainText extracts the visible text of a markdown body for indexing.
func plainText(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var buf []byte
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := n.(*gmast.Text); ok {
			buf = append(buf, t.Segment.Value(body)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf = append(buf, ' ')
			}
		}
		if _, ok := n.(*gmast.Paragraph); ok && len(buf) > 0 && buf[len(buf)-1] != ' ' {
			buf = append(buf, ' ')
		}
		return gmast.WalkContinue, nil
	})
	return string(buf)
}

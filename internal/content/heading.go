package content

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FirstHeading parses a Markdown body (frontmatter already removed) and
// returns the text of the first level-1 heading, or "" when none exists.
func FirstHeading(body []byte) string {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var title string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok && h.Level == 1 {
			title = string(headingText(h, body))
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return title
}

// Heading is one outline entry extracted from a page body.
type Heading struct {
	Level int
	Text  string
	ID    string
}

// Headings returns every heading of level 2 up to and including maxDepth, in
// document order. id is called for every heading in the document, even those
// outside the depth range, so a stateful generator stays in step with the
// anchors the renderer assigns.
func Headings(body []byte, maxDepth int, id func(string) string) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var out []Heading
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if h, ok := n.(*gmast.Heading); ok {
			txt := string(headingText(h, body))
			anchor := id(txt)
			if h.Level >= 2 && h.Level <= maxDepth {
				out = append(out, Heading{Level: h.Level, Text: txt, ID: anchor})
			}
		}
		return gmast.WalkContinue, nil
	})
	return out
}

func headingText(h *gmast.Heading, source []byte) []byte {
	var buf []byte
	for c := h.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gmast.Text); ok {
			buf = append(buf, t.Segment.Value(source)...)
		}
	}
	return buf
}

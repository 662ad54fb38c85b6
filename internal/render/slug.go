package render

import (
	"strconv"
	"strings"
	"unicode"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// Slugify turns a heading text into a stable URL anchor: lowercase, spaces
// to dashes, everything but letters/digits/dashes dropped.
func Slugify(text string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.TrimSpace(strings.ToLower(text)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_':
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// slugIDs implements parser.IDs so rendered heading anchors and the outline
// share the same Slugify output. Duplicate headings get -1, -2 suffixes.
type slugIDs struct {
	used map[string]bool
}

func newSlugIDs() *slugIDs { return &slugIDs{used: map[string]bool{}} }

func (s *slugIDs) Generate(value []byte, kind gmast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "section"
	}
	id := base
	for i := 1; s.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	s.used[id] = true
	return []byte(id)
}

func (s *slugIDs) Put(value []byte) {}

// slug is the string-typed form of Generate, for callers outside goldmark.
func (s *slugIDs) slug(text string) string {
	return string(s.Generate([]byte(text), gmast.KindHeading))
}

var _ parser.IDs = (*slugIDs)(nil)

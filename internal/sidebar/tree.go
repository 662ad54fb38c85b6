package sidebar

import (
	"regexp"
	"sort"
	"strings"
)

// numericPrefix matches the ordering prefix of a section directory name.
var numericPrefix = regexp.MustCompile(`^[0-9]+[-_. ]*`)

// Entry is one candidate sidebar entry. The renderer maps discovered pages
// into entries; this package only decides ordering and grouping.
type Entry struct {
	Filename string // base filename, the unit ordering operates on
	Section  string // slash-separated section directory, "" at root
	Title    string
	Route    string
}

// Item is a rendered sidebar link.
type Item struct {
	Text string
	Link string
}

// Group is one collapsible sidebar section.
type Group struct {
	Text      string
	Items     []Item
	Collapsed bool
}

// Build produces the ordered sidebar from a set of entries. Groups follow
// section order (root first, then sections ranked by the order key of each
// path segment); items within a group follow FilterAndSort of their
// filenames, so artifact entries are dropped and ties keep input order.
func Build(entries []Entry, collapsed bool) []Group {
	bySection := make(map[string][]Entry)
	for _, e := range entries {
		bySection[e.Section] = append(bySection[e.Section], e)
	}

	sections := make([]string, 0, len(bySection))
	for s := range bySection {
		sections = append(sections, s)
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return lessSection(sections[i], sections[j])
	})

	groups := make([]Group, 0, len(sections))
	for _, section := range sections {
		es := orderEntries(bySection[section])
		if len(es) == 0 {
			continue
		}

		g := Group{Text: sectionLabel(section), Collapsed: collapsed}
		for _, e := range es {
			text := e.Title
			if text == "" {
				text = strings.TrimSuffix(e.Filename, ".md")
			}
			g.Items = append(g.Items, Item{Text: text, Link: e.Route})
		}
		groups = append(groups, g)
	}
	return groups
}

// orderEntries arranges one section's entries by running FilterAndSort over
// their filenames and mapping the result back, so grouping and the flat
// comparator can never disagree. Duplicate filenames keep input order.
func orderEntries(es []Entry) []Entry {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Filename
	}

	used := make([]bool, len(es))
	out := make([]Entry, 0, len(es))
	for _, name := range FilterAndSort(names) {
		for i := range es {
			if !used[i] && es[i].Filename == name {
				used[i] = true
				out = append(out, es[i])
				break
			}
		}
	}
	return out
}

// Flatten returns all items across groups in display order, used for
// previous/next page navigation.
func Flatten(groups []Group) []Item {
	var items []Item
	for _, g := range groups {
		items = append(items, g.Items...)
	}
	return items
}

// lessSection orders section paths segment-wise by order key, so "1-intro"
// sorts before "10-reference" regardless of lexicographic order. The root
// section ("") always comes first.
func lessSection(a, b string) bool {
	if a == "" || b == "" {
		return a == "" && b != ""
	}
	as := strings.Split(a, "/")
	bs := strings.Split(b, "/")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ka, kb := OrderKey(as[i]), OrderKey(bs[i])
		if ka != kb {
			return ka < kb
		}
		if as[i] != bs[i] {
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

// sectionLabel turns a section directory into a display label:
// "2-advanced-usage" becomes "Advanced Usage".
func sectionLabel(section string) string {
	if section == "" {
		return ""
	}
	base := section[strings.LastIndex(section, "/")+1:]
	base = numericPrefix.ReplaceAllString(base, "")
	words := strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// BrokenLink is one internal reference that does not resolve to a file in
// the rendered site.
type BrokenLink struct {
	File string // site-relative HTML file containing the reference
	Href string // the reference as written
}

// Check walks every HTML file in the rendered site and verifies that
// internal hrefs and asset references resolve. External URLs, mailto links,
// and pure fragment anchors are skipped. base is the configured site base
// path ("/" when unset).
func Check(siteDir, base string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(siteDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".html") {
			return nil
		}

		rel, relErr := filepath.Rel(siteDir, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		refs, parseErr := extractRefs(p)
		if parseErr != nil {
			return fmt.Errorf("parse %s: %w", rel, parseErr)
		}
		for _, ref := range refs {
			if !resolves(siteDir, base, rel, ref) {
				broken = append(broken, BrokenLink{File: rel, Href: ref})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk site %s: %w", siteDir, err)
	}
	return broken, nil
}

// extractRefs collects href/src attributes from one HTML file.
func extractRefs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := html.Parse(f)
	if err != nil {
		return nil, err
	}

	var refs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "href" || attr.Key == "src" {
					if internal(attr.Val) {
						refs = append(refs, attr.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return refs, nil
}

// internal reports whether a reference points inside this site.
func internal(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false // unparseable refs are the author's problem, not a 404
	}
	return u.Scheme == "" && u.Host == ""
}

// resolves checks whether a reference maps to an existing file.
func resolves(siteDir, base, fromRel, ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	target := u.Path
	if target == "" {
		return true // fragment/query only
	}

	if strings.HasPrefix(target, "/") {
		base = strings.TrimSuffix(base, "/")
		target = strings.TrimPrefix(target, base)
	} else {
		target = path.Join(path.Dir(fromRel), target)
	}
	target = strings.TrimPrefix(target, "/")
	if target == "" || strings.HasSuffix(u.Path, "/") {
		target = path.Join(target, "index.html")
	}

	_, statErr := os.Stat(filepath.Join(siteDir, filepath.FromSlash(target)))
	return statErr == nil
}

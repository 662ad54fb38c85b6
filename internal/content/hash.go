package content

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Manifest represents the discovered documentation set with content hashes,
// enabling change detection between builds.
type Manifest struct {
	Files map[string]string `json:"files"` // RelPath -> content hash
	Hash  string            `json:"hash"`  // hash over the whole set
}

// HashContent returns the hex sha256 of one file's content.
func HashContent(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}

// BuildManifest computes a deterministic manifest for a set of loaded pages.
// The set hash covers relative paths and per-file content hashes, so renames
// and edits both change it.
func BuildManifest(pages []Page) (*Manifest, error) {
	m := &Manifest{Files: make(map[string]string, len(pages))}
	if len(pages) == 0 {
		h := sha256.Sum256([]byte("empty-docs-set"))
		m.Hash = hex.EncodeToString(h[:])
		return m, nil
	}

	type entry struct {
		Path string `json:"path"`
		Hash string `json:"hash"`
	}
	entries := make([]entry, 0, len(pages))
	for _, p := range pages {
		ch := HashContent(p.Body)
		m.Files[p.RelPath] = ch
		entries = append(entries, entry{Path: p.RelPath, Hash: ch})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	data, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	h := sha256.Sum256(data)
	m.Hash = hex.EncodeToString(h[:])
	return m, nil
}

// Changed returns the relative paths whose hash differs from a previous
// manifest, plus paths that disappeared. A nil previous manifest marks
// everything as changed.
func (m *Manifest) Changed(prev *Manifest) []string {
	var changed []string
	if prev == nil {
		for p := range m.Files {
			changed = append(changed, p)
		}
		sort.Strings(changed)
		return changed
	}
	for p, h := range m.Files {
		if prev.Files[p] != h {
			changed = append(changed, p)
		}
	}
	for p := range prev.Files {
		if _, ok := m.Files[p]; !ok {
			changed = append(changed, p)
		}
	}
	sort.Strings(changed)
	return changed
}

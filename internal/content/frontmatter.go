package content

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SplitFrontmatter separates `---` delimited YAML frontmatter from the
// Markdown body and parses it into a map. Documents without a frontmatter
// block return an empty map and the full input as body.
func SplitFrontmatter(raw []byte) (map[string]any, []byte, error) {
	open := []byte("---\n")
	if !bytes.HasPrefix(raw, open) {
		return map[string]any{}, raw, nil
	}

	rest := raw[len(open):]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		// Degenerate case: empty block right at the top ("---\n---\n").
		if bytes.HasPrefix(rest, []byte("---")) {
			return map[string]any{}, trimLeadingNewline(rest[len("---"):]), nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}

	block := rest[:idx+1] // keep trailing newline for the YAML parser
	body := rest[idx+len("\n---"):]
	body = trimLeadingNewline(body)

	meta := map[string]any{}
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidFrontmatterYAML, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

func trimLeadingNewline(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	if bytes.HasPrefix(b, []byte("\n")) {
		return b[1:]
	}
	return b
}

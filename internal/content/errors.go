package content

import "errors"

var (
	ErrDocsDirWalkFailed       = errors.New("content: failed to walk docs directory")
	ErrFileReadFailed          = errors.New("content: failed to read file")
	ErrMissingClosingDelimiter = errors.New("content: frontmatter missing closing delimiter")
	ErrInvalidFrontmatterYAML  = errors.New("content: invalid frontmatter YAML")
)

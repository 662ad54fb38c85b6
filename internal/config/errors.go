package config

import "errors"

// Sentinel errors for configuration validation. Callers branch on these with
// errors.Is rather than parsing messages.
var (
	ErrMissingTitle  = errors.New("config: site.title is required")
	ErrMissingSource = errors.New("config: either source.dir or source.url is required")
	ErrConfigExists  = errors.New("config: file already exists (use --force to overwrite)")
)

package config

import (
	"fmt"
	"os"
)

// defaultConfigTemplate is written by `docsite init`. It documents the most
// commonly edited fields; everything omitted falls back to defaults.
const defaultConfigTemplate = `# docsite configuration
site:
  lang: en-US
  title: Certwatch
  description: Domain and SSL certificate monitoring platform
  base: /

source:
  dir: ./docs
  # Or build from a repository instead of a local directory:
  # url: https://github.com/certwatch/certwatch.git
  # branch: main
  # path: docs

output:
  dir: ./site

head:
  - tag: link
    attrs: {rel: icon, href: /favicon.ico}
  - tag: meta
    attrs: {name: keywords, content: "domain monitoring, ssl certificate, expiry alerts"}

theme:
  nav:
    - {text: Guide, link: /guide/}
    - {text: FAQ, link: /faq}
  social:
    - {icon: github, link: https://github.com/certwatch/certwatch}
  outline:
    depth: 3
    label: On this page
  footer:
    message: Released under the MIT License.
    copyright: Copyright (c) Certwatch

sidebar:
  ignore: []

sitemap:
  hostname: https://docs.certwatch.example
`

// Init writes a starter configuration file. Refuses to overwrite an existing
// file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

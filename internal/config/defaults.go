package config

// applyDefaults fills zero values with sensible defaults. All defaults can be
// overridden in the config file; none are mandatory to spell out.
func (c *Config) applyDefaults() {
	if c.Site.Lang == "" {
		c.Site.Lang = "en-US"
	}
	if c.Site.Base == "" {
		c.Site.Base = "/"
	}
	if c.Source.Dir == "" && c.Source.URL == "" {
		c.Source.Dir = "./docs"
	}
	if c.Source.Path == "" {
		c.Source.Path = "."
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./site"
	}
	if c.Theme.Outline.Depth == 0 {
		c.Theme.Outline.Depth = 3
	}
	if c.Theme.Outline.Label == "" {
		c.Theme.Outline.Label = "On this page"
	}
	if c.Theme.DocFooter.Prev == "" {
		c.Theme.DocFooter.Prev = "Previous page"
	}
	if c.Theme.DocFooter.Next == "" {
		c.Theme.DocFooter.Next = "Next page"
	}
	if c.Daemon.Events.Subject == "" {
		c.Daemon.Events.Subject = "docsite.builds"
	}
	if c.Daemon.Events.NATSURL == "" {
		c.Daemon.Events.NATSURL = "nats://127.0.0.1:4222"
	}
}

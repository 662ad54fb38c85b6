package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// applyEnvOverrides layers DOCSITE_* environment variables over the parsed
// configuration. A .env file in the working directory is loaded first when
// present, so local development can keep credentials out of site.yaml.
func applyEnvOverrides(cfg *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug("no .env file loaded", "error", err)
	}

	if v := os.Getenv("DOCSITE_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("DOCSITE_SOURCE_BRANCH"); v != "" {
		cfg.Source.Branch = v
	}
	if v := os.Getenv("DOCSITE_SOURCE_TOKEN"); v != "" {
		if cfg.Source.Auth == nil {
			cfg.Source.Auth = &AuthConfig{Type: AuthTypeToken}
		}
		cfg.Source.Auth.Token = v
	}
	if v := os.Getenv("DOCSITE_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("DOCSITE_NATS_URL"); v != "" {
		cfg.Daemon.Events.NATSURL = v
	}
	if v := os.Getenv("DOCSITE_SITEMAP_HOSTNAME"); v != "" {
		cfg.Sitemap.Hostname = v
	}
}

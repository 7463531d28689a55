package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlex(); err != nil {
		return err
	}
	if err := c.validateIndex(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePlex() error {
	// A blank Plex section is valid: the matcher runs in degraded mode and
	// reports nothing as available.
	if c.Plex.URL == "" && c.Plex.Token == "" {
		return nil
	}
	if c.Plex.URL == "" {
		return errors.New("plex.url must be set when plex.token is set")
	}
	if c.Plex.Token == "" {
		return errors.New("plex.token must be set when plex.url is set")
	}
	parsed, err := url.Parse(c.Plex.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("plex.url %q must be an absolute http(s) URL", c.Plex.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("plex.url scheme %q is not supported", parsed.Scheme)
	}
	return nil
}

func (c *Config) validateIndex() error {
	if c.Index.PageSize > 1000 {
		return errors.New("index.page_size must be 1000 or lower")
	}
	if c.Index.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Index.RefreshSchedule); err != nil {
			return fmt.Errorf("index.refresh_schedule: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
}

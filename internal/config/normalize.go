package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	if c.Plex.Timeout <= 0 {
		c.Plex.Timeout = defaultPlexTimeout
	}

	if c.Index.CacheTTL <= 0 {
		c.Index.CacheTTL = defaultIndexCacheTTL
	}
	if c.Index.PageSize <= 0 {
		c.Index.PageSize = defaultIndexPageSize
	}
	c.Index.RefreshSchedule = strings.TrimSpace(c.Index.RefreshSchedule)

	var err error
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.Path, err = expandPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}

	c.API.Bind = strings.TrimSpace(c.API.Bind)
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

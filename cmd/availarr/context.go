package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"availarr/internal/api"
	"availarr/internal/availability"
	"availarr/internal/config"
	"availarr/internal/logging"
	"availarr/internal/mappings"
	"availarr/internal/services/plex"
)

// commandContext lazily loads configuration and wires the service graph the
// commands share. Construction happens at most once per invocation.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	logger      *slog.Logger
	plexClient  *plex.Client
	store       *mappings.Store
	service     *api.IndexService
	serviceErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureService builds the index service and its dependencies. The mapping
// store is optional: an open failure is logged and indexing continues without
// persistence.
func (c *commandContext) ensureService() (*api.IndexService, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	c.serviceOnce.Do(func() {
		logger, logErr := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if logErr != nil {
			c.serviceErr = fmt.Errorf("init logging: %w", logErr)
			return
		}
		c.logger = logger

		c.plexClient = plex.NewFromConfig(cfg, logger)
		if c.plexClient == nil {
			logger.Warn("plex server not configured, availability disabled")
		}

		store, storeErr := mappings.Open(cfg.Database.Path)
		if storeErr != nil {
			logger.Warn("mapping store unavailable", logging.Error(storeErr))
		} else {
			c.store = store
		}

		var mappingStore availability.MappingStore
		if c.store != nil {
			mappingStore = c.store
		}
		var source availability.LibrarySource
		var linker availability.Linker
		if c.plexClient != nil {
			source = c.plexClient
			linker = c.plexClient
		}

		builder := availability.NewBuilder(source, mappingStore, cfg.Index.PageSize, logger)
		cache := availability.NewCache(builder, cfg.IndexTTL(), logger)
		annotator := availability.NewAnnotator(cache, linker, logger)
		c.service = api.NewIndexService(cache, annotator, linker, c.store, cfg.PlexConfigured(), logger)
	})
	return c.service, c.serviceErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.NewNop()
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}

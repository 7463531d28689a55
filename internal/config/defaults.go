package config

const (
	defaultDatabasePath  = "~/.local/share/availarr/availarr.db"
	defaultAPIBind       = "127.0.0.1:5056"
	defaultIndexCacheTTL = 600
	defaultIndexPageSize = 200
	defaultPlexTimeout   = 15
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Plex: Plex{
			Timeout: defaultPlexTimeout,
		},
		Index: Index{
			CacheTTL: defaultIndexCacheTTL,
			PageSize: defaultIndexPageSize,
		},
		Database: Database{
			Path: defaultDatabasePath,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

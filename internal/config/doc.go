// Package config loads and validates the availarr TOML configuration.
//
// Load resolves the configuration file (explicit path, then
// ~/.config/availarr/config.toml, then ./availarr.toml), applies defaults for
// missing values, expands ~ in path fields, and validates the result. A
// missing configuration file is not an error; the defaults describe a working
// instance with the Plex integration disabled.
package config

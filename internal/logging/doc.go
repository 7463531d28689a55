// Package logging constructs the application's slog loggers.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log aggregation. Components attach a "component" attribute
// via NewComponentLogger so console output can group lines by subsystem.
package logging

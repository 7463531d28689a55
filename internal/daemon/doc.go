// Package daemon runs the long-lived availarr process: it enforces
// single-instance execution with a lock file, serves the HTTP API, and
// optionally rebuilds the index on a cron schedule.
package daemon

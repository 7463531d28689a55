// Package mappings persists the durable external-identifier to library-key
// mapping table backed by SQLite. The table is a write-mostly byproduct of
// index builds: each build upserts the mappings it observed, and rows survive
// restarts for diagnostics and future reuse. The in-memory index never reads
// from this table on startup.
package mappings

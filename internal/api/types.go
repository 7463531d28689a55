package api

import (
	"time"

	"availarr/internal/catalog"
)

// IndexStats reports the current index snapshot plus durable row counts.
type IndexStats struct {
	ExternalIDs int       `json:"externalIds"`
	TitleYears  int       `json:"titleYears"`
	BuiltAt     time.Time `json:"builtAt"`
	MappingRows int64     `json:"mappingRows"`
}

// MatchRequest carries the identifiers to test against the index.
type MatchRequest struct {
	TmdbID int    `json:"tmdbId,omitempty"`
	ImdbID string `json:"imdbId,omitempty"`
	TvdbID int    `json:"tvdbId,omitempty"`
	Title  string `json:"title,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// MatchResponse reports how a match request resolved.
type MatchResponse struct {
	Matched    bool   `json:"matched"`
	Strategy   string `json:"strategy,omitempty"`
	LibraryKey string `json:"libraryKey,omitempty"`
	PlexURL    string `json:"plexUrl,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// AnnotateRequest is a batch of catalog items to mark up.
type AnnotateRequest struct {
	Items []catalog.MediaItem `json:"items"`
}

// AnnotateResponse returns the same items with availability filled in.
type AnnotateResponse struct {
	Items []catalog.MediaItem `json:"items"`
}

// StatusResponse describes the daemon for health checks.
type StatusResponse struct {
	Service        string `json:"service"`
	Version        string `json:"version"`
	PlexConfigured bool   `json:"plexConfigured"`
	DatabaseOK     bool   `json:"databaseOk"`
}

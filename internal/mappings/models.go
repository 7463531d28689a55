package mappings

import "time"

// Mapping records where one external identifier was last seen in the library.
// ExternalKey is the namespace-qualified identifier ("tmdb:27205"); LibraryKey
// is the server's rating key for the item that carried it.
type Mapping struct {
	ExternalKey string
	LibraryKey  string
	MediaKind   string
	Title       string
	Year        int
	LastSeenAt  time.Time
}

package catalog

// MediaType distinguishes films from series in catalog listings.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// MediaItem is one catalog entry as served to clients. Available and PlexURL
// are filled in by the availability annotator; the remaining fields come from
// the metadata provider.
type MediaItem struct {
	TmdbID    int       `json:"tmdbId,omitempty"`
	ImdbID    string    `json:"imdbId,omitempty"`
	TvdbID    int       `json:"tvdbId,omitempty"`
	Title     string    `json:"title"`
	Year      int       `json:"year,omitempty"`
	MediaType MediaType `json:"mediaType,omitempty"`
	Available bool      `json:"available"`
	PlexURL   string    `json:"plexUrl,omitempty"`
}

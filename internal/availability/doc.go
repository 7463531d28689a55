// Package availability builds and queries the in-memory library index that
// answers "is this title already on the server". The index maps external
// identifiers (tmdb, imdb, tvdb) and normalized title+year pairs to library
// keys. It is rebuilt wholesale from library scans, cached with a TTL, and
// published as an immutable snapshot so lookups never race a rebuild.
package availability

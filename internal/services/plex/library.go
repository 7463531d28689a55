package plex

import (
	"context"
	"net/url"
	"strconv"
)

// SectionKind identifies the media type a library section holds.
type SectionKind string

const (
	KindMovie  SectionKind = "movie"
	KindShow   SectionKind = "show"
	KindArtist SectionKind = "artist"
	KindPhoto  SectionKind = "photo"
)

// Indexable reports whether sections of this kind feed the availability index.
// Music and photo libraries are never indexed.
func (k SectionKind) Indexable() bool {
	return k == KindMovie || k == KindShow
}

// Section describes one library section on the server.
type Section struct {
	Key   string
	Title string
	Kind  SectionKind
}

// Item is one entry in a library section, reduced to the fields the
// availability index consumes. GUIDs carries raw scheme-qualified external
// identifier strings such as "tmdb://27205".
type Item struct {
	RatingKey string
	Title     string
	Year      int
	GUIDs     []string
}

// Sections lists the server's library sections.
func (c *Client) Sections(ctx context.Context) ([]Section, error) {
	if c == nil {
		return nil, nil
	}
	body, contentType, err := c.get(ctx, "/library/sections", nil)
	if err != nil {
		return nil, err
	}
	return decodeSections(body, contentType)
}

// ItemsPage fetches one page of a section's contents using the container
// offset/size window. Callers detect the end of data by a short page.
func (c *Client) ItemsPage(ctx context.Context, sectionKey string, offset, size int) ([]Item, error) {
	if c == nil {
		return nil, nil
	}
	query := url.Values{}
	query.Set("X-Plex-Container-Start", strconv.Itoa(offset))
	query.Set("X-Plex-Container-Size", strconv.Itoa(size))
	query.Set("includeGuids", "1")

	body, contentType, err := c.get(ctx, "/library/sections/"+url.PathEscape(sectionKey)+"/all", query)
	if err != nil {
		return nil, err
	}
	return decodeItems(body, contentType)
}

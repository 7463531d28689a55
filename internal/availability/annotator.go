package availability

import (
	"context"
	"log/slog"

	"availarr/internal/catalog"
	"availarr/internal/logging"
)

// Linker produces browser deep links for library items. A nil linker disables
// annotation entirely.
type Linker interface {
	DeepLink(ctx context.Context, ratingKey string) string
}

// Annotator marks catalog items as available when the index matches them and
// decorates matches with a server deep link.
type Annotator struct {
	cache  *Cache
	linker Linker
	logger *slog.Logger
}

// NewAnnotator creates an annotator. linker may be nil when no server is
// configured, which turns Annotate into a no-op.
func NewAnnotator(cache *Cache, linker Linker, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Annotator{
		cache:  cache,
		linker: linker,
		logger: logging.NewComponentLogger(logger, "annotator"),
	}
}

// Annotate resolves every item in the batch against one index snapshot.
// Items already marked available are left untouched.
func (a *Annotator) Annotate(ctx context.Context, items []*catalog.MediaItem) {
	if a == nil || a.linker == nil || len(items) == 0 {
		return
	}

	ix := a.cache.GetOrBuild(ctx)
	matched := 0
	for _, item := range items {
		if item == nil || item.Available {
			continue
		}
		result := Resolve(ix, Query{
			TmdbID: item.TmdbID,
			ImdbID: item.ImdbID,
			TvdbID: item.TvdbID,
			Title:  item.Title,
			Year:   item.Year,
		})
		if !result.Matched {
			continue
		}
		item.Available = true
		if result.LibraryKey != "" {
			item.PlexURL = a.linker.DeepLink(ctx, result.LibraryKey)
		}
		matched++
	}

	a.logger.Debug("batch annotated",
		logging.Int("items", len(items)),
		logging.Int("matched", matched),
	)
}

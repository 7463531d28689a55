package api

import (
	"context"
	"log/slog"

	"availarr/internal/availability"
	"availarr/internal/catalog"
	"availarr/internal/logging"
	"availarr/internal/mappings"
)

// Version identifies the service in status responses.
const Version = "0.1.0"

// IndexService bundles the cache, annotator and store behind the operations
// the HTTP handlers and CLI commands call.
type IndexService struct {
	cache     *availability.Cache
	annotator *availability.Annotator
	linker    availability.Linker
	store     *mappings.Store
	plexSet   bool
	logger    *slog.Logger
}

// NewIndexService wires the service. store and linker may be nil when the
// corresponding subsystem is not configured.
func NewIndexService(
	cache *availability.Cache,
	annotator *availability.Annotator,
	linker availability.Linker,
	store *mappings.Store,
	plexConfigured bool,
	logger *slog.Logger,
) *IndexService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &IndexService{
		cache:     cache,
		annotator: annotator,
		linker:    linker,
		store:     store,
		plexSet:   plexConfigured,
		logger:    logging.NewComponentLogger(logger, "api"),
	}
}

// Stats returns index counts, building the index first when stale.
func (s *IndexService) Stats(ctx context.Context) (IndexStats, error) {
	ix := s.cache.GetOrBuild(ctx)
	stats := ix.Stats()

	out := IndexStats{
		ExternalIDs: stats.ExternalIDs,
		TitleYears:  stats.TitleYears,
		BuiltAt:     stats.BuiltAt,
	}
	if s.store != nil {
		rows, err := s.store.Count(ctx)
		if err != nil {
			s.logger.Warn("mapping count failed", logging.Error(err))
		} else {
			out.MappingRows = rows
		}
	}
	return out, nil
}

// Rebuild discards the cached index and builds a fresh one.
func (s *IndexService) Rebuild(ctx context.Context) (IndexStats, error) {
	ix := s.cache.ForceRebuild(ctx)
	stats := ix.Stats()

	out := IndexStats{
		ExternalIDs: stats.ExternalIDs,
		TitleYears:  stats.TitleYears,
		BuiltAt:     stats.BuiltAt,
	}
	if s.store != nil {
		if rows, err := s.store.Count(ctx); err == nil {
			out.MappingRows = rows
		}
	}
	return out, nil
}

// TestMatch resolves one query against the index for diagnostics.
func (s *IndexService) TestMatch(ctx context.Context, req MatchRequest) MatchResponse {
	ix := s.cache.GetOrBuild(ctx)
	result := availability.Resolve(ix, availability.Query{
		TmdbID: req.TmdbID,
		ImdbID: req.ImdbID,
		TvdbID: req.TvdbID,
		Title:  req.Title,
		Year:   req.Year,
	})

	resp := MatchResponse{
		Matched:    result.Matched,
		Strategy:   result.Strategy,
		LibraryKey: result.LibraryKey,
		Reason:     result.Reason,
	}
	if result.Matched && result.LibraryKey != "" && s.linker != nil {
		resp.PlexURL = s.linker.DeepLink(ctx, result.LibraryKey)
	}
	return resp
}

// Annotate marks up a batch of catalog items in place and returns them.
func (s *IndexService) Annotate(ctx context.Context, items []catalog.MediaItem) []catalog.MediaItem {
	if len(items) == 0 {
		return items
	}
	refs := make([]*catalog.MediaItem, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	s.annotator.Annotate(ctx, refs)
	return items
}

// Status reports daemon health.
func (s *IndexService) Status(ctx context.Context) StatusResponse {
	resp := StatusResponse{
		Service:        "availarr",
		Version:        Version,
		PlexConfigured: s.plexSet,
	}
	if s.store != nil {
		resp.DatabaseOK = s.store.CheckHealth(ctx) == nil
	}
	return resp
}

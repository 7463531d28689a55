package availability

import (
	"context"
	"log/slog"
	"time"

	"availarr/internal/logging"
	"availarr/internal/mappings"
	"availarr/internal/services/plex"
)

// DefaultPageSize is the container window used when enumerating sections.
const DefaultPageSize = 200

// LibrarySource enumerates a media server's library. A nil source (server not
// configured) yields an empty index.
type LibrarySource interface {
	Sections(ctx context.Context) ([]plex.Section, error)
	ItemsPage(ctx context.Context, sectionKey string, offset, size int) ([]plex.Item, error)
}

// MappingStore receives durable mapping upserts as a side effect of builds.
// Failures are logged and swallowed; persistence never blocks indexing.
type MappingStore interface {
	UpsertBatch(ctx context.Context, batch []mappings.Mapping) error
}

// Builder assembles Index snapshots from a library source.
type Builder struct {
	source   LibrarySource
	store    MappingStore
	pageSize int
	logger   *slog.Logger
}

// NewBuilder creates a builder. source and store may be nil; pageSize falls
// back to DefaultPageSize when not positive.
func NewBuilder(source LibrarySource, store MappingStore, pageSize int, logger *slog.Logger) *Builder {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		source:   source,
		store:    store,
		pageSize: pageSize,
		logger:   logging.NewComponentLogger(logger, "index-builder"),
	}
}

// Build scans every indexable section and returns a fresh snapshot. Build
// never fails: enumeration errors truncate the scan and the partial index is
// returned, so a flaky server degrades matching instead of breaking it.
func (b *Builder) Build(ctx context.Context) *Index {
	ix := &Index{
		byGUID:        make(map[string]string),
		titleYears:    make(map[string]struct{}),
		titleYearKeys: make(map[string]string),
		builtAt:       time.Now(),
	}
	if b == nil || b.source == nil {
		return ix
	}

	started := time.Now()
	sections, err := b.source.Sections(ctx)
	if err != nil {
		b.logger.Warn("section listing failed, serving empty index", logging.Error(err))
		return ix
	}

	for _, section := range sections {
		if !section.Kind.Indexable() {
			continue
		}
		if ctx.Err() != nil {
			b.logger.Warn("index build canceled", logging.String("section", section.Title))
			return ix
		}
		b.scanSection(ctx, ix, section)
	}

	b.logger.Info("index build complete",
		logging.Int("sections", len(sections)),
		logging.Int("external_ids", len(ix.byGUID)),
		logging.Int("title_years", len(ix.titleYears)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return ix
}

// scanSection pages through one section, folding items into the index and
// collecting mapping rows. A page fetch error stops this section silently;
// whatever was already indexed stays.
func (b *Builder) scanSection(ctx context.Context, ix *Index, section plex.Section) {
	var pending []mappings.Mapping

	for offset := 0; ; offset += b.pageSize {
		if ctx.Err() != nil {
			break
		}
		items, err := b.source.ItemsPage(ctx, section.Key, offset, b.pageSize)
		if err != nil {
			b.logger.Warn("section page fetch failed, truncating",
				logging.String("section", section.Title),
				logging.Int("offset", offset),
				logging.Error(err),
			)
			break
		}
		for _, item := range items {
			b.indexItem(ix, section, item, &pending)
		}
		if len(items) < b.pageSize {
			break
		}
	}

	b.flushMappings(ctx, section, pending)
}

func (b *Builder) indexItem(ix *Index, section plex.Section, item plex.Item, pending *[]mappings.Mapping) {
	if item.Title != "" && item.Year != 0 {
		key := TitleYearKey(item.Title, item.Year)
		ix.titleYears[key] = struct{}{}
		if _, exists := ix.titleYearKeys[key]; !exists {
			ix.titleYearKeys[key] = item.RatingKey
		}
	}

	for _, raw := range item.GUIDs {
		namespace, id, ok := ParseGUID(raw)
		if !ok {
			continue
		}
		key := ExternalKey(namespace, id)
		if _, exists := ix.byGUID[key]; !exists {
			ix.byGUID[key] = item.RatingKey
		}
		*pending = append(*pending, mappings.Mapping{
			ExternalKey: key,
			LibraryKey:  item.RatingKey,
			MediaKind:   string(section.Kind),
			Title:       item.Title,
			Year:        item.Year,
		})
	}
}

func (b *Builder) flushMappings(ctx context.Context, section plex.Section, pending []mappings.Mapping) {
	if b.store == nil || len(pending) == 0 {
		return
	}
	if err := b.store.UpsertBatch(ctx, pending); err != nil {
		b.logger.Warn("mapping persistence failed",
			logging.String("section", section.Title),
			logging.Int("rows", len(pending)),
			logging.Error(err),
		)
	}
}

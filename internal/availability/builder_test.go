package availability

import (
	"context"
	"errors"
	"testing"

	"availarr/internal/mappings"
	"availarr/internal/services/plex"
)

type fakeSource struct {
	sections    []plex.Section
	items       map[string][]plex.Item
	sectionsErr error
	pageErrAt   map[string]int

	pageCalls []pageCall
}

type pageCall struct {
	section string
	offset  int
	size    int
}

func (f *fakeSource) Sections(ctx context.Context) ([]plex.Section, error) {
	return f.sections, f.sectionsErr
}

func (f *fakeSource) ItemsPage(ctx context.Context, sectionKey string, offset, size int) ([]plex.Item, error) {
	f.pageCalls = append(f.pageCalls, pageCall{section: sectionKey, offset: offset, size: size})
	if at, ok := f.pageErrAt[sectionKey]; ok && offset >= at {
		return nil, errors.New("server hiccup")
	}
	all := f.items[sectionKey]
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + size
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

type recordingStore struct {
	batches [][]mappings.Mapping
	err     error
}

func (r *recordingStore) UpsertBatch(ctx context.Context, batch []mappings.Mapping) error {
	copied := make([]mappings.Mapping, len(batch))
	copy(copied, batch)
	r.batches = append(r.batches, copied)
	return r.err
}

func movieSections() []plex.Section {
	return []plex.Section{
		{Key: "1", Title: "Movies", Kind: plex.KindMovie},
		{Key: "2", Title: "Music", Kind: plex.KindArtist},
	}
}

func TestBuildIndexesGUIDsAndTitleYears(t *testing.T) {
	source := &fakeSource{
		sections: movieSections(),
		items: map[string][]plex.Item{
			"1": {
				{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205", "imdb://tt1375666"}},
				{RatingKey: "200", Title: "The Matrix", Year: 1999},
			},
		},
	}
	store := &recordingStore{}
	builder := NewBuilder(source, store, 200, nil)

	ix := builder.Build(context.Background())

	if got := ix.LookupGUID("tmdb", "27205"); got != "100" {
		t.Fatalf("tmdb lookup = %q", got)
	}
	if got := ix.LookupGUID("imdb", "tt1375666"); got != "100" {
		t.Fatalf("imdb lookup = %q", got)
	}
	if !ix.HasTitleYear("the matrix", 1999) {
		t.Fatal("title+year not indexed")
	}
	if got := ix.TitleYearLibraryKey("The Matrix", 1999); got != "200" {
		t.Fatalf("title+year library key = %q", got)
	}

	stats := ix.Stats()
	if stats.ExternalIDs != 2 || stats.TitleYears != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("expected one batch of two mappings, got %+v", store.batches)
	}
	if store.batches[0][0].ExternalKey != "tmdb:27205" || store.batches[0][0].LibraryKey != "100" {
		t.Fatalf("unexpected mapping: %+v", store.batches[0][0])
	}
}

func TestBuildSkipsNonIndexableSections(t *testing.T) {
	source := &fakeSource{
		sections: movieSections(),
		items: map[string][]plex.Item{
			"2": {{RatingKey: "900", Title: "Some Album", Year: 2020, GUIDs: []string{"mbid://abc"}}},
		},
	}
	builder := NewBuilder(source, nil, 200, nil)

	ix := builder.Build(context.Background())
	if ix.Stats().ExternalIDs != 0 {
		t.Fatal("music section must not be indexed")
	}
	for _, call := range source.pageCalls {
		if call.section == "2" {
			t.Fatal("music section must not be paged")
		}
	}
}

func TestBuildPaginationStopsOnShortPage(t *testing.T) {
	// Exactly one full page followed by an empty page: the builder must
	// request offset 0 and offset 3, then stop.
	items := make([]plex.Item, 3)
	for i := range items {
		items[i] = plex.Item{RatingKey: "k", Title: "t", Year: 2000 + i}
	}
	source := &fakeSource{
		sections: []plex.Section{{Key: "1", Title: "Movies", Kind: plex.KindMovie}},
		items:    map[string][]plex.Item{"1": items},
	}
	builder := NewBuilder(source, nil, 3, nil)

	builder.Build(context.Background())

	if len(source.pageCalls) != 2 {
		t.Fatalf("expected 2 page calls, got %+v", source.pageCalls)
	}
	if source.pageCalls[0].offset != 0 || source.pageCalls[1].offset != 3 {
		t.Fatalf("unexpected offsets: %+v", source.pageCalls)
	}
}

func TestBuildTruncatesSilentlyOnPageError(t *testing.T) {
	source := &fakeSource{
		sections: []plex.Section{{Key: "1", Title: "Movies", Kind: plex.KindMovie}},
		items: map[string][]plex.Item{
			"1": {
				{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205"}},
				{RatingKey: "200", Title: "The Matrix", Year: 1999, GUIDs: []string{"tmdb://603"}},
			},
		},
		pageErrAt: map[string]int{"1": 1},
	}
	builder := NewBuilder(source, nil, 1, nil)

	ix := builder.Build(context.Background())
	if got := ix.LookupGUID("tmdb", "27205"); got != "100" {
		t.Fatal("items before the failure must survive")
	}
	if got := ix.LookupGUID("tmdb", "603"); got != "" {
		t.Fatal("items past the failure must be absent")
	}
}

func TestBuildEmptyWhenSectionsFail(t *testing.T) {
	source := &fakeSource{sectionsErr: errors.New("unreachable")}
	builder := NewBuilder(source, nil, 200, nil)

	ix := builder.Build(context.Background())
	if ix == nil {
		t.Fatal("build must never return nil")
	}
	if stats := ix.Stats(); stats.ExternalIDs != 0 || stats.TitleYears != 0 {
		t.Fatalf("expected empty index, got %+v", stats)
	}
}

func TestBuildNilSourceYieldsEmptyIndex(t *testing.T) {
	builder := NewBuilder(nil, nil, 0, nil)
	ix := builder.Build(context.Background())
	if ix == nil || ix.Stats().ExternalIDs != 0 {
		t.Fatal("expected empty index for nil source")
	}
}

func TestBuildFirstWriterWinsInMemory(t *testing.T) {
	source := &fakeSource{
		sections: []plex.Section{{Key: "1", Title: "Movies", Kind: plex.KindMovie}},
		items: map[string][]plex.Item{
			"1": {
				{RatingKey: "100", Title: "Dune", Year: 2021, GUIDs: []string{"tmdb://438631"}},
				{RatingKey: "999", Title: "Dune", Year: 2021, GUIDs: []string{"tmdb://438631"}},
			},
		},
	}
	store := &recordingStore{}
	builder := NewBuilder(source, store, 200, nil)

	ix := builder.Build(context.Background())
	if got := ix.LookupGUID("tmdb", "438631"); got != "100" {
		t.Fatalf("first writer must win in memory, got %q", got)
	}
	if got := ix.TitleYearLibraryKey("Dune", 2021); got != "100" {
		t.Fatalf("first writer must win for title keys, got %q", got)
	}

	// Both sightings still flow to the durable store, where the later
	// upsert wins.
	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("expected both mappings persisted, got %+v", store.batches)
	}
}

func TestBuildSurvivesStoreFailure(t *testing.T) {
	source := &fakeSource{
		sections: []plex.Section{{Key: "1", Title: "Movies", Kind: plex.KindMovie}},
		items: map[string][]plex.Item{
			"1": {{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205"}}},
		},
	}
	store := &recordingStore{err: errors.New("disk full")}
	builder := NewBuilder(source, store, 200, nil)

	ix := builder.Build(context.Background())
	if got := ix.LookupGUID("tmdb", "27205"); got != "100" {
		t.Fatal("store failure must not affect the in-memory index")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	source := &fakeSource{
		sections: movieSections(),
		items: map[string][]plex.Item{
			"1": {
				{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205"}},
				{RatingKey: "200", Title: "The Matrix", Year: 1999},
			},
		},
	}
	builder := NewBuilder(source, nil, 200, nil)

	first := builder.Build(context.Background())
	second := builder.Build(context.Background())

	fs, ss := first.Stats(), second.Stats()
	if fs.ExternalIDs != ss.ExternalIDs || fs.TitleYears != ss.TitleYears {
		t.Fatalf("rebuild diverged: %+v vs %+v", fs, ss)
	}
	if first.LookupGUID("tmdb", "27205") != second.LookupGUID("tmdb", "27205") {
		t.Fatal("rebuild produced different lookups")
	}
}

func TestBuildAndResolveAcrossSections(t *testing.T) {
	source := &fakeSource{
		sections: []plex.Section{
			{Key: "1", Title: "Movies", Kind: plex.KindMovie},
			{Key: "2", Title: "TV Shows", Kind: plex.KindShow},
		},
		items: map[string][]plex.Item{
			"1": {{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205"}}},
			"2": {{RatingKey: "200", Title: "The Matrix", Year: 1999}},
		},
	}
	builder := NewBuilder(source, nil, 200, nil)
	ix := builder.Build(context.Background())

	byID := Resolve(ix, Query{TmdbID: 27205})
	if !byID.Matched || byID.LibraryKey != "100" {
		t.Fatalf("tmdb resolve: %+v", byID)
	}

	byTitle := Resolve(ix, Query{Title: "The Matrix", Year: 1999})
	if !byTitle.Matched || byTitle.LibraryKey != "200" {
		t.Fatalf("title resolve: %+v", byTitle)
	}

	miss := Resolve(ix, Query{Title: "Unknown Film", Year: 2050})
	if miss.Matched || miss.Reason != "title-year miss" {
		t.Fatalf("expected miss, got %+v", miss)
	}
}

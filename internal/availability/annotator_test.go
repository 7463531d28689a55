package availability

import (
	"context"
	"testing"
	"time"

	"availarr/internal/catalog"
	"availarr/internal/services/plex"
)

type fakeLinker struct {
	calls int
}

func (f *fakeLinker) DeepLink(ctx context.Context, ratingKey string) string {
	f.calls++
	return "https://app.plex.tv/desktop#!/server/test/details?key=" + ratingKey
}

func annotatorFixture(t *testing.T) (*Annotator, *fakeLinker, *fakeSource) {
	t.Helper()
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
	linker := &fakeLinker{}
	cache := NewCache(NewBuilder(source, nil, 200, nil), time.Minute, nil)
	return NewAnnotator(cache, linker, nil), linker, source
}

func TestAnnotateBatch(t *testing.T) {
	annotator, linker, _ := annotatorFixture(t)

	items := []*catalog.MediaItem{
		{TmdbID: 27205, Title: "Inception", Year: 2010},
		{Title: "The Matrix", Year: 1999},
		{Title: "Unknown Film", Year: 2050},
	}
	annotator.Annotate(context.Background(), items)

	if !items[0].Available || items[0].PlexURL == "" {
		t.Fatalf("identifier match not annotated: %+v", items[0])
	}
	if !items[1].Available || items[1].PlexURL == "" {
		t.Fatalf("title+year match not annotated: %+v", items[1])
	}
	if items[2].Available || items[2].PlexURL != "" {
		t.Fatalf("miss must stay unavailable: %+v", items[2])
	}
	if linker.calls != 2 {
		t.Fatalf("expected 2 deep links, got %d", linker.calls)
	}
}

func TestAnnotateSharesOneSnapshotPerBatch(t *testing.T) {
	annotator, _, source := annotatorFixture(t)

	items := []*catalog.MediaItem{
		{TmdbID: 27205},
		{Title: "The Matrix", Year: 1999},
		{Title: "Inception", Year: 2010},
	}
	annotator.Annotate(context.Background(), items)

	scans := 0
	for _, call := range source.pageCalls {
		if call.offset == 0 && call.section == "1" {
			scans++
		}
	}
	if scans != 1 {
		t.Fatalf("expected a single library scan for the batch, got %d", scans)
	}
}

func TestAnnotateSkipsAlreadyAvailable(t *testing.T) {
	annotator, linker, _ := annotatorFixture(t)

	items := []*catalog.MediaItem{{TmdbID: 27205, Available: true}}
	annotator.Annotate(context.Background(), items)

	if items[0].PlexURL != "" {
		t.Fatal("already-available item must not be touched")
	}
	if linker.calls != 0 {
		t.Fatal("no deep link expected for skipped items")
	}
}

func TestAnnotateNoOpWithoutLinker(t *testing.T) {
	cache := NewCache(NewBuilder(nil, nil, 200, nil), time.Minute, nil)
	annotator := NewAnnotator(cache, nil, nil)

	items := []*catalog.MediaItem{{TmdbID: 27205}}
	annotator.Annotate(context.Background(), items)
	if items[0].Available {
		t.Fatal("annotation must be disabled without a linker")
	}
}

func TestAnnotateEmptyBatch(t *testing.T) {
	annotator, _, source := annotatorFixture(t)
	annotator.Annotate(context.Background(), nil)
	if len(source.pageCalls) != 0 {
		t.Fatal("empty batch must not trigger a scan")
	}
}

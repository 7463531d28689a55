package availability

import (
	"context"
	"testing"
	"time"

	"availarr/internal/services/plex"
)

func newCacheWithClock(t *testing.T, source LibrarySource) (*Cache, *time.Time) {
	t.Helper()
	cache := NewCache(NewBuilder(source, nil, 200, nil), 10*time.Minute, nil)
	clock := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return clock }
	return cache, &clock
}

func singleMovieSource() *fakeSource {
	return &fakeSource{
		sections: []plex.Section{{Key: "1", Title: "Movies", Kind: plex.KindMovie}},
		items: map[string][]plex.Item{
			"1": {{RatingKey: "100", Title: "Inception", Year: 2010, GUIDs: []string{"tmdb://27205"}}},
		},
	}
}

func TestGetOrBuildReusesFreshIndex(t *testing.T) {
	source := singleMovieSource()
	cache, clock := newCacheWithClock(t, source)
	ctx := context.Background()

	first := cache.GetOrBuild(ctx)
	*clock = clock.Add(5 * time.Minute)
	second := cache.GetOrBuild(ctx)

	if first != second {
		t.Fatal("fresh index must be reused")
	}
	if len(source.pageCalls) != 1 {
		t.Fatalf("expected one scan, got %d page calls", len(source.pageCalls))
	}
}

func TestGetOrBuildRebuildsAfterTTL(t *testing.T) {
	source := singleMovieSource()
	cache, clock := newCacheWithClock(t, source)
	ctx := context.Background()

	first := cache.GetOrBuild(ctx)
	*clock = clock.Add(11 * time.Minute)
	second := cache.GetOrBuild(ctx)

	if first == second {
		t.Fatal("stale index must be rebuilt")
	}
	if len(source.pageCalls) != 2 {
		t.Fatalf("expected two scans, got %d page calls", len(source.pageCalls))
	}
}

func TestForceRebuildIgnoresTTL(t *testing.T) {
	source := singleMovieSource()
	cache, _ := newCacheWithClock(t, source)
	ctx := context.Background()

	first := cache.GetOrBuild(ctx)
	second := cache.ForceRebuild(ctx)
	if first == second {
		t.Fatal("force rebuild must produce a fresh snapshot")
	}
	if cache.GetOrBuild(ctx) != second {
		t.Fatal("forced snapshot must become the cached one")
	}
}

func TestInvalidateDropsSnapshot(t *testing.T) {
	source := singleMovieSource()
	cache, _ := newCacheWithClock(t, source)
	ctx := context.Background()

	first := cache.GetOrBuild(ctx)
	cache.Invalidate()
	second := cache.GetOrBuild(ctx)
	if first == second {
		t.Fatal("invalidate must force a rebuild on next read")
	}
}

package availability

import "strconv"

// Query carries the identifiers known for one catalog item. Zero values mean
// the identifier is unknown.
type Query struct {
	TmdbID int
	ImdbID string
	TvdbID int
	Title  string
	Year   int
}

// Match strategies, in resolution order.
const (
	StrategyTmdb      = "tmdb"
	StrategyImdb      = "imdb"
	StrategyTvdb      = "tvdb"
	StrategyTitleYear = "title-year"
)

// Result reports how a query resolved against the index.
type Result struct {
	Matched    bool   `json:"matched"`
	Strategy   string `json:"strategy,omitempty"`
	LibraryKey string `json:"libraryKey,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Resolve matches a query against an index snapshot. Identifier tiers are
// tried in fixed order (tmdb, imdb, tvdb) and the first hit wins; title+year
// is the fallback, tolerating a release-date skew of one year in either
// direction.
func Resolve(ix *Index, q Query) Result {
	if q.TmdbID != 0 {
		if key := ix.LookupGUID("tmdb", strconv.Itoa(q.TmdbID)); key != "" {
			return Result{Matched: true, Strategy: StrategyTmdb, LibraryKey: key}
		}
	}
	if q.ImdbID != "" {
		if key := ix.LookupGUID("imdb", q.ImdbID); key != "" {
			return Result{Matched: true, Strategy: StrategyImdb, LibraryKey: key}
		}
	}
	if q.TvdbID != 0 {
		if key := ix.LookupGUID("tvdb", strconv.Itoa(q.TvdbID)); key != "" {
			return Result{Matched: true, Strategy: StrategyTvdb, LibraryKey: key}
		}
	}

	if q.Title == "" || q.Year == 0 {
		return Result{Reason: "missing title/year"}
	}
	for _, year := range []int{q.Year, q.Year - 1, q.Year + 1} {
		if ix.HasTitleYear(q.Title, year) {
			return Result{
				Matched:    true,
				Strategy:   StrategyTitleYear,
				LibraryKey: ix.TitleYearLibraryKey(q.Title, year),
			}
		}
	}
	return Result{Reason: "title-year miss"}
}

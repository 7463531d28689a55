package availability

import "time"

// Index is an immutable snapshot of the library's identifier space. Lookups
// are safe from any goroutine; rebuilds produce a fresh Index and swap it in
// wholesale, never mutating a published one.
type Index struct {
	byGUID        map[string]string
	titleYears    map[string]struct{}
	titleYearKeys map[string]string
	builtAt       time.Time
}

// Stats summarizes an index snapshot.
type Stats struct {
	ExternalIDs int       `json:"externalIds"`
	TitleYears  int       `json:"titleYears"`
	BuiltAt     time.Time `json:"builtAt"`
}

// LookupGUID returns the library key recorded for a namespace-qualified
// identifier, or "" when the identifier is not in the library.
func (ix *Index) LookupGUID(namespace, id string) string {
	if ix == nil {
		return ""
	}
	return ix.byGUID[ExternalKey(namespace, id)]
}

// HasTitleYear reports whether any library item matched the normalized
// title+year key.
func (ix *Index) HasTitleYear(title string, year int) bool {
	if ix == nil {
		return false
	}
	_, ok := ix.titleYears[TitleYearKey(title, year)]
	return ok
}

// TitleYearLibraryKey returns the library key of the first item seen for a
// title+year, or "" when unknown.
func (ix *Index) TitleYearLibraryKey(title string, year int) string {
	if ix == nil {
		return ""
	}
	return ix.titleYearKeys[TitleYearKey(title, year)]
}

// BuiltAt returns when this snapshot was assembled.
func (ix *Index) BuiltAt() time.Time {
	if ix == nil {
		return time.Time{}
	}
	return ix.builtAt
}

// Stats returns counts for diagnostics.
func (ix *Index) Stats() Stats {
	if ix == nil {
		return Stats{}
	}
	return Stats{
		ExternalIDs: len(ix.byGUID),
		TitleYears:  len(ix.titleYears),
		BuiltAt:     ix.builtAt,
	}
}

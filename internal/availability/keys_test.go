package availability

import "testing"

func TestParseGUID(t *testing.T) {
	tests := []struct {
		raw       string
		namespace string
		id        string
		ok        bool
	}{
		{"tmdb://27205", "tmdb", "27205", true},
		{"imdb://tt1375666", "imdb", "tt1375666", true},
		{"tvdb://81189", "tvdb", "81189", true},
		{"com.plexapp.agents.imdb://tt1375666?lang=en", "com.plexapp.agents.imdb", "tt1375666", true},
		{"plex://movie/5d7768ba96b655001fdc0408", "plex", "movie/5d7768ba96b655001fdc0408", true},
		{"no-scheme-here", "", "", false},
		{"tmdb://", "", "", false},
		{"", "", "", false},
		{"   ", "", "", false},
	}

	for _, tt := range tests {
		namespace, id, ok := ParseGUID(tt.raw)
		if ok != tt.ok || namespace != tt.namespace || id != tt.id {
			t.Errorf("ParseGUID(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.raw, namespace, id, ok, tt.namespace, tt.id, tt.ok)
		}
	}
}

func TestExternalKey(t *testing.T) {
	if got := ExternalKey("tmdb", "27205"); got != "tmdb:27205" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestTitleYearKeyNormalization(t *testing.T) {
	base := TitleYearKey("Inception", 2010)

	equal := []string{"inception", "INCEPTION", "  Inception  ", "Inception!"}
	for _, title := range equal {
		if got := TitleYearKey(title, 2010); got != base {
			t.Errorf("TitleYearKey(%q, 2010) = %q, want %q", title, got, base)
		}
	}

	if TitleYearKey("Inception", 2011) == base {
		t.Error("different year must produce a different key")
	}
	if TitleYearKey("Interception", 2010) == base {
		t.Error("different title must produce a different key")
	}
}

func TestTitleYearKeyCollapsesWhitespace(t *testing.T) {
	a := TitleYearKey("The   Matrix", 1999)
	b := TitleYearKey("The Matrix", 1999)
	if a != b {
		t.Fatalf("whitespace runs not collapsed: %q vs %q", a, b)
	}
}

func TestTitleYearKeyKeepsDiacritics(t *testing.T) {
	// Precomposed and decomposed forms of the same title must agree, but
	// the accented letter itself is preserved.
	precomposed := TitleYearKey("Amélie", 2001)
	decomposed := TitleYearKey("Amélie", 2001)
	if precomposed != decomposed {
		t.Fatalf("unicode forms disagree: %q vs %q", precomposed, decomposed)
	}
	if precomposed == TitleYearKey("Amelie", 2001) {
		t.Fatal("diacritics must not be stripped to ascii")
	}
}

func TestTitleYearKeyEmptyTitle(t *testing.T) {
	if got := TitleYearKey("", 2010); got != "2010" {
		t.Fatalf("empty title key = %q, want bare year", got)
	}
	if got := TitleYearKey("!!!", 2010); got != "2010" {
		t.Fatalf("punctuation-only title key = %q, want bare year", got)
	}
}

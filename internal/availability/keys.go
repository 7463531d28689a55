package availability

import (
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ParseGUID splits a scheme-qualified identifier string like "tmdb://27205"
// or "com.plexapp.agents.imdb://tt1375666?lang=en" into its namespace and
// bare identifier. ok is false when the string has no scheme or no id part.
func ParseGUID(raw string) (namespace, id string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return "", "", false
	}
	id = strings.Trim(u.Host+u.Path, "/")
	if id == "" {
		return "", "", false
	}
	return u.Scheme, id, true
}

// ExternalKey joins a namespace and identifier into the canonical index key.
func ExternalKey(namespace, id string) string {
	return namespace + ":" + id
}

// TitleYearKey normalizes a title and year into the exact-match key used by
// the title+year tier. Titles are NFC-normalized so precomposed and
// decomposed accents produce the same key, stripped to letters, digits and
// spaces, lowercased, and space-collapsed. An empty title degenerates to the
// bare year so it can never collide with a real title key.
func TitleYearKey(title string, year int) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return strconv.Itoa(year)
	}
	normalized := norm.NFC.String(title)
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")
	if collapsed == "" {
		return strconv.Itoa(year)
	}
	return collapsed + "|" + strconv.Itoa(year)
}

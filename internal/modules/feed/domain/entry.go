package domain

import (
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

// Entry represents a single article from the feed. Entries are rebuilt from
// scratch on every poll cycle and never persisted.
type Entry struct {
	Title       string
	Link        string
	Categories  []string
	PublishedAt time.Time
}

// Matches reports whether the entry carries at least one of the allowed
// categories. An empty allow-set matches nothing.
func (e Entry) Matches(allowed []string) bool {
	if len(allowed) == 0 {
		return false
	}
	return len(lo.Intersect(e.Categories, allowed)) > 0
}

// stripPolicy removes all markup; feeds occasionally wrap category terms in
// HTML tags.
var stripPolicy = bluemonday.StrictPolicy()

// NormalizeCategory strips embedded markup and entity escapes from a raw
// category term so that terms like "Biotech &amp; Health" compare equal to
// their configured plain-text form.
func NormalizeCategory(raw string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}

// NormalizeCategories normalizes every term and drops the ones that are
// empty after cleanup.
func NormalizeCategories(raw []string) []string {
	return lo.FilterMap(raw, func(term string, _ int) (string, bool) {
		term = NormalizeCategory(term)
		return term, term != ""
	})
}

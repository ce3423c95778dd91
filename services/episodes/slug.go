package episodes

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapse = regexp.MustCompile(`\s+`)
)

// Slug derives the episode-service lookup key from a metadata-service title:
// transliterate to ASCII, lowercase, drop everything outside letters, digits,
// whitespace and hyphens, then collapse whitespace runs to single hyphens.
// This is best-effort title matching against an unrelated catalog; a slug
// with no match upstream is an expected outcome, not a bug.
func Slug(title string) string {
	s := unidecode.Unidecode(title)
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return slugCollapse.ReplaceAllString(s, "-")
}

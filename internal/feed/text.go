package feed

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// escapeXML entity-encodes free text for interpolation into the feed.
// Always the last step: callers concatenate and truncate first so entities
// are never split or double-encoded.
func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// stripHTML replaces tags with a single space and collapses whitespace.
func stripHTML(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// slugifyLabel turns a variant label into an id suffix segment. Runs of
// whitespace become a single hyphen; case and punctuation pass through.
func slugifyLabel(label string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(label), "-")
}

// truncateAtWord cuts s to at most max characters at the nearest preceding
// word boundary and appends an ellipsis. Counting and cutting are both in
// runes so a multi-byte character is never split into invalid bytes.
func truncateAtWord(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	budget := max - 3
	cut := len(s)
	n := 0
	for i := range s {
		if n == budget {
			cut = i
			break
		}
		n++
	}

	out := s[:cut]
	if idx := strings.LastIndex(out, " "); idx > 0 {
		out = out[:idx]
	}
	return out + "..."
}

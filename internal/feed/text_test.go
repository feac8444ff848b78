package feed

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text untouched", "Kikoy beach towel", "Kikoy beach towel"},
		{"ampersand", "Mugs & Cups", "Mugs &amp; Cups"},
		{"angle brackets", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"quotes", `He said "karibu"`, "He said &quot;karibu&quot;"},
		{"apostrophe", "Women's dress", "Women&apos;s dress"},
		{"all special characters", `&<>"'`, "&amp;&lt;&gt;&quot;&apos;"},
		{"no double escaping", "already &amp; escaped", "already &amp;amp; escaped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, escapeXML(tt.input))
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no tags", "plain text", "plain text"},
		{"simple tags", "<p>Soft cotton</p>", "Soft cotton"},
		{"tags become word boundaries", "<p>One</p><p>Two</p>", "One Two"},
		{"attributes", `<a href="/x">link</a> text`, "link text"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripHTML(tt.input))
		})
	}
}

func TestSlugifyLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single word", "Blue", "Blue"},
		{"whitespace run", "Extra  Large", "Extra-Large"},
		{"case preserved", "Navy BLUE", "Navy-BLUE"},
		{"punctuation preserved", "2XL (EU 44)", "2XL-(EU-44)"},
		{"surrounding whitespace trimmed", "  Red  ", "Red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugifyLabel(tt.input))
		})
	}
}

func TestTruncateAtWord(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "short", truncateAtWord("short", 100))
	})

	t.Run("cuts at word boundary with ellipsis", func(t *testing.T) {
		long := strings.Repeat("jambo habari ", 50)
		got := truncateAtWord(long, 100)
		assert.LessOrEqual(t, len(got), 100)
		assert.True(t, strings.HasSuffix(got, "..."))
		// No half word before the ellipsis.
		trimmed := strings.TrimSuffix(got, "...")
		assert.True(t, strings.HasSuffix(trimmed, "jambo") || strings.HasSuffix(trimmed, "habari"))
	})

	t.Run("exact length untouched", func(t *testing.T) {
		s := strings.Repeat("a", 50)
		assert.Equal(t, s, truncateAtWord(s, 50))
	})

	t.Run("multi-byte runes never split", func(t *testing.T) {
		got := truncateAtWord(strings.Repeat("é", 6000), 5000)
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 5000)
	})

	t.Run("multi-byte text within the limit passes through", func(t *testing.T) {
		s := strings.Repeat("é", 4000)
		assert.Equal(t, s, truncateAtWord(s, 5000))
	})

	t.Run("limit counts characters not bytes", func(t *testing.T) {
		// 10 two-byte runes fit a limit of 10 even though len(s) is 20.
		s := strings.Repeat("é", 10)
		assert.Equal(t, s, truncateAtWord(s, 10))
	})
}

package search

import (
	"html"
	"log/slog"
	"strings"

	"github.com/ArionMiles/spendlens/pkg/pattern"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight wraps every non-empty match of m in text with <mark> tags.
// The result is always HTML-escaped, including when m is nil or matching fails.
func Highlight(text string, m *pattern.Matcher) (out string) {
	if m == nil || text == "" {
		return html.EscapeString(text)
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Warn("highlighting panicked", "component", "search", "pattern", m.Source(), "panic", r)
			out = html.EscapeString(text)
		}
	}()

	spans, err := m.FindAll(text)
	if err != nil {
		slog.Default().Warn("highlighting failed", "component", "search", "pattern", m.Source(), "error", err)
		return html.EscapeString(text)
	}

	// spans are rune offsets
	runes := []rune(text)
	var b strings.Builder
	last := 0
	for _, s := range spans {
		if s.End <= s.Start || s.Start < last || s.End > len(runes) {
			continue
		}
		b.WriteString(html.EscapeString(string(runes[last:s.Start])))
		b.WriteString(markOpen)
		b.WriteString(html.EscapeString(string(runes[s.Start:s.End])))
		b.WriteString(markClose)
		last = s.End
	}
	b.WriteString(html.EscapeString(string(runes[last:])))
	return b.String()
}

// HighlightQuery highlights text with the matcher the default filter uses for q.
func HighlightQuery(text string, q Query) string {
	m, _ := MatcherFor(q).Matcher()
	return Highlight(text, m)
}

package pattern

import (
	"errors"
	"log/slog"

	"github.com/dlclark/regexp2"
)

// ErrNoMatcher is returned when a Matcher was not built by a Compiler.
var ErrNoMatcher = errors.New("matcher has no compiled pattern")

// Span is a match location in rune offsets, End exclusive.
type Span struct {
	Start int
	End   int
}

// Matcher is a compiled pattern. It is safe for concurrent use.
type Matcher struct {
	re     *regexp2.Regexp
	source string
	flags  string
	logger *slog.Logger
}

// Source returns the pattern body that was compiled.
func (m *Matcher) Source() string {
	if m == nil {
		return ""
	}
	return m.source
}

// Flags returns the flags the pattern was compiled with.
func (m *Matcher) Flags() string { return m.flags }

// Match reports whether text contains a match.
// The error is non-nil only when evaluation was aborted, e.g. by the match timeout.
func (m *Matcher) Match(text string) (bool, error) {
	if m == nil || m.re == nil {
		return false, ErrNoMatcher
	}
	return m.re.MatchString(text)
}

// Test reports whether text contains a match. An aborted evaluation counts as no match.
func (m *Matcher) Test(text string) bool {
	ok, err := m.Match(text)
	if err != nil {
		m.log().Warn("pattern evaluation aborted", "pattern", m.Source(), "error", err)
		return false
	}
	return ok
}

// FindAll returns every match in text, left to right and non-overlapping.
// Empty matches are included; the scan advances past them.
func (m *Matcher) FindAll(text string) ([]Span, error) {
	if m == nil || m.re == nil {
		return nil, ErrNoMatcher
	}

	var spans []Span

	match, err := m.re.FindStringMatch(text)
	for match != nil && err == nil {
		spans = append(spans, Span{Start: match.Index, End: match.Index + match.Length})
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return nil, err
	}
	return spans, nil
}

func (m *Matcher) log() *slog.Logger {
	if m == nil || m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

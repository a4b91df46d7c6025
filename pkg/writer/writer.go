// Package writer defines the reports that spendlens prints and the interface
// every output format implements.
package writer

import (
	"io"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/pattern"
	"github.com/ArionMiles/spendlens/pkg/search"
	"github.com/ArionMiles/spendlens/pkg/summary"
	"github.com/ArionMiles/spendlens/pkg/validate"
)

// SearchReport is a search outcome ready to print.
type SearchReport struct {
	Query  api.Query
	Result search.Result
	// Matcher, when set, marks matched fragments in descriptions.
	Matcher *pattern.Matcher
}

// SummaryReport holds the dashboard figures.
type SummaryReport struct {
	Stats summary.Stats
	Week  summary.Week
}

// PatternReport is the outcome of a pattern check.
type PatternReport struct {
	Pattern  string
	Validity pattern.Validity
}

// Writer prints reports in one output format.
type Writer interface {
	WriteSearch(w io.Writer, r SearchReport) error
	WriteSummary(w io.Writer, r SummaryReport) error
	WriteValidation(w io.Writer, r validate.Report) error
	WritePattern(w io.Writer, r PatternReport) error
}

// DisplayAmount is the fixed two-decimal form of an amount used in table output.
func DisplayAmount(t api.Transaction) string {
	return t.Amount.StringFixed(2)
}

// Package markdown implements a Writer that prints reports as markdown
// tables, optionally rendered for the terminal with glamour.
package markdown

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/pattern"
	"github.com/ArionMiles/spendlens/pkg/summary"
	"github.com/ArionMiles/spendlens/pkg/validate"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

// DefaultWidth is the word wrap width used when rendering.
const DefaultWidth = 100

// Config holds configuration for the markdown writer.
type Config struct {
	// Render passes the markdown through glamour before printing.
	Render bool
	// Style is a glamour standard style name. Empty picks one from the terminal.
	Style string
	// Width is the word wrap width. Defaults to DefaultWidth.
	Width int
}

// Writer prints reports as markdown.
type Writer struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a new markdown writer.
func New(cfg Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	return &Writer{cfg: cfg, logger: logger.With("component", "markdown_writer")}
}

// WriteSearch prints the feedback line and a table of matches.
func (w *Writer) WriteSearch(out io.Writer, r writer.SearchReport) error {
	var b strings.Builder

	fmt.Fprintf(&b, "## Search `%s`\n\n", strings.ReplaceAll(r.Query.Pattern, "`", "'"))
	fmt.Fprintf(&b, "%s. %s.\n\n", r.Result.Feedback(), r.Result.Stats())
	if r.Result.Error != "" {
		fmt.Fprintf(&b, "> %s\n\n", escape(r.Result.Error))
	}
	transactionTable(&b, r.Result.Transactions, r.Matcher)

	return w.emit(out, b.String())
}

func transactionTable(b *strings.Builder, txns []api.Transaction, m *pattern.Matcher) {
	if len(txns) == 0 {
		b.WriteString("_No transactions._\n")
		return
	}

	b.WriteString("| Date | Description | Category | Amount |\n")
	b.WriteString("|------|-------------|----------|-------:|\n")
	for _, t := range txns {
		fmt.Fprintf(b, "| %s | %s | %s | %s |\n",
			t.Date, mark(t.Description, m), mark(t.Category, m), writer.DisplayAmount(t))
	}
}

// WriteSummary prints the dashboard figures.
func (w *Writer) WriteSummary(out io.Writer, r writer.SummaryReport) error {
	var b strings.Builder
	s := r.Stats

	top := s.TopCategory
	if top == "" {
		top = "N/A"
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|--------|------:|\n")
	fmt.Fprintf(&b, "| Transactions | %d |\n", s.Count)
	fmt.Fprintf(&b, "| Total | %s |\n", amountWithCurrency(s.Total.StringFixed(2), s.Currency))
	fmt.Fprintf(&b, "| Top category | %s |\n", escape(top))
	fmt.Fprintf(&b, "| Budget | %s |\n", escape(s.Budget.Describe(s.Currency)))

	if len(s.Categories) > 0 {
		b.WriteString("\n### By category\n\n| Category | Total |\n|----------|------:|\n")
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "| %s | %s |\n", escape(c.Category), summary.FormatAmount(c.Total))
		}
	}

	b.WriteString("\n### Last 7 days\n\n| Day | Date | Amount |\n|-----|------|-------:|\n")
	for _, d := range r.Week.Days {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", d.Day, d.Date, summary.FormatAmount(d.Amount))
	}
	fmt.Fprintf(&b, "| | **Total** | **%s** |\n", summary.FormatAmount(r.Week.Total))

	return w.emit(out, b.String())
}

func amountWithCurrency(amount, currency string) string {
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

// WriteValidation prints a per-field checklist.
func (w *Writer) WriteValidation(out io.Writer, r validate.Report) error {
	var b strings.Builder

	if r.Valid() {
		b.WriteString("## Transaction is valid\n\n")
	} else {
		b.WriteString("## Transaction is invalid\n\n")
	}
	for _, f := range validate.Fields {
		errs := r.FieldErrors(f)
		if len(errs) == 0 {
			fmt.Fprintf(&b, "- **%s**: ok\n", f)
			continue
		}
		for _, msg := range errs {
			fmt.Fprintf(&b, "- **%s**: %s\n", f, escape(msg))
		}
	}
	return w.emit(out, b.String())
}

// WritePattern prints whether the pattern compiles.
func (w *Writer) WritePattern(out io.Writer, r writer.PatternReport) error {
	var b strings.Builder
	if r.Validity.Valid {
		fmt.Fprintf(&b, "Pattern `%s` is valid.\n", strings.ReplaceAll(r.Pattern, "`", "'"))
	} else {
		msg := "invalid"
		if r.Validity.Error != nil {
			msg = *r.Validity.Error
		}
		fmt.Fprintf(&b, "Pattern `%s` is invalid: %s\n", strings.ReplaceAll(r.Pattern, "`", "'"), escape(msg))
	}
	return w.emit(out, b.String())
}

func (w *Writer) emit(out io.Writer, md string) error {
	if w.cfg.Render {
		rendered, err := w.render(md)
		if err != nil {
			w.logger.Warn("markdown rendering failed, printing source", "error", err)
		} else {
			md = rendered
		}
	}
	if _, err := io.WriteString(out, md); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

func (w *Writer) render(md string) (string, error) {
	style := glamour.WithAutoStyle()
	if w.cfg.Style != "" {
		style = glamour.WithStandardStyle(w.cfg.Style)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(w.cfg.Width))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	return r.Render(md)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", "&lt;",
	">", "&gt;",
	"[", `\[`,
	"]", `\]`,
)

func escape(s string) string {
	return escaper.Replace(s)
}

// mark bolds every non-empty match of m in text. Matching errors and panics
// leave the text unmarked.
func mark(text string, m *pattern.Matcher) (out string) {
	if m == nil || text == "" {
		return escape(text)
	}
	defer func() {
		if recover() != nil {
			out = escape(text)
		}
	}()

	spans, err := m.FindAll(text)
	if err != nil {
		return escape(text)
	}

	runes := []rune(text)
	var b strings.Builder
	last := 0
	for _, s := range spans {
		if s.End <= s.Start || s.Start < last || s.End > len(runes) {
			continue
		}
		b.WriteString(escape(string(runes[last:s.Start])))
		b.WriteString("**")
		b.WriteString(escape(string(runes[s.Start:s.End])))
		b.WriteString("**")
		last = s.End
	}
	b.WriteString(escape(string(runes[last:])))
	return b.String()
}

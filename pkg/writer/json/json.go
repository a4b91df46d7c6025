// Package json implements a Writer that prints reports as indented JSON.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ArionMiles/spendlens/pkg/search"
	"github.com/ArionMiles/spendlens/pkg/validate"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

// Writer prints reports as JSON documents, one per call.
type Writer struct {
	indent string
	logger *slog.Logger
}

// Config holds configuration for the JSON writer.
type Config struct {
	// Compact disables indentation.
	Compact bool
}

// New creates a new JSON writer.
func New(cfg Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	indent := "  "
	if cfg.Compact {
		indent = ""
	}
	return &Writer{indent: indent, logger: logger.With("component", "json_writer")}
}

type searchDoc struct {
	search.Result
	Pattern     string        `json:"pattern"`
	Feedback    string        `json:"feedback"`
	Highlighted []highlighted `json:"highlighted,omitempty"`
}

type highlighted struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// WriteSearch prints the result together with its feedback line. When a
// matcher is set, highlighted holds the HTML-safe marked description and
// category of every returned transaction, in the same order.
func (w *Writer) WriteSearch(out io.Writer, r writer.SearchReport) error {
	doc := searchDoc{
		Result:   r.Result,
		Pattern:  r.Query.Pattern,
		Feedback: r.Result.Feedback(),
	}
	if r.Matcher != nil {
		doc.Highlighted = make([]highlighted, 0, len(r.Result.Transactions))
		for _, t := range r.Result.Transactions {
			doc.Highlighted = append(doc.Highlighted, highlighted{
				ID:          t.ID,
				Description: search.Highlight(t.Description, r.Matcher),
				Category:    search.Highlight(t.Category, r.Matcher),
			})
		}
	}
	return w.encode(out, doc)
}

// WriteSummary prints the stats and the last seven days.
func (w *Writer) WriteSummary(out io.Writer, r writer.SummaryReport) error {
	return w.encode(out, struct {
		Stats any `json:"stats"`
		Week  any `json:"lastSevenDays"`
	}{r.Stats, r.Week})
}

// WriteValidation prints {"isValid": ..., "errors": {...}}.
func (w *Writer) WriteValidation(out io.Writer, r validate.Report) error {
	return w.encode(out, r)
}

// WritePattern prints {"valid": ..., "error": ...}.
func (w *Writer) WritePattern(out io.Writer, r writer.PatternReport) error {
	return w.encode(out, r.Validity)
}

func (w *Writer) encode(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", w.indent)
	// highlighted output already carries its own escaping
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	w.logger.Debug("wrote json report", "type", fmt.Sprintf("%T", v))
	return nil
}

// Package csv implements a Writer that prints reports as CSV.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/validate"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

// transactionHeaders are the columns of a transaction listing.
var transactionHeaders = []string{"ID", "Date", "Description", "Category", "Amount"}

// Writer prints reports as CSV records.
type Writer struct {
	comma  rune
	logger *slog.Logger
}

// Config holds configuration for the CSV writer.
type Config struct {
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// New creates a new CSV writer.
func New(cfg Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Comma == 0 {
		cfg.Comma = ','
	}
	return &Writer{comma: cfg.Comma, logger: logger.With("component", "csv_writer")}
}

// WriteSearch prints one row per matched transaction.
func (w *Writer) WriteSearch(out io.Writer, r writer.SearchReport) error {
	rows := make([][]string, 0, len(r.Result.Transactions)+1)
	rows = append(rows, transactionHeaders)
	for _, t := range r.Result.Transactions {
		rows = append(rows, transactionRecord(t))
	}
	return w.write(out, rows)
}

func transactionRecord(t api.Transaction) []string {
	return []string{t.ID, t.Date, t.Description, t.Category, writer.DisplayAmount(t)}
}

// WriteSummary prints metric rows followed by the last seven days.
func (w *Writer) WriteSummary(out io.Writer, r writer.SummaryReport) error {
	s := r.Stats
	rows := [][]string{
		{"Metric", "Value"},
		{"Transactions", strconv.Itoa(s.Count)},
		{"Total", s.Total.StringFixed(2)},
		{"Top category", s.TopCategory},
		{"Budget", s.Budget.Describe(s.Currency)},
	}
	for _, c := range s.Categories {
		rows = append(rows, []string{"Category " + c.Category, c.Total.StringFixed(2)})
	}

	rows = append(rows, []string{"Date", "Day", "Amount"})
	for _, d := range r.Week.Days {
		rows = append(rows, []string{d.Date, d.Day, d.Amount.StringFixed(2)})
	}
	return w.write(out, rows)
}

// WriteValidation prints one row per error, or a single ok row.
func (w *Writer) WriteValidation(out io.Writer, r validate.Report) error {
	rows := [][]string{{"Field", "Error"}}
	for _, f := range validate.Fields {
		for _, msg := range r.FieldErrors(f) {
			rows = append(rows, []string{string(f), msg})
		}
	}
	return w.write(out, rows)
}

// WritePattern prints the pattern and its validity.
func (w *Writer) WritePattern(out io.Writer, r writer.PatternReport) error {
	msg := ""
	if r.Validity.Error != nil {
		msg = *r.Validity.Error
	}
	return w.write(out, [][]string{
		{"Pattern", "Valid", "Error"},
		{r.Pattern, strconv.FormatBool(r.Validity.Valid), msg},
	})
}

func (w *Writer) write(out io.Writer, rows [][]string) error {
	cw := csv.NewWriter(out)
	cw.Comma = w.comma
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	w.logger.Debug("wrote csv report", "rows", len(rows))
	return nil
}

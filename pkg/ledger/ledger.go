// Package ledger reads the tracker's exported ledger document.
//
// The document is the JSON produced by the tracker's export, of the form
// {"transactions": [...], "settings": {...}}. This package only reads it.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/avast/retry-go"
	"github.com/shopspring/decimal"

	"github.com/ArionMiles/spendlens/pkg/api"
)

// ErrNoTransactions is returned when the document has no transactions array.
var ErrNoTransactions = errors.New("invalid data format: transactions array missing")

// RecordError reports a transaction that lacks a required field.
type RecordError struct {
	Index int
	Field string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("transaction %d: field %q: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("transaction %d: missing %q", e.Index, e.Field)
}

func (e *RecordError) Unwrap() error { return e.Err }

var requiredFields = []string{"id", "description", "amount", "category", "date"}

// Parse decodes a ledger document. Missing settings are replaced by
// api.DefaultSettings.
func Parse(data []byte) (api.Document, error) {
	var raw struct {
		Transactions *[]json.RawMessage `json:"transactions"`
		Settings     *api.Settings      `json:"settings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return api.Document{}, fmt.Errorf("decoding ledger: %w", err)
	}
	if raw.Transactions == nil {
		return api.Document{}, ErrNoTransactions
	}

	doc := api.Document{
		Transactions: make([]api.Transaction, 0, len(*raw.Transactions)),
		Settings:     raw.Settings,
	}
	if doc.Settings == nil {
		defaults := api.DefaultSettings()
		doc.Settings = &defaults
	}

	for i, record := range *raw.Transactions {
		txn, err := decodeRecord(i, record)
		if err != nil {
			return api.Document{}, err
		}
		doc.Transactions = append(doc.Transactions, txn)
	}
	return doc, nil
}

// Decode reads and parses a ledger document from r.
func Decode(r io.Reader) (api.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return api.Document{}, fmt.Errorf("reading ledger: %w", err)
	}
	return Parse(data)
}

func decodeRecord(index int, record json.RawMessage) (api.Transaction, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil {
		return api.Transaction{}, &RecordError{Index: index, Err: err}
	}
	for _, name := range requiredFields {
		if blank(fields[name]) {
			return api.Transaction{}, &RecordError{Index: index, Field: name}
		}
	}

	var txn api.Transaction
	if err := json.Unmarshal(record, &txn); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return api.Transaction{}, &RecordError{Index: index, Field: typeErr.Field, Err: err}
		}
		return api.Transaction{}, &RecordError{Index: index, Err: err}
	}
	return txn, nil
}

// blank reports whether a JSON value is absent or falsy.
func blank(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	switch string(v) {
	case "", "null", `""`, "false", "0":
		return true
	}
	if d, err := decimal.NewFromString(string(v)); err == nil && d.IsZero() {
		return true
	}
	return false
}

// Config holds loader settings.
type Config struct {
	// Attempts is how many times a truncated file is read. Defaults to 3.
	Attempts uint
	// Delay is the pause between attempts. Defaults to 100ms.
	Delay time.Duration
}

// Loader reads ledger files from disk.
type Loader struct {
	attempts uint
	delay    time.Duration
	logger   *slog.Logger
}

// NewLoader creates a loader. A nil logger logs through slog.Default().
func NewLoader(cfg Config, logger *slog.Logger) *Loader {
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 100 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{attempts: cfg.Attempts, delay: cfg.Delay, logger: logger.With("component", "ledger")}
}

// Load reads the document at path. A file that does not parse as JSON is
// re-read a few times in case it was caught mid-write.
func (l *Loader) Load(ctx context.Context, path string) (api.Document, error) {
	var doc api.Document

	err := retry.Do(
		func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading ledger file: %w", err)
			}
			doc, err = Parse(data)
			return err
		},
		retry.RetryIf(func(err error) bool {
			if truncated(err) {
				l.logger.Warn("ledger file does not parse, will retry", "path", path, "error", err)
				return true
			}
			return false
		}),
		retry.Attempts(l.attempts),
		retry.Delay(l.delay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)
	if err != nil {
		return api.Document{}, err
	}

	l.logger.Debug("loaded ledger", "path", path, "transactions", len(doc.Transactions))
	return doc, nil
}

func truncated(err error) bool {
	var syntaxErr *json.SyntaxError
	return errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF)
}

// Load reads the document at path with a default loader.
func Load(ctx context.Context, path string) (api.Document, error) {
	return NewLoader(Config{}, nil).Load(ctx, path)
}

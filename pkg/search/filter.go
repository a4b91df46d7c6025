// Package search filters transactions by plain text or pattern queries and
// highlights the matched fragments.
package search

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/pattern"
)

// plainFlags are always used for plain text search.
const plainFlags = "i"

// Result is the outcome of a filter run.
type Result struct {
	Transactions []api.Transaction `json:"transactions"`
	Count        int               `json:"count"`
	// Total is the number of transactions that were searched.
	Total int `json:"total"`
	// Valid is false when the query could not be compiled; Transactions then
	// holds the unfiltered input.
	Valid bool      `json:"valid"`
	Error string    `json:"error,omitempty"`
	Mode  api.Mode  `json:"mode"`
	Field api.Field `json:"field"`
}

// Feedback returns the one-line status shown next to a search box.
func (r Result) Feedback() string {
	if !r.Valid {
		if r.Mode == api.ModeRegex {
			return "Invalid regex pattern"
		}
		return "Invalid search"
	}

	kind := "Text search"
	if r.Mode == api.ModeRegex {
		kind = "Regex search"
	}
	return fmt.Sprintf("%s ✓ %s matched", kind, plural(r.Count, "transaction"))
}

// Stats returns the "Showing N of M" line.
func (r Result) Stats() string {
	return fmt.Sprintf("Showing %d of %s", r.Count, plural(r.Total, "transaction"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// Config holds filter settings.
type Config struct {
	// Flags are the pattern flags used in regex mode. Defaults to pattern.DefaultFlags.
	Flags string
	// MatchTimeout bounds a single pattern evaluation.
	MatchTimeout time.Duration
}

// Filter selects transactions matching a query. It never modifies its input
// and is safe for concurrent use.
type Filter struct {
	compiler *pattern.Compiler
	flags    string
	logger   *slog.Logger
}

// New creates a filter. A nil logger logs through slog.Default().
func New(cfg Config, logger *slog.Logger) *Filter {
	if cfg.Flags == "" {
		cfg.Flags = pattern.DefaultFlags
	}
	if logger != nil {
		logger = logger.With("component", "search")
	}
	return &Filter{
		compiler: pattern.New(pattern.Config{Flags: cfg.Flags, MatchTimeout: cfg.MatchTimeout}, logger),
		flags:    cfg.Flags,
		logger:   logger,
	}
}

// FilterPlain keeps transactions where any searchable field contains query,
// ignoring case. Pattern metacharacters in query have no special meaning.
// A blank query returns txns itself.
func (f *Filter) FilterPlain(txns []api.Transaction, query string) []api.Transaction {
	if strings.TrimSpace(query) == "" {
		return txns
	}

	m, ok := f.compiler.CompileRaw(Escape(query), plainFlags).Matcher()
	if !ok {
		// an escaped literal always compiles; keep the input if it somehow does not
		return txns
	}
	return keep(txns, api.SearchableFields, m)
}

// FilterRegex keeps transactions where any searchable field matches pattern.
// A pattern that does not compile leaves the input unfiltered and marks the
// result invalid.
func (f *Filter) FilterRegex(txns []api.Transaction, query string) Result {
	res := Result{Mode: api.ModeRegex, Field: api.FieldAll, Total: len(txns)}
	return f.run(res, txns, f.compiler.CompileWithFlags(query, f.flags), api.SearchableFields)
}

// FilterByField runs q against a single field, or against every searchable
// field when q.Field is api.FieldAll or empty.
func (f *Filter) FilterByField(txns []api.Transaction, q Query) Result {
	q, err := normalize(q)
	if err != nil {
		return Result{
			Transactions: txns,
			Count:        len(txns),
			Total:        len(txns),
			Error:        err.Error(),
			Mode:         q.Mode,
			Field:        q.Field,
		}
	}

	if q.Field == api.FieldAll {
		if q.Mode == api.ModeRegex {
			return f.FilterRegex(txns, q.Pattern)
		}
		out := f.FilterPlain(txns, q.Pattern)
		return Result{
			Transactions: out,
			Count:        len(out),
			Total:        len(txns),
			Valid:        true,
			Mode:         api.ModePlain,
			Field:        api.FieldAll,
		}
	}

	res := Result{Mode: q.Mode, Field: q.Field, Total: len(txns)}
	return f.run(res, txns, f.MatcherFor(q), []api.Field{q.Field})
}

// MatcherFor returns the matcher that FilterByField uses for q, so callers can
// highlight with exactly the same semantics. Blank plain queries are invalid
// with pattern.ReasonEmpty.
func (f *Filter) MatcherFor(q Query) pattern.Compiled {
	if q.Mode == api.ModeRegex {
		return f.compiler.CompileWithFlags(q.Pattern, f.flags)
	}
	if strings.TrimSpace(q.Pattern) == "" {
		return f.compiler.CompileRaw("", plainFlags)
	}
	return f.compiler.CompileRaw(Escape(q.Pattern), plainFlags)
}

func (f *Filter) run(res Result, txns []api.Transaction, compiled pattern.Compiled, fields []api.Field) Result {
	m, ok := compiled.Matcher()
	switch {
	case ok:
		res.Transactions = keep(txns, fields, m)
		res.Valid = true
	case compiled.Reason() == pattern.ReasonEmpty:
		res.Transactions = txns
		res.Valid = true
	default:
		res.Transactions = txns
		res.Error = errorMessage(compiled.Err())
		f.log().Debug("search fell back to unfiltered results", "error", res.Error)
	}
	res.Count = len(res.Transactions)
	return res
}

func (f *Filter) log() *slog.Logger {
	if f.logger == nil {
		return slog.Default().With("component", "search")
	}
	return f.logger
}

func errorMessage(err error) string {
	var serr *pattern.SyntaxError
	if errors.As(err, &serr) {
		return serr.Err.Error()
	}
	if err == nil {
		return "invalid pattern"
	}
	return err.Error()
}

func keep(txns []api.Transaction, fields []api.Field, m *pattern.Matcher) []api.Transaction {
	out := make([]api.Transaction, 0, len(txns))
	for _, t := range txns {
		for _, field := range fields {
			if m.Test(t.Value(field)) {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// Query is re-exported so callers need only this package.
type Query = api.Query

func normalize(q Query) (Query, error) {
	mode, err := api.ParseMode(string(q.Mode))
	if err != nil {
		return q, err
	}
	field, err := api.ParseField(string(q.Field))
	if err != nil {
		return q, err
	}
	q.Mode, q.Field = mode, field
	return q, nil
}

// Escape quotes every pattern metacharacter in s so it matches literally.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(`.*+?^${}()|[]\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

var std = New(Config{}, nil)

// FilterPlain filters with the default filter.
func FilterPlain(txns []api.Transaction, query string) []api.Transaction {
	return std.FilterPlain(txns, query)
}

// FilterRegex filters with the default filter.
func FilterRegex(txns []api.Transaction, query string) Result {
	return std.FilterRegex(txns, query)
}

// FilterByField filters with the default filter.
func FilterByField(txns []api.Transaction, q Query) Result {
	return std.FilterByField(txns, q)
}

// MatcherFor returns the default filter's matcher for q.
func MatcherFor(q Query) pattern.Compiled {
	return std.MatcherFor(q)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/summary"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

type searchCmd struct {
	regex     bool
	field     string
	highlight bool
	format    string
}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search ledger transactions by text or pattern" }
func (*searchCmd) Usage() string {
	return `spendlens search [-regex] [-field <field>] [-highlight] [-format <format>] <query>

  Lists the ledger transactions matching the query, newest first.
  Plain queries match literally and ignore case. With -regex the query is a
  pattern, optionally written as /pattern/. A pattern that does not compile
  lists every transaction and exits with status 1.
`
}

func (c *searchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.regex, "regex", false, "Interpret the query as a regular expression")
	f.StringVar(&c.field, "field", "all", "Field to search: all, description, category, amount, date")
	f.BoolVar(&c.highlight, "highlight", false, "Mark matched fragments in descriptions")
	f.StringVar(&c.format, "format", "", "Output format. Defaults to SPENDLENS_FORMAT")
}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(ctx, a, f.Args())
}

func (c *searchCmd) run(ctx context.Context, a *app, args []string) subcommands.ExitStatus {
	field, err := api.ParseField(c.field)
	if err != nil {
		a.logger.Error("invalid -field", "error", err)
		return subcommands.ExitUsageError
	}
	mode := api.ModePlain
	if c.regex {
		mode = api.ModeRegex
	}
	q := api.Query{Pattern: strings.Join(args, " "), Mode: mode, Field: field}

	w, err := a.writer(c.format)
	if err != nil {
		a.logger.Error("invalid -format", "error", err)
		return subcommands.ExitUsageError
	}

	doc, err := a.loadLedger(ctx)
	if err != nil {
		a.logger.Error("search failed", "error", err)
		return subcommands.ExitFailure
	}

	res := a.filter.FilterByField(doc.Transactions, q)
	res.Transactions = summary.SortNewestFirst(res.Transactions)

	report := writer.SearchReport{Query: q, Result: res}
	if c.highlight {
		report.Matcher, _ = a.filter.MatcherFor(q).Matcher()
	}
	if err := w.WriteSearch(a.stdout, report); err != nil {
		a.logger.Error("writing search results", "error", err)
		return subcommands.ExitFailure
	}

	a.logger.Debug("search finished", "mode", q.Mode, "field", q.Field, "matched", res.Count, "total", res.Total)
	if !res.Valid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

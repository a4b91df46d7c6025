package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/ArionMiles/spendlens/pkg/summary"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

type summaryCmd struct {
	format string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display ledger totals and the last seven days" }
func (*summaryCmd) Usage() string {
	return `spendlens summary [-format <format>]

  Displays the transaction count, total, top category, budget cap status and
  the spending of the last seven days.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "", "Output format. Defaults to SPENDLENS_FORMAT")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(ctx, a)
}

func (c *summaryCmd) run(ctx context.Context, a *app) subcommands.ExitStatus {
	w, err := a.writer(c.format)
	if err != nil {
		a.logger.Error("invalid -format", "error", err)
		return subcommands.ExitUsageError
	}

	doc, err := a.loadLedger(ctx)
	if err != nil {
		a.logger.Error("summary failed", "error", err)
		return subcommands.ExitFailure
	}

	report := writer.SummaryReport{
		Stats: summary.Compute(doc.Transactions, *doc.Settings),
		Week:  summary.LastSevenDays(doc.Transactions, a.today()),
	}
	if err := w.WriteSummary(a.stdout, report); err != nil {
		a.logger.Error("writing summary", "error", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

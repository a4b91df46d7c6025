package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ArionMiles/spendlens/pkg/api"
)

// amountFlag records whether -amount was given at all.
type amountFlag struct {
	value api.AmountInput
}

func (f *amountFlag) String() string { return f.value.Raw }

func (f *amountFlag) Set(s string) error {
	f.value = api.AmountOf(s)
	return nil
}

type validateCmd struct {
	description string
	amount      amountFlag
	category    string
	date        string
	jsonFile    string
	format      string
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "validate a proposed transaction" }
func (*validateCmd) Usage() string {
	return `spendlens validate [-description <text>] [-amount <n>] [-category <name>] [-date <YYYY-MM-DD>] [-format <format>]
spendlens validate -json <file|-> [-format <format>]

  Checks every field of a proposed transaction and prints the errors found.
  Exits with status 1 when the transaction is invalid.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.description, "description", "", "Transaction description")
	f.Var(&c.amount, "amount", "Transaction amount, e.g. 12.50")
	f.StringVar(&c.category, "category", "", "Transaction category")
	f.StringVar(&c.date, "date", "", "Transaction date, YYYY-MM-DD")
	f.StringVar(&c.jsonFile, "json", "", "Read the candidate from a JSON file, or - for stdin")
	f.StringVar(&c.format, "format", "", "Output format. Defaults to SPENDLENS_FORMAT")
}

func (c *validateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(a, os.Stdin)
}

func (c *validateCmd) run(a *app, stdin io.Reader) subcommands.ExitStatus {
	w, err := a.writer(c.format)
	if err != nil {
		a.logger.Error("invalid -format", "error", err)
		return subcommands.ExitUsageError
	}

	candidate, err := c.candidate(stdin)
	if err != nil {
		a.logger.Error("reading candidate", "error", err)
		return subcommands.ExitUsageError
	}

	report := a.validator.Transaction(candidate)
	if err := w.WriteValidation(a.stdout, report); err != nil {
		a.logger.Error("writing validation report", "error", err)
		return subcommands.ExitFailure
	}
	if !report.Valid() {
		a.logger.Debug("candidate rejected", "error", report.Err())
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *validateCmd) candidate(stdin io.Reader) (api.Candidate, error) {
	if c.jsonFile == "" {
		return api.Candidate{
			Description: c.description,
			Amount:      c.amount.value,
			Category:    c.category,
			Date:        c.date,
		}, nil
	}

	var r io.Reader = stdin
	if c.jsonFile != "-" {
		f, err := os.Open(c.jsonFile)
		if err != nil {
			return api.Candidate{}, fmt.Errorf("opening candidate file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var candidate api.Candidate
	if err := json.NewDecoder(r).Decode(&candidate); err != nil {
		return api.Candidate{}, fmt.Errorf("decoding candidate: %w", err)
	}
	return candidate, nil
}

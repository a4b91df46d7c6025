package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/ArionMiles/spendlens/pkg/pattern"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

type checkPatternCmd struct {
	format string
}

func (*checkPatternCmd) Name() string     { return "check-pattern" }
func (*checkPatternCmd) Synopsis() string { return "check whether a search pattern compiles" }
func (*checkPatternCmd) Usage() string {
	return `spendlens check-pattern [-format <format>] <pattern>

  Prints {"valid": bool, "error": string|null} and exits with status 1 when
  the pattern does not compile with the configured SPENDLENS_REGEX_FLAGS.
`
}

func (c *checkPatternCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "json", "Output format")
}

func (c *checkPatternCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return c.run(a, f.Args())
}

func (c *checkPatternCmd) run(a *app, args []string) subcommands.ExitStatus {
	w, err := a.writer(c.format)
	if err != nil {
		a.logger.Error("invalid -format", "error", err)
		return subcommands.ExitUsageError
	}

	input := strings.Join(args, " ")
	compiler := pattern.New(pattern.Config{Flags: a.cfg.RegexFlags, MatchTimeout: a.cfg.MatchTimeout}, a.logger)
	report := writer.PatternReport{Pattern: input, Validity: compiler.IsValidPattern(input)}

	if err := w.WritePattern(a.stdout, report); err != nil {
		a.logger.Error("writing pattern check", "error", err)
		return subcommands.ExitFailure
	}
	if !report.Validity.Valid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

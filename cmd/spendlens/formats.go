package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/ArionMiles/spendlens/internal/formats"
)

type formatsCmd struct{}

func (*formatsCmd) Name() string             { return "formats" }
func (*formatsCmd) Synopsis() string         { return "list the available output formats" }
func (*formatsCmd) Usage() string            { return "spendlens formats\n" }
func (*formatsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *formatsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.run(os.Stdout, formats.Default())
	return subcommands.ExitSuccess
}

func (*formatsCmd) run(out io.Writer, r *formats.Registry) {
	for _, f := range r.List() {
		fmt.Fprintf(out, "%-10s %s\n", f.Name(), f.Description())
	}
}

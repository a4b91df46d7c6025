package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ArionMiles/spendlens/internal/formats"
	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/config"
	"github.com/ArionMiles/spendlens/pkg/ledger"
	"github.com/ArionMiles/spendlens/pkg/logging"
	"github.com/ArionMiles/spendlens/pkg/search"
	"github.com/ArionMiles/spendlens/pkg/validate"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

var (
	configFile = flag.String("config", "", "Path to a JSON config file")
	ledgerFile = flag.String("ledger", "", "Ledger file to read. Overrides SPENDLENS_LEDGER_FILE")
)

// app holds what every command needs, built once from the configuration.
type app struct {
	cfg       config.Config
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
	formats   *formats.Registry
	filter    *search.Filter
	validator *validate.Validator
	ledger    *ledger.Loader
	stdout    io.Writer
}

// loadApp reads the configuration named by the global flags and installs the logger.
func loadApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}

	logger := logging.Setup(logging.NewConfig(cfg.LogLevel, cfg.LogJSON))
	return newApp(cfg, logger, os.Stdout, time.Now)
}

func newApp(cfg config.Config, logger *slog.Logger, stdout io.Writer, now func() time.Time) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	maxAmount, err := cfg.MaxAmountValue()
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		loc:     loc,
		now:     now,
		logger:  logger,
		formats: formats.Default(),
		filter: search.New(search.Config{
			Flags:        cfg.RegexFlags,
			MatchTimeout: cfg.MatchTimeout,
		}, logger),
		validator: validate.New(validate.Config{
			Now:       now,
			Location:  loc,
			MaxAmount: maxAmount,
		}),
		ledger: ledger.NewLoader(ledger.Config{}, logger),
		stdout: stdout,
	}, nil
}

// writer returns the writer for name, or for the configured format when name is empty.
func (a *app) writer(name string) (writer.Writer, error) {
	if name == "" {
		name = a.cfg.Format
	}
	return a.formats.CreateWriter(name, formats.Options{}, a.logger)
}

// loadLedger reads the configured ledger and applies the budget cap override.
func (a *app) loadLedger(ctx context.Context) (api.Document, error) {
	doc, err := a.ledger.Load(ctx, a.cfg.LedgerFile)
	if err != nil {
		return api.Document{}, fmt.Errorf("loading ledger %s: %w", a.cfg.LedgerFile, err)
	}

	capValue, ok, err := a.cfg.BudgetCapOverride()
	if err != nil {
		return api.Document{}, err
	}
	if ok {
		settings := *doc.Settings
		settings.BudgetCap = capValue
		doc.Settings = &settings
	}
	return doc, nil
}

func (a *app) today() time.Time {
	return a.now().In(a.loc)
}

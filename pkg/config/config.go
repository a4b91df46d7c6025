// Package config loads spendlens settings from an optional JSON file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"github.com/ArionMiles/spendlens/pkg/pattern"
)

// DefaultLedgerFile is the ledger read when none is configured.
const DefaultLedgerFile = "ledger.json"

// Config holds the application configuration. Every key can be set in the
// JSON config file or in the environment; the environment wins.
type Config struct {
	// LedgerFile is the exported tracker document to read.
	// Environment variable: SPENDLENS_LEDGER_FILE
	LedgerFile string `koanf:"SPENDLENS_LEDGER_FILE"`

	// RegexFlags are the flags applied to regex searches.
	// Environment variable: SPENDLENS_REGEX_FLAGS
	RegexFlags string `koanf:"SPENDLENS_REGEX_FLAGS"`

	// MatchTimeout bounds a single pattern evaluation.
	// Environment variable: SPENDLENS_MATCH_TIMEOUT
	MatchTimeout time.Duration `koanf:"SPENDLENS_MATCH_TIMEOUT"`

	// MaxAmount is the largest amount the validator accepts.
	// Environment variable: SPENDLENS_MAX_AMOUNT
	MaxAmount string `koanf:"SPENDLENS_MAX_AMOUNT"`

	// Timezone decides where "today" ends for date checks. "Local" uses the system zone.
	// Environment variable: SPENDLENS_TIMEZONE
	Timezone string `koanf:"SPENDLENS_TIMEZONE"`

	// BudgetCap overrides the cap stored in the ledger document when set.
	// Environment variable: SPENDLENS_BUDGET_CAP
	BudgetCap string `koanf:"SPENDLENS_BUDGET_CAP"`

	// Format is the default output format.
	// Environment variable: SPENDLENS_FORMAT
	Format string `koanf:"SPENDLENS_FORMAT"`

	LogLevel string `koanf:"LOG_LEVEL"`
	LogJSON  bool   `koanf:"LOG_JSON"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LedgerFile:   DefaultLedgerFile,
		RegexFlags:   "i",
		MatchTimeout: 250 * time.Millisecond,
		MaxAmount:    "10000000",
		Timezone:     "Local",
		Format:       "markdown",
		LogLevel:     "INFO",
	}
}

// Load reads path, if not empty, and then the environment on top of Default.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that must parse.
func (c Config) Validate() error {
	if strings.TrimSpace(c.LedgerFile) == "" {
		return fmt.Errorf("SPENDLENS_LEDGER_FILE must not be empty")
	}
	if err := pattern.ValidateFlags(c.RegexFlags); err != nil {
		return fmt.Errorf("SPENDLENS_REGEX_FLAGS: %w", err)
	}
	if c.MatchTimeout <= 0 {
		return fmt.Errorf("SPENDLENS_MATCH_TIMEOUT must be positive, got %s", c.MatchTimeout)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.MaxAmountValue(); err != nil {
		return err
	}
	if _, _, err := c.BudgetCapOverride(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("SPENDLENS_TIMEZONE: %w", err)
	}
	return loc, nil
}

// MaxAmountValue parses MaxAmount.
func (c Config) MaxAmountValue() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(c.MaxAmount))
	if err != nil {
		return decimal.Zero, fmt.Errorf("SPENDLENS_MAX_AMOUNT: %w", err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("SPENDLENS_MAX_AMOUNT must be positive, got %s", d)
	}
	return d, nil
}

// BudgetCapOverride parses BudgetCap. ok is false when it is unset.
func (c Config) BudgetCapOverride() (d decimal.Decimal, ok bool, err error) {
	raw := strings.TrimSpace(c.BudgetCap)
	if raw == "" {
		return decimal.Zero, false, nil
	}
	d, err = decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("SPENDLENS_BUDGET_CAP: %w", err)
	}
	return d, true, nil
}

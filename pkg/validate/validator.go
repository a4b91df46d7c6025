// Package validate checks candidate transactions field by field before they
// are admitted into a ledger.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ArionMiles/spendlens/pkg/api"
)

// DefaultMaxAmount is the largest amount accepted when Config.MaxAmount is zero.
var DefaultMaxAmount = decimal.NewFromInt(10_000_000)

const maxFractionDigits = 2

var (
	amountGrammar   = regexp.MustCompile(`^-?(0|[1-9]\d*)(\.\d+)?$`)
	dateGrammar     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	categoryCharset = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)

	// Go's regexp has no backreferences.
	duplicateWords = regexp2.MustCompile(`\b(\w+)\s+\1\b`, regexp2.IgnoreCase|regexp2.ECMAScript)
)

func init() {
	duplicateWords.MatchTimeout = 100 * time.Millisecond
}

// Config holds validator settings.
type Config struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
	// Location decides where "today" ends. Defaults to time.Local.
	Location *time.Location
	// MaxAmount is the inclusive upper bound for amounts. Defaults to DefaultMaxAmount.
	MaxAmount decimal.Decimal
}

// Validator applies the field rules. It is safe for concurrent use.
type Validator struct {
	now       func() time.Time
	loc       *time.Location
	maxAmount decimal.Decimal
	tooLarge  string
}

// New creates a validator.
func New(cfg Config) *Validator {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if !cfg.MaxAmount.IsPositive() {
		cfg.MaxAmount = DefaultMaxAmount
	}

	p := message.NewPrinter(language.English)
	return &Validator{
		now:       cfg.Now,
		loc:       cfg.Location,
		maxAmount: cfg.MaxAmount,
		tooLarge:  p.Sprintf("Amount cannot exceed %v", number.Decimal(cfg.MaxAmount.InexactFloat64())),
	}
}

// Description requires at least two characters after trimming and rejects
// the same word repeated back to back, ignoring case.
func (v *Validator) Description(text string) []string {
	errs := []string{}

	text = strings.TrimSpace(text)
	if text == "" {
		return append(errs, "Description is required")
	}
	if len([]rune(text)) < 2 {
		errs = append(errs, "Description must be at least 2 characters")
	}
	// a timed out check is treated as no duplicate
	if dup, _ := duplicateWords.MatchString(text); dup {
		errs = append(errs, "Description contains duplicate words")
	}
	return errs
}

// Amount requires a positive plain decimal literal with at most two
// fractional digits that does not exceed the configured maximum.
func (v *Validator) Amount(in api.AmountInput) []string {
	errs := []string{}

	raw := strings.TrimSpace(in.Raw)
	if !in.Set || raw == "" {
		return append(errs, "Amount is required")
	}
	if !amountGrammar.MatchString(raw) {
		return append(errs, "Amount must be a valid number")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return append(errs, "Amount must be a valid number")
	}
	switch {
	case d.IsNegative():
		return append(errs, "Amount cannot be negative")
	case d.IsZero():
		return append(errs, "Amount must be greater than 0")
	}

	if _, frac, ok := strings.Cut(raw, "."); ok && len(frac) > maxFractionDigits {
		errs = append(errs, "Amount can have at most 2 decimal places")
	}
	if d.GreaterThan(v.maxAmount) {
		errs = append(errs, v.tooLarge)
	}
	return errs
}

// Category requires letters separated by single spaces or hyphens.
func (v *Validator) Category(text string) []string {
	errs := []string{}

	text = strings.TrimSpace(text)
	if text == "" {
		return append(errs, "Category is required")
	}
	if !categoryCharset.MatchString(text) {
		errs = append(errs, "Category can only contain letters, spaces, and hyphens")
	}
	return errs
}

// Date requires a real YYYY-MM-DD calendar date that is not after the end of today.
func (v *Validator) Date(text string) []string {
	errs := []string{}

	text = strings.TrimSpace(text)
	if text == "" {
		return append(errs, "Date is required")
	}
	if !dateGrammar.MatchString(text) {
		return append(errs, "Date must be in YYYY-MM-DD format")
	}

	day, err := time.ParseInLocation(api.DateLayout, text, v.loc)
	if err != nil {
		return append(errs, "Date is not a valid calendar date")
	}
	if day.After(v.endOfToday()) {
		errs = append(errs, "Date cannot be in the future")
	}
	return errs
}

func (v *Validator) endOfToday() time.Time {
	y, m, d := v.now().In(v.loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), v.loc)
}

// Today returns the current calendar date in the validator's zone.
func (v *Validator) Today() string {
	return v.now().In(v.loc).Format(api.DateLayout)
}

// Transaction runs every field rule; none short-circuits another.
func (v *Validator) Transaction(c api.Candidate) Report {
	return Report{Errors: map[string][]string{
		string(api.FieldDescription): v.Description(c.Description),
		string(api.FieldAmount):      v.Amount(c.Amount),
		string(api.FieldCategory):    v.Category(c.Category),
		string(api.FieldDate):        v.Date(c.Date),
	}}
}

// Admit validates c and, when it passes, builds the transaction it describes.
func (v *Validator) Admit(c api.Candidate) (api.Transaction, Report) {
	report := v.Transaction(c)
	if !report.Valid() {
		return api.Transaction{}, report
	}

	amount := decimal.RequireFromString(strings.TrimSpace(c.Amount.Raw))
	return api.NewTransaction(c.Description, amount, c.Category, strings.TrimSpace(c.Date), v.now()), report
}

var std = New(Config{})

// Transaction validates c with the default validator.
func Transaction(c api.Candidate) Report { return std.Transaction(c) }

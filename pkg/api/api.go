// Package api defines the core data structures for spendlens.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used for Transaction.Date.
const DateLayout = "2006-01-02"

// Transaction is a single recorded expense.
// Records are treated as immutable; edits produce a copy through WithEdit.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	// Date is the calendar date of the expense, YYYY-MM-DD.
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// NewID returns a fresh opaque transaction identifier.
func NewID() string {
	return "txn_" + uuid.NewString()
}

// NewTransaction creates a transaction stamped with now.
// Callers are expected to run the candidate through validation first.
func NewTransaction(description string, amount decimal.Decimal, category, date string, now time.Time) Transaction {
	return Transaction{
		ID:          NewID(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// WithEdit returns a copy of t with the editable fields replaced and UpdatedAt set to now.
func (t Transaction) WithEdit(description string, amount decimal.Decimal, category, date string, now time.Time) Transaction {
	t.Description = strings.TrimSpace(description)
	t.Amount = amount
	t.Category = strings.TrimSpace(category)
	t.Date = date
	t.UpdatedAt = now
	return t
}

// Value returns the stringified value of a searchable field.
// Amounts use their canonical decimal form, so 1234.50 becomes "1234.5".
// FieldAll and unknown fields yield "".
func (t Transaction) Value(f Field) string {
	switch f {
	case FieldDescription:
		return t.Description
	case FieldCategory:
		return t.Category
	case FieldAmount:
		return t.Amount.String()
	case FieldDate:
		return t.Date
	default:
		return ""
	}
}

// Field names a searchable transaction field.
type Field string

const (
	FieldAll         Field = "all"
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldAmount      Field = "amount"
	FieldDate        Field = "date"
)

// SearchableFields are the fields matched when a query targets FieldAll.
// The id is deliberately absent.
var SearchableFields = []Field{FieldDescription, FieldCategory, FieldAmount, FieldDate}

// ParseField converts a user-supplied field name. An empty name means FieldAll.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FieldAll, nil
	case FieldAll, FieldDescription, FieldCategory, FieldAmount, FieldDate:
		return f, nil
	default:
		return "", fmt.Errorf("unknown field %q", s)
	}
}

// Mode selects how a query pattern is interpreted.
type Mode string

const (
	ModePlain Mode = "plain"
	ModeRegex Mode = "regex"
)

// ParseMode converts a user-supplied mode name. An empty name means ModePlain.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModePlain, nil
	case ModePlain, ModeRegex:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Query describes a single search invocation.
type Query struct {
	Pattern string `json:"pattern"`
	Mode    Mode   `json:"mode"`
	Field   Field  `json:"field"`
}

// Candidate is a proposed transaction as received from a form or document.
// Any field may be missing.
type Candidate struct {
	Description string      `json:"description"`
	Amount      AmountInput `json:"amount"`
	Category    string      `json:"category"`
	Date        string      `json:"date"`
}

// AmountInput keeps an amount exactly as it was entered.
// Set is false when the amount was absent or null, which is distinct from "0".
type AmountInput struct {
	Raw string
	Set bool
}

// AmountOf wraps a raw amount literal.
func AmountOf(raw string) AmountInput {
	return AmountInput{Raw: raw, Set: true}
}

// AmountFromDecimal wraps an already parsed amount.
func AmountFromDecimal(d decimal.Decimal) AmountInput {
	return AmountInput{Raw: d.String(), Set: true}
}

// UnmarshalJSON accepts a JSON number, a string or null.
// Numbers keep their literal text so fractional digits can be checked.
func (a *AmountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = AmountInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding amount: %w", err)
		}
		*a = AmountOf(s)
		return nil
	}
	*a = AmountOf(string(data))
	return nil
}

// MarshalJSON writes the raw literal back as a string, or null when unset.
func (a AmountInput) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return json.Marshal(a.Raw)
}

// Settings holds the tracker preferences stored next to the transactions.
type Settings struct {
	BudgetCap    decimal.Decimal `json:"budgetCap"`
	BaseCurrency string          `json:"baseCurrency"`
	// CurrencyRate is kept for round-tripping the document; spendlens never converts.
	CurrencyRate decimal.Decimal `json:"currencyRate"`
}

// DefaultSettings mirrors the tracker defaults used when a document carries none.
func DefaultSettings() Settings {
	return Settings{
		BudgetCap:    decimal.Zero,
		BaseCurrency: "RWF",
		CurrencyRate: decimal.NewFromInt(1200),
	}
}

// Document is the tracker export format.
type Document struct {
	Transactions []Transaction `json:"transactions"`
	Settings     *Settings     `json:"settings,omitempty"`
}

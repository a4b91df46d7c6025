// Package summary computes dashboard figures over a set of transactions.
package summary

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/ArionMiles/spendlens/pkg/api"
)

// BudgetState describes spending relative to the budget cap.
type BudgetState string

const (
	BudgetNone  BudgetState = "none"
	BudgetUnder BudgetState = "under"
	BudgetOver  BudgetState = "over"
)

// Budget is the cap status. Remaining is always non-negative; State says
// which side of the cap it is on.
type Budget struct {
	State     BudgetState     `json:"state"`
	Cap       decimal.Decimal `json:"cap"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Describe renders the status line, e.g. "Under limit by 1,500.00 RWF".
func (b Budget) Describe(currency string) string {
	switch b.State {
	case BudgetUnder:
		return "Under limit by " + withCurrency(FormatAmount(b.Remaining), currency)
	case BudgetOver:
		return "Over limit by " + withCurrency(FormatAmount(b.Remaining), currency)
	default:
		return "No budget cap set"
	}
}

func withCurrency(amount, currency string) string {
	if currency == "" {
		return amount
	}
	return amount + " " + currency
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// Stats are the headline dashboard figures.
type Stats struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	// TopCategory is empty when there are no transactions.
	TopCategory string `json:"topCategory"`
	// Categories are in order of first appearance.
	Categories []CategoryTotal `json:"categories"`
	Budget     Budget          `json:"budget"`
	Currency   string          `json:"currency"`
}

// Compute summarizes txns against settings. The category with the largest
// total is the top one; on a tie the first seen wins.
func Compute(txns []api.Transaction, settings api.Settings) Stats {
	stats := Stats{
		Count:      len(txns),
		Total:      decimal.Zero,
		Categories: []CategoryTotal{},
		Currency:   settings.BaseCurrency,
	}

	index := make(map[string]int)
	for _, t := range txns {
		stats.Total = stats.Total.Add(t.Amount)

		i, ok := index[t.Category]
		if !ok {
			i = len(stats.Categories)
			index[t.Category] = i
			stats.Categories = append(stats.Categories, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		stats.Categories[i].Total = stats.Categories[i].Total.Add(t.Amount)
	}

	var top *CategoryTotal
	for i := range stats.Categories {
		if top == nil || stats.Categories[i].Total.GreaterThan(top.Total) {
			top = &stats.Categories[i]
		}
	}
	if top != nil {
		stats.TopCategory = top.Category
	}

	stats.Budget = BudgetStatus(stats.Total, settings.BudgetCap)
	return stats
}

// BudgetStatus compares total against limit. A limit of zero or less means no cap.
func BudgetStatus(total, limit decimal.Decimal) Budget {
	if !limit.IsPositive() {
		return Budget{State: BudgetNone, Cap: decimal.Zero, Remaining: decimal.Zero}
	}

	remaining := limit.Sub(total)
	if remaining.IsNegative() {
		return Budget{State: BudgetOver, Cap: limit, Remaining: remaining.Abs()}
	}
	return Budget{State: BudgetUnder, Cap: limit, Remaining: remaining}
}

// DaySpending is the amount spent on one calendar day.
type DaySpending struct {
	Date   string          `json:"date"`
	Day    string          `json:"day"`
	Amount decimal.Decimal `json:"amount"`
}

// Week is the spending of the seven days ending today.
type Week struct {
	Days  []DaySpending   `json:"days"`
	Total decimal.Decimal `json:"total"`
}

// LastSevenDays buckets txns into the seven calendar days ending on now's
// date, oldest first. Transactions outside the window are ignored.
func LastSevenDays(txns []api.Transaction, now time.Time) Week {
	byDate := make(map[string]decimal.Decimal)
	for _, t := range txns {
		byDate[t.Date] = byDate[t.Date].Add(t.Amount)
	}

	week := Week{Days: make([]DaySpending, 0, 7), Total: decimal.Zero}
	y, m, d := now.Date()
	for i := 6; i >= 0; i-- {
		day := time.Date(y, m, d-i, 0, 0, 0, 0, now.Location())
		date := day.Format(api.DateLayout)

		amount := decimal.Zero
		if sum, ok := byDate[date]; ok {
			amount = sum
		}
		week.Days = append(week.Days, DaySpending{Date: date, Day: day.Weekday().String()[:3], Amount: amount})
		week.Total = week.Total.Add(amount)
	}
	return week
}

// SortNewestFirst returns a copy of txns ordered by date, newest first.
// Records sharing a date keep their relative order.
func SortNewestFirst(txns []api.Transaction) []api.Transaction {
	out := slices.Clone(txns)
	slices.SortStableFunc(out, func(a, b api.Transaction) int {
		return strings.Compare(b.Date, a.Date)
	})
	return out
}

// FormatAmount renders d with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(language.English)
	return p.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

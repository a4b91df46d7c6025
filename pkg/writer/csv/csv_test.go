package csv

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArionMiles/spendlens/pkg/api"
	"github.com/ArionMiles/spendlens/pkg/pattern"
	"github.com/ArionMiles/spendlens/pkg/search"
	"github.com/ArionMiles/spendlens/pkg/summary"
	"github.com/ArionMiles/spendlens/pkg/validate"
	"github.com/ArionMiles/spendlens/pkg/writer"
)

func transactions() []api.Transaction {
	return []api.Transaction{
		{ID: "txn_1", Description: "Lunch, with friends", Amount: decimal.RequireFromString("1234.5"), Category: "Food", Date: "2024-03-01"},
		{ID: "txn_2", Description: "Taxi", Amount: decimal.RequireFromString("12"), Category: "Transport", Date: "2024-03-02"},
	}
}

func readAll(t *testing.T, buf *bytes.Buffer, comma rune) [][]string {
	t.Helper()
	r := csv.NewReader(buf)
	r.Comma = comma
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteSearch(t *testing.T) {
	res := search.FilterByField(transactions(), api.Query{Pattern: "lunch"})

	var buf bytes.Buffer
	require.NoError(t, New(Config{}, nil).WriteSearch(&buf, writer.SearchReport{Result: res}))

	assert.Equal(t, [][]string{
		{"ID", "Date", "Description", "Category", "Amount"},
		{"txn_1", "2024-03-01", "Lunch, with friends", "Food", "1234.50"},
	}, readAll(t, &buf, ','))
}

func TestWriteSearch_Semicolon(t *testing.T) {
	res := search.Result{Transactions: transactions()}

	var buf bytes.Buffer
	require.NoError(t, New(Config{Comma: ';'}, nil).WriteSearch(&buf, writer.SearchReport{Result: res}))

	rows := readAll(t, &buf, ';')
	require.Len(t, rows, 3)
	assert.Equal(t, "12.00", rows[2][4])
}

func TestWriteSummary(t *testing.T) {
	settings := api.DefaultSettings()
	settings.BudgetCap = decimal.NewFromInt(1000)
	report := writer.SummaryReport{
		Stats: summary.Compute(transactions(), settings),
		Week:  summary.LastSevenDays(transactions(), time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)),
	}

	var buf bytes.Buffer
	require.NoError(t, New(Config{}, nil).WriteSummary(&buf, report))

	rows := readAll(t, &buf, ',')
	assert.Equal(t, []string{"Transactions", "2"}, rows[1])
	assert.Equal(t, []string{"Total", "1246.50"}, rows[2])
	assert.Equal(t, []string{"Top category", "Food"}, rows[3])
	assert.Equal(t, []string{"Budget", "Over limit by 246.50 RWF"}, rows[4])
	assert.Equal(t, []string{"2024-03-02", "Sat", "12.00"}, rows[len(rows)-1])
}

func TestWriteValidation(t *testing.T) {
	report := validate.New(validate.Config{}).Transaction(api.Candidate{
		Description: "Taxi", Amount: api.AmountOf("-1"), Category: "Transport", Date: "2020-01-01",
	})

	var buf bytes.Buffer
	require.NoError(t, New(Config{}, nil).WriteValidation(&buf, report))

	assert.Equal(t, [][]string{
		{"Field", "Error"},
		{"amount", "Amount cannot be negative"},
	}, readAll(t, &buf, ','))
}

func TestWritePattern(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Config{}, nil).WritePattern(&buf, writer.PatternReport{Pattern: "^a", Validity: pattern.IsValidPattern("^a")}))

	assert.Equal(t, [][]string{{"Pattern", "Valid", "Error"}, {"^a", "true", ""}}, readAll(t, &buf, ','))
}

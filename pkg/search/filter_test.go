package search

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArionMiles/spendlens/pkg/api"
)

func txn(id, description, amount, category, date string) api.Transaction {
	return api.Transaction{
		ID:          id,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
		Date:        date,
	}
}

func sample() []api.Transaction {
	return []api.Transaction{
		txn("txn_1", "Coffee at Java House", "4.50", "Food", "2024-03-01"),
		txn("txn_2", "Bus ticket", "1.2", "Transport", "2024-03-02"),
		txn("txn_3", "Paid 1.50 today", "15", "Misc", "2024-03-03"),
		txn("txn_4", "Paid 150 today", "150", "Misc", "2024-03-04"),
		txn("txn_5", "Books (used)", "1234.50", "Education", "2024-02-28"),
	}
}

func ids(txns []api.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.ID)
	}
	return out
}

func TestFilterPlain(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case-insensitive description", query: "coffee", want: []string{"txn_1"}},
		{name: "category", query: "transport", want: []string{"txn_2"}},
		{name: "dot is literal", query: "1.50", want: []string{"txn_3"}},
		{name: "parentheses are literal", query: "(used)", want: []string{"txn_5"}},
		{name: "amount uses canonical form", query: "1234.5", want: []string{"txn_5"}},
		{name: "date", query: "2024-03", want: []string{"txn_1", "txn_2", "txn_3", "txn_4"}},
		{name: "id is never searched", query: "txn_", want: []string{}},
		{name: "star is literal", query: "*", want: []string{}},
		{name: "no match", query: "zebra", want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterPlain(sample(), tc.query)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterPlain_BlankReturnsInput(t *testing.T) {
	in := sample()
	for _, q := range []string{"", "   "} {
		got := FilterPlain(in, q)
		require.Len(t, got, len(in))
		assert.Same(t, &in[0], &got[0], "blank query must return the input slice itself")
	}
}

func TestFilterRegex(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantIDs   []string
		wantValid bool
	}{
		{name: "alternation", query: "coffee|bus", wantIDs: []string{"txn_1", "txn_2"}, wantValid: true},
		{name: "anchored", query: "^paid", wantIDs: []string{"txn_3", "txn_4"}, wantValid: true},
		{name: "literal form", query: "/^books/", wantIDs: []string{"txn_5"}, wantValid: true},
		{name: "amount digits", query: `^\d{3}$`, wantIDs: []string{"txn_4"}, wantValid: true},
		{name: "february", query: `-02-`, wantIDs: []string{"txn_5"}, wantValid: true},
		{name: "blank passes through", query: "  ", wantIDs: []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"}, wantValid: true},
		{name: "empty literal passes through", query: "//", wantIDs: []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"}, wantValid: true},
		{name: "malformed falls back", query: "(", wantIDs: []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"}, wantValid: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := FilterRegex(sample(), tc.query)

			assert.Equal(t, tc.wantIDs, ids(res.Transactions))
			assert.Equal(t, len(tc.wantIDs), res.Count)
			assert.Equal(t, 5, res.Total)
			assert.Equal(t, tc.wantValid, res.Valid)
			assert.Equal(t, api.ModeRegex, res.Mode)
			if tc.wantValid {
				assert.Empty(t, res.Error)
			} else {
				assert.NotEmpty(t, res.Error)
			}
		})
	}
}

func TestFilterRegex_MalformedKeepsEveryRecord(t *testing.T) {
	in := sample()
	res := FilterRegex(in, "(")

	assert.False(t, res.Valid)
	assert.Equal(t, in, res.Transactions)
	assert.Equal(t, "Invalid regex pattern", res.Feedback())
}

func TestFilterByField(t *testing.T) {
	tests := []struct {
		name      string
		query     Query
		wantIDs   []string
		wantValid bool
	}{
		{
			name:      "plain on description only",
			query:     Query{Pattern: "misc", Mode: api.ModePlain, Field: api.FieldDescription},
			wantIDs:   []string{},
			wantValid: true,
		},
		{
			name:      "plain on category",
			query:     Query{Pattern: "misc", Mode: api.ModePlain, Field: api.FieldCategory},
			wantIDs:   []string{"txn_3", "txn_4"},
			wantValid: true,
		},
		{
			name:      "regex on amount",
			query:     Query{Pattern: `^1\d*$`, Mode: api.ModeRegex, Field: api.FieldAmount},
			wantIDs:   []string{"txn_3", "txn_4"},
			wantValid: true,
		},
		{
			name:      "regex on date",
			query:     Query{Pattern: `^2024-02`, Mode: api.ModeRegex, Field: api.FieldDate},
			wantIDs:   []string{"txn_5"},
			wantValid: true,
		},
		{
			name:      "empty field means all",
			query:     Query{Pattern: "food"},
			wantIDs:   []string{"txn_1"},
			wantValid: true,
		},
		{
			name:      "all delegates to regex filter",
			query:     Query{Pattern: "ticket|books", Mode: api.ModeRegex, Field: api.FieldAll},
			wantIDs:   []string{"txn_2", "txn_5"},
			wantValid: true,
		},
		{
			name:      "malformed regex on a field falls back",
			query:     Query{Pattern: "[", Mode: api.ModeRegex, Field: api.FieldCategory},
			wantIDs:   []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"},
			wantValid: false,
		},
		{
			name:      "blank plain on a field passes through",
			query:     Query{Pattern: "", Mode: api.ModePlain, Field: api.FieldCategory},
			wantIDs:   []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"},
			wantValid: true,
		},
		{
			name:      "unknown field",
			query:     Query{Pattern: "x", Field: "merchant"},
			wantIDs:   []string{"txn_1", "txn_2", "txn_3", "txn_4", "txn_5"},
			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := FilterByField(sample(), tc.query)
			assert.Equal(t, tc.wantIDs, ids(res.Transactions))
			assert.Equal(t, tc.wantValid, res.Valid)
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := sample()

	FilterPlain(in, "paid")
	FilterRegex(in, "^b")
	FilterRegex(in, "(")
	FilterByField(in, Query{Pattern: "misc", Field: api.FieldCategory})

	assert.Equal(t, before, in)
}

func TestFilter_CustomFlags(t *testing.T) {
	f := New(Config{Flags: "g"}, nil)

	res := f.FilterRegex(sample(), "coffee")
	assert.Empty(t, res.Transactions, "regex mode without i is case-sensitive")

	assert.Equal(t, []string{"txn_1"}, ids(f.FilterPlain(sample(), "coffee")), "plain mode always ignores case")
}

func TestResult_Feedback(t *testing.T) {
	tests := []struct {
		name string
		res  Result
		want string
	}{
		{name: "regex", res: Result{Valid: true, Mode: api.ModeRegex, Count: 3}, want: "Regex search ✓ 3 transactions matched"},
		{name: "text singular", res: Result{Valid: true, Mode: api.ModePlain, Count: 1}, want: "Text search ✓ 1 transaction matched"},
		{name: "text none", res: Result{Valid: true, Mode: api.ModePlain}, want: "Text search ✓ 0 transactions matched"},
		{name: "invalid regex", res: Result{Mode: api.ModeRegex}, want: "Invalid regex pattern"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.res.Feedback())
		})
	}
}

func TestResult_Stats(t *testing.T) {
	assert.Equal(t, "Showing 2 of 5 transactions", Result{Count: 2, Total: 5}.Stats())
	assert.Equal(t, "Showing 1 of 1 transaction", Result{Count: 1, Total: 1}.Stats())
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `1\.50`, Escape("1.50"))
	assert.Equal(t, `\(a\|b\)\*\+\?\^\$\{\}\[\]\\`, Escape(`(a|b)*+?^${}[]\`))
	assert.Equal(t, "plain text", Escape("plain text"))
}

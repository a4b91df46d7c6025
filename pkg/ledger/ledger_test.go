package ledger

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exported = `{
  "transactions": [
    {
      "id": "txn_1710500000000_abc123def",
      "description": "Lunch at cafe",
      "amount": 4500,
      "category": "Food",
      "date": "2024-03-15",
      "createdAt": "2024-03-15T10:00:00.000Z",
      "updatedAt": "2024-03-15T10:00:00.000Z"
    },
    {
      "id": "txn_2",
      "description": "Bus ticket",
      "amount": "1.50",
      "category": "Transport",
      "date": "2024-03-14"
    }
  ],
  "settings": {"currencyRate": 1448, "budgetCap": 50000, "baseCurrency": "RWF"}
}`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(exported))
	require.NoError(t, err)

	require.Len(t, doc.Transactions, 2)
	first := doc.Transactions[0]
	assert.Equal(t, "txn_1710500000000_abc123def", first.ID)
	assert.True(t, decimal.NewFromInt(4500).Equal(first.Amount))
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), first.CreatedAt.UTC())
	assert.Equal(t, "1.5", doc.Transactions[1].Amount.String())
	assert.True(t, doc.Transactions[1].CreatedAt.IsZero())

	require.NotNil(t, doc.Settings)
	assert.True(t, decimal.NewFromInt(50000).Equal(doc.Settings.BudgetCap))
	assert.Equal(t, "RWF", doc.Settings.BaseCurrency)
}

func TestParse_DefaultSettings(t *testing.T) {
	doc, err := Parse([]byte(`{"transactions": []}`))
	require.NoError(t, err)

	assert.Empty(t, doc.Transactions)
	require.NotNil(t, doc.Settings)
	assert.Equal(t, "RWF", doc.Settings.BaseCurrency)
	assert.True(t, doc.Settings.BudgetCap.IsZero())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantErr   error
		wantIndex int
		wantField string
	}{
		{name: "no transactions", doc: `{"settings": {}}`, wantErr: ErrNoTransactions},
		{name: "null transactions", doc: `{"transactions": null}`, wantErr: ErrNoTransactions},
		{name: "missing id", doc: `{"transactions": [{"description": "x", "amount": 1, "category": "A", "date": "2024-01-01"}]}`, wantIndex: 0, wantField: "id"},
		{name: "empty description", doc: `{"transactions": [{"id": "1", "description": "", "amount": 1, "category": "A", "date": "2024-01-01"}]}`, wantIndex: 0, wantField: "description"},
		{
			name: "zero amount in second record",
			doc: `{"transactions": [
				{"id": "1", "description": "x", "amount": 1, "category": "A", "date": "2024-01-01"},
				{"id": "2", "description": "y", "amount": 0.00, "category": "A", "date": "2024-01-01"}
			]}`,
			wantIndex: 1,
			wantField: "amount",
		},
		{name: "null date", doc: `{"transactions": [{"id": "1", "description": "x", "amount": 1, "category": "A", "date": null}]}`, wantIndex: 0, wantField: "date"},
		{name: "record is not an object", doc: `{"transactions": ["oops"]}`, wantIndex: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc))
			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			var recErr *RecordError
			require.True(t, errors.As(err, &recErr), "got %v", err)
			assert.Equal(t, tc.wantIndex, recErr.Index)
			assert.Equal(t, tc.wantField, recErr.Field)
		})
	}
}

func TestDecode(t *testing.T) {
	doc, err := Decode(strings.NewReader(exported))
	require.NoError(t, err)
	assert.Len(t, doc.Transactions, 2)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeFile(t, exported)

	doc, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, doc.Transactions, 2)
}

func TestLoader_MissingFileIsNotRetried(t *testing.T) {
	l := NewLoader(Config{Attempts: 5, Delay: time.Second}, nil)

	start := time.Now()
	_, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLoader_RetriesTruncatedFile(t *testing.T) {
	path := writeFile(t, exported[:40])
	l := NewLoader(Config{Attempts: 10, Delay: 20 * time.Millisecond}, nil)

	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte(exported), 0o600)
	}()

	doc, err := l.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, doc.Transactions, 2)
}

func TestLoader_GivesUpOnTruncatedFile(t *testing.T) {
	path := writeFile(t, `{"transactions": [`)
	l := NewLoader(Config{Attempts: 2, Delay: time.Millisecond}, nil)

	_, err := l.Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, truncated(err))
}

func TestLoader_StructuralErrorsAreNotRetried(t *testing.T) {
	path := writeFile(t, `{"settings": {}}`)
	l := NewLoader(Config{Attempts: 5, Delay: time.Second}, nil)

	start := time.Now()
	_, err := l.Load(context.Background(), path)

	assert.ErrorIs(t, err, ErrNoTransactions)
	assert.Less(t, time.Since(start), time.Second)
}

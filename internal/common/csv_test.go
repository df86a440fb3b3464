package common

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"poupeai/statement-ingestion/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransactions() []models.BankTransaction {
	return []models.BankTransaction{
		{
			FitID:       "A1",
			BankCode:    "001",
			PostedAt:    time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-12.3"),
			RawType:     "DEBIT",
			Description: "Farmacia - Compra Cartao",
		},
		{
			BankCode:    "001",
			PostedAt:    time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("50"),
			RawType:     "CREDIT",
			Description: "Pix recebido",
			CategoryID:  "cat-1",
		},
	}
}

func TestWriteTransactionsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(sampleTransactions(), &buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Posted At", "Amount", "Type", "Description", "FIT ID", "Bank Code", "Category ID"}, records[0])
	assert.Equal(t, "2025-01-10 09:00:00", records[1][0])
	assert.Equal(t, "-12.30", records[1][1])
	assert.Equal(t, "50.00", records[2][1])
	assert.Equal(t, "cat-1", records[2][6])
}

func TestWriteTransactionsCSV_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteTransactionsCSV(nil, &buf))
}

func TestWriteTransactionsCSV_Delimiter(t *testing.T) {
	orig := Delimiter
	defer SetDelimiter(orig)
	SetDelimiter(';')

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(sampleTransactions()[:1], &buf))
	assert.Contains(t, buf.String(), "Posted At;Amount;Type")
}

func TestWriteTransactionsToCSV_CreatesParentDirectories(t *testing.T) {
	out := filepath.Join(t.TempDir(), "exports", "2025", "jan.csv")
	require.NoError(t, WriteTransactionsToCSV(sampleTransactions(), out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Pix recebido")
}

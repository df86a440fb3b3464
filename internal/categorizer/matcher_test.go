package categorizer

import (
	"testing"

	"poupeai/statement-ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestMerge(t *testing.T) {
	txs := []models.BankTransaction{
		{FitID: "1", Description: "Padaria"},
		{FitID: "2", Description: "Posto Shell"},
		{FitID: "3", Description: "Padaria"},
		{FitID: "4", Description: "padaria"},
		{FitID: "5", Description: "Cinema"},
	}
	predictions := []models.Prediction{
		{Description: "Padaria", CategoryID: ptr("food")},
		{Description: "Padaria", CategoryID: ptr("other")},
		{Description: "Posto Shell", CategoryID: nil},
		{Description: "Posto Shell", CategoryID: ptr("transport")},
		{Description: "Cinema", CategoryID: ptr("")},
		{Description: "Unrelated", CategoryID: ptr("x")},
	}

	merged, matches := Merge(txs, predictions)

	require.Len(t, merged, len(txs))
	assert.Equal(t, 3, matches)
	assert.Equal(t, "food", merged[0].CategoryID, "first prediction wins")
	assert.Equal(t, "transport", merged[1].CategoryID, "nil categories are skipped, not first")
	assert.Equal(t, "food", merged[2].CategoryID)
	assert.Empty(t, merged[3].CategoryID, "matching is case sensitive")
	assert.Empty(t, merged[4].CategoryID)

	for i := range txs {
		assert.Equal(t, txs[i].FitID, merged[i].FitID, "order is preserved")
		assert.Empty(t, txs[i].CategoryID, "input is untouched")
	}
}

func TestMerge_Empty(t *testing.T) {
	merged, matches := Merge(nil, []models.Prediction{{Description: "a", CategoryID: ptr("b")}})
	assert.Empty(t, merged)
	assert.Zero(t, matches)

	txs := []models.BankTransaction{{Description: "a"}}
	merged, matches = Merge(txs, nil)
	assert.Equal(t, txs, merged)
	assert.Zero(t, matches)
}

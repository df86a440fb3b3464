// Package categorizer applies category predictions to parsed transactions and
// provides an AI predictor backed by Gemini.
package categorizer

import "poupeai/statement-ingestion/internal/models"

// Merge applies predictions to transactions by exact, case-sensitive
// description match and returns a new slice plus the number of transactions
// that received a category. When several predictions share a description the
// first one wins; predictions without a category are ignored. The input slice
// is not modified.
func Merge(transactions []models.BankTransaction, predictions []models.Prediction) ([]models.BankTransaction, int) {
	byDescription := make(map[string]string, len(predictions))
	for _, p := range predictions {
		if !p.HasCategory() {
			continue
		}
		if _, seen := byDescription[p.Description]; seen {
			continue
		}
		byDescription[p.Description] = *p.CategoryID
	}

	out := make([]models.BankTransaction, len(transactions))
	matches := 0
	for i, tx := range transactions {
		if categoryID, ok := byDescription[tx.Description]; ok {
			out[i] = tx.WithCategory(categoryID)
			matches++
			continue
		}
		out[i] = tx
	}
	return out, matches
}

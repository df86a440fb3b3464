// Package models provides the data structures shared by the parser, the
// categorization step, the mapper and the ingestion pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTransaction is a single movement extracted from a statement file.
// Empty FitID and CategoryID mean "absent".
type BankTransaction struct {
	FitID       string          `csv:"FitID"`
	BankCode    string          `csv:"BankCode"`
	PostedAt    time.Time       `csv:"-"`
	Amount      decimal.Decimal `csv:"-"`
	RawType     string          `csv:"Type"`
	Description string          `csv:"Description"`
	CategoryID  string          `csv:"CategoryID"`
}

// IsExpense reports whether the movement debits the account.
func (t BankTransaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// WithCategory returns a copy of the transaction carrying the given category.
func (t BankTransaction) WithCategory(categoryID string) BankTransaction {
	t.CategoryID = categoryID
	return t
}

// Descriptions returns the distinct descriptions of txs in first-occurrence order.
func Descriptions(txs []BankTransaction) []string {
	seen := make(map[string]struct{}, len(txs))
	out := make([]string, 0, len(txs))
	for _, tx := range txs {
		if _, ok := seen[tx.Description]; ok {
			continue
		}
		seen[tx.Description] = struct{}{}
		out = append(out, tx.Description)
	}
	return out
}

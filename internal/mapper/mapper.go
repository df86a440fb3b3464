// Package mapper turns parsed bank transactions into the records persisted by
// the core service.
package mapper

import (
	"poupeai/statement-ingestion/internal/dateutils"
	"poupeai/statement-ingestion/internal/models"
)

// Mapper resolves type, amount and category for one job's transactions.
type Mapper struct {
	profileID       string
	accountID       string
	fallbackIncome  string
	fallbackExpense string
}

// New creates a Mapper for the given owner, account and fallback categories.
// Empty fallbacks mean "none".
func New(profileID, accountID, fallbackIncome, fallbackExpense string) *Mapper {
	return &Mapper{
		profileID:       profileID,
		accountID:       accountID,
		fallbackIncome:  fallbackIncome,
		fallbackExpense: fallbackExpense,
	}
}

// ToPersistable maps a single transaction. Negative amounts are expenses and
// the stored amount is always the absolute value. The transaction's own
// category wins over the fallback for its type.
func (m *Mapper) ToPersistable(tx models.BankTransaction) models.PersistableTransaction {
	txType := models.TransactionTypeIncome
	fallback := m.fallbackIncome
	if tx.IsExpense() {
		txType = models.TransactionTypeExpense
		fallback = m.fallbackExpense
	}

	return models.PersistableTransaction{
		ProfileID:   m.profileID,
		AccountID:   m.accountID,
		Description: tx.Description,
		Amount:      tx.Amount.Abs(),
		Type:        txType,
		Date:        dateutils.CalendarDate(tx.PostedAt),
		CategoryID:  firstNonEmpty(tx.CategoryID, fallback),
		ExternalID:  optional(tx.FitID),
	}
}

// ToPersistableAll maps txs preserving order.
func (m *Mapper) ToPersistableAll(txs []models.BankTransaction) []models.PersistableTransaction {
	out := make([]models.PersistableTransaction, 0, len(txs))
	for _, tx := range txs {
		out = append(out, m.ToPersistable(tx))
	}
	return out
}

func firstNonEmpty(values ...string) *string {
	for _, v := range values {
		if v != "" {
			return optional(v)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

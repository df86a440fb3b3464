package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a persisted movement.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

// PersistableTransaction is the record handed to the core service. Amount is
// always non-negative; the direction lives in Type.
type PersistableTransaction struct {
	ProfileID   string
	AccountID   string
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Date        time.Time
	CategoryID  *string
	ExternalID  *string
}

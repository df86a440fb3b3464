package parser

import (
	"io"

	"poupeai/statement-ingestion/internal/models"
)

// Parser reads one statement from r and returns its transactions in file order.
// Implementations return *parsererror.ReadError when the stream itself cannot be
// read; malformed individual records are skipped, not reported as errors.
type Parser interface {
	Parse(r io.Reader) ([]models.BankTransaction, error)
}

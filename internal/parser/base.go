// Package parser provides the statement parser contract and the base embedded
// by concrete parsers.
package parser

import (
	"poupeai/statement-ingestion/internal/common"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
)

// BaseParser provides the logger plumbing and CSV export shared by parsers.
//
//	type MyParser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	name   string
	logger logging.Logger
}

// NewBaseParser creates a BaseParser. A nil logger falls back to an info-level
// text logger.
func NewBaseParser(name string, logger logging.Logger) BaseParser {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return BaseParser{
		name:   name,
		logger: logger.WithField(logging.FieldParser, name),
	}
}

// Name returns the parser name used in logs and errors.
func (b *BaseParser) Name() string {
	return b.name
}

// SetLogger replaces the logger; nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger.WithField(logging.FieldParser, b.name)
	}
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// WriteToCSV writes parsed transactions with the common CSV writer.
func (b *BaseParser) WriteToCSV(transactions []models.BankTransaction, csvFile string) error {
	b.logger.Info("Writing transactions to CSV",
		logging.F(logging.FieldOutputFile, csvFile),
		logging.F(logging.FieldCount, len(transactions)))

	return common.WriteTransactionsToCSV(transactions, csvFile)
}

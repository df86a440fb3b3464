// Package common provides helpers shared by parsers and commands.
package common

import (
	"fmt"
	"io"

	"poupeai/statement-ingestion/internal/dateutils"
	"poupeai/statement-ingestion/internal/fileutils"
	"poupeai/statement-ingestion/internal/models"

	"github.com/gocarina/gocsv"
)

// Delimiter is the CSV field separator used by the writers.
var Delimiter rune = ','

// SetDelimiter changes the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// TransactionCSVRow is the flat CSV shape of a parsed transaction.
type TransactionCSVRow struct {
	PostedAt    string `csv:"Posted At"`
	Amount      string `csv:"Amount"`
	Type        string `csv:"Type"`
	Description string `csv:"Description"`
	FitID       string `csv:"FIT ID"`
	BankCode    string `csv:"Bank Code"`
	CategoryID  string `csv:"Category ID"`
}

// ToCSVRows converts transactions to CSV rows, keeping their order.
func ToCSVRows(transactions []models.BankTransaction) []TransactionCSVRow {
	rows := make([]TransactionCSVRow, 0, len(transactions))
	for _, tx := range transactions {
		rows = append(rows, TransactionCSVRow{
			PostedAt:    dateutils.FormatDate(tx.PostedAt, dateutils.DateLayoutFull),
			Amount:      tx.Amount.StringFixed(2),
			Type:        tx.RawType,
			Description: tx.Description,
			FitID:       tx.FitID,
			BankCode:    tx.BankCode,
			CategoryID:  tx.CategoryID,
		})
	}
	return rows
}

// WriteTransactionsCSV writes transactions as CSV to w.
func WriteTransactionsCSV(transactions []models.BankTransaction, w io.Writer) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	rows := ToCSVRows(transactions)
	writer := gocsv.DefaultCSVWriter(w)
	writer.Comma = Delimiter
	if err := gocsv.MarshalCSV(&rows, writer); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

// WriteTransactionsToCSV writes transactions to a CSV file, creating parent
// directories as needed.
func WriteTransactionsToCSV(transactions []models.BankTransaction, csvFile string) (err error) {
	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing CSV file: %w", cerr)
		}
	}()

	return WriteTransactionsCSV(transactions, file)
}

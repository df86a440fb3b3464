// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"poupeai/statement-ingestion/internal/fileutils"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/parser"

	"github.com/shopspring/decimal"
)

// CSVParser is a statement parser that can also export what it parsed.
type CSVParser interface {
	parser.Parser
	WriteToCSV(transactions []models.BankTransaction, csvFile string) error
}

// Summary describes one parsed statement file.
type Summary struct {
	File    string
	Output  string
	Count   int
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Summarize totals credits and debits of txs. Expense is reported as a
// positive amount.
func Summarize(file string, txs []models.BankTransaction) Summary {
	s := Summary{File: file, Count: len(txs), Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		if tx.IsExpense() {
			s.Expense = s.Expense.Add(tx.Amount.Abs())
		} else {
			s.Income = s.Income.Add(tx.Amount)
		}
	}
	return s
}

// ProcessFile parses inputFile and, when outputFile is set, writes the
// transactions to it as CSV.
func ProcessFile(p CSVParser, inputFile, outputFile string, log logging.Logger) (Summary, error) {
	f, err := fileutils.OpenFile(inputFile)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	txs, err := p.Parse(f)
	if err != nil {
		return Summary{}, fmt.Errorf("error parsing %s: %w", inputFile, err)
	}
	log.Info("Statement parsed",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldCount, len(txs)))

	summary := Summarize(inputFile, txs)
	if outputFile != "" {
		if err := p.WriteToCSV(txs, outputFile); err != nil {
			return summary, fmt.Errorf("error writing %s: %w", outputFile, err)
		}
		summary.Output = outputFile
	}
	return summary, nil
}

// ProcessDirectory parses every .ofx file under inputDir. When outputDir is
// set each file is exported to <outputDir>/<name>.csv. Files that fail are
// logged and reported together in the returned error.
func ProcessDirectory(p CSVParser, inputDir, outputDir string, log logging.Logger) ([]Summary, error) {
	files, err := fileutils.ListFilesWithExtension(inputDir, ".ofx")
	if err != nil {
		return nil, err
	}
	if outputDir != "" {
		if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
			return nil, err
		}
	}

	var summaries []Summary
	var errs []error
	for _, file := range files {
		output := ""
		if outputDir != "" {
			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			output = filepath.Join(outputDir, base+".csv")
		}
		summary, err := ProcessFile(p, file, output, log)
		if err != nil {
			log.WithError(err).Warn("Skipping file", logging.F(logging.FieldInputFile, file))
			errs = append(errs, err)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, errors.Join(errs...)
}

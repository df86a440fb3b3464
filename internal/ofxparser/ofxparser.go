// Package ofxparser extracts transactions from OFX bank statements.
//
// OFX 1.x files are SGML, not XML: leaf elements such as <TRNAMT>-12.34 are
// rarely closed and values are not escaped. The parser therefore never builds a
// document tree. It locates the <STMTTRN> blocks and reads each field with the
// lexical TagValue scan, so one malformed block cannot spoil its neighbours.
package ofxparser

import (
	"errors"
	"io"
	"strings"

	"poupeai/statement-ingestion/internal/dateutils"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/parser"
	"poupeai/statement-ingestion/internal/parsererror"

	"github.com/shopspring/decimal"
)

const (
	// Name identifies this parser in logs and errors.
	Name = "ofx"

	// UnknownBankCode is used when the statement has no <BANKID>.
	UnknownBankCode = "UNKNOWN"
)

var errMissingDate = errors.New("missing value")

// Parser reads OFX statements.
type Parser struct {
	parser.BaseParser
	detectCharset bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithCharsetDetection makes the parser honour a non-UTF-8 CHARSET declared in
// the OFX SGML header. Off by default: statements are read as UTF-8.
func WithCharsetDetection(enabled bool) Option {
	return func(p *Parser) {
		p.detectCharset = enabled
	}
}

// New creates an OFX parser.
func New(logger logging.Logger, opts ...Option) *Parser {
	p := &Parser{BaseParser: parser.NewBaseParser(Name, logger)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads the whole statement from r and returns its transactions in
// document order. Only a failure to read r is an error; blocks without an
// amount, with a zero amount or with unparseable fields are skipped.
func (p *Parser) Parse(r io.Reader) ([]models.BankTransaction, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &parsererror.ReadError{Err: err}
	}
	if p.detectCharset {
		raw = p.transcode(raw)
	}
	return p.ParseContent(strings.ToValidUTF8(string(raw), "\uFFFD")), nil
}

// ParseContent extracts transactions from already decoded statement text.
func (p *Parser) ParseContent(content string) []models.BankTransaction {
	bankCode, ok := BankCode(content)
	if !ok {
		bankCode = UnknownBankCode
	}

	blocks := Blocks(content)
	transactions := make([]models.BankTransaction, 0, len(blocks))
	skipped := 0

	for i, block := range blocks {
		tx, keep, err := p.parseBlock(block, bankCode)
		if err != nil {
			fitID, _ := TagValue(TagFitID, block)
			p.GetLogger().WithError(err).Warn("Skipping malformed transaction block",
				logging.F("block_index", i),
				logging.F(logging.FieldFitID, fitID))
		}
		if !keep {
			skipped++
			continue
		}
		transactions = append(transactions, tx)
	}

	p.GetLogger().Debug("Extracted OFX transactions",
		logging.F(logging.FieldCount, len(transactions)),
		logging.F("blocks", len(blocks)),
		logging.F("skipped", skipped),
		logging.F("bank_code", bankCode))

	return transactions
}

// parseBlock converts one <STMTTRN> body. keep is false when the block must be
// dropped; err is set only when the drop is due to malformed data.
func (p *Parser) parseBlock(block, bankCode string) (tx models.BankTransaction, keep bool, err error) {
	amountStr, ok := TagValue(TagTrnAmount, block)
	if !ok {
		return tx, false, nil
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return tx, false, p.fieldError(TagTrnAmount, amountStr, err)
	}
	if amount.IsZero() {
		return tx, false, nil
	}

	dateStr, ok := TagValue(TagDatePosted, block)
	if !ok {
		return tx, false, p.fieldError(TagDatePosted, "", errMissingDate)
	}
	postedAt, err := dateutils.ParseOFXTimestamp(dateStr)
	if err != nil {
		return tx, false, p.fieldError(TagDatePosted, dateStr, err)
	}

	rawType, _ := TagValue(TagTrnType, block)
	fitID, _ := TagValue(TagFitID, block)
	name, _ := TagValue(TagName, block)
	memo, _ := TagValue(TagMemo, block)

	return models.BankTransaction{
		FitID:       fitID,
		BankCode:    bankCode,
		PostedAt:    postedAt,
		Amount:      amount,
		RawType:     rawType,
		Description: BuildDescription(name, memo),
	}, true, nil
}

func (p *Parser) fieldError(field, value string, err error) error {
	return &parsererror.ParseError{Parser: p.Name(), Field: field, Value: value, Err: err}
}

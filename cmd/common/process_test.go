package common_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"poupeai/statement-ingestion/cmd/common"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockParser implements common.CSVParser for testing
type MockParser struct {
	mock.Mock
}

func (m *MockParser) Parse(r io.Reader) ([]models.BankTransaction, error) {
	args := m.Called(r)
	return args.Get(0).([]models.BankTransaction), args.Error(1)
}

func (m *MockParser) WriteToCSV(transactions []models.BankTransaction, csvFile string) error {
	args := m.Called(transactions, csvFile)
	return args.Error(0)
}

func sampleTransactions() []models.BankTransaction {
	return []models.BankTransaction{
		{Description: "Padaria", Amount: decimal.RequireFromString("-12.34")},
		{Description: "Mercado", Amount: decimal.RequireFromString("-7.66")},
		{Description: "Salario", Amount: decimal.RequireFromString("1500.00")},
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<OFX>"), 0o600))
}

func TestSummarize(t *testing.T) {
	s := common.Summarize("f.ofx", sampleTransactions())
	assert.Equal(t, 3, s.Count)
	assert.True(t, decimal.RequireFromString("20").Equal(s.Expense))
	assert.True(t, decimal.RequireFromString("1500").Equal(s.Income))
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "extrato.ofx")
	output := filepath.Join(dir, "extrato.csv")
	writeFile(t, input)

	p := &MockParser{}
	p.On("Parse", mock.Anything).Return(sampleTransactions(), nil)
	p.On("WriteToCSV", mock.Anything, output).Return(nil)

	summary, err := common.ProcessFile(p, input, output, &logging.MockLogger{})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Count)
	assert.Equal(t, output, summary.Output)
	p.AssertExpectations(t)
}

func TestProcessFile_NoOutput(t *testing.T) {
	input := filepath.Join(t.TempDir(), "extrato.ofx")
	writeFile(t, input)

	p := &MockParser{}
	p.On("Parse", mock.Anything).Return(sampleTransactions(), nil)

	summary, err := common.ProcessFile(p, input, "", &logging.MockLogger{})
	require.NoError(t, err)
	assert.Empty(t, summary.Output)
	p.AssertNotCalled(t, "WriteToCSV", mock.Anything, mock.Anything)
}

func TestProcessFile_Errors(t *testing.T) {
	p := &MockParser{}
	_, err := common.ProcessFile(p, filepath.Join(t.TempDir(), "missing.ofx"), "", &logging.MockLogger{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	input := filepath.Join(t.TempDir(), "extrato.ofx")
	writeFile(t, input)
	readErr := errors.New("unexpected EOF")
	p.On("Parse", mock.Anything).Return([]models.BankTransaction(nil), readErr)
	_, err = common.ProcessFile(p, input, "", &logging.MockLogger{})
	assert.ErrorIs(t, err, readErr)
}

func TestProcessDirectory(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "csv")
	writeFile(t, filepath.Join(in, "jan.ofx"))
	writeFile(t, filepath.Join(in, "feb.OFX"))
	writeFile(t, filepath.Join(in, "notes.txt"))

	p := &MockParser{}
	p.On("Parse", mock.Anything).Return(sampleTransactions(), nil)
	p.On("WriteToCSV", mock.Anything, filepath.Join(out, "jan.csv")).Return(nil)
	p.On("WriteToCSV", mock.Anything, filepath.Join(out, "feb.csv")).Return(errors.New("disk full"))

	logger := &logging.MockLogger{}
	summaries, err := common.ProcessDirectory(p, in, out, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.Len(t, summaries, 1)
	assert.Equal(t, filepath.Join(out, "jan.csv"), summaries[0].Output)
	assert.True(t, logger.HasEntry("WARN", "Skipping file"))
}

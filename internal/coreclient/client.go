// Package coreclient talks to the core service: it lists a profile's
// categories, stores transaction batches and updates ingestion job status.
package coreclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"poupeai/statement-ingestion/internal/dateutils"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
)

const (
	categoriesPath   = "/api/internal/categories"
	transactionsPath = "/api/internal/transactions/batch"
	jobsPath         = "/api/internal/ingestion-jobs/"
)

// Client is the core service REST client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

// New creates a core service client.
func New(baseURL, apiKey string, timeout time.Duration, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.WithField(logging.FieldEndpoint, "core"),
	}
}

// CreateTransactionRequest is the wire form of one persisted transaction.
type CreateTransactionRequest struct {
	ProfileID           string                 `json:"profileId"`
	BankAccountID       string                 `json:"bankAccountId"`
	Description         string                 `json:"description"`
	Amount              json.Number            `json:"amount"`
	Type                models.TransactionType `json:"type"`
	Date                string                 `json:"date"`
	CategoryID          *string                `json:"categoryId"`
	OriginalStatementID *string                `json:"originalStatementId"`
}

// NewCreateTransactionRequest converts a mapped transaction to its wire form.
func NewCreateTransactionRequest(tx models.PersistableTransaction) CreateTransactionRequest {
	return CreateTransactionRequest{
		ProfileID:           tx.ProfileID,
		BankAccountID:       tx.AccountID,
		Description:         tx.Description,
		Amount:              json.Number(tx.Amount.StringFixed(2)),
		Type:                tx.Type,
		Date:                dateutils.FormatDate(tx.Date, dateutils.DateLayoutISO),
		CategoryID:          tx.CategoryID,
		OriginalStatementID: tx.ExternalID,
	}
}

// GetCategories lists the categories of a profile.
func (c *Client) GetCategories(ctx context.Context, profileID string) ([]models.Category, error) {
	endpoint := c.baseURL + categoriesPath + "?" + url.Values{"profileId": {profileID}}.Encode()

	var categories []models.Category
	if err := DoJSON(ctx, c.httpClient, http.MethodGet, endpoint, c.apiKey, nil, &categories); err != nil {
		return nil, err
	}
	c.logger.Debug("Fetched categories",
		logging.F(logging.FieldProfileID, profileID),
		logging.F(logging.FieldCount, len(categories)))
	return categories, nil
}

// CreateBatch stores all transactions in a single request.
func (c *Client) CreateBatch(ctx context.Context, txs []models.PersistableTransaction) error {
	body := make([]CreateTransactionRequest, 0, len(txs))
	for _, tx := range txs {
		body = append(body, NewCreateTransactionRequest(tx))
	}
	if err := DoJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+transactionsPath, c.apiKey, body, nil); err != nil {
		return fmt.Errorf("create transactions batch: %w", err)
	}
	c.logger.Debug("Transactions batch stored", logging.F(logging.FieldCount, len(txs)))
	return nil
}

// UpdateStatus patches the status of an ingestion job.
func (c *Client) UpdateStatus(ctx context.Context, jobID string, update models.JobStatusUpdate) error {
	endpoint := c.baseURL + jobsPath + url.PathEscape(jobID)
	if err := DoJSON(ctx, c.httpClient, http.MethodPatch, endpoint, c.apiKey, update, nil); err != nil {
		return fmt.Errorf("update job %s status: %w", jobID, err)
	}
	c.logger.Debug("Job status updated",
		logging.F(logging.FieldJobID, jobID),
		logging.F(logging.FieldStatus, string(update.Status)))
	return nil
}

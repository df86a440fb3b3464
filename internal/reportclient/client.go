// Package reportclient asks the report service to categorize transaction
// descriptions.
package reportclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"poupeai/statement-ingestion/internal/coreclient"
	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"
)

const predictPath = "/api/internal/categorization/predict"

// Client is the report service REST client. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

// New creates a report service client.
func New(baseURL, apiKey string, timeout time.Duration, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.WithField(logging.FieldEndpoint, "report"),
	}
}

type predictRequest struct {
	Descriptions   []string          `json:"descriptions"`
	UserCategories []models.Category `json:"userCategories"`
}

type predictResponse struct {
	Content *struct {
		Categorizations []models.Prediction `json:"categorizations"`
	} `json:"content"`
}

// categorizations tolerates a missing envelope.
func (r predictResponse) categorizations() []models.Prediction {
	if r.Content == nil {
		return nil
	}
	return r.Content.Categorizations
}

// Predict sends the descriptions and the user's categories to the report
// service and returns its predictions.
func (c *Client) Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error) {
	body := predictRequest{Descriptions: descriptions, UserCategories: categories}
	var resp predictResponse
	if err := coreclient.DoJSON(ctx, c.httpClient, http.MethodPost, c.baseURL+predictPath, c.apiKey, body, &resp); err != nil {
		return nil, fmt.Errorf("predict categories: %w", err)
	}

	predictions := resp.categorizations()
	c.logger.Debug("Predictions received",
		logging.F(logging.FieldCount, len(predictions)))
	return predictions, nil
}

package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// contentGenerator is the part of *genai.GenerativeModel the predictor uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiPredictor predicts categories for transaction descriptions with the
// Gemini API. It is an alternative to the report service predictor.
type GeminiPredictor struct {
	client *genai.Client
	model  contentGenerator
	logger logging.Logger
}

// NewGeminiPredictor creates a predictor using the given API key and model name.
func NewGeminiPredictor(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*GeminiPredictor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiPredictor{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Close releases the underlying Gemini client.
func (g *GeminiPredictor) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

type geminiItem struct {
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
}

// Predict asks the model to pick one of categories for each description.
// Category IDs the model invents are dropped, and so are descriptions that
// were not asked for.
func (g *GeminiPredictor) Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error) {
	if len(descriptions) == 0 || len(categories) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(descriptions, categories)
	if err != nil {
		return nil, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}

	var items []geminiItem
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &items); err != nil {
		return nil, fmt.Errorf("unexpected Gemini response: %w", err)
	}

	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c.ID] = struct{}{}
	}
	asked := make(map[string]struct{}, len(descriptions))
	for _, d := range descriptions {
		asked[d] = struct{}{}
	}

	predictions := make([]models.Prediction, 0, len(items))
	for _, item := range items {
		if _, ok := asked[item.Description]; !ok {
			g.logger.Debug("Dropping prediction for unknown description",
				logging.F("description", item.Description))
			continue
		}
		p := models.Prediction{Description: item.Description}
		if item.CategoryID != nil {
			if _, ok := known[*item.CategoryID]; ok {
				p.CategoryID = item.CategoryID
			}
		}
		predictions = append(predictions, p)
	}

	g.logger.Debug("Gemini predictions received",
		logging.F(logging.FieldCount, len(predictions)))
	return predictions, nil
}

func buildPrompt(descriptions []string, categories []models.Category) (string, error) {
	descJSON, err := json.Marshal(descriptions)
	if err != nil {
		return "", fmt.Errorf("failed to encode descriptions: %w", err)
	}

	var b strings.Builder
	b.WriteString("You categorize Brazilian bank statement entries.\n")
	b.WriteString("Available categories (id: name):\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", c.ID, c.Name)
	}
	b.WriteString("\nTransaction descriptions (JSON array):\n")
	b.Write(descJSON)
	b.WriteString("\n\nAnswer with a JSON array only, one object per description, in the form ")
	b.WriteString(`[{"description": "<description exactly as given>", "category_id": "<id or null>"}]. `)
	b.WriteString("Use null when no category fits.")
	return b.String(), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return b.String(), nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

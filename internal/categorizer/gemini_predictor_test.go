package categorizer

import (
	"context"
	"errors"
	"testing"

	"poupeai/statement-ingestion/internal/logging"
	"poupeai/statement-ingestion/internal/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGenerator struct {
	reply     string
	err       error
	calls     int
	lastParts []genai.Part
}

func (m *mockGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.lastParts = parts
	if m.err != nil {
		return nil, m.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(m.reply)}},
		}},
	}, nil
}

var testCategories = []models.Category{
	{ID: "cat-food", Name: "Alimentação"},
	{ID: "cat-car", Name: "Transporte"},
}

func TestGeminiPredictor_Predict(t *testing.T) {
	gen := &mockGenerator{reply: "```json\n" + `[
		{"description": "Padaria", "category_id": "cat-food"},
		{"description": "Posto Shell", "category_id": "cat-car"},
		{"description": "Cinema", "category_id": "cat-invented"},
		{"description": "Netflix", "category_id": null},
		{"description": "Not asked", "category_id": "cat-food"}
	]` + "\n```"}
	p := &GeminiPredictor{model: gen, logger: &logging.MockLogger{}}

	preds, err := p.Predict(context.Background(), []string{"Padaria", "Posto Shell", "Cinema", "Netflix"}, testCategories)
	require.NoError(t, err)
	require.Len(t, preds, 4)

	assert.Equal(t, "cat-food", *preds[0].CategoryID)
	assert.Equal(t, "cat-car", *preds[1].CategoryID)
	assert.Nil(t, preds[2].CategoryID, "unknown ids are dropped")
	assert.Nil(t, preds[3].CategoryID)

	require.Len(t, gen.lastParts, 1)
	prompt, ok := gen.lastParts[0].(genai.Text)
	require.True(t, ok)
	assert.Contains(t, string(prompt), "- cat-food: Alimentação")
	assert.Contains(t, string(prompt), `"Posto Shell"`)
}

func TestGeminiPredictor_Errors(t *testing.T) {
	ctx := context.Background()

	apiErr := errors.New("quota exceeded")
	p := &GeminiPredictor{model: &mockGenerator{err: apiErr}, logger: &logging.MockLogger{}}
	_, err := p.Predict(ctx, []string{"a"}, testCategories)
	assert.ErrorIs(t, err, apiErr)

	p = &GeminiPredictor{model: &mockGenerator{reply: "I think it's food"}, logger: &logging.MockLogger{}}
	_, err = p.Predict(ctx, []string{"a"}, testCategories)
	assert.Error(t, err)
}

func TestGeminiPredictor_NothingToAsk(t *testing.T) {
	gen := &mockGenerator{}
	p := &GeminiPredictor{model: gen, logger: &logging.MockLogger{}}

	preds, err := p.Predict(context.Background(), nil, testCategories)
	assert.NoError(t, err)
	assert.Nil(t, preds)
	preds, err = p.Predict(context.Background(), []string{"a"}, nil)
	assert.NoError(t, err)
	assert.Nil(t, preds)
	assert.Zero(t, gen.calls)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, "[]", stripCodeFence("```json\n[]\n```"))
	assert.Equal(t, "[]", stripCodeFence("```\n[]\n```"))
	assert.Equal(t, "[1]", stripCodeFence("  [1] "))
}

func TestNewGeminiPredictor_RequiresKey(t *testing.T) {
	_, err := NewGeminiPredictor(context.Background(), "", "gemini-2.0-flash", &logging.MockLogger{})
	assert.Error(t, err)
	assert.NoError(t, (&GeminiPredictor{}).Close())
}

package container

import (
	"context"
	"testing"
	"time"

	"poupeai/statement-ingestion/internal/config"
	"poupeai/statement-ingestion/internal/models"
	"poupeai/statement-ingestion/internal/reportclient"
	"poupeai/statement-ingestion/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Storage.Provider = config.StorageLocal
	cfg.Storage.LocalDir = t.TempDir()
	cfg.Services.CoreURL = "http://core.local"
	cfg.Services.ReportURL = "http://report.local"
	cfg.Services.TimeoutSeconds = 5
	cfg.AI.Provider = config.AIProviderReport
	cfg.AI.TimeoutSeconds = 5
	cfg.CSV.Delimiter = ","
	return cfg
}

type nopNotifier struct{}

func (nopNotifier) Publish(ctx context.Context, event models.NotificationEvent) error { return nil }

func TestNewContainer(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*config.Config)
		expectError string
		check       func(*testing.T, *Container)
	}{
		{
			name: "report predictor",
			check: func(t *testing.T, c *Container) {
				_, ok := c.predictor.(*reportclient.Client)
				assert.True(t, ok)
				_, ok = c.store.(*storage.LocalStore)
				assert.True(t, ok)
			},
		},
		{
			name:   "AI disabled",
			modify: func(cfg *config.Config) { cfg.AI.Provider = config.AIProviderNone },
			check: func(t *testing.T, c *Container) {
				assert.Nil(t, c.predictor)
			},
		},
		{
			name:        "unknown AI provider",
			modify:      func(cfg *config.Config) { cfg.AI.Provider = "openai" },
			expectError: "unknown ai provider",
		},
		{
			name:        "gemini without key",
			modify:      func(cfg *config.Config) { cfg.AI.Provider = config.AIProviderGemini },
			expectError: "GEMINI_API_KEY",
		},
		{
			name:        "missing local directory",
			modify:      func(cfg *config.Config) { cfg.Storage.LocalDir = "/does/not/exist" },
			expectError: "local directory does not exist",
		},
		{
			name:        "unknown storage provider",
			modify:      func(cfg *config.Config) { cfg.Storage.Provider = "s3" },
			expectError: "unknown storage provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			if tt.modify != nil {
				tt.modify(cfg)
			}
			c, err := NewContainer(context.Background(), cfg)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
			defer c.Close()

			assert.NotNil(t, c.GetLogger())
			assert.Same(t, cfg, c.config)
			assert.NotNil(t, c.parser)
			assert.NotNil(t, c.GetStats())
			if tt.check != nil {
				tt.check(t, c)
			}
		})
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	_, err := NewContainer(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration cannot be nil")
}

func TestNewRunner(t *testing.T) {
	c, err := NewContainer(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer c.Close()

	runner, err := c.NewRunner(nopNotifier{})
	require.NoError(t, err)
	assert.NotNil(t, runner)

	_, err = c.NewRunner(nil)
	assert.Error(t, err)
}

type deadlineRecorder struct {
	hadDeadline bool
}

func (d *deadlineRecorder) Predict(ctx context.Context, descriptions []string, categories []models.Category) ([]models.Prediction, error) {
	_, d.hadDeadline = ctx.Deadline()
	return nil, nil
}

func TestTimeoutPredictor(t *testing.T) {
	inner := &deadlineRecorder{}
	p := &timeoutPredictor{next: inner, timeout: time.Second}
	_, err := p.Predict(context.Background(), []string{"a"}, nil)
	require.NoError(t, err)
	assert.True(t, inner.hadDeadline)
}

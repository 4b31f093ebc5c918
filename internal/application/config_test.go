package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	yamlConfig := `
extraction:
  provider: anthropic
  model: claude-3-5-sonnet-20241022
  temperature: 0.2
  max_attempts: 5
  rate_limit: 1.5
pipeline:
  workers: 8
  transcript_dir: /data/transcripts
  output_dir: /data/out
  repair_policy: strict
`
	cfg, err := ParseConfig([]byte(yamlConfig))
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Extraction.Provider)
	assert.Equal(t, 5, cfg.Extraction.MaxAttempts)
	assert.InDelta(t, 1.5, cfg.Extraction.RateLimit, 1e-9)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "strict", cfg.Pipeline.RepairPolicy)
	// Omitted fields inherit defaults.
	assert.Equal(t, 2048, cfg.Extraction.MaxTokens)
	assert.Equal(t, 60, cfg.Extraction.RequestTimeoutSeconds)
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown provider",
			yaml: "extraction:\n  provider: aol\npipeline:\n  transcript_dir: /a\n  output_dir: /b\n",
		},
		{
			name: "missing output dir",
			yaml: "extraction:\n  provider: openai\npipeline:\n  transcript_dir: /a\n",
		},
		{
			name: "temperature out of range",
			yaml: "extraction:\n  provider: openai\n  temperature: 3.5\npipeline:\n  transcript_dir: /a\n  output_dir: /b\n",
		},
		{
			name: "not yaml",
			yaml: "{{{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestDefaultConfig_IsUsableExceptDirs(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "openai", cfg.Extraction.Provider)
	assert.Equal(t, 3, cfg.Extraction.MaxAttempts)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, "unique-gap", cfg.Pipeline.RepairPolicy)
}

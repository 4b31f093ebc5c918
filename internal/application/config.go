// Package application holds the run configuration: YAML in, validated
// struct out. The extraction API key deliberately has no config field;
// it is read from the environment at client construction and never
// written anywhere.
package application

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration for one pipeline invocation.
type Config struct {
	// Extraction configures the LLM-backed extraction calls.
	Extraction ExtractionConfig `yaml:"extraction" validate:"required"`
	// Pipeline configures concurrency and the input/output locations.
	Pipeline PipelineConfig `yaml:"pipeline" validate:"required"`
}

// ExtractionConfig selects the extraction provider and its budgets.
type ExtractionConfig struct {
	// Provider names the LLM backend to use.
	Provider string `yaml:"provider" validate:"required,oneof=openai anthropic google"`
	// Model overrides the provider's default model when non-empty.
	Model string `yaml:"model,omitempty"`
	// Temperature is the sampling temperature for extraction calls.
	// Extraction wants reproducible output, so the default of zero stands.
	Temperature float64 `yaml:"temperature" validate:"min=0,max=2"`
	// MaxTokens caps the response length per extraction call.
	MaxTokens int `yaml:"max_tokens" validate:"omitempty,min=1,max=100000"`
	// MaxAttempts is the total attempt budget per call including the
	// first attempt.
	MaxAttempts int `yaml:"max_attempts" validate:"omitempty,min=1,max=10"`
	// RequestTimeoutSeconds bounds each individual extraction call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" validate:"omitempty,min=1,max=600"`
	// RateLimit is the shared requests-per-second budget across all
	// workers; Burst is the token-bucket burst size.
	RateLimit float64 `yaml:"rate_limit" validate:"omitempty,min=0"`
	Burst     int     `yaml:"burst" validate:"omitempty,min=1"`
	// HeadChars and TailChars bound the transcript slices sent to the
	// cast and outcome calls. Zero selects the built-in defaults.
	HeadChars int `yaml:"head_chars" validate:"omitempty,min=1000"`
	TailChars int `yaml:"tail_chars" validate:"omitempty,min=1000"`
}

// PipelineConfig configures the worker pool and file locations.
type PipelineConfig struct {
	// Workers is the number of episodes processed concurrently.
	Workers int `yaml:"workers" validate:"omitempty,min=1,max=64"`
	// TranscriptDir holds the transcript and sidecar files.
	TranscriptDir string `yaml:"transcript_dir" validate:"required"`
	// OutputDir receives candidates.csv, episodes.csv, and skipped.csv.
	OutputDir string `yaml:"output_dir" validate:"required"`
	// RepairPolicy selects the validator repair strategy.
	RepairPolicy string `yaml:"repair_policy" validate:"omitempty,oneof=unique-gap strict"`
}

// DefaultConfig returns the configuration used when a field is omitted.
func DefaultConfig() Config {
	return Config{
		Extraction: ExtractionConfig{
			Provider:              "openai",
			MaxTokens:             2048,
			MaxAttempts:           3,
			RequestTimeoutSeconds: 60,
			RateLimit:             2,
			Burst:                 4,
		},
		Pipeline: PipelineConfig{
			Workers:      4,
			RepairPolicy: "unique-gap",
		},
	}
}

// LoadConfig reads, decodes, and validates a YAML configuration file.
// Omitted fields inherit the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates YAML configuration bytes.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

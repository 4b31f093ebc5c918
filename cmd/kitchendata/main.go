// Command kitchendata runs the transcript extraction pipeline: it pairs
// transcripts with their metadata sidecars, extracts structured episodes
// through an LLM provider, validates and reconciles them, and writes the
// candidate-level and episode-level CSV views plus a skip manifest.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/mhagen/kitchendata/infrastructure/llm"
	"github.com/mhagen/kitchendata/infrastructure/metrics"
	"github.com/mhagen/kitchendata/internal/application"
	"github.com/mhagen/kitchendata/internal/dataset"
	"github.com/mhagen/kitchendata/internal/extraction"
	"github.com/mhagen/kitchendata/internal/pipeline"
	"github.com/mhagen/kitchendata/internal/validation"
)

func main() {
	var (
		configPath    = flag.String("config", "", "Path to the YAML run configuration")
		transcriptDir = flag.String("transcripts", "", "Transcript directory (overrides config)")
		outputDir     = flag.String("out", "", "Output directory (overrides config)")
		provider      = flag.String("provider", "", "Extraction provider (overrides config)")
		verbose       = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *configPath, *transcriptDir, *outputDir, *provider); err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, configPath, transcriptDir, outputDir, provider string) error {
	cfg := application.DefaultConfig()
	if configPath != "" {
		loaded, err := application.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if transcriptDir != "" {
		cfg.Pipeline.TranscriptDir = transcriptDir
	}
	if outputDir != "" {
		cfg.Pipeline.OutputDir = outputDir
	}
	if provider != "" {
		cfg.Extraction.Provider = provider
	}
	if cfg.Pipeline.TranscriptDir == "" || cfg.Pipeline.OutputDir == "" {
		return fmt.Errorf("transcript and output directories are required (flags or config)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewPrometheusMetrics(nil)
	extractor, err := buildExtractor(cfg.Extraction, collector)
	if err != nil {
		return err
	}

	episodes, err := pipeline.DiscoverEpisodes(cfg.Pipeline.TranscriptDir)
	if err != nil {
		return err
	}
	if len(episodes) == 0 {
		return fmt.Errorf("no transcripts found in %s", cfg.Pipeline.TranscriptDir)
	}
	logger.Info("starting pipeline run",
		"episodes", len(episodes),
		"workers", cfg.Pipeline.Workers,
		"provider", cfg.Extraction.Provider)

	validator := validation.NewSchemaValidator(repairPolicy(cfg.Pipeline.RepairPolicy))
	runner := pipeline.NewRunner(extractor, validator, cfg.Pipeline.Workers, logger, collector)
	result, err := runner.Run(ctx, episodes)
	if err != nil {
		return err
	}

	if err := writeOutputs(cfg.Pipeline.OutputDir, result); err != nil {
		return err
	}
	logger.Info("dataset written",
		"dir", cfg.Pipeline.OutputDir,
		"candidate_rows", len(result.Dataset.Candidates),
		"episode_rows", len(result.Dataset.Episodes),
		"skipped", len(result.Rejected))
	return nil
}

// buildExtractor assembles the LLM client stack: provider, middleware
// chain, retry wrapper, extraction client. The API key comes from the
// provider's environment variable and is never logged.
func buildExtractor(cfg application.ExtractionConfig, collector *metrics.PrometheusMetrics) (*extraction.Client, error) {
	apiKey := os.Getenv(apiKeyEnv(cfg.Provider))
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key: set %s", apiKeyEnv(cfg.Provider))
	}

	middleware := []llm.Middleware{
		llm.TracingMiddleware("kitchendata"),
		llm.MetricsMiddleware(collector),
		llm.TimeoutMiddleware(time.Duration(cfg.RequestTimeoutSeconds) * time.Second),
	}
	if cfg.RateLimit > 0 {
		limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
		middleware = append(middleware, llm.SharedRateLimitMiddleware(limiter))
	}

	client, err := llm.NewClient(cfg.Provider, llm.ClientConfig{
		APIKey:     apiKey,
		Model:      cfg.Model,
		Middleware: middleware,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %s client: %w", cfg.Provider, err)
	}

	retryCfg := llm.DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retryCfg.MaxAttempts = cfg.MaxAttempts
	}
	retrying := llm.NewRetryingClient(client, retryCfg)

	return extraction.NewClient(retrying, extraction.Config{
		HeadChars:   cfg.HeadChars,
		TailChars:   cfg.TailChars,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
}

func apiKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "google":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func repairPolicy(name string) validation.RepairPolicy {
	if name == "strict" {
		return validation.StrictPolicy{}
	}
	return validation.UniqueGapPolicy{}
}

func writeOutputs(dir string, result pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"candidates.csv", func(f *os.File) error { return dataset.WriteCandidates(f, result.Dataset.Candidates) }},
		{"episodes.csv", func(f *os.File) error { return dataset.WriteEpisodes(f, result.Dataset.Episodes) }},
		{"skipped.csv", func(f *os.File) error { return dataset.WriteSkipped(f, result.Rejected) }},
	}
	for _, w := range writers {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", w.name, err)
		}
		if err := w.write(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", w.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", w.name, err)
		}
	}
	return nil
}

// Package pipeline fans episodes out over a bounded worker pool, runs the
// per-episode stages (metadata parse, extraction, validation,
// reconciliation, assembly), and joins before the dataset build. A failed
// episode lands in the skip manifest; only credential failures and run
// cancellation abort the whole run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mhagen/kitchendata/infrastructure/llm"
	"github.com/mhagen/kitchendata/internal/assemble"
	"github.com/mhagen/kitchendata/internal/dataset"
	"github.com/mhagen/kitchendata/internal/domain"
	"github.com/mhagen/kitchendata/internal/metadata"
	"github.com/mhagen/kitchendata/internal/ports"
	"github.com/mhagen/kitchendata/internal/reconcile"
	"github.com/mhagen/kitchendata/internal/validation"
)

// Stage names recorded in the skip manifest.
const (
	StageMetadata   = "metadata"
	StageTranscript = "transcript"
	StageExtraction = "extraction"
	StageValidation = "validation"
)

// Result is the outcome of one full run.
type Result struct {
	// Dataset is the cleaned tabular output.
	Dataset dataset.Dataset
	// Records are the accepted episodes in input order.
	Records []domain.EpisodeRecord
	// Rejected is the skip manifest in input order.
	Rejected []domain.RejectedEpisode
}

// Runner wires the per-episode stages together.
type Runner struct {
	parser     *metadata.Parser
	extractor  ports.Extractor
	validator  *validation.SchemaValidator
	reconciler *reconcile.Reconciler
	assembler  *assemble.Assembler
	cleaner    *dataset.Cleaner

	workers int
	logger  *slog.Logger
	metrics ports.MetricsCollector
}

// NewRunner builds a runner. Workers below one are clamped to one. A nil
// logger discards output; a nil metrics collector disables recording.
func NewRunner(extractor ports.Extractor, validator *validation.SchemaValidator, workers int, logger *slog.Logger, metrics ports.MetricsCollector) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		parser:     metadata.NewParser(),
		extractor:  extractor,
		validator:  validator,
		reconciler: reconcile.NewReconciler(),
		assembler:  assemble.NewAssembler(),
		cleaner:    dataset.NewCleaner(),
		workers:    workers,
		logger:     logger,
		metrics:    metrics,
	}
}

// Run processes every episode concurrently, joins, and builds the cleaned
// dataset. The returned error is non-nil only for run-fatal conditions:
// cancellation or a credential failure against the extraction service.
func (r *Runner) Run(ctx context.Context, episodes []Episode) (Result, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	// Each worker owns one slot, so the join preserves input order and
	// repeated runs over the same episode list produce identical output.
	type outcome struct {
		record    *domain.EpisodeRecord
		rejection *domain.RejectedEpisode
	}
	outcomes := make([]outcome, len(episodes))

	for i, ep := range episodes {
		g.Go(func() error {
			start := time.Now()
			record, rejection, err := r.processEpisode(ctx, ep)
			r.recordOutcome(ep, record != nil, time.Since(start))
			if err != nil {
				return err
			}
			outcomes[i] = outcome{record: record, rejection: rejection}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("pipeline run aborted: %w", err)
	}

	var (
		records  []domain.EpisodeRecord
		rejected []domain.RejectedEpisode
	)
	for _, out := range outcomes {
		if out.record != nil {
			records = append(records, *out.record)
		} else if out.rejection != nil {
			rejected = append(rejected, *out.rejection)
		}
	}

	builder := dataset.NewBuilder()
	for _, rec := range records {
		builder.Add(rec)
	}
	result := Result{
		Dataset:  r.cleaner.Clean(builder.Build()),
		Records:  records,
		Rejected: rejected,
	}
	r.logger.Info("pipeline run complete",
		"accepted", len(records),
		"rejected", len(rejected))
	return result, nil
}

// processEpisode runs the stage chain for one episode. A nil error with a
// nil record means the episode was rejected locally; a non-nil error
// aborts the run.
func (r *Runner) processEpisode(ctx context.Context, ep Episode) (*domain.EpisodeRecord, *domain.RejectedEpisode, error) {
	logger := r.logger.With("episode", ep.Name())

	if ep.SidecarPath == "" {
		return nil, r.reject(logger, domain.EpisodeMetadata{}, StageMetadata, "no metadata sidecar for transcript"), nil
	}

	sidecar, err := os.ReadFile(ep.SidecarPath)
	if err != nil {
		return nil, r.reject(logger, domain.EpisodeMetadata{}, StageMetadata, fmt.Sprintf("failed to read sidecar: %v", err)), nil
	}
	meta, err := r.parser.Parse(ep.SidecarPath, string(sidecar))
	if err != nil {
		return nil, r.reject(logger, domain.EpisodeMetadata{}, StageMetadata, err.Error()), nil
	}

	transcript, err := os.ReadFile(ep.TranscriptPath)
	if err != nil {
		return nil, r.reject(logger, meta, StageTranscript, fmt.Sprintf("failed to read transcript: %v", err)), nil
	}

	draft, err := r.extractor.Extract(ctx, meta, string(transcript))
	if err != nil {
		if fatal := runFatal(ctx, err); fatal != nil {
			return nil, nil, fatal
		}
		return nil, r.reject(logger, meta, StageExtraction, err.Error()), nil
	}

	verdict := r.validator.Validate(draft)
	if !verdict.Accepted() {
		rej := r.assembler.Reject(meta, StageValidation, verdict.Reasons)
		vErr := &domain.ValidationError{Episode: meta.ID(), Reasons: verdict.Reasons}
		logger.Warn("episode rejected", "stage", StageValidation, "error", vErr)
		return nil, &rej, nil
	}

	reconciled, flags := r.reconciler.Reconcile(verdict.Draft)
	record := r.assembler.Record(reconciled, flags, verdict.Repairs)
	logger.Info("episode accepted",
		"decision", verdict.Decision.String(),
		"candidates", record.NumCandidates(),
		"flags_clean", record.Flags.Clean())
	return &record, nil, nil
}

func (r *Runner) reject(logger *slog.Logger, meta domain.EpisodeMetadata, stage, reason string) *domain.RejectedEpisode {
	rej := r.assembler.Reject(meta, stage, []string{reason})
	logger.Warn("episode rejected", "stage", stage, "reason", reason)
	return &rej
}

// runFatal decides whether an extraction failure must abort the run.
// Credential failures poison every subsequent call, and a canceled
// context means the run itself is shutting down. Everything else is local
// to the episode.
func runFatal(ctx context.Context, err error) error {
	if llm.IsAuthError(err) {
		return fmt.Errorf("extraction credentials rejected: %w", err)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (r *Runner) recordOutcome(ep Episode, accepted bool, elapsed time.Duration) {
	if r.metrics == nil {
		return
	}
	status := "rejected"
	if accepted {
		status = "accepted"
	}
	r.metrics.RecordCounter("pipeline_episodes_total", 1, map[string]string{"status": status})
	r.metrics.RecordLatency("pipeline_episode", elapsed, map[string]string{"status": status})
}

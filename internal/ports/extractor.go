package ports

import (
	"context"

	"github.com/mhagen/kitchendata/internal/domain"
)

// Extractor turns one transcript plus its parsed metadata into an episode
// draft. The pipeline depends on this interface rather than the concrete
// LLM-backed client so tests can substitute scripted extractors.
type Extractor interface {
	Extract(ctx context.Context, meta domain.EpisodeMetadata, transcript string) (domain.EpisodeDraft, error)
}

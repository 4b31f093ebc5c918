// Package assemble freezes a reconciled draft into its terminal shape:
// an immutable EpisodeRecord, or a RejectedEpisode carrying the failure
// trail. No domain logic lives here beyond the merge.
package assemble

import (
	"github.com/mhagen/kitchendata/internal/domain"
)

// Assembler produces the terminal episode shapes.
type Assembler struct{}

// NewAssembler returns an assembler.
func NewAssembler() *Assembler { return &Assembler{} }

// Record freezes an accepted, reconciled draft into an EpisodeRecord,
// stamping the reconciliation flags and the applied repairs.
func (a *Assembler) Record(draft domain.EpisodeDraft, flags domain.QualityFlags, repairs []domain.Repair) domain.EpisodeRecord {
	for _, r := range repairs {
		flags.RepairsApplied = append(flags.RepairsApplied, r.String())
	}
	frozen := draft.Clone()
	return domain.EpisodeRecord{
		Metadata:   frozen.Metadata,
		Juror:      frozen.Juror,
		Moderator:  frozen.Moderator,
		Candidates: frozen.Candidates,
		Flags:      flags,
	}
}

// Reject produces the audit shape for an episode that failed a stage.
func (a *Assembler) Reject(meta domain.EpisodeMetadata, stage string, reasons []string) domain.RejectedEpisode {
	return domain.RejectedEpisode{
		Metadata: meta,
		Stage:    stage,
		Reasons:  reasons,
	}
}

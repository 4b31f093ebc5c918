// Package reconcile cross-checks a validated draft against the
// independently parsed sidecar metadata. Disagreements are flagged, never
// fatal: the sidecar free text is itself unreliable, so flagging beats
// both silent correction and losing the episode.
package reconcile

import (
	"github.com/mhagen/kitchendata/internal/domain"
	"github.com/mhagen/kitchendata/internal/names"
)

// Reconciler compares extracted and declared episode facts and stamps
// quality flags. It never rejects.
type Reconciler struct{}

// NewReconciler returns a reconciler.
func NewReconciler() *Reconciler { return &Reconciler{} }

// Reconcile returns the draft with metadata-derived fixes applied and the
// quality flags describing every disagreement it found. The input draft is
// not mutated.
func (r *Reconciler) Reconcile(draft domain.EpisodeDraft) (domain.EpisodeDraft, domain.QualityFlags) {
	out := draft.Clone()
	var flags domain.QualityFlags

	declared := out.Metadata.DeclaredCandidates
	if declared > 0 && declared != len(out.Candidates) {
		flags.CountMismatch = true
	}

	metaJuror := out.Metadata.Juror
	switch {
	case out.Juror.Name == "" && metaJuror.Name != "":
		// Extraction missed the juror; the sidecar names one.
		out.Juror = metaJuror
	case out.Juror.Name != "" && metaJuror.Name != "" && !names.Similar(out.Juror.Name, metaJuror.Name):
		flags.JurorMismatch = true
	}
	if out.Juror.Gender == domain.GenderUnknown && names.Similar(out.Juror.Name, metaJuror.Name) {
		out.Juror.Gender = metaJuror.Gender
	}

	if out.Moderator.Name == "" && out.Metadata.Moderator.Name != "" {
		out.Moderator = out.Metadata.Moderator
	}

	return out, flags
}

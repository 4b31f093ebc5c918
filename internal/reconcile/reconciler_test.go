package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mhagen/kitchendata/internal/domain"
)

func draftWithCount(n int) domain.EpisodeDraft {
	draft := domain.EpisodeDraft{
		Metadata: domain.EpisodeMetadata{
			Season:             "2025",
			Episode:            "187",
			DeclaredCandidates: n,
			Juror:              domain.Person{Name: "Anna Müller", Gender: domain.GenderFemale},
		},
		Juror: domain.Person{Name: "Anna Müller"},
	}
	for i := 0; i < n; i++ {
		draft.Candidates = append(draft.Candidates, domain.CandidateDraft{Name: "Kandidat"})
	}
	return draft
}

func TestReconciler_CleanDraft(t *testing.T) {
	draft := draftWithCount(5)

	out, flags := NewReconciler().Reconcile(draft)

	assert.True(t, flags.Clean())
	assert.Len(t, out.Candidates, 5)
}

func TestReconciler_FlagsCountMismatch(t *testing.T) {
	// Metadata declares 6 but extraction produced 5: flagged, not rejected.
	draft := draftWithCount(5)
	draft.Metadata.DeclaredCandidates = 6

	_, flags := NewReconciler().Reconcile(draft)

	assert.True(t, flags.CountMismatch)
	assert.False(t, flags.JurorMismatch)
}

func TestReconciler_JurorComparisonIgnoresCaseAndDiacritics(t *testing.T) {
	draft := draftWithCount(3)
	draft.Juror.Name = "ANNA MÜLLER"

	_, flags := NewReconciler().Reconcile(draft)

	assert.False(t, flags.JurorMismatch)
}

func TestReconciler_FlagsJurorMismatch(t *testing.T) {
	draft := draftWithCount(3)
	draft.Juror.Name = "Alexander Herrmann"

	_, flags := NewReconciler().Reconcile(draft)

	assert.True(t, flags.JurorMismatch)
}

func TestReconciler_FillsMissingJurorFromMetadata(t *testing.T) {
	draft := draftWithCount(3)
	draft.Juror = domain.Person{}

	out, flags := NewReconciler().Reconcile(draft)

	assert.Equal(t, "Anna Müller", out.Juror.Name)
	assert.Equal(t, domain.GenderFemale, out.Juror.Gender)
	assert.False(t, flags.JurorMismatch)
}

func TestReconciler_FillsJurorGenderFromMetadata(t *testing.T) {
	draft := draftWithCount(3)

	out, _ := NewReconciler().Reconcile(draft)

	assert.Equal(t, domain.GenderFemale, out.Juror.Gender)
}

func TestReconciler_FillsMissingModeratorFromMetadata(t *testing.T) {
	draft := draftWithCount(3)
	draft.Metadata.Moderator = domain.Person{Name: "Johann Lafer", Gender: domain.GenderMale}

	out, _ := NewReconciler().Reconcile(draft)

	assert.Equal(t, "Johann Lafer", out.Moderator.Name)
}

func TestReconciler_DoesNotMutateInput(t *testing.T) {
	draft := draftWithCount(3)
	draft.Juror = domain.Person{}

	_, _ = NewReconciler().Reconcile(draft)

	assert.Empty(t, draft.Juror.Name)
}

func TestReconciler_ZeroDeclaredCountIsNotAMismatch(t *testing.T) {
	draft := draftWithCount(4)
	draft.Metadata.DeclaredCandidates = 0

	_, flags := NewReconciler().Reconcile(draft)

	assert.False(t, flags.CountMismatch)
}

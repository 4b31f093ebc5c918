package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhagen/kitchendata/internal/domain"
)

func builtDataset(t *testing.T) Dataset {
	t.Helper()
	builder := NewBuilder()
	builder.Add(testRecord("2025", "187", monday(), []int{1, 2, 3}, []domain.Gender{
		domain.GenderFemale, domain.GenderMale, domain.GenderMale,
	}))
	builder.Add(testRecord("2025", "188", monday().AddDate(0, 0, 1), []int{2, 1}, []domain.Gender{
		domain.GenderMale, domain.GenderFemale,
	}))
	return builder.Build()
}

func TestCleaner_Idempotent(t *testing.T) {
	cleaner := NewCleaner()
	ds := builtDataset(t)

	once := cleaner.Clean(ds)
	twice := cleaner.Clean(once)

	assert.Equal(t, once, twice)
}

func TestCleaner_DropsDuplicateCandidateRows(t *testing.T) {
	ds := builtDataset(t)
	// Same episode and name, diacritics spelled out: an exact duplicate.
	dup := ds.Candidates[0]
	dup.Name = "  " + dup.Name + " "
	ds.Candidates = append(ds.Candidates, dup)

	cleaned := NewCleaner().Clean(ds)

	assert.Len(t, cleaned.Candidates, 5)
}

func TestCleaner_TrimsAndNormalizes(t *testing.T) {
	ds := builtDataset(t)
	ds.Candidates[0].Name = "  A Testkoch  "
	ds.Candidates[0].Gender = domain.Gender("w")

	cleaned := NewCleaner().Clean(ds)

	assert.Equal(t, "A Testkoch", cleaned.Candidates[0].Name)
	assert.Equal(t, domain.GenderFemale, cleaned.Candidates[0].Gender)
}

func TestCleaner_RecomputesDerivedAfterDedup(t *testing.T) {
	ds := builtDataset(t)
	// Duplicate the eliminated candidate of episode 187; after dedup the
	// derived flags must still mark exactly one eliminated row.
	dup := ds.Candidates[2]
	ds.Candidates = append(ds.Candidates, dup)

	cleaned := NewCleaner().Clean(ds)

	var eliminated int
	for _, row := range cleaned.Candidates {
		if row.EpisodeID() == "2025/187" && row.Eliminated {
			eliminated++
		}
	}
	assert.Equal(t, 1, eliminated)
}

func TestCleaner_RecomputesShareFemale(t *testing.T) {
	ds := builtDataset(t)

	cleaned := NewCleaner().Clean(ds)

	require.Len(t, cleaned.Episodes, 2)
	assert.InDelta(t, 1.0/3.0, cleaned.Episodes[0].ShareFemale, 1e-9)
	assert.InDelta(t, 0.5, cleaned.Episodes[1].ShareFemale, 1e-9)
}

func TestCleaner_FillsModeratorWithinWeek(t *testing.T) {
	ds := builtDataset(t)
	// Tuesday's sidecar never named the moderator; Monday's did, and both
	// episodes air in the same broadcast week.
	ds.Episodes[1].ModeratorName = ""
	ds.Episodes[1].ModeratorFemale = false
	for i, row := range ds.Candidates {
		if row.EpisodeID() == "2025/188" {
			ds.Candidates[i].ModeratorName = ""
		}
	}

	cleaned := NewCleaner().Clean(ds)

	assert.Equal(t, "Johann Lafer", cleaned.Episodes[1].ModeratorName)
	for _, row := range cleaned.Candidates {
		if row.EpisodeID() == "2025/188" {
			assert.Equal(t, "Johann Lafer", row.ModeratorName)
		}
	}
}

func TestCleaner_DoesNotFillModeratorAcrossWeeks(t *testing.T) {
	builder := NewBuilder()
	builder.Add(testRecord("2025", "187", monday(), []int{1, 2}, []domain.Gender{domain.GenderFemale, domain.GenderMale}))
	nextWeek := monday().AddDate(0, 0, 7)
	builder.Add(testRecord("2025", "192", nextWeek, []int{1, 2}, []domain.Gender{domain.GenderFemale, domain.GenderMale}))
	ds := builder.Build()
	ds.Episodes[1].ModeratorName = ""

	cleaned := NewCleaner().Clean(ds)

	assert.Empty(t, cleaned.Episodes[1].ModeratorName)
}

func TestCleaner_DoesNotMutateInput(t *testing.T) {
	ds := builtDataset(t)
	ds.Candidates[0].Name = "  padded  "
	before := ds.Candidates[0].Name

	_ = NewCleaner().Clean(ds)

	assert.Equal(t, before, ds.Candidates[0].Name)
}

func TestCleaner_EmptyDataset(t *testing.T) {
	cleaned := NewCleaner().Clean(Dataset{})

	assert.Empty(t, cleaned.Candidates)
	assert.Empty(t, cleaned.Episodes)
}

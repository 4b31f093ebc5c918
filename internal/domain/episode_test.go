package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGender(t *testing.T) {
	tests := []struct {
		token string
		want  Gender
	}{
		{"f", GenderFemale},
		{"w", GenderFemale},
		{"weiblich", GenderFemale},
		{"female", GenderFemale},
		{"m", GenderMale},
		{"männlich", GenderMale},
		{"male", GenderMale},
		{"", GenderUnknown},
		{"divers", GenderUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseGender(tt.token), "ParseGender(%q)", tt.token)
	}
}

func TestExpectedCandidates_DeclaredCountWins(t *testing.T) {
	meta := EpisodeMetadata{
		Date:               time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
		DeclaredCandidates: 4,
	}

	assert.Equal(t, 4, meta.ExpectedCandidates())
}

func TestExpectedCandidates_WeekdayFallback(t *testing.T) {
	// The show runs whole weeks: six candidates on Monday, one fewer each
	// day down to the two-candidate Friday final.
	tests := []struct {
		day  time.Time
		want int
	}{
		{time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC), 6}, // Monday
		{time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC), 5},
		{time.Date(2025, time.October, 15, 0, 0, 0, 0, time.UTC), 4},
		{time.Date(2025, time.October, 16, 0, 0, 0, 0, time.UTC), 3},
		{time.Date(2025, time.October, 17, 0, 0, 0, 0, time.UTC), 2}, // Friday
		{time.Date(2025, time.October, 18, 0, 0, 0, 0, time.UTC), 5}, // Saturday, default
	}

	for _, tt := range tests {
		meta := EpisodeMetadata{Date: tt.day}
		assert.Equal(t, tt.want, meta.ExpectedCandidates(), "weekday %s", tt.day.Weekday())
	}
}

func TestEpisodeDraft_Clone(t *testing.T) {
	pos, rank := 1, 2
	draft := EpisodeDraft{
		Candidates: []CandidateDraft{{Name: "Anna", TastingPosition: &pos, Ranking: &rank}},
	}

	clone := draft.Clone()
	*clone.Candidates[0].TastingPosition = 9
	clone.Candidates[0].Name = "Ben"

	assert.Equal(t, 1, *draft.Candidates[0].TastingPosition)
	assert.Equal(t, "Anna", draft.Candidates[0].Name)
}

func TestQualityFlags_Clean(t *testing.T) {
	assert.True(t, QualityFlags{}.Clean())
	assert.False(t, QualityFlags{CountMismatch: true}.Clean())
	assert.False(t, QualityFlags{RepairsApplied: []string{"ranking=3"}}.Clean())
}

func TestRepair_String(t *testing.T) {
	r := Repair{Candidate: "Anna Müller", Field: "ranking", Value: 3}
	assert.Equal(t, `ranking=3 for "Anna Müller"`, r.String())
}

func TestErrorTaxonomy(t *testing.T) {
	var metaErr error = &MetadataParseError{Path: "x.info", Missing: []string{"juror"}}
	require.ErrorIs(t, metaErr, ErrMetadataParse)
	assert.Contains(t, metaErr.Error(), "juror")

	var schemaErr error = &ExtractionSchemaError{Step: "cast", Reason: "malformed JSON"}
	require.ErrorIs(t, schemaErr, ErrExtractionSchema)

	var unavailErr error = &ExtractionUnavailableError{Attempts: 3}
	require.ErrorIs(t, unavailErr, ErrExtractionUnavailable)
	assert.Contains(t, unavailErr.Error(), "3 attempts")

	valErr := &ValidationError{Episode: "2025/41", Reasons: []string{"duplicate ranking 1"}}
	assert.Equal(t, "validation rejected episode 2025/41: duplicate ranking 1", valErr.Error())
	valErr.Reasons = append(valErr.Reasons, "missing tasting_position")
	assert.Contains(t, valErr.Error(), "missing tasting_position")
}

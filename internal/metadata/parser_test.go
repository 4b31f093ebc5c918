package metadata

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhagen/kitchendata/internal/domain"
)

const sampleSidecar = `Sender: ZDF
Titel: Die Küchenschlacht vom 13. Oktober 2025 (S2025/E187)
URL: https://example.org/episode
Sechs Kandidaten kochen um den Tagessieg. Jurorin Maria Gross verkostet
die Gerichte, moderiert wird die Woche von Johann Lafer.`

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	meta, err := parser.Parse("251013_episode.txt.info", sampleSidecar)
	require.NoError(t, err)

	assert.Equal(t, "2025", meta.Season)
	assert.Equal(t, "187", meta.Episode)
	assert.Equal(t, "2025/187", meta.ID())
	assert.Equal(t, 6, meta.DeclaredCandidates)
	assert.Equal(t, "Maria Gross", meta.Juror.Name)
	assert.Equal(t, domain.GenderFemale, meta.Juror.Gender)
	assert.Equal(t, "Johann Lafer", meta.Moderator.Name)
	assert.Equal(t, time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC), meta.Date)
}

func TestParser_Parse_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		content string
		missing string
	}{
		{
			name:    "no season episode in title",
			path:    "251013_episode.txt.info",
			content: "Titel: Die Küchenschlacht\nURL: x\nSechs Kandidaten. Juror Alex Kumptner.",
			missing: "season/episode",
		},
		{
			name:    "no candidate count",
			path:    "251013_episode.txt.info",
			content: "Titel: Folge (S2025/E1)\nURL: x\nHeute kocht die Runde. Juror Alex Kumptner.",
			missing: "candidate count",
		},
		{
			name:    "no juror",
			path:    "251013_episode.txt.info",
			content: "Titel: Folge (S2025/E1)\nURL: x\nSechs Kandidaten kochen heute.",
			missing: "juror",
		},
		{
			name:    "no date in filename",
			path:    "episode_final.txt.info",
			content: sampleSidecar,
			missing: "date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse(tt.path, tt.content)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMetadataParse))

			var parseErr *domain.MetadataParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, parseErr.Missing, tt.missing)
		})
	}
}

func TestParser_Parse_CandidateCountForms(t *testing.T) {
	tests := []struct {
		name   string
		phrase string
		want   int
	}{
		{name: "cardinal word", phrase: "Fünf Kandidaten treten an", want: 5},
		{name: "digit", phrase: "Heute kochen 4 Kandidaten", want: 4},
		{name: "champions week", phrase: "Zwei Champions im Finale", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "Titel: Folge (S2025/E9)\nURL: x\n" + tt.phrase + ". Juror Alex Kumptner."
			meta, err := NewParser().Parse("251013_x.info", content)
			require.NoError(t, err)
			assert.Equal(t, tt.want, meta.DeclaredCandidates)
		})
	}
}

func TestParser_Parse_MaleJuror(t *testing.T) {
	content := "Titel: Folge (S2025/E9)\nURL: x\nSechs Kandidaten. Juror Alexander Herrmann bewertet."
	meta, err := NewParser().Parse("251013_x.info", content)
	require.NoError(t, err)
	assert.Equal(t, "Alexander Herrmann", meta.Juror.Name)
	assert.Equal(t, domain.GenderMale, meta.Juror.Gender)
}

func TestParser_Parse_ModeratorOptional(t *testing.T) {
	content := "Titel: Folge (S2025/E9)\nURL: x\nSechs Kandidaten kochen. Jurorin Maria Gross verkostet."
	meta, err := NewParser().Parse("251013_x.info", content)
	require.NoError(t, err)
	assert.Empty(t, meta.Moderator.Name)
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		path string
		want time.Time
		ok   bool
	}{
		{
			name: "compact prefix",
			path: "/data/251013_kuechenschlacht.txt",
			want: time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "compact between underscores",
			path: "/data/251013_sendung_1415_dku.txt",
			want: time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "worded german date",
			path: "kuechenschlacht-vom-13-oktober-2025.txt",
			want: time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "dotted date",
			path: "folge_13.10.2025.txt",
			want: time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
			ok:   true,
		},
		{name: "no date", path: "finale.txt", ok: false},
		{name: "implausible compact digits", path: "999999_x.txt", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.path)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

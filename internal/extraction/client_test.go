package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhagen/kitchendata/internal/domain"
	"github.com/mhagen/kitchendata/internal/testutils"
)

const castJSON = `{
	"candidates": [
		{"name": "Anna Müller", "gender": "f", "location": "Hamburg", "profession": "Lehrerin", "dish": "Labskaus"},
		{"name": "Ben Schulz", "gender": "m", "location": "Köln", "profession": "Pfleger", "dish": "Rinderroulade"}
	],
	"juror": "Alexander Herrmann",
	"moderator": "Johann Lafer"
}`

const outcomeJSON = `{
	"tasting_order": ["Ben Schulz", "Anna Müller"],
	"ranking": [
		{"name": "Anna Müller", "rank": 1},
		{"name": "Ben Schulz", "rank": 2}
	]
}`

func testMeta() domain.EpisodeMetadata {
	return domain.EpisodeMetadata{
		Date:               time.Date(2025, time.October, 13, 0, 0, 0, 0, time.UTC),
		Season:             "2025",
		Episode:            "187",
		DeclaredCandidates: 2,
		Juror:              domain.Person{Name: "Alexander Herrmann", Gender: domain.GenderMale},
	}
}

func scriptedClient(castResponse, outcomeResponse string) *testutils.MockLLMClient {
	mock := testutils.NewMockLLMClient("test-model")
	mock.AddResponse(testutils.MockResponse{Pattern: "opening segment", Response: castResponse})
	mock.AddResponse(testutils.MockResponse{Pattern: "closing segment", Response: outcomeResponse})
	return mock
}

func TestClient_Extract(t *testing.T) {
	client, err := NewClient(scriptedClient(castJSON, outcomeJSON), Config{})
	require.NoError(t, err)

	draft, err := client.Extract(context.Background(), testMeta(), "transcript text")
	require.NoError(t, err)

	require.Len(t, draft.Candidates, 2)
	anna := draft.Candidates[0]
	assert.Equal(t, "Anna Müller", anna.Name)
	assert.Equal(t, domain.GenderFemale, anna.Gender)
	assert.Equal(t, "Hamburg", anna.Location)
	assert.Equal(t, "Labskaus", anna.Dish)
	require.NotNil(t, anna.TastingPosition)
	assert.Equal(t, 2, *anna.TastingPosition)
	require.NotNil(t, anna.Ranking)
	assert.Equal(t, 1, *anna.Ranking)

	ben := draft.Candidates[1]
	require.NotNil(t, ben.TastingPosition)
	assert.Equal(t, 1, *ben.TastingPosition)
	require.NotNil(t, ben.Ranking)
	assert.Equal(t, 2, *ben.Ranking)

	assert.Equal(t, "Alexander Herrmann", draft.Juror.Name)
	assert.Equal(t, "Johann Lafer", draft.Moderator.Name)
}

func TestClient_Extract_MarkdownFencedResponse(t *testing.T) {
	fenced := "Here is the result:\n```json\n" + castJSON + "\n```"
	client, err := NewClient(scriptedClient(fenced, outcomeJSON), Config{})
	require.NoError(t, err)

	draft, err := client.Extract(context.Background(), testMeta(), "transcript text")
	require.NoError(t, err)
	assert.Len(t, draft.Candidates, 2)
}

func TestClient_Extract_FuzzyNameMerge(t *testing.T) {
	// The outcome call spells Anna without her last name and with the
	// umlaut written out; both must still merge onto the cast entry.
	outcome := `{"tasting_order": ["Ben Schulz", "Anna"], "ranking": [{"name": "Anna Mueller", "rank": 1}, {"name": "Ben Schulz", "rank": 2}]}`
	client, err := NewClient(scriptedClient(castJSON, outcome), Config{})
	require.NoError(t, err)

	draft, err := client.Extract(context.Background(), testMeta(), "transcript text")
	require.NoError(t, err)

	require.Len(t, draft.Candidates, 2)
	require.NotNil(t, draft.Candidates[0].Ranking)
	assert.Equal(t, 1, *draft.Candidates[0].Ranking)
}

func TestClient_Extract_UnknownOutcomeNameBecomesCandidate(t *testing.T) {
	outcome := `{"tasting_order": ["Clara Weiss"], "ranking": [{"name": "Clara Weiss", "rank": 1}]}`
	client, err := NewClient(scriptedClient(castJSON, outcome), Config{})
	require.NoError(t, err)

	draft, err := client.Extract(context.Background(), testMeta(), "transcript text")
	require.NoError(t, err)

	require.Len(t, draft.Candidates, 3)
	assert.Equal(t, "Clara Weiss", draft.Candidates[2].Name)
}

func TestClient_Extract_SchemaError(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no json", response: "the transcript was unclear, sorry"},
		{name: "malformed json", response: `{"candidates": [`},
		{name: "missing required fields", response: `{"juror": "X"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(scriptedClient(tt.response, outcomeJSON), Config{})
			require.NoError(t, err)

			_, err = client.Extract(context.Background(), testMeta(), "transcript text")
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrExtractionSchema))

			var schemaErr *domain.ExtractionSchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, "cast", schemaErr.Step)
		})
	}
}

func TestClient_Extract_Unavailable(t *testing.T) {
	mock := scriptedClient(castJSON, outcomeJSON)
	mock.FailNext(1, errors.New("connection refused"))
	client, err := NewClient(mock, Config{})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), testMeta(), "transcript text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtractionUnavailable))

	// A plain transport failure counts as a single attempt.
	var unavailErr *domain.ExtractionUnavailableError
	require.ErrorAs(t, err, &unavailErr)
	assert.Equal(t, 1, unavailErr.Attempts)
}

// countedFailure mimics the attempt-counting error a retrying client
// returns after exhausting its budget.
type countedFailure struct{ attempts int }

func (e *countedFailure) Error() string     { return "extraction service unavailable" }
func (e *countedFailure) AttemptCount() int { return e.attempts }

func TestClient_Extract_UnavailableCarriesAttemptCount(t *testing.T) {
	mock := scriptedClient(castJSON, outcomeJSON)
	mock.FailNext(1, &countedFailure{attempts: 3})
	client, err := NewClient(mock, Config{})
	require.NoError(t, err)

	_, err = client.Extract(context.Background(), testMeta(), "transcript text")
	require.Error(t, err)

	var unavailErr *domain.ExtractionUnavailableError
	require.ErrorAs(t, err, &unavailErr)
	assert.Equal(t, 3, unavailErr.Attempts)
}

func TestClient_Extract_TranscriptSlicing(t *testing.T) {
	mock := scriptedClient(castJSON, outcomeJSON)
	client, err := NewClient(mock, Config{HeadChars: 2000, TailChars: 1500})
	require.NoError(t, err)

	long := make([]byte, 10000)
	for i := range long {
		long[i] = 'x'
	}
	_, err = client.Extract(context.Background(), testMeta(), string(long))
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Less(t, len(calls[0]), 4000)
	assert.Less(t, len(calls[1]), 4000)
}

func TestHeadTail_NeverSplitRunes(t *testing.T) {
	s := strings.Repeat("ü", 10)

	h := head(s, 5)
	assert.Equal(t, "üü", h)
	assert.True(t, utf8.ValidString(h))

	tl := tail(s, 5)
	assert.Equal(t, "üü", tl)
	assert.True(t, utf8.ValidString(tl))

	assert.Equal(t, s, head(s, len(s)))
	assert.Equal(t, s, tail(s, len(s)))
	assert.Equal(t, "abc", head("abc", 100))
	assert.Equal(t, "abc", tail("abc", 100))
}

func TestClient_Extract_SlicesOnRuneBoundary(t *testing.T) {
	mock := scriptedClient(castJSON, outcomeJSON)
	client, err := NewClient(mock, Config{HeadChars: 101, TailChars: 101})
	require.NoError(t, err)

	// 100 two-byte runes; a byte cut at 101 would land mid-rune.
	transcript := strings.Repeat("ä", 100)
	_, err = client.Extract(context.Background(), testMeta(), transcript)
	require.NoError(t, err)

	for _, prompt := range mock.Calls() {
		assert.True(t, utf8.ValidString(prompt))
	}
}

func TestNewClient_RequiresLLM(t *testing.T) {
	_, err := NewClient(nil, Config{})
	assert.Error(t, err)
}

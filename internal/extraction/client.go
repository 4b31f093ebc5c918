// Package extraction turns raw transcripts into episode drafts via two
// LLM calls: one over the transcript head for the cast, one over the tail
// for the tasting order and placements. The two responses are merged by
// fuzzy name matching into a single draft.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/mhagen/kitchendata/internal/domain"
	"github.com/mhagen/kitchendata/internal/names"
	"github.com/mhagen/kitchendata/internal/ports"
)

const (
	// DefaultHeadChars bounds the transcript prefix sent to the cast call.
	// The cast is always introduced in the first minutes of an episode.
	DefaultHeadChars = 12000

	// DefaultTailChars bounds the transcript suffix sent to the outcome
	// call. Placements are announced in the final segment.
	DefaultTailChars = 10000

	stepCast    = "cast"
	stepOutcome = "outcome"
)

// Config holds the tunable parts of the extraction client.
type Config struct {
	// HeadChars and TailChars bound the transcript slices per call.
	// Zero selects the defaults.
	HeadChars int `validate:"min=0"`
	TailChars int `validate:"min=0"`

	// Temperature is passed through to the provider. Extraction wants
	// deterministic output, so zero is the sensible setting.
	Temperature float64 `validate:"min=0,max=2"`

	// MaxTokens caps the response length per call.
	MaxTokens int `validate:"min=0"`
}

// Client performs the two-step transcript extraction. It is safe for
// concurrent use; each call owns its own buffers.
type Client struct {
	llm       ports.LLMClient
	validate  *validator.Validate
	config    Config
	castTmpl  *template.Template
	outcoTmpl *template.Template
}

// NewClient builds an extraction client on top of an LLM client. The
// prompt templates are compiled once here so a malformed template fails
// fast at startup.
func NewClient(llm ports.LLMClient, config Config) (*Client, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if config.HeadChars == 0 {
		config.HeadChars = DefaultHeadChars
	}
	if config.TailChars == 0 {
		config.TailChars = DefaultTailChars
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}

	v := validator.New()
	if err := v.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}

	castTmpl, err := template.New("castPrompt").Parse(castPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cast prompt template: %w", err)
	}
	outcoTmpl, err := template.New("outcomePrompt").Parse(outcomePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outcome prompt template: %w", err)
	}

	return &Client{
		llm:       llm,
		validate:  v,
		config:    config,
		castTmpl:  castTmpl,
		outcoTmpl: outcoTmpl,
	}, nil
}

// Extract runs both extraction calls for one episode and merges the
// results into a draft. A transport failure surfaces as
// ExtractionUnavailableError, a malformed response as
// ExtractionSchemaError; both are local to the episode.
func (c *Client) Extract(ctx context.Context, meta domain.EpisodeMetadata, transcript string) (domain.EpisodeDraft, error) {
	expected := meta.ExpectedCandidates()

	cast, err := c.extractCast(ctx, transcript, expected)
	if err != nil {
		return domain.EpisodeDraft{}, err
	}

	outcome, err := c.extractOutcome(ctx, transcript, expected, cast)
	if err != nil {
		return domain.EpisodeDraft{}, err
	}

	return mergeDraft(meta, cast, outcome), nil
}

func (c *Client) extractCast(ctx context.Context, transcript string, expected int) (castResponse, error) {
	prompt, err := c.renderPrompt(c.castTmpl, promptData{
		Transcript:         head(transcript, c.config.HeadChars),
		ExpectedCandidates: expected,
	})
	if err != nil {
		return castResponse{}, err
	}

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return castResponse{}, err
	}

	var resp castResponse
	if err := c.decode(stepCast, raw, &resp); err != nil {
		return castResponse{}, err
	}
	return resp, nil
}

func (c *Client) extractOutcome(ctx context.Context, transcript string, expected int, cast castResponse) (outcomeResponse, error) {
	known := make([]string, len(cast.Candidates))
	for i, cand := range cast.Candidates {
		known[i] = cand.Name
	}

	prompt, err := c.renderPrompt(c.outcoTmpl, promptData{
		Transcript:         tail(transcript, c.config.TailChars),
		ExpectedCandidates: expected,
		Names:              strings.Join(known, ", "),
	})
	if err != nil {
		return outcomeResponse{}, err
	}

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return outcomeResponse{}, err
	}

	var resp outcomeResponse
	if err := c.decode(stepOutcome, raw, &resp); err != nil {
		return outcomeResponse{}, err
	}
	return resp, nil
}

// promptData feeds both prompt templates.
type promptData struct {
	Transcript         string
	ExpectedCandidates int
	Names              string
}

func (c *Client) renderPrompt(tmpl *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	options := map[string]any{
		"temperature":     c.config.Temperature,
		"max_tokens":      c.config.MaxTokens,
		"response_format": map[string]string{"type": "json_object"},
	}
	raw, err := c.llm.Complete(ctx, prompt, options)
	if err != nil {
		return "", &domain.ExtractionUnavailableError{Attempts: attempts(err), Err: err}
	}
	return raw, nil
}

// decode pulls the JSON object out of a possibly chatty response and
// checks it against the schema tags.
func (c *Client) decode(step, raw string, out any) error {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return &domain.ExtractionSchemaError{Step: step, Reason: fmt.Sprintf("no JSON object in response (%d chars)", len(raw))}
	}
	if err := json.Unmarshal([]byte(jsonStr), out); err != nil {
		return &domain.ExtractionSchemaError{Step: step, Reason: "malformed JSON", Err: err}
	}
	if err := c.validate.Struct(out); err != nil {
		return &domain.ExtractionSchemaError{Step: step, Reason: "missing required fields", Err: err}
	}
	return nil
}

// mergeDraft joins the cast and outcome responses into one draft. Order
// and rank attach to cast candidates by fuzzy name match; outcome names
// without a cast entry become bare candidates so the count invariants see
// the full picture.
func mergeDraft(meta domain.EpisodeMetadata, cast castResponse, outcome outcomeResponse) domain.EpisodeDraft {
	draft := domain.EpisodeDraft{
		Metadata:   meta,
		Juror:      domain.Person{Name: strings.TrimSpace(cast.Juror)},
		Moderator:  domain.Person{Name: strings.TrimSpace(cast.Moderator)},
		Candidates: make([]domain.CandidateDraft, 0, len(cast.Candidates)),
	}

	for _, c := range cast.Candidates {
		draft.Candidates = append(draft.Candidates, domain.CandidateDraft{
			Name:       strings.TrimSpace(c.Name),
			Gender:     domain.ParseGender(strings.ToLower(strings.TrimSpace(c.Gender))),
			Location:   strings.TrimSpace(c.Location),
			Profession: strings.TrimSpace(c.Profession),
			Dish:       strings.TrimSpace(c.Dish),
		})
	}

	for pos, name := range outcome.TastingOrder {
		position := pos + 1
		idx := findCandidate(draft.Candidates, name)
		if idx < 0 {
			draft.Candidates = append(draft.Candidates, domain.CandidateDraft{Name: strings.TrimSpace(name)})
			idx = len(draft.Candidates) - 1
		}
		if draft.Candidates[idx].TastingPosition == nil {
			draft.Candidates[idx].TastingPosition = &position
		}
	}

	for _, r := range outcome.Ranking {
		rank := r.Rank
		idx := findCandidate(draft.Candidates, r.Name)
		if idx < 0 {
			draft.Candidates = append(draft.Candidates, domain.CandidateDraft{Name: strings.TrimSpace(r.Name)})
			idx = len(draft.Candidates) - 1
		}
		if draft.Candidates[idx].Ranking == nil {
			draft.Candidates[idx].Ranking = &rank
		}
	}

	return draft
}

func findCandidate(candidates []domain.CandidateDraft, name string) int {
	for i, c := range candidates {
		if names.Similar(c.Name, name) {
			return i
		}
	}
	return -1
}

// attempts reads the attempt count a retrying client recorded on the
// failure. Errors from a non-retrying client count as one attempt.
func attempts(err error) int {
	var a interface{ AttemptCount() int }
	if errors.As(err, &a) {
		return a.AttemptCount()
	}
	return 1
}

// head returns at most n bytes from the start of s, backing off to a
// rune boundary so a multi-byte character is never split.
func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// tail returns at most n bytes from the end of s, advancing to a rune
// boundary so a multi-byte character is never split.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

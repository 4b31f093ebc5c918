// Package domain defines the core episode data model shared by every stage
// of the extraction pipeline: drafts produced by the LLM extraction step,
// immutable records produced by validation, and the rejection type retained
// for audit.
package domain

import "time"

// Gender is the fixed two-valued gender domain used across the dataset.
// Absence is represented explicitly with GenderUnknown and is never coerced
// to a default.
type Gender string

const (
	// GenderFemale marks a female candidate, juror, or moderator.
	GenderFemale Gender = "f"
	// GenderMale marks a male candidate, juror, or moderator.
	GenderMale Gender = "m"
	// GenderUnknown marks an explicitly missing gender.
	GenderUnknown Gender = ""
)

// ParseGender folds the gender tokens seen in metadata and LLM responses
// into the canonical domain. Unrecognized tokens map to GenderUnknown.
func ParseGender(token string) Gender {
	switch token {
	case "f", "w", "female", "weiblich", "woman":
		return GenderFemale
	case "m", "male", "männlich", "man":
		return GenderMale
	default:
		return GenderUnknown
	}
}

// Known reports whether g carries a value.
func (g Gender) Known() bool { return g == GenderFemale || g == GenderMale }

// Person is a named participant with an optionally-known gender.
type Person struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// EpisodeMetadata is the structured header parsed from the per-episode
// sidecar file. It is parsed once, is immutable afterwards, and serves as
// the source of truth for cross-checks against the extracted draft.
type EpisodeMetadata struct {
	// Date is the air date, derived from the episode file name.
	Date time.Time `json:"date"`

	// Season and Episode identify the episode within the corpus.
	Season  string `json:"season"`
	Episode string `json:"episode"`

	// Title is the raw title line from the sidecar file.
	Title string `json:"title"`

	// DeclaredCandidates is the candidate count announced in the sidecar
	// description. Zero means the sidecar did not declare a count.
	DeclaredCandidates int `json:"declared_candidates"`

	// Juror and Moderator are the personnel named in the sidecar.
	// Either may be empty when the free text does not mention them.
	Juror     Person `json:"juror"`
	Moderator Person `json:"moderator"`
}

// ID returns a stable episode identifier of the form "season/episode".
func (m EpisodeMetadata) ID() string { return m.Season + "/" + m.Episode }

// ExpectedCandidates returns the candidate count the extraction step should
// anticipate. The declared sidecar count wins; when the sidecar is silent
// the show's weekday format applies, with whole weeks of six down to the
// Friday final of two.
func (m EpisodeMetadata) ExpectedCandidates() int {
	if m.DeclaredCandidates > 0 {
		return m.DeclaredCandidates
	}
	switch m.Date.Weekday() {
	case time.Monday:
		return 6
	case time.Tuesday:
		return 5
	case time.Wednesday:
		return 4
	case time.Thursday:
		return 3
	case time.Friday:
		return 2
	default:
		return 5
	}
}

// CandidateDraft is one contestant as extracted from the transcript.
// TastingPosition and Ranking stay nil until the extraction step (or a
// validator repair) fills them in.
type CandidateDraft struct {
	Name       string `json:"name"`
	Gender     Gender `json:"gender"`
	Location   string `json:"location"`
	Profession string `json:"profession"`
	Dish       string `json:"dish"`

	// TastingPosition is the 1-based order in which the juror tasted
	// this candidate's dish.
	TastingPosition *int `json:"tasting_position"`

	// Ranking is the final placement: 1 = winner, N = eliminated.
	Ranking *int `json:"ranking"`
}

// EpisodeDraft is a not-yet-validated episode produced by the extraction
// step. A draft is owned exclusively by the pipeline worker processing its
// episode and is mutable only during validation and repair.
type EpisodeDraft struct {
	Metadata   EpisodeMetadata  `json:"metadata"`
	Juror      Person           `json:"juror"`
	Moderator  Person           `json:"moderator"`
	Candidates []CandidateDraft `json:"candidates"`
}

// Clone returns a deep copy of the draft so repairs never alias the
// caller's candidate slice.
func (d EpisodeDraft) Clone() EpisodeDraft {
	out := d
	out.Candidates = make([]CandidateDraft, len(d.Candidates))
	for i, c := range d.Candidates {
		cc := c
		if c.TastingPosition != nil {
			v := *c.TastingPosition
			cc.TastingPosition = &v
		}
		if c.Ranking != nil {
			v := *c.Ranking
			cc.Ranking = &v
		}
		out.Candidates[i] = cc
	}
	return out
}

// QualityFlags records non-fatal findings stamped onto a record during
// reconciliation and assembly. Discrepancies are flagged rather than
// silently corrected because the sidecar free text is itself unreliable.
type QualityFlags struct {
	// CountMismatch is set when the extracted candidate count differs
	// from the declared count in the metadata.
	CountMismatch bool `json:"count_mismatch"`

	// JurorMismatch is set when the extracted juror name does not match
	// the metadata juror name under normalized comparison.
	JurorMismatch bool `json:"juror_mismatch"`

	// RepairsApplied describes validator repairs, one entry per repair.
	RepairsApplied []string `json:"repairs_applied,omitempty"`
}

// Clean reports whether no discrepancy flag is set and no repair was needed.
func (q QualityFlags) Clean() bool {
	return !q.CountMismatch && !q.JurorMismatch && len(q.RepairsApplied) == 0
}

// EpisodeRecord is a validated, reconciled, immutable episode. It is the
// only shape DatasetBuilder accepts. Construction goes through the
// assembler; nothing mutates a record afterwards.
type EpisodeRecord struct {
	Metadata   EpisodeMetadata  `json:"metadata"`
	Juror      Person           `json:"juror"`
	Moderator  Person           `json:"moderator"`
	Candidates []CandidateDraft `json:"candidates"`
	Flags      QualityFlags     `json:"flags"`
}

// NumCandidates returns the candidate count of the record.
func (r EpisodeRecord) NumCandidates() int { return len(r.Candidates) }

// RejectedEpisode is the terminal shape for an episode that failed any
// pipeline stage. It is retained for the skip manifest and never enters
// the dataset.
type RejectedEpisode struct {
	Metadata EpisodeMetadata `json:"metadata"`

	// Stage names the pipeline stage that rejected the episode
	// (metadata, extraction, validation).
	Stage string `json:"stage"`

	// Reasons lists the structured failure reasons, sufficient for audit
	// without re-reading the transcript.
	Reasons []string `json:"reasons"`
}

// Package dataset turns accepted episode records into the two tabular
// views consumers work with: one row per candidate and one row per
// episode. Building is deterministic so repeated runs over the same
// record set produce byte-identical output.
package dataset

import (
	"sort"
	"time"

	"github.com/mhagen/kitchendata/internal/domain"
)

// CandidateRow is one candidate with its episode's shared attributes
// joined in.
type CandidateRow struct {
	Date    time.Time
	Season  string
	Episode string

	Name       string
	Gender     domain.Gender
	Location   string
	Profession string
	Dish       string

	TastingPosition int
	Ranking         int
	Winner          bool
	Eliminated      bool

	JurorName       string
	JurorGender     domain.Gender
	ModeratorName   string
	ModeratorGender domain.Gender

	CountMismatch  bool
	JurorMismatch  bool
	RepairsApplied int
}

// EpisodeID returns the "season/episode" identifier of the row's episode.
func (r CandidateRow) EpisodeID() string { return r.Season + "/" + r.Episode }

// EpisodeRow aggregates one episode.
type EpisodeRow struct {
	Date    time.Time
	Weekday string
	Season  string
	Episode string

	NumCandidates   int
	NumFemale       int
	ShareFemale     float64
	JurorName       string
	JurorFemale     bool
	ModeratorName   string
	ModeratorFemale bool

	FemaleWinner     bool
	FemaleEliminated bool

	// Positional outcome flags for order-effect analysis: whether the
	// winner or the eliminated candidate was tasted first or last.
	WinnerTastedFirst     bool
	WinnerTastedLast      bool
	EliminatedTastedFirst bool
	EliminatedTastedLast  bool

	CountMismatch bool
	JurorMismatch bool
}

// ID returns the "season/episode" identifier.
func (r EpisodeRow) ID() string { return r.Season + "/" + r.Episode }

// Dataset is the pair of accumulated views. Once handed to a consumer it
// is never mutated in place; the cleaner returns a fresh copy.
type Dataset struct {
	Candidates []CandidateRow
	Episodes   []EpisodeRow
}

// Builder accumulates accepted records for one run. Not safe for
// concurrent use; the pipeline adds records after its join barrier.
type Builder struct {
	records []domain.EpisodeRecord
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder { return &Builder{} }

// Add stores one accepted record.
func (b *Builder) Add(record domain.EpisodeRecord) {
	b.records = append(b.records, record)
}

// Len returns the number of accumulated records.
func (b *Builder) Len() int { return len(b.records) }

// Build derives both views. Episodes are ordered by date, then season and
// episode id; candidates within an episode are ordered by tasting
// position so row order carries the tasting sequence.
func (b *Builder) Build() Dataset {
	records := make([]domain.EpisodeRecord, len(b.records))
	copy(records, b.records)

	sort.SliceStable(records, func(i, j int) bool {
		mi, mj := records[i].Metadata, records[j].Metadata
		if !mi.Date.Equal(mj.Date) {
			return mi.Date.Before(mj.Date)
		}
		if mi.Season != mj.Season {
			return mi.Season < mj.Season
		}
		return mi.Episode < mj.Episode
	})

	var ds Dataset
	for _, rec := range records {
		ds.Episodes = append(ds.Episodes, buildEpisodeRow(rec))
		ds.Candidates = append(ds.Candidates, buildCandidateRows(rec)...)
	}
	return ds
}

func buildCandidateRows(rec domain.EpisodeRecord) []CandidateRow {
	candidates := make([]domain.CandidateDraft, len(rec.Candidates))
	copy(candidates, rec.Candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return deref(candidates[i].TastingPosition) < deref(candidates[j].TastingPosition)
	})

	n := len(candidates)
	rows := make([]CandidateRow, 0, n)
	for _, c := range candidates {
		ranking := deref(c.Ranking)
		rows = append(rows, CandidateRow{
			Date:            rec.Metadata.Date,
			Season:          rec.Metadata.Season,
			Episode:         rec.Metadata.Episode,
			Name:            c.Name,
			Gender:          c.Gender,
			Location:        c.Location,
			Profession:      c.Profession,
			Dish:            c.Dish,
			TastingPosition: deref(c.TastingPosition),
			Ranking:         ranking,
			Winner:          ranking == 1,
			Eliminated:      n > 1 && ranking == n,
			JurorName:       rec.Juror.Name,
			JurorGender:     rec.Juror.Gender,
			ModeratorName:   rec.Moderator.Name,
			ModeratorGender: rec.Moderator.Gender,
			CountMismatch:   rec.Flags.CountMismatch,
			JurorMismatch:   rec.Flags.JurorMismatch,
			RepairsApplied:  len(rec.Flags.RepairsApplied),
		})
	}
	return rows
}

func buildEpisodeRow(rec domain.EpisodeRecord) EpisodeRow {
	n := rec.NumCandidates()
	row := EpisodeRow{
		Date:            rec.Metadata.Date,
		Weekday:         rec.Metadata.Date.Weekday().String(),
		Season:          rec.Metadata.Season,
		Episode:         rec.Metadata.Episode,
		NumCandidates:   n,
		JurorName:       rec.Juror.Name,
		JurorFemale:     rec.Juror.Gender == domain.GenderFemale,
		ModeratorName:   rec.Moderator.Name,
		ModeratorFemale: rec.Moderator.Gender == domain.GenderFemale,
		CountMismatch:   rec.Flags.CountMismatch,
		JurorMismatch:   rec.Flags.JurorMismatch,
	}

	for _, c := range rec.Candidates {
		if c.Gender == domain.GenderFemale {
			row.NumFemale++
		}
		ranking := deref(c.Ranking)
		position := deref(c.TastingPosition)
		if ranking == 1 {
			row.FemaleWinner = c.Gender == domain.GenderFemale
			row.WinnerTastedFirst = position == 1
			row.WinnerTastedLast = position == n
		}
		if n > 1 && ranking == n {
			row.FemaleEliminated = c.Gender == domain.GenderFemale
			row.EliminatedTastedFirst = position == 1
			row.EliminatedTastedLast = position == n
		}
	}
	if n > 0 {
		row.ShareFemale = float64(row.NumFemale) / float64(n)
	}
	return row
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

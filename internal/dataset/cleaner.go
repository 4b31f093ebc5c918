package dataset

import (
	"strings"

	"github.com/mhagen/kitchendata/internal/domain"
	"github.com/mhagen/kitchendata/internal/names"
)

// Cleaner is the post-hoc pass over a built dataset: canonical types,
// deduplication, and recomputed derived columns. Clean is idempotent, so
// re-running it over its own output changes nothing.
type Cleaner struct{}

// NewCleaner returns a cleaner.
func NewCleaner() *Cleaner { return &Cleaner{} }

// Clean returns a cleaned copy of the dataset. The input is not mutated.
func (c *Cleaner) Clean(ds Dataset) Dataset {
	out := Dataset{
		Candidates: make([]CandidateRow, 0, len(ds.Candidates)),
		Episodes:   make([]EpisodeRow, len(ds.Episodes)),
	}
	copy(out.Episodes, ds.Episodes)

	// Trim free-text fields and fold stray gender tokens, then drop
	// exact duplicates (same episode and normalized name, first wins).
	seen := make(map[string]struct{}, len(ds.Candidates))
	for _, row := range ds.Candidates {
		row = trimCandidate(row)
		key := row.EpisodeID() + "\x00" + names.Normalize(row.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Candidates = append(out.Candidates, row)
	}

	recomputeDerived(&out)
	fillModeratorWithinWeek(&out)
	return out
}

func trimCandidate(row CandidateRow) CandidateRow {
	row.Name = strings.TrimSpace(row.Name)
	row.Location = strings.TrimSpace(row.Location)
	row.Profession = strings.TrimSpace(row.Profession)
	row.Dish = strings.TrimSpace(row.Dish)
	row.JurorName = strings.TrimSpace(row.JurorName)
	row.ModeratorName = strings.TrimSpace(row.ModeratorName)
	row.Gender = domain.ParseGender(string(row.Gender))
	row.JurorGender = domain.ParseGender(string(row.JurorGender))
	row.ModeratorGender = domain.ParseGender(string(row.ModeratorGender))
	return row
}

// recomputeDerived rebuilds every derived column from the surviving
// candidate rows. Deduplication can change an episode's candidate set, so
// the per-episode aggregates are recomputed rather than trusted.
func recomputeDerived(ds *Dataset) {
	type episodeStats struct {
		n           int
		maxRank     int
		maxPosition int
	}
	stats := make(map[string]*episodeStats, len(ds.Episodes))
	for _, row := range ds.Candidates {
		s := stats[row.EpisodeID()]
		if s == nil {
			s = &episodeStats{}
			stats[row.EpisodeID()] = s
		}
		s.n++
		if row.Ranking > s.maxRank {
			s.maxRank = row.Ranking
		}
		if row.TastingPosition > s.maxPosition {
			s.maxPosition = row.TastingPosition
		}
	}

	for i, row := range ds.Candidates {
		s := stats[row.EpisodeID()]
		ds.Candidates[i].Winner = row.Ranking == 1
		ds.Candidates[i].Eliminated = s.n > 1 && row.Ranking == s.maxRank
	}

	for i := range ds.Episodes {
		ep := &ds.Episodes[i]
		s := stats[ep.ID()]
		if s == nil {
			continue
		}
		ep.NumCandidates = s.n
		ep.NumFemale = 0
		ep.FemaleWinner = false
		ep.FemaleEliminated = false
		ep.WinnerTastedFirst = false
		ep.WinnerTastedLast = false
		ep.EliminatedTastedFirst = false
		ep.EliminatedTastedLast = false
		for _, row := range ds.Candidates {
			if row.EpisodeID() != ep.ID() {
				continue
			}
			if row.Gender == domain.GenderFemale {
				ep.NumFemale++
			}
			if row.Winner {
				ep.FemaleWinner = row.Gender == domain.GenderFemale
				ep.WinnerTastedFirst = row.TastingPosition == 1
				ep.WinnerTastedLast = row.TastingPosition == s.maxPosition
			}
			if row.Eliminated {
				ep.FemaleEliminated = row.Gender == domain.GenderFemale
				ep.EliminatedTastedFirst = row.TastingPosition == 1
				ep.EliminatedTastedLast = row.TastingPosition == s.maxPosition
			}
		}
		if s.n > 0 {
			ep.ShareFemale = float64(ep.NumFemale) / float64(s.n)
		} else {
			ep.ShareFemale = 0
		}
	}
}

// fillModeratorWithinWeek propagates a known moderator to episodes of the
// same broadcast week that lack one. The show keeps a single moderator per
// week, so a sidecar that never names the moderator can borrow it from a
// neighboring weekday.
func fillModeratorWithinWeek(ds *Dataset) {
	type weekKey struct {
		year int
		week int
	}
	moderators := make(map[weekKey]EpisodeRow)
	for _, ep := range ds.Episodes {
		if ep.ModeratorName == "" {
			continue
		}
		year, week := ep.Date.ISOWeek()
		key := weekKey{year, week}
		if _, ok := moderators[key]; !ok {
			moderators[key] = ep
		}
	}

	for i := range ds.Episodes {
		ep := &ds.Episodes[i]
		if ep.ModeratorName != "" {
			continue
		}
		year, week := ep.Date.ISOWeek()
		if donor, ok := moderators[weekKey{year, week}]; ok {
			ep.ModeratorName = donor.ModeratorName
			ep.ModeratorFemale = donor.ModeratorFemale
		}
	}

	// Candidate rows mirror their episode's moderator.
	byID := make(map[string]EpisodeRow, len(ds.Episodes))
	for _, ep := range ds.Episodes {
		byID[ep.ID()] = ep
	}
	for i, row := range ds.Candidates {
		if row.ModeratorName != "" {
			continue
		}
		if ep, ok := byID[row.EpisodeID()]; ok && ep.ModeratorName != "" {
			ds.Candidates[i].ModeratorName = ep.ModeratorName
			if ep.ModeratorFemale {
				ds.Candidates[i].ModeratorGender = domain.GenderFemale
			}
		}
	}
}

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mhagen/kitchendata/internal/domain"
)

const dateLayout = "2006-01-02"

var candidateHeader = []string{
	"date", "season", "episode",
	"name", "gender", "location", "profession", "dish",
	"tasting_position", "ranking", "winner", "eliminated",
	"juror_name", "juror_gender", "moderator_name", "moderator_gender",
	"count_mismatch", "juror_mismatch", "repairs_applied",
}

var episodeHeader = []string{
	"date", "weekday", "season", "episode",
	"num_candidates", "num_female", "share_female",
	"juror_name", "juror_female", "moderator_name", "moderator_female",
	"female_winner", "female_eliminated",
	"winner_tasted_first", "winner_tasted_last",
	"eliminated_tasted_first", "eliminated_tasted_last",
	"count_mismatch", "juror_mismatch",
}

var skippedHeader = []string{"episode_id", "date", "stage", "reasons"}

// WriteCandidates writes the candidate-level view as CSV.
func WriteCandidates(w io.Writer, rows []CandidateRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(candidateHeader); err != nil {
		return fmt.Errorf("failed to write candidate header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			formatDate(r.Date), r.Season, r.Episode,
			r.Name, string(r.Gender), r.Location, r.Profession, r.Dish,
			strconv.Itoa(r.TastingPosition), strconv.Itoa(r.Ranking),
			formatBool(r.Winner), formatBool(r.Eliminated),
			r.JurorName, string(r.JurorGender), r.ModeratorName, string(r.ModeratorGender),
			formatBool(r.CountMismatch), formatBool(r.JurorMismatch), strconv.Itoa(r.RepairsApplied),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write candidate row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEpisodes writes the episode-level view as CSV.
func WriteEpisodes(w io.Writer, rows []EpisodeRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(episodeHeader); err != nil {
		return fmt.Errorf("failed to write episode header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			formatDate(r.Date), r.Weekday, r.Season, r.Episode,
			strconv.Itoa(r.NumCandidates), strconv.Itoa(r.NumFemale),
			strconv.FormatFloat(r.ShareFemale, 'f', 4, 64),
			r.JurorName, formatBool(r.JurorFemale), r.ModeratorName, formatBool(r.ModeratorFemale),
			formatBool(r.FemaleWinner), formatBool(r.FemaleEliminated),
			formatBool(r.WinnerTastedFirst), formatBool(r.WinnerTastedLast),
			formatBool(r.EliminatedTastedFirst), formatBool(r.EliminatedTastedLast),
			formatBool(r.CountMismatch), formatBool(r.JurorMismatch),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write episode row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSkipped writes the skip manifest as CSV, one row per rejected
// episode with its stage and semicolon-joined reasons.
func WriteSkipped(w io.Writer, rejected []domain.RejectedEpisode) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(skippedHeader); err != nil {
		return fmt.Errorf("failed to write skip manifest header: %w", err)
	}
	for _, r := range rejected {
		record := []string{
			r.Metadata.ID(),
			formatDate(r.Metadata.Date),
			r.Stage,
			joinReasons(r.Reasons),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write skip manifest row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}

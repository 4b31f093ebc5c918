// Package metadata parses the per-episode sidecar files that accompany the
// transcripts. The sidecars are loosely structured free text with a few
// recognizable key lines: a title containing the season/episode id, a
// description naming the candidate count as a cardinal number, and a
// "Juror <name>" phrase.
package metadata

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mhagen/kitchendata/internal/domain"
)

var (
	titleRe         = regexp.MustCompile(`(?m)^Titel:\s*(.+)$`)
	seasonEpisodeRe = regexp.MustCompile(`\(S(\d{4})[/_]E(\d+)\)`)
	jurorRe         = regexp.MustCompile(`(Juror(?:in)?)\s+([A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß-]+)*)`)
	candidateWordRe = regexp.MustCompile(`(ein|eine|zwei|drei|vier|fünf|fuenf|sechs|sieben|acht|neun|zehn)\s+(?:kandidat|champion)`)
	candidateNumRe  = regexp.MustCompile(`(\d+)\s+(?:kandidat|champion)`)
	nameRe          = regexp.MustCompile(`\b([A-ZÄÖÜ][a-zäöüß]+)\s+([A-ZÄÖÜ][a-zäöüß-]+)\b`)
)

// cardinals maps the German number words used in episode descriptions.
var cardinals = map[string]int{
	"ein": 1, "eine": 1,
	"zwei": 2, "drei": 3, "vier": 4,
	"fünf": 5, "fuenf": 5,
	"sechs": 6, "sieben": 7, "acht": 8, "neun": 9, "zehn": 10,
}

// nameBlacklist holds capitalized words that must not be mistaken for a
// moderator name during the free-text scan.
var nameBlacklist = map[string]struct{}{
	"kandidaten": {}, "kandidat": {}, "champions": {}, "champion": {},
	"sechs": {}, "fünf": {}, "fuenf": {}, "vier": {}, "drei": {},
	"sieben": {}, "acht": {}, "neun": {}, "zehn": {}, "ein": {}, "eine": {}, "zwei": {},
	"ihre": {}, "anschließend": {}, "von": {}, "die": {}, "der": {}, "das": {},
	"juror": {}, "jurorin": {}, "moderator": {}, "verkostet": {},
	"bewertet": {}, "werden": {}, "präsentieren": {}, "tagesmotto": {},
}

// Parser extracts an EpisodeMetadata header from sidecar text. It is
// stateless and safe for concurrent use.
type Parser struct{}

// NewParser returns a sidecar parser.
func NewParser() *Parser { return &Parser{} }

// Parse reads a sidecar file's content and returns the structured episode
// header. Path is the sidecar file name; the air date is derived from it.
// Season/episode id, declared candidate count, juror name, and date are
// required; any that cannot be located produce a MetadataParseError. The
// moderator is optional because many sidecars never name one.
func (p *Parser) Parse(path, content string) (domain.EpisodeMetadata, error) {
	meta := domain.EpisodeMetadata{}
	var missing []string

	if date, ok := ExtractDate(path); ok {
		meta.Date = date
	} else {
		missing = append(missing, "date")
	}

	if m := titleRe.FindStringSubmatch(content); m != nil {
		meta.Title = strings.TrimSpace(m[1])
	}
	if m := seasonEpisodeRe.FindStringSubmatch(meta.Title); m != nil {
		meta.Season = m[1]
		meta.Episode = m[2]
	} else {
		missing = append(missing, "season/episode")
	}

	description := extractDescription(content)

	if n, ok := parseCandidateCount(description); ok {
		meta.DeclaredCandidates = n
	} else {
		missing = append(missing, "candidate count")
	}

	if m := jurorRe.FindStringSubmatch(description); m != nil {
		meta.Juror.Name = m[2]
		if m[1] == "Jurorin" {
			meta.Juror.Gender = domain.GenderFemale
		} else {
			meta.Juror.Gender = domain.GenderMale
		}
	} else {
		missing = append(missing, "juror")
	}

	meta.Moderator = findModerator(description, meta.Juror.Name)

	if len(missing) > 0 {
		return domain.EpisodeMetadata{}, &domain.MetadataParseError{Path: path, Missing: missing}
	}
	return meta, nil
}

// extractDescription joins the lines following the URL line. Episode
// descriptions always follow the link in the sidecar layout.
func extractDescription(content string) string {
	var (
		started bool
		parts   []string
	)
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "URL") || strings.Contains(line, "http") {
			started = true
			continue
		}
		if started {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
	}
	return strings.Join(parts, " ")
}

// parseCandidateCount finds the declared candidate count, trying the
// cardinal-word form before the digit form.
func parseCandidateCount(description string) (int, bool) {
	lower := strings.ToLower(description)

	if m := candidateWordRe.FindStringSubmatch(lower); m != nil {
		if n, ok := cardinals[m[1]]; ok {
			return n, true
		}
	}
	if m := candidateNumRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}

// findModerator scans for a capitalized first/last name pair that is
// neither the juror nor a blacklisted word. The juror name is masked out
// first so a "Juror Anna Müller" phrase cannot shadow the moderator.
func findModerator(description, jurorName string) domain.Person {
	masked := description
	for _, part := range strings.Fields(jurorName) {
		if len(part) > 3 {
			masked = strings.ReplaceAll(masked, part, "[JUROR]")
		}
	}

	for _, m := range nameRe.FindAllStringSubmatch(masked, -1) {
		first, last := m[1], m[2]
		if first == "[JUROR]" || last == "[JUROR]" {
			continue
		}
		if _, ok := nameBlacklist[strings.ToLower(first)]; ok {
			continue
		}
		if _, ok := nameBlacklist[strings.ToLower(last)]; ok {
			continue
		}
		// Gender is not derivable from the free text here; the
		// cleaner may fill it from neighboring episodes.
		return domain.Person{Name: first + " " + last, Gender: domain.GenderUnknown}
	}
	return domain.Person{}
}

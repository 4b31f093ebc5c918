// Package names provides normalized person-name comparison. Transcript
// spellings drift between the metadata and the LLM output (umlauts written
// out, missing last names, case changes), so all cross-source matching
// goes through the same normalization and similarity rules.
package names

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/unicode/norm"
)

// deaccent strips combining marks after NFD decomposition, turning
// "Müller" into "Muller" so both spellings compare equal.
var deaccent = runes.Remove(runes.In(unicode.Mn))

var caseFolder = cases.Fold()

// Normalize lowercases a name, strips diacritics, and collapses interior
// whitespace. The result is only for comparison, never for display.
func Normalize(name string) string {
	folded := caseFolder.String(name)
	folded = deaccent.String(norm.NFD.String(folded))
	return strings.Join(strings.Fields(folded), " ")
}

// Similar reports whether two names refer to the same person. Exact
// normalized equality, first-token equality (transcripts often drop the
// last name), and a small edit distance all count as a match.
func Similar(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if firstToken(na) == firstToken(nb) {
		return true
	}
	return levenshtein.ComputeDistance(na, nb) <= maxEditDistance(na, nb)
}

// maxEditDistance scales the tolerated edit distance with name length so
// short names stay strict.
func maxEditDistance(a, b string) int {
	shorter := len(a)
	if len(b) < shorter {
		shorter = len(b)
	}
	if shorter <= 4 {
		return 0
	}
	if shorter <= 8 {
		return 1
	}
	return 2
}

func firstToken(s string) string {
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

package metadata

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// No boundary anchors: underscores count as word characters, and the
	// archive's compact form sits between underscores (251013_sendung_...).
	compactDateRe = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})`)
	dottedDateRe  = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	wordedDateRe  = regexp.MustCompile(`(\d{1,2})-([a-zäöü]+)-(\d{4})`)
)

// germanMonths maps lowercase German month names to month numbers.
var germanMonths = map[string]time.Month{
	"januar": time.January, "februar": time.February, "märz": time.March,
	"maerz": time.March, "april": time.April, "mai": time.May,
	"juni": time.June, "juli": time.July, "august": time.August,
	"september": time.September, "oktober": time.October,
	"november": time.November, "dezember": time.December,
}

// ExtractDate derives the air date from an episode file name. Three naming
// conventions appear in the archive: a compact YYMMDD prefix, a worded
// "13-oktober-2025" slug, and a dotted DD.MM.YYYY form.
func ExtractDate(path string) (time.Time, bool) {
	name := strings.ToLower(filepath.Base(path))

	if m := wordedDateRe.FindStringSubmatch(name); m != nil {
		if month, ok := germanMonths[m[2]]; ok {
			day := atoi(m[1])
			year := atoi(m[3])
			if valid(year, int(month), day) {
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	if m := dottedDateRe.FindStringSubmatch(name); m != nil {
		day, month, year := atoi(m[1]), atoi(m[2]), atoi(m[3])
		if valid(year, month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := compactDateRe.FindStringSubmatch(name); m != nil {
		// Two-digit years are all post-2000 in this archive.
		year, month, day := 2000+atoi(m[1]), atoi(m[2]), atoi(m[3])
		if valid(year, month, day) {
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

func valid(year, month, day int) bool {
	return year >= 2000 && year <= 2100 &&
		month >= 1 && month <= 12 &&
		day >= 1 && day <= 31
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

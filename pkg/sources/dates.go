package sources

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
	"02/01/2006",
	"2/1/2006",
}

var italianMonths = map[string]time.Month{
	"gennaio": time.January, "gen": time.January,
	"febbraio": time.February, "feb": time.February,
	"marzo": time.March, "mar": time.March,
	"aprile": time.April, "apr": time.April,
	"maggio": time.May, "mag": time.May,
	"giugno": time.June, "giu": time.June,
	"luglio": time.July, "lug": time.July,
	"agosto": time.August, "ago": time.August,
	"settembre": time.September, "set": time.September,
	"ottobre": time.October, "ott": time.October,
	"novembre": time.November, "nov": time.November,
	"dicembre": time.December, "dic": time.December,
}

var longDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+([a-zà-ù]+)\.?\s+(\d{4})`)

// parseDate understands ISO timestamps and Italian long dates ("8 marzo 2019").
// The calendar day is kept as written; the result is that day at UTC midnight.
func parseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dayOf(t), true
		}
	}

	m := longDatePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := italianMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

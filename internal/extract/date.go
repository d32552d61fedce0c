package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relEnRe = regexp.MustCompile(`(?i)\b(\d+)\s+(second|minute|hour|day|week|month|year)s?\s+ago\b`)
	relHeRe = regexp.MustCompile(`(?:לפני)\s+(\d+)\s+(שניות|שניה|דקות|דקה|שעות|שעה|ימים|יום|שבועות|שבוע|חודשים|חודש|שנים|שנה)`)
)

// hebrewUnits maps Hebrew time-unit words to their English base unit.
var hebrewUnits = map[string]string{
	"שניה": "second", "שניות": "second",
	"דקה": "minute", "דקות": "minute",
	"שעה": "hour", "שעות": "hour",
	"יום": "day", "ימים": "day",
	"שבוע": "week", "שבועות": "week",
	"חודש": "month", "חודשים": "month",
	"שנה": "year", "שנים": "year",
}

// unitDuration approximates one unit of relative time. Months and years
// are fixed at 30 and 365 days; postings never need better.
func unitDuration(unit string) time.Duration {
	if base, ok := hebrewUnits[unit]; ok {
		unit = base
	}
	switch strings.ToLower(unit) {
	case "second":
		return time.Second
	case "minute":
		return time.Minute
	case "hour":
		return time.Hour
	case "week":
		return 7 * 24 * time.Hour
	case "month":
		return 30 * 24 * time.Hour
	case "year":
		return 365 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// ResolveDate normalizes a raw posting-date string to a UTC instant with
// sub-second precision dropped. The cascade: absolute RFC 3339 timestamp,
// bare calendar date, bilingual today/yesterday, bilingual "N units ago".
// Returns the zero time when nothing parses.
func ResolveDate(raw string, now time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Truncate(time.Second)
	}
	// RFC 3339 without zone offset, as some boards emit.
	if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
		return t.UTC().Truncate(time.Second)
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC()
	}

	return ResolveRelativeDate(raw, now)
}

// ResolveRelativeDate parses only the human relative-phrase forms
// ("today", "3 days ago", "לפני שבוע"). Zero time when nothing matches.
func ResolveRelativeDate(raw string, now time.Time) time.Time {
	t := strings.ToLower(strings.TrimSpace(raw))
	if t == "" {
		return time.Time{}
	}
	now = now.UTC().Truncate(time.Second)

	if strings.Contains(t, "today") || strings.Contains(t, "היום") {
		return now
	}
	if strings.Contains(t, "yesterday") || strings.Contains(t, "אתמול") {
		return now.Add(-24 * time.Hour)
	}

	if m := relEnRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * unitDuration(m[2]))
	}
	if m := relHeRe.FindStringSubmatch(raw); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * unitDuration(m[2]))
	}

	return time.Time{}
}

package extract

import (
	"regexp"
	"strconv"
)

// Two independent bilingual pattern families for years-of-experience
// mentions. Every matched integer is collected; the result is the minimum,
// on the theory that the lowest stated bar is the practical entry
// threshold when a posting quotes several figures.
var (
	yearsEnRe = regexp.MustCompile(`(?i)(?:at least\s*(\d{1,2})\s*\+?\s*years?|(\d{1,2})\s*\+?\s*years?(?:\sof\s(?:relevant|professional)\s+experience)?|(\d{1,2})\s*\+\s*years?)`)
	yearsHeRe = regexp.MustCompile(`(?:לפחות\s*(\d{1,2})\s*\+?\s*(?:שנה|שנים|שנות)\s*ניסיון|(\d{1,2})\s*\+?\s*(?:שנה|שנים|שנות)\s*ניסיון)`)
)

// Years extracts the minimum years-of-experience figure mentioned in the
// text across both language families. Nil when no pattern matches; a
// posting that states no requirement is unknown, not zero.
func Years(text string) *float64 {
	if text == "" {
		return nil
	}

	var vals []int
	for _, m := range yearsEnRe.FindAllStringSubmatch(text, -1) {
		vals = append(vals, firstGroupInt(m))
	}
	for _, m := range yearsHeRe.FindAllStringSubmatch(text, -1) {
		vals = append(vals, firstGroupInt(m))
	}
	if len(vals) == 0 {
		return nil
	}

	min := vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
	}
	f := float64(min)
	return &f
}

// firstGroupInt returns the first non-empty capture group as an integer.
func firstGroupInt(match []string) int {
	for _, g := range match[1:] {
		if g != "" {
			n, _ := strconv.Atoi(g)
			return n
		}
	}
	return 0
}

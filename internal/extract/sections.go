package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Sections holds the partitioned description text.
type Sections struct {
	Overview         string
	Responsibilities string
	Qualifications   string
	Benefits         string
	General          string
}

var trailingTabsRe = regexp.MustCompile(`[ \t]+\n`)

type anchorHit struct {
	offset  int
	section Section
}

// SplitSections partitions free text into the four section buckets using
// greedy anchor-offset segmentation: every anchor occurrence across all
// sections is located, hits are sorted by offset, and the text between
// consecutive hits is assigned to the hit's section with the anchor phrase
// stripped from the front. Multiple spans for one section concatenate with
// a newline. Text with no anchor at all lands whole in Overview.
func SplitSections(text string) Sections {
	var out Sections
	if text == "" {
		return out
	}
	text = trailingTabsRe.ReplaceAllString(text, "\n")

	var hits []anchorHit
	for _, rule := range anchorRules {
		for _, pat := range rule.patterns {
			for _, loc := range pat.FindAllStringIndex(text, -1) {
				hits = append(hits, anchorHit{offset: loc[0], section: rule.section})
			}
		}
	}

	if len(hits) == 0 {
		out.Overview = strings.TrimSpace(text)
		return out
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })
	hits = append(hits, anchorHit{offset: len(text)})

	buckets := make(map[Section]string, 4)
	for i := 0; i < len(hits)-1; i++ {
		chunk := strings.TrimSpace(text[hits[i].offset:hits[i+1].offset])
		sec := hits[i].section
		if sec == "" {
			continue
		}
		chunk = stripAnchor(sec, chunk)
		if existing := buckets[sec]; existing != "" {
			buckets[sec] = existing + "\n" + chunk
		} else {
			buckets[sec] = chunk
		}
	}

	out.Overview = strings.TrimSpace(buckets[SectionOverview])
	out.Responsibilities = strings.TrimSpace(buckets[SectionResponsibilities])
	out.Qualifications = strings.TrimSpace(buckets[SectionQualifications])
	out.Benefits = strings.TrimSpace(buckets[SectionBenefits])
	return out
}

// stripAnchor removes the anchor phrase from the front of a span using the
// section's first matching pattern.
func stripAnchor(sec Section, chunk string) string {
	for _, rule := range anchorRules {
		if rule.section != sec {
			continue
		}
		for _, pat := range rule.patterns {
			if loc := pat.FindStringIndex(chunk); loc != nil {
				return strings.TrimLeft(chunk[loc[1]:], " \t\n")
			}
		}
		break
	}
	return chunk
}

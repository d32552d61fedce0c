package extract

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/jobscout/internal/textutil"
)

// SplitHeadingSections partitions board-API description markup into
// section buckets by walking headings and text blocks in document order.
// Each h2/h3 heading switches the current bucket; heading text that fits
// no named bucket falls into General. Text before the first heading also
// lands in General.
func SplitHeadingSections(rawHTML string) Sections {
	var out Sections
	if rawHTML == "" {
		return out
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(rawHTML)))
	if err != nil {
		out.General = textutil.HTMLToText(rawHTML)
		return out
	}

	buckets := make(map[Section][]string, 5)
	cur := SectionGeneral

	doc.Find("h2, h3, p, li").Each(func(_ int, sel *goquery.Selection) {
		txt := textutil.Normalize(sel.Text())
		if txt == "" {
			return
		}
		switch goquery.NodeName(sel) {
		case "h2", "h3":
			cur = classifyHeading(txt)
		default:
			buckets[cur] = append(buckets[cur], txt)
		}
	})

	join := func(sec Section) string { return strings.Join(buckets[sec], "\n") }
	out.Overview = join(SectionOverview)
	out.Responsibilities = join(SectionResponsibilities)
	out.Qualifications = join(SectionQualifications)
	out.Benefits = join(SectionBenefits)
	out.General = join(SectionGeneral)
	return out
}

// classifyHeading maps heading text to a section bucket by keyword,
// General when nothing matches.
func classifyHeading(text string) Section {
	t := strings.ToLower(text)
	for _, sec := range sectionOrder {
		for _, kw := range headingKeywords[sec] {
			if strings.Contains(t, kw) {
				return sec
			}
		}
	}
	return SectionGeneral
}

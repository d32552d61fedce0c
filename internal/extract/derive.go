package extract

import (
	"strings"

	"github.com/sells-group/jobscout/internal/geo"
	"github.com/sells-group/jobscout/internal/model"
)

// Derive fills a posting's derived attributes from its own text: minimum
// years requirement, seniority bucket, and city hint. Both connectors call
// this after extraction so every per-source dataset already carries the
// columns the downstream dashboard reads.
func Derive(p *model.Posting) {
	haystack := strings.Join([]string{
		p.Title, p.Overview, p.Responsibilities, p.Qualifications, p.Benefits, p.General,
	}, " ")

	p.YearsRequired = Years(haystack)
	p.Seniority = SeniorityFor(p.Title, p.YearsRequired)
	p.CityHint = geo.ShortCity(p.Location)
}

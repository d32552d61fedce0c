package extract

import (
	"regexp"
	"strings"

	"github.com/sells-group/jobscout/internal/model"
)

// Title-token rules, first match wins. Title signals always beat the
// numeric years bands: "Senior X" with 0.5 years required is still Senior.
var (
	managerTitleRe = regexp.MustCompile(`\b(manager|head|director|vp)\b`)
	leadTitleRe    = regexp.MustCompile(`\b(lead|principal|staff)\b`)
	juniorTitleRe  = regexp.MustCompile(`\b(intern|student|junior|entry)\b`)
	seniorTitleRe  = regexp.MustCompile(`\b(senior|sr\.?)\b`)
)

// SeniorityFor classifies a posting into a seniority bucket from its title
// and, failing any title signal, its extracted years requirement.
func SeniorityFor(title string, years *float64) model.Seniority {
	t := strings.ToLower(title)

	switch {
	case managerTitleRe.MatchString(t):
		return model.SeniorityManager
	case leadTitleRe.MatchString(t):
		return model.SeniorityLead
	case juniorTitleRe.MatchString(t):
		return model.SeniorityJunior
	case seniorTitleRe.MatchString(t):
		return model.SenioritySenior
	}

	if years != nil {
		switch y := *years; {
		case y <= 1:
			return model.SeniorityJunior
		case y < 5:
			return model.SeniorityMid
		case y < 8:
			return model.SenioritySenior
		default:
			return model.SeniorityLead
		}
	}

	return model.SeniorityMid
}

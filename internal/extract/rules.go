// Package extract turns raw posting text and markup into structured
// attributes: section buckets, a normalized posting date, a minimum
// years-of-experience requirement, and a seniority bucket. All heuristics
// are data-driven rule tables so locales can be added without touching
// control flow.
package extract

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section identifies one of the free-text buckets a posting description
// is partitioned into.
type Section string

const (
	SectionOverview         Section = "about_role"
	SectionResponsibilities Section = "responsibilities"
	SectionQualifications   Section = "qualifications"
	SectionBenefits         Section = "benefits"
	SectionGeneral          Section = "general"
)

// sectionOrder fixes iteration order over the named buckets.
var sectionOrder = []Section{
	SectionOverview, SectionResponsibilities, SectionQualifications, SectionBenefits,
}

//go:embed rules.yaml
var rulesYAML []byte

type ruleFile struct {
	Anchors  map[string][]string `yaml:"anchors"`
	Headings map[string][]string `yaml:"headings"`
}

type anchorRule struct {
	section  Section
	patterns []*regexp.Regexp
}

var (
	anchorRules     []anchorRule
	headingKeywords map[Section][]string
)

func init() {
	var rf ruleFile
	if err := yaml.Unmarshal(rulesYAML, &rf); err != nil {
		panic(fmt.Sprintf("extract: parse rules.yaml: %v", err))
	}

	for _, sec := range sectionOrder {
		pats, ok := rf.Anchors[string(sec)]
		if !ok {
			panic(fmt.Sprintf("extract: rules.yaml missing anchors for %s", sec))
		}
		rule := anchorRule{section: sec}
		for _, p := range pats {
			rule.patterns = append(rule.patterns, regexp.MustCompile("(?i)"+p))
		}
		anchorRules = append(anchorRules, rule)
	}

	headingKeywords = make(map[Section][]string, len(rf.Headings))
	for sec, kws := range rf.Headings {
		for _, kw := range kws {
			headingKeywords[Section(sec)] = append(headingKeywords[Section(sec)], strings.ToLower(kw))
		}
	}
}

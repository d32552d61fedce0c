// Package joblink derives the canonical identity URL for LinkedIn job
// postings. The numeric job id is the only stable part of a job-view URL;
// locale subdomains, slug text, and tracking parameters all vary between
// sightings of the same posting.
package joblink

import (
	"fmt"
	"regexp"
)

var (
	jobViewRe = regexp.MustCompile(`(?i)^https?://(?:[a-z]{2,3}\.)?linkedin\.com/jobs/view/[\w-]*\d+(?:/|$)`)
	jobIDRe   = regexp.MustCompile(`/jobs/view/[\w-]*?(\d+)`)
)

// IsJobView reports whether the URL has the LinkedIn job-view shape.
func IsJobView(link string) bool {
	return jobViewRe.MatchString(link)
}

// Canonicalize rewrites any job-view URL variant to the fixed canonical
// template keyed by the numeric job id. URLs that carry no job id pass
// through unchanged, so the function is idempotent on its own output.
func Canonicalize(link string) string {
	if link == "" {
		return ""
	}
	m := jobIDRe.FindStringSubmatch(link)
	if m == nil {
		return link
	}
	return fmt.Sprintf("https://www.linkedin.com/jobs/view/%s/", m[1])
}

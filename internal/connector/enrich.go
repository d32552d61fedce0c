package connector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/jobscout/internal/extract"
	"github.com/sells-group/jobscout/internal/geo"
	"github.com/sells-group/jobscout/internal/textutil"
)

// closedMarkers are page phrases, in either query language, that mean a
// posting no longer accepts applications.
var closedMarkers = []string{
	"no longer accepting applications",
	"this job is no longer available",
	"position has been filled",
	"applications are closed",
	"we are no longer reviewing applications",
	"המשרה אינה זמינה",
	"המשרה לא זמינה",
	"הגשת מועמדות הושעתה",
	"סגורה להגשה",
}

var applyMarkers = []string{
	"easy apply",
	"apply now",
	"submit application",
	"הגש מועמדות",
	"הגשת מועמדות",
}

var companySelectors = []string{
	"a[data-tracking-control-name*=company]",
	".jobs-unified-top-card__company-name a",
	".job-details-company-name",
	".jobs-details-top-card__company-url",
	"h4 a[href*='/company/']",
}

var locationSelectors = []string{
	".jobs-unified-top-card__primary-description",
	".jobs-unified-top-card__subtitle-primary-group > div",
	".top-card-layout__second-subline > li",
	".jobs-unified-top-card__bullet",
	".jobs-details-top-card__bullet",
}

var descriptionSelectors = []string{
	"div.show-more-less-html__markup",
	"div.description__text",
	"div.jobs-description-content__text",
	"div.jobs-box__html-content",
	".jobs-description__content",
}

var postedSelectors = []string{
	".posted-time-ago__text",
	".jobs-unified-top-card__posted-date",
	"[data-test-posted-time-ago]",
	"[class*='posted']",
}

// jobPostingLD is the subset of a schema.org JobPosting node the
// enricher reads. jobLocation appears as either an object or an array.
type jobPostingLD struct {
	Type               string          `json:"@type"`
	Title              string          `json:"title"`
	DatePosted         string          `json:"datePosted"`
	ValidThrough       string          `json:"validThrough"`
	EmploymentType     string          `json:"employmentType"`
	Description        string          `json:"description"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation json.RawMessage `json:"jobLocation"`
}

type ldAddress struct {
	Address struct {
		Locality string `json:"addressLocality"`
		Region   string `json:"addressRegion"`
		Country  string `json:"addressCountry"`
	} `json:"address"`
}

// Detail is what a posting page yields after enrichment.
type Detail struct {
	Title          string
	Company        string
	Location       string
	DatePosted     time.Time
	EmploymentType string
	RawHTML        string
	IsOpen         bool
	IsTargetGeo    bool
}

// Enricher fetches posting pages and extracts structured fields,
// preferring the embedded JSON-LD JobPosting node and falling back to
// OpenGraph metadata and page selectors.
type Enricher struct {
	client    *http.Client
	userAgent string
	now       func() time.Time
}

// NewEnricher builds a page enricher with the given fetch timeout.
func NewEnricher(timeout time.Duration, userAgent string) *Enricher {
	return &Enricher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		now:       time.Now,
	}
}

// Enrich fetches one posting page. A transport or parse failure is
// returned to the caller; enrich failures drop the item, never retry.
func (e *Enricher) Enrich(ctx context.Context, link string) (*Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, eris.Wrap(err, "connector: build detail request")
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "connector: fetch detail page")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("connector: fetch detail page: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "connector: read detail page")
	}

	return e.parse(string(body)), nil
}

func (e *Enricher) parse(htmlText string) *Detail {
	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if docErr != nil {
		// Unparseable markup: treat as a closed page with nothing usable.
		return &Detail{}
	}

	pageText := textutil.Normalize(doc.Text())
	ld := parseJobPostingLD(doc)

	ogTitle := metaContent(doc, "meta[property='og:title']")
	ogDesc := metaContent(doc, "meta[property='og:description']")

	d := &Detail{}

	if ld != nil && ld.Title != "" {
		d.Title = textutil.Normalize(ld.Title)
	}
	if d.Title == "" && ogTitle != "" {
		if before, _, ok := strings.Cut(ogTitle, " - "); ok {
			d.Title = strings.TrimSpace(before)
		} else {
			d.Title = ogTitle
		}
	}

	d.Company = e.extractCompany(doc, ld, ogTitle)
	d.Location = e.extractLocation(doc, ld, ogTitle, ogDesc)
	d.IsOpen = e.isOpen(doc, ld, pageText)

	lowered := strings.ToLower(pageText)
	d.IsTargetGeo = geo.MatchesAny(d.Title, d.Company, d.Location, ogTitle, ogDesc) ||
		strings.Contains(lowered, " israel ") ||
		strings.Contains(pageText, " ישראל ")

	if ld != nil {
		d.EmploymentType = textutil.Normalize(ld.EmploymentType)
		d.RawHTML = ld.Description
	}
	if d.RawHTML == "" {
		for _, sel := range descriptionSelectors {
			if node := doc.Find(sel).First(); node.Length() > 0 {
				if markup, err := goquery.OuterHtml(node); err == nil {
					d.RawHTML = markup
					break
				}
			}
		}
	}

	d.DatePosted = e.extractDate(doc, ld, pageText)
	return d
}

func parseJobPostingLD(doc *goquery.Document) *jobPostingLD {
	var found *jobPostingLD
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var single jobPostingLD
		if err := json.Unmarshal([]byte(raw), &single); err == nil {
			if strings.EqualFold(single.Type, "jobposting") {
				found = &single
				return false
			}
		}

		var many []jobPostingLD
		if err := json.Unmarshal([]byte(raw), &many); err == nil {
			for i := range many {
				if strings.EqualFold(many[i].Type, "jobposting") {
					found = &many[i]
					return false
				}
			}
		}
		return true
	})
	return found
}

func (e *Enricher) extractCompany(doc *goquery.Document, ld *jobPostingLD, ogTitle string) string {
	if ld != nil {
		if name := textutil.Normalize(ld.HiringOrganization.Name); name != "" {
			return name
		}
	}

	meta := metaContent(doc, "meta[name='twitter:title']")
	if meta == "" {
		meta = ogTitle
	}
	if meta != "" {
		parts := splitDashParts(meta)
		if len(parts) >= 2 {
			return parts[1]
		}
	}

	for _, sel := range companySelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if txt := textutil.Normalize(node.Text()); txt != "" {
				return txt
			}
		}
	}

	var fromCrumbs string
	doc.Find(".jobs-details-top-card__breadcrumbs a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/company/") {
			if txt := textutil.Normalize(a.Text()); txt != "" {
				fromCrumbs = txt
				return false
			}
		}
		return true
	})
	return fromCrumbs
}

func (e *Enricher) extractLocation(doc *goquery.Document, ld *jobPostingLD, ogTitle, ogDesc string) string {
	if ld != nil && len(ld.JobLocation) > 0 {
		if loc := locationFromLD(ld.JobLocation); loc != "" {
			return loc
		}
	}

	for _, sel := range locationSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			cand := strings.TrimSpace(strings.ReplaceAll(textutil.Normalize(node.Text()), "•", " "))
			if len(cand) >= 2 {
				return cand
			}
		}
	}

	// "Title - Company - Location" OpenGraph shape.
	for _, og := range []string{ogTitle, ogDesc} {
		parts := splitDashParts(og)
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}
	return ""
}

// locationFromLD joins addressLocality/Region/Country from a jobLocation
// node that may be a single object or an array.
func locationFromLD(raw json.RawMessage) string {
	var one ldAddress
	if err := json.Unmarshal(raw, &one); err != nil {
		var many []ldAddress
		if err := json.Unmarshal(raw, &many); err != nil || len(many) == 0 {
			return ""
		}
		one = many[0]
	}

	var parts []string
	for _, p := range []string{one.Address.Locality, one.Address.Region, one.Address.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return textutil.Normalize(strings.Join(parts, " "))
}

func (e *Enricher) isOpen(doc *goquery.Document, ld *jobPostingLD, pageText string) bool {
	lowered := strings.ToLower(pageText)
	for _, marker := range closedMarkers {
		if strings.Contains(lowered, marker) {
			return false
		}
	}

	if ld != nil && ld.ValidThrough != "" {
		if until, err := time.Parse(time.RFC3339, strings.TrimSpace(ld.ValidThrough)); err == nil {
			if until.Before(e.now().UTC()) {
				return false
			}
		}
	}

	applySelectors := []string{
		"a[data-control-name*=apply]",
		"button.apply-button",
		".jobs-apply-button",
		"a[href*='apply']",
		"button[data-tracking-control-name*=apply]",
	}
	for _, sel := range applySelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	for _, marker := range applyMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return !strings.Contains(lowered, "no longer") && !strings.Contains(pageText, "אינה זמינה")
}

// extractDate cascades JSON-LD datePosted, a time[datetime] node, then
// the relative "posted N ago" widgets.
func (e *Enricher) extractDate(doc *goquery.Document, ld *jobPostingLD, pageText string) time.Time {
	now := e.now()

	if ld != nil && strings.TrimSpace(ld.DatePosted) != "" {
		if t := extract.ResolveDate(ld.DatePosted, now); !t.IsZero() {
			return t
		}
	}

	if attr, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		if t := extract.ResolveDate(attr, now); !t.IsZero() {
			return t
		}
	}

	if pageText != "" {
		for _, sel := range postedSelectors {
			if node := doc.Find(sel).First(); node.Length() > 0 {
				if t := extract.ResolveRelativeDate(node.Text(), now); !t.IsZero() {
					return t
				}
			}
		}
	}
	return time.Time{}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return textutil.Normalize(content)
}

func splitDashParts(s string) []string {
	var parts []string
	for _, p := range strings.Split(s, " - ") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Package model defines the core domain types shared across connectors,
// reconciliation, and merging.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is a posting's lifecycle state. A posting is active from first
// sighting until a crawl of its source no longer returns it; then it is
// stale forever. Nothing is ever deleted.
type Status string

const (
	StatusActive Status = "active"
	StatusStale  Status = "stale"
)

// OpenState reports whether a posting still accepts applications.
// Unknown is used when the detail-fetch budget ran out before the
// posting's own page could be checked.
type OpenState string

const (
	OpenYes     OpenState = "true"
	OpenNo      OpenState = "false"
	OpenUnknown OpenState = "unknown"
)

// Seniority is the derived seniority bucket for a posting.
type Seniority string

const (
	SeniorityJunior  Seniority = "Junior/Entry"
	SeniorityMid     Seniority = "Mid"
	SenioritySenior  Seniority = "Senior"
	SeniorityLead    Seniority = "Lead/Principal"
	SeniorityManager Seniority = "Manager+"
)

// Posting is one job posting as assembled by a connector.
type Posting struct {
	// Identity
	ID   string // source-native id where available, synthetic otherwise
	Link string // canonical for the search source, absolute_url for boards

	// Descriptive
	Title          string
	Company        string
	Location       string
	EmploymentType string

	// Temporal (UTC; zero value means unknown)
	DatePosted time.Time
	ScrapedAt  time.Time
	StaleAt    time.Time

	// Lifecycle
	Status Status
	IsOpen OpenState

	// Content sections
	Overview         string
	Responsibilities string
	Qualifications   string
	Benefits         string
	General          string // board headings that fit no named bucket
	RawHTML          string // source markup retained for audit

	// Provenance
	SourceName string

	// Derived
	YearsRequired *float64
	Seniority     Seniority
	CityHint      string
}

// Base column names shared by every per-source dataset. Connectors may
// persist a subset; the merger unions whatever it finds.
const (
	ColID               = "id"
	ColTitle            = "title"
	ColCompany          = "company"
	ColLocation         = "location"
	ColEmploymentType   = "employment_type"
	ColDatePosted       = "date_posted"
	ColLink             = "link"
	ColSource           = "source"
	ColScrapedAt        = "scraped_at"
	ColOverview         = "about_role"
	ColResponsibilities = "responsibilities"
	ColQualifications   = "qualifications"
	ColBenefits         = "benefits"
	ColGeneral          = "general"
	ColRawHTML          = "raw_description_html"
	ColIsOpen           = "is_open"
	ColStatus           = "status"
	ColStaleAt          = "stale_at"
	ColYearsRequired    = "years_required"
	ColSeniority        = "seniority"
	ColCityHint         = "city_hint"
)

// FormatTime renders a UTC instant the way the datasets store it:
// RFC 3339 with sub-second precision dropped, empty for unknown.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Record renders the posting as a dataset row keyed by column name.
// Which keys actually get persisted is decided by the connector's schema.
func (p *Posting) Record() map[string]string {
	years := ""
	if p.YearsRequired != nil {
		years = strconv.FormatFloat(*p.YearsRequired, 'f', -1, 64)
	}
	return map[string]string{
		ColID:               p.ID,
		ColTitle:            p.Title,
		ColCompany:          p.Company,
		ColLocation:         p.Location,
		ColEmploymentType:   p.EmploymentType,
		ColDatePosted:       FormatTime(p.DatePosted),
		ColLink:             p.Link,
		ColSource:           p.SourceName,
		ColScrapedAt:        FormatTime(p.ScrapedAt),
		ColOverview:         p.Overview,
		ColResponsibilities: p.Responsibilities,
		ColQualifications:   p.Qualifications,
		ColBenefits:         p.Benefits,
		ColGeneral:          p.General,
		ColRawHTML:          p.RawHTML,
		ColIsOpen:           string(p.IsOpen),
		ColStatus:           string(p.Status),
		ColStaleAt:          FormatTime(p.StaleAt),
		ColYearsRequired:    years,
		ColSeniority:        string(p.Seniority),
		ColCityHint:         p.CityHint,
	}
}

// DedupKey returns the cross-source deduplication key for a row: the
// canonical link when non-empty, else a composite of the lowercased
// descriptive fields. Never empty for a row that has any of the inputs.
func DedupKey(canonicalLink, title, company, location string) string {
	if canonicalLink != "" {
		return canonicalLink
	}
	return fmt.Sprintf("%s||%s||%s",
		strings.ToLower(title), strings.ToLower(company), strings.ToLower(location))
}

// RunSummary counts what a connector run processed so failures are never
// silently dropped.
type RunSummary struct {
	Source      string `json:"source"`
	Processed   int    `json:"processed"`
	Kept        int    `json:"kept"`
	BudgetUsed  int    `json:"budget_used,omitempty"`
	FetchFails  int    `json:"fetch_fails,omitempty"`
	SearchFails int    `json:"search_fails,omitempty"`
	New         int    `json:"new"`
	Stale       int    `json:"stale"`
	Rows        int    `json:"rows"`
}

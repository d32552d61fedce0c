package connector

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobscout/internal/config"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/pkg/serper"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		SourceLabel:  "google_search/serper+linkedin",
		OutputPath:   "jobs_serper.csv",
		MaxPages:     1,
		EnrichBudget: 5,
	}
}

func newTestLinkedIn(cfg config.SearchConfig, search serper.Client, enricher detailEnricher) *LinkedInConnector {
	c := NewLinkedIn(cfg, testRole, search, nil)
	c.enricher = enricher
	c.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return c
}

func TestLinkedInQueries(t *testing.T) {
	cfg := testSearchConfig()
	cfg.CityFanout = true
	cfg.ExtraQueries = []string{`site:linkedin.com/jobs/view "ML Engineer" Israel`}

	c := newTestLinkedIn(cfg, &mockSerperClient{}, nil)
	queries := c.queries()

	assert.Contains(t, queries, `site:linkedin.com/jobs/view "Data Scientist" Israel`)
	assert.Contains(t, queries, `site:il.linkedin.com/jobs/view "Data Scientist" Israel`)
	assert.Contains(t, queries, `site:linkedin.com/jobs/view "מדען נתונים" ישראל`)
	assert.Contains(t, queries, `site:linkedin.com/jobs/view "Data Scientist" "Remote Israel"`)
	assert.Contains(t, queries, `site:linkedin.com/jobs/view "Data Scientist" "Tel Aviv"`)
	assert.Contains(t, queries, `site:linkedin.com/jobs/view "ML Engineer" Israel`)

	cfg.CityFanout = false
	short := newTestLinkedIn(cfg, &mockSerperClient{}, nil).queries()
	assert.Less(t, len(short), len(queries), "city fan-out adds queries")
}

func TestLinkedInDiscover_EnrichedPath(t *testing.T) {
	search := &mockSerperClient{}
	search.On("Search", mock.Anything, mock.MatchedBy(func(req serper.SearchRequest) bool {
		return req.Query == `site:linkedin.com/jobs/view "Data Scientist" Israel` && req.Start == 0
	})).Return(&serper.SearchResponse{Organic: []serper.Result{
		{
			Link:    "https://il.linkedin.com/jobs/view/ds-at-acme-111?trk=x",
			Title:   "Data Scientist - Acme - Tel Aviv",
			Snippet: "Join the fraud models team",
		},
		{
			// Same posting under a different slug: in-run dedupe drops it.
			Link:  "https://www.linkedin.com/jobs/view/111/",
			Title: "Data Scientist - Acme",
		},
		{
			Link:  "https://www.linkedin.com/company/acme/",
			Title: "Data Scientist jobs at Acme",
		},
		{
			Link:  "https://www.linkedin.com/jobs/view/222/",
			Title: "Backend Engineer - Acme",
		},
		{
			Link:  "https://www.linkedin.com/jobs/view/333/",
			Title: "Data Scientist - Globex",
		},
	}}, nil).Once()
	search.On("Search", mock.Anything, mock.Anything).Return(&serper.SearchResponse{}, nil)

	enricher := &mockEnricher{}
	enricher.On("Enrich", mock.Anything, "https://www.linkedin.com/jobs/view/111/").Return(&Detail{
		Title:          "Data Scientist",
		Company:        "Acme",
		Location:       "Tel Aviv, Israel",
		DatePosted:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EmploymentType: "Full-time",
		RawHTML:        "<p>About the role</p><p>Build fraud models.</p>",
		IsOpen:         true,
		IsTargetGeo:    true,
	}, nil).Once()
	enricher.On("Enrich", mock.Anything, "https://www.linkedin.com/jobs/view/333/").Return(&Detail{
		Title:       "Data Scientist",
		IsOpen:      false,
		IsTargetGeo: true,
	}, nil).Once()

	c := newTestLinkedIn(testSearchConfig(), search, enricher)
	postings, sum, err := c.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Processed, "only target-title job views count")
	assert.Equal(t, 1, sum.Kept)
	assert.Equal(t, 2, sum.BudgetUsed)
	assert.Equal(t, 0, sum.FetchFails)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.True(t, strings.HasPrefix(p.ID, "serper:"))
	assert.Equal(t, "https://www.linkedin.com/jobs/view/111/", p.Link)
	assert.Equal(t, "Data Scientist", p.Title)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "Tel Aviv, Israel", p.Location)
	assert.Equal(t, "Full-time", p.EmploymentType)
	assert.Equal(t, model.OpenYes, p.IsOpen)
	assert.Equal(t, model.StatusActive, p.Status)
	assert.Equal(t, "Build fraud models.", p.Overview)
	assert.Equal(t, "Tel Aviv", p.CityHint)

	enricher.AssertExpectations(t)
}

func TestLinkedInDiscover_BudgetExhaustedDegradesToSnippets(t *testing.T) {
	search := &mockSerperClient{}
	search.On("Search", mock.Anything, mock.MatchedBy(func(req serper.SearchRequest) bool {
		return req.Start == 0 && strings.HasPrefix(req.Query, `site:linkedin.com/jobs/view "Data Scientist" Israel`)
	})).Return(&serper.SearchResponse{Organic: []serper.Result{
		{
			Link:    "https://www.linkedin.com/jobs/view/444/",
			Title:   "Data Scientist - Initech",
			Snippet: "Herzliya, Israel - hybrid",
		},
		{
			Link:    "https://www.linkedin.com/jobs/view/555/",
			Title:   "Data Scientist - Initech Berlin",
			Snippet: "Berlin, Germany",
		},
	}}, nil).Once()
	search.On("Search", mock.Anything, mock.Anything).Return(&serper.SearchResponse{}, nil)

	cfg := testSearchConfig()
	cfg.EnrichBudget = 0
	c := newTestLinkedIn(cfg, search, nil)

	postings, sum, err := c.Discover(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 1, sum.Kept)
	assert.Equal(t, 0, sum.BudgetUsed)
	require.Len(t, postings, 1)

	p := postings[0]
	assert.Equal(t, model.OpenUnknown, p.IsOpen, "unverified posting is unknown, not open")
	assert.Equal(t, "Herzliya, Israel", p.Location)
	assert.Empty(t, p.Company, "snippet-only rows carry no company")
}

func TestLinkedInDiscover_FetchFailureDropsItem(t *testing.T) {
	search := &mockSerperClient{}
	search.On("Search", mock.Anything, mock.MatchedBy(func(req serper.SearchRequest) bool {
		return req.Start == 0 && req.Query == `site:linkedin.com/jobs/view "Data Scientist" Israel`
	})).Return(&serper.SearchResponse{Organic: []serper.Result{
		{
			Link:  "https://www.linkedin.com/jobs/view/666/",
			Title: "Data Scientist - Acme",
		},
	}}, nil).Once()
	search.On("Search", mock.Anything, mock.Anything).Return(&serper.SearchResponse{}, nil)

	enricher := &mockEnricher{}
	enricher.On("Enrich", mock.Anything, "https://www.linkedin.com/jobs/view/666/").
		Return(nil, assert.AnError).Once()

	c := newTestLinkedIn(testSearchConfig(), search, enricher)
	postings, sum, err := c.Discover(context.Background())
	require.NoError(t, err)

	assert.Empty(t, postings)
	assert.Equal(t, 1, sum.FetchFails)
	assert.Equal(t, 0, sum.Kept)
}

func TestLinkedInDiscover_SearchErrorEndsQueryNotRun(t *testing.T) {
	search := &mockSerperClient{}
	search.On("Search", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	c := newTestLinkedIn(testSearchConfig(), search, nil)
	postings, sum, err := c.Discover(context.Background())
	require.NoError(t, err, "a failing query is skipped, not fatal")
	assert.Empty(t, postings)
	assert.Equal(t, 0, sum.Processed)
	assert.Equal(t, len(c.queries()), sum.SearchFails,
		"every abandoned query page is counted")
}

func TestLinkedInConnector_Schema(t *testing.T) {
	c := newTestLinkedIn(testSearchConfig(), &mockSerperClient{}, nil)

	assert.Equal(t, "linkedin", c.Name())
	assert.Equal(t, "jobs_serper.csv", c.OutputPath())
	assert.Equal(t, model.ColLink, c.KeyColumn())
	assert.Contains(t, c.Columns(), model.ColIsOpen)
	assert.Contains(t, c.Columns(), model.ColRawHTML)
	assert.NotContains(t, c.Columns(), model.ColGeneral)

	assert.Equal(t,
		"https://www.linkedin.com/jobs/view/777/",
		c.Key()("https://il.linkedin.com/jobs/view/ds-777?x=1"),
		"search keys canonicalize",
	)
}

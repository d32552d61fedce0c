package connector

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/jobscout/internal/config"
	"github.com/sells-group/jobscout/internal/extract"
	"github.com/sells-group/jobscout/internal/geo"
	"github.com/sells-group/jobscout/internal/joblink"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/internal/reconcile"
	"github.com/sells-group/jobscout/internal/textutil"
	"github.com/sells-group/jobscout/pkg/serper"
)

const resultsPerPage = 10

// searchColumns extends the shared schema with the fields only page
// enrichment can produce.
var searchColumns = append(append([]string(nil), baseColumns...),
	model.ColEmploymentType, model.ColIsOpen, model.ColRawHTML)

// detailEnricher fetches a posting page and extracts structured fields.
type detailEnricher interface {
	Enrich(ctx context.Context, link string) (*Detail, error)
}

// LinkedInConnector discovers LinkedIn postings through site-scoped web
// search, enriching a budgeted number of results from the posting pages
// themselves.
type LinkedInConnector struct {
	cfg      config.SearchConfig
	role     config.RoleConfig
	search   serper.Client
	enricher detailEnricher

	pageLimiter   *rate.Limiter
	detailLimiter *rate.Limiter
	now           func() time.Time
}

// NewLinkedIn creates the search-driven connector.
func NewLinkedIn(cfg config.SearchConfig, role config.RoleConfig, search serper.Client, enricher *Enricher) *LinkedInConnector {
	return &LinkedInConnector{
		cfg:           cfg,
		role:          role,
		search:        search,
		enricher:      enricher,
		pageLimiter:   paceLimiter(cfg.PagePaceMs),
		detailLimiter: paceLimiter(cfg.DetailPaceMs),
		now:           time.Now,
	}
}

// paceLimiter converts a between-request pause into a limiter. Zero or
// negative pacing means unlimited.
func paceLimiter(paceMs int) *rate.Limiter {
	if paceMs <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Duration(paceMs)*time.Millisecond), 1)
}

func (c *LinkedInConnector) Name() string           { return "linkedin" }
func (c *LinkedInConnector) OutputPath() string     { return c.cfg.OutputPath }
func (c *LinkedInConnector) KeyColumn() string      { return model.ColLink }
func (c *LinkedInConnector) Key() reconcile.KeyFunc { return joblink.Canonicalize }
func (c *LinkedInConnector) Columns() []string      { return searchColumns }

// queries builds the fan-out: both site scopes crossed with the role in
// both languages, a remote variant, optional per-city variants, and any
// configured extras.
func (c *LinkedInConnector) queries() []string {
	sites := []string{"linkedin.com/jobs/view", "il.linkedin.com/jobs/view"}

	var out []string
	for _, site := range sites {
		out = append(out, fmt.Sprintf(`site:%s "%s" Israel`, site, c.role.Keyword))
	}
	if c.role.KeywordLocal != "" {
		for _, site := range sites {
			out = append(out, fmt.Sprintf(`site:%s "%s" ישראל`, site, c.role.KeywordLocal))
		}
	}
	for _, site := range sites {
		out = append(out, fmt.Sprintf(`site:%s "%s" "Remote Israel"`, site, c.role.Keyword))
	}
	if c.cfg.CityFanout {
		for _, city := range geo.CityTerms() {
			for _, site := range sites {
				out = append(out, fmt.Sprintf(`site:%s "%s" %s`, site, c.role.Keyword, city))
			}
		}
	}
	out = append(out, c.cfg.ExtraQueries...)
	return out
}

// Discover walks every query page by page. Search errors and empty
// pages end the query; item-level failures drop the item and are
// counted, never retried.
func (c *LinkedInConnector) Discover(ctx context.Context) ([]model.Posting, model.RunSummary, error) {
	log := zap.L().With(zap.String("source", c.Name()))
	sum := model.RunSummary{Source: c.Name()}

	queries := c.queries()
	seen := make(map[string]struct{})
	budget := c.cfg.EnrichBudget

	var postings []model.Posting
	for qi, query := range queries {
		qlog := log.With(zap.Int("query", qi+1), zap.Int("queries", len(queries)))
		qlog.Debug("running query", zap.String("q", query))

		for page := 0; page < c.cfg.MaxPages; page++ {
			if err := c.pageLimiter.Wait(ctx); err != nil {
				return postings, sum, eris.Wrap(err, "connector: page pacing")
			}

			resp, err := c.search.Search(ctx, serper.SearchRequest{
				Query: query,
				Start: page * resultsPerPage,
				HL:    "en",
				GL:    "il",
			})
			if err != nil {
				qlog.Warn("search page failed", zap.Int("page", page+1), zap.Error(err))
				sum.SearchFails++
				break
			}
			if len(resp.Organic) == 0 {
				break
			}

			for _, item := range resp.Organic {
				if ctx.Err() != nil {
					return postings, sum, eris.Wrap(ctx.Err(), "connector: discover")
				}
				p, ok := c.processResult(ctx, item, query, seen, &budget, &sum)
				if ok {
					postings = append(postings, p)
					sum.Kept++
				}
			}
		}
	}

	sum.BudgetUsed = c.cfg.EnrichBudget - budget
	log.Info("search crawl complete",
		zap.Int("processed", sum.Processed),
		zap.Int("kept", sum.Kept),
		zap.Int("budget_used", sum.BudgetUsed),
		zap.Int("fetch_fails", sum.FetchFails),
		zap.Int("search_fails", sum.SearchFails),
	)
	return postings, sum, nil
}

// processResult applies the per-item pipeline: canonicalize, dedupe
// within the run, role filter, then either budgeted enrichment or the
// snippet-only degraded path.
func (c *LinkedInConnector) processResult(ctx context.Context, item serper.Result, query string, seen map[string]struct{}, budget *int, sum *model.RunSummary) (model.Posting, bool) {
	linkRaw := textutil.Normalize(item.Link)
	if linkRaw == "" {
		return model.Posting{}, false
	}
	link := joblink.Canonicalize(linkRaw)
	if !joblink.IsJobView(link) {
		return model.Posting{}, false
	}
	if _, dup := seen[link]; dup {
		return model.Posting{}, false
	}
	seen[link] = struct{}{}

	title := textutil.Normalize(item.Title)
	snippet := textutil.Normalize(item.Snippet)
	if !c.isTargetTitle(title) && !c.isTargetTitle(snippet) {
		return model.Posting{}, false
	}
	sum.Processed++

	p := model.Posting{
		ID:         searchID(link),
		Link:       link,
		Title:      title,
		SourceName: c.cfg.SourceLabel,
		ScrapedAt:  c.now().UTC(),
		Status:     model.StatusActive,
	}

	if *budget > 0 {
		if err := c.detailLimiter.Wait(ctx); err != nil {
			return model.Posting{}, false
		}
		detail, err := c.enricher.Enrich(ctx, link)
		if err != nil {
			sum.FetchFails++
			zap.L().Debug("detail fetch failed", zap.String("link", link), zap.Error(err))
			return model.Posting{}, false
		}
		*budget--

		if !detail.IsOpen || !detail.IsTargetGeo {
			return model.Posting{}, false
		}

		if detail.Title != "" {
			p.Title = detail.Title
		}
		p.Company = detail.Company
		p.Location = detail.Location
		p.DatePosted = detail.DatePosted
		p.EmploymentType = detail.EmploymentType
		p.RawHTML = detail.RawHTML
		p.IsOpen = model.OpenYes

		if p.Location == "" {
			p.Location = geo.LocationFromTexts(title, snippet)
			if p.Location == "" {
				p.Location = geo.CityFromQuery(query)
			}
		}
	} else {
		// Budget exhausted: keep only what the result itself proves.
		if !geo.MatchesAny(title, snippet) {
			return model.Posting{}, false
		}
		p.Location = geo.LocationFromTexts(title, snippet)
		if p.Location == "" {
			p.Location = geo.CityFromQuery(query)
		}
		p.IsOpen = model.OpenUnknown
	}

	text := textutil.HTMLToText(p.RawHTML)
	sections := extract.SplitSections(text)
	p.Overview = sections.Overview
	p.Responsibilities = sections.Responsibilities
	p.Qualifications = sections.Qualifications
	p.Benefits = sections.Benefits
	extract.Derive(&p)

	return p, true
}

func (c *LinkedInConnector) isTargetTitle(text string) bool {
	if text == "" {
		return false
	}
	t := strings.ToLower(text)
	return strings.Contains(t, strings.ToLower(c.role.Keyword)) ||
		(c.role.KeywordLocal != "" && strings.Contains(t, c.role.KeywordLocal))
}

// searchID derives a stable row id from the canonical link.
func searchID(link string) string {
	h := fnv.New64a()
	h.Write([]byte(link))
	return fmt.Sprintf("serper:%d", h.Sum64())
}

package connector

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout/internal/config"
	"github.com/sells-group/jobscout/internal/extract"
	"github.com/sells-group/jobscout/internal/geo"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/internal/reconcile"
	"github.com/sells-group/jobscout/internal/textutil"
	"github.com/sells-group/jobscout/pkg/greenhouse"
)

// boardColumns extends the shared schema with the catch-all bucket board
// descriptions produce. Boards carry no open-status, employment-type, or
// raw-markup columns.
var boardColumns = append(append([]string(nil), baseColumns...), model.ColGeneral)

// GreenhouseConnector ingests one Greenhouse-hosted career board.
type GreenhouseConnector struct {
	cfg    config.BoardConfig
	role   config.RoleConfig
	client greenhouse.Client
	now    func() time.Time
}

// NewGreenhouse creates a board connector for the configured board.
func NewGreenhouse(cfg config.BoardConfig, role config.RoleConfig, client greenhouse.Client) *GreenhouseConnector {
	return &GreenhouseConnector{cfg: cfg, role: role, client: client, now: time.Now}
}

func (c *GreenhouseConnector) Name() string           { return c.cfg.Name }
func (c *GreenhouseConnector) OutputPath() string     { return c.cfg.OutputPath }
func (c *GreenhouseConnector) KeyColumn() string      { return model.ColID }
func (c *GreenhouseConnector) Key() reconcile.KeyFunc { return reconcile.Identity }
func (c *GreenhouseConnector) Columns() []string      { return boardColumns }

// Discover fetches the complete board listing and keeps target-role
// postings in the target geography. A listing fetch failure aborts the
// source: there is no meaningful partial listing.
func (c *GreenhouseConnector) Discover(ctx context.Context) ([]model.Posting, model.RunSummary, error) {
	log := zap.L().With(zap.String("source", c.cfg.Name))
	sum := model.RunSummary{Source: c.cfg.Name}

	list, err := c.client.ListJobs(ctx, c.cfg.Board)
	if err != nil {
		return nil, sum, eris.Wrapf(err, "connector: list board %s", c.cfg.Board)
	}

	scrapedAt := c.now().UTC()
	keyword := strings.ToLower(c.role.Keyword)

	var postings []model.Posting
	for _, job := range list.Jobs {
		sum.Processed++

		title := textutil.Normalize(job.Title)
		location := textutil.Normalize(job.Location.Name)
		if !strings.Contains(strings.ToLower(title), keyword) {
			continue
		}
		if !geo.Matches(location) {
			continue
		}

		sections := extract.SplitHeadingSections(job.Content)
		p := model.Posting{
			ID:               strconv.FormatInt(job.ID, 10),
			Title:            title,
			Company:          c.cfg.Company,
			Location:         location,
			DatePosted:       c.pickDate(job),
			Link:             job.AbsoluteURL,
			SourceName:       c.cfg.SourceLabel,
			ScrapedAt:        scrapedAt,
			Overview:         sections.Overview,
			Responsibilities: sections.Responsibilities,
			Qualifications:   sections.Qualifications,
			Benefits:         sections.Benefits,
			General:          sections.General,
			Status:           model.StatusActive,
		}
		extract.Derive(&p)

		postings = append(postings, p)
		sum.Kept++
	}

	log.Info("board crawl complete",
		zap.String("board", c.cfg.Board),
		zap.Int("listed", sum.Processed),
		zap.Int("kept", sum.Kept),
	)
	return postings, sum, nil
}

// pickDate prefers the listing's update instant over its creation instant.
func (c *GreenhouseConnector) pickDate(job greenhouse.Job) time.Time {
	raw := strings.TrimSpace(job.UpdatedAt)
	if raw == "" {
		raw = strings.TrimSpace(job.CreatedAt)
	}
	return extract.ResolveDate(raw, c.now())
}

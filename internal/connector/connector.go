// Package connector implements per-source discovery: the search-driven
// LinkedIn source and the board-API-driven Greenhouse sources. A connector
// owns discovery, per-item fetching, and assembly of normalized postings;
// lifecycle is the reconciler's job.
package connector

import (
	"context"

	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/internal/reconcile"
)

// Connector is one posting origin.
type Connector interface {
	// Name is the short source identifier used in logs and the run store.
	Name() string
	// OutputPath is the source's persisted dataset file.
	OutputPath() string
	// KeyColumn names the dataset column the reconciler keys this source by.
	KeyColumn() string
	// Key normalizes key values before reconciliation.
	Key() reconcile.KeyFunc
	// Columns is the dataset schema this source persists.
	Columns() []string
	// Discover runs one bounded discovery cycle. The summary is valid even
	// when an error is returned.
	Discover(ctx context.Context) ([]model.Posting, model.RunSummary, error)
}

// baseColumns shared by both connector shapes, in persisted order.
var baseColumns = []string{
	model.ColID,
	model.ColTitle,
	model.ColCompany,
	model.ColLocation,
	model.ColDatePosted,
	model.ColLink,
	model.ColSource,
	model.ColScrapedAt,
	model.ColOverview,
	model.ColResponsibilities,
	model.ColQualifications,
	model.ColBenefits,
	model.ColStatus,
	model.ColStaleAt,
	model.ColYearsRequired,
	model.ColSeniority,
	model.ColCityHint,
}

// Package merge unifies the reconciled per-source datasets into one
// deduplicated dataset with a canonical column ordering. Source order is a
// deliberate priority: when two sources captured the same posting, the
// earlier-listed source's row survives.
package merge

import (
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/jobscout/internal/dataset"
	"github.com/sells-group/jobscout/internal/joblink"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/internal/textutil"
)

// Extra columns the merger introduces.
const (
	ColOriginFile    = "origin_file"
	ColLinkCanonical = "link_canonical"
)

// preferredColumns is the fixed prefix of the merged dataset: identity,
// descriptive, temporal, lifecycle, provenance, then content. Remaining
// source-specific columns follow in sorted order.
var preferredColumns = []string{
	model.ColID,
	model.ColTitle,
	model.ColCompany,
	model.ColLocation,
	model.ColDatePosted,
	model.ColIsOpen,
	model.ColStatus,
	model.ColStaleAt,
	model.ColSource,
	ColOriginFile,
	model.ColLink,
	ColLinkCanonical,
	model.ColYearsRequired,
	model.ColSeniority,
	model.ColCityHint,
	model.ColOverview,
	model.ColResponsibilities,
	model.ColQualifications,
	model.ColBenefits,
	model.ColGeneral,
	model.ColRawHTML,
	model.ColScrapedAt,
}

// normalizedColumns are re-normalized on merge; sources and hand-edited
// files drift.
var normalizedColumns = []string{
	model.ColTitle, model.ColCompany, model.ColLocation,
	model.ColLink, model.ColDatePosted, model.ColSource,
}

// Input is one per-source dataset to merge.
type Input struct {
	Path  string
	Table *dataset.Table
}

// Summary reports the merge outcome.
type Summary struct {
	Inputs     int
	RowsBefore int
	RowsAfter  int
	Duplicates int
}

// Merge unions the inputs, deduplicates by canonical-link-else-composite
// key keeping the first occurrence in input order, and reorders columns
// to the preferred prefix followed by the sorted remainder.
func Merge(inputs []Input) (*dataset.Table, Summary) {
	var sum Summary
	var rows []map[string]string
	columnSet := make(map[string]bool)

	for _, in := range inputs {
		if in.Table == nil {
			continue
		}
		sum.Inputs++
		origin := filepath.Base(in.Path)

		for _, col := range in.Table.Columns {
			columnSet[col] = true
		}
		for _, src := range in.Table.Rows {
			row := make(map[string]string, len(src)+2)
			for k, v := range src {
				row[k] = v
			}
			for _, col := range normalizedColumns {
				if v, ok := row[col]; ok {
					row[col] = textutil.Normalize(v)
				}
			}
			row[ColOriginFile] = origin
			if row[model.ColSource] == "" {
				row[model.ColSource] = origin
			}
			row[ColLinkCanonical] = canonicalForDedup(row[model.ColLink])
			rows = append(rows, row)
		}
	}
	columnSet[ColOriginFile] = true
	columnSet[ColLinkCanonical] = true
	columnSet[model.ColSource] = true

	sum.RowsBefore = len(rows)

	seen := make(map[string]bool, len(rows))
	out := &dataset.Table{Columns: orderColumns(columnSet)}
	for _, row := range rows {
		key := model.DedupKey(
			row[ColLinkCanonical],
			row[model.ColTitle], row[model.ColCompany], row[model.ColLocation],
		)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, row)
	}

	sum.RowsAfter = len(out.Rows)
	sum.Duplicates = sum.RowsBefore - sum.RowsAfter

	zap.L().Info("merge complete",
		zap.Int("inputs", sum.Inputs),
		zap.Int("rows_before", sum.RowsBefore),
		zap.Int("rows_after", sum.RowsAfter),
		zap.Int("duplicates_removed", sum.Duplicates),
	)
	return out, sum
}

// canonicalForDedup canonicalizes job-view links; other links keep their
// own shape and still key the row when present.
func canonicalForDedup(link string) string {
	if link == "" {
		return ""
	}
	return joblink.Canonicalize(link)
}

// orderColumns returns the preferred prefix (those present) followed by
// the remaining columns sorted for determinism.
func orderColumns(columnSet map[string]bool) []string {
	var cols []string
	used := make(map[string]bool, len(columnSet))
	for _, c := range preferredColumns {
		if columnSet[c] {
			cols = append(cols, c)
			used[c] = true
		}
	}
	var rest []string
	for c := range columnSet {
		if !used[c] {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(cols, rest...)
}

package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/jobscout/internal/dataset"
	"github.com/sells-group/jobscout/internal/joblink"
	"github.com/sells-group/jobscout/internal/model"
	"github.com/sells-group/jobscout/internal/reconcile"
)

func input(path string, columns []string, rows ...map[string]string) Input {
	return Input{Path: path, Table: &dataset.Table{Columns: columns, Rows: rows}}
}

func TestMerge_FirstSourceWinsOnDuplicateLink(t *testing.T) {
	search := input("out/jobs_serper.csv",
		[]string{"id", "title", "link", "source"},
		map[string]string{
			"id":     "serper:1",
			"title":  "Data Scientist",
			"link":   "https://www.linkedin.com/jobs/view/333/",
			"source": "google_search/serper+linkedin",
		},
	)
	board := input("out/riskified_ds_jobs.csv",
		[]string{"id", "title", "link", "source"},
		map[string]string{
			"id":     "987",
			"title":  "Data Scientist",
			"link":   "https://il.linkedin.com/jobs/view/ds-at-acme-333?ref=z",
			"source": "Riskified Careers",
		},
	)

	out, sum := Merge([]Input{search, board})

	assert.Equal(t, 2, sum.Inputs)
	assert.Equal(t, 2, sum.RowsBefore)
	assert.Equal(t, 1, sum.RowsAfter)
	assert.Equal(t, 1, sum.Duplicates)
	require.Len(t, out.Rows, 1)
	assert.Equal(t, "serper:1", out.Rows[0]["id"], "earlier-listed source's row survives")
	assert.Equal(t, "https://www.linkedin.com/jobs/view/333/", out.Rows[0]["link_canonical"])
}

func TestMerge_CompositeKeyWhenNoLink(t *testing.T) {
	a := input("a.csv",
		[]string{"title", "company", "location"},
		map[string]string{"title": "Data Scientist", "company": "Acme", "location": "Haifa"},
	)
	b := input("b.csv",
		[]string{"title", "company", "location"},
		map[string]string{"title": "data scientist", "company": "ACME", "location": "haifa"},
		map[string]string{"title": "Data Scientist", "company": "Other", "location": "Haifa"},
	)

	out, sum := Merge([]Input{a, b})

	assert.Equal(t, 1, sum.Duplicates, "composite key compares case-insensitively")
	require.Len(t, out.Rows, 2)
}

func TestMerge_ProvenanceTagging(t *testing.T) {
	in := input("data/riskified_ds_jobs.csv",
		[]string{"id", "title", "source"},
		map[string]string{"id": "1", "title": "DS", "source": "Riskified Careers"},
		map[string]string{"id": "2", "title": "DS 2"},
	)

	out, _ := Merge([]Input{in})

	require.Len(t, out.Rows, 2)
	assert.Equal(t, "riskified_ds_jobs.csv", out.Rows[0]["origin_file"])
	assert.Equal(t, "Riskified Careers", out.Rows[0]["source"])
	assert.Equal(t, "riskified_ds_jobs.csv", out.Rows[1]["source"],
		"missing source defaults to the origin file")
}

func TestMerge_ColumnOrdering(t *testing.T) {
	in := input("a.csv",
		[]string{"zebra_note", "title", "id", "alpha_note"},
		map[string]string{"id": "1", "title": "DS", "zebra_note": "z", "alpha_note": "a"},
	)

	out, _ := Merge([]Input{in})

	require.GreaterOrEqual(t, len(out.Columns), 6)
	assert.Equal(t, "id", out.Columns[0])
	assert.Equal(t, "title", out.Columns[1])
	rest := out.Columns[len(out.Columns)-2:]
	assert.Equal(t, []string{"alpha_note", "zebra_note"}, rest,
		"unknown columns follow the preferred prefix in sorted order")
}

func TestMerge_NormalizesDriftedText(t *testing.T) {
	in := input("a.csv",
		[]string{"title", "company"},
		map[string]string{"title": "  Data Scientist ", "company": "Acme &amp; Co"},
	)

	out, _ := Merge([]Input{in})

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "Data Scientist", out.Rows[0]["title"])
	assert.Equal(t, "Acme & Co", out.Rows[0]["company"])
}

// Two sources carry the same posting; it then vanishes from the search
// source only. After a second reconcile of each source, the merge must
// hold exactly one row for the posting — and since the search dataset
// leads the input order, its stale lifecycle is what survives, even
// though the board still lists the job as active.
func TestMerge_PerSourceLifecycleSurvives(t *testing.T) {
	run1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	run2 := time.Date(2026, 8, 8, 9, 0, 0, 0, time.UTC)

	searchCols := []string{"id", "title", "link", "source", "is_open"}
	searchFresh := &dataset.Table{Columns: searchCols, Rows: []map[string]string{{
		"id":      "serper:1",
		"title":   "Data Scientist",
		"link":    "https://il.linkedin.com/jobs/view/ds-at-acme-333?ref=z",
		"source":  "google_search/serper+linkedin",
		"is_open": "true",
	}}}
	boardCols := []string{"id", "title", "link", "source"}
	boardFresh := &dataset.Table{Columns: boardCols, Rows: []map[string]string{{
		"id":     "987",
		"title":  "Data Scientist",
		"link":   "https://www.linkedin.com/jobs/view/333/",
		"source": "Riskified Careers",
	}}}

	search, _ := reconcile.Reconcile(&dataset.Table{Columns: searchCols}, searchFresh,
		"link", joblink.Canonicalize, run1)
	board, _ := reconcile.Reconcile(&dataset.Table{Columns: boardCols}, boardFresh,
		"id", reconcile.Identity, run1)

	// Run 2: the search source no longer sees the posting.
	search, ssum := reconcile.Reconcile(search, &dataset.Table{Columns: searchCols},
		"link", joblink.Canonicalize, run2)
	board, bsum := reconcile.Reconcile(board, boardFresh,
		"id", reconcile.Identity, run2)
	require.Equal(t, 1, ssum.Stale)
	require.Equal(t, 0, bsum.Stale)

	out, sum := Merge([]Input{
		{Path: "jobs_serper.csv", Table: search},
		{Path: "riskified_ds_jobs.csv", Table: board},
	})

	assert.Equal(t, 1, sum.Duplicates)
	require.Len(t, out.Rows, 1)
	row := out.Rows[0]
	assert.Equal(t, "serper:1", row["id"])
	assert.Equal(t, "stale", row["status"])
	assert.Equal(t, model.FormatTime(run2), row["stale_at"])
	assert.Equal(t, "false", row["is_open"])
	assert.Equal(t, "jobs_serper.csv", row["origin_file"])
}

func TestMerge_Empty(t *testing.T) {
	out, sum := Merge(nil)
	assert.Empty(t, out.Rows)
	assert.Equal(t, 0, sum.Inputs)
}

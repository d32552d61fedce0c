// Package reconcile merges a fresh crawl result into a source's persisted
// dataset, maintaining the active/stale lifecycle. Content is never
// updated in place and rows are never deleted: staleness is the deletion
// surrogate, and the first write of a record wins.
package reconcile

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/jobscout/internal/dataset"
	"github.com/sells-group/jobscout/internal/model"
)

// Summary reports what one reconciliation changed.
type Summary struct {
	New   int
	Stale int
	Rows  int
}

// KeyFunc normalizes a raw key value before comparison. The search source
// canonicalizes links here; board sources use identity.
type KeyFunc func(string) string

// Identity is the KeyFunc for sources whose keys are already stable.
func Identity(s string) string { return s }

// Reconcile merges fresh rows into the persisted table.
//
// Persisted rows absent from the fresh set go stale with stale_at set to
// now — unless already stale, so re-running without new data changes
// nothing. Fresh rows with unseen keys append as active. Persisted rows
// whose key reappears are left untouched. The returned table is the
// complete new state, ready for a full rewrite.
func Reconcile(persisted, fresh *dataset.Table, keyCol string, key KeyFunc, now time.Time) (*dataset.Table, Summary) {
	var sum Summary

	out := &dataset.Table{Columns: append([]string(nil), persisted.Columns...)}
	if len(out.Columns) == 0 {
		out.Columns = append([]string(nil), fresh.Columns...)
	}
	out.EnsureColumns(fresh.Columns...)
	out.EnsureColumns(keyCol, model.ColStatus, model.ColStaleAt)

	freshKeys := make(map[string]bool, len(fresh.Rows))
	for _, row := range fresh.Rows {
		if k := key(row[keyCol]); k != "" {
			freshKeys[k] = true
		}
	}

	existingKeys := make(map[string]bool, len(persisted.Rows))
	nowStr := model.FormatTime(now)

	for _, row := range persisted.Rows {
		k := key(row[keyCol])
		if k != "" {
			existingKeys[k] = true
		}

		kept := cloneRow(row)
		if k != "" && !freshKeys[k] && kept[model.ColStatus] != string(model.StatusStale) {
			kept[model.ColStatus] = string(model.StatusStale)
			kept[model.ColStaleAt] = nowStr
			if persisted.HasColumn(model.ColIsOpen) {
				kept[model.ColIsOpen] = string(model.OpenNo)
			}
			sum.Stale++
		}
		out.Rows = append(out.Rows, kept)
	}

	for _, row := range fresh.Rows {
		k := key(row[keyCol])
		if k == "" || existingKeys[k] {
			continue
		}
		existingKeys[k] = true

		added := cloneRow(row)
		added[keyCol] = k
		added[model.ColStatus] = string(model.StatusActive)
		added[model.ColStaleAt] = ""
		out.Rows = append(out.Rows, added)
		sum.New++
	}

	sum.Rows = len(out.Rows)
	zap.L().Info("reconcile complete",
		zap.String("key_column", keyCol),
		zap.Int("rows", sum.Rows),
		zap.Int("new", sum.New),
		zap.Int("stale", sum.Stale),
	)
	return out, sum
}

func cloneRow(row map[string]string) map[string]string {
	out := make(map[string]string, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout/internal/dataset"
	"github.com/sells-group/jobscout/internal/merge"
)

var mergeOutput string

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge per-source datasets into one deduplicated table",
	Long:  "Reads every per-source dataset in configured priority order, tags provenance, deduplicates by canonical link (falling back to title+company+location), and writes the combined table.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var inputs []merge.Input
		for _, path := range cfg.SourcePaths() {
			if !dataset.Exists(path) {
				zap.L().Warn("source dataset missing, skipping", zap.String("path", path))
				continue
			}
			t, err := dataset.Read(path)
			if err != nil {
				return eris.Wrapf(err, "read dataset %s", path)
			}
			inputs = append(inputs, merge.Input{Path: path, Table: t})
		}
		if len(inputs) == 0 {
			return eris.New("no source datasets found")
		}

		out, sum := merge.Merge(inputs)

		target := mergeOutput
		if target == "" {
			target = cfg.Merge.OutputPath
		}
		if err := dataset.Write(target, out); err != nil {
			return eris.Wrapf(err, "write merged dataset %s", target)
		}

		zap.L().Info("merge complete",
			zap.String("path", target),
			zap.Int("inputs", sum.Inputs),
			zap.Int("rows_before", sum.RowsBefore),
			zap.Int("rows_after", sum.RowsAfter),
			zap.Int("duplicates", sum.Duplicates),
		)
		return nil
	},
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOutput, "output", "o", "", "merged dataset path (default from config)")
	rootCmd.AddCommand(mergeCmd)
}

package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/jobscout/internal/dataset"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [dataset]",
	Short: "Export a dataset to XLSX",
	Long:  "Converts a CSV dataset (the merged table by default) into an XLSX workbook for spreadsheet consumers.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.Merge.OutputPath
		if len(args) == 1 {
			source = args[0]
		}

		t, err := dataset.Read(source)
		if err != nil {
			return eris.Wrapf(err, "read dataset %s", source)
		}

		target := exportOutput
		if target == "" {
			target = trimCSVExt(source) + ".xlsx"
		}

		if err := writeXLSX(target, t); err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("source", source),
			zap.String("path", target),
			zap.Int("rows", len(t.Rows)),
		)
		return nil
	},
}

func writeXLSX(path string, t *dataset.Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("jobs")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range t.Columns {
		header.AddCell().SetString(col)
	}
	for _, row := range t.Rows {
		out := sheet.AddRow()
		for _, col := range t.Columns {
			out.AddCell().SetString(row[col])
		}
	}

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func trimCSVExt(path string) string {
	const ext = ".csv"
	if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
		return path[:len(path)-len(ext)]
	}
	return path
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "XLSX output path (default: dataset path with .xlsx)")
	rootCmd.AddCommand(exportCmd)
}

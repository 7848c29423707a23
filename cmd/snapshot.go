package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/arizon-ai/adlens/internal/pipeline"
)

var (
	snapshotCSVPath  string
	snapshotXLSXPath string
	snapshotOutput   string
	snapshotFormat   string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Analyze an export as a single cohort",
	Long: "Skips the period split and reports the whole filtered dataset: totals, " +
		"an audience matrix, ad rankings by volume and efficiency, and keyword highlights.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := loadRecords(ctx, snapshotCSVPath, snapshotXLSXPath)
		if err != nil {
			return err
		}

		snap, err := pipeline.BuildSnapshot(ctx, records, cfg)
		if err != nil {
			return eris.Wrap(err, "snapshot")
		}

		text := pipeline.FormatSnapshot(snap)
		return writeReport(cmd, snapshotOutput, snapshotFormat, text, snap)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotCSVPath, "csv", "", "path to a Meta Ads CSV export")
	snapshotCmd.Flags().StringVar(&snapshotXLSXPath, "xlsx", "", "path to a Meta Ads XLSX export")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "write the report to a file instead of stdout")
	snapshotCmd.Flags().StringVar(&snapshotFormat, "format", "text", "report format: text, json, or yaml")
	snapshotCmd.MarkFlagsMutuallyExclusive("csv", "xlsx")
	snapshotCmd.MarkFlagsOneRequired("csv", "xlsx")
	rootCmd.AddCommand(snapshotCmd)
}

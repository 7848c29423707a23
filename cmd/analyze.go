package main

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
	"github.com/arizon-ai/adlens/internal/pipeline"
)

var (
	analyzeCSVPath  string
	analyzeXLSXPath string
	analyzeOutput   string
	analyzeFormat   string
	analyzeCutoff   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare two periods of a Meta Ads export",
	Long: "Splits the export into before/after cohorts and reports derived KPIs, " +
		"benchmark compliance, audience and ad rankings, and recommendations. " +
		"The split uses --cutoff when given, the configured period ranges when set, " +
		"and otherwise auto-detects periods from the data's month boundaries.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		records, err := loadRecords(ctx, analyzeCSVPath, analyzeXLSXPath)
		if err != nil {
			return err
		}

		strategy, err := chooseStrategy(records)
		if err != nil {
			return err
		}

		cmp, err := pipeline.Compare(ctx, records, strategy, cfg)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		text := pipeline.FormatComparison(cmp, cfg.Client.Name)
		return writeReport(cmd, analyzeOutput, analyzeFormat, text, cmp)
	},
}

// chooseStrategy picks the cohort split: an explicit cutoff date beats
// configured period ranges, which beat auto-detection.
func chooseStrategy(records []model.Record) (pipeline.SplitStrategy, error) {
	if analyzeCutoff != "" {
		cutoff, err := time.Parse("2006-01-02", analyzeCutoff)
		if err != nil {
			return nil, eris.Wrapf(err, "parse cutoff %q", analyzeCutoff)
		}
		return pipeline.CutoffStrategy{
			Cutoff: cutoff,
			Brand:  pipeline.NewPatternMatcher(pipeline.NewStrategyPattern),
		}, nil
	}

	if cfg.Periods.HasDates() {
		if err := cfg.Periods.ValidatePeriods(); err != nil {
			return nil, err
		}
		p1, err := parseRange(cfg.Periods.Period1)
		if err != nil {
			return nil, eris.Wrap(err, "period1")
		}
		p2, err := parseRange(cfg.Periods.Period2)
		if err != nil {
			return nil, eris.Wrap(err, "period2")
		}
		return pipeline.RangeStrategy{
			Period1: p1,
			Period2: p2,
			Exclude: pipeline.NewSubstringMatcher(cfg.Periods.Period1.ExcludeKeywords),
			Include: pipeline.NewSubstringMatcher(cfg.Periods.Period2.IncludeKeywords),
		}, nil
	}

	detected, ok := pipeline.DetectPeriods(records)
	if !ok {
		return nil, eris.New("no parseable dates in the data; set --cutoff or configure period ranges")
	}
	cfg.Periods.Period1Name = detected.Period1Name
	cfg.Periods.Period2Name = detected.Period2Name
	zap.L().Info("using auto-detected periods",
		zap.String("period1", detected.Period1Name),
		zap.String("period2", detected.Period2Name),
		zap.Strings("objectives", pipeline.DetectObjectives(records)),
	)
	return pipeline.RangeStrategy{
		Period1: detected.Period1,
		Period2: detected.Period2,
	}, nil
}

func parseRange(p config.PeriodConfig) (pipeline.DateRange, error) {
	start, err := time.Parse("2006-01-02", p.StartDate)
	if err != nil {
		return pipeline.DateRange{}, eris.Wrapf(err, "parse start date %q", p.StartDate)
	}
	end, err := time.Parse("2006-01-02", p.EndDate)
	if err != nil {
		return pipeline.DateRange{}, eris.Wrapf(err, "parse end date %q", p.EndDate)
	}
	if end.Before(start) {
		return pipeline.DateRange{}, eris.Errorf("range %s..%s is inverted", p.StartDate, p.EndDate)
	}
	return pipeline.DateRange{Start: start, End: end}, nil
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeCSVPath, "csv", "", "path to a Meta Ads CSV export")
	analyzeCmd.Flags().StringVar(&analyzeXLSXPath, "xlsx", "", "path to a Meta Ads XLSX export")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "report format: text, json, or yaml")
	analyzeCmd.Flags().StringVar(&analyzeCutoff, "cutoff", "", "split on a single date (YYYY-MM-DD) instead of period ranges")
	analyzeCmd.MarkFlagsMutuallyExclusive("csv", "xlsx")
	analyzeCmd.MarkFlagsOneRequired("csv", "xlsx")
	rootCmd.AddCommand(analyzeCmd)
}

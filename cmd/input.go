package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arizon-ai/adlens/internal/fetcher"
	"github.com/arizon-ai/adlens/internal/model"
	"github.com/arizon-ai/adlens/internal/pipeline"
)

// loadRecords reads and normalizes an export. Exactly one of csvPath or
// xlsxPath must be set; commands enforce that via MarkFlagsMutuallyExclusive.
func loadRecords(ctx context.Context, csvPath, xlsxPath string) ([]model.Record, error) {
	var rows []fetcher.Row
	var err error

	switch {
	case csvPath != "":
		rows, err = fetcher.ReadCSV(ctx, csvPath, fetcher.CSVOptions{TrimSpace: true})
		if err != nil {
			return nil, eris.Wrap(err, "read csv")
		}
	case xlsxPath != "":
		rows, err = fetcher.ReadXLSX(xlsxPath, fetcher.XLSXOptions{})
		if err != nil {
			return nil, eris.Wrap(err, "read xlsx")
		}
	default:
		return nil, eris.New("either --csv or --xlsx is required")
	}

	records := pipeline.Normalize(rows)
	zap.L().Info("input loaded",
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// writeReport renders the report in the requested format and writes it to
// the output path, or stdout when none is given. doc is the structured form
// used for json and yaml; text is the human-readable rendering.
func writeReport(cmd *cobra.Command, outPath, format, text string, doc any) error {
	var payload []byte
	switch format {
	case "text":
		payload = []byte(text)
	case "json":
		b, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal json")
		}
		payload = append(b, '\n')
	case "yaml":
		b, err := yaml.Marshal(doc)
		if err != nil {
			return eris.Wrap(err, "marshal yaml")
		}
		payload = b
	default:
		return eris.Errorf("unknown format %q (want text, json, or yaml)", format)
	}

	if outPath == "" {
		_, err := cmd.OutOrStdout().Write(payload)
		return err
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		return eris.Wrap(err, "write report")
	}
	zap.L().Info("report written",
		zap.String("path", outPath),
		zap.String("format", format),
	)
	return nil
}

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
	"github.com/arizon-ai/adlens/internal/pipeline"
)

func setupConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Periods: config.PeriodsConfig{Period1Name: "Period 1", Period2Name: "Period 2"},
	}
	t.Cleanup(func() { cfg = prev })
}

func TestParseRange(t *testing.T) {
	r, err := parseRange(config.PeriodConfig{StartDate: "2026-01-01", EndDate: "2026-01-31"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), r.End)

	_, err = parseRange(config.PeriodConfig{StartDate: "01/01/2026", EndDate: "2026-01-31"})
	assert.Error(t, err)

	_, err = parseRange(config.PeriodConfig{StartDate: "2026-02-01", EndDate: "2026-01-01"})
	assert.Error(t, err, "inverted range")
}

func TestChooseStrategy_CutoffFlag(t *testing.T) {
	setupConfig(t)
	analyzeCutoff = "2026-01-15"
	t.Cleanup(func() { analyzeCutoff = "" })

	s, err := chooseStrategy(nil)
	require.NoError(t, err)
	assert.Equal(t, "cutoff", s.Name())
}

func TestChooseStrategy_BadCutoff(t *testing.T) {
	setupConfig(t)
	analyzeCutoff = "15/01/2026"
	t.Cleanup(func() { analyzeCutoff = "" })

	_, err := chooseStrategy(nil)
	assert.Error(t, err)
}

func TestChooseStrategy_ConfiguredRanges(t *testing.T) {
	setupConfig(t)
	cfg.Periods.Period1 = config.PeriodConfig{StartDate: "2026-01-01", EndDate: "2026-01-31"}
	cfg.Periods.Period2 = config.PeriodConfig{StartDate: "2026-02-01", EndDate: "2026-02-28"}

	s, err := chooseStrategy(nil)
	require.NoError(t, err)
	assert.Equal(t, "range", s.Name())
}

func TestChooseStrategy_IncompleteRangesRejected(t *testing.T) {
	setupConfig(t)
	cfg.Periods.Period1 = config.PeriodConfig{StartDate: "2026-01-01"}

	_, err := chooseStrategy(nil)
	assert.Error(t, err)
}

func TestChooseStrategy_AutoDetection(t *testing.T) {
	setupConfig(t)
	records := []model.Record{
		{StartRaw: "2026-01-10"},
		{StartRaw: "2026-02-10"},
	}

	s, err := chooseStrategy(records)
	require.NoError(t, err)
	assert.Equal(t, "range", s.Name())
	assert.Equal(t, "January 2026", cfg.Periods.Period1Name)
	assert.Equal(t, "February 2026", cfg.Periods.Period2Name)
}

func TestChooseStrategy_NoDatesAnywhere(t *testing.T) {
	setupConfig(t)

	_, err := chooseStrategy([]model.Record{{StartRaw: "bogus"}})
	assert.Error(t, err)
}

func TestChooseStrategy_ReturnsUsableSplit(t *testing.T) {
	setupConfig(t)
	analyzeCutoff = "2026-01-15"
	t.Cleanup(func() { analyzeCutoff = "" })

	s, err := chooseStrategy(nil)
	require.NoError(t, err)

	res := s.Split([]model.Record{
		{AdName: "old", StartRaw: "2026-01-01"},
		{AdName: "new", StartRaw: "2026-02-01"},
	})
	assert.Len(t, res.Before, 1)
	assert.Len(t, res.After, 1)
	assert.IsType(t, pipeline.CutoffStrategy{}, s)
}

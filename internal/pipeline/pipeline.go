package pipeline

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
)

// Snapshot keyword-card thresholds. Cards need more support than the
// comparative ranking because each one headlines the report alone.
const (
	cardMinCount        = 3
	cardBestResults     = 10
	cardBestImpressions = 1000
	cardWorstResults    = 5
	snapshotTopAdsN     = 10
	snapshotByCPRAdsN   = 5
)

// Compare runs the full two-period analysis: filter, split, aggregate each
// cohort concurrently, derive metrics, then rank and diagnose. Empty cohorts
// mark the comparison degenerate but never fail the run.
func Compare(ctx context.Context, records []model.Record, strategy SplitStrategy, cfg *config.Config) (*model.Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := ApplyFilters(records, cfg.Filters)
	split := strategy.Split(filtered)

	var beforeAgg, afterAgg *model.Aggregate
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		beforeAgg = Aggregate(split.Before)
		return nil
	})
	g.Go(func() error {
		afterAgg = Aggregate(split.After)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &model.Comparison{
		RunID:    uuid.NewString(),
		Strategy: strategy.Name(),
		Before: model.CohortReport{
			Name:      cfg.Periods.Period1Name,
			Aggregate: beforeAgg,
			Metrics:   Derive(beforeAgg),
		},
		After: model.CohortReport{
			Name:      cfg.Periods.Period2Name,
			Aggregate: afterAgg,
			Metrics:   Derive(afterAgg),
		},
		Diagnostics: split.Diagnostics,
		Degenerate:  !beforeAgg.HasData() || !afterAgg.HasData(),
	}

	cmp.Winners = DetermineWinners(cmp.Before, cmp.After)
	cmp.BeforeCompliance = CheckCompliance(cmp.Before.Metrics, cfg.Benchmarks)
	cmp.AfterCompliance = CheckCompliance(cmp.After.Metrics, cfg.Benchmarks)

	cmp.BestSegments, cmp.WorstSegments = RankSegments(afterAgg)
	cmp.TopAdsBefore = TopAdsByVolume(beforeAgg)
	cmp.TopAdsAfter = TopAdsByVolume(afterAgg)
	cmp.BestKeywords, cmp.WorstKeywords = RankKeywords(MineKeywords(split.After))

	cmp.CampaignTypes = CampaignTypeActions(beforeAgg, afterAgg)
	cmp.Creatives = CreativePerformance(split.Before, split.After)
	cmp.Projection = ProjectBudget(cfg.Client.MonthlyBudget, cmp.After.Metrics.CostPerConversation)

	cmp.Findings = Diagnose(cmp, cfg.Benchmarks)
	cmp.Findings = append(cmp.Findings, Insights(cmp)...)

	zap.L().Info("pipeline: comparison complete",
		zap.String("run_id", cmp.RunID),
		zap.String("strategy", cmp.Strategy),
		zap.Int("before_records", beforeAgg.Records),
		zap.Int("after_records", afterAgg.Records),
		zap.Bool("degenerate", cmp.Degenerate),
	)
	return cmp, nil
}

// BuildSnapshot analyzes the whole filtered dataset as a single cohort: a
// demographic matrix, ad rankings by volume and efficiency, and four
// headline keyword cards.
func BuildSnapshot(ctx context.Context, records []model.Record, cfg *config.Config) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered := ApplyFilters(records, cfg.Filters)
	agg := Aggregate(filtered)

	snap := &model.Snapshot{
		RunID: uuid.NewString(),
		Cohort: model.CohortReport{
			Name:      "Snapshot",
			Aggregate: agg,
			Metrics:   Derive(agg),
		},
	}

	snap.Matrix, snap.AvgCPR = segmentMatrix(agg)
	topAds := qualifiedAds(agg)
	sortAdsBySpend(topAds)
	snap.TopAds = topN(topAds, snapshotTopAdsN)
	snap.BestAds, snap.WorstAds = adsByEfficiency(agg)
	snap.Keywords = keywordCards(MineKeywords(filtered))

	zap.L().Info("pipeline: snapshot complete",
		zap.String("run_id", snap.RunID),
		zap.Int("records", agg.Records),
		zap.Int("segments", len(snap.Matrix)),
	)
	return snap, nil
}

// segmentMatrix flattens the demographics map into spend-ordered rows and
// averages the cost per result over rows that have results.
func segmentMatrix(agg *model.Aggregate) ([]model.SegmentMatrixRow, float64) {
	rows := make([]model.SegmentMatrixRow, 0, len(agg.Demographics))
	var cprSum float64
	var cprN int
	for name, st := range agg.Demographics {
		row := model.SegmentMatrixRow{
			Segment: name,
			Spend:   st.Spend,
			Results: st.Results,
			CTR:     safeRatio(st.Clicks, st.Impressions) * 100,
			Reach:   st.Reach,
		}
		if st.Results > 0 {
			row.CostPerResult = st.Spend / st.Results
			cprSum += row.CostPerResult
			cprN++
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Spend != rows[j].Spend {
			return rows[i].Spend > rows[j].Spend
		}
		return rows[i].Segment < rows[j].Segment
	})

	var avg float64
	if cprN > 0 {
		avg = cprSum / float64(cprN)
	}
	return rows, avg
}

// adsByEfficiency ranks qualified ads by cost per result: cheapest five and
// most expensive five.
func adsByEfficiency(agg *model.Aggregate) (best, worst []model.AdRank) {
	ranked := qualifiedAds(agg)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CostPerResult != ranked[j].CostPerResult {
			return ranked[i].CostPerResult < ranked[j].CostPerResult
		}
		return ranked[i].Name < ranked[j].Name
	})

	best = topN(ranked, snapshotByCPRAdsN)
	if len(ranked) > len(best) {
		worst = lastNReversed(ranked, snapshotByCPRAdsN)
	}
	return best, worst
}

// keywordCards picks the four headline keywords: cheapest cost per result,
// best CTR, biggest spend, and most expensive cost per result. A card with
// no qualifying keyword is emitted with Present=false so the report can say
// so explicitly.
func keywordCards(keywords map[string]*model.KeywordRank) []model.KeywordCard {
	pick := func(qualify func(*model.KeywordRank) bool, better func(a, b *model.KeywordRank) bool) *model.KeywordRank {
		var best *model.KeywordRank
		for _, kw := range keywords {
			if !qualify(kw) {
				continue
			}
			if best == nil || better(kw, best) || (!better(best, kw) && kw.Word < best.Word) {
				best = kw
			}
		}
		return best
	}

	cheapest := pick(
		func(k *model.KeywordRank) bool { return k.Count > cardMinCount && k.Results > cardBestResults },
		func(a, b *model.KeywordRank) bool { return a.CostPerResult < b.CostPerResult },
	)
	bestCTR := pick(
		func(k *model.KeywordRank) bool {
			return k.Count > cardMinCount && k.Impressions > cardBestImpressions
		},
		func(a, b *model.KeywordRank) bool { return a.CTR > b.CTR },
	)
	topSpend := pick(
		func(k *model.KeywordRank) bool { return k.Count > cardMinCount },
		func(a, b *model.KeywordRank) bool { return a.Spend > b.Spend },
	)
	priciest := pick(
		func(k *model.KeywordRank) bool {
			return k.Count > cardMinCount && k.Results > cardWorstResults && !math.IsInf(k.CostPerResult, 1)
		},
		func(a, b *model.KeywordRank) bool { return a.CostPerResult > b.CostPerResult },
	)

	card := func(label, unit string, kw *model.KeywordRank, value func(*model.KeywordRank) float64) model.KeywordCard {
		c := model.KeywordCard{Label: label, Unit: unit}
		if kw != nil {
			c.Word = kw.Word
			c.Value = value(kw)
			c.Present = true
		}
		return c
	}

	return []model.KeywordCard{
		card("best_cost_per_result", "USD", cheapest, func(k *model.KeywordRank) float64 { return k.CostPerResult }),
		card("best_ctr", "%", bestCTR, func(k *model.KeywordRank) float64 { return k.CTR }),
		card("top_spend", "USD", topSpend, func(k *model.KeywordRank) float64 { return k.Spend }),
		card("worst_cost_per_result", "USD", priciest, func(k *model.KeywordRank) float64 { return k.CostPerResult }),
	}
}

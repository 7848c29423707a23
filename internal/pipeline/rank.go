package pipeline

import (
	"math"
	"regexp"
	"sort"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
)

// Ranking thresholds. Ads below the spend floor or without results carry too
// much noise to rank; keywords need a minimum occurrence and result base.
const (
	adSpendFloor        = 5.0
	keywordMinCount     = 2
	keywordMinResults   = 5
	segmentTopN         = 3
	adTopN              = 5
	keywordBestN        = 4
	keywordWorstN       = 2
	frequencyTargetLow  = 1.5
	frequencyTargetHigh = 2.5
)

// DetermineWinners produces the per-metric winner table for two cohorts'
// derived metrics. Direction per metric is fixed: higher wins for CTR,
// conversations, conversion rate, reach/$, and quality score; lower wins for
// spend, CPM, CPC, and cost-per-conversation; frequency is a range target.
func DetermineWinners(before, after model.CohortReport) []model.MetricWinner {
	b, a := before.Metrics, after.Metrics
	bAgg, aAgg := before.Aggregate, after.Aggregate

	winners := []model.MetricWinner{
		lowerWins("spend", bAgg.Spend, aAgg.Spend),
		higherWins("conversations", bAgg.Conversations, aAgg.Conversations),
		lowerWins("cost_per_conversation", b.CostPerConversation, a.CostPerConversation),
		higherWins("ctr", b.CTR, a.CTR),
		lowerWins("cpm", b.CPM, a.CPM),
		lowerWins("cpc", b.CPC, a.CPC),
		higherWins("conversion_rate", b.ConversionRate, a.ConversionRate),
		higherWins("reach_per_dollar", b.ReachPerDollar, a.ReachPerDollar),
		frequencyWinner(b.Frequency, a.Frequency),
		higherWins("quality_score", b.QualityScore, a.QualityScore),
	}
	return winners
}

func higherWins(metric string, before, after float64) model.MetricWinner {
	w := model.MetricWinner{Metric: metric, Before: before, After: after}
	switch {
	case after > before:
		w.Winner = model.SideAfter
	case before > after:
		w.Winner = model.SideBefore
	}
	return w
}

func lowerWins(metric string, before, after float64) model.MetricWinner {
	w := model.MetricWinner{Metric: metric, Before: before, After: after}
	switch {
	case after < before:
		w.Winner = model.SideAfter
	case before < after:
		w.Winner = model.SideBefore
	}
	return w
}

// frequencyWinner applies the range target: a side is favorable only when it
// sits inside [1.5, 2.5] and the other side does not. Both inside (or both
// outside) is a tie.
func frequencyWinner(before, after float64) model.MetricWinner {
	w := model.MetricWinner{Metric: "frequency", Before: before, After: after}
	bIn := before >= frequencyTargetLow && before <= frequencyTargetHigh
	aIn := after >= frequencyTargetLow && after <= frequencyTargetHigh
	switch {
	case aIn && !bIn:
		w.Winner = model.SideAfter
	case bIn && !aIn:
		w.Winner = model.SideBefore
	}
	return w
}

// CheckCompliance scores one cohort's metrics against the benchmark table.
// CTR is a floor; CPM, CPC, CPL, and frequency are ceilings. An unbounded
// cost-per-conversation never meets its ceiling.
func CheckCompliance(m model.DerivedMetrics, b config.BenchmarksConfig) model.Compliance {
	checks := []model.BenchmarkCheck{
		{Metric: "ctr", Value: m.CTR, Threshold: b.CTR, Ceiling: false},
		{Metric: "cpm", Value: m.CPM, Threshold: b.CPM, Ceiling: true},
		{Metric: "cpc", Value: m.CPC, Threshold: b.CPC, Ceiling: true},
		{Metric: "cpl", Value: m.CostPerConversation, Threshold: b.CPL, Ceiling: true},
		{Metric: "frequency", Value: m.Frequency, Threshold: b.Frequency, Ceiling: true},
	}

	score := 0
	for i := range checks {
		c := &checks[i]
		if c.Ceiling {
			c.Meets = c.Value <= c.Threshold
		} else {
			c.Meets = c.Value >= c.Threshold
		}
		if c.Meets {
			score++
		}
	}

	return model.Compliance{Checks: checks, Score: score}
}

// RankSegments orders a cohort's demographic segments by cost per
// conversation, ascending. Segments without conversations are excluded.
// Returns the best three and the worst three (worst first).
func RankSegments(agg *model.Aggregate) (best, worst []model.SegmentRank) {
	var ranked []model.SegmentRank
	for name, st := range agg.Demographics {
		if st.Conversations <= 0 {
			continue
		}
		ranked = append(ranked, model.SegmentRank{
			Name:                name,
			Spend:               st.Spend,
			Conversations:       st.Conversations,
			CostPerConversation: st.Spend / st.Conversations,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CostPerConversation != ranked[j].CostPerConversation {
			return ranked[i].CostPerConversation < ranked[j].CostPerConversation
		}
		return ranked[i].Name < ranked[j].Name
	})

	best = topN(ranked, segmentTopN)
	worst = lastNReversed(ranked, segmentTopN)
	return best, worst
}

// qualifiedAds flattens a cohort's ad sub-totals into rankable entries,
// filtered to ads with results and more than the minimum spend.
func qualifiedAds(agg *model.Aggregate) []model.AdRank {
	var ranked []model.AdRank
	for name, st := range agg.Ads {
		if st.Results <= 0 || st.Spend <= adSpendFloor {
			continue
		}
		ranked = append(ranked, model.AdRank{
			Name:          name,
			Spend:         st.Spend,
			Results:       st.Results,
			Reach:         st.Reach,
			CostPerResult: st.Spend / st.Results,
			CTR:           safeRatio(st.Clicks, st.Impressions) * 100,
		})
	}
	return ranked
}

func sortAdsBySpend(ads []model.AdRank) {
	sort.Slice(ads, func(i, j int) bool {
		if ads[i].Spend != ads[j].Spend {
			return ads[i].Spend > ads[j].Spend
		}
		return ads[i].Name < ads[j].Name
	})
}

// TopAdsByVolume returns a cohort's biggest qualified ads by spend.
func TopAdsByVolume(agg *model.Aggregate) []model.AdRank {
	ranked := qualifiedAds(agg)
	sortAdsBySpend(ranked)
	return topN(ranked, adTopN)
}

// RankKeywords orders mined keywords by cost per result, ascending, after
// filtering to keywords seen often enough to mean something. Returns the
// best four and worst two.
func RankKeywords(keywords map[string]*model.KeywordRank) (best, worst []model.KeywordRank) {
	var ranked []model.KeywordRank
	for _, kw := range keywords {
		if kw.Count <= keywordMinCount || kw.Results <= keywordMinResults {
			continue
		}
		ranked = append(ranked, *kw)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CostPerResult != ranked[j].CostPerResult {
			return ranked[i].CostPerResult < ranked[j].CostPerResult
		}
		return ranked[i].Word < ranked[j].Word
	})

	best = topN(ranked, keywordBestN)
	if len(ranked) > len(best) {
		worst = lastNReversed(ranked, keywordWorstN)
	}
	return best, worst
}

// ProjectBudget estimates conversions for a hypothetical monthly spend from
// the after cohort's cost per conversation. An unbounded or zero cost yields
// an undefined projection (zero conversions, never NaN).
func ProjectBudget(budget, costPerConversation float64) model.Projection {
	p := model.Projection{Budget: budget, CostPerConversation: costPerConversation}
	if costPerConversation <= 0 || math.IsInf(costPerConversation, 1) {
		return p
	}
	p.Defined = true
	p.Conversations = int(math.Round(budget / costPerConversation))
	return p
}

// Campaign-type action labels.
const (
	ActionScale    = "SCALE"
	ActionReduce   = "REDUCE"
	ActionEvaluate = "EVALUATE"
	ActionKeep     = "KEEP"
	ActionOptimize = "OPTIMIZE"
)

var visitsTypeRe = regexp.MustCompile(`(?i)visitas`)

// CampaignTypeActions builds the cross-period result-type table with a
// suggested action per type: conversation campaigns scale, expensive
// engagement campaigns shrink, visit campaigns get a second look, the rest
// keep or optimize depending on whether their CPR improved.
func CampaignTypeActions(before, after *model.Aggregate) []model.TypeAction {
	seen := make(map[string]bool)
	var types []string
	for t := range before.ResultTypes {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	for t := range after.ResultTypes {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	actions := make([]model.TypeAction, 0, len(types))
	for _, t := range types {
		var b, a model.SubTotals
		if st, ok := before.ResultTypes[t]; ok {
			b = *st
		}
		if st, ok := after.ResultTypes[t]; ok {
			a = *st
		}

		ta := model.TypeAction{
			Type:          t,
			BeforeSpend:   b.Spend,
			BeforeResults: b.Results,
			BeforeCPR:     cprOrInf(b.Spend, b.Results),
			AfterSpend:    a.Spend,
			AfterResults:  a.Results,
			AfterCPR:      cprOrInf(a.Spend, a.Results),
		}

		switch {
		case IsConversationType(t):
			ta.Action = ActionScale
		case engagementTypeRe.MatchString(t) && ta.AfterCPR > 0.05:
			ta.Action = ActionReduce
		case visitsTypeRe.MatchString(t):
			ta.Action = ActionEvaluate
		case ta.AfterCPR < ta.BeforeCPR:
			ta.Action = ActionKeep
		default:
			ta.Action = ActionOptimize
		}

		actions = append(actions, ta)
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].AfterSpend != actions[j].AfterSpend {
			return actions[i].AfterSpend > actions[j].AfterSpend
		}
		return actions[i].Type < actions[j].Type
	})
	return actions
}

var engagementTypeRe = regexp.MustCompile(`(?i)interacci`)

func cprOrInf(spend, results float64) float64 {
	if results <= 0 {
		return math.Inf(1)
	}
	return spend / results
}

// creativePatterns maps creative-format names to the ad-name patterns that
// identify them.
var creativePatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"Reel", regexp.MustCompile(`(?i)reel`)},
	{"Carrusel", regexp.MustCompile(`(?i)carrusel`)},
	{"Lista", regexp.MustCompile(`(?i)lista`)},
	{"Publicación", regexp.MustCompile(`(?i)publicaci|instagram:`)},
	{"Unboxing", regexp.MustCompile(`(?i)unboxing`)},
}

// CreativePerformance accumulates spend and conversation results per
// creative-format pattern across both cohorts. An ad name can match several
// patterns and contributes to each. Patterns with no spend on either side
// are dropped; the rest sort by after-period cost per conversation.
func CreativePerformance(before, after []model.Record) []model.CreativeRank {
	type bucket struct {
		spend float64
		conv  float64
	}
	buckets := make(map[string]*[2]bucket, len(creativePatterns))
	for _, p := range creativePatterns {
		buckets[p.name] = &[2]bucket{}
	}

	accumulate := func(cohort []model.Record, side int) {
		for _, r := range cohort {
			conv := IsConversationType(r.ResultType)
			for _, p := range creativePatterns {
				if !p.re.MatchString(r.AdName) {
					continue
				}
				b := &buckets[p.name][side]
				b.spend += r.Spend
				if conv {
					b.conv += r.Results
				}
			}
		}
	}
	accumulate(before, 0)
	accumulate(after, 1)

	var ranked []model.CreativeRank
	for _, p := range creativePatterns {
		b := buckets[p.name]
		if b[0].spend == 0 && b[1].spend == 0 {
			continue
		}
		ranked = append(ranked, model.CreativeRank{
			Name:                p.name,
			BeforeSpend:         b[0].spend,
			BeforeConversations: b[0].conv,
			BeforeCPL:           cprOrInf(b[0].spend, b[0].conv),
			AfterSpend:          b[1].spend,
			AfterConversations:  b[1].conv,
			AfterCPL:            cprOrInf(b[1].spend, b[1].conv),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		return finiteOrLarge(ranked[i].AfterCPL) < finiteOrLarge(ranked[j].AfterCPL)
	})
	return ranked
}

// finiteOrLarge maps +Inf to a large sortable value so unbounded costs rank
// last without poisoning comparisons.
func finiteOrLarge(v float64) float64 {
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func topN[T any](s []T, n int) []T {
	if len(s) < n {
		n = len(s)
	}
	out := make([]T, n)
	copy(out, s[:n])
	return out
}

// lastNReversed returns the final n elements in reverse order (worst first).
func lastNReversed[T any](s []T, n int) []T {
	if len(s) < n {
		n = len(s)
	}
	out := make([]T, 0, n)
	for i := len(s) - 1; i >= len(s)-n; i-- {
		out = append(out, s[i])
	}
	return out
}

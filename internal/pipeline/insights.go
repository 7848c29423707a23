package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arizon-ai/adlens/internal/config"
	"github.com/arizon-ai/adlens/internal/model"
)

const (
	frequencyFatigue      = 2.5
	frequencyElevated     = 2.0
	cpmBlowoutFactor      = 1.5
	conversionShareFloor  = 80.0
	segmentInsightFloor   = 5.0
	reallocationMinRanks  = 4
	ctrLiftThreshold      = 20.0
	untappedReachFloor    = 5000.0
	untappedConvCeiling   = 50.0
	untappedSegmentsShown = 3
)

// Diagnose walks a finished comparison and emits the human-readable findings
// for the report: objective mismatches, cost movement, fatigue and benchmark
// misses, audience standouts, and the budget projection.
func Diagnose(cmp *model.Comparison, bench config.BenchmarksConfig) []model.Finding {
	var findings []model.Finding
	add := func(sev model.Severity, format string, args ...any) {
		findings = append(findings, model.Finding{
			Severity: sev,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	before, after := cmp.Before, cmp.After

	if before.Aggregate.Conversations == 0 && before.Aggregate.VanityResults > 0 {
		add(model.SeverityDanger,
			"Before period was optimized for engagement: %.0f results but zero conversations",
			before.Aggregate.VanityResults)
	}
	if after.Aggregate.Conversations == 0 && after.Aggregate.Records > 0 {
		add(model.SeverityDanger, "After period produced no conversations")
	}

	bCPL, aCPL := before.Metrics.CostPerConversation, after.Metrics.CostPerConversation
	if !math.IsInf(bCPL, 1) && !math.IsInf(aCPL, 1) && bCPL > 0 {
		delta := (bCPL - aCPL) / bCPL * 100
		switch {
		case delta > 0:
			add(model.SeveritySuccess, "Cost per conversation improved %.1f%% ($%.2f to $%.2f)",
				delta, bCPL, aCPL)
		case delta < 0:
			add(model.SeverityWarning, "Cost per conversation worsened %.1f%% ($%.2f to $%.2f)",
				-delta, bCPL, aCPL)
		}
	}

	if after.Metrics.Frequency > frequencyFatigue {
		add(model.SeverityWarning,
			"Frequency at %.2f signals audience fatigue; widen targeting or rotate creatives",
			after.Metrics.Frequency)
	}
	if after.Metrics.CTR < bench.CTR && after.Aggregate.Impressions > 0 {
		add(model.SeverityWarning, "CTR %.2f%% is below the %.2f%% benchmark",
			after.Metrics.CTR, bench.CTR)
	}
	if after.Metrics.CPM > bench.CPM*cpmBlowoutFactor && after.Aggregate.Impressions > 0 {
		add(model.SeverityWarning, "CPM $%.2f is well above the $%.2f benchmark; review placements and audience overlap",
			after.Metrics.CPM, bench.CPM)
	}

	if len(cmp.BestSegments) > 0 {
		best := cmp.BestSegments[0]
		if best.Conversations > segmentInsightFloor {
			add(model.SeveritySuccess, "Best audience: %s at $%.2f per conversation (%.0f conversations)",
				best.Name, best.CostPerConversation, best.Conversations)
		}
	}
	if len(cmp.WorstSegments) > 0 {
		worst := cmp.WorstSegments[0]
		if worst.Conversations > segmentInsightFloor {
			add(model.SeverityWarning, "Most expensive audience: %s at $%.2f per conversation",
				worst.Name, worst.CostPerConversation)
		}
	}

	if cmp.Projection.Defined {
		add(model.SeverityInfo, "A $%.0f monthly budget projects to about %d conversations",
			cmp.Projection.Budget, cmp.Projection.Conversations)
	}

	return findings
}

// Insights appends actionable tips derived from the comparison: budget
// reallocation estimates, keyword signals, spend mix, and creative-refresh
// prompts.
func Insights(cmp *model.Comparison) []model.Finding {
	var tips []model.Finding
	add := func(format string, args ...any) {
		tips = append(tips, model.Finding{
			Severity: model.SeverityTip,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	// Reallocation only makes sense with enough ranked segments to shift
	// between.
	if len(cmp.BestSegments)+len(cmp.WorstSegments) >= reallocationMinRanks {
		best, worst := cmp.BestSegments[0], cmp.WorstSegments[0]
		if best.CostPerConversation > 0 && worst.Spend > 0 && best.Name != worst.Name {
			extra := worst.Spend / best.CostPerConversation
			add("Reallocating the $%.2f spent on %s into %s would buy roughly %.0f more conversations",
				worst.Spend, worst.Name, best.Name, extra)
		}
	}

	if len(cmp.BestSegments) > 0 && len(cmp.WorstSegments) > 0 {
		bestCPL := cmp.BestSegments[0].CostPerConversation
		var savings float64
		for _, w := range cmp.WorstSegments {
			if diff := w.Spend - w.Conversations*bestCPL; diff > 0 {
				savings += diff
			}
		}
		if savings > 0 && bestCPL > 0 {
			add("Matching the best segment's cost per conversation across the weakest segments would free up about $%.2f",
				savings)
		}
	}

	if untapped := untappedSegments(cmp.After.Aggregate); len(untapped) > 0 {
		add("Segments with reach but few conversations: %s; test conversation-objective creatives there",
			strings.Join(untapped, ", "))
	}

	if len(cmp.BestKeywords) > 0 {
		kw := cmp.BestKeywords[0]
		add("Ads mentioning %q convert at $%.2f per result; lean on it in new creatives",
			kw.Word, kw.CostPerResult)
	}

	if share := conversationSpendShare(cmp.After.Aggregate); share < conversionShareFloor && cmp.After.Aggregate.Spend > 0 {
		add("Only %.0f%% of after-period spend went to conversation campaigns; shift budget from engagement objectives",
			share)
	}

	if f := cmp.After.Metrics.Frequency; f > frequencyElevated && f <= frequencyFatigue {
		add("Frequency of %.2f is creeping up; prepare fresh creatives before fatigue sets in", f)
	}

	if b, a := cmp.Before.Metrics.CTR, cmp.After.Metrics.CTR; b > 0 {
		if lift := (a - b) / b * 100; lift > ctrLiftThreshold {
			add("CTR is up %.0f%% period over period; current creatives have headroom to scale", lift)
		}
	}

	return tips
}

// untappedSegments lists demographic segments with real reach but almost no
// conversations, capped to the first few alphabetically.
func untappedSegments(agg *model.Aggregate) []string {
	var names []string
	for name, st := range agg.Demographics {
		if st.Reach > untappedReachFloor && st.Conversations < untappedConvCeiling {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) > untappedSegmentsShown {
		names = names[:untappedSegmentsShown]
	}
	return names
}

// conversationSpendShare is the percentage of a cohort's spend that went to
// conversation-type result rows.
func conversationSpendShare(agg *model.Aggregate) float64 {
	if agg.Spend == 0 {
		return 0
	}
	var conv float64
	for t, st := range agg.ResultTypes {
		if IsConversationType(t) {
			conv += st.Spend
		}
	}
	return conv / agg.Spend * 100
}

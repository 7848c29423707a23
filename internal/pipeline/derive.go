package pipeline

import (
	"math"

	"github.com/arizon-ai/adlens/internal/model"
)

// safeRatio returns num/den, or 0 when the denominator is 0. This is the
// zero-denominator policy for every ratio except cost-per-conversation.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Derive computes the ratio KPIs from a finalized aggregate.
//
// Cost-per-conversation is the one metric that goes to +Inf instead of 0 on
// an empty denominator: an unknown cost must rank as worse than any finite
// cost, where a 0 would rank as best.
func Derive(agg *model.Aggregate) model.DerivedMetrics {
	m := model.DerivedMetrics{
		CTR:            safeRatio(agg.Clicks, agg.Impressions) * 100,
		CPM:            safeRatio(agg.Spend, agg.Impressions) * 1000,
		CPC:            safeRatio(agg.Spend, agg.Clicks),
		CostPerResult:  safeRatio(agg.Spend, agg.Results),
		Frequency:      safeRatio(agg.Impressions, agg.Reach),
		ConversionRate: safeRatio(agg.Conversations, agg.Clicks) * 100,

		ReachPerDollar:       safeRatio(agg.Reach, agg.Spend),
		ImpressionsPerDollar: safeRatio(agg.Impressions, agg.Spend),
		ClicksPerDollar:      safeRatio(agg.Clicks, agg.Spend),
		ConversationsPer100:  safeRatio(agg.Conversations, agg.Spend) * 100,
	}

	if agg.Conversations > 0 {
		m.CostPerConversation = agg.Spend / agg.Conversations
	} else {
		m.CostPerConversation = math.Inf(1)
	}

	if agg.Spend > 0 && agg.Conversations > 0 {
		m.QualityScore = agg.Conversations / agg.Spend * 100
	}

	return m
}

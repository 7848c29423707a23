package model

import "math"

// SubTotals holds the per-group sums inside an Aggregate's mapping
// structures. Not every mapping fills every field: result-type groups carry
// spend and results only, demographic groups additionally carry
// conversations, ad groups carry everything except conversations.
type SubTotals struct {
	Spend         float64 `json:"spend" yaml:"spend"`
	Results       float64 `json:"results" yaml:"results"`
	Reach         float64 `json:"reach" yaml:"reach"`
	Impressions   float64 `json:"impressions" yaml:"impressions"`
	Clicks        float64 `json:"clicks" yaml:"clicks"`
	Conversations float64 `json:"conversations" yaml:"conversations"`
}

// Aggregate is the result of folding one cohort's records. Mutable while the
// aggregator builds it, treated as read-only afterwards.
type Aggregate struct {
	Records       int     `json:"records" yaml:"records"`
	Spend         float64 `json:"spend" yaml:"spend"`
	Results       float64 `json:"results" yaml:"results"`
	Reach         float64 `json:"reach" yaml:"reach"`
	Impressions   float64 `json:"impressions" yaml:"impressions"`
	Clicks        float64 `json:"clicks" yaml:"clicks"`
	Conversations float64 `json:"conversations" yaml:"conversations"`
	VanityResults float64 `json:"vanity_results" yaml:"vanity_results"`

	ResultTypes  map[string]*SubTotals `json:"result_types" yaml:"result_types"`
	Demographics map[string]*SubTotals `json:"demographics" yaml:"demographics"`
	Ads          map[string]*SubTotals `json:"ads" yaml:"ads"`
}

// NewAggregate returns an empty aggregate with initialized mappings.
func NewAggregate() *Aggregate {
	return &Aggregate{
		ResultTypes:  make(map[string]*SubTotals),
		Demographics: make(map[string]*SubTotals),
		Ads:          make(map[string]*SubTotals),
	}
}

// DerivedMetrics holds the ratio KPIs computed from a finalized Aggregate.
// Every field is well-defined for every input: zero denominators yield 0,
// except CostPerConversation which yields +Inf (an unbounded cost must
// compare as worse than any finite value).
type DerivedMetrics struct {
	CTR                 float64 `json:"ctr" yaml:"ctr"`                   // clicks/impressions × 100
	CPM                 float64 `json:"cpm" yaml:"cpm"`                   // spend/impressions × 1000
	CPC                 float64 `json:"cpc" yaml:"cpc"`                   // spend/clicks
	CostPerResult       float64 `json:"cost_per_result" yaml:"cost_per_result"`       // spend/results
	CostPerConversation float64 `json:"cost_per_conversation" yaml:"cost_per_conversation"` // spend/conversations, +Inf when no conversations
	Frequency           float64 `json:"frequency" yaml:"frequency"`             // impressions/reach
	ConversionRate      float64 `json:"conversion_rate" yaml:"conversion_rate"`       // conversations/clicks × 100
	QualityScore        float64 `json:"quality_score" yaml:"quality_score"`         // conversations/spend × 100

	ReachPerDollar       float64 `json:"reach_per_dollar" yaml:"reach_per_dollar"`
	ImpressionsPerDollar float64 `json:"impressions_per_dollar" yaml:"impressions_per_dollar"`
	ClicksPerDollar      float64 `json:"clicks_per_dollar" yaml:"clicks_per_dollar"`
	ConversationsPer100  float64 `json:"conversations_per_100" yaml:"conversations_per_100"`
}

// HasData reports whether the aggregate saw at least one record. Comparisons
// against an empty cohort are degenerate and should be flagged by the caller.
func (a *Aggregate) HasData() bool {
	return a != nil && a.Records > 0
}

// Undefined reports whether the cost-per-conversation is unbounded.
func (m DerivedMetrics) Undefined() bool {
	return math.IsInf(m.CostPerConversation, 1)
}

package model

// MetricWinner records which cohort had the more favorable value for one
// tracked metric.
type MetricWinner struct {
	Metric string  `json:"metric" yaml:"metric"`
	Before float64 `json:"before" yaml:"before"`
	After  float64 `json:"after" yaml:"after"`
	Winner Side    `json:"winner" yaml:"winner"` // SideNone on a tie
}

// BenchmarkCheck is one benchmark-compliance row for a single cohort.
type BenchmarkCheck struct {
	Metric    string  `json:"metric" yaml:"metric"`
	Value     float64 `json:"value" yaml:"value"`
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Ceiling   bool    `json:"ceiling" yaml:"ceiling"` // true: value must be ≤ threshold; false: ≥
	Meets     bool    `json:"meets" yaml:"meets"`
}

// Compliance is a cohort's full benchmark scorecard. Score counts the checks
// that pass; cohorts keep independent scores, ties are not broken.
type Compliance struct {
	Checks []BenchmarkCheck `json:"checks" yaml:"checks"`
	Score  int              `json:"score" yaml:"score"`
}

// SegmentRank is one demographic segment's cost-efficiency entry.
type SegmentRank struct {
	Name                string  `json:"name" yaml:"name"`
	Spend               float64 `json:"spend" yaml:"spend"`
	Conversations       float64 `json:"conversations" yaml:"conversations"`
	CostPerConversation float64 `json:"cost_per_conversation" yaml:"cost_per_conversation"`
}

// AdRank is one ad's entry in a volume or efficiency ranking.
type AdRank struct {
	Name          string  `json:"name" yaml:"name"`
	Spend         float64 `json:"spend" yaml:"spend"`
	Results       float64 `json:"results" yaml:"results"`
	Reach         float64 `json:"reach" yaml:"reach"`
	CostPerResult float64 `json:"cost_per_result" yaml:"cost_per_result"`
	CTR           float64 `json:"ctr" yaml:"ctr"`
}

// KeywordRank is one mined ad-name keyword with its accumulated totals.
type KeywordRank struct {
	Word          string  `json:"word" yaml:"word"`
	Count         int     `json:"count" yaml:"count"`
	Spend         float64 `json:"spend" yaml:"spend"`
	Results       float64 `json:"results" yaml:"results"`
	Impressions   float64 `json:"impressions" yaml:"impressions"`
	Clicks        float64 `json:"clicks" yaml:"clicks"`
	CostPerResult float64 `json:"cost_per_result" yaml:"cost_per_result"`
	CTR           float64 `json:"ctr" yaml:"ctr"`
}

// TypeAction is the cross-period view of one result type with a suggested
// action label.
type TypeAction struct {
	Type          string  `json:"type" yaml:"type"`
	BeforeSpend   float64 `json:"before_spend" yaml:"before_spend"`
	BeforeResults float64 `json:"before_results" yaml:"before_results"`
	BeforeCPR     float64 `json:"before_cpr" yaml:"before_cpr"` // +Inf when no results
	AfterSpend    float64 `json:"after_spend" yaml:"after_spend"`
	AfterResults  float64 `json:"after_results" yaml:"after_results"`
	AfterCPR      float64 `json:"after_cpr" yaml:"after_cpr"`
	Action        string  `json:"action" yaml:"action"`
}

// CreativeRank is the cross-period performance of one creative-format
// pattern (reel, carousel, price list, ...).
type CreativeRank struct {
	Name                string  `json:"name" yaml:"name"`
	BeforeSpend         float64 `json:"before_spend" yaml:"before_spend"`
	BeforeConversations float64 `json:"before_conversations" yaml:"before_conversations"`
	BeforeCPL           float64 `json:"before_cpl" yaml:"before_cpl"` // +Inf when no conversations
	AfterSpend          float64 `json:"after_spend" yaml:"after_spend"`
	AfterConversations  float64 `json:"after_conversations" yaml:"after_conversations"`
	AfterCPL            float64 `json:"after_cpl" yaml:"after_cpl"`
}

// Severity classifies a diagnostic finding.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
	SeverityTip     Severity = "tip"
)

// Finding is one auto-diagnosis line for the report.
type Finding struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// Projection estimates conversions for a hypothetical budget using the
// after cohort's cost per conversation.
type Projection struct {
	Budget              float64 `json:"budget" yaml:"budget"`
	Conversations       int     `json:"conversations" yaml:"conversations"`
	CostPerConversation float64 `json:"cost_per_conversation" yaml:"cost_per_conversation"`
	Defined             bool    `json:"defined" yaml:"defined"` // false when the after CPL is unbounded
}

// SplitDiagnostics counts records the classifier could not place.
type SplitDiagnostics struct {
	Skipped int `json:"skipped" yaml:"skipped"` // dated but outside both periods
	NoDate  int `json:"no_date" yaml:"no_date"` // unparseable or missing date
}

// CohortReport pairs a cohort's aggregate with its derived metrics.
type CohortReport struct {
	Name      string         `json:"name" yaml:"name"`
	Aggregate *Aggregate     `json:"aggregate" yaml:"aggregate"`
	Metrics   DerivedMetrics `json:"metrics" yaml:"metrics"`
}

// Comparison is the full output of one comparative analysis run, handed to
// the presentation layer.
type Comparison struct {
	RunID       string           `json:"run_id" yaml:"run_id"`
	Strategy    string           `json:"strategy" yaml:"strategy"`
	Before      CohortReport     `json:"before" yaml:"before"`
	After       CohortReport     `json:"after" yaml:"after"`
	Diagnostics SplitDiagnostics `json:"diagnostics" yaml:"diagnostics"`
	Degenerate  bool             `json:"degenerate" yaml:"degenerate"` // at least one cohort is empty

	Winners          []MetricWinner `json:"winners" yaml:"winners"`
	BeforeCompliance Compliance     `json:"before_compliance" yaml:"before_compliance"`
	AfterCompliance  Compliance     `json:"after_compliance" yaml:"after_compliance"`

	BestSegments  []SegmentRank `json:"best_segments" yaml:"best_segments"`
	WorstSegments []SegmentRank `json:"worst_segments" yaml:"worst_segments"`
	TopAdsBefore  []AdRank      `json:"top_ads_before" yaml:"top_ads_before"`
	TopAdsAfter   []AdRank      `json:"top_ads_after" yaml:"top_ads_after"`
	BestKeywords  []KeywordRank `json:"best_keywords" yaml:"best_keywords"`
	WorstKeywords []KeywordRank `json:"worst_keywords" yaml:"worst_keywords"`

	CampaignTypes []TypeAction   `json:"campaign_types" yaml:"campaign_types"`
	Creatives     []CreativeRank `json:"creatives" yaml:"creatives"`
	Findings      []Finding      `json:"findings" yaml:"findings"`
	Projection    Projection     `json:"projection" yaml:"projection"`
}

// SegmentMatrixRow is one row of the snapshot's demographic matrix.
type SegmentMatrixRow struct {
	Segment       string  `json:"segment" yaml:"segment"`
	Spend         float64 `json:"spend" yaml:"spend"`
	Results       float64 `json:"results" yaml:"results"`
	CostPerResult float64 `json:"cost_per_result" yaml:"cost_per_result"`
	CTR           float64 `json:"ctr" yaml:"ctr"`
	Reach         float64 `json:"reach" yaml:"reach"`
}

// KeywordCard is one headline keyword in the snapshot report.
type KeywordCard struct {
	Label   string  `json:"label" yaml:"label"`
	Word    string  `json:"word" yaml:"word"`
	Value   float64 `json:"value" yaml:"value"`
	Unit    string  `json:"unit" yaml:"unit"`
	Present bool    `json:"present" yaml:"present"`
}

// Snapshot is the single-cohort report: no period split, the whole filtered
// dataset analyzed as one cohort.
type Snapshot struct {
	RunID    string             `json:"run_id" yaml:"run_id"`
	Cohort   CohortReport       `json:"cohort" yaml:"cohort"`
	Matrix   []SegmentMatrixRow `json:"matrix" yaml:"matrix"`
	AvgCPR   float64            `json:"avg_cpr" yaml:"avg_cpr"` // mean of matrix rows' cost-per-result
	TopAds   []AdRank           `json:"top_ads" yaml:"top_ads"`
	BestAds  []AdRank           `json:"best_ads" yaml:"best_ads"`
	WorstAds []AdRank           `json:"worst_ads" yaml:"worst_ads"`
	Keywords []KeywordCard      `json:"keywords" yaml:"keywords"`
}

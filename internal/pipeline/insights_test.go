package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizon-ai/adlens/internal/model"
)

func comparisonFixture() *model.Comparison {
	before := model.NewAggregate()
	before.Records = 10
	before.Spend = 100
	before.Impressions = 50000
	before.Reach = 20000
	before.Clicks = 500
	before.Conversations = 4
	before.VanityResults = 100

	after := model.NewAggregate()
	after.Records = 10
	after.Spend = 100
	after.Impressions = 40000
	after.Reach = 20000
	after.Clicks = 800
	after.Conversations = 10

	return &model.Comparison{
		Before: model.CohortReport{Name: "Jan", Aggregate: before, Metrics: Derive(before)},
		After:  model.CohortReport{Name: "Feb", Aggregate: after, Metrics: Derive(after)},
	}
}

func severityCount(findings []model.Finding, sev model.Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}

func TestDiagnose_CPLImprovement(t *testing.T) {
	cmp := comparisonFixture()

	findings := Diagnose(cmp, benchmarks())

	require.NotEmpty(t, findings)
	assert.GreaterOrEqual(t, severityCount(findings, model.SeveritySuccess), 1)
	found := false
	for _, f := range findings {
		if f.Severity == model.SeveritySuccess {
			assert.Contains(t, f.Message, "improved")
			found = true
		}
	}
	assert.True(t, found)
}

func TestDiagnose_ObjectiveMismatch(t *testing.T) {
	cmp := comparisonFixture()
	cmp.Before.Aggregate.Conversations = 0
	cmp.Before.Aggregate.VanityResults = 500
	cmp.Before.Metrics = Derive(cmp.Before.Aggregate)

	findings := Diagnose(cmp, benchmarks())

	assert.GreaterOrEqual(t, severityCount(findings, model.SeverityDanger), 1)
}

func TestDiagnose_FatigueAndBenchmarkMisses(t *testing.T) {
	cmp := comparisonFixture()
	cmp.After.Aggregate.Impressions = 60000
	cmp.After.Aggregate.Reach = 20000 // frequency 3.0
	cmp.After.Aggregate.Clicks = 300  // CTR 0.5, below 1.4 floor
	cmp.After.Aggregate.Spend = 800   // CPM 13.3, above 10.88
	cmp.After.Metrics = Derive(cmp.After.Aggregate)

	findings := Diagnose(cmp, benchmarks())

	assert.GreaterOrEqual(t, severityCount(findings, model.SeverityWarning), 3)
}

func TestDiagnose_ProjectionLine(t *testing.T) {
	cmp := comparisonFixture()
	cmp.Projection = ProjectBudget(2000, 10)

	findings := Diagnose(cmp, benchmarks())

	assert.GreaterOrEqual(t, severityCount(findings, model.SeverityInfo), 1)
}

func TestInsights_Reallocation(t *testing.T) {
	cmp := comparisonFixture()
	cmp.BestSegments = []model.SegmentRank{
		{Name: "Women 25-34", Spend: 40, Conversations: 10, CostPerConversation: 4},
		{Name: "Women 35-44", Spend: 30, Conversations: 3, CostPerConversation: 10},
	}
	cmp.WorstSegments = []model.SegmentRank{
		{Name: "Men 45-54", Spend: 20, Conversations: 1, CostPerConversation: 20},
		{Name: "Men 25-34", Spend: 60, Conversations: 5, CostPerConversation: 12},
	}

	tips := Insights(cmp)

	require.NotEmpty(t, tips)
	assert.Contains(t, tips[0].Message, "Reallocating")
	assert.Contains(t, tips[0].Message, "Women 25-34")
}

func TestInsights_SkipsReallocationWithFewSegments(t *testing.T) {
	cmp := comparisonFixture()
	cmp.BestSegments = []model.SegmentRank{{Name: "only one", CostPerConversation: 5, Spend: 10}}
	cmp.WorstSegments = []model.SegmentRank{{Name: "only one", CostPerConversation: 5, Spend: 10}}

	for _, tip := range Insights(cmp) {
		assert.NotContains(t, tip.Message, "Reallocating")
	}
}

func TestInsights_PotentialSavings(t *testing.T) {
	cmp := comparisonFixture()
	cmp.BestSegments = []model.SegmentRank{{Name: "Women 25-34", Spend: 40, Conversations: 10, CostPerConversation: 4}}
	cmp.WorstSegments = []model.SegmentRank{{Name: "Men 45-54", Spend: 60, Conversations: 2, CostPerConversation: 30}}

	tips := Insights(cmp)

	found := false
	for _, tip := range tips {
		// 60 spent minus 2 conversations at the best $4 rate.
		if strings.Contains(tip.Message, "free up about $52.00") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestInsights_UntappedSegments(t *testing.T) {
	cmp := comparisonFixture()
	cmp.After.Aggregate.Demographics = map[string]*model.SubTotals{
		"Men 18-24":   {Reach: 8000, Conversations: 3},
		"Women 25-34": {Reach: 9000, Conversations: 120}, // converting fine
		"Men 55-64":   {Reach: 1000, Conversations: 0},   // too little reach
	}

	tips := Insights(cmp)

	found := false
	for _, tip := range tips {
		if strings.Contains(tip.Message, "Men 18-24") {
			found = true
			assert.NotContains(t, tip.Message, "Women 25-34")
			assert.NotContains(t, tip.Message, "Men 55-64")
		}
	}
	assert.True(t, found)
}

func TestInsights_ConversationSpendShare(t *testing.T) {
	cmp := comparisonFixture()
	cmp.After.Aggregate.ResultTypes = map[string]*model.SubTotals{
		"Conversaciones con mensajes iniciadas": {Spend: 30},
		"Interacción con la publicación":        {Spend: 70},
	}

	tips := Insights(cmp)

	found := false
	for _, tip := range tips {
		if strings.Contains(tip.Message, "30%") && strings.Contains(tip.Message, "conversation campaigns") {
			found = true
		}
	}
	assert.True(t, found)
}

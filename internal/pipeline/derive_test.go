package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arizon-ai/adlens/internal/model"
)

func TestDerive_ZeroSafety(t *testing.T) {
	m := Derive(model.NewAggregate())

	assert.Zero(t, m.CTR)
	assert.Zero(t, m.CPM)
	assert.Zero(t, m.CPC)
	assert.Zero(t, m.CostPerResult)
	assert.Zero(t, m.Frequency)
	assert.Zero(t, m.ConversionRate)
	assert.Zero(t, m.QualityScore)
	assert.Zero(t, m.ReachPerDollar)
	assert.True(t, math.IsInf(m.CostPerConversation, 1))
	assert.True(t, m.Undefined())

	for _, v := range []float64{m.CTR, m.CPM, m.CPC, m.CostPerResult, m.Frequency, m.ConversionRate, m.QualityScore} {
		assert.False(t, math.IsNaN(v))
	}
}

func TestDerive_Formulas(t *testing.T) {
	agg := model.NewAggregate()
	agg.Records = 2
	agg.Spend = 100
	agg.Results = 25
	agg.Reach = 4000
	agg.Impressions = 10000
	agg.Clicks = 200
	agg.Conversations = 10

	m := Derive(agg)

	assert.InDelta(t, 2.0, m.CTR, 0.001)            // 200/10000×100
	assert.InDelta(t, 10.0, m.CPM, 0.001)           // 100/10000×1000
	assert.InDelta(t, 0.5, m.CPC, 0.001)            // 100/200
	assert.InDelta(t, 4.0, m.CostPerResult, 0.001)  // 100/25
	assert.InDelta(t, 10.0, m.CostPerConversation, 0.001)
	assert.InDelta(t, 2.5, m.Frequency, 0.001)      // 10000/4000
	assert.InDelta(t, 5.0, m.ConversionRate, 0.001) // 10/200×100
	assert.InDelta(t, 10.0, m.QualityScore, 0.001)  // 10/100×100
	assert.InDelta(t, 40.0, m.ReachPerDollar, 0.001)
	assert.InDelta(t, 100.0, m.ImpressionsPerDollar, 0.001)
	assert.InDelta(t, 2.0, m.ClicksPerDollar, 0.001)
	assert.InDelta(t, 10.0, m.ConversationsPer100, 0.001)
}

func TestDerive_QualityScoreNeedsSpendAndConversations(t *testing.T) {
	agg := model.NewAggregate()
	agg.Conversations = 5
	assert.Zero(t, Derive(agg).QualityScore, "no spend")

	agg = model.NewAggregate()
	agg.Spend = 50
	assert.Zero(t, Derive(agg).QualityScore, "no conversations")
}

func TestDerive_CPMMonotonicInSpend(t *testing.T) {
	agg := model.NewAggregate()
	agg.Impressions = 1000

	var prev float64
	for _, spend := range []float64{0, 1, 10, 100} {
		agg.Spend = spend
		cpm := Derive(agg).CPM
		assert.GreaterOrEqual(t, cpm, prev)
		prev = cpm
	}
}

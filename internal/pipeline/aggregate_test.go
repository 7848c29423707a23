package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizon-ai/adlens/internal/model"
)

func TestIsConversationType(t *testing.T) {
	assert.True(t, IsConversationType("Conversaciones con mensajes iniciadas"))
	assert.True(t, IsConversationType("MENSAJES"))
	assert.True(t, IsConversationType("conversation"))
	assert.True(t, IsConversationType("Messaging conversations started"))
	assert.False(t, IsConversationType("Interacción con la publicación"))
	assert.False(t, IsConversationType("Otro"))
	assert.False(t, IsConversationType(""))
}

func TestAggregate_EmptyCohort(t *testing.T) {
	agg := Aggregate(nil)

	assert.Zero(t, agg.Records)
	assert.Zero(t, agg.Spend)
	assert.Zero(t, agg.Conversations)
	assert.Empty(t, agg.ResultTypes)
	assert.Empty(t, agg.Demographics)
	assert.Empty(t, agg.Ads)
	assert.False(t, agg.HasData())
}

func TestAggregate_ConversationVsVanitySplit(t *testing.T) {
	cohort := []model.Record{
		{AdName: "X", ResultType: "conversation", Spend: 10, Results: 2},
		{AdName: "X", ResultType: "other", Spend: 5, Results: 0},
	}

	agg := Aggregate(cohort)

	assert.InDelta(t, 15, agg.Spend, 0.001)
	assert.InDelta(t, 2, agg.Results, 0.001)
	assert.InDelta(t, 2, agg.Conversations, 0.001)
	assert.Zero(t, agg.VanityResults)

	require.Contains(t, agg.Ads, "X")
	assert.InDelta(t, 15, agg.Ads["X"].Spend, 0.001)
	assert.InDelta(t, 2, agg.Ads["X"].Results, 0.001)

	assert.InDelta(t, 7.5, Derive(agg).CostPerResult, 0.001)
}

func TestAggregate_DemographicsCarryConversationsOnlyWhenClassified(t *testing.T) {
	cohort := []model.Record{
		{AdName: "a", ResultType: "Conversaciones con mensajes iniciadas",
			Gender: model.GenderWomen, Age: "25-34", Spend: 10, Results: 3},
		{AdName: "a", ResultType: "Interacción con la publicación",
			Gender: model.GenderWomen, Age: "25-34", Spend: 4, Results: 50},
	}

	agg := Aggregate(cohort)

	seg := agg.Demographics["Women 25-34"]
	require.NotNil(t, seg)
	assert.InDelta(t, 14, seg.Spend, 0.001)
	assert.InDelta(t, 53, seg.Results, 0.001)
	assert.InDelta(t, 3, seg.Conversations, 0.001)
	assert.InDelta(t, 50, agg.VanityResults, 0.001)
}

func TestAggregate_Conservation(t *testing.T) {
	cohort := []model.Record{
		{AdName: "a", ResultType: "x", Gender: model.GenderMen, Age: "18-24",
			Spend: 3, Results: 1, Reach: 100, Impressions: 150, Clicks: 9},
		{AdName: "b", ResultType: "y", Gender: model.GenderWomen, Age: "25-34",
			Spend: 7, Results: 4, Reach: 200, Impressions: 260, Clicks: 12},
		{AdName: "a", ResultType: "x", Gender: model.GenderOther, Age: model.UnknownAge,
			Spend: 2, Results: 0, Reach: 50, Impressions: 80, Clicks: 3},
	}

	agg := Aggregate(cohort)

	var demoSpend, demoResults, demoReach, demoImpr, demoClicks float64
	for _, st := range agg.Demographics {
		demoSpend += st.Spend
		demoResults += st.Results
		demoReach += st.Reach
		demoImpr += st.Impressions
		demoClicks += st.Clicks
	}
	assert.InDelta(t, agg.Spend, demoSpend, 0.001)
	assert.InDelta(t, agg.Results, demoResults, 0.001)
	assert.InDelta(t, agg.Reach, demoReach, 0.001)
	assert.InDelta(t, agg.Impressions, demoImpr, 0.001)
	assert.InDelta(t, agg.Clicks, demoClicks, 0.001)

	var adSpend, typeSpend float64
	for _, st := range agg.Ads {
		adSpend += st.Spend
	}
	for _, st := range agg.ResultTypes {
		typeSpend += st.Spend
	}
	assert.InDelta(t, agg.Spend, adSpend, 0.001)
	assert.InDelta(t, agg.Spend, typeSpend, 0.001)
}

func TestAggregate_Idempotence(t *testing.T) {
	cohort := []model.Record{
		{AdName: "a", ResultType: "mensaje", Spend: 3.33, Results: 1, Reach: 10, Impressions: 12, Clicks: 2},
		{AdName: "b", ResultType: "otro", Spend: 1.11, Results: 5, Reach: 20, Impressions: 31, Clicks: 4},
	}

	first := Aggregate(cohort)
	second := Aggregate(cohort)

	assert.Equal(t, first, second)
	assert.Equal(t, Derive(first), Derive(second))
}

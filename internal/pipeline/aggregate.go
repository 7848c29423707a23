package pipeline

import (
	"strings"

	"github.com/arizon-ai/adlens/internal/model"
)

// Conversation tokens in the export's result-type text. "mensaje" covers
// "Conversaciones con mensajes iniciadas" variants, "conversaci" the stem of
// "conversación/conversaciones"; the English pair covers exports from
// accounts set to English.
var conversationTokens = []string{"mensaje", "conversaci", "message", "conversation"}

// IsConversationType reports whether a result-type text denotes a messaging
// conversation result, as opposed to a vanity result (view, engagement).
func IsConversationType(resultType string) bool {
	lower := strings.ToLower(resultType)
	for _, tok := range conversationTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// Aggregate folds one cohort into totals and the three grouped sub-total
// mappings. Pure summation: order-independent, and every record contributes
// exactly once to the scalars and to one entry per mapping, so each
// mapping's column sums equal the cohort's scalar totals.
func Aggregate(cohort []model.Record) *model.Aggregate {
	agg := model.NewAggregate()

	for _, r := range cohort {
		agg.Records++
		agg.Spend += r.Spend
		agg.Results += r.Results
		agg.Reach += r.Reach
		agg.Impressions += r.Impressions
		agg.Clicks += r.Clicks

		conv := IsConversationType(r.ResultType)
		if conv {
			agg.Conversations += r.Results
		} else {
			agg.VanityResults += r.Results
		}

		rt := upsert(agg.ResultTypes, r.ResultType)
		rt.Spend += r.Spend
		rt.Results += r.Results

		demo := upsert(agg.Demographics, r.SegmentKey())
		demo.Spend += r.Spend
		demo.Results += r.Results
		demo.Reach += r.Reach
		demo.Impressions += r.Impressions
		demo.Clicks += r.Clicks
		if conv {
			demo.Conversations += r.Results
		}

		ad := upsert(agg.Ads, r.AdName)
		ad.Spend += r.Spend
		ad.Results += r.Results
		ad.Reach += r.Reach
		ad.Impressions += r.Impressions
		ad.Clicks += r.Clicks
	}

	return agg
}

func upsert(m map[string]*model.SubTotals, key string) *model.SubTotals {
	st, ok := m[key]
	if !ok {
		st = &model.SubTotals{}
		m[key] = st
	}
	return st
}

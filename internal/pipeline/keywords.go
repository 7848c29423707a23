package pipeline

import (
	"regexp"
	"strings"

	"github.com/arizon-ai/adlens/internal/model"
)

// Stopwords dropped from ad-name keyword mining (source locale, plus the
// campaign boilerplate words every ad name carries).
var keywordStopwords = map[string]bool{
	"de": true, "la": true, "el": true, "en": true, "y": true, "a": true,
	"para": true, "por": true, "con": true,
	"campaña": true, "interacción": true, "publicación": true,
	"instagram": true, "null": true,
}

var keywordStripRe = regexp.MustCompile(`[^A-ZÁÉÍÓÚÑ0-9\s]`)

// TokenizeAdName extracts keyword tokens from an ad name: uppercase, strip
// punctuation, keep tokens longer than two runes that are not stopwords.
func TokenizeAdName(name string) []string {
	cleaned := keywordStripRe.ReplaceAllString(strings.ToUpper(name), "")
	var tokens []string
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if keywordStopwords[strings.ToLower(w)] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// MineKeywords accumulates per-keyword totals over a cohort's ad names.
// A record contributes its full row totals to every keyword its name
// yields; counts are occurrences, not distinct ads. The result is ephemeral,
// built fresh for each report.
func MineKeywords(cohort []model.Record) map[string]*model.KeywordRank {
	keywords := make(map[string]*model.KeywordRank)
	for _, r := range cohort {
		for _, word := range TokenizeAdName(r.AdName) {
			kw, ok := keywords[word]
			if !ok {
				kw = &model.KeywordRank{Word: word}
				keywords[word] = kw
			}
			kw.Count++
			kw.Spend += r.Spend
			kw.Results += r.Results
			kw.Impressions += r.Impressions
			kw.Clicks += r.Clicks
		}
	}

	for _, kw := range keywords {
		kw.CostPerResult = safeRatio(kw.Spend, kw.Results)
		kw.CTR = safeRatio(kw.Clicks, kw.Impressions) * 100
	}

	return keywords
}

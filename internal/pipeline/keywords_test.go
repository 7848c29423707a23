package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arizon-ai/adlens/internal/model"
)

func TestTokenizeAdName(t *testing.T) {
	tokens := TokenizeAdName("Campaña de interacción - Reel Unboxing 2.0 ✨")
	assert.Equal(t, []string{"REEL", "UNBOXING"}, tokens)
}

func TestTokenizeAdName_KeepsAccentedWords(t *testing.T) {
	tokens := TokenizeAdName("promoción línea cañón")
	assert.Equal(t, []string{"PROMOCIÓN", "LÍNEA", "CAÑÓN"}, tokens)
}

func TestTokenizeAdName_DropsShortTokensAndStopwords(t *testing.T) {
	assert.Empty(t, TokenizeAdName("de la el en y a DE"))
	assert.Empty(t, TokenizeAdName("ad xy"))
	assert.Empty(t, TokenizeAdName("Instagram null"))
}

func TestMineKeywords(t *testing.T) {
	cohort := []model.Record{
		{AdName: "Reel verano", Spend: 10, Results: 2, Impressions: 1000, Clicks: 30},
		{AdName: "Reel invierno", Spend: 6, Results: 1, Impressions: 500, Clicks: 10},
		{AdName: "Carrusel verano", Spend: 4, Results: 0, Impressions: 200, Clicks: 2},
	}

	keywords := MineKeywords(cohort)

	reel := keywords["REEL"]
	require.NotNil(t, reel)
	assert.Equal(t, 2, reel.Count)
	assert.InDelta(t, 16, reel.Spend, 0.001)
	assert.InDelta(t, 3, reel.Results, 0.001)
	assert.InDelta(t, 16.0/3.0, reel.CostPerResult, 0.001)
	assert.InDelta(t, 40.0/1500.0*100, reel.CTR, 0.001)

	verano := keywords["VERANO"]
	require.NotNil(t, verano)
	assert.Equal(t, 2, verano.Count)

	carrusel := keywords["CARRUSEL"]
	require.NotNil(t, carrusel)
	assert.Zero(t, carrusel.CostPerResult, "zero results never divides")
}

func TestTokenizeAdName_PunctuationCollapses(t *testing.T) {
	tokens := TokenizeAdName("lista 01/02 precios")
	assert.Equal(t, []string{"LISTA", "0102", "PRECIOS"}, tokens)
}

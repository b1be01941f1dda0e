package meso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

type fakePerf map[string]float64

func (f fakePerf) ChangePct(symbol string) (float64, bool) {
	v, ok := f[symbol]
	return v, ok
}

func TestBuildCapsInstrumentsPerClass(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, _ := b.Build([]models.ClassAnalysis{{
		Class:          assets.Stocks,
		Expectation:    models.Bullish,
		Confidence:     models.ConfidenceHigh,
		Direction:      models.Long,
		LiquidityScore: 60,
		TopPicks:       []string{"AAPL", "MSFT", "NVDA"},
	}})

	require.Len(t, allowed, maxPerClass)
	assert.Equal(t, "AAPL", allowed[0].Symbol)
	assert.Equal(t, "MSFT", allowed[1].Symbol)
}

func TestBuildAvoidClassProhibitsUniverse(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, prohibited := b.Build([]models.ClassAnalysis{{
		Class:      assets.Crypto,
		Direction:  models.Avoid,
		Confidence: models.ConfidenceMedium,
	}})

	assert.Empty(t, allowed)
	require.Len(t, prohibited, len(assets.Crypto.Meta().Symbols))
	syms := make([]string, 0, len(prohibited))
	for _, p := range prohibited {
		syms = append(syms, p.Symbol)
	}
	assert.Contains(t, syms, "BTC/USDT")
}

func TestBuildLowConfidenceClassSkipped(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, prohibited := b.Build([]models.ClassAnalysis{{
		Class:      assets.Forex,
		Direction:  models.Long,
		Confidence: models.ConfidenceLow,
	}})

	assert.Empty(t, allowed)
	assert.Empty(t, prohibited)
}

func TestBuildPrefersBestLivePerformer(t *testing.T) {
	perf := fakePerf{"NVDA": 3.2, "AAPL": 1.1, "META": -2.0}
	b := NewUniverseBuilder(perf)

	allowed, _ := b.Build([]models.ClassAnalysis{{
		Class:          assets.Stocks,
		Direction:      models.Long,
		Confidence:     models.ConfidenceHigh,
		LiquidityScore: 50,
	}})

	require.NotEmpty(t, allowed)
	assert.Equal(t, "NVDA", allowed[0].Symbol)
	assert.Equal(t, 50.0+convictionHigh, allowed[0].Conviction)
}

func TestBuildPerformerSignMustMatchDirection(t *testing.T) {
	perf := fakePerf{"NVDA": 3.2, "META": -2.0}
	b := NewUniverseBuilder(perf)

	allowed, _ := b.Build([]models.ClassAnalysis{{
		Class:          assets.Stocks,
		Direction:      models.Short,
		Confidence:     models.ConfidenceHigh,
		LiquidityScore: 50,
	}})

	require.NotEmpty(t, allowed)
	assert.Equal(t, "META", allowed[0].Symbol)
}

func TestBuildFallbackWhenNothingElse(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, _ := b.Build([]models.ClassAnalysis{{
		Class:          assets.Bonds,
		Direction:      models.Long,
		Confidence:     models.ConfidenceMedium,
		LiquidityScore: 40,
	}})

	require.Len(t, allowed, 2)
	assert.Equal(t, assets.Bonds.Meta().Fallback, []string{allowed[0].Symbol, allowed[1].Symbol})
	assert.Equal(t, 40.0+convictionMedium, allowed[0].Conviction)
}

func TestBuildConvictionKeyedByClassConfidence(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, _ := b.Build([]models.ClassAnalysis{
		{Class: assets.Stocks, Direction: models.Long, Confidence: models.ConfidenceHigh, LiquidityScore: 50, TopPicks: []string{"AAPL"}},
		{Class: assets.Bonds, Direction: models.Long, Confidence: models.ConfidenceMedium, LiquidityScore: 50, TopPicks: []string{"TLT"}},
	})

	bySym := make(map[string]float64, len(allowed))
	for _, inst := range allowed {
		bySym[inst.Symbol] = inst.Conviction
	}
	assert.Equal(t, 50.0+convictionHigh, bySym["AAPL"])
	assert.Equal(t, 50.0+convictionMedium, bySym["TLT"])
}

func TestBuildSkipsAvoidListedSymbols(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, prohibited := b.Build([]models.ClassAnalysis{{
		Class:          assets.Bonds,
		Direction:      models.Short,
		Confidence:     models.ConfidenceHigh,
		LiquidityScore: 50,
		TopPicks:       []string{"TLT", "IEF"},
		AvoidList:      []string{"TLT"},
	}})

	for _, inst := range allowed {
		assert.NotEqual(t, "TLT", inst.Symbol)
	}
	require.NotEmpty(t, prohibited)
	assert.Equal(t, "TLT", prohibited[0].Symbol)
}

func TestBuildSortsByConvictionDescending(t *testing.T) {
	b := NewUniverseBuilder(nil)
	allowed, _ := b.Build([]models.ClassAnalysis{
		{Class: assets.Stocks, Direction: models.Long, Confidence: models.ConfidenceHigh, LiquidityScore: 30, TopPicks: []string{"AAPL"}},
		{Class: assets.Crypto, Direction: models.Long, Confidence: models.ConfidenceHigh, LiquidityScore: 80, TopPicks: []string{"BTC/USDT"}},
	})

	require.NotEmpty(t, allowed)
	for i := 1; i < len(allowed); i++ {
		assert.GreaterOrEqual(t, allowed[i-1].Conviction, allowed[i].Conviction)
	}
}

package micro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

func readyScenario() models.ScenarioAnalysis {
	return models.ScenarioAnalysis{
		Status:       models.ScenarioReady,
		Alignment:    80,
		EntryQuality: models.EntryOtimo,
		Timing:       models.TimingAgora,
		Supports:     []string{"trend", "zone", "volume"},
	}
}

func TestBuildSetupLongSideInvariants(t *testing.T) {
	ta := alignedLongTA()
	s := BuildSetup(models.Long, ta, readyScenario(), targetContext{})
	require.NotNil(t, s)

	assert.Less(t, s.Stop, s.Entry)
	assert.Greater(t, s.TakeProfit1, s.Entry)
	assert.Greater(t, s.TakeProfit2, s.TakeProfit1)
	assert.Greater(t, s.TakeProfit3, s.TakeProfit2)
	assert.Greater(t, s.RiskReward, 0.0)
	assert.Equal(t, models.ConfidenceHigh, s.Confidence)
}

func TestBuildSetupShortSideInvariants(t *testing.T) {
	ta := alignedLongTA()
	ta.Trend.Alignment = "ALIGNED_DOWN"
	s := BuildSetup(models.Short, ta, readyScenario(), targetContext{})
	require.NotNil(t, s)

	assert.Greater(t, s.Stop, s.Entry)
	assert.Less(t, s.TakeProfit1, s.Entry)
	assert.Less(t, s.TakeProfit2, s.TakeProfit1)
	assert.Less(t, s.TakeProfit3, s.TakeProfit2)
}

func TestBuildSetupExpansionaryRegimeStretchesTargets(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Symbol: "AAPL", Price: 100,
		Trend:  models.TimeframeTrend{Alignment: "MIXED"},
		Levels: models.Levels{ATR: 1},
	}
	base := BuildSetup(models.Long, ta, readyScenario(), targetContext{Regime: models.RegimeUncertain})
	wide := BuildSetup(models.Long, ta, readyScenario(), targetContext{Regime: models.RegimeGoldilocks})
	require.NotNil(t, base)
	require.NotNil(t, wide)
	assert.Greater(t, wide.TakeProfit2, base.TakeProfit2)
}

func TestBuildSetupContractionaryRegimeTightens(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Symbol: "AAPL", Price: 100,
		Trend:  models.TimeframeTrend{Alignment: "MIXED"},
		Levels: models.Levels{ATR: 1},
	}
	base := BuildSetup(models.Long, ta, readyScenario(), targetContext{Regime: models.RegimeUncertain})
	tight := BuildSetup(models.Long, ta, readyScenario(), targetContext{Regime: models.RegimeRiskOff})
	require.NotNil(t, tight)
	assert.Less(t, tight.TakeProfit2, base.TakeProfit2)
	assert.Greater(t, tight.Stop, base.Stop) // tighter stop on a long
}

func TestBuildSetupHighVolWidensStop(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Symbol: "AAPL", Price: 100,
		Trend:  models.TimeframeTrend{Alignment: "MIXED"},
		Levels: models.Levels{ATR: 1},
	}
	base := BuildSetup(models.Long, ta, readyScenario(), targetContext{})
	wide := BuildSetup(models.Long, ta, readyScenario(), targetContext{VolRisk: models.VolRiskHigh})
	require.NotNil(t, wide)
	assert.Less(t, wide.Stop, base.Stop)
}

func TestBuildSetupStructuralSubstitution(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Symbol: "AAPL", Price: 100,
		Trend: models.TimeframeTrend{Alignment: "MIXED"},
		Levels: models.Levels{
			ATR:        1,
			Support:    []float64{99, 98.5},
			Resistance: []float64{101.2, 102.8},
		},
		OrderBlocks: []models.OrderBlock{{High: 99.5, Low: 99, Direction: models.Long}},
		Pools:       []models.LiquidityPool{{Price: 101.2, Side: "ABOVE"}},
	}
	s := BuildSetup(models.Long, ta, readyScenario(), targetContext{})
	require.NotNil(t, s)
	assert.Equal(t, 101.2, s.TakeProfit1)
	assert.Contains(t, s.LevelSources, "tp1: structure")
	assert.Equal(t, "stop: structure", s.LevelSources[0])
}

func TestBuildSetupStructureMovesStopAndUsesPools(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Symbol: "AAPL", Price: 100,
		Trend: models.TimeframeTrend{Alignment: "MIXED"},
		Levels: models.Levels{
			ATR:        1,
			Support:    []float64{99.4, 98},
			Resistance: []float64{101.3, 102.9},
		},
		OrderBlocks: []models.OrderBlock{{High: 99.55, Low: 99.2, Direction: models.Long}},
		Pools:       []models.LiquidityPool{{Price: 101.1, Side: "ABOVE"}},
	}
	s := BuildSetup(models.Long, ta, readyScenario(), targetContext{})
	require.NotNil(t, s)

	// Order-block edge beats the nearby support as the protective level,
	// and the pooled-liquidity price beats resistance for the first target.
	assert.Equal(t, 99.55, s.Stop)
	assert.Equal(t, "stop: structure", s.LevelSources[0])
	assert.Equal(t, 101.1, s.TakeProfit1)
	assert.Equal(t, "tp1: structure", s.LevelSources[1])
}

func TestBuildSetupZeroPriceRejected(t *testing.T) {
	ta := models.TechnicalAnalysis{Symbol: "AAPL", Price: 0, Levels: models.Levels{ATR: 1}}
	assert.Nil(t, BuildSetup(models.Long, ta, readyScenario(), targetContext{}))
}

package micro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

func longSetup() *models.Setup {
	return &models.Setup{
		Symbol:       "AAPL",
		Direction:    models.Long,
		Entry:        100,
		Stop:         99,
		TakeProfit1:  102,
		TakeProfit2:  103,
		TakeProfit3:  104,
		RiskReward:   3,
		LevelSources: []string{"stop: atr", "tp1: atr", "tp2: atr", "tp3: atr"},
	}
}

func TestIntegrateLiquidityNilZonesNoop(t *testing.T) {
	s := longSetup()
	out := IntegrateLiquidity(s, nil)
	assert.Equal(t, s, out)
	assert.Equal(t, 102.0, out.TakeProfit1)
}

func TestIntegrateLiquidityReplacesFirstTarget(t *testing.T) {
	s := longSetup()
	zones := &models.LiquidityZones{
		Symbol: "AAPL",
		PriceTargets: []models.LiquidityTarget{
			{Price: 102.5, Direction: models.Long, Probability: 75, Kind: "PRIMARY"},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 102.5, out.TakeProfit1)
	assert.Equal(t, "tp1: liquidity", out.LevelSources[1])
	assert.Contains(t, out.Confluences, "liquidity draw at first target")
}

func shortSetup() *models.Setup {
	return &models.Setup{
		Symbol:       "AAPL",
		Direction:    models.Short,
		Entry:        100,
		Stop:         101,
		TakeProfit1:  98,
		TakeProfit2:  97,
		TakeProfit3:  96,
		RiskReward:   3,
		LevelSources: []string{"stop: atr", "tp1: atr", "tp2: atr", "tp3: atr"},
	}
}

func TestIntegrateLiquidityAdoptsNearDrawOnLong(t *testing.T) {
	// A draw much closer than the current target still replaces it; there
	// is no lower distance bound on the long side.
	s := longSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 100.6, Direction: models.Long, Probability: 80, Kind: "PRIMARY"},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 100.6, out.TakeProfit1)
	assert.Equal(t, "tp1: liquidity", out.LevelSources[1])
}

func TestIntegrateLiquidityRejectsFarDrawOnLong(t *testing.T) {
	// 1.5x the current target distance is the outer limit on longs.
	s := longSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 103.2, Direction: models.Long, Probability: 80, Kind: "PRIMARY"},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 102.0, out.TakeProfit1)
}

func TestIntegrateLiquidityShortBandIsTighter(t *testing.T) {
	// Shorts resolve faster: the draw must sit within 0.67x the current
	// target distance to be worth chasing.
	s := shortSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 98.8, Direction: models.Short, Probability: 80, Kind: "PRIMARY"},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 98.8, out.TakeProfit1)

	s = shortSetup()
	zones = &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 97.5, Direction: models.Short, Probability: 80, Kind: "PRIMARY"},
		},
	}
	out = IntegrateLiquidity(s, zones)
	assert.Equal(t, 98.0, out.TakeProfit1)
}

func TestIntegrateLiquidityPrefersPrimaryTarget(t *testing.T) {
	s := longSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 101.5, Direction: models.Long, Probability: 90, Kind: "SECONDARY"},
			{Price: 102.5, Direction: models.Long, Probability: 75, Kind: "PRIMARY"},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 102.5, out.TakeProfit1)
}

func TestIntegrateLiquidityIgnoresLowProbabilityTargets(t *testing.T) {
	s := longSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 102.5, Direction: models.Long, Probability: 40},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 102.0, out.TakeProfit1)
}

func TestIntegrateLiquidityIgnoresWrongSideTargets(t *testing.T) {
	s := longSetup()
	zones := &models.LiquidityZones{
		PriceTargets: []models.LiquidityTarget{
			{Price: 98, Direction: models.Long, Probability: 90},
			{Price: 102.5, Direction: models.Short, Probability: 90},
		},
	}
	out := IntegrateLiquidity(s, zones)
	assert.Equal(t, 102.0, out.TakeProfit1)
}

func TestIntegrateLiquidityTightensStopOnlyWhenValid(t *testing.T) {
	s := longSetup()
	out := IntegrateLiquidity(s, &models.LiquidityZones{Invalidation: 99.5})
	assert.Equal(t, 99.5, out.Stop)
	assert.Equal(t, "stop: liquidity invalidation", out.LevelSources[0])

	// An invalidation above entry on a long is nonsense; keep the stop.
	s = longSetup()
	out = IntegrateLiquidity(s, &models.LiquidityZones{Invalidation: 101})
	assert.Equal(t, 99.0, out.Stop)

	// A looser invalidation never replaces a tighter stop.
	s = longSetup()
	out = IntegrateLiquidity(s, &models.LiquidityZones{Invalidation: 98})
	assert.Equal(t, 99.0, out.Stop)
}

func TestIntegrateLiquidityPassiveTapeWidensStop(t *testing.T) {
	s := longSetup()
	out := IntegrateLiquidity(s, &models.LiquidityZones{HistoricalBehavior: "PASSIVE"})
	assert.Less(t, out.Stop, 99.0)
	assert.Contains(t, out.Confluences, "stop widened for passive tape")
}

func TestIntegrateLiquidityRecomputesRiskReward(t *testing.T) {
	s := longSetup()
	out := IntegrateLiquidity(s, &models.LiquidityZones{Invalidation: 99.5})
	require.Greater(t, out.RiskReward, 3.0) // tighter risk, same reward
}

package micro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

func alignedLongTA() models.TechnicalAnalysis {
	return models.TechnicalAnalysis{
		Symbol: "AAPL",
		Price:  100,
		Trend:  models.TimeframeTrend{Short: models.TrendUp, Mid: models.TrendUp, Long: models.TrendUp, Alignment: "ALIGNED_UP"},
		Zone:   models.ZoneDiscount,
		Levels: models.Levels{ATR: 1, Pivot: 99.5},
		Indicators: models.Indicators{
			RSI:           45,
			RSIDivergence: "BULLISH",
		},
		Volume: models.VolumeProfile{Regime: "INCREASING", RelVolume: 1.5},
		OrderBlocks: []models.OrderBlock{
			{High: 99, Low: 98, Direction: models.Long},
		},
	}
}

func TestScenarioFullConfluenceIsReadyNow(t *testing.T) {
	sc := Scenario(models.Long, alignedLongTA())
	assert.Equal(t, models.ScenarioReady, sc.Status)
	assert.Equal(t, models.EntryOtimo, sc.EntryQuality)
	assert.Equal(t, models.TimingAgora, sc.Timing)
	assert.Empty(t, sc.Blockers)
	assert.GreaterOrEqual(t, sc.Alignment, 75.0)
}

func TestScenarioAvoidDirectionIsContra(t *testing.T) {
	sc := Scenario(models.Avoid, alignedLongTA())
	assert.Equal(t, models.ScenarioContra, sc.Status)
	assert.Equal(t, models.TimingPerdido, sc.Timing)
}

func TestScenarioTrendAgainstIsContra(t *testing.T) {
	ta := alignedLongTA()
	ta.Trend.Alignment = "ALIGNED_DOWN"
	ta.Zone = models.ZonePremium
	ta.Indicators.RSIDivergence = "NONE"
	ta.Indicators.RSI = 80
	ta.Volume.Regime = "DECREASING"
	ta.OrderBlocks = nil

	sc := Scenario(models.Long, ta)
	assert.Equal(t, models.ScenarioContra, sc.Status)
	assert.NotEmpty(t, sc.Blockers)
}

func TestScenarioMiddlingIsDeveloping(t *testing.T) {
	ta := models.TechnicalAnalysis{
		Price:  100,
		Trend:  models.TimeframeTrend{Alignment: "MIXED"},
		Zone:   models.ZoneEquilibrium,
		Volume: models.VolumeProfile{Regime: "FLAT"},
		Indicators: models.Indicators{
			RSI:           50,
			RSIDivergence: "NONE",
		},
	}
	sc := Scenario(models.Long, ta)
	assert.Equal(t, models.ScenarioDeveloping, sc.Status)
	assert.Equal(t, models.TimingAguardar, sc.Timing)
}

func TestScenarioAlignmentClamped(t *testing.T) {
	sc := Scenario(models.Long, alignedLongTA())
	require.LessOrEqual(t, sc.Alignment, 100.0)
	require.GreaterOrEqual(t, sc.Alignment, 0.0)
}

func TestContraSuppressesSetup(t *testing.T) {
	ta := alignedLongTA()
	sc := models.ScenarioAnalysis{Status: models.ScenarioContra}
	s := BuildSetup(models.Long, ta, sc, targetContext{})
	assert.Nil(t, s)
}

package trust

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/scan"
)

func strongInput() Input {
	return Input{
		Quote: &models.Quote{
			Symbol:    "AAPL",
			Class:     assets.Stocks,
			Price:     100,
			Volume:    2_000_000,
			AvgVolume: 1_000_000,
			Quality:   models.QualityOK,
		},
		Scan: scan.Result{Symbol: "AAPL", Score: 80, Action: models.ActionExecute},
		Micro: &models.MicroAnalysis{
			Symbol:    "AAPL",
			Direction: models.Long,
			Technical: models.TechnicalAnalysis{
				Trend:  models.TimeframeTrend{Alignment: "ALIGNED_UP"},
				Volume: models.VolumeProfile{Regime: "INCREASING"},
			},
			Scenario: models.ScenarioAnalysis{
				Status:    models.ScenarioReady,
				Alignment: 85,
				Timing:    models.TimingAgora,
			},
			Setup: &models.Setup{RiskReward: 3},
			Recommendation: models.Recommendation{
				Action:         models.ActionExecute,
				WinProbability: 0.6,
				RRMin:          0.9,
				EVR:            1.4,
			},
		},
		Class: models.ClassAnalysis{
			Class:          assets.Stocks,
			Direction:      models.Long,
			Confidence:     models.ConfidenceHigh,
			Expectation:    models.Bullish,
			LiquidityScore: 70,
		},
		Macro: &models.MacroSnapshot{Timestamp: time.Now()},
	}
}

func TestScoreStrongSignalIsHighTrustLowRisk(t *testing.T) {
	s := NewScorer()
	row := s.Score(strongInput())

	assert.Greater(t, row.TrustScore, 70.0)
	assert.Equal(t, models.RiskLow, row.Risk)
	assert.Zero(t, row.Components.RiskPenalty)
	assert.Zero(t, row.Components.QualityPenalty)
	assert.NotEmpty(t, row.TopDrivers)
}

func TestScoreComponentsUseStageWeights(t *testing.T) {
	s := NewScorer()
	in := strongInput()
	row := s.Score(in)

	assert.InDelta(t, in.Scan.Score*weightScan, row.Components.Scan, 1e-9)
	assert.InDelta(t, 100*weightMeso, row.Components.Meso, 1e-9)
	assert.InDelta(t, 100*weightMacro, row.Components.Macro, 1e-9)
}

func TestScoreMesoAvoidContributesNothing(t *testing.T) {
	assert.Zero(t, mesoScore(models.ClassAnalysis{Direction: models.Avoid, Confidence: models.ConfidenceHigh}))
}

func TestScoreMissingSetupPenalized(t *testing.T) {
	s := NewScorer()
	in := strongInput()
	withSetup := s.Score(in)

	in.Micro.Setup = nil
	in.Micro.Recommendation.Action = models.ActionAvoid
	without := s.Score(in)

	assert.Less(t, without.TrustScore, withSetup.TrustScore)
}

func TestScoreQualityPenaltyTiers(t *testing.T) {
	s := NewScorer()
	for q, want := range map[models.DataQuality]float64{
		models.QualityOK:      0,
		models.QualityPartial: 3,
		models.QualityStale:   8,
		models.QualitySuspect: 15,
	} {
		in := strongInput()
		in.Quote.Quality = q
		row := s.Score(in)
		assert.Equal(t, want, row.Components.QualityPenalty, "quality %s", q)
	}
}

func TestScoreRiskBuckets(t *testing.T) {
	s := NewScorer()

	// Stack enough flags to cross the MED threshold.
	in := strongInput()
	in.Macro = nil                                        // +1
	in.Class.Direction = models.Avoid                     // +2
	in.Class.VolatilityRisk = models.VolRiskHigh          // +1
	in.Class.LiquidityScore = 20                          // +1
	row := s.Score(in)
	assert.Equal(t, models.RiskMed, row.Risk)
	assert.Equal(t, float64(penaltyRiskMed), row.Components.RiskPenalty)

	// And past the HIGH threshold.
	in.Micro.Setup = nil                                  // +2
	in.Micro.Scenario.Status = models.ScenarioContra      // +2
	in.Micro.Scenario.Timing = models.TimingPerdido       // +1
	in.Micro.Recommendation.EVR = -0.5                    // +2
	row = s.Score(in)
	assert.Equal(t, models.RiskHigh, row.Risk)
	assert.Equal(t, float64(penaltyRiskHigh), row.Components.RiskPenalty)
}

func TestScoreLiquidityUsesZoneAnalysisWhenPresent(t *testing.T) {
	in := strongInput()
	assert.Equal(t, 80.0, liquidityScore(in)) // class 70 + depth bump

	in.Micro.Liquidity = &models.LiquidityZones{Symbol: "AAPL", LiquidityScore: 40}
	assert.Equal(t, 50.0, liquidityScore(in)) // zone 40 overrides class 70
}

func TestScoreMacroGateHealth(t *testing.T) {
	assert.Equal(t, 100.0, macroScore(&models.MacroSnapshot{}))
	assert.Equal(t, 60.0, macroScore(&models.MacroSnapshot{Degraded: true}))
	assert.Equal(t, 30.0, macroScore(nil))

	m := &models.MacroSnapshot{Alerts: []models.MacroAlert{
		{ID: "vix_high", Level: "HIGH"},
		{ID: "curve_inverted", Level: "MEDIUM"},
	}}
	assert.Equal(t, 78.0, macroScore(m))
}

func TestScoreTrustClamped(t *testing.T) {
	s := NewScorer()
	in := strongInput()
	in.Scan.Score = 100
	row := s.Score(in)
	require.LessOrEqual(t, row.TrustScore, 100.0)
	require.GreaterOrEqual(t, row.TrustScore, 0.0)
}

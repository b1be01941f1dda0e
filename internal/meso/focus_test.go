package meso

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

func TestBuildFocusNextRegimeTransitions(t *testing.T) {
	cases := map[string]string{
		models.RegimeStagflation:  models.RegimeRiskOff,
		models.RegimeRiskOff:      models.RegimeRecovery,
		models.RegimeDisinflation: models.RegimeGoldilocks,
		models.RegimeGoldilocks:   models.RegimeGoldilocks,
	}
	for regime, next := range cases {
		snap := snapshotWith(regime, nil)
		f := BuildFocus(snap, nil, nil)
		assert.Equal(t, next, f.NextRegime, "regime %s", regime)
		assert.NotEmpty(t, f.Thesis)
	}
}

func TestBuildFocusEmptyUniverse(t *testing.T) {
	f := BuildFocus(nil, nil, nil)
	assert.Contains(t, f.DailyFocus, "No tradeable universe")
	assert.NotEmpty(t, f.Thesis)
	assert.Empty(t, f.NextRegime)
}

func TestBuildFocusActionPlanSkipsAvoidAndLowConfidence(t *testing.T) {
	classes := []models.ClassAnalysis{
		{Class: assets.Stocks, Direction: models.Long, Confidence: models.ConfidenceHigh, VolatilityRisk: models.VolRiskLow},
		{Class: assets.Crypto, Direction: models.Avoid, Confidence: models.ConfidenceHigh},
		{Class: assets.Forex, Direction: models.Long, Confidence: models.ConfidenceLow},
	}
	f := BuildFocus(snapshotWith(models.RegimeGoldilocks, nil), classes, nil)
	assert.Len(t, f.ActionPlan, 1)
	assert.Contains(t, f.ActionPlan[0], "stocks")
}

func TestBuildSectorMomentumOrdering(t *testing.T) {
	classes := []models.ClassAnalysis{
		{Class: assets.Stocks, Expectation: models.Bearish, Confidence: models.ConfidenceHigh},
		{Class: assets.Bonds, Expectation: models.Bullish, Confidence: models.ConfidenceHigh},
		{Class: assets.Forex, Expectation: models.Neutral},
	}
	out := BuildSectorMomentum(classes)
	assert.Equal(t, "Bonds", out[0].Sector)
	assert.Equal(t, "RISING", out[0].Momentum)
	assert.Equal(t, "Stocks", out[2].Sector)
	assert.Equal(t, 15.0, out[2].Score)
}

func TestServiceAnalyzeDegradedOnNilSnapshot(t *testing.T) {
	s := NewService(nil, nil)
	out := s.Analyze(nil)
	assert.True(t, out.Degraded)
	assert.Equal(t, models.RegimeUncertain, out.Regime)
	assert.Len(t, out.Classes, len(assets.All()))
	assert.WithinDuration(t, time.Now().UTC(), out.Timestamp, time.Minute)
}

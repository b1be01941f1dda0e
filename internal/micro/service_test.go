package micro

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

type stubZones struct {
	zones *models.LiquidityZones
	err   error
}

func (s stubZones) Zones(context.Context, string) (*models.LiquidityZones, error) {
	return s.zones, s.err
}

func trendingQuote(quality models.DataQuality) *models.Quote {
	hist := make([]float64, 30)
	for i := range hist {
		hist[i] = 95 + float64(i)*0.3
	}
	return &models.Quote{
		Symbol:      "AAPL",
		Price:       104,
		High:        105,
		Low:         103,
		Volume:      5_000_000,
		AvgVolume:   3_000_000,
		RSI:         55,
		ChangePct:   0.8,
		History:     hist,
		Quality:     quality,
		SessionOpen: true,
		UpdatedAt:   time.Now(),
	}
}

func TestAnalyzeSuspectQuoteIsAvoided(t *testing.T) {
	syn := NewSynthesizer(nil, nil)
	doc := syn.Analyze(context.Background(), Input{
		Quote:      trendingQuote(models.QualitySuspect),
		Direction:  models.Long,
		Regime:     models.RegimeGoldilocks,
		Confidence: models.ConfidenceHigh,
	})
	require.NotNil(t, doc)
	assert.Equal(t, models.ActionAvoid, doc.Recommendation.Action)
}

func TestAnalyzeStaleQuoteNeverExecutes(t *testing.T) {
	syn := NewSynthesizer(nil, nil)
	for _, q := range []models.DataQuality{models.QualityStale, models.QualityPartial} {
		doc := syn.Analyze(context.Background(), Input{
			Quote:      trendingQuote(q),
			Direction:  models.Long,
			Regime:     models.RegimeGoldilocks,
			Confidence: models.ConfidenceHigh,
		})
		require.NotNil(t, doc, string(q))
		assert.NotEqual(t, models.ActionExecute, doc.Recommendation.Action, string(q))
	}
}

func TestAnalyzeAttachesLiquidityZones(t *testing.T) {
	zones := &models.LiquidityZones{Symbol: "AAPL", LiquidityScore: 65}
	syn := NewSynthesizer(stubZones{zones: zones}, nil)

	doc := syn.Analyze(context.Background(), Input{
		Quote:      trendingQuote(models.QualityOK),
		Direction:  models.Long,
		Regime:     models.RegimeGoldilocks,
		Confidence: models.ConfidenceHigh,
	})
	require.NotNil(t, doc)
	require.NotNil(t, doc.Setup)
	assert.Equal(t, zones, doc.Liquidity)
}

func TestAnalyzeZoneFailureIsNonFatal(t *testing.T) {
	syn := NewSynthesizer(stubZones{err: errors.New("upstream down")}, nil)

	doc := syn.Analyze(context.Background(), Input{
		Quote:      trendingQuote(models.QualityOK),
		Direction:  models.Long,
		Regime:     models.RegimeGoldilocks,
		Confidence: models.ConfidenceHigh,
	})
	require.NotNil(t, doc)
	assert.Nil(t, doc.Liquidity)
}

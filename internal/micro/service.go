package micro

import (
	"context"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Synthesizer runs the full micro stage for one instrument: technicals,
// scenario gating, setup geometry, liquidity integration and the final
// recommendation.
type Synthesizer struct {
	zones service.LiquidityZoneService
	log   *logger.Logger
}

func NewSynthesizer(zones service.LiquidityZoneService, log *logger.Logger) *Synthesizer {
	return &Synthesizer{zones: zones, log: log}
}

// Input is the cross-stage context the micro stage needs beyond the raw
// quote.
type Input struct {
	Quote      *models.Quote
	Direction  models.Direction
	Regime     string
	Confidence models.Confidence
	VolRisk    models.VolatilityRisk
}

// Analyze produces the MicroAnalysis for one instrument. The liquidity
// service is consulted only when a setup survives the scenario gate;
// its failure never fails the analysis.
func (s *Synthesizer) Analyze(ctx context.Context, in Input) *models.MicroAnalysis {
	ta := Technicals(in.Quote)
	sc := Scenario(in.Direction, ta)
	setup := BuildSetup(in.Direction, ta, sc, targetContext{
		Regime:     in.Regime,
		Confidence: in.Confidence,
		VolRisk:    in.VolRisk,
	})

	var zones *models.LiquidityZones
	if setup != nil && s.zones != nil {
		var err error
		zones, err = s.zones.Zones(ctx, in.Quote.Symbol)
		if err != nil {
			zones = nil
			if s.log != nil {
				s.log.Warn("liquidity zones unavailable",
					logger.String("symbol", in.Quote.Symbol),
					logger.Error(err),
				)
			}
		} else {
			setup = IntegrateLiquidity(setup, zones)
		}
	}

	return &models.MicroAnalysis{
		Symbol:         in.Quote.Symbol,
		Direction:      in.Direction,
		Technical:      ta,
		Scenario:       sc,
		Setup:          setup,
		Liquidity:      zones,
		Recommendation: Recommend(in.Direction, in.Quote.Quality, ta, sc, setup),
		Timestamp:      time.Now().UTC(),
	}
}

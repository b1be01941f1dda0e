package micro

import (
	"math"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Minimum target probability for a liquidity draw to influence the plan.
const liquidityMinProbability = 60

// IntegrateLiquidity refines a setup with the external liquidity-zone
// analysis. Zones may be nil (service unavailable); the setup is then
// returned untouched. Only targets on the profit side, agreeing with the
// setup direction and probable enough, are allowed to move levels.
func IntegrateLiquidity(s *models.Setup, zones *models.LiquidityZones) *models.Setup {
	if s == nil || zones == nil {
		return s
	}

	long := s.Direction == models.Long
	tp1Dist := math.Abs(s.TakeProfit1 - s.Entry)

	// The primary draw replaces the first target when it sits on the
	// profit side closer than 1.5x the current target distance on longs;
	// shorts squeeze faster, so the draw must be within 0.67x.
	if t, ok := zones.Primary(); ok &&
		t.Probability >= liquidityMinProbability && t.Direction == s.Direction {
		profitSide := (long && t.Price > s.Entry) || (!long && t.Price < s.Entry)
		dist := math.Abs(t.Price - s.Entry)
		inReach := (long && dist < 1.5*tp1Dist) || (!long && dist <= 0.67*tp1Dist)
		if profitSide && inReach {
			s.TakeProfit1 = t.Price
			s.Confluences = append(s.Confluences, "liquidity draw at first target")
			if len(s.LevelSources) > 1 {
				s.LevelSources[1] = "tp1: liquidity"
			}
		}
	}

	// A published invalidation replaces the stop only when it tightens
	// risk without crossing entry.
	if inv := zones.Invalidation; inv > 0 {
		tighter := (long && inv > s.Stop && inv < s.Entry) ||
			(!long && inv < s.Stop && inv > s.Entry)
		if tighter {
			s.Stop = inv
			if len(s.LevelSources) > 0 {
				s.LevelSources[0] = "stop: liquidity invalidation"
			}
		}
	}

	// Passive tape lets price drift through levels; give the stop room.
	if zones.HistoricalBehavior == "PASSIVE" {
		pad := s.Entry * 0.005
		if long {
			s.Stop -= pad
		} else {
			s.Stop += pad
		}
		s.Confluences = append(s.Confluences, "stop widened for passive tape")
	}

	risk := math.Abs(s.Entry - s.Stop)
	if risk > 0 {
		s.RiskReward = math.Abs(s.TakeProfit2-s.Entry) / risk
	}
	return s
}

package micro

import (
	"fmt"
	"math"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Base geometry in ATR units. Regime, confidence and volatility context
// scale these before structural substitution.
const (
	baseStopATR = 0.5
	baseTP1ATR  = 1.0
	baseTP2ATR  = 1.5
	baseTP3ATR  = 2.0
)

// targetContext carries the cross-stage inputs that shape a setup's
// geometry beyond pure technicals.
type targetContext struct {
	Regime     string
	Confidence models.Confidence
	VolRisk    models.VolatilityRisk
}

func expansionary(regime string) bool {
	switch regime {
	case models.RegimeGoldilocks, models.RegimeReacceleration, models.RegimeRecovery:
		return true
	}
	return false
}

func contractionary(regime string) bool {
	switch regime {
	case models.RegimeRiskOff, models.RegimeStagflation, models.RegimeShock:
		return true
	}
	return false
}

// geometry computes the stop and target distances in price units.
func geometry(ta models.TechnicalAnalysis, tc targetContext, dir models.Direction) (stop, t1, t2, t3 float64) {
	atr := ta.Levels.ATR
	stop = baseStopATR * atr
	t1, t2, t3 = baseTP1ATR*atr, baseTP2ATR*atr, baseTP3ATR*atr

	switch {
	case expansionary(tc.Regime):
		t1, t2, t3 = t1*1.2, t2*1.2, t3*1.2
	case contractionary(tc.Regime):
		t1, t2, t3 = t1*0.85, t2*0.85, t3*0.85
		stop *= 0.9
	}

	switch tc.Confidence {
	case models.ConfidenceHigh:
		t1, t2, t3 = t1*1.1, t2*1.1, t3*1.1
	case models.ConfidenceLow:
		t1, t2, t3 = t1*0.9, t2*0.9, t3*0.9
	}

	switch tc.VolRisk {
	case models.VolRiskHigh:
		stop *= 1.2
	case models.VolRiskLow:
		stop *= 0.9
	}

	aligned := (dir == models.Long && ta.Trend.Alignment == "ALIGNED_UP") ||
		(dir == models.Short && ta.Trend.Alignment == "ALIGNED_DOWN")
	if aligned {
		t1, t2, t3 = t1*1.1, t2*1.1, t3*1.1
	}
	if ta.Volume.Climax {
		t3 *= 0.9
	}
	return stop, t1, t2, t3
}

// richStructure reports whether the chart carries enough structural
// evidence to let levels replace synthetic ATR targets.
func richStructure(ta models.TechnicalAnalysis) bool {
	return len(ta.OrderBlocks) > 0 && len(ta.Pools) > 0 &&
		len(ta.Levels.Support)+len(ta.Levels.Resistance) >= 2
}

// structuralLevels flattens every candidate price the chart offers:
// support/resistance, order-block edges and pooled liquidity prices.
// nearestLevel filters them by side of entry.
func structuralLevels(ta models.TechnicalAnalysis) []float64 {
	out := make([]float64, 0, len(ta.Levels.Support)+len(ta.Levels.Resistance)+2*len(ta.OrderBlocks)+len(ta.Pools))
	out = append(out, ta.Levels.Support...)
	out = append(out, ta.Levels.Resistance...)
	for _, ob := range ta.OrderBlocks {
		out = append(out, ob.High, ob.Low)
	}
	for _, p := range ta.Pools {
		out = append(out, p.Price)
	}
	return out
}

// nearestLevel returns the structural level closest to target on the
// profit side of entry, if it sits within maxDist.
func nearestLevel(levels []float64, entry, target, maxDist float64, above bool) (float64, bool) {
	best, bestDist, found := 0.0, maxDist, false
	for _, lv := range levels {
		if above && lv <= entry {
			continue
		}
		if !above && lv >= entry {
			continue
		}
		if d := math.Abs(lv - target); d <= bestDist {
			best, bestDist, found = lv, d, true
		}
	}
	return best, found
}

// BuildSetup assembles the full entry/stop/target plan. Returns nil when
// the scenario is CONTRA or the direction is untradeable; stop and
// targets always land on the correct side of entry.
func BuildSetup(dir models.Direction, ta models.TechnicalAnalysis, sc models.ScenarioAnalysis, tc targetContext) *models.Setup {
	if sc.Status == models.ScenarioContra || (dir != models.Long && dir != models.Short) {
		return nil
	}

	entry := ta.Price
	if entry <= 0 {
		return nil
	}
	stopDist, t1, t2, t3 := geometry(ta, tc, dir)
	if stopDist <= 0 {
		return nil
	}

	sign := 1.0
	if dir == models.Short {
		sign = -1
	}
	s := &models.Setup{
		Symbol:      ta.Symbol,
		Direction:   dir,
		Entry:       entry,
		Stop:        entry - sign*stopDist,
		TakeProfit1: entry + sign*t1,
		TakeProfit2: entry + sign*t2,
		TakeProfit3: entry + sign*t3,
		TechScore:   sc.Alignment,
		Confluences: append([]string(nil), sc.Supports...),
		LevelSources: []string{
			"stop: atr", "tp1: atr", "tp2: atr", "tp3: atr",
		},
	}

	if richStructure(ta) {
		levels := structuralLevels(ta)
		maxDist := 2 * ta.Levels.ATR
		if lv, ok := nearestLevel(levels, entry, s.Stop, maxDist, dir == models.Short); ok {
			s.Stop = lv
			s.LevelSources[0] = "stop: structure"
		}
		if lv, ok := nearestLevel(levels, entry, s.TakeProfit1, maxDist, dir == models.Long); ok {
			s.TakeProfit1 = lv
			s.LevelSources[1] = "tp1: structure"
		}
		if lv, ok := nearestLevel(levels, entry, s.TakeProfit2, maxDist, dir == models.Long); ok && lv != s.TakeProfit1 {
			s.TakeProfit2 = lv
			s.LevelSources[2] = "tp2: structure"
		}
		s.Confluences = append(s.Confluences, "structural levels in play")
	}

	risk := math.Abs(entry - s.Stop)
	if risk <= 0 {
		return nil
	}
	s.RiskReward = math.Abs(s.TakeProfit2-entry) / risk

	switch sc.EntryQuality {
	case models.EntryOtimo:
		s.Confidence = models.ConfidenceHigh
	case models.EntryBom:
		s.Confidence = models.ConfidenceMedium
	default:
		s.Confidence = models.ConfidenceLow
	}

	side := "below"
	if dir == models.Short {
		side = "above"
	}
	s.Invalidation = fmt.Sprintf("close %s %.4f invalidates the setup", side, s.Stop)
	return s
}

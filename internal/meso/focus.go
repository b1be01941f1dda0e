package meso

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// regimeTransitions is the historical base-case path out of each regime.
// Used only for the forward-looking line of the temporal focus.
var regimeTransitions = map[string]string{
	models.RegimeDisinflation:   models.RegimeGoldilocks,
	models.RegimeReacceleration: models.RegimeDisinflation,
	models.RegimeGoldilocks:     models.RegimeGoldilocks,
	models.RegimeStagflation:    models.RegimeRiskOff,
	models.RegimeRiskOff:        models.RegimeRecovery,
	models.RegimeRecovery:       models.RegimeGoldilocks,
}

var regimeThesis = map[string]string{
	models.RegimeGoldilocks:     "Growth up, inflation contained: stay long quality risk while breadth holds.",
	models.RegimeDisinflation:   "Inflation rolling over: duration works, equities follow with a lag.",
	models.RegimeReacceleration: "Growth and inflation both firming: real assets lead, duration lags.",
	models.RegimeStagflation:    "Sticky inflation into slowing growth: short duration, long real assets, defensives over beta.",
	models.RegimeRiskOff:        "Deleveraging tape: sell rallies in risk, hide in treasuries, respect gap risk.",
	models.RegimeCarry:          "Low-vol carry window: harvest rate differentials while volatility stays pinned.",
	models.RegimeShock:          "Disorderly move in progress: stand aside in risk assets until the tape stabilizes.",
	models.RegimeRecovery:       "Post-stress repair: add risk gradually as credit reopens.",
	models.RegimeUncertain:      "No reliable regime read: trade small, demand A+ setups only.",
}

// BuildSectorMomentum derives the coarse per-class momentum board from
// the class analyses. It is a display aid, not a scoring input.
func BuildSectorMomentum(classes []models.ClassAnalysis) []models.SectorMomentum {
	out := make([]models.SectorMomentum, 0, len(classes))
	for _, ca := range classes {
		score := 50.0
		label := "FLAT"
		switch ca.Expectation {
		case models.Bullish:
			score, label = 70, "RISING"
			if ca.Confidence == models.ConfidenceHigh {
				score = 85
			}
		case models.Bearish:
			score, label = 30, "FADING"
			if ca.Confidence == models.ConfidenceHigh {
				score = 15
			}
		case models.Mixed:
			score, label = 45, "FLAT"
		}
		out = append(out, models.SectorMomentum{
			Sector:   ca.Class.Meta().Display,
			Momentum: label,
			Score:    score,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// BuildFocus assembles the textual daily framing: thesis, focus line,
// the gate's own drivers as catalysts, and the action plan distilled
// from the allowed universe. Key levels are filled in by the pipeline
// once the micro stage has run.
func BuildFocus(snap *models.RegimeSnapshot, classes []models.ClassAnalysis, allowed []models.MesoInstrument) models.TemporalFocus {
	regime := models.RegimeUncertain
	if snap != nil && snap.Regime != "" {
		regime = snap.Regime
	}

	f := models.TemporalFocus{
		Thesis:     regimeThesis[regime],
		NextRegime: regimeTransitions[regime],
	}
	if f.Thesis == "" {
		f.Thesis = regimeThesis[models.RegimeUncertain]
	}

	var longs, shorts []string
	for _, inst := range allowed {
		switch inst.Direction {
		case models.Long:
			longs = append(longs, inst.Symbol)
		case models.Short:
			shorts = append(shorts, inst.Symbol)
		}
	}
	switch {
	case len(longs) > 0 && len(shorts) > 0:
		f.DailyFocus = fmt.Sprintf("Two-sided tape: longs in %s, shorts in %s.",
			strings.Join(longs, ", "), strings.Join(shorts, ", "))
	case len(longs) > 0:
		f.DailyFocus = "Long side only: " + strings.Join(longs, ", ") + "."
	case len(shorts) > 0:
		f.DailyFocus = "Short side only: " + strings.Join(shorts, ", ") + "."
	default:
		f.DailyFocus = "No tradeable universe this cycle; wait for regime clarity."
	}

	if snap != nil {
		f.Catalysts = append(f.Catalysts, snap.DominantDrivers...)
		f.Catalysts = append(f.Catalysts, snap.Alerts...)
	}

	for _, ca := range classes {
		if ca.Direction == models.Avoid || ca.Confidence == models.ConfidenceLow {
			continue
		}
		verb := "Buy"
		if ca.Direction == models.Short {
			verb = "Sell"
		}
		f.ActionPlan = append(f.ActionPlan,
			fmt.Sprintf("%s %s pullbacks (%s confidence, vol risk %s)",
				verb, strings.ToLower(ca.Class.Meta().Display), strings.ToLower(string(ca.Confidence)), strings.ToLower(string(ca.VolatilityRisk))))
	}
	return f
}

package trust

import (
	"sort"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/scan"
)

// Stage weights. They sum to 1.0; penalties are subtracted after the
// weighted blend.
const (
	weightScan      = 0.30
	weightMicro     = 0.35
	weightMeso      = 0.15
	weightMacro     = 0.10
	weightLiquidity = 0.10
)

// Risk-point buckets and their penalties.
const (
	riskMedThreshold  = 3 // points above this are MED
	riskHighThreshold = 7 // points above this are HIGH

	penaltyRiskMed  = 6
	penaltyRiskHigh = 14
)

var qualityPenalty = map[models.DataQuality]float64{
	models.QualityOK:      0,
	models.QualityPartial: 3,
	models.QualityStale:   8,
	models.QualitySuspect: 15,
}

// Input bundles everything the scorer sees for one instrument. Macro and
// class may be shared across instruments of one cycle.
type Input struct {
	Quote *models.Quote
	Scan  scan.Result
	Micro *models.MicroAnalysis
	Class models.ClassAnalysis
	Macro *models.MacroSnapshot
}

// Scorer computes the composite trust score with its full component
// breakdown.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score produces the scored row for one instrument.
func (s *Scorer) Score(in Input) models.ScoredAsset {
	comp := models.TrustComponents{
		Scan:      in.Scan.Score * weightScan,
		Micro:     microScore(in.Micro) * weightMicro,
		Meso:      mesoScore(in.Class) * weightMeso,
		Macro:     macroScore(in.Macro) * weightMacro,
		Liquidity: liquidityScore(in) * weightLiquidity,
	}
	comp.BehaviorBonus = behaviorBonus(in)

	points, reasons := riskPoints(in)
	label := models.RiskLow
	switch {
	case points > riskHighThreshold:
		label = models.RiskHigh
		comp.RiskPenalty = penaltyRiskHigh
	case points > riskMedThreshold:
		label = models.RiskMed
		comp.RiskPenalty = penaltyRiskMed
	}
	comp.QualityPenalty = qualityPenalty[in.Quote.Quality]

	total := comp.Scan + comp.Micro + comp.Meso + comp.Macro + comp.Liquidity +
		comp.BehaviorBonus - comp.RiskPenalty - comp.QualityPenalty
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return models.ScoredAsset{
		Symbol:     in.Quote.Symbol,
		Name:       in.Quote.Name,
		Class:      in.Quote.Class,
		Price:      in.Quote.Price,
		ChangePct:  in.Quote.ChangePct,
		Volume:     in.Quote.Volume,
		RSI:        in.Quote.RSI,
		Direction:  in.Class.Direction,
		ScanScore:  in.Scan.Score,
		ScanAction: in.Scan.Action,
		TrustScore: total,
		Components: comp,
		Risk:       label,
		Quality:    in.Quote.Quality,
		TopDrivers: topDrivers(comp, reasons),
	}
}

// microScore converts the micro stage into a 0-100 contribution. The
// scenario alignment is the base; the expected-value audit moves it.
func microScore(m *models.MicroAnalysis) float64 {
	if m == nil {
		return 0
	}
	sc := m.Scenario.Alignment
	rec := m.Recommendation

	if rec.Action == models.ActionExecute {
		sc += 10
	}
	if rec.EVR > 0 {
		bump := rec.EVR * 20
		if bump > 15 {
			bump = 15
		}
		sc += bump
	}
	if m.Setup != nil {
		if m.Setup.RiskReward >= rec.RRMin {
			sc += 5
		} else {
			sc -= 10
		}
	} else {
		sc -= 20
	}
	return clamp(sc)
}

// mesoScore rewards a clear class direction; AVOID contributes nothing.
func mesoScore(ca models.ClassAnalysis) float64 {
	if ca.Direction == models.Avoid {
		return 0
	}
	switch ca.Confidence {
	case models.ConfidenceHigh:
		return 100
	case models.ConfidenceMedium:
		if ca.Expectation == models.Mixed {
			return 40
		}
		return 70
	default:
		return 25
	}
}

// macroScore measures gate health, not market direction: a degraded or
// alert-ridden macro feed erodes confidence in everything downstream.
func macroScore(m *models.MacroSnapshot) float64 {
	if m == nil {
		return 30
	}
	sc := 100.0
	if m.Degraded {
		sc -= 40
	}
	if m.Fallback {
		sc -= 20
	}
	for _, a := range m.Alerts {
		switch a.Level {
		case "HIGH":
			sc -= 15
		case "MEDIUM":
			sc -= 7
		}
	}
	return clamp(sc)
}

// liquidityScore prefers the instrument-level zone analysis when the
// micro stage obtained one; the class-level score is the fallback.
func liquidityScore(in Input) float64 {
	sc := in.Class.LiquidityScore
	if in.Micro != nil && in.Micro.Liquidity != nil {
		sc = in.Micro.Liquidity.LiquidityScore
	}
	if in.Quote.DollarVolume() >= in.Quote.Class.Meta().MinDollarVolume {
		sc += 10
	}
	return clamp(sc)
}

// behaviorBonus rewards confirming tape behavior, capped at 5 points.
func behaviorBonus(in Input) float64 {
	b := 0.0
	if in.Micro != nil {
		if in.Micro.Technical.Volume.Regime == "INCREASING" {
			b += 2
		}
		al := in.Micro.Technical.Trend.Alignment
		if (in.Class.Direction == models.Long && al == "ALIGNED_UP") ||
			(in.Class.Direction == models.Short && al == "ALIGNED_DOWN") {
			b += 3
		}
	}
	if b > 5 {
		b = 5
	}
	return b
}

// riskPoints accumulates the additive risk flags behind the LOW/MED/HIGH
// label.
func riskPoints(in Input) (int, []string) {
	points := 0
	var reasons []string
	add := func(n int, why string) {
		points += n
		reasons = append(reasons, why)
	}

	if in.Macro == nil || in.Macro.Degraded {
		add(1, "macro gate degraded")
	}
	if in.Class.Direction == models.Avoid {
		add(2, "class blocked by regime")
	}
	if in.Micro == nil || in.Micro.Setup == nil {
		add(2, "no actionable setup")
	}
	if in.Micro != nil {
		if in.Micro.Scenario.Status == models.ScenarioContra {
			add(2, "technicals contradict direction")
		}
		if in.Micro.Scenario.Timing == models.TimingPerdido {
			add(1, "entry window gone")
		}
		rec := in.Micro.Recommendation
		if in.Micro.Setup != nil && in.Micro.Setup.RiskReward < rec.RRMin {
			add(1, "risk/reward below minimum")
		}
		if rec.EVR < 0 {
			add(2, "negative expected value")
		}
	}
	if in.Class.VolatilityRisk == models.VolRiskHigh {
		add(1, "high volatility environment")
	}
	if in.Class.LiquidityScore < 40 {
		add(1, "thin class liquidity")
	}
	return points, reasons
}

// topDrivers reports the strongest weighted components plus any risk
// reasons, capped at three entries.
func topDrivers(comp models.TrustComponents, riskReasons []string) []string {
	type kv struct {
		name  string
		value float64
	}
	parts := []kv{
		{"opportunity scan", comp.Scan},
		{"technical setup", comp.Micro},
		{"regime alignment", comp.Meso},
		{"macro gate health", comp.Macro},
		{"liquidity depth", comp.Liquidity},
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].value > parts[j].value })

	out := make([]string, 0, 3)
	for _, p := range parts[:2] {
		if p.value > 0 {
			out = append(out, p.name)
		}
	}
	if len(riskReasons) > 0 {
		out = append(out, riskReasons[0])
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

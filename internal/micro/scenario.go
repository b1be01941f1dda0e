package micro

import "github.com/vaquev01/gmpm-sub001/internal/domain/models"

// Scenario scores how well the technical picture aligns with the meso
// direction for the symbol. Alignment starts at 50 and moves with each
// confirming or contradicting element; blockers are hard flaws that the
// status thresholds count separately.
func Scenario(dir models.Direction, ta models.TechnicalAnalysis) models.ScenarioAnalysis {
	out := models.ScenarioAnalysis{Alignment: 50}
	if dir != models.Long && dir != models.Short {
		out.Status = models.ScenarioContra
		out.EntryQuality = models.EntryRuim
		out.Timing = models.TimingPerdido
		out.Blockers = append(out.Blockers, "no tradeable direction")
		return out
	}

	long := dir == models.Long
	support := func(pts float64, why string) {
		out.Alignment += pts
		out.Supports = append(out.Supports, why)
	}
	oppose := func(pts float64, why string) {
		out.Alignment -= pts
		out.Blockers = append(out.Blockers, why)
	}

	trendAligned := (long && ta.Trend.Alignment == "ALIGNED_UP") ||
		(!long && ta.Trend.Alignment == "ALIGNED_DOWN")
	trendAgainst := (long && ta.Trend.Alignment == "ALIGNED_DOWN") ||
		(!long && ta.Trend.Alignment == "ALIGNED_UP")
	switch {
	case trendAligned:
		support(20, "multi-timeframe trend aligned")
	case trendAgainst:
		oppose(30, "trend fully against direction")
	}

	switch {
	case long && ta.Zone == models.ZoneDiscount, !long && ta.Zone == models.ZonePremium:
		support(15, "price in favorable zone")
	case long && ta.Zone == models.ZonePremium, !long && ta.Zone == models.ZoneDiscount:
		out.Alignment -= 15
	}

	switch {
	case long && ta.Indicators.RSIDivergence == "BULLISH",
		!long && ta.Indicators.RSIDivergence == "BEARISH":
		support(10, "RSI divergence confirms")
	case long && ta.Indicators.RSI > 75, !long && ta.Indicators.RSI < 25:
		out.Alignment -= 10
	}

	switch ta.Volume.Regime {
	case "INCREASING":
		support(10, "volume expanding")
	case "DECREASING":
		oppose(0, "volume fading")
	}

	for _, ob := range ta.OrderBlocks {
		if (long && ob.Direction == models.Long) || (!long && ob.Direction == models.Short) {
			support(10, "order block in direction")
			break
		}
	}

	if out.Alignment < 0 {
		out.Alignment = 0
	}
	if out.Alignment > 100 {
		out.Alignment = 100
	}

	blockers := len(out.Blockers)
	switch {
	case out.Alignment >= 75 && blockers == 0:
		out.Status = models.ScenarioReady
		out.EntryQuality = models.EntryOtimo
		out.Timing = models.TimingAgora
	case out.Alignment >= 60 && blockers <= 1:
		out.Status = models.ScenarioReady
		out.EntryQuality = models.EntryBom
		out.Timing = models.TimingAgora
	case out.Alignment >= 45 || (trendAligned && blockers <= 2):
		out.Status = models.ScenarioDeveloping
		out.EntryQuality = models.EntryRuim
		out.Timing = models.TimingAguardar
	default:
		out.Status = models.ScenarioContra
		out.EntryQuality = models.EntryRuim
		out.Timing = models.TimingPerdido
	}
	return out
}

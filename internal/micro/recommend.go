package micro

import (
	"fmt"
	"math"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Win-probability model bounds. The estimate is a heuristic blend of
// scenario quality and context, never allowed outside this band so the
// expected-value gate cannot be gamed by an overconfident input.
const (
	pFloor = 0.25
	pCeil  = 0.78
	pBase  = 0.45
)

// rrFactor and evFloor per model-risk tier.
var (
	rrFactor = map[models.ModelRisk]float64{
		models.ModelRiskLow:  1.15,
		models.ModelRiskMed:  1.30,
		models.ModelRiskHigh: 1.50,
	}
	evFloor = map[models.ModelRisk]float64{
		models.ModelRiskLow:  0.10,
		models.ModelRiskMed:  0.15,
		models.ModelRiskHigh: 0.25,
	}
)

func winProbability(sc models.ScenarioAnalysis, ta models.TechnicalAnalysis, s *models.Setup) float64 {
	p := pBase + (sc.Alignment-50)/250

	if s != nil {
		switch s.Confidence {
		case models.ConfidenceHigh:
			p += 0.05
		case models.ConfidenceLow:
			p -= 0.05
		}
		if len(s.Confluences) >= 3 {
			p += 0.03
		}
	}
	if ta.Volume.Regime == "INCREASING" {
		p += 0.02
	}
	if ta.Volume.Climax {
		p -= 0.03
	}

	if p < pFloor {
		p = pFloor
	}
	if p > pCeil {
		p = pCeil
	}
	return p
}

func modelRisk(s *models.Setup) models.ModelRisk {
	if s == nil {
		return models.ModelRiskHigh
	}
	switch {
	case s.Confidence == models.ConfidenceHigh && len(s.Confluences) >= 3:
		return models.ModelRiskLow
	case s.Confidence == models.ConfidenceLow || len(s.Confluences) <= 1:
		return models.ModelRiskHigh
	default:
		return models.ModelRiskMed
	}
}

// buildTrigger picks the activation condition for a WAIT setup, in
// priority order: volume confirmation, range breakout, pullback to the
// pivot, order-block retest, divergence confirmation.
func buildTrigger(dir models.Direction, ta models.TechnicalAnalysis) *models.Trigger {
	long := dir == models.Long

	if ta.Volume.Regime != "INCREASING" {
		return &models.Trigger{
			Price:     ta.Price,
			Condition: "relative volume above 1.2x average",
			Kind:      "VOLUME",
		}
	}
	if long && len(ta.Levels.Resistance) > 0 {
		return &models.Trigger{
			Price:     ta.Levels.Resistance[0],
			Condition: fmt.Sprintf("close above %.4f", ta.Levels.Resistance[0]),
			Kind:      "BREAKOUT",
		}
	}
	if !long && len(ta.Levels.Support) > 0 {
		return &models.Trigger{
			Price:     ta.Levels.Support[0],
			Condition: fmt.Sprintf("close below %.4f", ta.Levels.Support[0]),
			Kind:      "BREAKOUT",
		}
	}
	if ta.Levels.Pivot > 0 {
		side := "pullback to"
		return &models.Trigger{
			Price:     ta.Levels.Pivot,
			Condition: fmt.Sprintf("%s pivot %.4f holds", side, ta.Levels.Pivot),
			Kind:      "PULLBACK",
		}
	}
	for _, ob := range ta.OrderBlocks {
		if (long && ob.Direction == models.Long) || (!long && ob.Direction == models.Short) {
			return &models.Trigger{
				Price:     (ob.High + ob.Low) / 2,
				Condition: "order block retest holds",
				Kind:      "ORDER_BLOCK",
			}
		}
	}
	if ta.Indicators.RSIDivergence != "NONE" {
		return &models.Trigger{
			Price:     ta.Price,
			Condition: "divergence confirmed by reversal close",
			Kind:      "DIVERGENCE",
		}
	}
	return nil
}

// Recommend runs the go/no-go ladder over the setup. Every WAIT and
// AVOID carries the failing gate in Reason so callers can audit the
// decision without replaying the math. Quality gates the quote itself:
// a suspect quote is never tradeable and a degraded one never executes,
// whatever the geometry says.
func Recommend(dir models.Direction, quality models.DataQuality, ta models.TechnicalAnalysis, sc models.ScenarioAnalysis, s *models.Setup) models.Recommendation {
	p := winProbability(sc, ta, s)
	risk := modelRisk(s)
	rec := models.Recommendation{
		WinProbability: p,
		RRMin:          (1 - p) / p * rrFactor[risk],
		ModelRisk:      risk,
	}

	if s == nil || sc.Status == models.ScenarioContra {
		rec.Action = models.ActionAvoid
		rec.Reason = "technicals oppose the directional thesis"
		return rec
	}

	rec.EVR = p*s.RiskReward - (1 - p)

	switch {
	case quality == models.QualitySuspect:
		rec.Action = models.ActionAvoid
		rec.Reason = "quote data flagged suspect"
	case quality == models.QualityStale || quality == models.QualityPartial:
		rec.Action = models.ActionWait
		rec.Reason = fmt.Sprintf("degraded quote data (%s)", quality)
		rec.Trigger = buildTrigger(dir, ta)
	case math.IsNaN(s.RiskReward) || math.IsInf(s.RiskReward, 0):
		rec.Action = models.ActionWait
		rec.Reason = "risk distance too small to price"
	case s.RiskReward < rec.RRMin && rec.EVR < 0:
		rec.Action = models.ActionAvoid
		rec.Reason = fmt.Sprintf("risk/reward %.2f below required %.2f at negative expected value", s.RiskReward, rec.RRMin)
	case s.RiskReward < rec.RRMin:
		rec.Action = models.ActionWait
		rec.Reason = fmt.Sprintf("risk/reward %.2f below required %.2f", s.RiskReward, rec.RRMin)
		rec.Trigger = buildTrigger(dir, ta)
	case rec.EVR < evFloor[risk]:
		rec.Action = models.ActionWait
		rec.Reason = fmt.Sprintf("expected value %.2fR below %.2fR floor", rec.EVR, evFloor[risk])
		rec.Trigger = buildTrigger(dir, ta)
	case sc.Timing == models.TimingAguardar:
		rec.Action = models.ActionWait
		rec.Reason = "scenario still developing"
		rec.Trigger = buildTrigger(dir, ta)
	case sc.Timing == models.TimingPerdido:
		rec.Action = models.ActionAvoid
		rec.Reason = "entry window already gone"
	case s.Confidence == models.ConfidenceHigh,
		s.Confidence == models.ConfidenceMedium && len(s.Confluences) >= 3:
		rec.Action = models.ActionExecute
		rec.Reason = fmt.Sprintf("aligned setup, %.0f%% win probability, %.2fR expected", p*100, rec.EVR)
	case s.Confidence == models.ConfidenceMedium:
		rec.Action = models.ActionWait
		rec.Reason = "needs another confluence before committing"
		rec.Trigger = buildTrigger(dir, ta)
	default:
		rec.Action = models.ActionAvoid
		rec.Reason = "entry quality too weak to trust the model"
	}
	return rec
}

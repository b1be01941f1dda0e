package models

import (
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
)

// Expectation is the class-level outlook derived from the regime.
type Expectation string

const (
	Bullish Expectation = "BULLISH"
	Bearish Expectation = "BEARISH"
	Neutral Expectation = "NEUTRAL"
	Mixed   Expectation = "MIXED"
)

// Direction is the tradeable direction attached to classes, instruments
// and setups.
type Direction string

const (
	Long  Direction = "LONG"
	Short Direction = "SHORT"
	Avoid Direction = "AVOID"
)

// VolatilityRisk labels the expected volatility environment of a class.
type VolatilityRisk string

const (
	VolRiskLow  VolatilityRisk = "LOW"
	VolRiskMed  VolatilityRisk = "MED"
	VolRiskHigh VolatilityRisk = "HIGH"
)

// ClassAnalysis is the per-class result of the meso stage. Produced fresh
// each pipeline run and never mutated afterwards.
type ClassAnalysis struct {
	Class          assets.Class   `json:"class"`
	Expectation    Expectation    `json:"expectation"`
	Confidence     Confidence     `json:"confidence"`
	Direction      Direction      `json:"direction"`
	Drivers        []string       `json:"drivers,omitempty"`
	LiquidityScore float64        `json:"liquidityScore"`
	VolatilityRisk VolatilityRisk `json:"volatilityRisk"`
	TopPicks       []string       `json:"topPicks,omitempty"`
	AvoidList      []string       `json:"avoidList,omitempty"`
}

// MesoInstrument is one allowed instrument picked by the universe builder.
type MesoInstrument struct {
	Symbol     string       `json:"symbol"`
	Direction  Direction    `json:"direction"`
	Class      assets.Class `json:"class"`
	Reason     string       `json:"reason"`
	Conviction float64      `json:"conviction"`
}

// ProhibitedInstrument records a symbol barred from the universe.
type ProhibitedInstrument struct {
	Symbol string       `json:"symbol"`
	Class  assets.Class `json:"class"`
	Reason string       `json:"reason"`
}

// SectorMomentum is the derived momentum reading per sector/class.
type SectorMomentum struct {
	Sector   string  `json:"sector"`
	Momentum string  `json:"momentum"` // RISING, FADING, FLAT
	Score    float64 `json:"score"`
}

// TemporalFocus is the textual daily framing built from the regime and
// the class results.
type TemporalFocus struct {
	Thesis     string   `json:"thesis"`
	DailyFocus string   `json:"dailyFocus"`
	KeyLevels  []string `json:"keyLevels,omitempty"`
	Catalysts  []string `json:"catalysts,omitempty"`
	ActionPlan []string `json:"actionPlan,omitempty"`
	NextRegime string   `json:"nextRegime,omitempty"`
}

// MesoAnalysis is the full meso stage output served over HTTP.
type MesoAnalysis struct {
	Timestamp  time.Time              `json:"timestamp"`
	Regime     string                 `json:"regime"`
	Confidence Confidence             `json:"regimeConfidence"`
	Degraded   bool                   `json:"degraded,omitempty"`
	Classes    []ClassAnalysis        `json:"classes"`
	Sectors    []SectorMomentum       `json:"sectors,omitempty"`
	Focus      TemporalFocus          `json:"temporalFocus"`
	Allowed    []MesoInstrument       `json:"allowed"`
	Prohibited []ProhibitedInstrument `json:"prohibited"`
}

// ClassFor returns the analysis for a class, if present.
func (m *MesoAnalysis) ClassFor(c assets.Class) (ClassAnalysis, bool) {
	for _, ca := range m.Classes {
		if ca.Class == c {
			return ca, true
		}
	}
	return ClassAnalysis{}, false
}

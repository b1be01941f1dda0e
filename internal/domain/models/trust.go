package models

import (
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
)

// RiskLabel buckets the additive risk points of a scored row.
type RiskLabel string

const (
	RiskLow  RiskLabel = "LOW"
	RiskMed  RiskLabel = "MED"
	RiskHigh RiskLabel = "HIGH"
)

// Mode is the selectable risk posture of the ranking stage.
type Mode string

const (
	ModeConservative Mode = "conservative"
	ModeBalanced     Mode = "balanced"
	ModeAggressive   Mode = "aggressive"
)

// TrustComponents is the explainable breakdown behind a trust score.
// Positive contributions are already weighted; penalties are subtracted.
type TrustComponents struct {
	Scan           float64 `json:"scan"`
	Micro          float64 `json:"micro"`
	Meso           float64 `json:"meso"`
	Macro          float64 `json:"macro"`
	Liquidity      float64 `json:"liquidity"`
	BehaviorBonus  float64 `json:"behaviorBonus"`
	RiskPenalty    float64 `json:"riskPenalty"`
	QualityPenalty float64 `json:"qualityPenalty"`
}

// ScoredAsset is one row of the composite scored/ranked universe. Rows
// are recomputed every poll cycle; the previous cycle's value is simply
// replaced.
type ScoredAsset struct {
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Class      assets.Class    `json:"assetClass"`
	Price      float64         `json:"price"`
	ChangePct  float64         `json:"changePct"`
	Volume     float64         `json:"volume"`
	RSI        float64         `json:"rsi"`
	Direction  Direction       `json:"direction"`
	ScanScore  float64         `json:"scanScore"`
	ScanAction Action          `json:"scanAction"`
	TrustScore float64         `json:"trustScore"`
	Components TrustComponents `json:"components"`
	Risk       RiskLabel       `json:"risk"`
	Quality    DataQuality     `json:"quality"`
	TopDrivers []string        `json:"topDrivers,omitempty"`
}

// ScoredUniverse is the ranked output served to the presentation layer.
type ScoredUniverse struct {
	Timestamp time.Time     `json:"timestamp"`
	Mode      Mode          `json:"mode"`
	Regime    string        `json:"regime"`
	Degraded  bool          `json:"degraded,omitempty"`
	Assets    []ScoredAsset `json:"assets"`
}

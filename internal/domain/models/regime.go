package models

import "time"

// AxisName is one of the six macro state variables published by the
// regime gate.
type AxisName string

const (
	AxisGrowth     AxisName = "growth"
	AxisInflation  AxisName = "inflation"
	AxisLiquidity  AxisName = "liquidity"
	AxisCredit     AxisName = "credit"
	AxisDollar     AxisName = "dollar"
	AxisVolatility AxisName = "volatility"
)

// AxisDirection is the 5-point ordinal reading of an axis.
type AxisDirection string

const (
	StrongUp   AxisDirection = "STRONG_UP"
	Up         AxisDirection = "UP"
	Flat       AxisDirection = "FLAT"
	Down       AxisDirection = "DOWN"
	StrongDown AxisDirection = "STRONG_DOWN"
)

// Rising reports whether the axis points up, strongly or not.
func (d AxisDirection) Rising() bool { return d == Up || d == StrongUp }

// Falling reports whether the axis points down, strongly or not.
func (d AxisDirection) Falling() bool { return d == Down || d == StrongDown }

// Strong reports a strong reading in either direction.
func (d AxisDirection) Strong() bool { return d == StrongUp || d == StrongDown }

// Confidence is the shared LOW/MEDIUM/HIGH scale used across the pipeline.
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// Regime labels published by the gate. The pipeline only branches on the
// labels below; anything else is treated as UNCERTAIN.
const (
	RegimeGoldilocks     = "GOLDILOCKS"
	RegimeDisinflation   = "DISINFLATION"
	RegimeReacceleration = "REACCELERATION"
	RegimeStagflation    = "STAGFLATION"
	RegimeRiskOff        = "RISK_OFF"
	RegimeCarry          = "CARRY"
	RegimeShock          = "SHOCK"
	RegimeRecovery       = "RECOVERY"
	RegimeUncertain      = "UNCERTAIN"
)

// AxisScore is one axis reading. Owned by the external regime gate and
// read-only inside the pipeline.
type AxisScore struct {
	Direction  AxisDirection `json:"direction"`
	Confidence Confidence    `json:"confidence"`
	Reasons    []string      `json:"reasons,omitempty"`
}

// MesoTilt is a ranked directional lean the gate attaches to a named
// asset or theme.
type MesoTilt struct {
	Direction  Direction  `json:"direction"`
	Asset      string     `json:"asset"`
	Rationale  string     `json:"rationale"`
	Confidence Confidence `json:"confidence"`
}

// RegimeSnapshot is the full regime gate document consumed by the meso
// stage. A missing or failed fetch yields NeutralRegimeSnapshot with
// Degraded set; downstream stages treat that as fail-closed input.
type RegimeSnapshot struct {
	Regime           string                 `json:"regime"`
	RegimeConfidence Confidence             `json:"regimeConfidence"`
	Axes             map[AxisName]AxisScore `json:"axes"`
	MesoTilts        []MesoTilt             `json:"mesoTilts,omitempty"`
	MesoProhibitions []string               `json:"mesoProhibitions,omitempty"`
	DominantDrivers  []string               `json:"dominantDrivers,omitempty"`
	Alerts           []string               `json:"alerts,omitempty"`
	Degraded         bool                   `json:"degraded,omitempty"`
	Timestamp        time.Time              `json:"timestamp"`
}

// Axis returns the axis reading, defaulting to FLAT/LOW when absent.
func (s *RegimeSnapshot) Axis(name AxisName) AxisScore {
	if s == nil || s.Axes == nil {
		return AxisScore{Direction: Flat, Confidence: ConfidenceLow}
	}
	a, ok := s.Axes[name]
	if !ok {
		return AxisScore{Direction: Flat, Confidence: ConfidenceLow}
	}
	return a
}

// NeutralRegimeSnapshot is the fail-closed default used when the gate is
// unreachable: UNCERTAIN regime, all axes flat, degraded flag set.
func NeutralRegimeSnapshot(now time.Time) *RegimeSnapshot {
	axes := make(map[AxisName]AxisScore, 6)
	for _, n := range []AxisName{AxisGrowth, AxisInflation, AxisLiquidity, AxisCredit, AxisDollar, AxisVolatility} {
		axes[n] = AxisScore{Direction: Flat, Confidence: ConfidenceLow}
	}
	return &RegimeSnapshot{
		Regime:           RegimeUncertain,
		RegimeConfidence: ConfidenceLow,
		Axes:             axes,
		Degraded:         true,
		Timestamp:        now,
	}
}

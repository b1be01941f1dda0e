package models

import (
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
)

// DataQuality is the server-reported quality status of a quote. Anything
// other than OK fails closed for signal emission.
type DataQuality string

const (
	QualityOK      DataQuality = "OK"
	QualityPartial DataQuality = "PARTIAL"
	QualityStale   DataQuality = "STALE"
	QualitySuspect DataQuality = "SUSPECT"
)

// Tradeable reports whether the quality status permits emitting a trade
// signal at all.
func (q DataQuality) Tradeable() bool { return q == QualityOK }

// Quote is one normalized instrument quote from the market feed. The
// feed boundary fills every field (zero defaults where upstream omitted
// data) so downstream scoring never chases optional values.
type Quote struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name"`
	Class       assets.Class `json:"assetClass"`
	Price       float64      `json:"price"`
	High        float64      `json:"high"`
	Low         float64      `json:"low"`
	Volume      float64      `json:"volume"`
	AvgVolume   float64      `json:"avgVolume"`
	RSI         float64      `json:"rsi"`
	ChangePct   float64      `json:"changePct"` // 1-day percent change
	History     []float64    `json:"history"`   // daily closes, oldest first
	Quality     DataQuality  `json:"quality"`
	SessionOpen bool         `json:"sessionOpen"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// DollarVolume is the traded notional used as the liquidity-depth proxy.
func (q *Quote) DollarVolume() float64 { return q.Price * q.Volume }

// RelVolume is volume relative to its average, 0 when the average is
// unknown.
func (q *Quote) RelVolume() float64 {
	if q.AvgVolume <= 0 {
		return 0
	}
	return q.Volume / q.AvgVolume
}

// MacroAlert is a threshold breach derived from the macro feed.
type MacroAlert struct {
	ID    string  `json:"id"`
	Level string  `json:"level"` // LOW, MEDIUM, HIGH
	Value float64 `json:"value"`
}

// MacroSnapshot is the macro feed document, served from a TTL +
// stale-while-revalidate cache. Degraded/Fallback flags propagate into
// gate-health scoring, not just display.
type MacroSnapshot struct {
	VIX         float64      `json:"vix"`
	Treasury10Y float64      `json:"treasury10y"`
	Treasury2Y  float64      `json:"treasury2y"`
	YieldCurve  float64      `json:"yieldCurve"`
	DollarIndex float64      `json:"dollarIndex"`
	FearGreed   float64      `json:"fearGreed"`
	Degraded    bool         `json:"degraded,omitempty"`
	Fallback    bool         `json:"fallback,omitempty"`
	Alerts      []MacroAlert `json:"alerts,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
}

// LiquidityTarget is one projected liquidity draw published by the
// liquidity-zone service.
type LiquidityTarget struct {
	Price       float64   `json:"price"`
	Direction   Direction `json:"direction"`
	Probability float64   `json:"probability"` // 0-100
	Kind        string    `json:"kind"`        // PRIMARY, SECONDARY
}

// LiquidityZones is the optional liquidity-zone analysis for a symbol.
type LiquidityZones struct {
	Symbol             string             `json:"symbol"`
	LiquidityScore     float64            `json:"liquidityScore"` // 0-100
	ToleranceProfile   string             `json:"toleranceProfile"`
	PriceTargets       []LiquidityTarget  `json:"priceTargets,omitempty"`
	Invalidation       float64            `json:"invalidation,omitempty"`
	MTFLiquidity       map[string]float64 `json:"mtfLiquidity,omitempty"`
	HistoricalBehavior string             `json:"historicalBehavior"` // PASSIVE, AGGRESSIVE, NEUTRAL
}

// Primary returns the primary price target, if any.
func (z *LiquidityZones) Primary() (LiquidityTarget, bool) {
	if z == nil {
		return LiquidityTarget{}, false
	}
	for _, t := range z.PriceTargets {
		if t.Kind == "PRIMARY" {
			return t, true
		}
	}
	if len(z.PriceTargets) > 0 {
		return z.PriceTargets[0], true
	}
	return LiquidityTarget{}, false
}

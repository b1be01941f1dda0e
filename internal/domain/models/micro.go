package models

import "time"

// Trend is a single-timeframe trend reading.
type Trend string

const (
	TrendUp       Trend = "UP"
	TrendDown     Trend = "DOWN"
	TrendSideways Trend = "SIDEWAYS"
)

// TimeframeTrend covers the three analysis timeframes plus the combined
// alignment label.
type TimeframeTrend struct {
	Short     Trend  `json:"short"`
	Mid       Trend  `json:"mid"`
	Long      Trend  `json:"long"`
	Alignment string `json:"alignment"` // ALIGNED_UP, ALIGNED_DOWN, MIXED
}

// StructurePhase is the coarse market-structure classification.
type StructurePhase string

const (
	PhaseAccumulation StructurePhase = "ACCUMULATION"
	PhaseMarkup       StructurePhase = "MARKUP"
	PhaseDistribution StructurePhase = "DISTRIBUTION"
	PhaseMarkdown     StructurePhase = "MARKDOWN"
	PhaseRange        StructurePhase = "RANGE"
)

// Zone is the price position relative to the recent high-low midpoint.
type Zone string

const (
	ZonePremium     Zone = "PREMIUM"
	ZoneDiscount    Zone = "DISCOUNT"
	ZoneEquilibrium Zone = "EQUILIBRIUM"
)

// OrderBlock is a simplified structural zone left by an impulsive move.
type OrderBlock struct {
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Direction Direction `json:"direction"` // LONG = bullish block
}

// FairValueGap is a price gap proxy between non-adjacent closes.
type FairValueGap struct {
	Upper     float64   `json:"upper"`
	Lower     float64   `json:"lower"`
	Direction Direction `json:"direction"`
}

// LiquidityPool marks clustered equal highs/lows where resting liquidity
// is assumed.
type LiquidityPool struct {
	Price float64 `json:"price"`
	Side  string  `json:"side"` // ABOVE, BELOW
}

// Levels holds the structural price levels. ATR is always normalized to
// 0.3%-2% of price to avoid degenerate targets on illiquid or stale
// quotes.
type Levels struct {
	Support    []float64 `json:"support,omitempty"`
	Resistance []float64 `json:"resistance,omitempty"`
	Pivot      float64   `json:"pivot"`
	ATR        float64   `json:"atr"`
}

// Indicators carries the oscillator and moving-average readings.
type Indicators struct {
	RSI           float64 `json:"rsi"`
	RSIDivergence string  `json:"rsiDivergence"` // BULLISH, BEARISH, NONE
	MA9           float64 `json:"ma9"`
	MA21          float64 `json:"ma21"`
	MA50          float64 `json:"ma50"`
}

// VolumeProfile is the volume regime reading.
type VolumeProfile struct {
	Regime    string  `json:"regime"` // INCREASING, DECREASING, FLAT
	RelVolume float64 `json:"relVolume"`
	Climax    bool    `json:"climax"`
}

// TechnicalAnalysis is the per-instrument technical snapshot, recomputed
// from quote history on every pipeline run.
type TechnicalAnalysis struct {
	Symbol      string          `json:"symbol"`
	Price       float64         `json:"price"`
	Trend       TimeframeTrend  `json:"trend"`
	Phase       StructurePhase  `json:"phase"`
	Levels      Levels          `json:"levels"`
	Indicators  Indicators      `json:"indicators"`
	Volume      VolumeProfile   `json:"volume"`
	Zone        Zone            `json:"zone"`
	OrderBlocks []OrderBlock    `json:"orderBlocks,omitempty"`
	Gaps        []FairValueGap  `json:"fairValueGaps,omitempty"`
	Pools       []LiquidityPool `json:"liquidityPools,omitempty"`
}

// ScenarioStatus gates setup generation for an instrument.
type ScenarioStatus string

const (
	ScenarioReady      ScenarioStatus = "PRONTO"
	ScenarioDeveloping ScenarioStatus = "DESENVOLVENDO"
	ScenarioContra     ScenarioStatus = "CONTRA"
)

// Entry quality and timing labels attached to a scenario.
const (
	EntryOtimo = "OTIMO"
	EntryBom   = "BOM"
	EntryRuim  = "RUIM"

	TimingAgora    = "AGORA"
	TimingAguardar = "AGUARDAR"
	TimingPerdido  = "PERDIDO"
)

// ScenarioAnalysis scores how well the technicals align with the meso
// direction. CONTRA suppresses setup generation entirely.
type ScenarioAnalysis struct {
	Status       ScenarioStatus `json:"status"`
	Alignment    float64        `json:"alignment"` // 0-100
	EntryQuality string         `json:"entryQuality"`
	Timing       string         `json:"timing"`
	Blockers     []string       `json:"blockers,omitempty"`
	Supports     []string       `json:"supports,omitempty"`
}

// Setup is a concrete entry/stop/target plan. Stop and take-profits are
// always on the correct side of entry for the direction; RiskReward is
// |reward|/|risk| with risk > 0 guarded at construction.
type Setup struct {
	Symbol       string     `json:"symbol"`
	Direction    Direction  `json:"direction"`
	Entry        float64    `json:"entry"`
	Stop         float64    `json:"stop"`
	TakeProfit1  float64    `json:"takeProfit1"`
	TakeProfit2  float64    `json:"takeProfit2"`
	TakeProfit3  float64    `json:"takeProfit3"`
	RiskReward   float64    `json:"riskReward"`
	Confidence   Confidence `json:"confidence"`
	Confluences  []string   `json:"confluences,omitempty"`
	Invalidation string     `json:"invalidation"`
	TechScore    float64    `json:"technicalScore"` // 0-100
	LevelSources []string   `json:"levelSources,omitempty"`
}

// Action is the final go/no-go state of a recommendation.
type Action string

const (
	ActionExecute Action = "EXECUTE"
	ActionWait    Action = "WAIT"
	ActionAvoid   Action = "AVOID"
)

// ModelRisk labels how much the probability model is trusted.
type ModelRisk string

const (
	ModelRiskLow  ModelRisk = "LOW"
	ModelRiskMed  ModelRisk = "MED"
	ModelRiskHigh ModelRisk = "HIGH"
)

// Trigger is a condition the symbol must satisfy before a non-immediate
// setup activates.
type Trigger struct {
	Price     float64 `json:"price"`
	Condition string  `json:"condition"`
	Kind      string  `json:"kind"` // VOLUME, BREAKOUT, PULLBACK, ORDER_BLOCK, DIVERGENCE
}

// Recommendation is the gated go/no-go decision with its probability and
// expected-value audit trail.
type Recommendation struct {
	Action         Action    `json:"action"`
	Reason         string    `json:"reason"`
	Trigger        *Trigger  `json:"trigger,omitempty"`
	WinProbability float64   `json:"winProbability"` // 0.25-0.78
	RRMin          float64   `json:"rrMin"`
	EVR            float64   `json:"evR"` // expected value in risk units
	ModelRisk      ModelRisk `json:"modelRisk"`
}

// MicroAnalysis is the full micro stage output for one instrument.
// Liquidity carries the external zone analysis when it was available so
// downstream scoring can weigh instrument-level liquidity quality.
type MicroAnalysis struct {
	Symbol         string            `json:"symbol"`
	Direction      Direction         `json:"direction"`
	Technical      TechnicalAnalysis `json:"technical"`
	Scenario       ScenarioAnalysis  `json:"scenario"`
	Setup          *Setup            `json:"setup,omitempty"`
	Liquidity      *LiquidityZones   `json:"liquidity,omitempty"`
	Recommendation Recommendation    `json:"recommendation"`
	Timestamp      time.Time         `json:"timestamp"`
}

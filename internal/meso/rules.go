package meso

import (
	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/rules"
)

type classRule = rules.Rule[classCtx]

func axis(c *classCtx, name models.AxisName) models.AxisScore { return c.Snap.Axis(name) }

// axisRules returns the ordered axis-direction table for a class. Rule
// names double as driver strings on the resulting analysis.
func axisRules(class assets.Class) []classRule {
	common := []classRule{
		{
			Name: "volatility axis strong: confidence reduced",
			When: func(c *classCtx) bool { return axis(c, models.AxisVolatility).Direction.Strong() },
			Then: func(c *classCtx) {
				c.Out.Confidence = models.ConfidenceLow
				c.Out.VolatilityRisk = models.VolRiskHigh
				c.addLiquidity(-10)
			},
		},
		{
			Name: "volatility axis rising: elevated volatility risk",
			When: func(c *classCtx) bool {
				v := axis(c, models.AxisVolatility).Direction
				return v == models.Up
			},
			Then: func(c *classCtx) { c.Out.VolatilityRisk = models.VolRiskHigh },
		},
		{
			Name: "volatility axis falling: calm tape",
			When: func(c *classCtx) bool { return axis(c, models.AxisVolatility).Direction.Falling() },
			Then: func(c *classCtx) { c.Out.VolatilityRisk = models.VolRiskLow },
		},
		{
			Name: "liquidity axis rising: depth improving",
			When: func(c *classCtx) bool { return axis(c, models.AxisLiquidity).Direction.Rising() },
			Then: func(c *classCtx) {
				if axis(c, models.AxisLiquidity).Direction.Strong() {
					c.addLiquidity(30)
				} else {
					c.addLiquidity(20)
				}
			},
		},
		{
			Name: "liquidity axis falling: depth draining",
			When: func(c *classCtx) bool { return axis(c, models.AxisLiquidity).Direction.Falling() },
			Then: func(c *classCtx) {
				if axis(c, models.AxisLiquidity).Direction.Strong() {
					c.addLiquidity(-30)
				} else {
					c.addLiquidity(-20)
				}
			},
		},
		{
			Name: "regime gate degraded: confidence floor",
			When: func(c *classCtx) bool { return c.Snap.Degraded },
			Then: func(c *classCtx) { c.Out.Confidence = models.ConfidenceLow },
		},
	}

	var specific []classRule
	switch class {
	case assets.Stocks, assets.Indices:
		specific = []classRule{
			{
				Name: "growth rising favors equities",
				When: func(c *classCtx) bool { return axis(c, models.AxisGrowth).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "growth falling pressures equities",
				When: func(c *classCtx) bool { return axis(c, models.AxisGrowth).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short) },
			},
			{
				Name: "credit tightening weighs on equities",
				When: func(c *classCtx) bool { return axis(c, models.AxisCredit).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short); c.addLiquidity(-10) },
			},
		}
	case assets.Crypto:
		specific = []classRule{
			{
				Name: "growth rising supports risk appetite",
				When: func(c *classCtx) bool { return axis(c, models.AxisGrowth).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "dollar rising pressures crypto",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short) },
			},
			{
				Name: "dollar falling lifts crypto",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "liquidity expansion is a crypto tailwind",
				When: func(c *classCtx) bool { return axis(c, models.AxisLiquidity).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
		}
	case assets.Commodities:
		specific = []classRule{
			{
				Name: "inflation rising favors commodities",
				When: func(c *classCtx) bool { return axis(c, models.AxisInflation).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "dollar rising pressures commodities",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short) },
			},
			{
				Name: "dollar falling lifts commodities",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
		}
	case assets.Bonds:
		specific = []classRule{
			{
				Name: "inflation rising is bearish duration",
				When: func(c *classCtx) bool { return axis(c, models.AxisInflation).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short) },
			},
			{
				Name: "inflation falling is bullish duration",
				When: func(c *classCtx) bool { return axis(c, models.AxisInflation).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "growth falling drives flight to quality",
				When: func(c *classCtx) bool { return axis(c, models.AxisGrowth).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
		}
	case assets.Forex:
		specific = []classRule{
			{
				Name: "dollar rising aligns long USD pairs",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Rising() },
				Then: func(c *classCtx) { c.lean(models.Bullish, models.Long) },
			},
			{
				Name: "dollar falling aligns short USD pairs",
				When: func(c *classCtx) bool { return axis(c, models.AxisDollar).Direction.Falling() },
				Then: func(c *classCtx) { c.lean(models.Bearish, models.Short) },
			},
		}
	}

	return append(specific, common...)
}

// regimeOverride forces class state regardless of axis readings.
type regimeOverride struct {
	exp      models.Expectation
	dir      models.Direction
	conf     models.Confidence
	volRisk  models.VolatilityRisk
	liqDelta float64
	picks    []string
	avoids   []string
}

// regimeOverrideTable maps regime label -> class -> forced state. Only
// regimes with a firm playbook appear; anything else leaves the axis
// result standing.
var regimeOverrideTable = map[string]map[assets.Class]regimeOverride{
	models.RegimeGoldilocks: {
		assets.Stocks:  {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskLow, liqDelta: 10, picks: []string{"AAPL", "MSFT", "NVDA"}},
		assets.Indices: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskLow, liqDelta: 10, picks: []string{"SPY", "QQQ"}},
		assets.Crypto:  {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed, picks: []string{"BTC/USDT", "ETH/USDT"}},
	},
	models.RegimeStagflation: {
		assets.Bonds:       {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceHigh, volRisk: models.VolRiskMed, avoids: []string{"TLT", "IEF", "LQD"}},
		assets.Commodities: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskMed, liqDelta: 10, picks: []string{"XAUUSD", "CL=F"}},
		assets.Stocks:      {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceMedium, volRisk: models.VolRiskHigh, picks: []string{"PG", "JNJ"}, avoids: []string{"NVDA", "META"}},
		assets.Crypto:      {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceMedium, volRisk: models.VolRiskHigh},
	},
	models.RegimeRiskOff: {
		assets.Stocks:      {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceHigh, volRisk: models.VolRiskHigh, liqDelta: -10},
		assets.Indices:     {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceHigh, volRisk: models.VolRiskHigh, liqDelta: -10},
		assets.Crypto:      {exp: models.Bearish, dir: models.Short, conf: models.ConfidenceHigh, volRisk: models.VolRiskHigh, liqDelta: -20, avoids: []string{"SOL/USDT", "LINK/USDT"}},
		assets.Bonds:       {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskLow, liqDelta: 10, picks: []string{"TLT", "IEF"}},
		assets.Commodities: {exp: models.Mixed, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed, picks: []string{"XAUUSD"}},
	},
	models.RegimeDisinflation: {
		assets.Bonds:  {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskLow, picks: []string{"TLT", "IEF"}},
		assets.Stocks: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed},
	},
	models.RegimeReacceleration: {
		assets.Stocks:      {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed},
		assets.Crypto:      {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed},
		assets.Commodities: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed},
	},
	models.RegimeShock: {
		assets.Stocks:  {exp: models.Bearish, dir: models.Avoid, conf: models.ConfidenceLow, volRisk: models.VolRiskHigh, liqDelta: -30},
		assets.Indices: {exp: models.Bearish, dir: models.Avoid, conf: models.ConfidenceLow, volRisk: models.VolRiskHigh, liqDelta: -30},
		assets.Crypto:  {exp: models.Bearish, dir: models.Avoid, conf: models.ConfidenceLow, volRisk: models.VolRiskHigh, liqDelta: -30},
		assets.Bonds:   {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed, picks: []string{"SHY", "TLT"}},
	},
	models.RegimeRecovery: {
		assets.Stocks:  {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed, liqDelta: 10},
		assets.Indices: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceMedium, volRisk: models.VolRiskMed, liqDelta: 10},
	},
	models.RegimeCarry: {
		assets.Forex: {exp: models.Bullish, dir: models.Long, conf: models.ConfidenceHigh, volRisk: models.VolRiskLow, picks: []string{"USDJPY", "AUDUSD"}},
	},
}

func regimeOverrideRules() []classRule {
	return []classRule{{
		Name: "regime playbook override",
		When: func(c *classCtx) bool {
			byClass, ok := regimeOverrideTable[c.Snap.Regime]
			if !ok {
				return false
			}
			_, ok = byClass[c.Class]
			return ok
		},
		Then: func(c *classCtx) {
			o := regimeOverrideTable[c.Snap.Regime][c.Class]
			c.Out.Expectation = o.exp
			c.Out.Direction = o.dir
			c.Out.Confidence = o.conf
			c.Out.VolatilityRisk = o.volRisk
			c.addLiquidity(o.liqDelta)
			for _, p := range o.picks {
				c.addPick(p)
			}
			for _, a := range o.avoids {
				c.addAvoid(a)
			}
		},
	}}
}

// tiltRules applies the gate's ranked tilts: a matching tilt may flip
// direction unless it would contradict an already-strong expectation.
func tiltRules() []classRule {
	return []classRule{{
		Name: "regime tilt applied",
		When: func(c *classCtx) bool {
			for _, t := range c.Snap.MesoTilts {
				if matchesClass(t.Asset, c.Class) && t.Direction != c.Out.Direction {
					return true
				}
			}
			return false
		},
		Then: func(c *classCtx) {
			for _, t := range c.Snap.MesoTilts {
				if !matchesClass(t.Asset, c.Class) || t.Direction == c.Out.Direction {
					continue
				}
				if c.strongView() {
					c.Out.Drivers = append(c.Out.Drivers, "tilt ignored against strong view: "+t.Asset)
					continue
				}
				c.Out.Direction = t.Direction
				switch t.Direction {
				case models.Long:
					c.Out.Expectation = models.Bullish
				case models.Short:
					c.Out.Expectation = models.Bearish
				}
				c.Out.Drivers = append(c.Out.Drivers, "tilt: "+t.Asset+" ("+t.Rationale+")")
				break
			}
		},
	}}
}

// prohibitionRules forces AVOID when an active prohibition names the
// class or one of its symbols.
func prohibitionRules() []classRule {
	return []classRule{{
		Name: "active prohibition forces avoid",
		When: func(c *classCtx) bool {
			for _, p := range c.Snap.MesoProhibitions {
				if matchesClass(p, c.Class) {
					return true
				}
			}
			return false
		},
		Then: func(c *classCtx) {
			c.Out.Direction = models.Avoid
			for _, p := range c.Snap.MesoProhibitions {
				if matchesClass(p, c.Class) {
					c.Out.Drivers = append(c.Out.Drivers, "prohibition: "+p)
				}
			}
		},
	}}
}

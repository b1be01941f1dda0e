package micro

import (
	"math"
	"sort"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Lookback windows for the three trend timeframes.
const (
	maShort = 9
	maMid   = 21
	maLong  = 50
)

// ATR bounds as a fraction of price. Quotes with degenerate or missing
// range data get a synthetic ATR inside this band so downstream targets
// never collapse to zero or explode.
const (
	atrFloorPct = 0.003
	atrCapPct   = 0.02
)

// sma returns the simple moving average of the last n values, falling
// back to the full series when it is shorter than n. Zero when empty.
func sma(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// trendVs reads a single-timeframe trend from price against its average
// with a 0.2% neutral band.
func trendVs(price, avg float64) models.Trend {
	if avg <= 0 {
		return models.TrendSideways
	}
	switch diff := (price - avg) / avg; {
	case diff > 0.002:
		return models.TrendUp
	case diff < -0.002:
		return models.TrendDown
	default:
		return models.TrendSideways
	}
}

func buildTrend(price float64, history []float64) models.TimeframeTrend {
	t := models.TimeframeTrend{
		Short: trendVs(price, sma(history, maShort)),
		Mid:   trendVs(price, sma(history, maMid)),
		Long:  trendVs(price, sma(history, maLong)),
	}
	switch {
	case t.Short == models.TrendUp && t.Mid == models.TrendUp && t.Long == models.TrendUp:
		t.Alignment = "ALIGNED_UP"
	case t.Short == models.TrendDown && t.Mid == models.TrendDown && t.Long == models.TrendDown:
		t.Alignment = "ALIGNED_DOWN"
	default:
		t.Alignment = "MIXED"
	}
	return t
}

// atrProxy estimates the average daily range from close-to-close moves,
// seeded by the session high-low when available, then clamps the result
// to the 0.3%-2% band.
func atrProxy(q *models.Quote) float64 {
	atr := 0.0
	if q.High > q.Low && q.Low > 0 {
		atr = q.High - q.Low
	}
	if n := len(q.History); n >= 2 {
		sum, count := 0.0, 0
		start := n - 15
		if start < 1 {
			start = 1
		}
		for i := start; i < n; i++ {
			sum += math.Abs(q.History[i] - q.History[i-1])
			count++
		}
		if count > 0 {
			rangeAvg := sum / float64(count)
			if atr == 0 {
				atr = rangeAvg
			} else {
				atr = (atr + rangeAvg) / 2
			}
		}
	}
	floor, ceil := q.Price*atrFloorPct, q.Price*atrCapPct
	if atr < floor {
		atr = floor
	}
	if atr > ceil {
		atr = ceil
	}
	return atr
}

// localExtrema returns support (local minima) and resistance (local
// maxima) levels from the close series, nearest to price first.
func localExtrema(history []float64, price float64) (support, resistance []float64) {
	for i := 1; i < len(history)-1; i++ {
		v := history[i]
		if v < history[i-1] && v < history[i+1] && v < price {
			support = append(support, v)
		}
		if v > history[i-1] && v > history[i+1] && v > price {
			resistance = append(resistance, v)
		}
	}
	sort.Slice(support, func(i, j int) bool { return support[i] > support[j] })
	sort.Slice(resistance, func(i, j int) bool { return resistance[i] < resistance[j] })
	if len(support) > 3 {
		support = support[:3]
	}
	if len(resistance) > 3 {
		resistance = resistance[:3]
	}
	return support, resistance
}

// zoneOf places price against the midpoint of the recent range with a 2%
// equilibrium band.
func zoneOf(price float64, history []float64) models.Zone {
	window := history
	if len(window) > maLong {
		window = window[len(window)-maLong:]
	}
	if len(window) == 0 || price <= 0 {
		return models.ZoneEquilibrium
	}
	hi, lo := window[0], window[0]
	for _, v := range window {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	mid := (hi + lo) / 2
	if mid <= 0 {
		return models.ZoneEquilibrium
	}
	switch diff := (price - mid) / mid; {
	case diff > 0.02:
		return models.ZonePremium
	case diff < -0.02:
		return models.ZoneDiscount
	default:
		return models.ZoneEquilibrium
	}
}

func phaseOf(trend models.TimeframeTrend, zone models.Zone) models.StructurePhase {
	switch {
	case trend.Alignment == "ALIGNED_UP":
		return models.PhaseMarkup
	case trend.Alignment == "ALIGNED_DOWN":
		return models.PhaseMarkdown
	case zone == models.ZoneDiscount:
		return models.PhaseAccumulation
	case zone == models.ZonePremium:
		return models.PhaseDistribution
	default:
		return models.PhaseRange
	}
}

// rsiDivergence flags exhaustion: oversold RSI with price still under its
// mid average reads bullish, overbought RSI with price extended above it
// reads bearish.
func rsiDivergence(rsi, price, ma21 float64) string {
	switch {
	case rsi > 0 && rsi < 30 && ma21 > 0 && price < ma21:
		return "BULLISH"
	case rsi > 70 && ma21 > 0 && price > ma21:
		return "BEARISH"
	default:
		return "NONE"
	}
}

func volumeProfile(q *models.Quote) models.VolumeProfile {
	rel := q.RelVolume()
	vp := models.VolumeProfile{RelVolume: rel, Regime: "FLAT"}
	switch {
	case rel > 1.2:
		vp.Regime = "INCREASING"
	case rel > 0 && rel < 0.8:
		vp.Regime = "DECREASING"
	}
	vp.Climax = rel > 2.5
	return vp
}

// orderBlocks marks the origin of impulsive close-to-close moves larger
// than 1.5x ATR: the prior bar's vicinity is treated as the block.
func orderBlocks(history []float64, atr float64) []models.OrderBlock {
	if atr <= 0 {
		return nil
	}
	var blocks []models.OrderBlock
	for i := len(history) - 1; i >= 1 && len(blocks) < 3; i-- {
		move := history[i] - history[i-1]
		if math.Abs(move) < 1.5*atr {
			continue
		}
		base := history[i-1]
		ob := models.OrderBlock{
			High: base + atr/2,
			Low:  base - atr/2,
		}
		if move > 0 {
			ob.Direction = models.Long
		} else {
			ob.Direction = models.Short
		}
		blocks = append(blocks, ob)
	}
	return blocks
}

// fairValueGaps finds three-bar close gaps: when the outer closes leave
// a void the middle close never filled.
func fairValueGaps(history []float64) []models.FairValueGap {
	var gaps []models.FairValueGap
	for i := len(history) - 1; i >= 2 && len(gaps) < 3; i-- {
		a, b, c := history[i-2], history[i-1], history[i]
		if c > a && b < a {
			gaps = append(gaps, models.FairValueGap{Upper: c, Lower: a, Direction: models.Long})
		}
		if c < a && b > a {
			gaps = append(gaps, models.FairValueGap{Upper: a, Lower: c, Direction: models.Short})
		}
	}
	return gaps
}

// liquidityPools clusters near-equal extremes (within 0.1%) where resting
// stops are assumed.
func liquidityPools(support, resistance []float64, price float64) []models.LiquidityPool {
	var pools []models.LiquidityPool
	cluster := func(levels []float64, side string) {
		for i := 0; i < len(levels); i++ {
			for j := i + 1; j < len(levels); j++ {
				if levels[i] > 0 && math.Abs(levels[i]-levels[j])/levels[i] < 0.001 {
					pools = append(pools, models.LiquidityPool{Price: levels[i], Side: side})
					return
				}
			}
		}
	}
	cluster(resistance, "ABOVE")
	cluster(support, "BELOW")
	_ = price
	return pools
}

// Technicals computes the full per-instrument technical snapshot from a
// normalized quote. Pure; safe on sparse histories.
func Technicals(q *models.Quote) models.TechnicalAnalysis {
	atr := atrProxy(q)
	support, resistance := localExtrema(q.History, q.Price)
	trend := buildTrend(q.Price, q.History)
	zone := zoneOf(q.Price, q.History)

	pivot := q.Price
	if q.High > 0 && q.Low > 0 {
		pivot = (q.High + q.Low + q.Price) / 3
	}

	ma21 := sma(q.History, maMid)
	ta := models.TechnicalAnalysis{
		Symbol: q.Symbol,
		Price:  q.Price,
		Trend:  trend,
		Phase:  phaseOf(trend, zone),
		Levels: models.Levels{
			Support:    support,
			Resistance: resistance,
			Pivot:      pivot,
			ATR:        atr,
		},
		Indicators: models.Indicators{
			RSI:           q.RSI,
			RSIDivergence: rsiDivergence(q.RSI, q.Price, ma21),
			MA9:           sma(q.History, maShort),
			MA21:          ma21,
			MA50:          sma(q.History, maLong),
		},
		Volume:      volumeProfile(q),
		Zone:        zone,
		OrderBlocks: orderBlocks(q.History, atr),
		Gaps:        fairValueGaps(q.History),
	}
	ta.Pools = liquidityPools(support, resistance, q.Price)
	return ta
}

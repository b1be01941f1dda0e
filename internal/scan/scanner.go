package scan

import (
	"math"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// Quote staleness beyond which a session-free instrument is still
// considered actionable; session-bound instruments also require an open
// session.
const maxQuoteAge = 15 * time.Minute

// Result is the opportunity-scan verdict for one instrument. Score is
// always computed, even when gating forces WAIT, so operators can see
// what the gate suppressed.
type Result struct {
	Symbol  string        `json:"symbol"`
	Score   float64       `json:"score"` // 0-100
	Action  models.Action `json:"action"`
	Reasons []string      `json:"reasons,omitempty"`
}

// Scanner produces the fast pre-filter score feeding the trust scorer.
type Scanner struct {
	now func() time.Time
}

func NewScanner() *Scanner { return &Scanner{now: time.Now} }

// Scan scores one quote against its meso direction. Data-quality and
// freshness gates fail closed: the action degrades to WAIT while the
// score itself still reflects the raw opportunity.
func (s *Scanner) Scan(q *models.Quote, dir models.Direction) Result {
	r := Result{Symbol: q.Symbol, Score: 50}
	if dir != models.Long && dir != models.Short {
		r.Action = models.ActionAvoid
		r.Reasons = append(r.Reasons, "no tradeable direction")
		r.Score = score(q, dir)
		return r
	}

	r.Score = score(q, dir)

	switch {
	case !q.Quality.Tradeable():
		r.Action = models.ActionWait
		r.Reasons = append(r.Reasons, "data quality "+string(q.Quality))
	case s.stale(q):
		r.Action = models.ActionWait
		r.Reasons = append(r.Reasons, "quote stale or session closed")
	case q.DollarVolume() < q.Class.Meta().MinDollarVolume:
		r.Action = models.ActionWait
		r.Reasons = append(r.Reasons, "dollar volume below class minimum")
	case r.Score >= 60:
		r.Action = models.ActionExecute
	case r.Score >= 40:
		r.Action = models.ActionWait
		r.Reasons = append(r.Reasons, "score below execute threshold")
	default:
		r.Action = models.ActionAvoid
		r.Reasons = append(r.Reasons, "opportunity score too weak")
	}
	return r
}

func (s *Scanner) stale(q *models.Quote) bool {
	if !q.UpdatedAt.IsZero() && s.now().Sub(q.UpdatedAt) > maxQuoteAge {
		return true
	}
	if q.Class.Meta().SessionBound && !q.SessionOpen {
		return true
	}
	return false
}

// score blends trend, momentum, volatility context, relative volume and
// liquidity depth into a 0-100 opportunity score.
func score(q *models.Quote, dir models.Direction) float64 {
	sc := 50.0
	sign := 1.0
	if dir == models.Short {
		sign = -1
	}

	// 20-day trend proxy from the close history.
	if n := len(q.History); n >= 2 {
		window := q.History
		if n > 20 {
			window = window[n-20:]
		}
		first := window[0]
		if first > 0 {
			trendPct := (q.Price - first) / first * 100
			sc += clamp(sign*trendPct*2, -15, 15)
		}
	}

	// Today's move in the trade direction.
	sc += clamp(sign*q.ChangePct*3, -10, 10)

	// RSI extremes: favor pullbacks toward the direction, fade chases.
	switch {
	case dir == models.Long && q.RSI > 0 && q.RSI < 35:
		sc += 8
	case dir == models.Long && q.RSI > 70:
		sc -= 8
	case dir == models.Short && q.RSI > 65:
		sc += 8
	case dir == models.Short && q.RSI > 0 && q.RSI < 30:
		sc -= 8
	}

	// Intraday volatility: some range is opportunity, chaos is not.
	if q.Price > 0 && q.High > q.Low {
		rangePct := (q.High - q.Low) / q.Price * 100
		switch {
		case rangePct > 0.5 && rangePct < 4:
			sc += 5
		case rangePct >= 6:
			sc -= 5
		}
	}

	// Relative volume confirms participation.
	switch rel := q.RelVolume(); {
	case rel > 1.5:
		sc += 7
	case rel > 1.1:
		sc += 3
	case rel > 0 && rel < 0.7:
		sc -= 5
	}

	// Liquidity depth on a log scale against the class minimum.
	if min := q.Class.Meta().MinDollarVolume; min > 0 && q.DollarVolume() > 0 {
		sc += clamp(math.Log10(q.DollarVolume()/min)*4, -8, 8)
	}

	return clamp(sc, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package meso

import (
	"sort"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
)

const maxPerClass = 2

// Conviction bump by class confidence; every instrument in a class
// carries the same bump regardless of how it was picked.
const (
	convictionHigh   = 30
	convictionMedium = 15
)

func convictionBump(conf models.Confidence) float64 {
	switch conf {
	case models.ConfidenceHigh:
		return convictionHigh
	case models.ConfidenceMedium:
		return convictionMedium
	}
	return 0
}

// UniverseBuilder turns class analyses into the allowed/prohibited
// instrument lists. The performance source is the live intraday change
// table; it may be nil, in which case only picks and fallbacks apply.
type UniverseBuilder struct {
	perf service.PerformanceSource
}

func NewUniverseBuilder(perf service.PerformanceSource) *UniverseBuilder {
	return &UniverseBuilder{perf: perf}
}

// Build selects at most two instruments per tradeable class and collects
// prohibited symbols. Classes with direction AVOID or low confidence
// contribute nothing to the allowed list; AVOID additionally prohibits
// the whole class universe.
func (b *UniverseBuilder) Build(classes []models.ClassAnalysis) ([]models.MesoInstrument, []models.ProhibitedInstrument) {
	var allowed []models.MesoInstrument
	var prohibited []models.ProhibitedInstrument

	for _, ca := range classes {
		meta := ca.Class.Meta()

		for _, sym := range ca.AvoidList {
			prohibited = append(prohibited, models.ProhibitedInstrument{
				Symbol: sym,
				Class:  ca.Class,
				Reason: "on class avoid list",
			})
		}

		if ca.Direction == models.Avoid {
			for _, sym := range meta.Symbols {
				prohibited = append(prohibited, models.ProhibitedInstrument{
					Symbol: sym,
					Class:  ca.Class,
					Reason: "class direction AVOID",
				})
			}
			continue
		}
		if ca.Confidence == models.ConfidenceLow {
			continue
		}

		bump := convictionBump(ca.Confidence)
		picked := make(map[string]bool, maxPerClass)
		add := func(sym, reason string) bool {
			if sym == "" || picked[sym] || onList(ca.AvoidList, sym) {
				return false
			}
			picked[sym] = true
			allowed = append(allowed, models.MesoInstrument{
				Symbol:     sym,
				Direction:  ca.Direction,
				Class:      ca.Class,
				Reason:     reason,
				Conviction: ca.LiquidityScore + bump,
			})
			return true
		}

		if sym, ok := b.bestPerformer(ca, meta.Symbols); ok {
			add(sym, "best live performer in class")
		}
		for _, sym := range ca.TopPicks {
			if len(picked) >= maxPerClass {
				break
			}
			add(sym, "regime playbook pick")
		}
		for _, sym := range meta.Fallback {
			if len(picked) >= maxPerClass {
				break
			}
			add(sym, "class fallback")
		}
	}

	sort.SliceStable(allowed, func(i, j int) bool {
		return allowed[i].Conviction > allowed[j].Conviction
	})
	return allowed, prohibited
}

// bestPerformer picks the class symbol with the largest live move whose
// sign agrees with the class direction.
func (b *UniverseBuilder) bestPerformer(ca models.ClassAnalysis, symbols []string) (string, bool) {
	if b.perf == nil {
		return "", false
	}
	best, bestAbs, found := "", 0.0, false
	for _, sym := range symbols {
		pct, ok := b.perf.ChangePct(sym)
		if !ok {
			continue
		}
		if ca.Direction == models.Long && pct <= 0 {
			continue
		}
		if ca.Direction == models.Short && pct >= 0 {
			continue
		}
		abs := pct
		if abs < 0 {
			abs = -abs
		}
		if !found || abs > bestAbs {
			best, bestAbs, found = sym, abs, true
		}
	}
	return best, found
}

func onList(list []string, sym string) bool {
	for _, s := range list {
		if s == sym {
			return true
		}
	}
	return false
}


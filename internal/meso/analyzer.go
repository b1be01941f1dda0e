package meso

import (
	"strings"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/rules"
)

// classCtx is the mutable evaluation context the class rule tables
// operate on.
type classCtx struct {
	Class assets.Class
	Snap  *models.RegimeSnapshot
	Out   models.ClassAnalysis
}

// lean nudges expectation/direction toward the given outlook. A neutral
// outlook adopts it outright; a conflicting one degrades to MIXED without
// flipping direction.
func (c *classCtx) lean(exp models.Expectation, dir models.Direction) {
	switch c.Out.Expectation {
	case models.Neutral:
		c.Out.Expectation = exp
		c.Out.Direction = dir
	case exp:
		// reinforcing; keep direction
	default:
		c.Out.Expectation = models.Mixed
	}
}

// strongView reports an expectation that a tilt is not allowed to
// contradict: a firm bullish/bearish call held with high confidence.
func (c *classCtx) strongView() bool {
	return (c.Out.Expectation == models.Bullish || c.Out.Expectation == models.Bearish) &&
		c.Out.Confidence == models.ConfidenceHigh
}

func (c *classCtx) addLiquidity(delta float64) { c.Out.LiquidityScore += delta }

func (c *classCtx) addPick(sym string)  { c.Out.TopPicks = append(c.Out.TopPicks, sym) }
func (c *classCtx) addAvoid(sym string) { c.Out.AvoidList = append(c.Out.AvoidList, sym) }

// Analyzer derives class-level expectations from the regime snapshot.
// AnalyzeClass is pure and deterministic given (class, snapshot).
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// AnalyzeClass maps one asset class plus the regime snapshot to its
// ClassAnalysis. A nil snapshot short-circuits to the neutral/avoid
// result rather than guessing.
func (a *Analyzer) AnalyzeClass(class assets.Class, snap *models.RegimeSnapshot) models.ClassAnalysis {
	out := models.ClassAnalysis{
		Class:          class,
		Expectation:    models.Neutral,
		Confidence:     models.ConfidenceMedium,
		Direction:      models.Avoid,
		LiquidityScore: 50,
		VolatilityRisk: models.VolRiskMed,
	}
	if snap == nil || !assets.Valid(class) {
		out.Confidence = models.ConfidenceLow
		out.Drivers = append(out.Drivers, "no regime snapshot; defaulting to neutral")
		return out
	}

	ctx := classCtx{Class: class, Snap: snap, Out: out}
	fired := rules.Apply(&ctx, axisRules(class))
	fired = append(fired, rules.Apply(&ctx, regimeOverrideRules())...)
	fired = append(fired, rules.Apply(&ctx, tiltRules())...)
	fired = append(fired, rules.Apply(&ctx, prohibitionRules())...)
	ctx.Out.Drivers = append(ctx.Out.Drivers, fired...)

	finalize(&ctx.Out)
	return ctx.Out
}

// Analyze runs AnalyzeClass over every known class.
func (a *Analyzer) Analyze(snap *models.RegimeSnapshot) []models.ClassAnalysis {
	out := make([]models.ClassAnalysis, 0, len(assets.All()))
	for _, c := range assets.All() {
		out = append(out, a.AnalyzeClass(c, snap))
	}
	return out
}

// finalize clamps the liquidity score and enforces the dedup/cap-3
// invariant on pick lists.
func finalize(out *models.ClassAnalysis) {
	if out.LiquidityScore < 0 {
		out.LiquidityScore = 0
	}
	if out.LiquidityScore > 100 {
		out.LiquidityScore = 100
	}
	out.TopPicks = dedupCap(out.TopPicks, 3)
	out.AvoidList = dedupCap(out.AvoidList, 3)
	if out.Direction == models.Avoid && out.Expectation == models.Neutral && len(out.Drivers) == 0 {
		out.Drivers = append(out.Drivers, "no active regime signal for class")
	}
}

func dedupCap(in []string, n int) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, n)
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == n {
			break
		}
	}
	return out
}

// matchesClass reports whether the free-form asset/prohibition text from
// the gate refers to this class: by class key, display name, or one of
// the class's symbols.
func matchesClass(text string, class assets.Class) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return false
	}
	if strings.Contains(t, string(class)) || strings.Contains(t, strings.ToLower(class.Meta().Display)) {
		return true
	}
	for _, s := range class.Meta().Symbols {
		if strings.Contains(strings.ToLower(s), t) || strings.Contains(t, strings.ToLower(s)) {
			return true
		}
	}
	return false
}

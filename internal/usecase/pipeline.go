package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
	"github.com/vaquev01/gmpm-sub001/internal/meso"
	"github.com/vaquev01/gmpm-sub001/internal/micro"
	"github.com/vaquev01/gmpm-sub001/internal/scan"
	"github.com/vaquev01/gmpm-sub001/internal/trust"
	"github.com/vaquev01/gmpm-sub001/pkg/cache"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Pipeline orchestrates one analysis cycle: regime snapshot (cached
// stale-while-revalidate), meso class analysis, quote fetch for the
// allowed universe, per-instrument micro/scan/trust in a worker pool,
// and publication of the scored result. Handlers read the latest cycle;
// a new cycle atomically replaces it.
type Pipeline struct {
	quotes    service.QuoteFeed
	mesoSvc   *meso.Service
	microSvc  *micro.Synthesizer
	scanner   *scan.Scanner
	scorer    *trust.Scorer
	publisher service.SignalPublisher
	metrics   service.Metrics
	log       *logger.Logger
	workers   int

	regimeCache *cache.SWR[*models.RegimeSnapshot]
	macroCache  *cache.SWR[*models.MacroSnapshot]

	mu         sync.RWMutex
	lastMeso   *models.MesoAnalysis
	lastMicro  map[string]*models.MicroAnalysis
	lastRows   []models.ScoredAsset
	lastRegime string
	degraded   bool
}

// Options bundles pipeline construction parameters.
type Options struct {
	Gate      service.RegimeGate
	Quotes    service.QuoteFeed
	Macro     service.MacroFeed
	Meso      *meso.Service
	Micro     *micro.Synthesizer
	Publisher service.SignalPublisher
	Metrics   service.Metrics
	Log       *logger.Logger

	Workers int
	Fresh   time.Duration // regime/macro fresh window
	Stale   time.Duration // additional stale-while-revalidate window
}

func NewPipeline(opts Options) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 8
	}
	if opts.Fresh == 0 {
		opts.Fresh = 2 * time.Minute
	}
	if opts.Stale == 0 {
		opts.Stale = 5 * time.Minute
	}
	return &Pipeline{
		quotes:    opts.Quotes,
		mesoSvc:   opts.Meso,
		microSvc:  opts.Micro,
		scanner:   scan.NewScanner(),
		scorer:    trust.NewScorer(),
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		log:       opts.Log,
		workers:   opts.Workers,
		regimeCache: cache.NewSWR(opts.Fresh, opts.Stale, func(ctx context.Context) (*models.RegimeSnapshot, error) {
			return opts.Gate.Snapshot(ctx)
		}),
		macroCache: cache.NewSWR(opts.Fresh, opts.Stale, func(ctx context.Context) (*models.MacroSnapshot, error) {
			return opts.Macro.Snapshot(ctx)
		}),
		lastMicro: make(map[string]*models.MicroAnalysis),
	}
}

// Run drives cycles at the given cadence until the context ends. The
// first cycle fires immediately.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) {
	p.RunOnce(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single analysis cycle.
func (p *Pipeline) RunOnce(ctx context.Context) {
	start := time.Now()

	snap, stale, err := p.regimeCache.Get(ctx)
	switch {
	case err != nil:
		p.recordStageError("regime_gate")
		snap = models.NeutralRegimeSnapshot(time.Now().UTC())
	case stale:
		p.recordCacheEvent("stale")
	default:
		p.recordCacheEvent("hit")
	}

	mesoDoc := p.mesoSvc.Analyze(snap)

	macroSnap, _, err := p.macroCache.Get(ctx)
	if err != nil {
		p.recordStageError("macro_feed")
	}

	symbols := make([]string, 0, len(mesoDoc.Allowed))
	for _, inst := range mesoDoc.Allowed {
		symbols = append(symbols, inst.Symbol)
	}
	quotes, err := p.quotes.Quotes(ctx, symbols)
	if err != nil {
		p.recordStageError("quote_feed")
	}

	rows, micros := p.analyzeUniverse(ctx, mesoDoc, quotes, macroSnap)
	mesoDoc.Focus.KeyLevels = keyLevels(mesoDoc.Allowed, micros)

	p.mu.Lock()
	p.lastMeso = mesoDoc
	p.lastMicro = micros
	p.lastRows = rows
	p.lastRegime = mesoDoc.Regime
	p.degraded = mesoDoc.Degraded
	p.mu.Unlock()

	if p.publisher != nil {
		ranked := trust.Rank(rows, models.ModeBalanced, mesoDoc.Regime, mesoDoc.Degraded)
		if err := p.publisher.PublishUniverse(ctx, ranked); err != nil {
			p.recordStageError("publisher")
			if p.log != nil {
				p.log.Warn("universe publish failed", logger.Error(err))
			}
		}
	}

	if p.metrics != nil {
		p.metrics.RecordCycle(time.Since(start).Seconds())
		p.metrics.RecordUniverseSize(len(rows))
	}
	if p.log != nil {
		p.log.Info("cycle complete",
			logger.String("regime", mesoDoc.Regime),
			logger.Int("instruments", len(rows)),
			logger.Duration("took", time.Since(start)),
		)
	}
}

// analyzeUniverse fans the allowed instruments over the worker pool.
// Workers pull the next index from a shared atomic counter, so uneven
// per-instrument cost balances itself.
func (p *Pipeline) analyzeUniverse(
	ctx context.Context,
	mesoDoc *models.MesoAnalysis,
	quotes map[string]*models.Quote,
	macroSnap *models.MacroSnapshot,
) ([]models.ScoredAsset, map[string]*models.MicroAnalysis) {
	insts := mesoDoc.Allowed
	rows := make([]models.ScoredAsset, len(insts))
	keep := make([]bool, len(insts))
	micros := make(map[string]*models.MicroAnalysis, len(insts))

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		next int64 = -1
	)

	workers := p.workers
	if workers > len(insts) {
		workers = len(insts)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&next, 1))
				if i >= len(insts) || ctx.Err() != nil {
					return
				}
				inst := insts[i]
				quote, ok := quotes[inst.Symbol]
				if !ok {
					continue // feed could not serve it this cycle
				}

				classAnalysis, _ := mesoDoc.ClassFor(inst.Class)
				scanRes := p.scanner.Scan(quote, inst.Direction)
				microDoc := p.microSvc.Analyze(ctx, micro.Input{
					Quote:      quote,
					Direction:  inst.Direction,
					Regime:     mesoDoc.Regime,
					Confidence: classAnalysis.Confidence,
					VolRisk:    classAnalysis.VolatilityRisk,
				})
				if p.metrics != nil {
					p.metrics.RecordAction(string(microDoc.Recommendation.Action))
				}

				rows[i] = p.scorer.Score(trust.Input{
					Quote: quote,
					Scan:  scanRes,
					Micro: microDoc,
					Class: classAnalysis,
					Macro: macroSnap,
				})
				keep[i] = true

				mu.Lock()
				micros[inst.Symbol] = microDoc
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	out := make([]models.ScoredAsset, 0, len(insts))
	for i, ok := range keep {
		if ok {
			out = append(out, rows[i])
		}
	}
	return out, micros
}

// keyLevels distills structural levels from the highest-conviction
// instruments into the focus document, at most three lines. Allowed is
// already sorted by conviction.
func keyLevels(allowed []models.MesoInstrument, micros map[string]*models.MicroAnalysis) []string {
	out := make([]string, 0, 3)
	for _, inst := range allowed {
		if len(out) >= 3 {
			break
		}
		m, ok := micros[inst.Symbol]
		if !ok {
			continue
		}
		lv := m.Technical.Levels
		parts := make([]string, 0, 3)
		if len(lv.Support) > 0 {
			parts = append(parts, fmt.Sprintf("support %.4f", lv.Support[0]))
		}
		if len(lv.Resistance) > 0 {
			parts = append(parts, fmt.Sprintf("resistance %.4f", lv.Resistance[0]))
		}
		if lv.Pivot > 0 {
			parts = append(parts, fmt.Sprintf("pivot %.4f", lv.Pivot))
		}
		if len(parts) == 0 {
			continue
		}
		out = append(out, inst.Symbol+": "+strings.Join(parts, ", "))
	}
	return out
}

// Meso returns the latest meso document, or nil before the first cycle.
func (p *Pipeline) Meso() *models.MesoAnalysis {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastMeso
}

// Micro returns the latest micro analysis for a symbol.
func (p *Pipeline) Micro(symbol string) (*models.MicroAnalysis, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.lastMicro[symbol]
	return m, ok
}

// Micros returns a copy of the latest micro analyses keyed by symbol.
func (p *Pipeline) Micros() map[string]*models.MicroAnalysis {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]*models.MicroAnalysis, len(p.lastMicro))
	for k, v := range p.lastMicro {
		out[k] = v
	}
	return out
}

// Scores ranks the latest cycle's rows for the requested mode.
func (p *Pipeline) Scores(mode models.Mode) *models.ScoredUniverse {
	p.mu.RLock()
	rows := make([]models.ScoredAsset, len(p.lastRows))
	copy(rows, p.lastRows)
	regime, degraded := p.lastRegime, p.degraded
	p.mu.RUnlock()
	return trust.Rank(rows, mode, regime, degraded)
}

// Ready reports whether at least one cycle has completed.
func (p *Pipeline) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastMeso != nil
}

func (p *Pipeline) recordStageError(stage string) {
	if p.metrics != nil {
		p.metrics.RecordStageError(stage)
	}
}

func (p *Pipeline) recordCacheEvent(kind string) {
	if p.metrics != nil {
		p.metrics.RecordCacheEvent(kind)
	}
}

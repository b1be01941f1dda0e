package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/meso"
	"github.com/vaquev01/gmpm-sub001/internal/micro"
)

type stubGate struct {
	snap *models.RegimeSnapshot
}

func (g *stubGate) Snapshot(context.Context) (*models.RegimeSnapshot, error) {
	return g.snap, nil
}

type stubQuotes struct {
	mu      sync.Mutex
	served  [][]string
	quality models.DataQuality
}

func (q *stubQuotes) Quotes(_ context.Context, symbols []string) (map[string]*models.Quote, error) {
	q.mu.Lock()
	q.served = append(q.served, symbols)
	q.mu.Unlock()

	out := make(map[string]*models.Quote, len(symbols))
	hist := make([]float64, 30)
	for i := range hist {
		hist[i] = 95 + float64(i)*0.3
	}
	for _, s := range symbols {
		out[s] = &models.Quote{
			Symbol:      s,
			Price:       104,
			High:        105,
			Low:         103,
			Volume:      5_000_000,
			AvgVolume:   3_000_000,
			RSI:         55,
			ChangePct:   0.8,
			History:     hist,
			Quality:     q.quality,
			SessionOpen: true,
			UpdatedAt:   time.Now(),
		}
	}
	return out, nil
}

type stubMacro struct{}

func (stubMacro) Snapshot(context.Context) (*models.MacroSnapshot, error) {
	return &models.MacroSnapshot{VIX: 16, Timestamp: time.Now()}, nil
}

type stubPublisher struct {
	mu        sync.Mutex
	published []*models.ScoredUniverse
}

func (p *stubPublisher) PublishUniverse(_ context.Context, u *models.ScoredUniverse) error {
	p.mu.Lock()
	p.published = append(p.published, u)
	p.mu.Unlock()
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func goldilocksSnapshot() *models.RegimeSnapshot {
	s := models.NeutralRegimeSnapshot(time.Now())
	s.Regime = models.RegimeGoldilocks
	s.RegimeConfidence = models.ConfidenceHigh
	s.Degraded = false
	s.Axes[models.AxisGrowth] = models.AxisScore{Direction: models.Up, Confidence: models.ConfidenceHigh}
	return s
}

func newTestPipeline(gate *stubGate, quotes *stubQuotes, pub *stubPublisher) *Pipeline {
	return NewPipeline(Options{
		Gate:      gate,
		Quotes:    quotes,
		Macro:     stubMacro{},
		Meso:      meso.NewService(nil, nil),
		Micro:     micro.NewSynthesizer(nil, nil),
		Publisher: pub,
		Workers:   4,
	})
}

func TestPipelineCycleProducesScoredUniverse(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityOK}
	pub := &stubPublisher{}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, pub)

	p.RunOnce(context.Background())

	require.True(t, p.Ready())
	mesoDoc := p.Meso()
	require.NotNil(t, mesoDoc)
	assert.Equal(t, models.RegimeGoldilocks, mesoDoc.Regime)
	assert.NotEmpty(t, mesoDoc.Allowed)

	u := p.Scores(models.ModeAggressive)
	require.NotNil(t, u)
	assert.Equal(t, models.RegimeGoldilocks, u.Regime)
	assert.NotEmpty(t, u.Assets)
}

func TestPipelineMicroAvailablePerSymbol(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityOK}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, &stubPublisher{})

	p.RunOnce(context.Background())

	mesoDoc := p.Meso()
	require.NotEmpty(t, mesoDoc.Allowed)
	sym := mesoDoc.Allowed[0].Symbol

	m, ok := p.Micro(sym)
	require.True(t, ok)
	assert.Equal(t, sym, m.Symbol)

	_, ok = p.Micro("NOPE")
	assert.False(t, ok)
}

func TestPipelineFocusCarriesKeyLevels(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityOK}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, &stubPublisher{})

	p.RunOnce(context.Background())

	mesoDoc := p.Meso()
	require.NotEmpty(t, mesoDoc.Allowed)
	require.NotEmpty(t, mesoDoc.Focus.KeyLevels)
	assert.LessOrEqual(t, len(mesoDoc.Focus.KeyLevels), 3)
	assert.Contains(t, mesoDoc.Focus.KeyLevels[0], mesoDoc.Allowed[0].Symbol)
	assert.Contains(t, mesoDoc.Focus.KeyLevels[0], "pivot")
}

func TestPipelinePublishesBalancedUniverse(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityOK}
	pub := &stubPublisher{}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, pub)

	p.RunOnce(context.Background())

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.published, 1)
	assert.Equal(t, models.ModeBalanced, pub.published[0].Mode)
}

func TestPipelineOnlyFetchesAllowedSymbols(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityOK}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, &stubPublisher{})

	p.RunOnce(context.Background())

	mesoDoc := p.Meso()
	quotes.mu.Lock()
	defer quotes.mu.Unlock()
	require.Len(t, quotes.served, 1)
	assert.Len(t, quotes.served[0], len(mesoDoc.Allowed))
}

func TestPipelineDegradedQualityNeverExecutes(t *testing.T) {
	quotes := &stubQuotes{quality: models.QualityPartial}
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, quotes, &stubPublisher{})

	p.RunOnce(context.Background())

	u := p.Scores(models.ModeAggressive)
	for _, a := range u.Assets {
		assert.NotEqual(t, models.ActionExecute, a.ScanAction, "symbol %s", a.Symbol)
	}
	// Conservative mode requires OK data quality; nothing passes.
	assert.Empty(t, p.Scores(models.ModeConservative).Assets)
}

func TestPipelineScoresBeforeFirstCycleIsEmpty(t *testing.T) {
	p := newTestPipeline(&stubGate{snap: goldilocksSnapshot()}, &stubQuotes{quality: models.QualityOK}, &stubPublisher{})
	assert.False(t, p.Ready())
	u := p.Scores(models.ModeBalanced)
	require.NotNil(t, u)
	assert.Empty(t, u.Assets)
}

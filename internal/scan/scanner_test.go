package scan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

func goodQuote() *models.Quote {
	hist := make([]float64, 25)
	for i := range hist {
		hist[i] = 90 + float64(i)*0.5
	}
	return &models.Quote{
		Symbol:      "AAPL",
		Class:       assets.Stocks,
		Price:       102,
		High:        103,
		Low:         101,
		Volume:      2_000_000,
		AvgVolume:   1_200_000,
		RSI:         55,
		ChangePct:   1.2,
		History:     hist,
		Quality:     models.QualityOK,
		SessionOpen: true,
		UpdatedAt:   time.Now(),
	}
}

func TestScanStrongLongExecutes(t *testing.T) {
	s := NewScanner()
	r := s.Scan(goodQuote(), models.Long)
	assert.Equal(t, models.ActionExecute, r.Action)
	assert.GreaterOrEqual(t, r.Score, 60.0)
}

func TestScanPartialQualityWaitsButKeepsScore(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	q.Quality = models.QualityPartial

	r := s.Scan(q, models.Long)
	assert.Equal(t, models.ActionWait, r.Action)
	assert.GreaterOrEqual(t, r.Score, 60.0) // score reported despite the gate
	assert.Contains(t, r.Reasons[0], "data quality")
}

func TestScanStaleQuoteWaits(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	q.UpdatedAt = time.Now().Add(-20 * time.Minute)

	r := s.Scan(q, models.Long)
	assert.Equal(t, models.ActionWait, r.Action)
}

func TestScanClosedSessionWaitsForSessionBoundClass(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	q.SessionOpen = false

	r := s.Scan(q, models.Long)
	assert.Equal(t, models.ActionWait, r.Action)

	// Crypto never closes.
	q = goodQuote()
	q.Class = assets.Crypto
	q.SessionOpen = false
	r = s.Scan(q, models.Long)
	assert.Equal(t, models.ActionExecute, r.Action)
}

func TestScanThinDollarVolumeWaits(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	q.Volume = 100
	q.AvgVolume = 100

	r := s.Scan(q, models.Long)
	assert.Equal(t, models.ActionWait, r.Action)
	assert.Contains(t, r.Reasons[0], "dollar volume")
}

func TestScanAvoidDirection(t *testing.T) {
	s := NewScanner()
	r := s.Scan(goodQuote(), models.Avoid)
	assert.Equal(t, models.ActionAvoid, r.Action)
}

func TestScanShortFavorsDowntrend(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	long := s.Scan(q, models.Long).Score
	short := s.Scan(q, models.Short).Score
	assert.Greater(t, long, short)
}

func TestScanScoreClamped(t *testing.T) {
	s := NewScanner()
	q := goodQuote()
	q.ChangePct = 50
	q.Volume = 1e12
	r := s.Scan(q, models.Long)
	assert.LessOrEqual(t, r.Score, 100.0)
	assert.GreaterOrEqual(t, r.Score, 0.0)
}

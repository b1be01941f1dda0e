package macrofeed

import (
	"context"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	pkghttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Alert thresholds on the macro indicators.
const (
	vixMedium     = 22.0
	vixHigh       = 30.0
	fearExtreme   = 15.0
	greedExtreme  = 85.0
	dollarStretch = 106.0
)

// Client fetches the macro indicator snapshot and derives threshold
// alerts. A failed fetch yields the degraded fallback snapshot instead
// of an error so one dead feed cannot stall the cycle.
type Client struct {
	http *pkghttp.Client
	url  string
	log  *logger.Logger
}

func New(url string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		http: pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		url:  url,
		log:  log,
	}
}

func (c *Client) Snapshot(ctx context.Context) (*models.MacroSnapshot, error) {
	var snap models.MacroSnapshot
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.url,
	}, &snap)
	if err != nil {
		if c.log != nil {
			c.log.Warn("macro feed unreachable, serving fallback", logger.Error(err))
		}
		return &models.MacroSnapshot{
			Degraded:  true,
			Fallback:  true,
			Timestamp: time.Now().UTC(),
		}, nil
	}

	if snap.YieldCurve == 0 && snap.Treasury10Y != 0 {
		snap.YieldCurve = snap.Treasury10Y - snap.Treasury2Y
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}
	snap.Alerts = append(snap.Alerts, deriveAlerts(&snap)...)
	return &snap, nil
}

// deriveAlerts flags threshold breaches the feed itself does not mark.
func deriveAlerts(m *models.MacroSnapshot) []models.MacroAlert {
	var alerts []models.MacroAlert
	has := func(id string) bool {
		for _, a := range m.Alerts {
			if a.ID == id {
				return true
			}
		}
		return false
	}
	add := func(id, level string, value float64) {
		if !has(id) {
			alerts = append(alerts, models.MacroAlert{ID: id, Level: level, Value: value})
		}
	}

	switch {
	case m.VIX >= vixHigh:
		add("vix_elevated", "HIGH", m.VIX)
	case m.VIX >= vixMedium:
		add("vix_elevated", "MEDIUM", m.VIX)
	}
	if m.YieldCurve < 0 {
		add("curve_inverted", "MEDIUM", m.YieldCurve)
	}
	if m.FearGreed > 0 && m.FearGreed <= fearExtreme {
		add("extreme_fear", "MEDIUM", m.FearGreed)
	}
	if m.FearGreed >= greedExtreme {
		add("extreme_greed", "MEDIUM", m.FearGreed)
	}
	if m.DollarIndex >= dollarStretch {
		add("dollar_stretched", "MEDIUM", m.DollarIndex)
	}
	return alerts
}

package regimegate

import (
	"context"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	pkghttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Client fetches the regime classification document from the external
// regime gate engine. An unreachable gate never propagates an error:
// callers get the degraded neutral snapshot and keep running.
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

// Snapshot returns the current regime document, or the neutral fallback
// when the gate is down or returns garbage.
func (c *Client) Snapshot(ctx context.Context) (*models.RegimeSnapshot, error) {
	var snap models.RegimeSnapshot
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.url,
	}, &snap)
	if err != nil {
		if c.log != nil {
			c.log.Warn("regime gate unreachable, serving neutral snapshot", logger.Error(err))
		}
		return models.NeutralRegimeSnapshot(time.Now().UTC()), nil
	}

	if snap.Regime == "" {
		snap.Regime = models.RegimeUncertain
		snap.Degraded = true
	}
	if snap.RegimeConfidence == "" {
		snap.RegimeConfidence = models.ConfidenceLow
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}
	return &snap, nil
}

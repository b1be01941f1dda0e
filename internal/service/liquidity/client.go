package liquidity

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	pkghttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Client calls the external liquidity-zone analysis behind a circuit
// breaker. The service is strictly optional: breaker-open, timeout and
// error all collapse to (nil, nil) so the micro stage proceeds without
// zone data.
type Client struct {
	http    *pkghttp.Client
	url     string
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

func New(url string, timeout time.Duration, log *logger.Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "liquidity-zones",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &Client{
		http:    pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		url:     url,
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

func (c *Client) Zones(ctx context.Context, symbol string) (*models.LiquidityZones, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var zones models.LiquidityZones
		err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
			Method: pkghttp.MethodGet,
			URL:    c.url,
			QueryParams: map[string][]string{
				"symbol": {symbol},
			},
		}, &zones)
		if err != nil {
			return nil, err
		}
		return &zones, nil
	})
	if err != nil {
		if c.log != nil {
			c.log.Debug("liquidity zones unavailable",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
		}
		return nil, nil
	}

	zones := result.(*models.LiquidityZones)
	if zones.Symbol == "" {
		zones.Symbol = symbol
	}
	return zones, nil
}

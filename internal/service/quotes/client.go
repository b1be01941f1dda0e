package quotes

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	pkghttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Batch geometry for the upstream quote API.
const (
	defaultBatchSize   = 20
	defaultConcurrency = 4
)

// Client fetches normalized quotes in rate-limited batches. Failed
// batches are dropped, not retried: the poll loop comes back around
// soon enough and partial universes are an accepted state.
type Client struct {
	http        *pkghttp.Client
	url         string
	batchSize   int
	concurrency int
	limiter     *rate.Limiter
	log         *logger.Logger
}

type Option func(*Client)

func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func New(url string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		http:        pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		url:         url,
		batchSize:   defaultBatchSize,
		concurrency: defaultConcurrency,
		limiter:     rate.NewLimiter(rate.Limit(8), 8), // batches per second
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quotes fetches quotes for the symbols, chunked and bounded. Symbols
// the feed could not serve are absent from the result.
func (c *Client) Quotes(ctx context.Context, symbols []string) (map[string]*models.Quote, error) {
	out := make(map[string]*models.Quote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, c.concurrency)
	)

	for start := 0; start < len(symbols); start += c.batchSize {
		end := start + c.batchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func(batch []string) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := c.limiter.Wait(ctx); err != nil {
				return
			}
			quotes, err := c.fetchBatch(ctx, batch)
			if err != nil {
				if c.log != nil {
					c.log.Warn("quote batch dropped",
						logger.Strings("symbols", batch),
						logger.Error(err),
					)
				}
				return
			}
			mu.Lock()
			for sym, q := range quotes {
				out[sym] = q
			}
			mu.Unlock()
		}(batch)
	}

	wg.Wait()
	return out, ctx.Err()
}

func (c *Client) fetchBatch(ctx context.Context, symbols []string) (map[string]*models.Quote, error) {
	var payload struct {
		Quotes []*models.Quote `json:"quotes"`
	}
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.url,
		QueryParams: map[string][]string{
			"symbols": {strings.Join(symbols, ",")},
		},
	}, &payload)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*models.Quote, len(payload.Quotes))
	for _, q := range payload.Quotes {
		if q == nil || q.Symbol == "" {
			continue
		}
		normalize(q)
		out[q.Symbol] = q
	}
	return out, nil
}

// normalize fills the fields downstream scoring assumes are present.
func normalize(q *models.Quote) {
	if q.Class == "" {
		if class, ok := assets.ClassOf(q.Symbol); ok {
			q.Class = class
		}
	}
	if q.Quality == "" {
		q.Quality = models.QualityPartial
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = time.Now().UTC()
	}
	if q.High < q.Price {
		q.High = q.Price
	}
	if q.Low <= 0 || q.Low > q.Price {
		q.Low = q.Price
	}
	if q.Name == "" {
		q.Name = q.Symbol
	}
}

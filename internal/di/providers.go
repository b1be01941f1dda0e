package di

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/assets"
	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
	"github.com/vaquev01/gmpm-sub001/internal/handler/api"
	"github.com/vaquev01/gmpm-sub001/internal/meso"
	"github.com/vaquev01/gmpm-sub001/internal/micro"
	"github.com/vaquev01/gmpm-sub001/internal/repository"
	"github.com/vaquev01/gmpm-sub001/internal/service/liquidity"
	"github.com/vaquev01/gmpm-sub001/internal/service/macrofeed"
	"github.com/vaquev01/gmpm-sub001/internal/service/quotes"
	"github.com/vaquev01/gmpm-sub001/internal/service/regimegate"
	"github.com/vaquev01/gmpm-sub001/internal/usecase"
	pkgcache "github.com/vaquev01/gmpm-sub001/pkg/cache"
	"github.com/vaquev01/gmpm-sub001/pkg/config"
	xhttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	pkgkafka "github.com/vaquev01/gmpm-sub001/pkg/kafka"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
	"github.com/vaquev01/gmpm-sub001/pkg/metrics"
	"github.com/vaquev01/gmpm-sub001/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() service.Metrics {
	return metrics.New()
}

// ProvideKafkaProducer creates a Kafka producer, or nil when the broker
// is disabled in config.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the universe publisher. With Kafka
// disabled a no-op publisher keeps the pipeline wiring uniform. When the
// producer is live the publisher also feeds the aggregated-log collector.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config, log *logger.Logger) service.SignalPublisher {
	if producer == nil {
		return repository.NopSignalPublisher{}
	}
	pub := repository.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
	log.AddCollector(&logger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".logs",
		Publisher:      pub,
	})
	return pub
}

// ProvideRegimeGate creates the regime gate client.
func ProvideRegimeGate(cfg *config.Config, log *logger.Logger) service.RegimeGate {
	return regimegate.New(cfg.Feeds.RegimeGateURL, cfg.Pipeline.RequestTimeout, log)
}

// ProvideQuoteFeed creates the batched REST quote client.
func ProvideQuoteFeed(cfg *config.Config, log *logger.Logger) service.QuoteFeed {
	return quotes.New(cfg.Feeds.QuoteURL, cfg.Pipeline.RequestTimeout, log,
		quotes.WithBatchSize(cfg.Pipeline.QuoteBatchSize),
		quotes.WithConcurrency(cfg.Pipeline.BatchConcurrency),
	)
}

// ProvideMacroFeed creates the macro indicator client.
func ProvideMacroFeed(cfg *config.Config, log *logger.Logger) service.MacroFeed {
	return macrofeed.New(cfg.Feeds.MacroURL, cfg.Pipeline.RequestTimeout, log)
}

// ProvideLiquidityZones creates the liquidity-zone analysis client.
func ProvideLiquidityZones(cfg *config.Config, log *logger.Logger) service.LiquidityZoneService {
	return liquidity.New(cfg.Feeds.LiquidityURL, cfg.Pipeline.RequestTimeout, log)
}

// ProvideQuoteStream creates the websocket performance stream subscribed
// to the full static universe.
func ProvideQuoteStream(cfg *config.Config, log *logger.Logger) *quotes.Stream {
	var symbols []string
	for _, c := range assets.All() {
		symbols = append(symbols, c.Meta().Symbols...)
	}
	return quotes.NewStream(
		cfg.Feeds.QuoteWSURL,
		symbols,
		cfg.Feeds.ReconnectDelay,
		cfg.Feeds.PingInterval,
		log,
	)
}

// ProvideMesoService creates the class analyzer backed by the live
// performance table.
func ProvideMesoService(stream *quotes.Stream, log *logger.Logger) *meso.Service {
	return meso.NewService(stream, log)
}

// ProvideSynthesizer creates the micro analysis synthesizer.
func ProvideSynthesizer(zones service.LiquidityZoneService, log *logger.Logger) *micro.Synthesizer {
	return micro.NewSynthesizer(zones, log)
}

// ProvidePipeline creates the orchestrating pipeline use case.
func ProvidePipeline(
	gate service.RegimeGate,
	quoteFeed service.QuoteFeed,
	macroFeed service.MacroFeed,
	mesoSvc *meso.Service,
	microSvc *micro.Synthesizer,
	publisher service.SignalPublisher,
	m service.Metrics,
	log *logger.Logger,
	cfg *config.Config,
) *usecase.Pipeline {
	return usecase.NewPipeline(usecase.Options{
		Gate:      gate,
		Quotes:    quoteFeed,
		Macro:     macroFeed,
		Meso:      mesoSvc,
		Micro:     microSvc,
		Publisher: publisher,
		Metrics:   m,
		Log:       log,
		Workers:   cfg.Pipeline.Workers,
		Fresh:     cfg.Poll.Fresh,
		Stale:     cfg.Poll.Stale,
	})
}

// ProvideResponseCache picks the response cache backend. With Redis
// configured it layers an in-process LRU in front of it; otherwise the
// in-process cache serves alone. An unreachable Redis degrades to
// memory-only instead of failing startup.
func ProvideResponseCache(cfg *config.Config, log *logger.Logger) pkgcache.Service {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache()
	}

	host, port := splitHostPort(cfg.Cache.Redis.Addr)
	redisCache, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		log.Warn("redis unavailable, using memory cache", logger.Error(err))
		return pkgcache.NewMemoryCache()
	}
	return pkgcache.NewLayeredCache(redisCache)
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideHandler creates the HTTP handler for the pipeline API.
func ProvideHandler(pipeline *usecase.Pipeline, respCache pkgcache.Service, log *logger.Logger) xhttp.Handler {
	return api.NewPipelineHandler(pipeline, respCache, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	pipeline *usecase.Pipeline,
	stream *quotes.Stream,
	publisher service.SignalPublisher,
	handler xhttp.Handler,
) *server.App {
	return server.New(cfg, log, pipeline, stream, publisher, handler)
}

package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
	"github.com/vaquev01/gmpm-sub001/internal/service/quotes"
	"github.com/vaquev01/gmpm-sub001/internal/usecase"
	"github.com/vaquev01/gmpm-sub001/pkg/config"
	xhttp "github.com/vaquev01/gmpm-sub001/pkg/http"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// App encapsulates the entire application lifecycle: the streaming
// performance feed, the periodic analysis pipeline, and the HTTP API.
type App struct {
	cfg        *config.Config
	log        *logger.Logger
	pipeline   *usecase.Pipeline
	stream     *quotes.Stream
	publisher  service.SignalPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *logger.Logger,
	pipeline *usecase.Pipeline,
	stream *quotes.Stream,
	publisher service.SignalPublisher,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		pipeline:  pipeline,
		stream:    stream,
		publisher: publisher,
		httpServer: xhttp.NewServer(handler,
			xhttp.WithPort(cfg.Server.Port),
			xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
			xhttp.WithServerLogger(log),
		),
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Live performance stream feeds the universe builder. Optional: with
	// no websocket URL configured the stream exits immediately and the
	// builder falls back to static picks.
	if a.stream != nil && a.cfg.Feeds.QuoteWSURL != "" {
		go a.stream.Run(ctx)
		a.log.Info("performance stream started", logger.String("url", a.cfg.Feeds.QuoteWSURL))
	}

	go a.pipeline.Run(ctx, a.cfg.Poll.Interval)
	a.log.Info("analysis pipeline started", logger.Duration("interval", a.cfg.Poll.Interval))

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", logger.Error(err))
		return err
	}
	a.log.Info("http server started", logger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", logger.Error(err))
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

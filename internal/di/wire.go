//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/vaquev01/gmpm-sub001/pkg/config"
	"github.com/vaquev01/gmpm-sub001/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// External feed clients
		ProvideRegimeGate,
		ProvideQuoteFeed,
		ProvideMacroFeed,
		ProvideLiquidityZones,
		ProvideQuoteStream,

		// Broker
		ProvideKafkaProducer,
		ProvideSignalPublisher,

		// Analysis services
		ProvideMesoService,
		ProvideSynthesizer,
		ProvidePipeline,

		// HTTP surface
		ProvideResponseCache,
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}

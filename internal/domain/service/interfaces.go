package service

import (
	"context"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
)

// RegimeGate fetches the macro regime classification document. The
// engine itself is an external collaborator; implementations must return
// a degraded neutral snapshot instead of an error when the gate is
// unreachable.
type RegimeGate interface {
	Snapshot(ctx context.Context) (*models.RegimeSnapshot, error)
}

// QuoteFeed retrieves normalized quotes for a batch of symbols. Symbols
// the feed cannot serve are simply absent from the result.
type QuoteFeed interface {
	Quotes(ctx context.Context, symbols []string) (map[string]*models.Quote, error)
}

// MacroFeed retrieves the macro indicator snapshot.
type MacroFeed interface {
	Snapshot(ctx context.Context) (*models.MacroSnapshot, error)
}

// LiquidityZoneService is the optional external liquidity-zone analysis.
// A nil result with nil error means "no analysis available"; callers
// proceed without it.
type LiquidityZoneService interface {
	Zones(ctx context.Context, symbol string) (*models.LiquidityZones, error)
}

// PerformanceSource exposes the live per-symbol daily performance table
// maintained from the streaming quote feed. Used by the universe builder
// to prefer a class's best live performer.
type PerformanceSource interface {
	ChangePct(symbol string) (float64, bool)
}

// SignalPublisher emits pipeline cycle outputs to an external sink.
type SignalPublisher interface {
	PublishUniverse(ctx context.Context, u *models.ScoredUniverse) error
	Close() error
}

// Metrics is the pipeline-facing metrics recorder.
type Metrics interface {
	RecordCycle(seconds float64)
	RecordStageError(stage string)
	RecordCacheEvent(kind string)
	RecordAction(action string)
	RecordUniverseSize(n int)
}

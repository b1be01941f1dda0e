package meso

import (
	"time"

	"github.com/vaquev01/gmpm-sub001/internal/domain/models"
	"github.com/vaquev01/gmpm-sub001/internal/domain/service"
	"github.com/vaquev01/gmpm-sub001/pkg/logger"
)

// Service runs the full meso stage: class analyses, instrument universe,
// sector board and temporal focus, all derived from one regime snapshot.
type Service struct {
	analyzer *Analyzer
	universe *UniverseBuilder
	log      *logger.Logger
}

func NewService(perf service.PerformanceSource, log *logger.Logger) *Service {
	return &Service{
		analyzer: NewAnalyzer(),
		universe: NewUniverseBuilder(perf),
		log:      log,
	}
}

// Analyze produces the complete meso document for the snapshot. Safe on
// a nil snapshot: every class degrades to neutral/avoid.
func (s *Service) Analyze(snap *models.RegimeSnapshot) *models.MesoAnalysis {
	classes := s.analyzer.Analyze(snap)
	allowed, prohibited := s.universe.Build(classes)

	out := &models.MesoAnalysis{
		Timestamp:  time.Now().UTC(),
		Regime:     models.RegimeUncertain,
		Confidence: models.ConfidenceLow,
		Degraded:   snap == nil || snap.Degraded,
		Classes:    classes,
		Sectors:    BuildSectorMomentum(classes),
		Allowed:    allowed,
		Prohibited: prohibited,
	}
	if snap != nil {
		if snap.Regime != "" {
			out.Regime = snap.Regime
		}
		if snap.RegimeConfidence != "" {
			out.Confidence = snap.RegimeConfidence
		}
	}
	out.Focus = BuildFocus(snap, classes, allowed)

	if s.log == nil {
		return out
	}
	s.log.Debug("meso analysis built",
		logger.String("regime", out.Regime),
		logger.Int("allowed", len(allowed)),
		logger.Int("prohibited", len(prohibited)),
	)
	return out
}

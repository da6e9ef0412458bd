package factory

import (
	"fmt"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/mailrisk/risk-engine/internal/signals"
	"go.uber.org/zap"
)

// SignalsFactory assembles the signal registry and aggregator from
// configuration
type SignalsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSignalsFactory creates a new signals factory
func NewSignalsFactory(cfg *config.Config, logger *zap.Logger) *SignalsFactory {
	return &SignalsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRegistry builds the configured extractor registry
func (f *SignalsFactory) CreateRegistry(ages core.DomainAgeProvider) (*signals.Registry, error) {
	signalsCfg, err := f.cfg.GetSignals()
	if err != nil {
		return nil, fmt.Errorf("invalid signals configuration: %w", err)
	}
	return signals.NewRegistry(signalsCfg, ages), nil
}

// CreateAggregator builds the aggregator over the given registry
func (f *SignalsFactory) CreateAggregator(registry *signals.Registry) *signals.Aggregator {
	return signals.NewAggregator(registry, f.cfg.GetScoring(), f.logger)
}

package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mailrisk/risk-engine/internal/adapters/emailstore"
	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/mailrisk/risk-engine/internal/factory"
	"github.com/mailrisk/risk-engine/internal/logging"
	"github.com/mailrisk/risk-engine/internal/signals"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewWeightStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewEnrichmentFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSignalsFactory); err != nil {
		return nil, err
	}

	// Register weight store
	if err := container.Provide(func(f *factory.WeightStoreFactory) (core.WeightStore, error) {
		return f.CreateWeightStore()
	}); err != nil {
		return nil, err
	}

	// Register domain-age enrichment
	if err := container.Provide(func(f *factory.EnrichmentFactory) (core.DomainAgeProvider, error) {
		return f.CreateDomainAgeProvider()
	}); err != nil {
		return nil, err
	}

	// Register signal registry and aggregator
	if err := container.Provide(func(f *factory.SignalsFactory, ages core.DomainAgeProvider) (*signals.Registry, error) {
		return f.CreateRegistry(ages)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SignalsFactory, registry *signals.Registry) *signals.Aggregator {
		return f.CreateAggregator(registry)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(agg *signals.Aggregator) core.EmailScorer {
		return agg
	}); err != nil {
		return nil, err
	}

	// Register confidence scoring parameters
	if err := container.Provide(func(cfg *config.Config) core.ScoringParams {
		scoring := cfg.GetScoring()
		return core.ScoringParams{
			SuspiciousThreshold: scoring.SuspiciousThreshold,
			HighRiskThreshold:   scoring.HighRiskThreshold,
			HighRiskConfidence:  scoring.HighRiskConfidence,
			BaselineDivisor:     scoring.BaselineDivisor,
			BaselineFloor:       scoring.BaselineFloor,
			BaselineCeiling:     scoring.BaselineCeiling,
			AdjustmentBound:     scoring.AdjustmentBound,
		}
	}); err != nil {
		return nil, err
	}

	// Register confidence adjuster
	if err := container.Provide(core.NewConfidenceAdjuster); err != nil {
		return nil, err
	}

	// Register email repository (in-process; real ingestion is an
	// external collaborator)
	if err := container.Provide(emailstore.NewMemoryRepository); err != nil {
		return nil, err
	}
	if err := container.Provide(func(repo *emailstore.MemoryRepository) core.EmailRepository {
		return repo
	}); err != nil {
		return nil, err
	}

	// Register trusted domains
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) []string {
		trustedDomains := cfg.GetStringSlice("scoring.trusted_domains")
		if len(trustedDomains) > 0 {
			logger.Info("Loaded trusted domains", zap.Strings("domains", trustedDomains))
		}
		return trustedDomains
	}); err != nil {
		return nil, err
	}

	// Register risk service
	if err := container.Provide(core.NewRiskService); err != nil {
		return nil, err
	}

	return container, nil
}

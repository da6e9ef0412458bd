package factory

import (
	"fmt"
	"time"

	"github.com/mailrisk/risk-engine/internal/adapters/enrichment"
	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// EnrichmentFactory creates domain-age providers based on configuration
type EnrichmentFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewEnrichmentFactory creates a new enrichment factory
func NewEnrichmentFactory(cfg *config.Config, logger *zap.Logger) *EnrichmentFactory {
	return &EnrichmentFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateDomainAgeProvider creates a domain-age provider based on the
// configuration
func (f *EnrichmentFactory) CreateDomainAgeProvider() (core.DomainAgeProvider, error) {
	enrichCfg, err := f.cfg.GetEnrichment()
	if err != nil {
		return nil, fmt.Errorf("invalid enrichment configuration: %w", err)
	}

	switch enrichCfg.Provider {
	case "", "disabled":
		return enrichment.NewDisabled(), nil
	case "static":
		ages := make(map[string]time.Duration, len(enrichCfg.StaticAges))
		for domain, raw := range enrichCfg.StaticAges {
			age, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid static age for %s: %w", domain, err)
			}
			ages[domain] = age
		}
		return enrichment.NewStatic(ages), nil
	case "http":
		if enrichCfg.BaseURL == "" {
			return nil, fmt.Errorf("enrichment.base_url is required for the http provider")
		}
		return enrichment.NewHTTPProvider(enrichCfg.BaseURL, enrichCfg.Timeout, f.logger), nil
	default:
		return nil, fmt.Errorf("unsupported enrichment provider: %s", enrichCfg.Provider)
	}
}

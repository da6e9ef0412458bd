package signals

import (
	"context"
	"fmt"
	"time"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// NewDomainExtractor detects senders whose domain was registered more
// recently than a configured age. Registration age comes from an
// optional enrichment collaborator; when the lookup is absent, slow or
// failing, the signal simply never triggers (fail open).
type NewDomainExtractor struct {
	weight float64
	maxAge time.Duration
	ages   core.DomainAgeProvider
}

// NewNewDomainExtractor creates the new-domain extractor. A nil
// provider means enrichment is permanently unavailable.
func NewNewDomainExtractor(cfg config.SignalsConfig, ages core.DomainAgeProvider) *NewDomainExtractor {
	return &NewDomainExtractor{
		weight: cfg.Weights[KeyNewDomain],
		maxAge: cfg.NewDomainMaxAge,
		ages:   ages,
	}
}

// Key returns the stable feature key
func (e *NewDomainExtractor) Key() string {
	return KeyNewDomain
}

// Evaluate looks up the sender domain's registration age
func (e *NewDomainExtractor) Evaluate(ctx context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil || e.ages == nil || e.maxAge <= 0 {
		return core.SignalResult{Key: e.Key()}
	}

	domain := extractDomain(doc.From)
	if domain == "" {
		return core.SignalResult{Key: e.Key()}
	}

	age, err := e.ages.Age(ctx, domain)
	if err != nil || age < 0 {
		// Enrichment unavailable: fail open, never block the assessment
		return core.SignalResult{Key: e.Key()}
	}

	if age >= e.maxAge {
		return core.SignalResult{Key: e.Key()}
	}

	days := int(age.Hours() / 24)
	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.weight,
		Explanation: fmt.Sprintf("Sender domain %s was registered only %d days ago", domain, days),
	}
}

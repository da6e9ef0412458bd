package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// DomainMismatchExtractor detects emails that mention a known brand in
// the body or display name while being sent from an unrelated domain, a
// common impersonation pattern.
type DomainMismatchExtractor struct {
	weight float64
	brands lexicon
}

// NewDomainMismatchExtractor creates the brand/domain mismatch extractor
func NewDomainMismatchExtractor(cfg config.SignalsConfig) *DomainMismatchExtractor {
	return &DomainMismatchExtractor{
		weight: cfg.Weights[KeyDomainMismatch],
		brands: newLexicon(cfg.KnownBrands),
	}
}

// Key returns the stable feature key
func (e *DomainMismatchExtractor) Key() string {
	return KeyDomainMismatch
}

// Evaluate compares brand mentions against the sender's domain
func (e *DomainMismatchExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	senderDomain := extractDomain(doc.From)
	if senderDomain == "" {
		// No sender domain to compare against
		return core.SignalResult{Key: e.Key()}
	}

	for _, brand := range e.brandCandidates(doc) {
		if !strings.Contains(senderDomain, strings.ReplaceAll(brand, " ", "")) {
			return core.SignalResult{
				Key:         e.Key(),
				Triggered:   true,
				Weight:      e.weight,
				Explanation: fmt.Sprintf("Mentions %q but was sent from unrelated domain %s", brand, senderDomain),
			}
		}
	}

	return core.SignalResult{Key: e.Key()}
}

// brandCandidates collects the distinct lowercased brand names the
// document refers to: mentions detected upstream by ingestion, known
// brands found in the body or subject, and known brands appearing in
// the sender's display name.
func (e *DomainMismatchExtractor) brandCandidates(doc *core.EmailDocument) []string {
	seen := make(map[string]bool)
	var candidates []string
	add := func(brand string) {
		brand = strings.ToLower(strings.TrimSpace(brand))
		if brand == "" || seen[brand] {
			return
		}
		seen[brand] = true
		candidates = append(candidates, brand)
	}

	for _, mention := range doc.BrandMentions {
		add(mention)
	}
	for _, brand := range e.brands.matches(doc.Subject + "\n" + doc.Body) {
		add(brand)
	}
	for _, brand := range e.brands.matches(doc.DisplayName) {
		add(brand)
	}
	return candidates
}

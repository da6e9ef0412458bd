package signals

import (
	"context"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// Stable feature keys. They join a triggered signal to a user's
// historical weight for that signal type, so they must never change
// once feedback has been stored against them.
const (
	KeySPFNeutralDMARCNone = "spf_neutral_dmarc_none"
	KeyDomainMismatch      = "domain_mismatch"
	KeyReplyToMismatch     = "reply_to_mismatch"
	KeyRiskyPhrase         = "risky_phrase"
	KeyPIIRequest          = "pii_request"
	KeyRiskyAttachment     = "risky_attachment"
	KeyNewDomain           = "new_domain"
)

// Extractor is one independent detector of a suspicious characteristic.
//
// Implementations must be pure with respect to the document: no side
// effects, no shared mutable state, and identical documents produce
// identical results. Missing or malformed fields mean "not triggered",
// never an error.
type Extractor interface {
	// Key returns the stable feature key of this signal.
	Key() string

	// Evaluate inspects one document and returns exactly one result.
	// The context only matters to extractors that consult an external
	// collaborator (new_domain); everything else ignores it.
	Evaluate(ctx context.Context, doc *core.EmailDocument) core.SignalResult
}

// Registry is the fixed, ordered set of extractors assembled at
// startup. Registration order is the tie-break order for explanation
// ranking, so it is part of the engine's observable behavior.
type Registry struct {
	extractors []Extractor
}

// NewRegistry assembles the standard extractor set from configuration.
// New signals are added by registering another Extractor here, not by
// branching inside the aggregator.
func NewRegistry(cfg config.SignalsConfig, ages core.DomainAgeProvider) *Registry {
	return &Registry{
		extractors: []Extractor{
			NewAuthExtractor(cfg),
			NewDomainMismatchExtractor(cfg),
			NewReplyToMismatchExtractor(cfg),
			NewRiskyPhraseExtractor(cfg),
			NewPIIRequestExtractor(cfg),
			NewRiskyAttachmentExtractor(cfg),
			NewNewDomainExtractor(cfg, ages),
		},
	}
}

// NewCustomRegistry builds a registry from an explicit extractor list,
// preserving the given registration order.
func NewCustomRegistry(extractors ...Extractor) *Registry {
	return &Registry{extractors: extractors}
}

// Extractors returns the registered extractors in registration order.
func (r *Registry) Extractors() []Extractor {
	return r.extractors
}

// Len returns the number of registered extractors.
func (r *Registry) Len() int {
	return len(r.extractors)
}

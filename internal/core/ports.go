package core

import (
	"context"
	"time"
)

// EmailRepository is the ingestion collaborator's document accessor.
type EmailRepository interface {
	// Get returns the document for an email id, or ErrEmailNotFound.
	Get(ctx context.Context, emailID string) (*EmailDocument, error)
}

// EmailScorer runs the signal pipeline against one document. It is
// pure: identical documents produce identical breakdowns.
type EmailScorer interface {
	Score(ctx context.Context, doc *EmailDocument) ScoreBreakdown
}

// WeightStore is the durable per-user, per-feature-key adjustment
// table. It is the only shared mutable state in the engine.
type WeightStore interface {
	// Get returns the stored weight deltas for the given feature keys.
	// Keys with no row are simply absent from the map, never an error.
	Get(ctx context.Context, userID string, featureKeys []string) (map[string]float64, error)

	// ApplyFeedback folds one verdict into the (userID, featureKey)
	// row and returns the updated delta. Updates are atomic per pair:
	// concurrent submissions for the same pair must not lose steps.
	ApplyFeedback(ctx context.Context, userID, featureKey string, verdict Verdict) (float64, error)

	// Close releases any underlying resources.
	Close() error
}

// DomainAgeProvider is the optional enrichment collaborator supplying
// sender-domain registration age. Implementations may be permanently
// unavailable; callers treat any error as "signal does not trigger".
type DomainAgeProvider interface {
	Age(ctx context.Context, domain string) (time.Duration, error)
}

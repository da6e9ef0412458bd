package signals

import (
	"context"
	"fmt"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// ReplyToMismatchExtractor detects a Reply-To header pointing at a
// different domain than the From address, redirecting responses away
// from the apparent sender.
type ReplyToMismatchExtractor struct {
	weight float64
}

// NewReplyToMismatchExtractor creates the Reply-To mismatch extractor
func NewReplyToMismatchExtractor(cfg config.SignalsConfig) *ReplyToMismatchExtractor {
	return &ReplyToMismatchExtractor{weight: cfg.Weights[KeyReplyToMismatch]}
}

// Key returns the stable feature key
func (e *ReplyToMismatchExtractor) Key() string {
	return KeyReplyToMismatch
}

// Evaluate compares the Reply-To domain against the From domain
func (e *ReplyToMismatchExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	fromDomain := extractDomain(doc.From)
	replyDomain := extractDomain(doc.ReplyTo)

	// An absent or malformed Reply-To is not a mismatch
	if fromDomain == "" || replyDomain == "" || fromDomain == replyDomain {
		return core.SignalResult{Key: e.Key()}
	}

	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.weight,
		Explanation: fmt.Sprintf("Replies are redirected from %s to %s", fromDomain, replyDomain),
	}
}

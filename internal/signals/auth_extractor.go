package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// AuthExtractor detects weak sender authentication: an SPF result of
// neutral or fail combined with a DMARC result of none or fail. Either
// check passing on its own keeps the signal quiet; the combination is
// what correlates with spoofed senders.
type AuthExtractor struct {
	weight float64
}

// NewAuthExtractor creates the sender authentication extractor
func NewAuthExtractor(cfg config.SignalsConfig) *AuthExtractor {
	return &AuthExtractor{weight: cfg.Weights[KeySPFNeutralDMARCNone]}
}

// Key returns the stable feature key
func (e *AuthExtractor) Key() string {
	return KeySPFNeutralDMARCNone
}

// Evaluate checks the document's SPF and DMARC outcomes
func (e *AuthExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	spf := strings.ToLower(strings.TrimSpace(doc.Auth.SPF))
	dmarc := strings.ToLower(strings.TrimSpace(doc.Auth.DMARC))

	spfWeak := spf == "neutral" || spf == "fail" || spf == "softfail"
	dmarcWeak := dmarc == "none" || dmarc == "fail"

	if !spfWeak || !dmarcWeak {
		return core.SignalResult{Key: e.Key()}
	}

	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.weight,
		Explanation: fmt.Sprintf("Sender authentication is weak (SPF=%s, DMARC=%s)", spf, dmarc),
	}
}

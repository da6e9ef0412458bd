package signals

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// RiskyPhraseExtractor detects phrases from a configured scam lexicon
// ("wire transfer", "gift card", ...) in the subject or body. Each
// distinct matched phrase contributes the per-phrase weight, up to a
// configurable cap.
type RiskyPhraseExtractor struct {
	phraseWeight float64
	cap          int
	phrases      lexicon
}

// NewRiskyPhraseExtractor creates the risky phrase extractor
func NewRiskyPhraseExtractor(cfg config.SignalsConfig) *RiskyPhraseExtractor {
	return &RiskyPhraseExtractor{
		phraseWeight: cfg.Weights[KeyRiskyPhrase],
		cap:          cfg.PhraseCap,
		phrases:      newLexicon(cfg.RiskyPhrases),
	}
}

// Key returns the stable feature key
func (e *RiskyPhraseExtractor) Key() string {
	return KeyRiskyPhrase
}

// Evaluate matches the lexicon against subject and body
func (e *RiskyPhraseExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	matched := e.phrases.matches(doc.Subject + "\n" + doc.Body)
	if len(matched) == 0 {
		return core.SignalResult{Key: e.Key()}
	}

	counted := len(matched)
	if e.cap > 0 && counted > e.cap {
		counted = e.cap
	}

	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.phraseWeight * float64(counted),
		Explanation: fmt.Sprintf("Contains high-risk wording: %s", strings.Join(matched, ", ")),
	}
}

package signals

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// PIIRequestExtractor detects emails asking for personal information.
// It triggers only when at least two distinct categories (name, phone,
// address, government id, bank details) are requested; asking for a
// single item is too common in legitimate mail.
type PIIRequestExtractor struct {
	weight     float64
	categories []string
	lexicons   map[string]lexicon
}

// NewPIIRequestExtractor creates the PII request extractor
func NewPIIRequestExtractor(cfg config.SignalsConfig) *PIIRequestExtractor {
	categories := make([]string, 0, len(cfg.PIITerms))
	lexicons := make(map[string]lexicon, len(cfg.PIITerms))
	for category, terms := range cfg.PIITerms {
		categories = append(categories, category)
		lexicons[category] = newLexicon(terms)
	}
	// Category iteration order must be deterministic for reproducible
	// explanations
	sort.Strings(categories)

	return &PIIRequestExtractor{
		weight:     cfg.Weights[KeyPIIRequest],
		categories: categories,
		lexicons:   lexicons,
	}
}

// Key returns the stable feature key
func (e *PIIRequestExtractor) Key() string {
	return KeyPIIRequest
}

// Evaluate counts the distinct PII categories the document requests
func (e *PIIRequestExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	text := doc.Subject + "\n" + doc.Body
	var requested []string
	for _, category := range e.categories {
		if e.lexicons[category].matchesAny(text) {
			requested = append(requested, category)
		}
	}

	if len(requested) < 2 {
		return core.SignalResult{Key: e.Key()}
	}

	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.weight,
		Explanation: fmt.Sprintf("Requests personal information: %s", strings.Join(requested, ", ")),
	}
}

package signals

import (
	"context"
	"sort"
	"sync"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// Aggregator runs every registered extractor against a document and
// combines the results into one raw score, a suspicious verdict and a
// ranked explanation list.
//
// Extractors are side-effect free, so they run concurrently; results
// are slotted by registration index, which keeps the output fully
// deterministic regardless of goroutine scheduling. The raw score has
// no upper clamp: several severe signals stacking past 100 is exactly
// what lets callers tell "obviously malicious" from "borderline".
type Aggregator struct {
	registry  *Registry
	threshold float64
	logger    *zap.Logger
}

// NewAggregator creates an aggregator over the given registry
func NewAggregator(registry *Registry, cfg config.ScoringConfig, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		registry:  registry,
		threshold: cfg.SuspiciousThreshold,
		logger:    logger,
	}
}

// Score runs the full signal pipeline against one document. Zero
// triggered signals is a valid outcome: score 0, not suspicious, no
// explanations.
func (a *Aggregator) Score(ctx context.Context, doc *core.EmailDocument) core.ScoreBreakdown {
	extractors := a.registry.Extractors()
	results := make([]core.SignalResult, len(extractors))

	var wg sync.WaitGroup
	for i, ex := range extractors {
		wg.Add(1)
		go func(i int, ex Extractor) {
			defer wg.Done()
			// A buggy extractor must never take down the whole
			// assessment; its signal counts as not triggered.
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("Signal extractor panicked",
						zap.String("feature_key", ex.Key()),
						zap.Any("panic", r))
					results[i] = core.SignalResult{Key: ex.Key()}
				}
			}()
			results[i] = ex.Evaluate(ctx, doc)
		}(i, ex)
	}
	wg.Wait()

	rawScore := 0.0
	triggered := make([]core.SignalResult, 0, len(results))
	for _, sr := range results {
		if sr.Triggered {
			rawScore += sr.Weight
			triggered = append(triggered, sr)
		}
	}

	// Descending by weight; the stable sort keeps registration order
	// for equal weights
	sort.SliceStable(triggered, func(i, j int) bool {
		return triggered[i].Weight > triggered[j].Weight
	})

	return core.ScoreBreakdown{
		RawScore:   rawScore,
		Suspicious: rawScore >= a.threshold,
		Triggered:  triggered,
	}
}

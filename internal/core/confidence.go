package core

import (
	"context"

	"go.uber.org/zap"
)

// ScoringParams are the confidence calibration constants, injected at
// construction so no threshold is hardcoded in the algorithm.
type ScoringParams struct {
	SuspiciousThreshold float64
	HighRiskThreshold   float64
	HighRiskConfidence  float64
	BaselineDivisor     float64
	BaselineFloor       float64
	BaselineCeiling     float64
	AdjustmentBound     float64
}

// ConfidenceAdjuster turns a raw score into a per-user confidence in
// [0,1] by folding in the user's feedback history for the triggered
// feature keys.
type ConfidenceAdjuster struct {
	store  WeightStore
	params ScoringParams
	logger *zap.Logger
}

// NewConfidenceAdjuster creates a confidence adjuster. A nil store is
// treated as permanently unreachable: every adjustment falls back to
// the baseline.
func NewConfidenceAdjuster(store WeightStore, params ScoringParams, logger *zap.Logger) *ConfidenceAdjuster {
	return &ConfidenceAdjuster{
		store:  store,
		params: params,
		logger: logger,
	}
}

// Baseline is the fixed confidence function of the raw score alone:
// rawScore/divisor clamped to [floor, ceiling]. Raw score by itself
// never yields full certainty in either direction.
func (a *ConfidenceAdjuster) Baseline(rawScore float64) float64 {
	return clamp(rawScore/a.params.BaselineDivisor, a.params.BaselineFloor, a.params.BaselineCeiling)
}

// Adjust computes the final confidence for one assessment. The second
// return value reports whether the weight store was unreachable and the
// baseline was used as a fallback.
//
// Severe signal combinations are never down-weighted by history: at or
// above the high-risk threshold the confidence is forced to the
// high-risk value without consulting the store at all.
func (a *ConfidenceAdjuster) Adjust(ctx context.Context, userID string, rawScore float64, featureKeys []string) (float64, bool) {
	if rawScore >= a.params.HighRiskThreshold {
		return a.params.HighRiskConfidence, false
	}

	baseline := a.Baseline(rawScore)

	// Cold start: nothing triggered or no user context, baseline as-is
	if a.store == nil || userID == "" || len(featureKeys) == 0 {
		return baseline, a.store == nil
	}

	deltas, err := a.store.Get(ctx, userID, featureKeys)
	if err != nil {
		a.logger.Warn("Weight store unreachable, falling back to baseline confidence",
			zap.Error(err),
			zap.String("user_id", userID))
		return baseline, true
	}

	// Missing keys contribute 0.0; the aggregate sum is clamped to a
	// single bounded adjustment, not additive per signal
	sum := 0.0
	for _, key := range featureKeys {
		sum += deltas[key]
	}
	sum = clamp(sum, -a.params.AdjustmentBound, a.params.AdjustmentBound)

	return clamp(baseline+sum, 0.0, 1.0), false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

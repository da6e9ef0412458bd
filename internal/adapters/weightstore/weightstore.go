// Package weightstore provides the durable per-user, per-feature-key
// adjustment table behind the core.WeightStore port. Every backend
// applies the same update rule: a scam verdict moves the delta one
// learning-rate step toward +maxDelta, a legit verdict one step toward
// -maxDelta, clamped at the stored level, atomically per
// (user, feature key) pair.
package weightstore

import (
	"fmt"

	"github.com/mailrisk/risk-engine/internal/core"
)

// signedStep maps a verdict to its learning-rate step direction.
func signedStep(verdict core.Verdict, step float64) (float64, error) {
	switch verdict {
	case core.VerdictScam:
		return step, nil
	case core.VerdictLegit:
		return -step, nil
	default:
		return 0, fmt.Errorf("unknown verdict %q", verdict)
	}
}

func clampDelta(delta, maxDelta float64) float64 {
	if delta > maxDelta {
		return maxDelta
	}
	if delta < -maxDelta {
		return -maxDelta
	}
	return delta
}

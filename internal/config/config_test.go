package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	scoring := cfg.GetScoring()
	assert.Equal(t, 40.0, scoring.SuspiciousThreshold)
	assert.Equal(t, 80.0, scoring.HighRiskThreshold)
	assert.Equal(t, 0.95, scoring.HighRiskConfidence)
	assert.Equal(t, 0.3, scoring.BaselineFloor)
	assert.Equal(t, 0.9, scoring.BaselineCeiling)
	assert.Equal(t, 0.15, scoring.AdjustmentBound)

	learning := cfg.GetLearning()
	assert.Equal(t, 0.03, learning.Step)
	assert.Equal(t, 0.15, learning.MaxDelta)

	assert.Equal(t, "memory", cfg.GetWeightStore().Type)
}

func TestGetSignals(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	signals, err := cfg.GetSignals()
	require.NoError(t, err)

	assert.Equal(t, 25.0, signals.Weights["domain_mismatch"])
	assert.Equal(t, 30.0, signals.Weights["risky_attachment"])
	assert.Equal(t, 3, signals.PhraseCap)
	assert.Contains(t, signals.RiskyPhrases, "home office")
	assert.Contains(t, signals.KnownBrands, "paypal")
	assert.Contains(t, signals.RiskyExtensions, ".docm")
	assert.Contains(t, signals.PIITerms["bank"], "bank account")
	assert.Equal(t, 720*time.Hour, signals.NewDomainMaxAge)
}

func TestOverrides(t *testing.T) {
	v := NewEmptyViper()
	v.Set("scoring.suspicious_threshold", 55.0)
	v.Set("signals.weights.risky_phrase", 12.0)
	v.Set("signals.new_domain_max_age", "48h")
	cfg := NewFromViper(v)

	assert.Equal(t, 55.0, cfg.GetScoring().SuspiciousThreshold)

	signals, err := cfg.GetSignals()
	require.NoError(t, err)
	assert.Equal(t, 12.0, signals.Weights["risky_phrase"])
	assert.Equal(t, 48*time.Hour, signals.NewDomainMaxAge)
}

func TestGetSignals_BadDuration(t *testing.T) {
	v := NewEmptyViper()
	v.Set("signals.new_domain_max_age", "soon")
	cfg := NewFromViper(v)

	_, err := cfg.GetSignals()
	assert.Error(t, err)
}

func TestGetEnrichment(t *testing.T) {
	cfg := NewFromViper(NewEmptyViper())

	enrichment, err := cfg.GetEnrichment()
	require.NoError(t, err)
	assert.Equal(t, "disabled", enrichment.Provider)
	assert.Equal(t, 500*time.Millisecond, enrichment.Timeout)
}

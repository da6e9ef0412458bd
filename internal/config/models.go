package config

import (
	"time"
)

// ScoringConfig holds the aggregator and confidence adjuster thresholds
type ScoringConfig struct {
	SuspiciousThreshold float64
	HighRiskThreshold   float64
	HighRiskConfidence  float64
	BaselineDivisor     float64
	BaselineFloor       float64
	BaselineCeiling     float64
	AdjustmentBound     float64
}

// LearningConfig holds the feedback learning parameters
type LearningConfig struct {
	Step     float64
	MaxDelta float64
}

// SignalsConfig holds the signal extractor weights and lexicons
type SignalsConfig struct {
	Weights         map[string]float64
	PhraseCap       int
	RiskyPhrases    []string
	KnownBrands     []string
	RiskyExtensions []string
	PIITerms        map[string][]string
	NewDomainMaxAge time.Duration
}

// WeightStoreConfig holds the weight store backend selection
type WeightStoreConfig struct {
	Type           string
	SQLitePath     string
	MySQLDSN       string
	PostgresDSN    string
	RedisURL       string
	RedisKeyPrefix string
}

// EnrichmentConfig holds the optional domain-age enrichment settings
type EnrichmentConfig struct {
	Provider   string
	BaseURL    string
	Timeout    time.Duration
	StaticAges map[string]string
}

// GetScoring returns the scoring configuration
func (c *Config) GetScoring() ScoringConfig {
	return ScoringConfig{
		SuspiciousThreshold: c.GetFloat64("scoring.suspicious_threshold"),
		HighRiskThreshold:   c.GetFloat64("scoring.high_risk_threshold"),
		HighRiskConfidence:  c.GetFloat64("scoring.high_risk_confidence"),
		BaselineDivisor:     c.GetFloat64("scoring.baseline_divisor"),
		BaselineFloor:       c.GetFloat64("scoring.baseline_floor"),
		BaselineCeiling:     c.GetFloat64("scoring.baseline_ceiling"),
		AdjustmentBound:     c.GetFloat64("scoring.adjustment_bound"),
	}
}

// GetLearning returns the learning configuration
func (c *Config) GetLearning() LearningConfig {
	return LearningConfig{
		Step:     c.GetFloat64("learning.step"),
		MaxDelta: c.GetFloat64("learning.max_delta"),
	}
}

// GetSignals returns the signal extractor configuration
func (c *Config) GetSignals() (SignalsConfig, error) {
	maxAge, err := c.GetDuration("signals.new_domain_max_age")
	if err != nil {
		return SignalsConfig{}, err
	}

	weights := make(map[string]float64)
	for key := range c.v.GetStringMap("signals.weights") {
		weights[key] = c.GetFloat64("signals.weights." + key)
	}

	piiTerms := make(map[string][]string)
	for category := range c.v.GetStringMap("signals.pii_terms") {
		piiTerms[category] = c.GetStringSlice("signals.pii_terms." + category)
	}

	return SignalsConfig{
		Weights:         weights,
		PhraseCap:       c.GetInt("signals.phrase_cap"),
		RiskyPhrases:    c.GetStringSlice("signals.risky_phrases"),
		KnownBrands:     c.GetStringSlice("signals.known_brands"),
		RiskyExtensions: c.GetStringSlice("signals.risky_extensions"),
		PIITerms:        piiTerms,
		NewDomainMaxAge: maxAge,
	}, nil
}

// GetWeightStore returns the weight store configuration
func (c *Config) GetWeightStore() WeightStoreConfig {
	return WeightStoreConfig{
		Type:           c.GetString("weight_store.type"),
		SQLitePath:     c.GetString("weight_store.sqlite_path"),
		MySQLDSN:       c.GetString("weight_store.mysql_dsn"),
		PostgresDSN:    c.GetString("weight_store.postgres_dsn"),
		RedisURL:       c.GetString("weight_store.redis_url"),
		RedisKeyPrefix: c.GetString("weight_store.redis_key_prefix"),
	}
}

// GetEnrichment returns the enrichment configuration
func (c *Config) GetEnrichment() (EnrichmentConfig, error) {
	timeout, err := c.GetDuration("enrichment.timeout")
	if err != nil {
		return EnrichmentConfig{}, err
	}
	return EnrichmentConfig{
		Provider:   c.GetString("enrichment.provider"),
		BaseURL:    c.GetString("enrichment.base_url"),
		Timeout:    timeout,
		StaticAges: c.v.GetStringMapString("enrichment.static_ages"),
	}, nil
}

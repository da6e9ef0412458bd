package weightstore

import (
	"context"
	"sync"
	"time"

	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the WeightStore
// interface. It is the default backend and the fake used by tests.
type MemoryStore struct {
	entries  map[string]*core.UserWeight
	mu       sync.RWMutex
	step     float64
	maxDelta float64
	logger   *zap.Logger
}

// NewMemoryStore creates a new in-memory weight store
func NewMemoryStore(step, maxDelta float64, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]*core.UserWeight),
		step:     step,
		maxDelta: maxDelta,
		logger:   logger,
	}
}

func pairKey(userID, featureKey string) string {
	return userID + "\x00" + featureKey
}

// Get retrieves the stored weight deltas for the given feature keys.
// Keys without a row are absent from the result.
func (s *MemoryStore) Get(_ context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	deltas := make(map[string]float64, len(featureKeys))
	for _, key := range featureKeys {
		if entry, ok := s.entries[pairKey(userID, key)]; ok {
			deltas[key] = entry.WeightDelta
		}
	}
	return deltas, nil
}

// ApplyFeedback folds one verdict into the (userID, featureKey) row
// under the store lock, so concurrent submissions never lose steps.
func (s *MemoryStore) ApplyFeedback(_ context.Context, userID, featureKey string, verdict core.Verdict) (float64, error) {
	step, err := signedStep(verdict, s.step)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(userID, featureKey)
	entry, ok := s.entries[key]
	if !ok {
		entry = &core.UserWeight{UserID: userID, FeatureKey: featureKey}
		s.entries[key] = entry
	}

	entry.WeightDelta = clampDelta(entry.WeightDelta+step, s.maxDelta)
	entry.SampleCount++
	entry.UpdatedAt = time.Now().UTC()

	return entry.WeightDelta, nil
}

// Close releases nothing for the in-memory store
func (s *MemoryStore) Close() error {
	return nil
}

package weightstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mailrisk/risk-engine/internal/core"
)

func TestMemoryStore_RepeatedScamFeedbackClampsAtBound(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())
	ctx := context.Background()

	expected := []float64{0.03, 0.06, 0.09, 0.12, 0.15}
	for i, want := range expected {
		delta, err := store.ApplyFeedback(ctx, "u1", "domain_mismatch", core.VerdictScam)
		require.NoError(t, err)
		assert.InDelta(t, want, delta, 1e-9, "submission %d", i+1)
	}

	// A sixth submission stays pinned at the bound.
	delta, err := store.ApplyFeedback(ctx, "u1", "domain_mismatch", core.VerdictScam)
	require.NoError(t, err)
	assert.InDelta(t, 0.15, delta, 1e-9)
}

func TestMemoryStore_LegitFeedbackStepsDown(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.ApplyFeedback(ctx, "u1", "risky_phrase", core.VerdictScam)
		require.NoError(t, err)
	}

	delta, err := store.ApplyFeedback(ctx, "u1", "risky_phrase", core.VerdictLegit)
	require.NoError(t, err)
	assert.InDelta(t, 0.12, delta, 1e-9)

	deltas, err := store.Get(ctx, "u1", []string{"risky_phrase"})
	require.NoError(t, err)
	assert.InDelta(t, 0.12, deltas["risky_phrase"], 1e-9)
}

func TestMemoryStore_LegitOnlyClampsAtNegativeBound(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())
	ctx := context.Background()

	var delta float64
	var err error
	for i := 0; i < 10; i++ {
		delta, err = store.ApplyFeedback(ctx, "u1", "pii_request", core.VerdictLegit)
		require.NoError(t, err)
	}
	assert.InDelta(t, -0.15, delta, 1e-9)
}

func TestMemoryStore_GetOmitsUnknownKeys(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())
	ctx := context.Background()

	_, err := store.ApplyFeedback(ctx, "u1", "domain_mismatch", core.VerdictScam)
	require.NoError(t, err)

	deltas, err := store.Get(ctx, "u1", []string{"domain_mismatch", "risky_attachment"})
	require.NoError(t, err)

	assert.Len(t, deltas, 1)
	_, present := deltas["risky_attachment"]
	assert.False(t, present, "keys with no history carry no entry")
}

func TestMemoryStore_UsersAreIsolated(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())
	ctx := context.Background()

	_, err := store.ApplyFeedback(ctx, "u1", "domain_mismatch", core.VerdictScam)
	require.NoError(t, err)

	deltas, err := store.Get(ctx, "u2", []string{"domain_mismatch"})
	require.NoError(t, err)
	assert.Empty(t, deltas)
}

func TestMemoryStore_RejectsUnknownVerdict(t *testing.T) {
	store := NewMemoryStore(0.03, 0.15, zap.NewNop())

	_, err := store.ApplyFeedback(context.Background(), "u1", "domain_mismatch", core.Verdict("spamish"))
	assert.Error(t, err)
}

func TestMemoryStore_ConcurrentFeedbackLosesNoSteps(t *testing.T) {
	store := NewMemoryStore(0.001, 1.0, zap.NewNop())
	ctx := context.Background()

	const workers = 8
	const perWorker = 10

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := store.ApplyFeedback(ctx, "u1", "reply_to_mismatch", core.VerdictScam)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	deltas, err := store.Get(ctx, "u1", []string{"reply_to_mismatch"})
	require.NoError(t, err)
	assert.InDelta(t, float64(workers*perWorker)*0.001, deltas["reply_to_mismatch"], 1e-9)
}

func TestSignedStep(t *testing.T) {
	up, err := signedStep(core.VerdictScam, 0.03)
	require.NoError(t, err)
	assert.Equal(t, 0.03, up)

	down, err := signedStep(core.VerdictLegit, 0.03)
	require.NoError(t, err)
	assert.Equal(t, -0.03, down)

	_, err = signedStep(core.Verdict("nope"), 0.03)
	assert.Error(t, err)
}

func TestClampDelta(t *testing.T) {
	assert.Equal(t, 0.15, clampDelta(0.2, 0.15))
	assert.Equal(t, -0.15, clampDelta(-0.2, 0.15))
	assert.Equal(t, 0.09, clampDelta(0.09, 0.15))
}

package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(repo *fakeEmailRepo, scorer *fakeScorer, store *fakeWeightStore) *RiskService {
	return newTrustingTestService(repo, scorer, store, nil)
}

func newTrustingTestService(repo *fakeEmailRepo, scorer *fakeScorer, store *fakeWeightStore, trustedDomains []string) *RiskService {
	adjuster := NewConfidenceAdjuster(store, testParams(), zap.NewNop())
	return NewRiskService(repo, scorer, adjuster, store, trustedDomains, zap.NewNop())
}

func suspiciousBreakdown() ScoreBreakdown {
	return ScoreBreakdown{
		RawScore:   60,
		Suspicious: true,
		Triggered: []SignalResult{
			{Key: "domain_mismatch", Triggered: true, Weight: 25, Explanation: "Mentions \"paypal\" but was sent from unrelated domain quick-hire.example"},
			{Key: "reply_to_mismatch", Triggered: true, Weight: 20, Explanation: "Replies are redirected from quick-hire.example to gmail.com"},
			{Key: "risky_phrase", Triggered: true, Weight: 15, Explanation: "Contains high-risk wording: home office"},
		},
	}
}

func TestGetRiskAdvice_SuspiciousEmail(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	service := newTestService(repo, scorer, newFakeWeightStore())

	assessment, err := service.GetRiskAdvice(context.Background(), "m1", "u1")
	require.NoError(t, err)

	assert.Equal(t, "m1", assessment.EmailID)
	assert.Equal(t, 60.0, assessment.RawScore)
	assert.True(t, assessment.Suspicious)
	require.NotEmpty(t, assessment.Explanations, "suspicious results always carry explanations")
	assert.Len(t, assessment.Explanations, 3)
	assert.InDelta(t, 0.6, assessment.Confidence, 1e-9)
	assert.False(t, assessment.UsedFallback)
	assert.NotEmpty(t, assessment.ProcessingID)
	assert.False(t, assessment.ComputedAt.IsZero())
}

func TestGetRiskAdvice_ZeroSignalsIsNotAnError(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"clean": {ID: "clean"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"clean": {}}}
	service := newTestService(repo, scorer, newFakeWeightStore())

	assessment, err := service.GetRiskAdvice(context.Background(), "clean", "u1")
	require.NoError(t, err)

	assert.Zero(t, assessment.RawScore)
	assert.False(t, assessment.Suspicious)
	assert.Empty(t, assessment.Explanations)
	assert.InDelta(t, 0.3, assessment.Confidence, 1e-9)
}

func TestGetRiskAdvice_UnknownEmail(t *testing.T) {
	service := newTestService(&fakeEmailRepo{docs: map[string]*EmailDocument{}}, &fakeScorer{}, newFakeWeightStore())

	_, err := service.GetRiskAdvice(context.Background(), "missing", "u1")
	assert.ErrorIs(t, err, ErrEmailNotFound)
}

func TestGetRiskAdvice_EmptyEmailID(t *testing.T) {
	service := newTestService(&fakeEmailRepo{}, &fakeScorer{}, newFakeWeightStore())

	_, err := service.GetRiskAdvice(context.Background(), "", "u1")
	assert.True(t, IsValidation(err))
}

func TestGetRiskAdvice_DegradedStoreStillAnswers(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	store := newFakeWeightStore()
	store.getErr = errStoreDown
	service := newTestService(repo, scorer, store)

	assessment, err := service.GetRiskAdvice(context.Background(), "m1", "u1")
	require.NoError(t, err)

	assert.True(t, assessment.UsedFallback)
	assert.InDelta(t, 0.6, assessment.Confidence, 1e-9)
}

func TestGetRiskAdvice_TrustedDomainBypassesPipeline(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1", From: "billing@Corp.Example"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	service := newTrustingTestService(repo, scorer, newFakeWeightStore(), []string{"corp.example"})

	assessment, err := service.GetRiskAdvice(context.Background(), "m1", "u1")
	require.NoError(t, err)

	assert.False(t, assessment.Suspicious)
	assert.Zero(t, assessment.RawScore)
	assert.Equal(t, 1.0, assessment.Confidence)
	assert.Empty(t, assessment.Explanations)
	assert.NotEmpty(t, assessment.ProcessingID)
}

func TestSubmitRiskFeedback_TrustedDomainLeavesWeightsAlone(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1", From: "billing@corp.example"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	store := newFakeWeightStore()
	service := newTrustingTestService(repo, scorer, store, []string{"corp.example"})

	receipt, err := service.SubmitRiskFeedback(context.Background(), "m1", "u1", "scam")
	require.NoError(t, err)

	assert.True(t, receipt.Accepted)
	assert.Empty(t, receipt.UpdatedKeys)
	assert.Empty(t, store.applied)
}

func TestSubmitRiskFeedback_UpdatesTriggeredKeys(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	store := newFakeWeightStore()
	service := newTestService(repo, scorer, store)

	receipt, err := service.SubmitRiskFeedback(context.Background(), "m1", "u1", "scam")
	require.NoError(t, err)

	assert.True(t, receipt.Accepted)
	assert.Equal(t, []string{"domain_mismatch", "reply_to_mismatch", "risky_phrase"}, receipt.UpdatedKeys)
	assert.InDelta(t, 0.03, store.deltas["u1"]["domain_mismatch"], 1e-9)
	assert.InDelta(t, 0.03, store.deltas["u1"]["reply_to_mismatch"], 1e-9)
}

func TestSubmitRiskFeedback_InvalidVerdict(t *testing.T) {
	service := newTestService(&fakeEmailRepo{}, &fakeScorer{}, newFakeWeightStore())

	for _, verdict := range []string{"", "spam", "SCAM ", "maybe"} {
		_, err := service.SubmitRiskFeedback(context.Background(), "m1", "u1", verdict)
		assert.True(t, IsValidation(err), "verdict=%q", verdict)
	}
}

func TestSubmitRiskFeedback_UnknownEmailIsAcknowledged(t *testing.T) {
	store := newFakeWeightStore()
	service := newTestService(&fakeEmailRepo{docs: map[string]*EmailDocument{}}, &fakeScorer{}, store)

	receipt, err := service.SubmitRiskFeedback(context.Background(), "ghost", "u1", "scam")
	require.NoError(t, err)

	assert.True(t, receipt.Accepted)
	assert.Empty(t, receipt.UpdatedKeys)
	assert.Empty(t, store.applied, "no weight mutation for an unscoreable email")
}

func TestSubmitRiskFeedback_StoreFailureStillAccepted(t *testing.T) {
	repo := &fakeEmailRepo{docs: map[string]*EmailDocument{"m1": {ID: "m1"}}}
	scorer := &fakeScorer{breakdowns: map[string]ScoreBreakdown{"m1": suspiciousBreakdown()}}
	store := newFakeWeightStore()
	store.applyErr = errStoreDown
	service := newTestService(repo, scorer, store)

	receipt, err := service.SubmitRiskFeedback(context.Background(), "m1", "u1", "legit")
	require.NoError(t, err)

	assert.True(t, receipt.Accepted)
	assert.Empty(t, receipt.UpdatedKeys)
}

func TestSubmitRiskFeedback_MissingIdentifiers(t *testing.T) {
	service := newTestService(&fakeEmailRepo{}, &fakeScorer{}, newFakeWeightStore())

	_, err := service.SubmitRiskFeedback(context.Background(), "", "u1", "scam")
	assert.True(t, IsValidation(err))

	_, err = service.SubmitRiskFeedback(context.Background(), "m1", "", "scam")
	assert.True(t, IsValidation(err))
}

func TestParseVerdict(t *testing.T) {
	verdict, err := ParseVerdict("scam")
	require.NoError(t, err)
	assert.Equal(t, VerdictScam, verdict)

	verdict, err = ParseVerdict("legit")
	require.NoError(t, err)
	assert.Equal(t, VerdictLegit, verdict)

	_, err = ParseVerdict("phishy")
	assert.True(t, IsValidation(err))
}

package core

import (
	"context"
	"errors"
)

func testParams() ScoringParams {
	return ScoringParams{
		SuspiciousThreshold: 40,
		HighRiskThreshold:   80,
		HighRiskConfidence:  0.95,
		BaselineDivisor:     100,
		BaselineFloor:       0.3,
		BaselineCeiling:     0.9,
		AdjustmentBound:     0.15,
	}
}

var errStoreDown = errors.New("weight store down")

// fakeWeightStore is an in-memory WeightStore double with injectable
// failures
type fakeWeightStore struct {
	deltas   map[string]map[string]float64
	getErr   error
	applyErr error
	applied  []FeedbackEvent
	step     float64
	maxDelta float64
}

func newFakeWeightStore() *fakeWeightStore {
	return &fakeWeightStore{
		deltas:   make(map[string]map[string]float64),
		step:     0.03,
		maxDelta: 0.15,
	}
}

func (f *fakeWeightStore) seed(userID, featureKey string, delta float64) {
	if f.deltas[userID] == nil {
		f.deltas[userID] = make(map[string]float64)
	}
	f.deltas[userID][featureKey] = delta
}

func (f *fakeWeightStore) Get(_ context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	out := make(map[string]float64)
	for _, key := range featureKeys {
		if delta, ok := f.deltas[userID][key]; ok {
			out[key] = delta
		}
	}
	return out, nil
}

func (f *fakeWeightStore) ApplyFeedback(_ context.Context, userID, featureKey string, verdict Verdict) (float64, error) {
	if f.applyErr != nil {
		return 0, f.applyErr
	}
	step := f.step
	if verdict == VerdictLegit {
		step = -step
	}
	delta := f.deltas[userID][featureKey] + step
	if delta > f.maxDelta {
		delta = f.maxDelta
	}
	if delta < -f.maxDelta {
		delta = -f.maxDelta
	}
	f.seed(userID, featureKey, delta)
	f.applied = append(f.applied, FeedbackEvent{EmailID: "", UserID: userID, Verdict: verdict})
	return delta, nil
}

func (f *fakeWeightStore) Close() error { return nil }

// fakeEmailRepo serves a fixed document set
type fakeEmailRepo struct {
	docs map[string]*EmailDocument
}

func (f *fakeEmailRepo) Get(_ context.Context, emailID string) (*EmailDocument, error) {
	doc, ok := f.docs[emailID]
	if !ok {
		return nil, ErrEmailNotFound
	}
	return doc, nil
}

// fakeScorer returns a canned breakdown per document id
type fakeScorer struct {
	breakdowns map[string]ScoreBreakdown
}

func (f *fakeScorer) Score(_ context.Context, doc *EmailDocument) ScoreBreakdown {
	return f.breakdowns[doc.ID]
}

package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RiskService is the engine's single entry point: it combines the
// signal pipeline and the confidence adjuster into the externally
// consumed assessment shape, and feeds user verdicts back into the
// weight store.
type RiskService struct {
	emails         EmailRepository
	scorer         EmailScorer
	adjuster       *ConfidenceAdjuster
	store          WeightStore
	trustedDomains []string
	logger         *zap.Logger
}

// NewRiskService creates a new risk service
func NewRiskService(
	emails EmailRepository,
	scorer EmailScorer,
	adjuster *ConfidenceAdjuster,
	store WeightStore,
	trustedDomains []string,
	logger *zap.Logger,
) *RiskService {
	return &RiskService{
		emails:         emails,
		scorer:         scorer,
		adjuster:       adjuster,
		store:          store,
		trustedDomains: trustedDomains,
		logger:         logger,
	}
}

// isTrustedSender checks whether the sender's domain is on the
// operator-configured trust list
func (s *RiskService) isTrustedSender(from string) bool {
	parts := strings.Split(from, "@")
	if len(parts) != 2 {
		return false
	}
	domain := parts[1]

	for _, trusted := range s.trustedDomains {
		if strings.EqualFold(domain, trusted) {
			return true
		}
	}
	return false
}

// GetRiskAdvice computes a fresh assessment of one email for one user.
// An unknown email id is ErrEmailNotFound; a known email that triggers
// nothing is a valid zero-score assessment, not an error. Partial
// degradation (weight store down, enrichment absent) still produces a
// usable result with UsedFallback set.
func (s *RiskService) GetRiskAdvice(ctx context.Context, emailID, userID string) (*RiskAssessment, error) {
	if emailID == "" {
		return nil, &ValidationError{Field: "email_id", Reason: "must not be empty"}
	}

	doc, err := s.emails.Get(ctx, emailID)
	if err != nil {
		return nil, err
	}

	// Trust list first: mail from an operator-trusted domain skips the
	// signal pipeline entirely
	if s.isTrustedSender(doc.From) {
		s.logger.Info("Skipping risk assessment for trusted domain",
			zap.String("email_id", emailID),
			zap.String("from", doc.From),
			zap.String("action", "trust_bypass"))
		return &RiskAssessment{
			EmailID:      emailID,
			RawScore:     0,
			Suspicious:   false,
			Confidence:   1.0,
			ProcessingID: uuid.NewString(),
			ComputedAt:   time.Now().UTC(),
		}, nil
	}

	breakdown := s.scorer.Score(ctx, doc)
	confidence, usedFallback := s.adjuster.Adjust(ctx, userID, breakdown.RawScore, breakdown.FeatureKeys())

	assessment := &RiskAssessment{
		EmailID:      emailID,
		RawScore:     breakdown.RawScore,
		Suspicious:   breakdown.Suspicious,
		Explanations: breakdown.Explanations(),
		Confidence:   confidence,
		UsedFallback: usedFallback,
		ProcessingID: uuid.NewString(),
		ComputedAt:   time.Now().UTC(),
	}

	s.logger.Debug("Assessment completed",
		zap.String("email_id", emailID),
		zap.String("processing_id", assessment.ProcessingID),
		zap.Float64("raw_score", assessment.RawScore),
		zap.Bool("suspicious", assessment.Suspicious),
		zap.Float64("confidence", assessment.Confidence),
		zap.Bool("used_fallback", assessment.UsedFallback))

	return assessment, nil
}

// SubmitRiskFeedback folds one user verdict into the weight store. The
// triggered feature keys are derived by re-running the signal pipeline
// against the stored document. Feedback on an email unknown to the
// ingestion collaborator is acknowledged without touching any weights.
// Identical submissions are not deduplicated here; "one verdict per
// email per user" is an upstream constraint.
func (s *RiskService) SubmitRiskFeedback(ctx context.Context, emailID, userID, verdict string) (*FeedbackReceipt, error) {
	if emailID == "" {
		return nil, &ValidationError{Field: "email_id", Reason: "must not be empty"}
	}
	if userID == "" {
		return nil, &ValidationError{Field: "user_id", Reason: "must not be empty"}
	}
	parsed, err := ParseVerdict(verdict)
	if err != nil {
		return nil, err
	}

	doc, err := s.emails.Get(ctx, emailID)
	if err != nil {
		if errors.Is(err, ErrEmailNotFound) {
			s.logger.Info("Feedback acknowledged for unscoreable email",
				zap.String("email_id", emailID),
				zap.String("user_id", userID))
			return &FeedbackReceipt{EmailID: emailID, Accepted: true}, nil
		}
		return nil, err
	}

	// Advice for trusted senders never surfaces signals, so there is
	// nothing for the verdict to reinforce
	if s.isTrustedSender(doc.From) {
		return &FeedbackReceipt{EmailID: emailID, Accepted: true}, nil
	}

	breakdown := s.scorer.Score(ctx, doc)

	updated := make([]string, 0, len(breakdown.Triggered))
	for _, key := range breakdown.FeatureKeys() {
		delta, err := s.store.ApplyFeedback(ctx, userID, key, parsed)
		if err != nil {
			// Transient store trouble never rejects feedback; retry
			// policy lives outside this engine's synchronous boundary
			s.logger.Error("Failed to apply feedback to weight store",
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("feature_key", key))
			continue
		}
		updated = append(updated, key)
		s.logger.Debug("Feedback applied",
			zap.String("user_id", userID),
			zap.String("feature_key", key),
			zap.String("verdict", string(parsed)),
			zap.Float64("weight_delta", delta))
	}

	return &FeedbackReceipt{EmailID: emailID, Accepted: true, UpdatedKeys: updated}, nil
}

package core

import (
	"fmt"
	"time"
)

// AuthResults holds the enumerated outcomes of the standard email
// authentication checks as reported by the receiving MTA. Values are
// normalized lowercase strings: "pass", "fail", "neutral", "softfail",
// "none" or "" when the header was absent.
type AuthResults struct {
	SPF   string
	DKIM  string
	DMARC string
}

// Attachment is an attachment as declared by the message, filename and
// declared content type only. Attachment bodies are never inspected.
type Attachment struct {
	Filename    string
	ContentType string
}

// EmailDocument is the immutable input to the scoring pipeline. It is
// owned by the ingestion collaborator and read-only to this engine.
type EmailDocument struct {
	ID            string
	From          string
	DisplayName   string
	ReplyTo       string
	Subject       string
	Body          string
	Auth          AuthResults
	Attachments   []Attachment
	BrandMentions []string
	ReceivedAt    time.Time
}

// SignalResult is the outcome of a single signal extractor run against
// one document. A non-triggered signal carries a zero weight.
type SignalResult struct {
	Key         string
	Triggered   bool
	Weight      float64
	Explanation string
}

// ScoreBreakdown is the aggregator's output: the raw score, the
// suspicious verdict and the triggered signals sorted descending by
// weight (ties broken by extractor registration order).
type ScoreBreakdown struct {
	RawScore   float64
	Suspicious bool
	Triggered  []SignalResult
}

// Explanations returns the triggered signals' explanation strings in
// ranked order.
func (b ScoreBreakdown) Explanations() []string {
	out := make([]string, 0, len(b.Triggered))
	for _, sr := range b.Triggered {
		out = append(out, sr.Explanation)
	}
	return out
}

// FeatureKeys returns the feature keys of the triggered signals in
// ranked order.
func (b ScoreBreakdown) FeatureKeys() []string {
	out := make([]string, 0, len(b.Triggered))
	for _, sr := range b.Triggered {
		out = append(out, sr.Key)
	}
	return out
}

// RiskAssessment is the externally consumed result of scoring one email
// for one user. Assessments are computed fresh on every call and are
// not versioned history.
type RiskAssessment struct {
	EmailID      string
	RawScore     float64
	Suspicious   bool
	Explanations []string
	Confidence   float64
	UsedFallback bool
	ProcessingID string
	ComputedAt   time.Time
}

// UserWeight is one row of the per-user feedback adjustment table,
// keyed by (user id, feature key). WeightDelta stays within the
// configured bound, [-0.15, 0.15] by default.
type UserWeight struct {
	UserID      string
	FeatureKey  string
	WeightDelta float64
	SampleCount int64
	UpdatedAt   time.Time
}

// Verdict is a user's judgement on a scored email.
type Verdict string

const (
	VerdictScam  Verdict = "scam"
	VerdictLegit Verdict = "legit"
)

// ParseVerdict validates a raw verdict value. Anything other than the
// two literal values is a validation failure, never a silent no-op.
func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(s) {
	case VerdictScam:
		return VerdictScam, nil
	case VerdictLegit:
		return VerdictLegit, nil
	default:
		return "", &ValidationError{Field: "verdict", Reason: fmt.Sprintf("must be %q or %q, got %q", VerdictScam, VerdictLegit, s)}
	}
}

// FeedbackEvent is a transient record of one verdict submission. The
// engine consumes it to update UserWeight rows; durable audit logging
// is an external collaborator's concern.
type FeedbackEvent struct {
	EmailID     string
	UserID      string
	Verdict     Verdict
	SubmittedAt time.Time
}

// FeedbackReceipt acknowledges a feedback submission. Accepted is true
// even when the email is unknown to the ingestion collaborator; in that
// case UpdatedKeys is empty and no weights were touched.
type FeedbackReceipt struct {
	EmailID     string
	Accepted    bool
	UpdatedKeys []string
}

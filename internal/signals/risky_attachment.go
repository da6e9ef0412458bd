package signals

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
)

// RiskyAttachmentExtractor detects attachments with executable or
// macro-enabled filename extensions. Only the declared filename is
// inspected; archive contents are never opened.
type RiskyAttachmentExtractor struct {
	weight     float64
	extensions map[string]bool
}

// NewRiskyAttachmentExtractor creates the risky attachment extractor
func NewRiskyAttachmentExtractor(cfg config.SignalsConfig) *RiskyAttachmentExtractor {
	extensions := make(map[string]bool, len(cfg.RiskyExtensions))
	for _, ext := range cfg.RiskyExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = true
	}
	return &RiskyAttachmentExtractor{
		weight:     cfg.Weights[KeyRiskyAttachment],
		extensions: extensions,
	}
}

// Key returns the stable feature key
func (e *RiskyAttachmentExtractor) Key() string {
	return KeyRiskyAttachment
}

// Evaluate checks each attachment's filename extension
func (e *RiskyAttachmentExtractor) Evaluate(_ context.Context, doc *core.EmailDocument) core.SignalResult {
	if doc == nil {
		return core.SignalResult{Key: e.Key()}
	}

	var flagged []string
	for _, att := range doc.Attachments {
		ext := strings.ToLower(filepath.Ext(att.Filename))
		if ext != "" && e.extensions[ext] {
			flagged = append(flagged, att.Filename)
		}
	}

	if len(flagged) == 0 {
		return core.SignalResult{Key: e.Key()}
	}

	return core.SignalResult{
		Key:         e.Key(),
		Triggered:   true,
		Weight:      e.weight,
		Explanation: fmt.Sprintf("Carries high-risk attachment: %s", strings.Join(flagged, ", ")),
	}
}

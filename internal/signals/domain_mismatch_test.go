package signals

import (
	"context"
	"testing"

	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestDomainMismatchExtractor_Evaluate(t *testing.T) {
	extractor := NewDomainMismatchExtractor(testSignalsConfig(t))

	tests := []struct {
		name          string
		from          string
		displayName   string
		body          string
		mentions      []string
		expectTrigger bool
	}{
		{
			name:          "Brand in body, unrelated sender domain - should trigger",
			from:          "billing@secure-updates.net",
			body:          "Your PayPal account has been limited. Log in to restore access.",
			expectTrigger: true,
		},
		{
			name:          "Brand in body matching sender domain - no trigger",
			from:          "service@paypal.com",
			body:          "Your PayPal receipt is attached.",
			expectTrigger: false,
		},
		{
			name:          "Upstream-detected mention, unrelated domain - should trigger",
			from:          "noreply@delivery-centre.biz",
			mentions:      []string{"DHL"},
			body:          "Your parcel is waiting.",
			expectTrigger: true,
		},
		{
			name:          "Brand only in display name, unrelated domain - should trigger",
			from:          "support@random-host.org",
			displayName:   "Microsoft Support",
			body:          "Please review your account.",
			expectTrigger: true,
		},
		{
			name:          "No brand anywhere - no trigger",
			from:          "colleague@company.com",
			body:          "Lunch at noon?",
			expectTrigger: false,
		},
		{
			name:          "Missing sender address - no trigger",
			from:          "",
			body:          "Your PayPal account has been limited.",
			expectTrigger: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &core.EmailDocument{
				From:          tt.from,
				DisplayName:   tt.displayName,
				Body:          tt.body,
				BrandMentions: tt.mentions,
			}
			result := extractor.Evaluate(context.Background(), doc)

			assert.Equal(t, KeyDomainMismatch, result.Key)
			assert.Equal(t, tt.expectTrigger, result.Triggered)
			if tt.expectTrigger {
				assert.Equal(t, 25.0, result.Weight)
				assert.NotEmpty(t, result.Explanation)
			}
		})
	}
}

// Package enrichment provides domain-age lookups for the new_domain
// signal. The enrichment collaborator is optional: providers may be
// permanently unavailable, and every caller fails open on error.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// Disabled is the permanently unavailable provider used when no
// enrichment source is configured.
type Disabled struct{}

// NewDisabled creates the always-unavailable provider
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Age always reports the enrichment as unavailable
func (p *Disabled) Age(_ context.Context, _ string) (time.Duration, error) {
	return 0, core.ErrEnrichmentUnavailable
}

// Static serves registration ages from a fixed table, for tests and
// offline CLI runs.
type Static struct {
	ages map[string]time.Duration
}

// NewStatic creates a provider over a fixed domain-age table
func NewStatic(ages map[string]time.Duration) *Static {
	normalized := make(map[string]time.Duration, len(ages))
	for domain, age := range ages {
		normalized[strings.ToLower(strings.TrimSpace(domain))] = age
	}
	return &Static{ages: normalized}
}

// Age returns the fixed age for a domain, or unavailable
func (p *Static) Age(_ context.Context, domain string) (time.Duration, error) {
	age, ok := p.ages[strings.ToLower(domain)]
	if !ok {
		return 0, core.ErrEnrichmentUnavailable
	}
	return age, nil
}

// HTTPProvider queries a registration-data service over HTTP. The
// request carries an explicit timeout so a slow lookup can never stall
// an assessment; callers fail open on any error.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewHTTPProvider creates an HTTP domain-age provider
func NewHTTPProvider(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

// Age fetches the registration timestamp for a domain
func (p *HTTPProvider) Age(ctx context.Context, domain string) (time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/domain/%s", p.baseURL, domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build enrichment request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("Domain age lookup failed", zap.Error(err), zap.String("domain", domain))
		return 0, core.ErrEnrichmentUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.Debug("Domain age lookup returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("domain", domain))
		return 0, core.ErrEnrichmentUnavailable
	}

	var payload struct {
		RegisteredAt time.Time `json:"registered_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode enrichment response: %w", err)
	}
	if payload.RegisteredAt.IsZero() {
		return 0, core.ErrEnrichmentUnavailable
	}

	return time.Since(payload.RegisteredAt), nil
}

package signals

import (
	"testing"

	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/stretchr/testify/require"
)

// testSignalsConfig returns the default signal configuration, the same
// one shipped in the config defaults.
func testSignalsConfig(t *testing.T) config.SignalsConfig {
	t.Helper()
	cfg := config.NewFromViper(config.NewEmptyViper())
	signalsCfg, err := cfg.GetSignals()
	require.NoError(t, err)
	return signalsCfg
}

func testScoringConfig(t *testing.T) config.ScoringConfig {
	t.Helper()
	return config.NewFromViper(config.NewEmptyViper()).GetScoring()
}

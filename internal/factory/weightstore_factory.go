package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mailrisk/risk-engine/internal/adapters/weightstore"
	"github.com/mailrisk/risk-engine/internal/config"
	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// WeightStoreFactory creates weight stores based on configuration
type WeightStoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewWeightStoreFactory creates a new weight store factory
func NewWeightStoreFactory(cfg *config.Config, logger *zap.Logger) *WeightStoreFactory {
	return &WeightStoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateWeightStore creates a weight store based on the configuration
func (f *WeightStoreFactory) CreateWeightStore() (core.WeightStore, error) {
	storeCfg := f.cfg.GetWeightStore()
	learning := f.cfg.GetLearning()

	switch storeCfg.Type {
	case "memory":
		return weightstore.NewMemoryStore(learning.Step, learning.MaxDelta, f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return weightstore.NewSQLiteStore(storeCfg.SQLitePath, learning.Step, learning.MaxDelta, f.logger)
	case "mysql":
		return weightstore.NewMySQLStore(storeCfg.MySQLDSN, learning.Step, learning.MaxDelta, f.logger)
	case "postgres":
		return weightstore.NewPostgresStore(storeCfg.PostgresDSN, learning.Step, learning.MaxDelta, f.logger)
	case "redis":
		return weightstore.NewRedisStore(storeCfg.RedisURL, storeCfg.RedisKeyPrefix, learning.Step, learning.MaxDelta, f.logger)
	default:
		return nil, fmt.Errorf("unsupported weight store type: %s", storeCfg.Type)
	}
}

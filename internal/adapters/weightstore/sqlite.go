package weightstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mailrisk/risk-engine/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite implementation of the WeightStore interface
type SQLiteStore struct {
	db       *sql.DB
	step     float64
	maxDelta float64
	logger   *zap.Logger
}

// NewSQLiteStore creates a new SQLite weight store
func NewSQLiteStore(dbPath string, step, maxDelta float64, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_weights (
			user_id TEXT NOT NULL,
			feature_key TEXT NOT NULL,
			weight_delta REAL NOT NULL,
			sample_count INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, feature_key)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteStore{
		db:       db,
		step:     step,
		maxDelta: maxDelta,
		logger:   logger,
	}, nil
}

// Get retrieves the stored weight deltas for the given feature keys
func (s *SQLiteStore) Get(ctx context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	deltas := make(map[string]float64, len(featureKeys))
	if len(featureKeys) == 0 {
		return deltas, nil
	}

	placeholders := strings.Repeat("?,", len(featureKeys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, 0, len(featureKeys)+1)
	args = append(args, userID)
	for _, key := range featureKeys {
		args = append(args, key)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT feature_key, weight_delta
		FROM user_weights
		WHERE user_id = ? AND feature_key IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user weights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var delta float64
		if err := rows.Scan(&key, &delta); err != nil {
			return nil, fmt.Errorf("failed to scan user weight: %w", err)
		}
		deltas[key] = delta
	}
	return deltas, rows.Err()
}

// ApplyFeedback folds one verdict into the (userID, featureKey) row.
// SQLite serializes writers, so the single clamped upsert is atomic.
func (s *SQLiteStore) ApplyFeedback(ctx context.Context, userID, featureKey string, verdict core.Verdict) (float64, error) {
	step, err := signedStep(verdict, s.step)
	if err != nil {
		return 0, err
	}

	var delta float64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO user_weights (user_id, feature_key, weight_delta, sample_count, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(user_id, feature_key) DO UPDATE SET
			weight_delta = MIN(?, MAX(?, user_weights.weight_delta + ?)),
			sample_count = user_weights.sample_count + 1,
			updated_at = excluded.updated_at
		RETURNING weight_delta
	`, userID, featureKey, clampDelta(step, s.maxDelta), time.Now().UTC().Format(time.RFC3339),
		s.maxDelta, -s.maxDelta, step).Scan(&delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply feedback: %w", err)
	}

	return delta, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

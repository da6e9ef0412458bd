package weightstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL implementation of the WeightStore interface
type MySQLStore struct {
	db       *sql.DB
	step     float64
	maxDelta float64
	logger   *zap.Logger
}

// NewMySQLStore creates a new MySQL weight store
func NewMySQLStore(dsn string, step, maxDelta float64, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_weights (
			user_id VARCHAR(128) NOT NULL,
			feature_key VARCHAR(64) NOT NULL,
			weight_delta DOUBLE NOT NULL,
			sample_count BIGINT NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, feature_key)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &MySQLStore{
		db:       db,
		step:     step,
		maxDelta: maxDelta,
		logger:   logger,
	}, nil
}

// Get retrieves the stored weight deltas for the given feature keys
func (s *MySQLStore) Get(ctx context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	deltas := make(map[string]float64, len(featureKeys))
	if len(featureKeys) == 0 {
		return deltas, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(featureKeys)), ",")
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

// ApplyFeedback folds one verdict into the (userID, featureKey) row
// under a row-level lock, so concurrent submissions for the same pair
// never lose steps.
func (s *MySQLStore) ApplyFeedback(ctx context.Context, userID, featureKey string, verdict core.Verdict) (float64, error) {
	step, err := signedStep(verdict, s.step)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var delta float64
	err = tx.QueryRowContext(ctx, `
		SELECT weight_delta FROM user_weights
		WHERE user_id = ? AND feature_key = ?
		FOR UPDATE
	`, userID, featureKey).Scan(&delta)

	now := time.Now().UTC()
	switch {
	case err == sql.ErrNoRows:
		delta = clampDelta(step, s.maxDelta)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_weights (user_id, feature_key, weight_delta, sample_count, updated_at)
			VALUES (?, ?, ?, 1, ?)
		`, userID, featureKey, delta, now)
	case err == nil:
		delta = clampDelta(delta+step, s.maxDelta)
		_, err = tx.ExecContext(ctx, `
			UPDATE user_weights
			SET weight_delta = ?, sample_count = sample_count + 1, updated_at = ?
			WHERE user_id = ? AND feature_key = ?
		`, delta, now, userID, featureKey)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit feedback: %w", err)
	}
	return delta, nil
}

// Close closes the database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}

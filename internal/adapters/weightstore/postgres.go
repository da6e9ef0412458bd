package weightstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/mailrisk/risk-engine/internal/core"
	"go.uber.org/zap"
)

// PostgresStore is a PostgreSQL implementation of the WeightStore
// interface
type PostgresStore struct {
	db       *sql.DB
	step     float64
	maxDelta float64
	logger   *zap.Logger
}

// NewPostgresStore creates a new PostgreSQL weight store
func NewPostgresStore(connStr string, step, maxDelta float64, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_weights (
			user_id TEXT NOT NULL,
			feature_key TEXT NOT NULL,
			weight_delta DOUBLE PRECISION NOT NULL,
			sample_count BIGINT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, feature_key)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &PostgresStore{
		db:       db,
		step:     step,
		maxDelta: maxDelta,
		logger:   logger,
	}, nil
}

// Get retrieves the stored weight deltas for the given feature keys
func (s *PostgresStore) Get(ctx context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	deltas := make(map[string]float64, len(featureKeys))
	if len(featureKeys) == 0 {
		return deltas, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT feature_key, weight_delta
		FROM user_weights
		WHERE user_id = $1 AND feature_key = ANY($2)
	`, userID, pq.Array(featureKeys))
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
// The clamped upsert takes the row lock for the duration of the
// statement, so concurrent submissions for the same pair never lose
// steps.
func (s *PostgresStore) ApplyFeedback(ctx context.Context, userID, featureKey string, verdict core.Verdict) (float64, error) {
	step, err := signedStep(verdict, s.step)
	if err != nil {
		return 0, err
	}

	var delta float64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO user_weights (user_id, feature_key, weight_delta, sample_count, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (user_id, feature_key) DO UPDATE SET
			weight_delta = LEAST($4, GREATEST($5, user_weights.weight_delta + $6)),
			sample_count = user_weights.sample_count + 1,
			updated_at = NOW()
		RETURNING weight_delta
	`, userID, featureKey, clampDelta(step, s.maxDelta), s.maxDelta, -s.maxDelta, step).Scan(&delta)
	if err != nil {
		return 0, fmt.Errorf("failed to apply feedback: %w", err)
	}

	return delta, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

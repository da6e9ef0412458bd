package weightstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/mailrisk/risk-engine/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// applyScript performs the clamped step update server-side in one round
// trip, which makes concurrent submissions for the same pair atomic.
var applyScript = redis.NewScript(`
local delta = tonumber(redis.call('HGET', KEYS[1], 'weight_delta') or '0')
delta = delta + tonumber(ARGV[1])
local bound = tonumber(ARGV[2])
if delta > bound then delta = bound end
if delta < -bound then delta = -bound end
redis.call('HSET', KEYS[1], 'weight_delta', tostring(delta))
redis.call('HINCRBY', KEYS[1], 'sample_count', 1)
redis.call('HSET', KEYS[1], 'updated_at', ARGV[3])
return tostring(delta)
`)

// RedisStore is a Redis implementation of the WeightStore interface.
// Each (user, feature key) pair lives in its own hash under the
// configured key prefix.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	step      float64
	maxDelta  float64
	logger    *zap.Logger
}

// NewRedisStore creates a new Redis weight store
func NewRedisStore(redisURL, keyPrefix string, step, maxDelta float64, logger *zap.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		step:      step,
		maxDelta:  maxDelta,
		logger:    logger,
	}, nil
}

func (s *RedisStore) key(userID, featureKey string) string {
	return fmt.Sprintf("%s:%s:%s", s.keyPrefix, userID, featureKey)
}

// Get retrieves the stored weight deltas for the given feature keys
func (s *RedisStore) Get(ctx context.Context, userID string, featureKeys []string) (map[string]float64, error) {
	deltas := make(map[string]float64, len(featureKeys))
	if len(featureKeys) == 0 {
		return deltas, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(featureKeys))
	for i, key := range featureKeys {
		cmds[i] = pipe.HGet(ctx, s.key(userID, key), "weight_delta")
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to query user weights: %w", err)
	}

	for i, cmd := range cmds {
		raw, err := cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query user weights: %w", err)
		}
		delta, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			s.logger.Warn("Skipping corrupt weight entry",
				zap.String("key", s.key(userID, featureKeys[i])),
				zap.String("value", raw))
			continue
		}
		deltas[featureKeys[i]] = delta
	}
	return deltas, nil
}

// ApplyFeedback folds one verdict into the (userID, featureKey) hash
// via the server-side script
func (s *RedisStore) ApplyFeedback(ctx context.Context, userID, featureKey string, verdict core.Verdict) (float64, error) {
	step, err := signedStep(verdict, s.step)
	if err != nil {
		return 0, err
	}

	raw, err := applyScript.Run(ctx, s.client,
		[]string{s.key(userID, featureKey)},
		strconv.FormatFloat(step, 'f', -1, 64),
		strconv.FormatFloat(s.maxDelta, 'f', -1, 64),
		time.Now().UTC().Format(time.RFC3339),
	).Text()
	if err != nil {
		return 0, fmt.Errorf("failed to apply feedback: %w", err)
	}

	delta, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected script result %q: %w", raw, err)
	}
	return delta, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

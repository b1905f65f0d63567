package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisScoreStore implements service.ScoreStore on a redis hash per board.
// Increments go through HINCRBY so concurrent collectors cannot lose updates.
type RedisScoreStore struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// RedisConfig holds connection settings for the score store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisScoreStore connects to redis and verifies the connection.
func NewRedisScoreStore(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*RedisScoreStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisScoreStore{rdb: rdb, logger: logger}, nil
}

// Scores fetches the whole board hash in one round trip. Entries whose value
// is not an integer are skipped with a warning rather than failing the fetch.
func (s *RedisScoreStore) Scores(ctx context.Context, board string) (map[string]int64, error) {
	raw, err := s.rdb.HGetAll(ctx, board).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read board %s: %w", board, err)
	}

	scores := make(map[string]int64, len(raw))
	for key, value := range raw {
		n, parseErr := strconv.ParseInt(value, 10, 64)
		if parseErr != nil {
			s.logger.Warn("skipping malformed score", "board", board, "key", key, "value", value)
			continue
		}
		scores[key] = n
	}
	return scores, nil
}

// Increment atomically adds delta to key's score and returns the new total.
func (s *RedisScoreStore) Increment(ctx context.Context, board, key string, delta int64) (int64, error) {
	total, err := s.rdb.HIncrBy(ctx, board, key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment %s on board %s: %w", key, board, err)
	}
	return total, nil
}

// Close releases the redis connection.
func (s *RedisScoreStore) Close() error {
	return s.rdb.Close()
}

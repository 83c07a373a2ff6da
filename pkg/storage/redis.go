package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redhat-appstudio/statuspage-watcher/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one sorted set per stream; the score is the unix time in
// milliseconds an ID was inserted, which is what TTL expiry is measured against.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	key       string
	ttl       time.Duration
	now       func() time.Time
}

// NewRedisStore connects to Redis and validates connectivity.
func NewRedisStore(config RedisConfig, stream string, ttl time.Duration) (*RedisStore, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("Redis address is required")
	}

	redis.SetLogger(logger.NewRedisLogger())

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.Address,
		Password:     config.Password,
		DB:           config.Database,
		PoolSize:     4,
		MinIdleConns: 1,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Redis seen store connected to %s (stream: %s)", config.Address, stream)

	return newRedisStore(rdb, config.KeyPrefix, stream, ttl), nil
}

func newRedisStore(rdb *redis.Client, keyPrefix, stream string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	s := &RedisStore{
		client:    rdb,
		keyPrefix: keyPrefix,
		ttl:       ttl,
		now:       time.Now,
	}
	s.key = s.buildKey("seen", stream)
	return s
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// buildKey joins the prefix and parts with ':'
func (r *RedisStore) buildKey(parts ...string) string {
	var builder strings.Builder
	builder.WriteString(r.keyPrefix)
	for _, part := range parts {
		builder.WriteByte(':')
		builder.WriteString(part)
	}
	return builder.String()
}

func (r *RedisStore) Contains(ctx context.Context, id string) (bool, error) {
	score, err := r.client.ZScore(ctx, r.key, id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up incident %s: %w", id, err)
	}
	if r.ttl > 0 && int64(score) <= r.cutoff() {
		return false, nil
	}
	return true, nil
}

func (r *RedisStore) Insert(ctx context.Context, id string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, r.key, redis.Z{Score: float64(r.now().UnixMilli()), Member: id})
		if r.ttl > 0 {
			pipe.ZRemRangeByScore(ctx, r.key, "-inf", strconv.FormatInt(r.cutoff(), 10))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store incident %s: %w", id, err)
	}
	return nil
}

func (r *RedisStore) Len(ctx context.Context) (int, error) {
	if r.ttl > 0 {
		n, err := r.client.ZCount(ctx, r.key, "("+strconv.FormatInt(r.cutoff(), 10), "+inf").Result()
		if err != nil {
			return 0, fmt.Errorf("failed to count seen incidents: %w", err)
		}
		return int(n), nil
	}
	n, err := r.client.ZCard(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count seen incidents: %w", err)
	}
	return int(n), nil
}

// cutoff is the newest insert time, in unix milliseconds, that has expired.
func (r *RedisStore) cutoff() int64 {
	return r.now().Add(-r.ttl).UnixMilli()
}

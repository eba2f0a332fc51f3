package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "museumdash:identity:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings, failing fast when Redis is unreachable.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

type RedisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRepo(rdb *redis.Client, ttl time.Duration) *RedisRepo {
	return &RedisRepo{rdb: rdb, ttl: ttl}
}

func RedisKey(key string) string {
	return redisKeyPrefix + key
}

func (r *RedisRepo) Get(ctx context.Context, key string) (Identity, bool, error) {
	raw, err := r.rdb.Get(ctx, RedisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Identity{}, false, nil
		}
		return Identity{}, false, fmt.Errorf("get identity %q: %w", key, err)
	}

	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return Identity{}, false, fmt.Errorf("decode identity %q: %w", key, err)
	}
	id.Heritage = NormalizeHeritage(id.Heritage)
	return id, true, nil
}

// Put stores the identity document; the raw source payload is not kept in
// Redis, expiry is delegated to the key TTL.
func (r *RedisRepo) Put(ctx context.Context, key string, id Identity, _ []byte) error {
	if id.ResolvedAt.IsZero() {
		id.ResolvedAt = time.Now().UTC()
	}
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, RedisKey(key), b, r.ttl).Err()
}

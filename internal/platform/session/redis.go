// Package session holds the Redis-backed revocation list for issued
// session tokens. Tokens themselves are stateless; only revoked token IDs
// are kept server-side, each expiring together with the token it blocks.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"codequiz/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// TokenRevoker tracks session token IDs that must no longer be accepted.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisTokenRevoker struct {
	rdb *redis.Client
}

func NewRedisTokenRevoker(rdb *redis.Client) TokenRevoker {
	return &redisTokenRevoker{rdb: rdb}
}

func revocationKey(jti string) string {
	return "revoked_token:" + jti
}

func (r *redisTokenRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		// Already past its expiration, nothing to block.
		return nil
	}
	if err := r.rdb.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redisTokenRevoker.Revoke: %w", err)
	}
	return nil
}

func (r *redisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revocationKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("redisTokenRevoker.IsRevoked: %w", err)
	}
	return n > 0, nil
}

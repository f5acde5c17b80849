package adapter

import (
	"context"
	"errors"
	"time"

	"couples-sync/internal/cache"
	"couples-sync/internal/domain"
	"couples-sync/internal/dto"
	"couples-sync/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTokenStore implements domain.TokenStore using a Redis client.
type RedisTokenStore struct {
	client     *redis.Client
	defaultTTL time.Duration
	now        func() time.Time
}

// NewRedisTokenStore creates a new instance of RedisTokenStore.
// It expects a connected *redis.Client.
func NewRedisTokenStore(client *redis.Client, defaultTTL time.Duration) *RedisTokenStore {
	return &RedisTokenStore{client: client, defaultTTL: defaultTTL, now: time.Now}
}

func tokenKey(username string) string {
	return cache.GenerateCacheKey("session", "token", username)
}

// Save stores token under username. With ttl zero the TTL comes from the
// token's exp claim when it is a JWT, otherwise from the store default.
func (r *RedisTokenStore) Save(ctx context.Context, username string, token domain.Token, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = r.ttlFor(token)
	}
	return r.client.Set(ctx, tokenKey(username), string(token), ttl).Err()
}

// Load translates redis.Nil to domain.ErrTokenNotFound.
func (r *RedisTokenStore) Load(ctx context.Context, username string) (domain.Token, error) {
	val, err := r.client.Get(ctx, tokenKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrTokenNotFound
		}
		return "", err
	}
	return domain.Token(val), nil
}

func (r *RedisTokenStore) Delete(ctx context.Context, username string) error {
	return r.client.Del(ctx, tokenKey(username)).Err()
}

func (r *RedisTokenStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// ttlFor reads exp without verifying the signature; the store has no key and
// only needs a hint for when to forget the token.
func (r *RedisTokenStore) ttlFor(token domain.Token) time.Duration {
	claims := &dto.TokenClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(string(token), claims)
	if err != nil || claims.ExpiresAt == nil {
		return r.defaultTTL
	}
	remaining := claims.ExpiresAt.Sub(r.now())
	if remaining <= 0 {
		logger.Get().Debug("TokenStore: token already expired, using default TTL",
			zap.Time("expires_at", claims.ExpiresAt.Time))
		return r.defaultTTL
	}
	return remaining
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_id"

// SessionStore issues, validates, and destroys server-side sessions.
// Implementations must be safe for concurrent use, and Destroy must be
// linearizable with respect to Validate: once Destroy returns, no
// Validate on the same token may succeed.
type SessionStore interface {
	// Create binds a fresh opaque token to userID with the store's TTL.
	Create(ctx context.Context, userID string) (string, error)
	// Validate returns the bound user id, or "" if the token is
	// unknown, expired, or destroyed. The three cases are never
	// distinguished.
	Validate(ctx context.Context, token string) (string, error)
	// Destroy invalidates the token. Destroying an unknown or
	// already-destroyed token is not an error.
	Destroy(ctx context.Context, token string) error
}

// newToken returns 256 bits from crypto/rand, hex-encoded.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// RedisSessionStore keeps sessions in Redis so they survive restarts
// and are shared across server instances.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (s *RedisSessionStore) Create(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, "session:"+token, userID, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessionStore) Validate(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (s *RedisSessionStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}

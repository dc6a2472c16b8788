package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionCreateValidate(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, token, 64) // 32 random bytes, hex-encoded

	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestMemorySessionTokensUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := s.Create(ctx, "user-1")
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}

func TestMemorySessionUnknownToken(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	userID, err := s.Validate(ctx, "never-issued")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestMemorySessionExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	now := time.Now()
	s.now = func() time.Time { return now }

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	// Just before expiry the session is live.
	s.now = func() time.Time { return now.Add(time.Hour - time.Second) }
	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	// At expiry it looks exactly like an unknown token.
	s.now = func() time.Time { return now.Add(time.Hour) }
	userID, err = s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestMemorySessionDestroyIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, s.Destroy(ctx, token))
	userID, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)

	// Destroying again is not an error, and neither is destroying a
	// token that never existed.
	require.NoError(t, s.Destroy(ctx, token))
	require.NoError(t, s.Destroy(ctx, "never-issued"))
}

func TestMemorySessionConcurrentDestroyValidate(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)

	tokens := make([]string, 50)
	for i := range tokens {
		token, err := s.Create(ctx, "user-1")
		require.NoError(t, err)
		tokens[i] = token
	}

	var wg sync.WaitGroup
	for _, token := range tokens {
		wg.Add(2)
		go func(tok string) {
			defer wg.Done()
			_ = s.Destroy(ctx, tok)
		}(token)
		go func(tok string) {
			defer wg.Done()
			_, _ = s.Validate(ctx, tok)
		}(token)
	}
	wg.Wait()

	// After all destroys complete, no validate may succeed.
	for _, token := range tokens {
		userID, err := s.Validate(ctx, token)
		require.NoError(t, err)
		assert.Empty(t, userID)
	}
}

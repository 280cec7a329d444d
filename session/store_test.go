package session

import (
	"context"
	"testing"
	"time"

	"github.com/autowp/gopolls/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func createStore(t *testing.T) *Store {
	t.Helper()

	cfg := config.LoadConfig("..")

	options, err := redis.ParseURL(cfg.Redis)
	require.NoError(t, err)

	return NewStore(redis.NewClient(options), time.Hour)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := createStore(t)

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.UserID(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)

	err = store.Delete(ctx, token)
	require.NoError(t, err)

	_, err = store.UserID(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUnknownToken(t *testing.T) {
	store := createStore(t)

	_, err := store.UserID(context.Background(), "not-a-token")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	store := createStore(t)

	first, err := store.Create(ctx, 1)
	require.NoError(t, err)

	second, err := store.Create(ctx, 1)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"luis-provisioner/internal/common/config"
	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/luis"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, ttl time.Duration) (*AppStateStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedis(context.Background(), config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewAppStateStore(client, ttl), mr
}

func TestAppStateStore_RoundTrip(t *testing.T) {
	store, mr := newTestStore(t, 0)
	ctx := context.Background()

	app := luis.ApplicationInfo{ID: "app-123", Version: "0.1"}
	require.NoError(t, store.SaveApplication(ctx, "PictureBotLUIS", app))

	got, err := store.LoadApplication(ctx, "PictureBotLUIS")
	require.NoError(t, err)
	assert.Equal(t, app, got)
	assert.True(t, mr.Exists("luis-provisioner:app:PictureBotLUIS"))
}

func TestAppStateStore_LatestWins(t *testing.T) {
	store, _ := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.SaveApplication(ctx, "bot", luis.ApplicationInfo{ID: "first", Version: "0.1"}))
	require.NoError(t, store.SaveApplication(ctx, "bot", luis.ApplicationInfo{ID: "second", Version: "0.1"}))

	got, err := store.LoadApplication(ctx, "bot")
	require.NoError(t, err)
	assert.Equal(t, "second", got.ID)
}

func TestAppStateStore_Missing(t *testing.T) {
	store, _ := newTestStore(t, 0)

	_, err := store.LoadApplication(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeStateNotFound, apperrors.CodeOf(err))
}

func TestAppStateStore_TTL(t *testing.T) {
	store, mr := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.SaveApplication(ctx, "bot", luis.ApplicationInfo{ID: "a", Version: "0.1"}))
	assert.Equal(t, time.Hour, mr.TTL("luis-provisioner:app:bot"))

	mr.FastForward(2 * time.Hour)
	_, err := store.LoadApplication(ctx, "bot")
	assert.Equal(t, apperrors.ErrCodeStateNotFound, apperrors.CodeOf(err))
}

func TestNewRedis(t *testing.T) {
	_, err := NewRedis(context.Background(), config.RedisConfig{})
	assert.Equal(t, apperrors.ErrCodeConfigInvalid, apperrors.CodeOf(err))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewRedis(context.Background(), config.RedisConfig{Address: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state store")
}

func TestAppStateStore_RedisErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("get failure is wrapped", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		store := NewAppStateStore(&RedisClient{Client: redisClient}, 0)

		redisMock.ExpectGet("luis-provisioner:app:bot").SetErr(errors.New("connection refused"))

		_, err := store.LoadApplication(ctx, "bot")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load app state")
		assert.NotEqual(t, apperrors.ErrCodeStateNotFound, apperrors.CodeOf(err))
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("corrupt value", func(t *testing.T) {
		redisClient, redisMock := redismock.NewClientMock()
		store := NewAppStateStore(&RedisClient{Client: redisClient}, 0)

		redisMock.ExpectGet("luis-provisioner:app:bot").SetVal("not json")

		_, err := store.LoadApplication(ctx, "bot")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal app state")
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}

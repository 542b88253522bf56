package storage_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aaravmahajanofficial/teagram/internal/storage"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage(t *testing.T) {
	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := storage.NewFileStorage(path)
	require.NoError(t, err)

	t.Run("Missing key", func(t *testing.T) {
		_, err := s.Get(ctx, storage.AuthTokensKey)

		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Set survives a new instance", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, storage.ThemeKey, "dark"))
		require.NoError(t, s.Set(ctx, storage.AuthTokensKey, `{"accessToken":"a"}`))

		reopened, err := storage.NewFileStorage(path)
		require.NoError(t, err)

		value, err := reopened.Get(ctx, storage.ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "dark", value)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, storage.AuthTokensKey))
		require.NoError(t, s.Delete(ctx, storage.AuthTokensKey))

		_, err := s.Get(ctx, storage.AuthTokensKey)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		value, err := s.Get(ctx, storage.ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "dark", value)
	})

	t.Run("Corrupt file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := s.Get(ctx, storage.ThemeKey)

		assert.ErrorContains(t, err, "failed to parse storage file")
	})

	t.Run("Write recovers from a corrupt file", func(t *testing.T) {
		// Arrange
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		// Act
		err := s.Set(ctx, storage.ThemeKey, "light")

		// Assert
		require.NoError(t, err)
		value, err := s.Get(ctx, storage.ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "light", value)

		aside, err := os.ReadFile(path + ".corrupt")
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(aside))
	})
}

func TestMemoryStorage(t *testing.T) {
	ctx := t.Context()
	s := storage.NewMemoryStorage()

	require.NoError(t, s.Set(ctx, "k", "v"))

	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRedisStorage(t *testing.T) {
	ctx := t.Context()
	key := "teagram:storage:" + storage.AuthTokensKey

	t.Run("Get - Found", func(t *testing.T) {
		// Arrange
		client, mock := redismock.NewClientMock()
		s := storage.NewRedisStorage(client)
		mock.ExpectGet(key).SetVal(`{"accessToken":"a"}`)

		// Act
		value, err := s.Get(ctx, storage.AuthTokensKey)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, `{"accessToken":"a"}`, value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get - Missing", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := storage.NewRedisStorage(client)
		mock.ExpectGet(key).SetErr(redis.Nil)

		_, err := s.Get(ctx, storage.AuthTokensKey)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Get - Redis Error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := storage.NewRedisStorage(client)
		mock.ExpectGet(key).SetErr(errors.New("connection refused"))

		_, err := s.Get(ctx, storage.AuthTokensKey)

		assert.ErrorContains(t, err, "connection refused")
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Set and Delete", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		s := storage.NewRedisStorage(client)
		mock.ExpectSet(key, "v", 0).SetVal("OK")
		mock.ExpectDel(key).SetVal(1)

		require.NoError(t, s.Set(ctx, storage.AuthTokensKey, "v"))
		require.NoError(t, s.Delete(ctx, storage.AuthTokensKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

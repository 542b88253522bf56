package cache_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/cache"
	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const prefixed = "teagram:cache:"

func sampleProduct() models.Product {
	return models.Product{
		ID:       "dragonwell-green",
		Name:     "Лунцзин «Изумрудные листья»",
		Category: models.CategoryGreen,
		Tags:     []string{"Зелёный", "Ханчжоу"},
		Variants: []models.ProductVariant{{ID: "dragonwell-50", Weight: "50 г", Price: 450}},
	}
}

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{
		DefaultTTL: 10 * time.Minute,
	}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestRedisCacheGet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "dragonwell-green")
	product := sampleProduct()
	jsonData, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setup(t)
		var result models.Product

		mock.ExpectGet(prefixed + key).SetVal(string(jsonData))

		// Act
		found, err := redisCache.Get(ctx, key, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, product, result)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		var result models.Product

		mock.ExpectGet(prefixed + key).SetErr(redis.Nil)

		found, err := redisCache.Get(ctx, key, &result)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, result.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		var result models.Product
		expectedErr := errors.New("redis connection error")

		mock.ExpectGet(prefixed + key).SetErr(expectedErr)

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to get key %s from redis", key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshal Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		var result models.Product

		mock.ExpectGet(prefixed + key).SetVal(`{"id": "x", "variants": "not a list"}`)

		found, err := redisCache.Get(ctx, key, &result)

		require.Error(t, err)
		assert.False(t, found)
		var jsonErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheSet(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "dragonwell-green")
	product := sampleProduct()
	jsonData, err := json.Marshal(product)
	require.NoError(t, err)

	t.Run("Success - With Specific TTL", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		mock.ExpectSet(prefixed+key, jsonData, 5*time.Minute).SetVal("OK")

		err := redisCache.Set(ctx, key, product, 5*time.Minute)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Default TTL", func(t *testing.T) {
		redisCache, mock, cfg := setup(t)

		mock.ExpectSet(prefixed+key, jsonData, cfg.DefaultTTL).SetVal("OK")

		err := redisCache.Set(ctx, key, product, 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Marshal Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		err := redisCache.Set(ctx, key, make(chan int), time.Minute)

		require.Error(t, err)
		var jsonErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis SET failed")

		mock.ExpectSet(prefixed+key, jsonData, time.Minute).SetErr(expectedErr)

		err := redisCache.Set(ctx, key, product, time.Minute)

		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), fmt.Sprintf("failed to set key %s in redis", key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := t.Context()
	key := cache.Key(cache.ProductKeyPrefix, "dragonwell-green")

	t.Run("Success", func(t *testing.T) {
		redisCache, mock, _ := setup(t)

		mock.ExpectDel(prefixed + key).SetVal(1)

		require.NoError(t, redisCache.Delete(ctx, key))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		redisCache, mock, _ := setup(t)
		expectedErr := errors.New("redis DEL failed")

		mock.ExpectDel(prefixed + key).SetErr(expectedErr)

		err := redisCache.Delete(ctx, key)

		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product:sheng-puer", cache.Key(cache.ProductKeyPrefix, "sheng-puer"))
	assert.Equal(t, "categories:all", cache.Key(cache.CategoryKeyPrefix, "all"))
	assert.Equal(t, ":", cache.Key("", ""))
}

package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/cartkv-demo/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func startRedis(ctx context.Context) (*tcredis.RedisContainer, string, error) {
	redisContainer, err := tcredis.Run(ctx, "redis:7.4-alpine")
	if err != nil {
		return nil, "", fmt.Errorf("redis.Run: %w", err)
	}

	connStr, err := redisContainer.ConnectionString(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("rc.ConnectionString: %w", err)
	}

	return redisContainer, connStr, nil
}

// testStorage runs the behaviour every port.Storage implementation shares.
func testStorage(t *testing.T, storage port.Storage) {
	t.Run("get missing key: not found", func(t *testing.T) {
		_, err := storage.Get(t.Context(), uuid.NewString())
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("set then get: ok", func(t *testing.T) {
		ctx := t.Context()
		key := uuid.NewString()
		value := gofakeit.ProductDescription()

		require.NoError(t, storage.Set(ctx, key, value))

		got, err := storage.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("set overwrites previous value: ok", func(t *testing.T) {
		ctx := t.Context()
		key := uuid.NewString()

		require.NoError(t, storage.Set(ctx, key, `[{"id":"p1"}]`))
		require.NoError(t, storage.Set(ctx, key, `[]`))

		got, err := storage.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `[]`, got)
	})

	t.Run("remove: value gone", func(t *testing.T) {
		ctx := t.Context()
		key := uuid.NewString()

		require.NoError(t, storage.Set(ctx, key, gofakeit.Word()))
		require.NoError(t, storage.Remove(ctx, key))

		_, err := storage.Get(ctx, key)
		require.ErrorIs(t, err, port.ErrNotFound)
	})

	t.Run("remove missing key: ok", func(t *testing.T) {
		require.NoError(t, storage.Remove(t.Context(), uuid.NewString()))
	})

	t.Run("empty key: error", func(t *testing.T) {
		ctx := t.Context()

		_, err := storage.Get(ctx, "")
		require.EqualError(t, err, "key is empty")

		require.EqualError(t, storage.Set(ctx, "", "x"), "key is empty")
		require.EqualError(t, storage.Remove(ctx, ""), "key is empty")
	})
}

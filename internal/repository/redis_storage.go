package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/nikolayk812/cartkv-demo/internal/port"
)

type redisStorage struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) port.Storage {
	return &redisStorage{
		client: client,
	}
}

// WaitRedis pings the server with exponential backoff until it answers,
// maxElapsed passes or ctx is done.
func WaitRedis(ctx context.Context, client *redis.Client, maxElapsed time.Duration, log *slog.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed

	attempt := 0
	ping := func() error {
		attempt++

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis ping failed", slog.Int("attempt", attempt), slog.Any("err", err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(b, ctx)); err != nil {
		return fmt.Errorf("client.Ping: %w", err)
	}

	return nil
}

func (r *redisStorage) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}

	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (r *redisStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *redisStorage) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkv-demo/internal/config"
	"github.com/nikolayk812/cartkv-demo/internal/port"
	"github.com/nikolayk812/cartkv-demo/internal/repository"
)

const redisWaitTimeout = 30 * time.Second

func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (port.Storage, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return repository.NewMemory(), func() error { return nil }, nil

	case config.BackendLevelDB:
		storage, err := repository.NewLevelDB(cfg.LevelDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("repository.NewLevelDB: %w", err)
		}
		return storage, storage.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(redisOptions(cfg.RedisAddr))
		if err := repository.WaitRedis(ctx, client, redisWaitTimeout, log); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("repository.WaitRedis: %w", err)
		}
		return repository.NewRedis(client), client.Close, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository.Migrate: %w", err)
		}
		closePool := func() error {
			pool.Close()
			return nil
		}
		return repository.NewPostgres(pool), closePool, nil
	}

	return nil, nil, fmt.Errorf("backend[%s] is not supported", cfg.Backend)
}

// redisOptions accepts both redis:// URLs and bare host[:port] addresses.
func redisOptions(addr string) *redis.Options {
	if opts, err := redis.ParseURL(addr); err == nil {
		return opts
	}

	if !strings.Contains(addr, ":") {
		addr += ":6379"
	}

	return &redis.Options{
		Addr:         addr,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/nikolayk812/cartkv-demo/internal/cart"
	"golang.org/x/text/currency"
)

const (
	BackendLevelDB  = "leveldb"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	AppEnv   string
	LogLevel string

	Backend     string
	CartKey     string
	LevelDBPath string
	RedisAddr   string
	PostgresURL string

	Currency     currency.Unit
	WriteRetries uint64
}

// Load reads the configuration from the environment. Values from a .env file in
// the working directory are used for variables that are not already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	cur, err := currency.ParseISO(getEnv("CART_CURRENCY", "USD"))
	if err != nil {
		return Config{}, fmt.Errorf("CART_CURRENCY is not valid: %w", err)
	}

	retries, err := getEnvUint("CART_WRITE_RETRIES", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Backend:     getEnv("CART_BACKEND", BackendLevelDB),
		CartKey:     getEnv("CART_KEY", cart.DefaultKey),
		LevelDBPath: getEnv("LEVELDB_PATH", ".cartctl"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		PostgresURL: os.Getenv("POSTGRES_URL"),

		Currency:     cur,
		WriteRetries: retries,
	}

	switch cfg.Backend {
	case BackendLevelDB, BackendMemory:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return Config{}, fmt.Errorf("REDIS_ADDR is required")
		}
	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return Config{}, fmt.Errorf("POSTGRES_URL is required")
		}
	default:
		return Config{}, fmt.Errorf("CART_BACKEND[%s] is not supported", cfg.Backend)
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvUint(key string, def uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}

	return n, nil
}

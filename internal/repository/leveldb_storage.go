package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/cartkv-demo/internal/port"
	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStorage keeps values in an embedded LevelDB database on local disk.
type LevelDBStorage struct {
	db *leveldb.DB
}

func NewLevelDB(path string) (*LevelDBStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("path is empty")
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldb.OpenFile: %w", err)
	}

	return &LevelDBStorage{db: db}, nil
}

func (s *LevelDBStorage) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	value, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", port.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("db.Get: %w", err)
	}

	return string(value), nil
}

func (s *LevelDBStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		return fmt.Errorf("db.Put: %w", err)
	}

	return nil
}

func (s *LevelDBStorage) Remove(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("db.Delete: %w", err)
	}

	return nil
}

func (s *LevelDBStorage) Close() error {
	return s.db.Close()
}

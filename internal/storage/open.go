package storage

import (
	"context"
	"fmt"

	"github.com/annel0/blockslide/internal/config"
)

// Open создаёт репозиторий уровней по конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (LevelRepo, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryLevelRepo(), nil
	case "badger":
		repo, err := NewBadgerLevelRepo(cfg.DataPath)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "redis":
		repo, err := NewRedisLevelRepo(ctx, &RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisPrefix,
			TTL:       cfg.RedisTTL(),
		})
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mysql", "sqlite":
		repo, err := NewSQLLevelRepo(ctx, cfg.Backend, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

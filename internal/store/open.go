package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"docmanager/internal/cache"
	"docmanager/internal/config"
	"docmanager/internal/db"
)

// Open builds the Store selected by cfg.StoreDriver. The returned func
// releases the backend's connections.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.StoreDriver {
	case "memory":
		return New(NewMemoryBackend(), opts...), noop, nil

	case "redis":
		client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.RedisKeyPrefix)
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return New(NewRedisBackend(client), opts...), client.Close, nil

	case "mysql", "sqlite":
		gdb, err := openSQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		backend := NewGormBackend(gdb)
		if err := backend.Migrate(ctx); err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("sql handle: %w", err)
		}
		return New(backend, opts...), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openSQL(cfg *config.Config) (*gorm.DB, error) {
	if cfg.StoreDriver == "mysql" {
		return db.NewMySQL(cfg.MySQLDSN)
	}
	return db.NewSQLite(cfg.SQLitePath)
}

package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/benvon/joyjar/internal/config"
	"go.uber.org/zap"
)

// Open returns the slot selected by cfg.Storage
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Slot, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return NewMemorySlot(), nil
	case config.StorageFile:
		return NewFileSlot(cfg.DataDir, cfg.SlotKey)
	case config.StorageBadger:
		bc := DefaultBadgerConfig(filepath.Join(cfg.DataDir, "badger"))
		bc.Logger = log
		return OpenBadgerSlot(bc, cfg.SlotKey)
	case config.StorageRedis:
		return NewRedisSlot(ctx, cfg.RedisURL, cfg.SlotKey)
	case config.StoragePostgres:
		return OpenSQLSlot(ctx, DialectPostgres, cfg.DatabaseURL, cfg.SlotKey)
	case config.StorageSQLite:
		return OpenSQLSlot(ctx, DialectSQLite, cfg.SQLitePath(), cfg.SlotKey)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// Open builds the store selected by cfg and wraps it in a Corpus
func Open(ctx context.Context, cfg model.StoreConfig) (*Corpus, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		return NewInMemory(), nil

	case "postgres", "postgresql":
		if cfg.DSN == "" {
			return nil, fmt.Errorf("postgres store requires a dsn")
		}
		store, err := OpenPostgres(ctx, cfg.DSN, cfg.Table)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return New(store), nil

	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis store requires redis_addr")
		}
		store, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisKey)
		if err != nil {
			return nil, err
		}
		return New(store), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s (supported: memory, postgres, redis)", cfg.Backend)
	}
}

package main

import (
	"fmt"

	"bookstall/storage"

	"go.uber.org/zap"
)

// openStore opens the cart store selected by the configuration.
// --ephemeral overrides it with an in-memory store.
func openStore() (storage.Store, error) {
	opts := storage.Options{
		Backend:   cfg.StoreBackend,
		DBPath:    resolvePath(cfg.DBPath),
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	}
	if ephemeral {
		opts.Backend = storage.BackendMemory
	}

	store, err := storage.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Backend, err)
	}

	fields := []zap.Field{zap.String("backend", opts.Backend)}
	switch opts.Backend {
	case storage.BackendSQLite:
		fields = append(fields, zap.String("path", opts.DBPath))
	case storage.BackendRedis:
		fields = append(fields, zap.String("addr", opts.RedisAddr), zap.Int("db", opts.RedisDB))
	}
	logger.Info("cart store opened", fields...)
	return store, nil
}

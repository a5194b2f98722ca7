package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/storage/gormkv"
	"github.com/frahmantamala/hr-core/internal/storage/memory"
	"github.com/frahmantamala/hr-core/internal/storage/redis"
	"github.com/frahmantamala/hr-core/pkg/password"
)

// openBackend connects the key-value backend selected by storage.driver.
func openBackend(ctx context.Context, cfg internal.StorageConfig, logger *slog.Logger) (storage.Backend, error) {
	switch cfg.Driver {
	case internal.StorageDriverSQLite, internal.StorageDriverPostgres:
		open, dsn := gormkv.OpenSQLite, cfg.SQLitePath
		if cfg.Driver == internal.StorageDriverPostgres {
			open, dsn = gormkv.OpenPostgres, cfg.PostgresDSN
		}
		db, err := open(dsn)
		if err != nil {
			return nil, err
		}
		repo := gormkv.New(db)
		if cfg.AutoMigrate {
			if err := repo.AutoMigrate(); err != nil {
				_ = repo.Close()
				return nil, fmt.Errorf("failed to migrate kv table: %w", err)
			}
		}
		if err := repo.Ping(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("storage backend ready", "driver", cfg.Driver)
		return repo, nil

	case internal.StorageDriverRedis:
		rs := redis.New(redis.NewClient(redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}), cfg.Redis.Prefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		logger.Info("storage backend ready", "driver", cfg.Driver, "addr", cfg.Redis.Addr)
		return rs, nil

	case internal.StorageDriverMemory:
		logger.Warn("using in-memory storage, nothing survives a restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// openStore builds the state store on top of the configured backend.
func openStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger, bus *events.EventBus) (*state.Store, error) {
	backend, err := openBackend(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	var reader attendance.DeviceReader
	if cfg.Biometric.Reader == internal.BiometricReaderHTTP {
		reader = attendance.NewHTTPReader(cfg.Biometric.DeviceTimeout, logger)
	}

	store, err := state.Open(ctx, state.Options{
		Adapter:          storage.NewAdapter(backend, logger),
		Logger:           logger,
		Bus:              bus,
		Hasher:           password.NewHasher(cfg.Security.BCryptCost),
		Location:         cfg.Locale.Location(),
		LegacyAdminEmail: cfg.Admin.LegacyEmail,
		Reader:           reader,
		SyncerConfig: attendance.SyncerConfig{
			MaxConcurrency: cfg.Biometric.MaxConcurrency,
			DeviceTimeout:  cfg.Biometric.DeviceTimeout,
		},
	})
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}
	return store, nil
}

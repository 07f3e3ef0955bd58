package builder

import (
	"context"
	"fmt"

	"github.com/futig/qagen/internal/config"
	"github.com/futig/qagen/internal/repository"
	"github.com/futig/qagen/internal/telegram/state"
	"github.com/futig/qagen/internal/usecase/dataset"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// setupDatabase creates a new database connection pool
func setupDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MinConns = int32(cfg.DBMinConns)
	poolConfig.MaxConnLifetime = cfg.DBMaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.DBMaxConnIdleTime
	poolConfig.HealthCheckPeriod = cfg.DBHealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection pool established",
		zap.Int32("max_conns", poolConfig.MaxConns),
		zap.Int32("min_conns", poolConfig.MinConns),
		zap.Duration("max_conn_lifetime", poolConfig.MaxConnLifetime),
		zap.Duration("max_conn_idle_time", poolConfig.MaxConnIdleTime),
	)

	return pool, nil
}

// setupPersistence connects to Postgres and migrates it when DATABASE_URL
// is set. Otherwise runs and bot settings live in memory and the pool is nil.
func setupPersistence(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, dataset.RunRepository, state.Storage, error) {
	if cfg.DatabaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping run history in memory", zap.Duration("ttl", cfg.RunTTL))
		return nil, repository.NewRunCache(cfg.RunTTL, cfg.RunTTL/2), state.NewMemoryStorage(), nil
	}

	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup database: %w", err)
	}

	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL, logger); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	return db, repository.NewRunPostgres(db), repository.NewTelegramSettingsRepository(db), nil
}

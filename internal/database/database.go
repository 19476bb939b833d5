package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan-Zin/Taganrog-mobile-app/internal/config"
	"github.com/Dan-Zin/Taganrog-mobile-app/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store owns the connection pool. It is opened once at startup and closed at
// shutdown; request handlers borrow connections through DB.WithContext.
type Store struct {
	Pool  *pgxpool.Pool
	DB    *gorm.DB
	sqlDB *sql.DB
}

// Connect opens the pgx pool, wraps it with gorm and optionally bootstraps the schema.
func Connect(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = cfg.Database.MaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store, err := Open(pool, cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(ctx, store.DB, cfg.Geocoding); err != nil {
			store.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}
	return store, nil
}

// Open wraps an existing pool with gorm.
func Open(pool *pgxpool.Pool, cfg *config.AppConfig, log *zap.Logger) (*Store, error) {
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: newGormLogger(log, resolveLogLevel(cfg)),
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return &Store{Pool: pool, DB: db, sqlDB: sqlDB}, nil
}

// Ping checks that the store answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

// Close releases the sql.DB wrapper and then the pool itself.
func (s *Store) Close() {
	if s == nil {
		return
	}
	if s.sqlDB != nil {
		_ = s.sqlDB.Close()
	}
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func resolveLogLevel(cfg *config.AppConfig) logger.LogLevel {
	if cfg.IsDev() {
		return logger.Info
	}
	return logger.Warn
}

func newGormLogger(log *zap.Logger, level logger.LogLevel) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(level)
	}
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate enables PostGIS, creates the initiative tables and installs a
// fallback reverse-geocoding function when the database does not provide one.
func Migrate(ctx context.Context, db *gorm.DB, geo config.GeocodingConfig) error {
	db = db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		return fmt.Errorf("enable postgis: %w", err)
	}
	if err := db.AutoMigrate(&models.InitiativeModel{}, &models.MediaModel{}); err != nil {
		return err
	}
	// initiative_media.initiative_id -> initiatives.id ON DELETE CASCADE
	m := db.Migrator()
	if !m.HasConstraint(&models.InitiativeModel{}, "Media") {
		if err := m.CreateConstraint(&models.InitiativeModel{}, "Media"); err != nil {
			return fmt.Errorf("create media foreign key: %w", err)
		}
	}
	for _, stmt := range streetLookupStatements(geo) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install street lookup: %w", err)
		}
	}
	return nil
}

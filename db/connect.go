package db

import (
	"context"
	"fmt"
	"time"

	"user-registry/confs"
	"user-registry/logger"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens a pooled connection to Postgres and makes sure the users
// table exists before returning.
func Connect(ctx context.Context, cfg confs.DBConfig, log *logrus.Logger) (Database, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	log.WithField("without_returning", cfg.WithoutReturning).Info("connecting to database")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:              dsn,
		WithoutReturning: cfg.WithoutReturning,
	}), &gorm.Config{
		Logger:      logger.Gorm(log),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.WithFields(logrus.Fields{
		"max_open": cfg.MaxOpenConns,
		"max_idle": cfg.MaxIdleConns,
	}).Info("database connection established")

	database := &GormDatabase{DB: db}
	if err := EnsureSchema(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}
	log.Info("users table ready")

	return database, nil
}

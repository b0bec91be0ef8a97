package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the global general-store instance
var Store *gorm.DB

// OpenStore opens the embedded general store (non-sensitive key-value data)
func OpenStore(cfg *Config) (*gorm.DB, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	path := filepath.Join(cfg.DataDir, "shell.db")

	// Configure GORM logger based on mode
	var gormLogger logger.Interface
	if cfg.IsDev() {
		gormLogger = logger.Default.LogMode(logger.Warn)
	} else {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open general store: %w", err)
	}

	// Single writer; the embedded store does not need a pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Set global Store instance
	Store = db

	log.Printf("✅ General store opened [%s]", path)
	return db, nil
}

// CloseStore closes the general store
func CloseStore() error {
	if Store == nil {
		return nil
	}

	sqlDB, err := Store.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// StoreHealthCheck checks if the general store is healthy
func StoreHealthCheck() error {
	if Store == nil {
		return fmt.Errorf("general store not initialized")
	}

	sqlDB, err := Store.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

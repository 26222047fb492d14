package repositories

import (
	"fmt"
	"log"

	"task-tracker/backend/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DatabaseConfig struct {
	DSN      string
	LogLevel logger.LogLevel
}

func NewDatabaseConfig(cfg *config.Config) *DatabaseConfig {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}
	return &DatabaseConfig{
		DSN:      cfg.GetDatabaseDSN(),
		LogLevel: logLevel,
	}
}

func (c *DatabaseConfig) Connect() (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:                 logger.Default.LogMode(c.LogLevel),
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
	}

	db, err := gorm.Open(postgres.Open(c.DSN), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

package db

import (
	"fmt"

	"askboard/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to PostgreSQL and migrates the schema.
func Open(dsn string, logger *zap.SugaredLogger) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), Config(logger))
	if err != nil {
		logger.Errorw("failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connection established")

	if err := Migrate(conn); err != nil {
		logger.Errorw("failed to migrate database", "error", err)
		return nil, err
	}
	logger.Info("database migration completed")

	return conn, nil
}

// Config is shared by every dialector so duplicate-key errors surface as
// gorm.ErrDuplicatedKey regardless of the driver.
func Config(logger *zap.SugaredLogger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         NewGormLogger(logger),
	}
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.Profile{},
		&models.Question{},
		&models.Comment{},
		&models.UserUpvote{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

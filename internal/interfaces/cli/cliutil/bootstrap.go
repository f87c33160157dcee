// Package cliutil holds the start-up steps shared by the sub-commands.
package cliutil

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"integrationhub/internal/infrastructure/config"
	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/logger"
)

// LoadConfig resolves the environment (ENV wins over the flag) and loads the config.
func LoadConfig(configPath, env string) (*config.Config, string, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(configPath, env)
	if err != nil {
		return nil, env, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, env, nil
}

// InitLogger configures the process logger and returns the injectable interface.
func InitLogger(cfg *config.Config) (logger.Interface, error) {
	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.NewLogger(), nil
}

// OpenDatabase opens the configured store.
func OpenDatabase(cfg *config.Config, log logger.Interface) (*gorm.DB, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.Infow("database connected", "driver", cfg.Database.Driver)
	return db, nil
}

// MapEnvToGinMode translates a deployment environment into a gin mode.
func MapEnvToGinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", "release":
		return "release"
	case constants.EnvTest, "testing":
		return "test"
	default:
		return "debug"
	}
}

package migration

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"integrationhub/internal/shared/config"
	"integrationhub/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks the strategy for driver: versioned goose scripts for MySQL and
// PostgreSQL, gorm AutoMigrate for SQLite.
func NewManager(driver string) (*Manager, error) {
	var strategy Strategy
	switch driver {
	case config.DriverPostgres:
		strategy = NewGooseStrategy(goose.DialectPostgres, "scripts/postgres")
	case config.DriverMySQL:
		strategy = NewGooseStrategy(goose.DialectMySQL, "scripts/mysql")
	case config.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy()
	default:
		return nil, fmt.Errorf("no migration strategy for driver %q", driver)
	}
	return NewManagerWithStrategy(strategy), nil
}

// NewManagerWithStrategy creates a new migration manager with a specific strategy
func NewManagerWithStrategy(strategy Strategy) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   logger.NewLogger().With("component", "migration.manager"),
	}
}

// Migrate applies every pending migration
func (m *Manager) Migrate(ctx context.Context, db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Up(ctx, db); err != nil {
		m.logger.Errorw("migration failed",
			"strategy", m.strategy.GetName(),
			"error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Rollback reverts the last steps migrations
func (m *Manager) Rollback(ctx context.Context, db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	return m.strategy.Down(ctx, db, steps)
}

func (m *Manager) Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	return m.strategy.Status(ctx, db)
}

// GetStrategy returns the current migration strategy
func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}

package migration

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"integrationhub/internal/shared/logger"
)

//go:embed scripts
var scripts embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	// Up applies all pending migrations
	Up(ctx context.Context, db *gorm.DB) error
	// Down rolls back the given number of migrations
	Down(ctx context.Context, db *gorm.DB, steps int) error
	// Status describes what has been applied
	Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error)
	// GetName returns the strategy name
	GetName() string
}

// MigrationStatus is one row of `migrate status` output.
type MigrationStatus struct {
	Version int64
	Name    string
	Applied bool
}

// GooseStrategy runs the embedded versioned SQL scripts for a dialect.
type GooseStrategy struct {
	dialect goose.Dialect
	dir     string
	logger  logger.Interface
}

func NewGooseStrategy(dialect goose.Dialect, dir string) Strategy {
	return &GooseStrategy{
		dialect: dialect,
		dir:     dir,
		logger:  logger.NewLogger().With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	fsys, err := fs.Sub(scripts, s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration scripts %s: %w", s.dir, err)
	}
	p, err := goose.NewProvider(s.dialect, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

func (s *GooseStrategy) Up(ctx context.Context, db *gorm.DB) error {
	p, err := s.provider(db)
	if err != nil {
		return err
	}

	currentVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}
	s.logger.Infow("current migration status", "version", currentVersion)

	results, err := p.Up(ctx)
	if err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := p.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"applied", len(results),
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GooseStrategy) Down(ctx context.Context, db *gorm.DB, steps int) error {
	s.logger.Infow("starting down migration", "steps", steps)

	p, err := s.provider(db)
	if err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		if _, err := p.Down(ctx); err != nil {
			s.logger.Errorw("down migration failed", "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully")
	return nil
}

func (s *GooseStrategy) Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	p, err := s.provider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	out := make([]MigrationStatus, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, MigrationStatus{
			Version: st.Source.Version,
			Name:    st.Source.Path,
			Applied: st.State == goose.StateApplied,
		})
	}
	return out, nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

// GormAutoMigrateStrategy creates tables from the persistence models. Used for SQLite,
// which has no versioned scripts.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.automigrate"),
	}
}

func (s *GormAutoMigrateStrategy) Up(ctx context.Context, db *gorm.DB) error {
	models := AutoMigrateModels()
	s.logger.Infow("running gorm automigrate", "models_count", len(models))
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to automigrate: %w", err)
	}
	return nil
}

// Down drops the most recently declared tables first.
func (s *GormAutoMigrateStrategy) Down(ctx context.Context, db *gorm.DB, steps int) error {
	models := AutoMigrateModels()
	migrator := db.WithContext(ctx).Migrator()
	for i := len(models) - 1; i >= 0 && steps > 0; i-- {
		if !migrator.HasTable(models[i]) {
			continue
		}
		if err := migrator.DropTable(models[i]); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
		steps--
	}
	return nil
}

func (s *GormAutoMigrateStrategy) Status(ctx context.Context, db *gorm.DB) ([]MigrationStatus, error) {
	migrator := db.WithContext(ctx).Migrator()
	var out []MigrationStatus
	for i, model := range AutoMigrateModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse model: %w", err)
		}
		out = append(out, MigrationStatus{
			Version: int64(i + 1),
			Name:    stmt.Schema.Table,
			Applied: migrator.HasTable(model),
		})
	}
	return out, nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

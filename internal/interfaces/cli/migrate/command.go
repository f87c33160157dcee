package migrate

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"integrationhub/internal/infrastructure/database"
	"integrationhub/internal/infrastructure/migration"
	"integrationhub/internal/interfaces/cli/cliutil"
	"integrationhub/internal/shared/logger"
)

var (
	env        string
	configPath string
	steps      int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage database migrations: apply pending migrations, roll back, and show status.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display which migrations have been applied to the database.`,
		RunE:  runStatus,
	}
}

type migrateEnv struct {
	db      *gorm.DB
	manager *migration.Manager
	log     logger.Interface
}

func (m *migrateEnv) close() {
	if err := database.Close(m.db); err != nil {
		m.log.Warnw("failed to close database", "error", err)
	}
}

func initEnv() (*migrateEnv, error) {
	cfg, _, err := cliutil.LoadConfig(configPath, env)
	if err != nil {
		return nil, err
	}

	log, err := cliutil.InitLogger(cfg)
	if err != nil {
		return nil, err
	}

	manager, err := migration.NewManager(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	db, err := cliutil.OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}

	return &migrateEnv{db: db, manager: manager, log: log}, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	m, err := initEnv()
	if err != nil {
		return err
	}
	defer m.close()

	m.log.Infow("running up migrations", "environment", env, "strategy", m.manager.GetStrategy().GetName())

	if err := m.manager.Migrate(commandContext(cmd), m.db); err != nil {
		m.log.Errorw("migration failed", "error", err)
		return fmt.Errorf("migration failed: %w", err)
	}

	m.log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	m, err := initEnv()
	if err != nil {
		return err
	}
	defer m.close()

	m.log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := m.manager.Rollback(commandContext(cmd), m.db, steps); err != nil {
		m.log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	m.log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	m, err := initEnv()
	if err != nil {
		return err
	}
	defer m.close()

	statuses, err := m.manager.Status(commandContext(cmd), m.db)
	if err != nil {
		m.log.Errorw("failed to get migration status", "error", err)
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nMigration Status (%s):\n", m.manager.GetStrategy().GetName())
	writeStatus(cmd.OutOrStdout(), statuses)
	return nil
}

func writeStatus(w io.Writer, statuses []migration.MigrationStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tNAME\tAPPLIED")
	for _, s := range statuses {
		applied := "no"
		if s.Applied {
			applied = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Version, s.Name, applied)
	}
	_ = tw.Flush()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
